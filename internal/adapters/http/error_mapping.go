package httpadapter

import (
	"net/http"

	"github.com/kirillkom/document-extractor/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case domain.IsKind(err, domain.ErrUnknownTypeKey):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrUnsupportedType):
		return http.StatusNotImplemented
	case domain.IsKind(err, domain.ErrUnsupportedMedia),
		domain.IsKind(err, domain.ErrPreprocessing),
		domain.IsKind(err, domain.ErrClassificationAmbiguous),
		domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
