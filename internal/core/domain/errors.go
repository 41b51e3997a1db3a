package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrPreprocessing           = errors.New("preprocessing failed")
	ErrPayloadTooLarge         = errors.New("payload too large")
	ErrUnsupportedMedia        = errors.New("unsupported media type")
	ErrClassificationAmbiguous = errors.New("classification ambiguous")
	ErrUnsupportedType         = errors.New("unsupported document type")
	ErrUnknownTypeKey          = errors.New("unknown document type key")
	ErrTemporary               = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
