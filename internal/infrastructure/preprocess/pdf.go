package preprocess

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/kirillkom/document-extractor/internal/core/domain"
)

// normalizePDF pulls the embedded raster images out of the PDF and runs each
// page's primary image through the same pipeline as a direct image upload.
// Scanned documents carry one full-page image per page; when a page holds
// several images, the lowest object number wins.
func (n *Normalizer) normalizePDF(ctx context.Context, data []byte) ([]domain.PageImage, error) {
	conf := model.NewDefaultConfiguration()

	pageImages, err := api.ExtractImagesRaw(bytes.NewReader(data), nil, conf)
	if err != nil {
		return nil, domain.WrapError(domain.ErrPreprocessing, "extract pdf images", err)
	}

	primaries := make([]model.Image, 0, len(pageImages))
	for _, byObj := range pageImages {
		objNrs := make([]int, 0, len(byObj))
		for objNr := range byObj {
			objNrs = append(objNrs, objNr)
		}
		if len(objNrs) == 0 {
			continue
		}
		sort.Ints(objNrs)
		primaries = append(primaries, byObj[objNrs[0]])
	}
	sort.Slice(primaries, func(i, j int) bool { return primaries[i].PageNr < primaries[j].PageNr })

	if len(primaries) == 0 {
		return nil, domain.WrapError(domain.ErrPreprocessing, "extract pdf images", fmt.Errorf("no page images found"))
	}

	pages := make([]domain.PageImage, 0, len(primaries))
	for _, img := range primaries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := io.ReadAll(img)
		if err != nil {
			return nil, domain.WrapError(domain.ErrPreprocessing, "read pdf image", err)
		}

		page, err := n.normalizeImage(raw, img.PageNr)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}

	slog.Debug("pdf_normalized", "pages", len(pages))
	return pages, nil
}
