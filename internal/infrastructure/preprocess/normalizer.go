// Package preprocess turns an uploaded file into model-ready page images:
// decoded, downscaled to a bounded dimension, re-encoded as JPEG, and
// base64-encoded for the oracle request.
package preprocess

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log/slog"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"github.com/kirillkom/document-extractor/internal/core/domain"
)

const pdfContentType = "application/pdf"

type Normalizer struct {
	maxBytes     int64
	maxDimension int
	jpegQuality  int
	accepted     map[string]struct{}
}

func NewNormalizer(maxBytes int64, maxDimension, jpegQuality int, acceptedMIMETypes []string) *Normalizer {
	accepted := make(map[string]struct{}, len(acceptedMIMETypes))
	for _, mt := range acceptedMIMETypes {
		mt = strings.ToLower(strings.TrimSpace(mt))
		if mt != "" {
			accepted[mt] = struct{}{}
		}
	}
	return &Normalizer{
		maxBytes:     maxBytes,
		maxDimension: maxDimension,
		jpegQuality:  jpegQuality,
		accepted:     accepted,
	}
}

// Normalize gates the upload on size and media type, then produces one
// PageImage per page. Images always yield exactly one page; PDFs yield one
// per embedded page image.
func (n *Normalizer) Normalize(ctx context.Context, data []byte, contentType string) ([]domain.PageImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "normalize upload", fmt.Errorf("empty file"))
	}
	if n.maxBytes > 0 && int64(len(data)) > n.maxBytes {
		return nil, domain.WrapError(
			domain.ErrPayloadTooLarge,
			"normalize upload",
			fmt.Errorf("file size %d exceeds limit %d", len(data), n.maxBytes),
		)
	}

	mediaType := canonicalMediaType(contentType)
	if _, ok := n.accepted[mediaType]; !ok {
		return nil, domain.WrapError(
			domain.ErrUnsupportedMedia,
			"normalize upload",
			fmt.Errorf("content type %q is not accepted", contentType),
		)
	}

	if mediaType == pdfContentType {
		return n.normalizePDF(ctx, data)
	}

	page, err := n.normalizeImage(data, 1)
	if err != nil {
		return nil, err
	}
	return []domain.PageImage{page}, nil
}

func (n *Normalizer) normalizeImage(data []byte, pageNr int) (domain.PageImage, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return domain.PageImage{}, domain.WrapError(domain.ErrPreprocessing, "decode image", err)
	}

	scaled := n.downscale(src)
	bounds := scaled.Bounds()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: n.jpegQuality}); err != nil {
		return domain.PageImage{}, domain.WrapError(domain.ErrPreprocessing, "encode image", err)
	}

	slog.Debug("image_normalized",
		"page", pageNr,
		"source_format", format,
		"width", bounds.Dx(),
		"height", bounds.Dy(),
		"encoded_bytes", buf.Len(),
	)

	return domain.PageImage{
		Page:     pageNr,
		MIMEType: "image/jpeg",
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Base64:   base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// downscale shrinks an image so its longest side fits maxDimension, keeping
// aspect ratio. Images already within bounds pass through untouched.
func (n *Normalizer) downscale(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if n.maxDimension <= 0 || (w <= n.maxDimension && h <= n.maxDimension) {
		return src
	}

	var dw, dh int
	if w >= h {
		dw = n.maxDimension
		dh = h * n.maxDimension / w
	} else {
		dh = n.maxDimension
		dw = w * n.maxDimension / h
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	return dst
}

func canonicalMediaType(contentType string) string {
	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	if mediaType == "image/jpg" {
		return "image/jpeg"
	}
	return mediaType
}
