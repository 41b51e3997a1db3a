package preprocess

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/kirillkom/document-extractor/internal/core/domain"
)

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func newTestNormalizer(maxBytes int64, maxDim int) *Normalizer {
	return NewNormalizer(maxBytes, maxDim, 95, []string{"image/jpeg", "image/png", "image/tiff", "application/pdf"})
}

func TestNormalizePassesSmallImageThrough(t *testing.T) {
	n := newTestNormalizer(1<<20, 2000)

	pages, err := n.Normalize(context.Background(), testPNG(t, 320, 240), "image/png")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}

	page := pages[0]
	if page.Page != 1 || page.MIMEType != "image/jpeg" {
		t.Fatalf("unexpected page metadata %+v", page)
	}
	if page.Width != 320 || page.Height != 240 {
		t.Fatalf("expected 320x240 unchanged, got %dx%d", page.Width, page.Height)
	}

	raw, err := base64.StdEncoding.DecodeString(page.Base64)
	if err != nil {
		t.Fatalf("decode page payload: %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(raw)); err != nil {
		t.Fatalf("payload is not a valid jpeg: %v", err)
	}
}

func TestNormalizeDownscalesPreservingAspectRatio(t *testing.T) {
	n := newTestNormalizer(1<<20, 100)

	pages, err := n.Normalize(context.Background(), testPNG(t, 300, 100), "image/png")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	page := pages[0]
	if page.Width != 100 {
		t.Fatalf("expected width 100, got %d", page.Width)
	}
	if page.Height != 33 {
		t.Fatalf("expected height 33, got %d", page.Height)
	}
}

func TestNormalizeRejectsOversizedPayload(t *testing.T) {
	n := newTestNormalizer(64, 2000)

	_, err := n.Normalize(context.Background(), testPNG(t, 320, 240), "image/png")
	if !domain.IsKind(err, domain.ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestNormalizeRejectsUnsupportedMediaType(t *testing.T) {
	n := newTestNormalizer(1<<20, 2000)

	_, err := n.Normalize(context.Background(), testPNG(t, 10, 10), "text/plain")
	if !domain.IsKind(err, domain.ErrUnsupportedMedia) {
		t.Fatalf("expected ErrUnsupportedMedia, got %v", err)
	}
}

func TestNormalizeRejectsEmptyPayload(t *testing.T) {
	n := newTestNormalizer(1<<20, 2000)

	_, err := n.Normalize(context.Background(), nil, "image/png")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNormalizeRejectsUndecodableImage(t *testing.T) {
	n := newTestNormalizer(1<<20, 2000)

	_, err := n.Normalize(context.Background(), []byte("not an image at all"), "image/png")
	if !domain.IsKind(err, domain.ErrPreprocessing) {
		t.Fatalf("expected ErrPreprocessing, got %v", err)
	}
}

func TestNormalizeAcceptsContentTypeParametersAndAliases(t *testing.T) {
	n := newTestNormalizer(1<<20, 2000)

	cases := []string{"image/png; charset=binary", "IMAGE/PNG"}
	for _, ct := range cases {
		if _, err := n.Normalize(context.Background(), testPNG(t, 10, 10), ct); err != nil {
			t.Fatalf("content type %q: %v", ct, err)
		}
	}

	if got := canonicalMediaType("image/jpg"); got != "image/jpeg" {
		t.Fatalf("expected image/jpg alias to map to image/jpeg, got %q", got)
	}
}

func TestNormalizeRejectsGarbagePDF(t *testing.T) {
	n := newTestNormalizer(1<<20, 2000)

	_, err := n.Normalize(context.Background(), []byte("%PDF-1.4 garbage"), "application/pdf")
	if !domain.IsKind(err, domain.ErrPreprocessing) {
		t.Fatalf("expected ErrPreprocessing, got %v", err)
	}
}
