package adapters

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ap-reconciler/backend/internal/application/adapter"
)

const (
	defaultMaxImageDimension = 2048
	jpegQuality              = 90
)

// imagePreprocessor implements adapter.ImagePreprocessor with disintegration/imaging.
type imagePreprocessor struct {
	maxDimension int
}

// NewImagePreprocessor creates a preprocessor that fits images within maxDimension pixels.
func NewImagePreprocessor(maxDimension int) adapter.ImagePreprocessor {
	if maxDimension <= 0 {
		maxDimension = defaultMaxImageDimension
	}
	return &imagePreprocessor{maxDimension: maxDimension}
}

// Prepare decodes the image, applies EXIF orientation, downscales it to the max
// dimension, lifts contrast slightly, and re-encodes it as JPEG.
func (p *imagePreprocessor) Prepare(doc adapter.Document) (adapter.Document, error) {
	if !doc.IsImage() {
		return doc, nil
	}

	src, err := imaging.Decode(bytes.NewReader(doc.Content), imaging.AutoOrientation(true))
	if err != nil {
		return doc, fmt.Errorf("failed to decode image: %w", err)
	}

	img := src
	bounds := src.Bounds()
	if bounds.Dx() > p.maxDimension || bounds.Dy() > p.maxDimension {
		img = imaging.Fit(img, p.maxDimension, p.maxDimension, imaging.Lanczos)
	}
	img = imaging.AdjustContrast(img, 10)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return doc, fmt.Errorf("failed to encode image: %w", err)
	}

	name := doc.Filename
	if name != "" {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
	}
	return adapter.Document{
		Filename: name,
		MIMEType: "image/jpeg",
		Content:  buf.Bytes(),
	}, nil
}
