// Package extractor pulls plain text out of uploaded documents. The format is
// chosen from the file extension alone.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrUnsupported = errors.New("unsupported file format")

type Format string

const (
	FormatPDF    Format = "pdf"
	FormatSlides Format = "slides"
	FormatImage  Format = "image"
)

var extensions = map[string]Format{
	".pdf":  FormatPDF,
	".ppt":  FormatSlides,
	".pptx": FormatSlides,
	".jpg":  FormatImage,
	".jpeg": FormatImage,
	".png":  FormatImage,
	".bmp":  FormatImage,
	".tiff": FormatImage,
}

// FormatExtractor reads one document format.
type FormatExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// FormatOf resolves the format for a file name, ignoring extension case.
func FormatOf(name string) (Format, bool) {
	f, ok := extensions[strings.ToLower(filepath.Ext(name))]
	return f, ok
}

func IsSupported(name string) bool {
	_, ok := FormatOf(name)
	return ok
}

// Dispatcher routes a path to the extractor registered for its format.
type Dispatcher struct {
	extractors map[Format]FormatExtractor
}

func NewDispatcher(pdf, slides, image FormatExtractor) *Dispatcher {
	return &Dispatcher{extractors: map[Format]FormatExtractor{
		FormatPDF:    pdf,
		FormatSlides: slides,
		FormatImage:  image,
	}}
}

// NewDefaultDispatcher wires the PDF reader, the PPTX reader and tesseract OCR.
func NewDefaultDispatcher(tesseractPath string) *Dispatcher {
	return NewDispatcher(NewPDFExtractor(), NewSlidesExtractor(), NewOCRExtractor(tesseractPath))
}

// Extract returns ErrUnsupported for unknown extensions. Any other failure,
// including a panic inside a parser, is returned as a wrapped error.
func (d *Dispatcher) Extract(ctx context.Context, path string) (text string, err error) {
	format, ok := FormatOf(path)
	if !ok {
		return "", ErrUnsupported
	}
	ex, ok := d.extractors[format]
	if !ok || ex == nil {
		return "", ErrUnsupported
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("extract %s: parser panic: %v", format, r)
		}
	}()

	text, err = ex.ExtractText(ctx, path)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", format, err)
	}
	return text, nil
}
