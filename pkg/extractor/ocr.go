package extractor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// OCRExtractor shells out to the tesseract CLI and reads the recognised text from stdout.
type OCRExtractor struct {
	binary string
}

func NewOCRExtractor(binary string) *OCRExtractor {
	if binary == "" {
		binary = "tesseract"
	}
	return &OCRExtractor{binary: binary}
}

func (e *OCRExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary, path, "stdout")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
