package capture

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// TesseractOCR extracts text by shelling out to the tesseract binary.
type TesseractOCR struct {
	binary    string
	languages string
}

// NewTesseractOCR creates an OCR engine around the given binary and
// language set. Empty arguments fall back to "tesseract" and "eng".
func NewTesseractOCR(binary, languages string) *TesseractOCR {
	if binary == "" {
		binary = "tesseract"
	}
	if languages == "" {
		languages = "eng"
	}
	return &TesseractOCR{binary: binary, languages: languages}
}

// Text runs OCR over an encoded image and returns the recognized text,
// trimmed. An image with no recognizable text yields "" without error.
func (t *TesseractOCR) Text(ctx context.Context, image []byte) (string, error) {
	cmd := exec.CommandContext(ctx, t.binary, "stdin", "stdout", "-l", t.languages, "--psm", "3")
	cmd.Stdin = bytes.NewReader(image)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSpace(out.String()), nil
}
