package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Engine recognizes text on an image
type Engine interface {
	Recognize(ctx context.Context, imageData []byte) (string, error)
}

// TesseractEngine shells out to the tesseract binary
type TesseractEngine struct {
	binary string
}

// NewTesseractEngine creates an engine using the given tesseract binary path
func NewTesseractEngine(binary string) *TesseractEngine {
	if binary == "" {
		binary = "tesseract"
	}
	return &TesseractEngine{binary: binary}
}

var _ Engine = (*TesseractEngine)(nil)

// Recognize writes the image to a temp file and runs tesseract over it
func (e *TesseractEngine) Recognize(ctx context.Context, imageData []byte) (string, error) {
	tmp, err := os.CreateTemp("", "receipt-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(imageData); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary, tmp.Name(), "stdout")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract failed on %s: %w: %s",
			filepath.Base(tmp.Name()), err, stderr.String())
	}

	return stdout.String(), nil
}
