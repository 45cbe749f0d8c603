// Package ocr recognizes text in rendered page images with the tesseract CLI.
package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Errors returned by the engine.
var (
	ErrUnavailable = errors.New("ocr engine unavailable")
	ErrRecognize   = errors.New("ocr recognition failed")
)

// Recognizer extracts text from an encoded image.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Tesseract runs the tesseract binary, feeding the image on stdin.
type Tesseract struct {
	binary   string
	language string
	timeout  time.Duration
}

// NewTesseract creates an engine. binary is the resolved tesseract path.
func NewTesseract(binary, language string, timeout time.Duration) *Tesseract {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{binary: binary, language: language, timeout: timeout}
}

// Recognize returns the text tesseract finds in image. The call is bounded by
// the engine timeout rather than ctx so an in-flight recognition is not cut
// short by a disconnecting client.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) (string, error) {
	if t.binary == "" {
		return "", ErrUnavailable
	}

	runCtx := context.WithoutCancel(ctx)
	if t.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, t.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, t.binary, "stdin", "stdout", "-l", t.language)
	cmd.Stdin = bytes.NewReader(image)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", ErrUnavailable
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: %s", ErrRecognize, msg)
		}
		return "", fmt.Errorf("%w: %v", ErrRecognize, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
