package ocr_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JaimeStill/pdf-lab/internal/ocr"
)

func TestTesseract_NoBinary(t *testing.T) {
	engine := ocr.NewTesseract("", "eng", time.Second)

	_, err := engine.Recognize(context.Background(), []byte("png"))
	if !errors.Is(err, ocr.ErrUnavailable) {
		t.Errorf("Recognize() error = %v, want ErrUnavailable", err)
	}
}

func TestTesseract_MissingBinary(t *testing.T) {
	engine := ocr.NewTesseract("/nonexistent/bin/tesseract", "", time.Second)

	if _, err := engine.Recognize(context.Background(), []byte("png")); err == nil {
		t.Error("Recognize() with a missing binary should fail")
	}
}

func TestTesseract_ImplementsRecognizer(t *testing.T) {
	var _ ocr.Recognizer = ocr.NewTesseract("tesseract", "eng", 0)
}
