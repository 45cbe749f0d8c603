package pdfops

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/JaimeStill/pdf-lab/internal/faults"
)

// Extraction methods reported to callers.
const (
	MethodDirect = "direct"
	MethodOCR    = "ocr"
	MethodMixed  = "mixed"
)

// TextResult is the outcome of text extraction. DegradedPages lists pages for
// which neither the text layer nor OCR produced any text; their text is the
// placeholder from DegradedMarker.
type TextResult struct {
	Text          string
	Pages         int
	Method        string
	DegradedPages []int
}

// Degraded reports whether any page fell back to the placeholder.
func (r TextResult) Degraded() bool {
	return len(r.DegradedPages) > 0
}

// DegradedMarker is the placeholder text for a page without any text.
func DegradedMarker(page int) string {
	return fmt.Sprintf("[Page %d: No text detected]", page)
}

// PageText is the text found on one page and whether OCR produced it.
type PageText struct {
	Number int
	Text   string
	OCR    bool
}

// ExtractText reads the text layer of every page. When allowOCR is set and
// OCR is available, pages without a text layer are rendered and recognized.
func (s *Service) ExtractText(ctx context.Context, data []byte, allowOCR bool) (TextResult, error) {
	pages, err := directText(data)
	if err != nil {
		return TextResult{}, err
	}

	if allowOCR && s.CanOCR() {
		if err := s.ocrBlankPages(ctx, data, pages); err != nil {
			return TextResult{}, err
		}
	}

	return AssembleText(pages), nil
}

// AssembleText joins page texts in order, substituting the degraded marker
// for empty pages.
func AssembleText(pages []PageText) TextResult {
	result := TextResult{Pages: len(pages)}

	texts := make([]string, 0, len(pages))
	ocrPages := 0
	for _, p := range pages {
		if p.OCR {
			ocrPages++
		}

		text := strings.TrimSpace(p.Text)
		if text == "" {
			text = DegradedMarker(p.Number)
			result.DegradedPages = append(result.DegradedPages, p.Number)
		}
		texts = append(texts, text)
	}

	switch {
	case ocrPages == 0:
		result.Method = MethodDirect
	case ocrPages == len(pages):
		result.Method = MethodOCR
	default:
		result.Method = MethodMixed
	}

	result.Text = strings.Join(texts, "\n\n")
	return result
}

func directText(data []byte) (pages []PageText, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = faults.New(faults.Processing, fmt.Sprintf("text extraction failed: malformed document (%v)", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, failed("text extraction", err)
	}

	total := reader.NumPage()
	pages = make([]PageText, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		pt := PageText{Number: i}

		if !page.V.IsNull() {
			text, err := page.GetPlainText(nil)
			if err != nil {
				return nil, failed(fmt.Sprintf("text extraction on page %d", i), err)
			}
			pt.Text = text
		}
		pages = append(pages, pt)
	}

	return pages, nil
}

func (s *Service) ocrBlankPages(ctx context.Context, data []byte, pages []PageText) error {
	var blank []int
	for i, p := range pages {
		if strings.TrimSpace(p.Text) == "" {
			blank = append(blank, i)
		}
	}
	if len(blank) == 0 {
		return nil
	}

	numbers := make([]int, len(blank))
	for i, idx := range blank {
		numbers[i] = pages[idx].Number
	}

	images, err := s.rasterizer.Render(ctx, data, numbers, RenderOptions{DPI: s.ocrDPI, Format: "png"})
	if err != nil {
		return failed("render pages for ocr", err)
	}
	if len(images) != len(blank) {
		return faults.Newf(faults.Processing, "render pages for ocr: got %d images for %d pages", len(images), len(blank))
	}

	for i, idx := range blank {
		text, err := s.ocr.Recognize(ctx, images[i])
		if err != nil {
			s.logger.Warn("ocr failed", "page", pages[idx].Number, "error", err)
			continue
		}
		pages[idx].Text = text
		pages[idx].OCR = true
	}

	return nil
}
