package pdfops

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Page number text: pdfcpu substitutes %p with the page number and %P with
// the page count.
const pageNumberText = "%p/%P"

// Anchors in pdfcpu's position vocabulary.
var anchors = map[string]string{
	"center":        "c",
	"top-left":      "tl",
	"top-center":    "tc",
	"top-right":     "tr",
	"bottom-left":   "bl",
	"bottom-center": "bc",
	"bottom-right":  "br",
}

// Page number offsets from each anchor, in points (half an inch from the
// page edge).
var pageNumberOffsets = map[string]string{
	"top-left":      "36 -36",
	"top-center":    "0 -36",
	"top-right":     "-36 -36",
	"bottom-left":   "36 36",
	"bottom-center": "0 36",
	"bottom-right":  "-36 36",
}

// Watermark stamps text diagonally across every page.
func (s *Service) Watermark(data []byte, text string, opacity float64, position string) ([]byte, error) {
	desc := fmt.Sprintf(
		"fontname:Helvetica, points:48, scalefactor:1 abs, rotation:45, fillcolor:#808080, opacity:%.2f, position:%s",
		opacity, anchor(position),
	)

	wm, err := api.TextWatermark(text, desc, true, false, types.POINTS)
	if err != nil {
		return nil, failed("prepare watermark", err)
	}

	return s.stamp(data, wm, "watermark")
}

// NumberPages adds "n/total" to every page at position.
func (s *Service) NumberPages(data []byte, position string) ([]byte, error) {
	offset, ok := pageNumberOffsets[position]
	if !ok {
		offset = "0 0"
	}

	desc := fmt.Sprintf(
		"fontname:Helvetica, points:10, scalefactor:1 abs, rotation:0, fillcolor:#000000, opacity:1, position:%s, offset:%s",
		anchor(position), offset,
	)

	wm, err := api.TextWatermark(pageNumberText, desc, true, false, types.POINTS)
	if err != nil {
		return nil, failed("prepare page numbers", err)
	}

	return s.stamp(data, wm, "page numbering")
}

func (s *Service) stamp(data []byte, wm *model.Watermark, op string) ([]byte, error) {
	var out bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(data), &out, nil, wm, configuration()); err != nil {
		return nil, failed(op, err)
	}
	return out.Bytes(), nil
}

func anchor(position string) string {
	if a, ok := anchors[position]; ok {
		return a
	}
	return "c"
}
