package pdfops

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/JaimeStill/pdf-lab/internal/validation"
)

// Merge concatenates docs in order.
func (s *Service) Merge(docs [][]byte) ([]byte, error) {
	readers := make([]io.ReadSeeker, len(docs))
	for i, d := range docs {
		readers[i] = bytes.NewReader(d)
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, configuration()); err != nil {
		return nil, failed("merge", err)
	}
	return out.Bytes(), nil
}

// Split extracts each range into its own document, named part_N.pdf in input
// order.
func (s *Service) Split(data []byte, ranges []validation.PageRange) ([]Part, error) {
	parts := make([]Part, 0, len(ranges))

	for i, r := range ranges {
		var out bytes.Buffer
		if err := api.Trim(bytes.NewReader(data), &out, []string{r.Selector()}, configuration()); err != nil {
			return nil, failed(fmt.Sprintf("split range %s", r.Selector()), err)
		}
		parts = append(parts, Part{
			Name: fmt.Sprintf("part_%d.pdf", i+1),
			Data: out.Bytes(),
		})
	}

	return parts, nil
}

// Reorder builds a document whose pages follow order. Pages may repeat.
func (s *Service) Reorder(data []byte, order []int) ([]byte, error) {
	selected := make([]string, len(order))
	for i, p := range order {
		selected[i] = strconv.Itoa(p)
	}

	var out bytes.Buffer
	if err := api.Collect(bytes.NewReader(data), &out, selected, configuration()); err != nil {
		return nil, failed("reorder", err)
	}
	return out.Bytes(), nil
}

// Rotate turns the selected pages clockwise by angle. Nil ranges rotate every page.
func (s *Service) Rotate(data []byte, angle int, ranges []validation.PageRange) ([]byte, error) {
	var selected []string
	for _, r := range ranges {
		selected = append(selected, r.Selector())
	}

	var out bytes.Buffer
	if err := api.Rotate(bytes.NewReader(data), &out, angle, selected, configuration()); err != nil {
		return nil, failed("rotate", err)
	}
	return out.Bytes(), nil
}
