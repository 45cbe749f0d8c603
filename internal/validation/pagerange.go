package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JaimeStill/pdf-lab/internal/faults"
)

// PageRange is an inclusive, 1-based span of pages.
type PageRange struct {
	Start int
	End   int
}

// Len returns the number of pages in the range.
func (r PageRange) Len() int {
	return r.End - r.Start + 1
}

// Pages expands the range into page numbers.
func (r PageRange) Pages() []int {
	pages := make([]int, 0, r.Len())
	for p := r.Start; p <= r.End; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Selector renders the range in "N" or "N-M" form.
func (r PageRange) Selector() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// ParsePageRanges parses a range string such as "1-3,5,7-" against a
// document of total pages. A blank expression selects the whole document.
// Ranges are returned in input order; duplicates and overlaps are kept.
func ParsePageRanges(expr string, total int) ([]PageRange, error) {
	if total < 1 {
		return nil, faults.New(faults.InvalidParameter, "document has no pages")
	}

	if strings.TrimSpace(expr) == "" {
		return []PageRange{{Start: 1, End: total}}, nil
	}

	var ranges []PageRange
	for part := range strings.SplitSeq(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		r, err := parseRange(part, total)
		if err != nil {
			return nil, err.WithDetail("range", part)
		}
		ranges = append(ranges, r)
	}

	if len(ranges) == 0 {
		return nil, faults.Newf(faults.InvalidParameter, "invalid page range %q: no ranges given", expr)
	}

	return ranges, nil
}

// PagesOf flattens ranges into page numbers in order.
func PagesOf(ranges []PageRange) []int {
	var pages []int
	for _, r := range ranges {
		pages = append(pages, r.Pages()...)
	}
	return pages
}

func parseRange(part string, total int) (PageRange, *faults.Error) {
	idx := strings.Index(part, "-")
	if idx == -1 {
		page, err := parsePage(part)
		if err != nil {
			return PageRange{}, err
		}
		if page < 1 || page > total {
			return PageRange{}, outOfRange(page, total)
		}
		return PageRange{Start: page, End: page}, nil
	}

	startStr := strings.TrimSpace(part[:idx])
	endStr := strings.TrimSpace(part[idx+1:])

	start, end := 1, total
	var err *faults.Error

	if startStr != "" {
		if start, err = parsePage(startStr); err != nil {
			return PageRange{}, err
		}
	}
	if endStr != "" {
		if end, err = parsePage(endStr); err != nil {
			return PageRange{}, err
		}
	}

	if start < 1 || start > total {
		return PageRange{}, outOfRange(start, total)
	}
	if end < 1 || end > total {
		return PageRange{}, outOfRange(end, total)
	}
	if start > end {
		return PageRange{}, faults.Newf(faults.InvalidParameter,
			"invalid page range %q: start page %d is after end page %d", part, start, end,
		)
	}

	return PageRange{Start: start, End: end}, nil
}

func parsePage(s string) (int, *faults.Error) {
	if !isDigits(s) {
		return 0, faults.Newf(faults.InvalidParameter, "invalid page number %q", s)
	}
	page, err := strconv.Atoi(s)
	if err != nil {
		return 0, faults.Newf(faults.InvalidParameter, "invalid page number %q", s)
	}
	return page, nil
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func outOfRange(page, total int) *faults.Error {
	return faults.Newf(faults.InvalidParameter,
		"page %d out of range: document has %d pages", page, total,
	).WithDetail("total_pages", total)
}
