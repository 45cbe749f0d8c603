package validation

import (
	"strconv"
	"strings"

	"github.com/JaimeStill/pdf-lab/internal/faults"
)

// ParsePageOrder parses a comma-separated list of 1-based page numbers.
// Duplicates are allowed, so a page may appear in the output more than once.
func ParsePageOrder(csv string, total int) ([]int, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, faults.New(faults.InvalidParameter, "page order cannot be empty")
	}

	var order []int
	for part := range strings.SplitSeq(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		page, err := strconv.Atoi(part)
		if err != nil || !isDigits(part) {
			return nil, faults.Newf(faults.InvalidParameter,
				"invalid page order: %q is not a page number", part,
			)
		}
		if page < 1 || page > total {
			return nil, outOfRange(page, total)
		}
		order = append(order, page)
	}

	if len(order) == 0 {
		return nil, faults.New(faults.InvalidParameter, "page order cannot be empty")
	}

	return order, nil
}
