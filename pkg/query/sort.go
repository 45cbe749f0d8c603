package query

import "strings"

// SortField is a single ORDER BY term expressed as a view field name.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// ParseSortFields parses a comma-separated sort expression. A leading "-"
// sorts descending: "-CreatedAt,Operation".
func ParseSortFields(s string) []SortField {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		var sf SortField
		if name, ok := strings.CutPrefix(part, "-"); ok {
			sf = SortField{Field: name, Descending: true}
		} else {
			sf = SortField{Field: strings.TrimPrefix(part, "+")}
		}
		if sf.Field != "" {
			fields = append(fields, sf)
		}
	}
	return fields
}
