package journal

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JaimeStill/pdf-lab/pkg/query"
)

// Filters narrows a journal listing. Nil fields are ignored.
type Filters struct {
	Operation *string
	Status    *int
	Failed    *bool
	Since     *time.Time
}

// FiltersFromQuery reads operation, status, failed and since (RFC 3339) from
// values. Unparseable values are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if op := strings.TrimSpace(values.Get("operation")); op != "" {
		op = strings.ToLower(op)
		f.Operation = &op
	}

	if s := values.Get("status"); s != "" {
		if status, err := strconv.Atoi(s); err == nil {
			f.Status = &status
		}
	}

	if s := values.Get("failed"); s != "" {
		if failed, err := strconv.ParseBool(s); err == nil {
			f.Failed = &failed
		}
	}

	if s := values.Get("since"); s != "" {
		if since, err := time.Parse(time.RFC3339, s); err == nil {
			f.Since = &since
		}
	}

	return f
}

// Apply adds the filter conditions to b.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	if f.Operation != nil {
		b.WhereEquals("Operation", *f.Operation)
	}
	if f.Status != nil {
		b.WhereEquals("Status", *f.Status)
	}
	if f.Failed != nil {
		if *f.Failed {
			b.WhereAtLeast("Status", 400)
		} else {
			b.WhereBelow("Status", 400)
		}
	}
	if f.Since != nil {
		b.WhereAtLeast("CreatedAt", *f.Since)
	}
	return b
}
