package journal_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/pdf-lab/internal/journal"
	"github.com/JaimeStill/pdf-lab/pkg/database"
	"github.com/JaimeStill/pdf-lab/pkg/pagination"
	"github.com/JaimeStill/pdf-lab/pkg/query"
)

type notReady struct{}

func (notReady) Connection() (*sql.DB, error) { return nil, database.ErrNotReady }

func TestNoop(t *testing.T) {
	var r journal.Recorder = journal.Noop{}

	if err := r.Record(context.Background(), journal.Entry{Operation: "merge"}); err != nil {
		t.Errorf("Record() error = %v", err)
	}
	if err := r.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestJournal_NotReady(t *testing.T) {
	j := journal.New(notReady{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	if err := j.Record(ctx, journal.Entry{Operation: "merge"}); !errors.Is(err, database.ErrNotReady) {
		t.Errorf("Record() error = %v, want ErrNotReady", err)
	}
	if _, err := j.List(ctx, pagination.PageRequest{Page: 1, PageSize: 10}, journal.Filters{}); !errors.Is(err, database.ErrNotReady) {
		t.Errorf("List() error = %v, want ErrNotReady", err)
	}
	if _, err := j.Find(ctx, uuid.New()); !errors.Is(err, database.ErrNotReady) {
		t.Errorf("Find() error = %v, want ErrNotReady", err)
	}
	if err := j.Ping(ctx); !errors.Is(err, database.ErrNotReady) {
		t.Errorf("Ping() error = %v, want ErrNotReady", err)
	}
}

func TestEntry_MarshalJSON(t *testing.T) {
	e := journal.Entry{
		ID:        uuid.MustParse("6f1c2a56-8d7e-4b8e-9a55-0c1d2e3f4a5b"),
		Operation: "compress",
		Status:    200,
		Duration:  1500 * time.Millisecond,
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if got["duration_ms"] != float64(1500) {
		t.Errorf("duration_ms = %v, want 1500", got["duration_ms"])
	}
	if got["operation"] != "compress" || got["id"] != e.ID.String() {
		t.Errorf("body = %s", data)
	}
	if _, ok := got["error_code"]; ok {
		t.Error("empty error_code should be omitted")
	}
}

func TestFiltersFromQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantSQL  string
		wantArgs int
	}{
		{
			name:    "none",
			query:   "",
			wantSQL: "SELECT COUNT(*) FROM public.operations o",
		},
		{
			name:     "operation and status",
			query:    "operation=Merge&status=413",
			wantSQL:  "WHERE o.operation = $1 AND o.status = $2",
			wantArgs: 2,
		},
		{
			name:     "failed",
			query:    "failed=true",
			wantSQL:  "WHERE o.status >= $1",
			wantArgs: 1,
		},
		{
			name:     "succeeded since",
			query:    "failed=false&since=2026-01-02T03:04:05Z",
			wantSQL:  "WHERE o.status < $1 AND o.created_at >= $2",
			wantArgs: 2,
		},
		{
			name:    "garbage ignored",
			query:   "status=abc&failed=maybe&since=yesterday",
			wantSQL: "SELECT COUNT(*) FROM public.operations o",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			f := journal.FiltersFromQuery(values)

			pm := query.NewProjectionMap("public", "operations", "o").
				Project("operation", "Operation").
				Project("status", "Status").
				Project("created_at", "CreatedAt")
			sql, args := f.Apply(query.NewBuilder(pm)).BuildCount()

			if !strings.HasSuffix(sql, tt.wantSQL) {
				t.Errorf("sql = %q, want suffix %q", sql, tt.wantSQL)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("args = %v, want %d", args, tt.wantArgs)
			}
			if f.Operation != nil && *f.Operation != "merge" {
				t.Errorf("operation = %q, want lower-cased", *f.Operation)
			}
		})
	}
}
