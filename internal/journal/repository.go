package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/pdf-lab/pkg/pagination"
	"github.com/JaimeStill/pdf-lab/pkg/query"
	"github.com/JaimeStill/pdf-lab/pkg/repository"
)

// ErrNotFound is returned when no entry has the requested id.
var ErrNotFound = errors.New("journal entry not found")

// errDuplicate is never produced by reads.
var errDuplicate = errors.New("duplicate journal entry")

var projection = query.NewProjectionMap("public", "operations", "o").
	Project("id", "ID").
	Project("operation", "Operation").
	Project("file_count", "FileCount").
	Project("input_bytes", "InputBytes").
	Project("output_bytes", "OutputBytes").
	Project("status", "Status").
	ProjectExpr("COALESCE(o.error_code, '')", "ErrorCode").
	Project("duration_ms", "DurationMS").
	ProjectExpr("COALESCE(o.request_id, '')", "RequestID").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

func scanEntry(s repository.Scanner) (Entry, error) {
	var e Entry
	var ms int64
	err := s.Scan(
		&e.ID, &e.Operation, &e.FileCount, &e.InputBytes, &e.OutputBytes,
		&e.Status, &e.ErrorCode, &ms, &e.RequestID, &e.CreatedAt,
	)
	e.Duration = time.Duration(ms) * time.Millisecond
	return e, err
}

// List returns one page of entries matching filters, newest first unless
// page.Sort says otherwise.
func (j *Journal) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Entry], error) {
	db, err := j.conn.Connection()
	if err != nil {
		return nil, err
	}

	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)
	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count operations: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	entries, err := repository.QueryMany(ctx, db, pageSQL, pageArgs, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}

	result := pagination.NewPageResult(entries, total, page.Page, page.PageSize)
	return &result, nil
}

// Find returns the entry with id.
func (j *Journal) Find(ctx context.Context, id uuid.UUID) (*Entry, error) {
	db, err := j.conn.Connection()
	if err != nil {
		return nil, err
	}

	q, args := query.NewBuilder(projection).BuildSingle("ID", id)
	e, err := repository.QueryOne(ctx, db, q, args, scanEntry)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, errDuplicate)
	}
	return &e, nil
}
