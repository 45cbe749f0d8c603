package journal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/pdf-lab/internal/faults"
	"github.com/JaimeStill/pdf-lab/pkg/database"
	"github.com/JaimeStill/pdf-lab/pkg/handlers"
	"github.com/JaimeStill/pdf-lab/pkg/pagination"
	"github.com/JaimeStill/pdf-lab/pkg/routes"
)

// Store reads recorded operations.
type Store interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Entry], error)
	Find(ctx context.Context, id uuid.UUID) (*Entry, error)
}

// Handler serves the journal over HTTP.
type Handler struct {
	store      Store
	responder  *faults.Responder
	pagination pagination.Config
	logger     *slog.Logger
}

// NewHandler creates a journal handler.
func NewHandler(store Store, responder *faults.Responder, page pagination.Config, logger *slog.Logger) *Handler {
	return &Handler{
		store:      store,
		responder:  responder,
		pagination: page,
		logger:     logger.With("handler", "journal"),
	}
}

// Routes returns the journal route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/journal",
		Tags:        []string{"Journal"},
		Description: "Recorded PDF operations",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
		},
		Schemas: Spec.Schemas(),
	}
}

// List handles GET /journal.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.store.List(r.Context(), page, filters)
	if err != nil {
		h.responder.Respond(w, r, mapError(err))
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find handles GET /journal/{id}.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.responder.Respond(w, r, faults.New(faults.InvalidParameter, "id must be a UUID").
			WithDetail("field", "id"))
		return
	}

	entry, err := h.store.Find(r.Context(), id)
	if err != nil {
		h.responder.Respond(w, r, mapError(err))
		return
	}
	handlers.RespondJSON(w, http.StatusOK, entry)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return faults.Wrap(faults.NotFound, err, "journal entry not found")
	case errors.Is(err, database.ErrNotReady):
		return faults.Wrap(faults.Unavailable, err, "journal database is not ready")
	default:
		return err
	}
}
