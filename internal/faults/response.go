package faults

import (
	"log/slog"
	"maps"
	"net/http"
	"time"

	"github.com/JaimeStill/pdf-lab/pkg/handlers"
)

const genericMessage = "An unexpected error occurred"

// Envelope is the JSON body of every error response.
type Envelope struct {
	Status    string         `json:"status"`
	Message   string         `json:"message"`
	ErrorCode string         `json:"error_code"`
	Details   map[string]any `json:"details"`
	Timestamp string         `json:"timestamp"`
}

// NewEnvelope builds the response envelope for err. Unclassified errors hide
// their message unless debug is set.
func NewEnvelope(err error, path string, debug bool, now time.Time) Envelope {
	env := Envelope{
		Status:    "error",
		Details:   map[string]any{},
		Timestamp: now.UTC().Format(time.RFC3339),
	}

	if fe, ok := As(err); ok {
		env.Message = fe.Message
		env.ErrorCode = fe.Code()
		maps.Copy(env.Details, fe.Details)
		return env
	}

	env.ErrorCode = CodeInternal
	env.Message = genericMessage
	if debug {
		env.Message = err.Error()
		env.Details["path"] = path
	}
	return env
}

// Responder writes error envelopes and logs them.
type Responder struct {
	Logger *slog.Logger
	Debug  bool
}

// NewResponder creates a Responder.
func NewResponder(logger *slog.Logger, debug bool) *Responder {
	return &Responder{Logger: logger, Debug: debug}
}

// Respond logs err and writes its envelope with the mapped status.
func (rs *Responder) Respond(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)

	if _, ok := As(err); ok && status < http.StatusInternalServerError {
		rs.Logger.Warn("request rejected",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"code", Code(err),
			"error", err,
		)
	} else {
		rs.Logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}

	handlers.RespondJSON(w, status, NewEnvelope(err, r.URL.Path, rs.Debug, time.Now()))
}

// NotFound responds with a RESOURCE_NOT_FOUND envelope for unmatched routes.
func (rs *Responder) NotFound(w http.ResponseWriter, r *http.Request) {
	rs.Respond(w, r, Newf(NotFound, "resource %s not found", r.URL.Path))
}

// MethodNotAllowed responds with a METHOD_NOT_ALLOWED envelope.
func (rs *Responder) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	rs.Respond(w, r, Newf(MethodNotAllowed, "method %s not allowed for %s", r.Method, r.URL.Path))
}
