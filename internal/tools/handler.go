// Package tools serves the PDF operations over HTTP. Every endpoint accepts a
// multipart form, validates it, makes one call into the document processor,
// and streams the result back as an attachment or JSON.
package tools

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/JaimeStill/pdf-lab/internal/faults"
	"github.com/JaimeStill/pdf-lab/internal/journal"
	"github.com/JaimeStill/pdf-lab/internal/pdfops"
	"github.com/JaimeStill/pdf-lab/internal/validation"
	"github.com/JaimeStill/pdf-lab/internal/workers"
	"github.com/JaimeStill/pdf-lab/pkg/middleware"
	"github.com/JaimeStill/pdf-lab/pkg/routes"
)

const recordTimeout = 5 * time.Second

// Processor performs the document transformations behind each endpoint.
// *pdfops.Service implements it.
type Processor interface {
	PageCount(data []byte) (int, error)
	Merge(docs [][]byte) ([]byte, error)
	Split(data []byte, ranges []validation.PageRange) ([]pdfops.Part, error)
	Reorder(data []byte, order []int) ([]byte, error)
	Rotate(data []byte, angle int, ranges []validation.PageRange) ([]byte, error)
	ExtractText(ctx context.Context, data []byte, allowOCR bool) (pdfops.TextResult, error)
	Watermark(data []byte, text string, opacity float64, position string) ([]byte, error)
	NumberPages(data []byte, position string) ([]byte, error)
	Protect(data []byte, password string) ([]byte, error)
	Unlock(data []byte, password string) ([]byte, error)
	ImagesToPDF(images [][]byte) ([]byte, error)
	RenderPages(ctx context.Context, data []byte, opts pdfops.RenderOptions) ([]pdfops.Part, error)
	Compress(data []byte, level validation.CompressionLevel) (pdfops.Compression, error)
	ReadMetadata(data []byte) (pdfops.Metadata, error)
	EditMetadata(data []byte, edit pdfops.MetadataEdit) ([]byte, error)
}

// Config carries the request limits and parameter defaults.
type Config struct {
	MaxRequestSize     int64
	MultipartMemory    int64
	DefaultDPI         int
	DefaultCompression validation.CompressionLevel
}

// Handler provides HTTP endpoints for PDF operations.
type Handler struct {
	proc      Processor
	validator *validation.Validator
	pool      *workers.Pool
	journal   journal.Recorder
	responder *faults.Responder
	cfg       Config
	logger    *slog.Logger
}

// NewHandler creates a tools handler. A nil recorder disables the journal.
func NewHandler(
	proc Processor,
	validator *validation.Validator,
	pool *workers.Pool,
	recorder journal.Recorder,
	responder *faults.Responder,
	cfg Config,
	logger *slog.Logger,
) *Handler {
	if recorder == nil {
		recorder = journal.Noop{}
	}
	if cfg.MultipartMemory <= 0 {
		cfg.MultipartMemory = 32 << 20
	}
	if cfg.DefaultDPI == 0 {
		cfg.DefaultDPI = pdfops.DefaultRenderDPI
	}
	if cfg.DefaultCompression == "" {
		cfg.DefaultCompression = validation.CompressionMedium
	}

	return &Handler{
		proc:      proc,
		validator: validator,
		pool:      pool,
		journal:   recorder,
		responder: responder,
		cfg:       cfg,
		logger:    logger.With("handler", "tools"),
	}
}

// Routes returns the route configuration for the PDF tools.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "",
		Tags:        []string{"PDF Tools"},
		Description: "Stateless PDF transformations",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/merge", Handler: h.serve("merge", h.Merge), OpenAPI: Spec.Merge},
			{Method: "POST", Pattern: "/split", Handler: h.serve("split", h.Split), OpenAPI: Spec.Split},
			{Method: "POST", Pattern: "/reorder", Handler: h.serve("reorder", h.Reorder), OpenAPI: Spec.Reorder},
			{Method: "POST", Pattern: "/rotate", Handler: h.serve("rotate", h.Rotate), OpenAPI: Spec.Rotate},
			{Method: "POST", Pattern: "/extract-text", Handler: h.serve("extract-text", h.ExtractText), OpenAPI: Spec.ExtractText},
			{Method: "POST", Pattern: "/watermark", Handler: h.serve("watermark", h.Watermark), OpenAPI: Spec.Watermark},
			{Method: "POST", Pattern: "/pagenum", Handler: h.serve("pagenum", h.NumberPages), OpenAPI: Spec.NumberPages},
			{Method: "POST", Pattern: "/protect", Handler: h.serve("protect", h.Protect), OpenAPI: Spec.Protect},
			{Method: "POST", Pattern: "/unlock", Handler: h.serve("unlock", h.Unlock), OpenAPI: Spec.Unlock},
			{Method: "POST", Pattern: "/images-to-pdf", Handler: h.serve("images-to-pdf", h.ImagesToPDF), OpenAPI: Spec.ImagesToPDF},
			{Method: "POST", Pattern: "/pdf-to-images", Handler: h.serve("pdf-to-images", h.PDFToImages), OpenAPI: Spec.PDFToImages},
			{Method: "POST", Pattern: "/compress", Handler: h.serve("compress", h.Compress), OpenAPI: Spec.Compress},
			{Method: "POST", Pattern: "/metadata", Handler: h.serve("metadata", h.Metadata), OpenAPI: Spec.Metadata},
		},
		Schemas: Spec.Schemas(),
	}
}

// operation turns a parsed form into a result.
type operation func(r *http.Request, form *Form) (*Result, error)

// serve parses the form, runs op, writes the result or error envelope, and
// records the outcome in the journal.
func (h *Handler) serve(name string, op operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		form, err := ParseForm(w, r, h.cfg.MaxRequestSize, h.cfg.MultipartMemory)
		var result *Result
		if err == nil {
			defer form.Close()
			result, err = op(r, form)
		}

		if err != nil {
			h.responder.Respond(w, r, err)
		} else {
			result.Write(w)
		}

		h.record(r, name, form, result, err, time.Since(start))
	}
}

func (h *Handler) record(r *http.Request, name string, form *Form, result *Result, err error, elapsed time.Duration) {
	entry := journal.Entry{
		Operation: name,
		Status:    http.StatusOK,
		Duration:  elapsed,
		RequestID: middleware.GetRequestID(r.Context()),
	}
	if form != nil {
		entry.FileCount = form.FileCount()
		entry.InputBytes = form.InputBytes()
	}
	if result != nil {
		entry.OutputBytes = result.Size()
	}
	if err != nil {
		entry.Status = faults.Status(err)
		entry.ErrorCode = faults.Code(err)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), recordTimeout)
	defer cancel()

	if err := h.journal.Record(ctx, entry); err != nil {
		h.logger.Warn("journal record failed", "operation", name, "error", err)
	}
}
