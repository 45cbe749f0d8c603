// Package pdfops performs the document transformations behind each endpoint.
// Every exported method takes already validated input and makes one call into
// pdfcpu, ledongthuc/pdf or the document-context rasterizer.
package pdfops

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/JaimeStill/pdf-lab/internal/faults"
	"github.com/JaimeStill/pdf-lab/internal/ocr"
)

// Default render resolutions.
const (
	DefaultRenderDPI = 144
	DefaultOCRDPI    = 300
)

var disableConfigDir sync.Once

// Part is one named output file.
type Part struct {
	Name string
	Data []byte
}

// Config wires optional collaborators. A nil Rasterizer disables page
// rendering and a nil OCR disables the OCR fallback.
type Config struct {
	Rasterizer Rasterizer
	OCR        ocr.Recognizer
	OCRDPI     int
}

// Service implements the document operations.
type Service struct {
	rasterizer Rasterizer
	ocr        ocr.Recognizer
	ocrDPI     int
	optimize   optimizer
	logger     *slog.Logger
}

type optimizer func(rs io.ReadSeeker, w io.Writer, conf *model.Configuration) error

// New creates a Service.
func New(cfg Config, logger *slog.Logger) *Service {
	disableConfigDir.Do(api.DisableConfigDir)

	if cfg.OCRDPI <= 0 {
		cfg.OCRDPI = DefaultOCRDPI
	}

	return &Service{
		rasterizer: cfg.Rasterizer,
		ocr:        cfg.OCR,
		ocrDPI:     cfg.OCRDPI,
		optimize:   api.Optimize,
		logger:     logger.With("system", "pdfops"),
	}
}

// CanRender reports whether page rasterization is available.
func (s *Service) CanRender() bool {
	return s.rasterizer != nil
}

// CanOCR reports whether the OCR fallback is available.
func (s *Service) CanOCR() bool {
	return s.ocr != nil && s.rasterizer != nil
}

// PageCount returns the number of pages in data.
func (s *Service) PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), configuration())
	if err != nil {
		return 0, failed("read document", err)
	}
	return n, nil
}

func configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

func failed(op string, err error) error {
	if isPasswordError(err) {
		return faults.Wrap(faults.Password, err, "document is password protected or the password is incorrect")
	}
	return faults.Wrap(faults.Processing, err, op+" failed")
}

func isPasswordError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password")
}
