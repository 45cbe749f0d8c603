// Package capabilities resolves optional runtime dependencies once at startup.
// The resulting flags are passed to the validators and processing code so no
// call site probes for a tool at request time.
package capabilities

import (
	"log/slog"
	"os/exec"
)

// Rasterizer binaries probed in order. ImageMagick 7 ships "magick", older
// releases only "convert".
var rasterizerBinaries = []string{"magick", "convert"}

// Capabilities records which optional features are usable.
type Capabilities struct {
	ContentSniffing bool
	Rasterizer      bool
	OCR             bool
	OCRRequested    bool

	RasterizerPath string
	OCRPath        string
}

// Options selects which capabilities to probe.
type Options struct {
	ContentSniffing bool
	OCR             bool
	OCRBinary       string
}

// LookPath resolves a binary name to a path.
type LookPath func(file string) (string, error)

// Detect probes the host with exec.LookPath.
func Detect(opts Options, logger *slog.Logger) Capabilities {
	return DetectWith(opts, exec.LookPath, logger)
}

// DetectWith probes the host using lookPath.
func DetectWith(opts Options, lookPath LookPath, logger *slog.Logger) Capabilities {
	caps := Capabilities{ContentSniffing: opts.ContentSniffing, OCRRequested: opts.OCR}

	for _, bin := range rasterizerBinaries {
		if path, err := lookPath(bin); err == nil {
			caps.Rasterizer = true
			caps.RasterizerPath = path
			break
		}
	}

	if opts.OCR && opts.OCRBinary != "" {
		if path, err := lookPath(opts.OCRBinary); err == nil {
			caps.OCRPath = path
			caps.OCR = caps.Rasterizer
		}
	}

	logger.Info("capabilities resolved",
		"content_sniffing", caps.ContentSniffing,
		"rasterizer", caps.Rasterizer,
		"ocr", caps.OCR,
	)

	if opts.OCR && !caps.OCR {
		logger.Warn("ocr requested but unavailable",
			"binary", opts.OCRBinary,
			"rasterizer", caps.Rasterizer,
		)
	}

	return caps
}

// Check values.
const (
	CheckOK          = "ok"
	CheckUnavailable = "unavailable"
	CheckDisabled    = "disabled"
	CheckError       = "error"
)

// Checks reports each capability as ok, unavailable, or disabled when the
// configuration turned it off.
func (c Capabilities) Checks() map[string]string {
	checks := map[string]string{
		"content_sniffing": CheckDisabled,
		"rasterizer":       CheckUnavailable,
		"ocr":              CheckDisabled,
	}
	if c.ContentSniffing {
		checks["content_sniffing"] = CheckOK
	}
	if c.Rasterizer {
		checks["rasterizer"] = CheckOK
	}
	if c.OCRRequested {
		checks["ocr"] = CheckUnavailable
		if c.OCR {
			checks["ocr"] = CheckOK
		}
	}
	return checks
}
