package api

import (
	"github.com/JaimeStill/pdf-lab/internal/config"
	"github.com/JaimeStill/pdf-lab/internal/ocr"
	"github.com/JaimeStill/pdf-lab/internal/pdfops"
	"github.com/JaimeStill/pdf-lab/internal/validation"
)

// Domain holds the systems that implement the PDF tools.
type Domain struct {
	Processor *pdfops.Service
	Validator *validation.Validator
}

// NewDomain creates the document processor and upload validator from the
// runtime capabilities. Rendering and OCR are wired only when detected.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	caps := runtime.Capabilities

	var pdfCfg pdfops.Config
	if caps.Rasterizer {
		pdfCfg.Rasterizer = pdfops.NewMagickRasterizer(cfg.Processing.TempDir)
	}
	if caps.OCR {
		pdfCfg.OCR = ocr.NewTesseract(caps.OCRPath, cfg.OCR.Language, cfg.OCR.TimeoutDuration())
		pdfCfg.OCRDPI = cfg.OCR.DPI
	}

	validator := validation.NewValidator(validation.Limits{
		MaxFileSize: cfg.Files.MaxFileSize(),
		MaxFiles:    cfg.Files.MaxFilesCount,
	}, caps.ContentSniffing)

	return &Domain{
		Processor: pdfops.New(pdfCfg, runtime.Logger),
		Validator: validator,
	}
}
