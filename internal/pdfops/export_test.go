package pdfops

import (
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// SetOptimizer replaces the pdfcpu optimizer used by Compress.
func SetOptimizer(s *Service, fn func(io.ReadSeeker, io.Writer, *model.Configuration) error) {
	s.optimize = fn
}
