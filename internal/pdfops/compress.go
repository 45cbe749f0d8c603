package pdfops

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/JaimeStill/pdf-lab/internal/validation"
)

// Compression describes a compress result.
type Compression struct {
	Data           []byte
	OriginalSize   int
	CompressedSize int
	Fallback       bool
}

// Ratio returns the size reduction as a percentage.
func (c Compression) Ratio() float64 {
	if c.OriginalSize == 0 {
		return 0
	}
	return (1 - float64(c.CompressedSize)/float64(c.OriginalSize)) * 100
}

// RatioString formats Ratio with one decimal.
func (c Compression) RatioString() string {
	return fmt.Sprintf("%.1f", c.Ratio())
}

// Compress optimizes data at level. When optimization fails the document is
// rewritten without optimization; a document that cannot be rewritten either
// is a processing error.
func (s *Service) Compress(data []byte, level validation.CompressionLevel) (Compression, error) {
	result := Compression{OriginalSize: len(data)}

	var out bytes.Buffer
	err := s.optimize(bytes.NewReader(data), &out, compressionConfig(level))
	if err == nil {
		result.Data = out.Bytes()
		result.CompressedSize = out.Len()
		return result, nil
	}

	if isPasswordError(err) {
		return result, failed("compress", err)
	}

	s.logger.Warn("optimization failed, falling back to lossless copy", "level", level, "error", err)
	result.Fallback = true

	copied, copyErr := losslessCopy(data)
	if copyErr != nil {
		return Compression{OriginalSize: len(data)}, failed("compress", copyErr)
	}

	result.Data = copied
	result.CompressedSize = len(copied)
	return result, nil
}

func compressionConfig(level validation.CompressionLevel) *model.Configuration {
	conf := configuration()

	switch level {
	case validation.CompressionLow:
		conf.WriteObjectStream = false
		conf.WriteXRefStream = false
		conf.OptimizeResourceDicts = false
		conf.OptimizeDuplicateContentStreams = false
	case validation.CompressionHigh:
		conf.WriteObjectStream = true
		conf.WriteXRefStream = true
		conf.OptimizeResourceDicts = true
		conf.OptimizeDuplicateContentStreams = true
	default:
		conf.WriteObjectStream = true
		conf.WriteXRefStream = true
		conf.OptimizeResourceDicts = true
		conf.OptimizeDuplicateContentStreams = false
	}

	return conf
}

func losslessCopy(data []byte) ([]byte, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), configuration())
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := api.WriteContext(ctx, &out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
