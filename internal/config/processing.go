package config

import (
	"os"
	"runtime"
	"strconv"
)

const (
	// EnvProcessingWorkers overrides the heavy job concurrency limit.
	EnvProcessingWorkers = "PROCESSING_WORKERS"

	// EnvProcessingDefaultImageDPI overrides the default rasterization DPI.
	EnvProcessingDefaultImageDPI = "PROCESSING_DEFAULT_IMAGE_DPI"

	// EnvProcessingDefaultCompressionLevel overrides the default compression level.
	EnvProcessingDefaultCompressionLevel = "PROCESSING_DEFAULT_COMPRESSION_LEVEL"

	// EnvProcessingTempDir overrides the staging directory for rasterization.
	EnvProcessingTempDir = "PROCESSING_TEMP_DIR"
)

// ProcessingConfig contains defaults and limits for document processing.
type ProcessingConfig struct {
	// Workers bounds concurrent rasterization and OCR jobs. Zero means one
	// per CPU.
	Workers                 int    `toml:"workers" validate:"min=0,max=256"`
	DefaultImageDPI         int    `toml:"default_image_dpi" validate:"min=72,max=600"`
	DefaultCompressionLevel string `toml:"default_compression_level" validate:"oneof=low medium high"`
	TempDir                 string `toml:"temp_dir"`
}

// WorkerCount returns the effective worker limit.
func (c *ProcessingConfig) WorkerCount() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// Finalize applies defaults, loads environment overrides, and validates the processing configuration.
func (c *ProcessingConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return check(c)
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *ProcessingConfig) Merge(overlay *ProcessingConfig) {
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.DefaultImageDPI != 0 {
		c.DefaultImageDPI = overlay.DefaultImageDPI
	}
	if overlay.DefaultCompressionLevel != "" {
		c.DefaultCompressionLevel = overlay.DefaultCompressionLevel
	}
	if overlay.TempDir != "" {
		c.TempDir = overlay.TempDir
	}
}

func (c *ProcessingConfig) loadDefaults() {
	if c.DefaultImageDPI == 0 {
		c.DefaultImageDPI = 144
	}
	if c.DefaultCompressionLevel == "" {
		c.DefaultCompressionLevel = "medium"
	}
}

func (c *ProcessingConfig) loadEnv() {
	if v := os.Getenv(EnvProcessingWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv(EnvProcessingDefaultImageDPI); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DefaultImageDPI = n
		}
	}
	if v := os.Getenv(EnvProcessingDefaultCompressionLevel); v != "" {
		c.DefaultCompressionLevel = v
	}
	if v := os.Getenv(EnvProcessingTempDir); v != "" {
		c.TempDir = v
	}
}
