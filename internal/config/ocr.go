package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// EnvOCREnabled toggles OCR fallback for text extraction.
	EnvOCREnabled = "OCR_ENABLED"

	// EnvOCRBinary overrides the tesseract executable.
	EnvOCRBinary = "OCR_BINARY"

	// EnvOCRLanguage overrides the recognition language.
	EnvOCRLanguage = "OCR_LANGUAGE"

	// EnvOCRTimeout overrides the per-page recognition timeout.
	EnvOCRTimeout = "OCR_TIMEOUT"
)

// OCRConfig contains OCR fallback configuration. OCR is used only when it is
// enabled here and the binary and a rasterizer are found at startup.
type OCRConfig struct {
	Enabled  *bool  `toml:"enabled"`
	Binary   string `toml:"binary"`
	Language string `toml:"language"`
	Timeout  string `toml:"timeout"`
	DPI      int    `toml:"dpi" validate:"min=72,max=600"`
}

// IsEnabled reports whether OCR may be used. It defaults to true.
func (c *OCRConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// TimeoutDuration parses and returns the per-page timeout as a time.Duration.
func (c *OCRConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the OCR configuration.
func (c *OCRConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *OCRConfig) Merge(overlay *OCRConfig) {
	if overlay.Enabled != nil {
		c.Enabled = overlay.Enabled
	}
	if overlay.Binary != "" {
		c.Binary = overlay.Binary
	}
	if overlay.Language != "" {
		c.Language = overlay.Language
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.DPI != 0 {
		c.DPI = overlay.DPI
	}
}

func (c *OCRConfig) loadDefaults() {
	if c.Binary == "" {
		c.Binary = "tesseract"
	}
	if c.Language == "" {
		c.Language = "eng"
	}
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
	if c.DPI == 0 {
		c.DPI = 300
	}
}

func (c *OCRConfig) loadEnv() {
	if v := os.Getenv(EnvOCREnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enabled = &enabled
		}
	}
	if v := os.Getenv(EnvOCRBinary); v != "" {
		c.Binary = v
	}
	if v := os.Getenv(EnvOCRLanguage); v != "" {
		c.Language = v
	}
	if v := os.Getenv(EnvOCRTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *OCRConfig) validate() error {
	if err := check(c); err != nil {
		return err
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
