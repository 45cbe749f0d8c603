package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/pdf-lab/pkg/middleware"
	"github.com/JaimeStill/pdf-lab/pkg/openapi"
)

const (
	// EnvAPIBasePath overrides the versioned API prefix.
	EnvAPIBasePath = "API_BASE_PATH"

	// EnvAPILegacyPath overrides the legacy API prefix. "none" disables it.
	EnvAPILegacyPath = "API_LEGACY_PATH"

	// EnvAPIAllowedHosts overrides the trusted hosts (comma-separated).
	EnvAPIAllowedHosts = "API_ALLOWED_HOSTS"

	// LegacyDisabled turns off the legacy prefix when used as legacy_path.
	LegacyDisabled = "none"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "API_CORS_ENABLED",
	Origins:          "API_CORS_ORIGINS",
	AllowedMethods:   "API_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "API_CORS_ALLOWED_HEADERS",
	AllowCredentials: "API_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "API_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "API_OPENAPI_TITLE",
	Description: "API_OPENAPI_DESCRIPTION",
	Servers:     "API_OPENAPI_SERVERS",
	OutputDir:   "API_OPENAPI_OUTPUT_DIR",
}

// APIConfig contains the HTTP surface configuration of the PDF tools.
type APIConfig struct {
	BasePath     string                `toml:"base_path"`
	LegacyPath   string                `toml:"legacy_path"`
	AllowedHosts []string              `toml:"allowed_hosts"`
	CORS         middleware.CORSConfig `toml:"cors"`
	OpenAPI      openapi.Config        `toml:"openapi"`
}

// LegacyEnabled reports whether the tools are also served at LegacyPath.
func (c *APIConfig) LegacyEnabled() bool {
	return c.LegacyPath != LegacyDisabled && c.LegacyPath != c.BasePath
}

// Finalize applies defaults, loads environment overrides, and validates the API configuration.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.LegacyPath != "" {
		c.LegacyPath = overlay.LegacyPath
	}
	if overlay.AllowedHosts != nil {
		c.AllowedHosts = overlay.AllowedHosts
	}
	c.CORS.Merge(&overlay.CORS)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api/v1/pdf"
	}
	if c.LegacyPath == "" {
		c.LegacyPath = "/api/pdf"
	}
	if len(c.AllowedHosts) == 0 {
		c.AllowedHosts = []string{"127.0.0.1", "localhost", "*.localhost"}
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPILegacyPath); v != "" {
		c.LegacyPath = v
	}
	if v := os.Getenv(EnvAPIAllowedHosts); v != "" {
		c.AllowedHosts = middleware.SplitList(v)
	}
}

func (c *APIConfig) validate() error {
	if err := validPrefix(c.BasePath); err != nil {
		return fmt.Errorf("base_path: %w", err)
	}
	if c.LegacyEnabled() {
		if err := validPrefix(c.LegacyPath); err != nil {
			return fmt.Errorf("legacy_path: %w", err)
		}
	}
	return nil
}

func validPrefix(p string) error {
	switch {
	case !strings.HasPrefix(p, "/"):
		return fmt.Errorf("%q must start with /", p)
	case p == "/" || strings.HasSuffix(p, "/"):
		return fmt.Errorf("%q must not end with /", p)
	case strings.Contains(p, "//"):
		return fmt.Errorf("%q contains an empty segment", p)
	}
	return nil
}
