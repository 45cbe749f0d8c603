package openapi

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// OutputDisabled turns off writing the generated document to disk.
const OutputDisabled = "none"

// Config describes the generated document: its info block, the servers it
// advertises, and the directory the document is written to on start-up.
type Config struct {
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Servers     []string `toml:"servers"`
	OutputDir   string   `toml:"output_dir"`
}

// ConfigEnv maps environment variable names for Config. Servers is read as
// a comma-separated list.
type ConfigEnv struct {
	Title       string
	Description string
	Servers     string
	OutputDir   string
}

// Finalize applies defaults and environment overrides, then validates.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-zero values from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if overlay.Servers != nil {
		c.Servers = overlay.Servers
	}
	if overlay.OutputDir != "" {
		c.OutputDir = overlay.OutputDir
	}
}

// Apply copies the description and servers onto spec. fallback is
// advertised when no servers are configured.
func (c *Config) Apply(spec *Spec, fallback string) {
	spec.SetDescription(c.Description)

	if len(c.Servers) == 0 {
		spec.AddServer(fallback)
		return
	}
	for _, s := range c.Servers {
		spec.AddServer(s)
	}
}

// WriteEnabled reports whether the document is written to OutputDir.
func (c *Config) WriteEnabled() bool {
	return c.OutputDir != OutputDisabled
}

// FilePath returns where the document for env is written.
func (c *Config) FilePath(env string) string {
	if env == "" {
		env = "local"
	}
	return filepath.Join(c.OutputDir, fmt.Sprintf("openapi.%s.json", env))
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "PDF Lab API"
	}
	if c.Description == "" {
		c.Description = "Stateless PDF toolkit: merge, split, reorder, rotate, stamp, protect, convert, compress and inspect documents."
	}
	if c.OutputDir == "" {
		c.OutputDir = "api"
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	if v := os.Getenv(env.Title); env.Title != "" && v != "" {
		c.Title = v
	}
	if v := os.Getenv(env.Description); env.Description != "" && v != "" {
		c.Description = v
	}
	if v := os.Getenv(env.Servers); env.Servers != "" && v != "" {
		c.Servers = nil
		for s := range strings.SplitSeq(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Servers = append(c.Servers, s)
			}
		}
	}
	if v := os.Getenv(env.OutputDir); env.OutputDir != "" && v != "" {
		c.OutputDir = v
	}
}

func (c *Config) validate() error {
	for _, s := range c.Servers {
		if strings.HasPrefix(s, "/") {
			continue
		}
		u, err := url.Parse(s)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid server %q: must be an http(s) URL or an absolute path", s)
		}
	}
	return nil
}
