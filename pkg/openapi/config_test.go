package openapi_test

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/JaimeStill/pdf-lab/pkg/openapi"
)

var testEnv = &openapi.ConfigEnv{
	Title:       "TEST_OPENAPI_TITLE",
	Description: "TEST_OPENAPI_DESCRIPTION",
	Servers:     "TEST_OPENAPI_SERVERS",
	OutputDir:   "TEST_OPENAPI_OUTPUT_DIR",
}

func TestConfig_Finalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := &openapi.Config{}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}

		if cfg.Title != "PDF Lab API" {
			t.Errorf("Title = %q", cfg.Title)
		}
		if cfg.Description == "" {
			t.Error("Description should have a default")
		}
		if cfg.OutputDir != "api" || !cfg.WriteEnabled() {
			t.Errorf("OutputDir = %q, WriteEnabled = %v", cfg.OutputDir, cfg.WriteEnabled())
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_OPENAPI_TITLE", "Docs")
		t.Setenv("TEST_OPENAPI_SERVERS", " https://pdf.example.com , /api/v1/pdf ,")
		t.Setenv("TEST_OPENAPI_OUTPUT_DIR", "none")

		cfg := &openapi.Config{Title: "from file"}
		if err := cfg.Finalize(testEnv); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}

		if cfg.Title != "Docs" {
			t.Errorf("Title = %q, want Docs", cfg.Title)
		}
		want := []string{"https://pdf.example.com", "/api/v1/pdf"}
		if !slices.Equal(cfg.Servers, want) {
			t.Errorf("Servers = %v, want %v", cfg.Servers, want)
		}
		if cfg.WriteEnabled() {
			t.Error("WriteEnabled() = true, want false for output_dir none")
		}
	})

	tests := []struct {
		name    string
		servers []string
	}{
		{"relative path", []string{"api/v1"}},
		{"unsupported scheme", []string{"ftp://files.example.com"}},
		{"missing host", []string{"https://"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &openapi.Config{Servers: tt.servers}
			if err := cfg.Finalize(nil); err == nil {
				t.Errorf("Finalize() with servers %v expected error", tt.servers)
			}
		})
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := &openapi.Config{Title: "base", Servers: []string{"/"}, OutputDir: "api"}
	cfg.Merge(&openapi.Config{Servers: []string{"https://pdf.example.com"}, OutputDir: "docs"})

	if cfg.Title != "base" {
		t.Errorf("Title = %q, want base", cfg.Title)
	}
	if !slices.Equal(cfg.Servers, []string{"https://pdf.example.com"}) || cfg.OutputDir != "docs" {
		t.Errorf("merge result = %+v", cfg)
	}
}

func TestConfig_Apply(t *testing.T) {
	t.Run("fallback server", func(t *testing.T) {
		cfg := &openapi.Config{Description: "tools"}
		spec := openapi.NewSpec("t", "1")
		cfg.Apply(spec, "http://localhost:8000")

		if spec.Info.Description != "tools" {
			t.Errorf("Description = %q", spec.Info.Description)
		}
		if len(spec.Servers) != 1 || spec.Servers[0].URL != "http://localhost:8000" {
			t.Errorf("Servers = %+v", spec.Servers)
		}
	})

	t.Run("configured servers", func(t *testing.T) {
		cfg := &openapi.Config{Servers: []string{"https://a.example.com", "/"}}
		spec := openapi.NewSpec("t", "1")
		cfg.Apply(spec, "http://localhost:8000")

		if len(spec.Servers) != 2 || spec.Servers[0].URL != "https://a.example.com" {
			t.Errorf("Servers = %+v", spec.Servers)
		}
	})
}

func TestConfig_FilePath(t *testing.T) {
	cfg := &openapi.Config{OutputDir: "api"}

	tests := []struct {
		env  string
		want string
	}{
		{"", filepath.Join("api", "openapi.local.json")},
		{"prod", filepath.Join("api", "openapi.prod.json")},
	}
	for _, tt := range tests {
		if got := cfg.FilePath(tt.env); got != tt.want {
			t.Errorf("FilePath(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}
