package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JaimeStill/pdf-lab/pkg/logging"
)

func TestConfig_Finalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := &logging.Config{}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
		if cfg.Level != logging.LevelInfo || cfg.Format != logging.FormatText {
			t.Errorf("got %q/%q, want info/text", cfg.Level, cfg.Format)
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_LOG_LEVEL", "DEBUG")
		t.Setenv("TEST_LOG_FORMAT", "json")

		cfg := &logging.Config{}
		err := cfg.Finalize(&logging.Env{Level: "TEST_LOG_LEVEL", Format: "TEST_LOG_FORMAT"})
		if err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
		if cfg.Level != logging.LevelDebug || cfg.Format != logging.FormatJSON {
			t.Errorf("got %q/%q, want debug/json", cfg.Level, cfg.Format)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		cfg := &logging.Config{Level: "verbose"}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("Finalize() should reject unknown level")
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		cfg := &logging.Config{Format: "xml"}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("Finalize() should reject unknown format")
		}
	})
}

func TestConfig_Merge(t *testing.T) {
	cfg := &logging.Config{Level: logging.LevelInfo, Format: logging.FormatText}
	cfg.Merge(&logging.Config{Format: logging.FormatJSON, File: "app.log"})

	if cfg.Level != logging.LevelInfo {
		t.Errorf("Level = %q, want unchanged", cfg.Level)
	}
	if cfg.Format != logging.FormatJSON || cfg.File != "app.log" {
		t.Errorf("merge result = %+v", cfg)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&logging.Config{Level: logging.LevelWarn, Format: logging.FormatJSON}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if entry["msg"] != "shown" || entry["key"] != "value" {
		t.Errorf("entry = %v", entry)
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, closer, err := logging.Open(&logging.Config{
		Level:  logging.LevelInfo,
		Format: logging.FormatText,
		File:   path,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	logger.Info("written to file")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file = %q", data)
	}
}
