package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// writeSpec stores the generated OpenAPI document at path, leaving the file
// untouched when its content is current.
func writeSpec(path string, spec []byte) error {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, spec) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create spec directory: %w", err)
	}
	if err := os.WriteFile(path, spec, 0644); err != nil {
		return fmt.Errorf("write spec: %w", err)
	}
	return nil
}
