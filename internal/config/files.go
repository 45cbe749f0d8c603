package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/docker/go-units"
)

const (
	// EnvMaxFileSizeMB overrides the per-file size limit in megabytes.
	EnvMaxFileSizeMB = "MAX_FILE_SIZE_MB"

	// EnvMaxFilesCount overrides the batch file count limit.
	EnvMaxFilesCount = "MAX_FILES_COUNT"

	// EnvFilesMultipartMemory overrides the in-memory multipart threshold.
	EnvFilesMultipartMemory = "FILES_MULTIPART_MEMORY"

	// EnvFilesContentSniffing toggles content-based type detection.
	EnvFilesContentSniffing = "FILES_CONTENT_SNIFFING"
)

// FilesConfig contains upload limits.
type FilesConfig struct {
	MaxFileSizeMB   int    `toml:"max_file_size_mb" validate:"min=1,max=1000"`
	MaxFilesCount   int    `toml:"max_files_count" validate:"min=1,max=100"`
	MultipartMemory string `toml:"multipart_memory"`
	ContentSniffing *bool  `toml:"content_sniffing"`

	multipartMemoryVal int64
}

// MaxFileSize returns the per-file limit in bytes.
func (c *FilesConfig) MaxFileSize() int64 {
	return int64(c.MaxFileSizeMB) << 20
}

// MaxRequestSize bounds a whole multipart request: every file at the limit
// plus headroom for form fields.
func (c *FilesConfig) MaxRequestSize() int64 {
	return c.MaxFileSize()*int64(c.MaxFilesCount) + 1<<20
}

// MultipartMemoryBytes returns the parsed multipart memory threshold.
func (c *FilesConfig) MultipartMemoryBytes() int64 {
	return c.multipartMemoryVal
}

// SniffContent reports whether uploads are checked by content as well as
// extension.
func (c *FilesConfig) SniffContent() bool {
	return c.ContentSniffing == nil || *c.ContentSniffing
}

// Finalize applies defaults, loads environment overrides, and validates the files configuration.
func (c *FilesConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *FilesConfig) Merge(overlay *FilesConfig) {
	if overlay.MaxFileSizeMB != 0 {
		c.MaxFileSizeMB = overlay.MaxFileSizeMB
	}
	if overlay.MaxFilesCount != 0 {
		c.MaxFilesCount = overlay.MaxFilesCount
	}
	if overlay.MultipartMemory != "" {
		c.MultipartMemory = overlay.MultipartMemory
	}
	if overlay.ContentSniffing != nil {
		c.ContentSniffing = overlay.ContentSniffing
	}
}

func (c *FilesConfig) loadDefaults() {
	if c.MaxFileSizeMB == 0 {
		c.MaxFileSizeMB = 50
	}
	if c.MaxFilesCount == 0 {
		c.MaxFilesCount = 20
	}
	if c.MultipartMemory == "" {
		c.MultipartMemory = "32MB"
	}
}

func (c *FilesConfig) loadEnv() {
	if v := os.Getenv(EnvMaxFileSizeMB); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxFileSizeMB = n
		}
	}
	if v := os.Getenv(EnvMaxFilesCount); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxFilesCount = n
		}
	}
	if v := os.Getenv(EnvFilesMultipartMemory); v != "" {
		c.MultipartMemory = v
	}
	if v := os.Getenv(EnvFilesContentSniffing); v != "" {
		if sniff, err := strconv.ParseBool(v); err == nil {
			c.ContentSniffing = &sniff
		}
	}
}

func (c *FilesConfig) validate() error {
	if err := check(c); err != nil {
		return err
	}

	size, err := units.FromHumanSize(c.MultipartMemory)
	if err != nil {
		return fmt.Errorf("invalid multipart_memory: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("multipart_memory must be positive")
	}
	c.multipartMemoryVal = size

	return nil
}
