package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/pdf-lab/pkg/database"
	"github.com/JaimeStill/pdf-lab/pkg/pagination"
)

// EnvJournalEnabled toggles the operation journal.
const EnvJournalEnabled = "JOURNAL_ENABLED"

var paginationEnv = &pagination.Env{
	DefaultPageSize: "JOURNAL_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "JOURNAL_MAX_PAGE_SIZE",
}

// JournalConfig contains the optional operation journal configuration.
// The database section is only validated when the journal is enabled.
type JournalConfig struct {
	Enabled    bool              `toml:"enabled"`
	Database   database.Config   `toml:"database"`
	Pagination pagination.Config `toml:"pagination"`
}

// Finalize loads environment overrides and, when enabled, finalizes the
// database configuration.
func (c *JournalConfig) Finalize() error {
	if v := os.Getenv(EnvJournalEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enabled = enabled
		}
	}

	if !c.Enabled {
		return nil
	}
	if err := c.Database.Finalize(database.DefaultEnv()); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *JournalConfig) Merge(overlay *JournalConfig) {
	if overlay.Enabled {
		c.Enabled = true
	}
	c.Database.Merge(&overlay.Database)
	c.Pagination.Merge(&overlay.Pagination)
}
