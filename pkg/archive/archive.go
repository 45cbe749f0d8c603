// Package archive packages named byte slices into zip archives.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zip"
)

// ErrEmpty is returned when there is nothing to archive.
var ErrEmpty = errors.New("archive has no entries")

// Entry is one file in an archive.
type Entry struct {
	Name string
	Data []byte
}

// Zip writes entries, in order, into a deflate-compressed zip archive.
// Entry names must be unique.
func Zip(entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, ErrEmpty
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	seen := make(map[string]struct{}, len(entries))
	now := time.Now()

	for _, e := range entries {
		if _, dup := seen[e.Name]; dup {
			zw.Close()
			return nil, fmt.Errorf("duplicate entry %q", e.Name)
		}
		seen[e.Name] = struct{}{}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Deflate,
			Modified: now,
		})
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("create entry %s: %w", e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			zw.Close()
			return nil, fmt.Errorf("write entry %s: %w", e.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finish archive: %w", err)
	}
	return buf.Bytes(), nil
}
