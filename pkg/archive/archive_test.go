package archive_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/JaimeStill/pdf-lab/pkg/archive"
)

func TestZip(t *testing.T) {
	entries := []archive.Entry{
		{Name: "part_1.pdf", Data: []byte("first")},
		{Name: "part_2.pdf", Data: bytes.Repeat([]byte("x"), 4096)},
		{Name: "part_3.pdf", Data: []byte{}},
	}

	data, err := archive.Zip(entries)
	if err != nil {
		t.Fatalf("Zip() error = %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}

	if len(zr.File) != len(entries) {
		t.Fatalf("entries = %d, want %d", len(zr.File), len(entries))
	}

	for i, f := range zr.File {
		if f.Name != entries[i].Name {
			t.Errorf("entry %d name = %q, want %q", i, f.Name, entries[i].Name)
		}

		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		got, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		if !bytes.Equal(got, entries[i].Data) {
			t.Errorf("entry %s content mismatch", f.Name)
		}
	}
}

func TestZip_Errors(t *testing.T) {
	if _, err := archive.Zip(nil); !errors.Is(err, archive.ErrEmpty) {
		t.Errorf("Zip(nil) error = %v, want ErrEmpty", err)
	}

	_, err := archive.Zip([]archive.Entry{{Name: "a"}, {Name: "a"}})
	if err == nil {
		t.Error("Zip() should reject duplicate names")
	}
}
