package validation_test

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/JaimeStill/pdf-lab/internal/faults"
	"github.com/JaimeStill/pdf-lab/internal/validation"
)

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
)

func newValidator(maxSize int64, maxFiles int, sniff bool) *validation.Validator {
	return validation.NewValidator(validation.Limits{MaxFileSize: maxSize, MaxFiles: maxFiles}, sniff)
}

func TestNewValidator_Defaults(t *testing.T) {
	v := validation.NewValidator(validation.Limits{}, false)
	limits := v.Limits()

	if limits.MaxFileSize != 50<<20 {
		t.Errorf("MaxFileSize = %d, want %d", limits.MaxFileSize, 50<<20)
	}
	if limits.MaxFiles != 20 {
		t.Errorf("MaxFiles = %d, want 20", limits.MaxFiles)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		file     validation.UploadedFile
		kind     validation.Kind
		wantKind faults.Kind
		wantErr  bool
	}{
		{
			name: "valid pdf",
			file: validation.FromBytes("doc.pdf", pdfBytes),
			kind: validation.KindPDF,
		},
		{
			name: "uppercase extension",
			file: validation.FromBytes("DOC.PDF", pdfBytes),
			kind: validation.KindPDF,
		},
		{
			name: "valid image",
			file: validation.FromBytes("scan.png", pngBytes),
			kind: validation.KindImage,
		},
		{
			name:     "missing filename",
			file:     validation.FromBytes("", pdfBytes),
			kind:     validation.KindPDF,
			wantErr:  true,
			wantKind: faults.InvalidFile,
		},
		{
			name:     "wrong extension",
			file:     validation.FromBytes("doc.docx", pdfBytes),
			kind:     validation.KindPDF,
			wantErr:  true,
			wantKind: faults.InvalidFile,
		},
		{
			name:     "image extension for pdf kind",
			file:     validation.FromBytes("scan.png", pngBytes),
			kind:     validation.KindPDF,
			wantErr:  true,
			wantKind: faults.InvalidFile,
		},
		{
			name:     "empty file",
			file:     validation.FromBytes("empty.pdf", nil),
			kind:     validation.KindPDF,
			wantErr:  true,
			wantKind: faults.EmptyFile,
		},
		{
			name: "read failure",
			file: validation.NewUploadedFile("broken.pdf", 10, func() (io.ReadCloser, error) {
				return nil, errors.New("disk gone")
			}),
			kind:     validation.KindPDF,
			wantErr:  true,
			wantKind: faults.InvalidFile,
		},
	}

	v := newValidator(1<<20, 20, false)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := v.Validate(tt.file, tt.kind)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if got := faults.KindOf(err); got != tt.wantKind {
					t.Errorf("kind = %v, want %v", got, tt.wantKind)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(data) == 0 {
				t.Error("expected content")
			}
		})
	}
}

func TestValidate_EmptyFileStatus(t *testing.T) {
	v := newValidator(1<<20, 20, false)

	_, err := v.Validate(validation.FromBytes("empty.pdf", []byte{}), validation.KindPDF)

	if faults.Status(err) != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", faults.Status(err))
	}
	if faults.Code(err) != faults.CodeEmptyFile {
		t.Errorf("code = %q, want %q", faults.Code(err), faults.CodeEmptyFile)
	}
}

func TestValidate_SizeBoundary(t *testing.T) {
	const max = 1024
	v := newValidator(max, 20, false)

	atLimit := append([]byte("%PDF-"), bytes.Repeat([]byte("x"), max-5)...)
	if _, err := v.Validate(validation.FromBytes("a.pdf", atLimit), validation.KindPDF); err != nil {
		t.Fatalf("file at limit rejected: %v", err)
	}

	overLimit := append(atLimit, 'x')
	_, err := v.Validate(validation.FromBytes("b.pdf", overLimit), validation.KindPDF)
	if err == nil {
		t.Fatal("expected error for MAX+1 bytes")
	}
	if faults.Status(err) != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", faults.Status(err))
	}
	if faults.Code(err) != faults.CodeFileSizeExceeded {
		t.Errorf("code = %q, want %q", faults.Code(err), faults.CodeFileSizeExceeded)
	}
}

func TestValidate_SizeFromStreamWhenUndeclared(t *testing.T) {
	const max = 16
	v := newValidator(max, 20, false)

	data := bytes.Repeat([]byte("x"), max+10)
	file := validation.NewUploadedFile("big.pdf", 0, func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})

	_, err := v.Validate(file, validation.KindPDF)
	if !faults.Is(err, faults.FileTooLarge) {
		t.Errorf("err = %v, want FileTooLarge", err)
	}
}

func TestValidate_ContentSniffing(t *testing.T) {
	sniffing := newValidator(1<<20, 20, true)
	plain := newValidator(1<<20, 20, false)

	disguised := validation.FromBytes("image.pdf", pngBytes)

	if _, err := sniffing.Validate(disguised, validation.KindPDF); !faults.Is(err, faults.InvalidFile) {
		t.Errorf("sniffing validator err = %v, want InvalidFile", err)
	}

	if _, err := plain.Validate(validation.FromBytes("image.pdf", pngBytes), validation.KindPDF); err != nil {
		t.Errorf("validator without sniffing should skip content check, got %v", err)
	}

	if _, err := sniffing.Validate(validation.FromBytes("doc.pdf", pdfBytes), validation.KindPDF); err != nil {
		t.Errorf("genuine pdf rejected: %v", err)
	}
}

func TestValidateMany_TooManyFilesBeforeRead(t *testing.T) {
	v := newValidator(1<<20, 20, false)

	opened := 0
	files := make([]validation.UploadedFile, 21)
	for i := range files {
		files[i] = validation.NewUploadedFile("f.pdf", 10, func() (io.ReadCloser, error) {
			opened++
			return io.NopCloser(bytes.NewReader(pdfBytes)), nil
		})
	}

	_, err := v.ValidateMany(files, validation.KindPDF)

	if !faults.Is(err, faults.TooManyFiles) {
		t.Fatalf("err = %v, want TooManyFiles", err)
	}
	if faults.Status(err) != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", faults.Status(err))
	}
	if opened != 0 {
		t.Errorf("opened %d files, want 0", opened)
	}
}

func TestValidateMany_Empty(t *testing.T) {
	v := newValidator(1<<20, 20, false)

	_, err := v.ValidateMany(nil, validation.KindPDF)
	if !faults.Is(err, faults.InvalidParameter) {
		t.Errorf("err = %v, want InvalidParameter", err)
	}
}

func TestValidateMany_AnnotatesPosition(t *testing.T) {
	v := newValidator(1<<20, 20, false)

	files := []validation.UploadedFile{
		validation.FromBytes("a.pdf", pdfBytes),
		validation.FromBytes("b.pdf", nil),
		validation.FromBytes("c.pdf", pdfBytes),
	}

	out, err := v.ValidateMany(files, validation.KindPDF)
	if out != nil {
		t.Error("no partial result should be returned")
	}

	fe, ok := faults.As(err)
	if !ok {
		t.Fatalf("err = %v, want classified error", err)
	}
	if fe.Kind != faults.EmptyFile {
		t.Errorf("kind = %v, want EmptyFile", fe.Kind)
	}
	if !strings.HasPrefix(fe.Message, "file 2 (b.pdf)") {
		t.Errorf("message = %q, want file 2 prefix", fe.Message)
	}
	if fe.Details["file_index"] != 2 {
		t.Errorf("file_index = %v, want 2", fe.Details["file_index"])
	}
}

func TestValidateMany_PreservesOrder(t *testing.T) {
	v := newValidator(1<<20, 20, false)

	first := append([]byte(nil), pdfBytes...)
	second := append(append([]byte(nil), pdfBytes...), '\n')

	out, err := v.ValidateMany([]validation.UploadedFile{
		validation.FromBytes("a.pdf", first),
		validation.FromBytes("b.pdf", second),
	}, validation.KindPDF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out) != 2 || !bytes.Equal(out[0], first) || !bytes.Equal(out[1], second) {
		t.Error("validated buffers out of order")
	}
}
