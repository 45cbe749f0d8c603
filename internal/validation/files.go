// Package validation checks uploads and operation parameters before they reach
// any PDF or image library. Every failure is a classified *faults.Error.
package validation

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"github.com/JaimeStill/pdf-lab/internal/faults"
)

// Default upload limits.
const (
	DefaultMaxFileSize int64 = 50 << 20
	DefaultMaxFiles          = 20
)

// Kind classifies an upload as a PDF or an image.
type Kind string

// Upload kinds.
const (
	KindPDF   Kind = "pdf"
	KindImage Kind = "image"
)

var allowedExtensions = map[Kind][]string{
	KindPDF:   {".pdf"},
	KindImage: {".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".tif", ".gif", ".webp"},
}

var allowedMIMETypes = map[Kind][]string{
	KindPDF:   {"application/pdf"},
	KindImage: {"image/jpeg", "image/png", "image/bmp", "image/tiff", "image/gif", "image/webp"},
}

// Extensions returns the extensions accepted for k.
func (k Kind) Extensions() []string {
	return slices.Clone(allowedExtensions[k])
}

// MIMETypes returns the content types accepted for k.
func (k Kind) MIMETypes() []string {
	return slices.Clone(allowedMIMETypes[k])
}

// UploadedFile is a single inbound upload. Its content is read at most once,
// by Validate.
type UploadedFile struct {
	Filename     string
	DeclaredSize int64
	open         func() (io.ReadCloser, error)
}

// NewUploadedFile creates an upload whose content is produced by open.
func NewUploadedFile(filename string, declaredSize int64, open func() (io.ReadCloser, error)) UploadedFile {
	return UploadedFile{Filename: filename, DeclaredSize: declaredSize, open: open}
}

// FromFileHeader adapts a multipart file header.
func FromFileHeader(h *multipart.FileHeader) UploadedFile {
	return NewUploadedFile(h.Filename, h.Size, func() (io.ReadCloser, error) {
		return h.Open()
	})
}

// FromBytes creates an upload backed by data.
func FromBytes(filename string, data []byte) UploadedFile {
	return NewUploadedFile(filename, int64(len(data)), func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

// Limits bounds what the file validator accepts.
type Limits struct {
	MaxFileSize int64
	MaxFiles    int
}

// Validator checks uploads against Limits. Content sniffing is enabled when
// the capability was detected at startup.
type Validator struct {
	limits Limits
	sniff  bool
}

// NewValidator creates a file validator. Zero limits fall back to the defaults.
func NewValidator(limits Limits, sniff bool) *Validator {
	if limits.MaxFileSize <= 0 {
		limits.MaxFileSize = DefaultMaxFileSize
	}
	if limits.MaxFiles <= 0 {
		limits.MaxFiles = DefaultMaxFiles
	}
	return &Validator{limits: limits, sniff: sniff}
}

// Limits returns the validator's effective limits.
func (v *Validator) Limits() Limits {
	return v.limits
}

// Validate checks the upload's name, size and content and returns its bytes.
func (v *Validator) Validate(file UploadedFile, kind Kind) ([]byte, error) {
	if strings.TrimSpace(file.Filename) == "" {
		return nil, faults.New(faults.InvalidFile, "no filename provided")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := allowedExtensions[kind]
	if !slices.Contains(allowed, ext) {
		return nil, faults.Newf(faults.InvalidFile,
			"invalid file type %q: allowed types are %s", ext, strings.Join(allowed, ", "),
		).WithDetail("filename", file.Filename)
	}

	if file.DeclaredSize > v.limits.MaxFileSize {
		return nil, v.tooLarge(file.Filename, file.DeclaredSize)
	}

	data, err := v.read(file)
	if err != nil {
		return nil, faults.Wrap(faults.InvalidFile, err, "failed to read file").
			WithDetail("filename", file.Filename)
	}

	if len(data) == 0 {
		return nil, faults.New(faults.EmptyFile, "file is empty").
			WithDetail("filename", file.Filename)
	}

	if int64(len(data)) > v.limits.MaxFileSize {
		return nil, v.tooLarge(file.Filename, int64(len(data)))
	}

	if v.sniff {
		if err := checkContent(data, kind, file.Filename); err != nil {
			return nil, err
		}
	}

	return data, nil
}

// ValidateMany validates files in order and returns their contents only when
// every file passes. The count limit is checked before any file is opened.
func (v *Validator) ValidateMany(files []UploadedFile, kind Kind) ([][]byte, error) {
	if len(files) == 0 {
		return nil, faults.New(faults.InvalidParameter, "no files provided")
	}

	if len(files) > v.limits.MaxFiles {
		return nil, faults.Newf(faults.TooManyFiles,
			"too many files: %d provided, maximum is %d", len(files), v.limits.MaxFiles,
		).WithDetail("max_files", v.limits.MaxFiles)
	}

	out := make([][]byte, 0, len(files))
	for i, file := range files {
		data, err := v.Validate(file, kind)
		if err != nil {
			fe, _ := faults.As(err)
			return nil, fe.
				Annotate(fmt.Sprintf("file %d (%s)", i+1, file.Filename)).
				WithDetail("file_index", i+1)
		}
		out = append(out, data)
	}

	return out, nil
}

func (v *Validator) read(file UploadedFile) ([]byte, error) {
	if file.open == nil {
		return nil, fmt.Errorf("upload %q has no content", file.Filename)
	}

	rc, err := file.open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(io.LimitReader(rc, v.limits.MaxFileSize+1))
}

func (v *Validator) tooLarge(filename string, size int64) *faults.Error {
	return faults.Newf(faults.FileTooLarge,
		"file too large: %s exceeds the %s limit",
		humanize.IBytes(uint64(size)), humanize.IBytes(uint64(v.limits.MaxFileSize)),
	).
		WithDetail("filename", filename).
		WithDetail("max_size_bytes", v.limits.MaxFileSize)
}

func checkContent(data []byte, kind Kind, filename string) error {
	detected := mimetype.Detect(data)
	allowed := allowedMIMETypes[kind]

	for _, m := range allowed {
		if detected.Is(m) {
			return nil
		}
	}

	return faults.Newf(faults.InvalidFile,
		"file content does not match its type: detected %s", detected.String(),
	).WithDetail("filename", filename)
}
