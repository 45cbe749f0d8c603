package tools

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/JaimeStill/pdf-lab/internal/faults"
	"github.com/JaimeStill/pdf-lab/internal/validation"
)

// Form field names.
const (
	FieldFile  = "file"
	FieldFiles = "files"
)

// Form is a parsed multipart request. It counts the uploads it hands out so
// the journal can record input sizes.
type Form struct {
	multipart *multipart.Form
	files     int
	bytes     int64
}

// ParseForm bounds the request body by maxRequest and parses it as
// multipart/form-data, keeping up to memory bytes in memory.
func ParseForm(w http.ResponseWriter, r *http.Request, maxRequest, memory int64) (*Form, error) {
	if maxRequest > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequest)
	}

	if err := r.ParseMultipartForm(memory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, faults.Newf(faults.FileTooLarge,
				"request too large: the upload limit is %s", humanize.IBytes(uint64(tooLarge.Limit)),
			).WithDetail("max_size_bytes", tooLarge.Limit)
		case errors.Is(err, http.ErrNotMultipart):
			return nil, faults.New(faults.InvalidParameter, "request must be multipart/form-data")
		default:
			return nil, faults.Wrap(faults.InvalidParameter, err, "malformed multipart form")
		}
	}

	return &Form{multipart: r.MultipartForm}, nil
}

// Close removes any temporary files backing the uploads.
func (f *Form) Close() error {
	return f.multipart.RemoveAll()
}

// FileCount is the number of uploads validated so far.
func (f *Form) FileCount() int {
	return f.files
}

// InputBytes is the total size of uploads validated so far.
func (f *Form) InputBytes() int64 {
	return f.bytes
}

// Value returns the trimmed value of a text field, or "" when absent.
func (f *Form) Value(key string) string {
	if vs := f.multipart.Value[key]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

// Optional returns the trimmed value of a text field and whether it was given
// a non-blank value.
func (f *Form) Optional(key string) (*string, bool) {
	v := f.Value(key)
	if v == "" {
		return nil, false
	}
	return &v, true
}

// Int parses an integer field. A blank field yields fallback.
func (f *Form) Int(key string, fallback int) (int, error) {
	v := f.Value(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, faults.Newf(faults.InvalidParameter, "%s must be an integer, got %q", key, v).
			WithDetail("field", key)
	}
	return n, nil
}

// Float parses a decimal field. A blank field yields fallback.
func (f *Form) Float(key string, fallback float64) (float64, error) {
	v := f.Value(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, faults.Newf(faults.InvalidParameter, "%s must be a number, got %q", key, v).
			WithDetail("field", key)
	}
	return n, nil
}

// Bool parses a boolean field. A blank field yields fallback.
func (f *Form) Bool(key string, fallback bool) (bool, error) {
	v := f.Value(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, faults.Newf(faults.InvalidParameter, "%s must be true or false, got %q", key, v).
			WithDetail("field", key)
	}
	return b, nil
}

// File validates the single upload in the file field and returns its content
// and filename.
func (f *Form) File(v *validation.Validator, kind validation.Kind) ([]byte, string, error) {
	headers := f.multipart.File[FieldFile]
	if len(headers) == 0 {
		return nil, "", faults.New(faults.InvalidParameter, "no file provided").
			WithDetail("field", FieldFile)
	}

	data, err := v.Validate(validation.FromFileHeader(headers[0]), kind)
	if err != nil {
		return nil, "", err
	}

	f.count(data)
	return data, headers[0].Filename, nil
}

// Files validates every upload in the files field, in order. Uploads sent
// under file are accepted when files is empty.
func (f *Form) Files(v *validation.Validator, kind validation.Kind) ([][]byte, error) {
	headers := f.multipart.File[FieldFiles]
	if len(headers) == 0 {
		headers = f.multipart.File[FieldFile]
	}

	uploads := make([]validation.UploadedFile, len(headers))
	for i, h := range headers {
		uploads[i] = validation.FromFileHeader(h)
	}

	docs, err := v.ValidateMany(uploads, kind)
	if err != nil {
		return nil, err
	}

	for _, d := range docs {
		f.count(d)
	}
	return docs, nil
}

func (f *Form) count(data []byte) {
	f.files++
	f.bytes += int64(len(data))
}
