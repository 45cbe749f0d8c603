package tools

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/pdf-lab/internal/pdfops"
	"github.com/JaimeStill/pdf-lab/pkg/archive"
	"github.com/JaimeStill/pdf-lab/pkg/handlers"
)

// Response content types.
const (
	ContentTypePDF = "application/pdf"
	ContentTypeZip = "application/zip"
)

// Result is the output of one operation: either an attachment or a JSON body.
type Result struct {
	Filename    string
	ContentType string
	Data        []byte
	Header      http.Header
	JSON        any
}

// Attachment returns a downloadable file result.
func Attachment(filename, contentType string, data []byte) *Result {
	return &Result{Filename: filename, ContentType: contentType, Data: data}
}

// JSON returns a result whose body is v encoded as JSON.
func JSON(v any) *Result {
	return &Result{JSON: v}
}

// Bundle packages parts. A single part is returned as single; several are
// zipped into archiveName.
func Bundle(parts []pdfops.Part, single, singleType, archiveName string) (*Result, error) {
	if len(parts) == 1 {
		return Attachment(single, singleType, parts[0].Data), nil
	}
	return Zip(archiveName, parts)
}

// Zip packages parts into a zip archive named archiveName.
func Zip(archiveName string, parts []pdfops.Part) (*Result, error) {
	entries := make([]archive.Entry, len(parts))
	for i, p := range parts {
		entries[i] = archive.Entry{Name: p.Name, Data: p.Data}
	}

	data, err := archive.Zip(entries)
	if err != nil {
		return nil, fmt.Errorf("package %s: %w", archiveName, err)
	}
	return Attachment(archiveName, ContentTypeZip, data), nil
}

// WithHeader sets an extra response header.
func (r *Result) WithHeader(key, value string) *Result {
	if r.Header == nil {
		r.Header = http.Header{}
	}
	r.Header.Set(key, value)
	return r
}

// Size is the number of attachment bytes, or zero for JSON results.
func (r *Result) Size() int64 {
	return int64(len(r.Data))
}

// Write sends the result with status 200.
func (r *Result) Write(w http.ResponseWriter) {
	for k, vs := range r.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}

	if r.JSON != nil {
		handlers.RespondJSON(w, http.StatusOK, r.JSON)
		return
	}
	handlers.RespondAttachment(w, r.Filename, r.ContentType, r.Data)
}
