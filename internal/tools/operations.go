package tools

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/JaimeStill/pdf-lab/internal/faults"
	"github.com/JaimeStill/pdf-lab/internal/pdfops"
	"github.com/JaimeStill/pdf-lab/internal/validation"
	"github.com/JaimeStill/pdf-lab/internal/workers"
)

// Compression response headers.
const (
	HeaderOriginalSize     = "X-Original-Size"
	HeaderCompressedSize   = "X-Compressed-Size"
	HeaderCompressionRatio = "X-Compression-Ratio"
)

// DefaultOpacity is the watermark opacity used when none is given.
const DefaultOpacity = 0.2

// TextResponse is the JSON body of extract-text.
type TextResponse struct {
	Text             string `json:"text"`
	Filename         string `json:"filename"`
	PagesProcessed   int    `json:"pages_processed"`
	ExtractionMethod string `json:"extraction_method"`
	DegradedPages    []int  `json:"degraded_pages"`
}

// MetadataResponse is the JSON body of a metadata read.
type MetadataResponse struct {
	Filename         string `json:"filename"`
	Pages            int    `json:"pages"`
	Title            string `json:"title"`
	Author           string `json:"author"`
	Subject          string `json:"subject"`
	Creator          string `json:"creator"`
	Producer         string `json:"producer"`
	CreationDate     string `json:"creation_date"`
	ModificationDate string `json:"modification_date"`
	IsEncrypted      bool   `json:"is_encrypted"`
	FileSize         int64  `json:"file_size"`
}

// Merge handles POST /merge - concatenates the uploaded PDFs in order.
func (h *Handler) Merge(r *http.Request, form *Form) (*Result, error) {
	docs, err := form.Files(h.validator, validation.KindPDF)
	if err != nil {
		return nil, err
	}

	out, err := h.proc.Merge(docs)
	if err != nil {
		return nil, err
	}
	return Attachment("merged.pdf", ContentTypePDF, out), nil
}

// Split handles POST /split - one PDF per range, zipped when more than one.
func (h *Handler) Split(r *http.Request, form *Form) (*Result, error) {
	data, _, err := form.File(h.validator, validation.KindPDF)
	if err != nil {
		return nil, err
	}

	total, err := h.proc.PageCount(data)
	if err != nil {
		return nil, err
	}

	ranges, err := validation.ParsePageRanges(form.Value("ranges"), total)
	if err != nil {
		return nil, err
	}

	parts, err := h.proc.Split(data, ranges)
	if err != nil {
		return nil, err
	}
	return Bundle(parts, "split.pdf", ContentTypePDF, "split.zip")
}

// Reorder handles POST /reorder - rebuilds the document in the given page order.
func (h *Handler) Reorder(r *http.Request, form *Form) (*Result, error) {
	data, _, err := form.File(h.validator, validation.KindPDF)
	if err != nil {
		return nil, err
	}

	total, err := h.proc.PageCount(data)
	if err != nil {
		return nil, err
	}

	order, err := validation.ParsePageOrder(form.Value("order"), total)
	if err != nil {
		return nil, err
	}

	out, err := h.proc.Reorder(data, order)
	if err != nil {
		return nil, err
	}
	return Attachment("reordered.pdf", ContentTypePDF, out), nil
}

// Rotate handles POST /rotate - rotates every page, or the pages selected by
// the optional pages field.
func (h *Handler) Rotate(r *http.Request, form *Form) (*Result, error) {
	data, _, err := form.File(h.validator, validation.KindPDF)
	if err != nil {
		return nil, err
	}

	angle, err := form.Int("angle", 0)
	if err != nil {
		return nil, err
	}
	if angle, err = validation.RotationAngle(angle); err != nil {
		return nil, err
	}

	var ranges []validation.PageRange
	if expr := form.Value("pages"); expr != "" {
		total, err := h.proc.PageCount(data)
		if err != nil {
			return nil, err
		}
		if ranges, err = validation.ParsePageRanges(expr, total); err != nil {
			return nil, err
		}
	}

	out, err := h.proc.Rotate(data, angle, ranges)
	if err != nil {
		return nil, err
	}
	return Attachment("rotated.pdf", ContentTypePDF, out), nil
}

// ExtractText handles POST /extract-text - returns the document text as JSON.
func (h *Handler) ExtractText(r *http.Request, form *Form) (*Result, error) {
	data, filename, err := form.File(h.validator, validation.KindPDF)
	if err != nil {
		return nil, err
	}

	allowOCR, err := form.Bool("ocr", true)
	if err != nil {
		return nil, err
	}

	ctx := context.WithoutCancel(r.Context())
	text, err := workers.Run(r.Context(), h.pool, "extract-text", func() (pdfops.TextResult, error) {
		return h.proc.ExtractText(ctx, data, allowOCR)
	})
	if err != nil {
		return nil, poolError(err)
	}

	degraded := text.DegradedPages
	if degraded == nil {
		degraded = []int{}
	}

	return JSON(TextResponse{
		Text:             text.Text,
		Filename:         filename,
		PagesProcessed:   text.Pages,
		ExtractionMethod: text.Method,
		DegradedPages:    degraded,
	}), nil
}

// Watermark handles POST /watermark - stamps text over every page.
func (h *Handler) Watermark(r *http.Request, form *Form) (*Result, error) {
	data, _, err := form.File(h.validator, validation.KindPDF)
	if err != nil {
		return nil, err
	}

	text, err := validation.WatermarkText(form.Value("watermark_text"))
	if err != nil {
		return nil, err
	}

	opacity, err := form.Float("opacity", DefaultOpacity)
	if err != nil {
		return nil, err
	}
	if opacity, err = validation.Opacity(opacity); err != nil {
		return nil, err
	}

	position, err := validation.Position(form.Value("position"), validation.WatermarkPositions)
	if err != nil {
		return nil, err
	}

	out, err := h.proc.Watermark(data, text, opacity, position)
	if err != nil {
		return nil, err
	}
	return Attachment("watermarked.pdf", ContentTypePDF, out), nil
}

// NumberPages handles POST /pagenum - stamps "n/total" on every page.
func (h *Handler) NumberPages(r *http.Request, form *Form) (*Result, error) {
	data, _, err := form.File(h.validator, validation.KindPDF)
	if err != nil {
		return nil, err
	}

	position, err := validation.Position(form.Value("position"), validation.PageNumberPositions)
	if err != nil {
		return nil, err
	}

	out, err := h.proc.NumberPages(data, position)
	if err != nil {
		return nil, err
	}
	return Attachment("numbered.pdf", ContentTypePDF, out), nil
}

// Protect handles POST /protect - encrypts the document with a password.
func (h *Handler) Protect(r *http.Request, form *Form) (*Result, error) {
	data, _, err := form.File(h.validator, validation.KindPDF)
	if err != nil {
		return nil, err
	}

	password, err := validation.Password(form.Value("password"))
	if err != nil {
		return nil, err
	}

	out, err := h.proc.Protect(data, password)
	if err != nil {
		return nil, err
	}
	return Attachment("protected.pdf", ContentTypePDF, out), nil
}

// Unlock handles POST /unlock - removes password protection.
func (h *Handler) Unlock(r *http.Request, form *Form) (*Result, error) {
	data, _, err := form.File(h.validator, validation.KindPDF)
	if err != nil {
		return nil, err
	}

	password, err := validation.Password(form.Value("password"))
	if err != nil {
		return nil, err
	}

	out, err := h.proc.Unlock(data, password)
	if err != nil {
		return nil, err
	}
	return Attachment("unlocked.pdf", ContentTypePDF, out), nil
}

// ImagesToPDF handles POST /images-to-pdf - one page per uploaded image.
func (h *Handler) ImagesToPDF(r *http.Request, form *Form) (*Result, error) {
	images, err := form.Files(h.validator, validation.KindImage)
	if err != nil {
		return nil, err
	}

	out, err := h.proc.ImagesToPDF(images)
	if err != nil {
		return nil, err
	}
	return Attachment("images.pdf", ContentTypePDF, out), nil
}

// PDFToImages handles POST /pdf-to-images - renders every page and returns a zip.
func (h *Handler) PDFToImages(r *http.Request, form *Form) (*Result, error) {
	data, _, err := form.File(h.validator, validation.KindPDF)
	if err != nil {
		return nil, err
	}

	dpi, err := form.Int("dpi", 0)
	if err != nil {
		return nil, err
	}
	if dpi, err = validation.DPI(dpi, h.cfg.DefaultDPI); err != nil {
		return nil, err
	}

	format, err := validation.ImageFormat(form.Value("format"))
	if err != nil {
		return nil, err
	}

	opts := pdfops.RenderOptions{DPI: dpi, Format: format}
	parts, err := workers.Run(r.Context(), h.pool, "pdf-to-images", func() ([]pdfops.Part, error) {
		return h.proc.RenderPages(r.Context(), data, opts)
	})
	if err != nil {
		return nil, poolError(err)
	}
	return Zip("images.zip", parts)
}

// Compress handles POST /compress - optimizes the document and reports the
// size change in response headers.
func (h *Handler) Compress(r *http.Request, form *Form) (*Result, error) {
	data, _, err := form.File(h.validator, validation.KindPDF)
	if err != nil {
		return nil, err
	}

	level, err := validation.Compression(form.Value("level"), h.cfg.DefaultCompression)
	if err != nil {
		return nil, err
	}

	c, err := h.proc.Compress(data, level)
	if err != nil {
		return nil, err
	}
	if c.Fallback {
		h.logger.Warn("compression fell back to a lossless copy", "level", level)
	}

	return Attachment("compressed.pdf", ContentTypePDF, c.Data).
		WithHeader(HeaderOriginalSize, strconv.Itoa(c.OriginalSize)).
		WithHeader(HeaderCompressedSize, strconv.Itoa(c.CompressedSize)).
		WithHeader(HeaderCompressionRatio, c.RatioString()), nil
}

// Metadata handles POST /metadata - edits title, author and subject when any
// is given, otherwise returns the document metadata as JSON.
func (h *Handler) Metadata(r *http.Request, form *Form) (*Result, error) {
	data, filename, err := form.File(h.validator, validation.KindPDF)
	if err != nil {
		return nil, err
	}

	var edit pdfops.MetadataEdit
	edit.Title, _ = form.Optional("title")
	edit.Author, _ = form.Optional("author")
	edit.Subject, _ = form.Optional("subject")

	if !edit.Empty() {
		out, err := h.proc.EditMetadata(data, edit)
		if err != nil {
			return nil, err
		}
		return Attachment("metadata.pdf", ContentTypePDF, out), nil
	}

	md, err := h.proc.ReadMetadata(data)
	if err != nil {
		return nil, err
	}

	return JSON(MetadataResponse{
		Filename:         filename,
		Pages:            md.Pages,
		Title:            md.Title,
		Author:           md.Author,
		Subject:          md.Subject,
		Creator:          md.Creator,
		Producer:         md.Producer,
		CreationDate:     md.CreationDate,
		ModificationDate: md.ModificationDate,
		IsEncrypted:      md.Encrypted,
		FileSize:         int64(len(data)),
	}), nil
}

func poolError(err error) error {
	if errors.Is(err, workers.ErrPoolClosed) {
		return faults.Wrap(faults.Unavailable, err, "service is shutting down")
	}
	return err
}
