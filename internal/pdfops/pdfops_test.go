package pdfops_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/JaimeStill/pdf-lab/internal/faults"
	"github.com/JaimeStill/pdf-lab/internal/pdfops"
	"github.com/JaimeStill/pdf-lab/internal/validation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService() *pdfops.Service {
	return pdfops.New(pdfops.Config{}, testLogger())
}

func solidPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// buildPDF creates one page per width, each page sized after its image so
// pages can be told apart by their dimensions.
func buildPDF(t *testing.T, svc *pdfops.Service, widths ...int) []byte {
	t.Helper()

	images := make([][]byte, len(widths))
	for i, w := range widths {
		images[i] = solidPNG(t, w, 100)
	}

	data, err := svc.ImagesToPDF(images)
	if err != nil {
		t.Fatalf("ImagesToPDF() error = %v", err)
	}
	return data
}

func pageWidths(t *testing.T, data []byte) []float64 {
	t.Helper()

	dims, err := api.PageDims(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		t.Fatalf("PageDims() error = %v", err)
	}

	widths := make([]float64, len(dims))
	for i, d := range dims {
		widths[i] = d.Width
	}
	return widths
}

func pageCount(t *testing.T, svc *pdfops.Service, data []byte) int {
	t.Helper()

	n, err := svc.PageCount(data)
	if err != nil {
		t.Fatalf("PageCount() error = %v", err)
	}
	return n
}

func TestMerge_TwoSinglePageDocuments(t *testing.T) {
	svc := newService()

	first := buildPDF(t, svc, 100)
	second := buildPDF(t, svc, 200)

	merged, err := svc.Merge([][]byte{first, second})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	if n := pageCount(t, svc, merged); n != 2 {
		t.Fatalf("page count = %d, want 2", n)
	}

	want := append(pageWidths(t, first), pageWidths(t, second)...)
	got := pageWidths(t, merged)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("page %d width = %v, want %v", i+1, got[i], want[i])
		}
	}
}

func TestReorder(t *testing.T) {
	svc := newService()

	input := buildPDF(t, svc, 100, 200, 300)
	in := pageWidths(t, input)

	out, err := svc.Reorder(input, []int{3, 1, 2})
	if err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}

	got := pageWidths(t, out)
	want := []float64{in[2], in[0], in[1]}

	if len(got) != len(want) {
		t.Fatalf("page count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("output page %d width = %v, want %v", i+1, got[i], want[i])
		}
	}
}

func TestReorder_Duplicates(t *testing.T) {
	svc := newService()

	input := buildPDF(t, svc, 100, 200)

	out, err := svc.Reorder(input, []int{1, 1, 2})
	if err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}

	if n := pageCount(t, svc, out); n != 3 {
		t.Errorf("page count = %d, want 3", n)
	}
}

func TestSplit(t *testing.T) {
	svc := newService()

	input := buildPDF(t, svc, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100)

	ranges, err := validation.ParsePageRanges("1-3,5,7-", 10)
	if err != nil {
		t.Fatalf("ParsePageRanges() error = %v", err)
	}

	parts, err := svc.Split(input, ranges)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	wantPages := []int{3, 1, 4}
	wantNames := []string{"part_1.pdf", "part_2.pdf", "part_3.pdf"}

	if len(parts) != len(wantPages) {
		t.Fatalf("parts = %d, want %d", len(parts), len(wantPages))
	}
	for i, part := range parts {
		if part.Name != wantNames[i] {
			t.Errorf("part %d name = %q, want %q", i, part.Name, wantNames[i])
		}
		if n := pageCount(t, svc, part.Data); n != wantPages[i] {
			t.Errorf("part %d pages = %d, want %d", i+1, n, wantPages[i])
		}
	}
}

func TestRotate(t *testing.T) {
	svc := newService()
	input := buildPDF(t, svc, 100, 200)

	out, err := svc.Rotate(input, 90, nil)
	if err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}
	if n := pageCount(t, svc, out); n != 2 {
		t.Errorf("page count = %d, want 2", n)
	}
}

func TestProtectUnlock(t *testing.T) {
	svc := newService()
	input := buildPDF(t, svc, 100)

	locked, err := svc.Protect(input, "secret")
	if err != nil {
		t.Fatalf("Protect() error = %v", err)
	}

	t.Run("wrong password", func(t *testing.T) {
		out, err := svc.Unlock(locked, "wrong")
		if err == nil {
			t.Fatal("Unlock() with wrong password succeeded")
		}
		if faults.Status(err) != 401 {
			t.Errorf("status = %d, want 401", faults.Status(err))
		}
		if faults.Code(err) != faults.CodePassword {
			t.Errorf("code = %q, want %q", faults.Code(err), faults.CodePassword)
		}
		if out != nil {
			t.Error("no output should be produced on a wrong password")
		}
	})

	t.Run("correct password", func(t *testing.T) {
		out, err := svc.Unlock(locked, "secret")
		if err != nil {
			t.Fatalf("Unlock() error = %v", err)
		}
		md, err := svc.ReadMetadata(out)
		if err != nil {
			t.Fatalf("ReadMetadata() error = %v", err)
		}
		if md.Encrypted {
			t.Error("unlocked document is still encrypted")
		}
	})
}

func TestUnlock_NotEncrypted(t *testing.T) {
	svc := newService()
	input := buildPDF(t, svc, 100)

	out, err := svc.Unlock(input, "anything")
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Error("unencrypted input should be returned unchanged")
	}
}

func TestWatermarkAndNumbering(t *testing.T) {
	svc := newService()
	input := buildPDF(t, svc, 300, 300)

	watermarked, err := svc.Watermark(input, "CONFIDENTIAL", 0.2, "center")
	if err != nil {
		t.Fatalf("Watermark() error = %v", err)
	}
	if n := pageCount(t, svc, watermarked); n != 2 {
		t.Errorf("watermarked page count = %d, want 2", n)
	}

	for _, pos := range validation.PageNumberPositions {
		numbered, err := svc.NumberPages(input, pos)
		if err != nil {
			t.Fatalf("NumberPages(%q) error = %v", pos, err)
		}
		if n := pageCount(t, svc, numbered); n != 2 {
			t.Errorf("NumberPages(%q) page count = %d, want 2", pos, n)
		}
	}
}

func TestCompress(t *testing.T) {
	svc := newService()
	input := buildPDF(t, svc, 200, 200, 200)

	for _, level := range []validation.CompressionLevel{
		validation.CompressionLow,
		validation.CompressionMedium,
		validation.CompressionHigh,
	} {
		t.Run(string(level), func(t *testing.T) {
			res, err := svc.Compress(input, level)
			if err != nil {
				t.Fatalf("Compress() error = %v", err)
			}
			if res.OriginalSize != len(input) {
				t.Errorf("OriginalSize = %d, want %d", res.OriginalSize, len(input))
			}
			if res.CompressedSize != len(res.Data) {
				t.Errorf("CompressedSize = %d, want %d", res.CompressedSize, len(res.Data))
			}
			if n := pageCount(t, svc, res.Data); n != 3 {
				t.Errorf("page count = %d, want 3", n)
			}
		})
	}
}

func TestCompress_UnreadableDocument(t *testing.T) {
	svc := newService()
	garbage := []byte("%PDF-1.4\nthis is not a real document\n%%EOF\n")

	res, err := svc.Compress(garbage, validation.CompressionMedium)
	if !faults.Is(err, faults.Processing) {
		t.Fatalf("err = %v, want Processing", err)
	}
	if faults.Status(err) != 422 {
		t.Errorf("status = %d, want 422", faults.Status(err))
	}
	if res.Data != nil {
		t.Error("no output should be produced for an unreadable document")
	}
}

func TestCompress_LosslessFallback(t *testing.T) {
	svc := newService()
	input := buildPDF(t, svc, 200, 200)

	pdfops.SetOptimizer(svc, func(io.ReadSeeker, io.Writer, *model.Configuration) error {
		return errors.New("optimize: unsupported object")
	})

	res, err := svc.Compress(input, validation.CompressionHigh)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if !res.Fallback {
		t.Error("Fallback = false, want true")
	}
	if res.CompressedSize != len(res.Data) || res.OriginalSize != len(input) {
		t.Errorf("sizes = %d/%d, data %d input %d", res.OriginalSize, res.CompressedSize, len(res.Data), len(input))
	}
	if n := pageCount(t, svc, res.Data); n != 2 {
		t.Errorf("page count = %d, want 2", n)
	}
}

func TestCompression_Ratio(t *testing.T) {
	c := pdfops.Compression{OriginalSize: 1000, CompressedSize: 750}
	if c.RatioString() != "25.0" {
		t.Errorf("RatioString() = %q, want 25.0", c.RatioString())
	}

	if (pdfops.Compression{}).Ratio() != 0 {
		t.Error("Ratio() of empty input should be 0")
	}
}

func TestMetadata_EditAndRead(t *testing.T) {
	svc := newService()
	input := buildPDF(t, svc, 100, 100)

	title := "Quarterly (Draft)"
	author := "Jane Example"

	edited, err := svc.EditMetadata(input, pdfops.MetadataEdit{Title: &title, Author: &author})
	if err != nil {
		t.Fatalf("EditMetadata() error = %v", err)
	}

	md, err := svc.ReadMetadata(edited)
	if err != nil {
		t.Fatalf("ReadMetadata() error = %v", err)
	}

	if md.Title != title {
		t.Errorf("Title = %q, want %q", md.Title, title)
	}
	if md.Author != author {
		t.Errorf("Author = %q, want %q", md.Author, author)
	}
	if md.Pages != 2 {
		t.Errorf("Pages = %d, want 2", md.Pages)
	}
	if md.Encrypted {
		t.Error("Encrypted = true, want false")
	}
}

func TestMetadataEdit_Empty(t *testing.T) {
	if !(pdfops.MetadataEdit{}).Empty() {
		t.Error("zero edit should be empty")
	}
	s := "x"
	if (pdfops.MetadataEdit{Subject: &s}).Empty() {
		t.Error("edit with subject should not be empty")
	}
}

func TestImagesToPDF_InvalidImage(t *testing.T) {
	svc := newService()

	_, err := svc.ImagesToPDF([][]byte{solidPNG(t, 10, 10), []byte("not an image")})
	if !faults.Is(err, faults.InvalidFile) {
		t.Fatalf("err = %v, want InvalidFile", err)
	}
	fe, _ := faults.As(err)
	if fe.Details["file_index"] != 2 {
		t.Errorf("file_index = %v, want 2", fe.Details["file_index"])
	}
}

func TestPageCount_Invalid(t *testing.T) {
	svc := newService()

	if _, err := svc.PageCount([]byte("garbage")); !faults.Is(err, faults.Processing) {
		t.Errorf("err = %v, want Processing", err)
	}
}

func TestRenderPages_Unavailable(t *testing.T) {
	svc := newService()

	_, err := svc.RenderPages(context.Background(), buildPDF(t, svc, 100), pdfops.RenderOptions{})
	if !faults.Is(err, faults.Unavailable) {
		t.Errorf("err = %v, want Unavailable", err)
	}
}

type fakeRasterizer struct {
	calls [][]int
}

func (f *fakeRasterizer) Render(ctx context.Context, data []byte, pages []int, opts pdfops.RenderOptions) ([][]byte, error) {
	f.calls = append(f.calls, pages)
	out := make([][]byte, len(pages))
	for i := range pages {
		out[i] = []byte(opts.Format)
	}
	return out, nil
}

func TestRenderPages_NamesPages(t *testing.T) {
	raster := &fakeRasterizer{}
	svc := pdfops.New(pdfops.Config{Rasterizer: raster}, testLogger())

	parts, err := svc.RenderPages(context.Background(), buildPDF(t, svc, 100, 200, 300), pdfops.RenderOptions{})
	if err != nil {
		t.Fatalf("RenderPages() error = %v", err)
	}

	want := []string{"page_1.png", "page_2.png", "page_3.png"}
	if len(parts) != len(want) {
		t.Fatalf("parts = %d, want %d", len(parts), len(want))
	}
	for i, p := range parts {
		if p.Name != want[i] {
			t.Errorf("part %d = %q, want %q", i, p.Name, want[i])
		}
	}
}

func TestExtractText_Invalid(t *testing.T) {
	svc := newService()

	if _, err := svc.ExtractText(context.Background(), []byte("not a pdf"), false); !faults.Is(err, faults.Processing) {
		t.Errorf("err = %v, want Processing", err)
	}
}

func TestAssembleText(t *testing.T) {
	tests := []struct {
		name         string
		pages        []pdfops.PageText
		wantMethod   string
		wantText     string
		wantDegraded []int
	}{
		{
			name:       "direct",
			pages:      []pdfops.PageText{{Number: 1, Text: "alpha"}, {Number: 2, Text: "beta "}},
			wantMethod: pdfops.MethodDirect,
			wantText:   "alpha\n\nbeta",
		},
		{
			name:       "all ocr",
			pages:      []pdfops.PageText{{Number: 1, Text: "scan", OCR: true}},
			wantMethod: pdfops.MethodOCR,
			wantText:   "scan",
		},
		{
			name: "mixed with degraded page",
			pages: []pdfops.PageText{
				{Number: 1, Text: "alpha"},
				{Number: 2, Text: "", OCR: true},
			},
			wantMethod:   pdfops.MethodMixed,
			wantText:     "alpha\n\n[Page 2: No text detected]",
			wantDegraded: []int{2},
		},
		{
			name:         "no text without ocr",
			pages:        []pdfops.PageText{{Number: 1}},
			wantMethod:   pdfops.MethodDirect,
			wantText:     "[Page 1: No text detected]",
			wantDegraded: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := pdfops.AssembleText(tt.pages)

			if res.Method != tt.wantMethod {
				t.Errorf("Method = %q, want %q", res.Method, tt.wantMethod)
			}
			if res.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", res.Text, tt.wantText)
			}
			if res.Pages != len(tt.pages) {
				t.Errorf("Pages = %d, want %d", res.Pages, len(tt.pages))
			}
			if len(res.DegradedPages) != len(tt.wantDegraded) {
				t.Fatalf("DegradedPages = %v, want %v", res.DegradedPages, tt.wantDegraded)
			}
			for i := range tt.wantDegraded {
				if res.DegradedPages[i] != tt.wantDegraded[i] {
					t.Errorf("DegradedPages = %v, want %v", res.DegradedPages, tt.wantDegraded)
				}
			}
			if res.Degraded() != (len(tt.wantDegraded) > 0) {
				t.Errorf("Degraded() = %v", res.Degraded())
			}
		})
	}
}
