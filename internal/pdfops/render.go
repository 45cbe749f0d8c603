package pdfops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/image"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/pdf-lab/internal/faults"
)

const pdfContentType = "application/pdf"

// RenderOptions controls page rasterization.
type RenderOptions struct {
	DPI    int
	Format string
}

// Rasterizer turns document pages into encoded images.
type Rasterizer interface {
	Render(ctx context.Context, data []byte, pages []int, opts RenderOptions) ([][]byte, error)
}

// MagickRasterizer renders pages with document-context's ImageMagick renderer.
type MagickRasterizer struct {
	tempDir string
}

// NewMagickRasterizer creates a rasterizer that stages documents in tempDir.
// An empty tempDir uses os.TempDir().
func NewMagickRasterizer(tempDir string) *MagickRasterizer {
	return &MagickRasterizer{tempDir: tempDir}
}

// Render returns one image per entry in pages, in the same order.
func (m *MagickRasterizer) Render(ctx context.Context, data []byte, pages []int, opts RenderOptions) ([][]byte, error) {
	if len(pages) == 0 {
		return nil, nil
	}

	path, cleanup, err := m.stage(data)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	imgCfg := config.ImageConfig{
		Format:  opts.Format,
		DPI:     opts.DPI,
		Options: map[string]any{},
	}
	if opts.Format == string(document.JPEG) {
		imgCfg.Quality = 90
	}

	results := make([][]byte, len(pages))
	tasks := make(chan int, len(pages))
	for i := range pages {
		tasks <- i
	}
	close(tasks)

	g, gctx := errgroup.WithContext(ctx)
	for range renderWorkerCount(len(pages)) {
		g.Go(func() error {
			return renderWorker(gctx, path, imgCfg, pages, tasks, results)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func renderWorker(
	ctx context.Context,
	path string,
	imgCfg config.ImageConfig,
	pages []int,
	tasks <-chan int,
	results [][]byte,
) error {
	doc, err := document.Open(path, pdfContentType)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	defer doc.Close()

	renderer, err := image.NewImageMagickRenderer(imgCfg)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	for idx := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := doc.ExtractPage(pages[idx])
		if err != nil {
			return fmt.Errorf("extract page %d: %w", pages[idx], err)
		}

		img, err := page.ToImage(renderer, nil)
		if err != nil {
			return fmt.Errorf("render page %d: %w", pages[idx], err)
		}
		results[idx] = img
	}
	return nil
}

func (m *MagickRasterizer) stage(data []byte) (string, func(), error) {
	dir := m.tempDir
	if dir == "" {
		dir = os.TempDir()
	}

	path := filepath.Join(dir, "pdf-lab-"+uuid.NewString()+".pdf")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", nil, fmt.Errorf("stage document: %w", err)
	}

	return path, func() { os.Remove(path) }, nil
}

func renderWorkerCount(pageCount int) int {
	return max(min(runtime.NumCPU(), pageCount), 1)
}

// RenderPages rasterizes every page of data into page_N.<format>.
func (s *Service) RenderPages(ctx context.Context, data []byte, opts RenderOptions) ([]Part, error) {
	if s.rasterizer == nil {
		return nil, faults.New(faults.Unavailable, "page rendering is not available: ImageMagick was not found")
	}

	count, err := s.PageCount(data)
	if err != nil {
		return nil, err
	}

	if opts.DPI <= 0 {
		opts.DPI = DefaultRenderDPI
	}
	if opts.Format == "" {
		opts.Format = string(document.PNG)
	}

	pages := make([]int, count)
	for i := range pages {
		pages[i] = i + 1
	}

	images, err := s.rasterizer.Render(ctx, data, pages, opts)
	if err != nil {
		return nil, failed("render pages", err)
	}

	parts := make([]Part, len(images))
	for i, img := range images {
		parts[i] = Part{
			Name: fmt.Sprintf("page_%d.%s", pages[i], opts.Format),
			Data: img,
		}
	}
	return parts, nil
}
