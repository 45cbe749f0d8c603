package pdfops

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/JaimeStill/pdf-lab/internal/faults"
)

// ImagesToPDF places each image on its own page, in order. Page size follows
// the image size.
func (s *Service) ImagesToPDF(images [][]byte) ([]byte, error) {
	readers := make([]io.Reader, 0, len(images))

	for i, img := range images {
		normalized, err := normalizeImage(img)
		if err != nil {
			return nil, faults.Wrap(faults.InvalidFile, err, fmt.Sprintf("image %d could not be decoded", i+1)).
				WithDetail("file_index", i+1)
		}
		readers = append(readers, bytes.NewReader(normalized))
	}

	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, readers, nil, configuration()); err != nil {
		return nil, failed("convert images", err)
	}
	return out.Bytes(), nil
}

// normalizeImage passes JPEG and PNG through and re-encodes every other
// format as PNG.
func normalizeImage(data []byte) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	if format == "jpeg" || format == "png" {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
