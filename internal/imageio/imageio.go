// Package imageio loads and saves raster images for the viewer.
package imageio

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	// Registered decoders. The viewer accepts anything image.Decode
	// recognizes.
	_ "image/gif"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/fredrik-forsberg/PanZoomRotate/internal/pdf"
)

// FileFilter lists the extensions the open dialog should offer.
var FileFilter = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif", ".webp", ".pdf"}

// pdfDPI is the resolution PDF pages are rasterized at. 300 keeps text
// readable when zooming in.
const pdfDPI = 300

// Open decodes an image file. A PDF is rasterized to its first page.
func Open(path string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		doc, err := pdf.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
		}
		if doc.PageCount() == 0 {
			return nil, fmt.Errorf("%s has no pages", filepath.Base(path))
		}
		img, err := doc.RenderPage(0, pdfDPI)
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", filepath.Base(path), err)
		}
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// Save encodes an image to a file. The format is chosen by extension:
// .jpg/.jpeg produce JPEG, everything else PNG.
func Save(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 92})
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return f.Close()
}
