// Package clipboard moves images between the viewer and the system
// clipboard. Payloads cross the boundary as PNG bytes.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	xclipboard "golang.design/x/clipboard"
)

// ErrNoImage is returned by ReadImage when the clipboard holds no image.
var ErrNoImage = errors.New("clipboard: no image available")

var initErr error

// Init probes clipboard support. It must be called once before ReadImage or
// WriteImage; on systems without clipboard access it returns an error and
// the copy/paste actions stay disabled.
func Init() error {
	initErr = xclipboard.Init()
	if initErr != nil {
		return fmt.Errorf("clipboard unavailable: %w", initErr)
	}
	return nil
}

// Supported reports whether Init succeeded.
func Supported() bool {
	return initErr == nil
}

// ReadImage returns the image currently on the clipboard.
func ReadImage() (image.Image, error) {
	if initErr != nil {
		return nil, fmt.Errorf("clipboard unavailable: %w", initErr)
	}
	data := xclipboard.Read(xclipboard.FmtImage)
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode clipboard image: %w", err)
	}
	return img, nil
}

// WriteImage places an image on the clipboard.
func WriteImage(img image.Image) error {
	if initErr != nil {
		return fmt.Errorf("clipboard unavailable: %w", initErr)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode clipboard image: %w", err)
	}
	xclipboard.Write(xclipboard.FmtImage, buf.Bytes())
	return nil
}
