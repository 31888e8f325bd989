// Package capture grabs the contents of the screen for display.
package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
	"github.com/rs/zerolog"
)

// Grabber captures screenshots. The zero value is not usable; use New.
type Grabber struct {
	log zerolog.Logger
}

// New creates a Grabber.
func New(log zerolog.Logger) *Grabber {
	return &Grabber{log: log.With().Str("component", "capture").Logger()}
}

// AllDisplays captures the union of every active display, matching what a
// user thinks of as "the screen" on a multi-monitor setup.
func (g *Grabber) AllDisplays() (image.Image, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, fmt.Errorf("no active displays")
	}

	bounds := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		bounds = bounds.Union(screenshot.GetDisplayBounds(i))
	}

	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screen: %w", err)
	}
	g.log.Debug().
		Int("displays", n).
		Int("width", bounds.Dx()).
		Int("height", bounds.Dy()).
		Msg("captured screen")
	return img, nil
}

// Display captures a single display by index.
func (g *Grabber) Display(index int) (image.Image, error) {
	if index < 0 || index >= screenshot.NumActiveDisplays() {
		return nil, fmt.Errorf("display %d does not exist", index)
	}
	img, err := screenshot.CaptureDisplay(index)
	if err != nil {
		return nil, fmt.Errorf("failed to capture display %d: %w", index, err)
	}
	return img, nil
}
