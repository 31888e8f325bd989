package viewport

import "time"

// Default tuning values. The zoom factor matches a 10% change per scroll
// notch; the drag timeout only exists as defensive cleanup for input streams
// that lose a pointer-up event.
const (
	DefaultMinScale        = 0.01
	DefaultMaxScale        = 100.0
	DefaultZoomFactor      = 1.10
	DefaultRotateDeadZone  = 0.05
	DefaultMaxDragDuration = 30 * time.Second
)

// Config carries the startup tuning for a Controller.
type Config struct {
	// MinScale and MaxScale bound the zoom level. 0 < MinScale <= MaxScale.
	MinScale float64
	MaxScale float64

	// ZoomFactor is the scale multiplier applied per scroll notch or
	// zoom-key press. Must be > 1.
	ZoomFactor float64

	// CenteredZoom anchors scroll zoom at the viewport center instead of
	// the pointer position. Key zoom is always center-anchored.
	CenteredZoom bool

	// CenteredRotation rotates about the viewport center instead of the
	// point where the secondary drag started.
	CenteredRotation bool

	// RotateDeadZone is the fraction of min(viewport w, h)/2 around the
	// rotation pivot within which pointer motion does not rotate. Small
	// motions near the pivot would otherwise cause large angle jumps.
	RotateDeadZone float64

	// MaxDragDuration expires a drag session that never saw a pointer-up.
	// Zero disables the timeout.
	MaxDragDuration time.Duration
}

// DefaultConfig returns the default tuning, matching the interactive feel of
// scroll-wheel zoom at 10% per notch and center-pivot rotation.
func DefaultConfig() Config {
	return Config{
		MinScale:         DefaultMinScale,
		MaxScale:         DefaultMaxScale,
		ZoomFactor:       DefaultZoomFactor,
		CenteredRotation: true,
		RotateDeadZone:   DefaultRotateDeadZone,
		MaxDragDuration:  DefaultMaxDragDuration,
	}
}

// withDefaults fills in zero values so a partially specified Config behaves.
func (c Config) withDefaults() Config {
	if c.MinScale <= 0 {
		c.MinScale = DefaultMinScale
	}
	if c.MaxScale <= 0 {
		c.MaxScale = DefaultMaxScale
	}
	if c.MaxScale < c.MinScale {
		c.MinScale, c.MaxScale = c.MaxScale, c.MinScale
	}
	if c.ZoomFactor <= 1 {
		c.ZoomFactor = DefaultZoomFactor
	}
	if c.RotateDeadZone <= 0 || c.RotateDeadZone >= 1 {
		c.RotateDeadZone = DefaultRotateDeadZone
	}
	return c
}
