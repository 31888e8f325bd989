// Package viewport converts raw pointer, scroll, and key events into an
// affine view transform for a displayed image. The Controller owns the view
// state and clamping policy; the gesture recognizer inside it owns the
// drag-anchor and rotation-pivot bookkeeping.
//
// The Controller does no locking; callers must serialize access. When
// content-loaded notifications arrive from worker goroutines, the caller
// either re-delivers them on the UI event loop or guards every call with
// its own mutex.
package viewport

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/fredrik-forsberg/PanZoomRotate/pkg/transform"
)

// ErrInvalidSize is returned when a viewport or content size is not
// strictly positive. Gesture processing is refused until a valid viewport
// size has been established.
var ErrInvalidSize = errors.New("viewport: size must be positive")

// State is the complete view state at a point in time.
type State struct {
	Viewport  transform.Size
	Content   transform.Size
	Transform transform.Transform
}

// Controller owns the current view transform for one viewport. It applies
// gesture updates, enforces the zoom bounds, and keeps at least a sliver of
// the content visible so the image cannot be panned out of existence.
type Controller struct {
	cfg Config
	log zerolog.Logger

	st         State
	gest       gestures
	hasContent bool
}

// Option modifies a Controller during creation.
type Option func(*Controller)

// WithLogger sets the logger used for invariant-violation recovery.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithClock overrides the time source used for drag-session expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.gest.now = now }
}

// New creates a Controller. Zero numeric fields of cfg are replaced with
// defaults, except MaxDragDuration where zero disables the timeout. The
// CenteredZoom and CenteredRotation booleans are taken as given, so callers
// wanting the center-pivot rotation default should start from DefaultConfig.
func New(cfg Config, opts ...Option) *Controller {
	cfg = cfg.withDefaults()
	c := &Controller{
		cfg: cfg,
		log: zerolog.Nop(),
		st:  State{Transform: transform.Identity()},
		gest: gestures{
			cfg: cfg,
			now: time.Now,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resize updates the viewport size. The content keeps its current offset
// from the viewport center, so zoom and rotation survive a window resize.
func (c *Controller) Resize(size transform.Size) error {
	if !size.Positive() {
		return ErrInvalidSize
	}
	old := c.st.Viewport
	c.st.Viewport = size
	if !c.hasContent {
		return nil
	}
	if !old.Positive() {
		c.st.Transform = c.fit()
		return nil
	}
	shift := size.Center().Sub(old.Center())
	c.st.Transform = c.clamp(c.st.Transform.TranslatedBy(shift.X, shift.Y))
	return nil
}

// SetContent replaces the content size and resets the view to fit it.
// Call it whenever a new image, capture, or pasted buffer arrives.
func (c *Controller) SetContent(size transform.Size) error {
	if !size.Positive() {
		return ErrInvalidSize
	}
	c.st.Content = size
	c.hasContent = true
	c.gest.interrupt()
	c.st.Transform = c.fit()
	return nil
}

// Apply feeds one input event through the gesture recognizer and clamps the
// result. Events arriving before content and a viewport are established are
// ignored, as are malformed or out-of-order ones.
func (c *Controller) Apply(ev Event) {
	if !c.hasContent || !c.st.Viewport.Positive() {
		return
	}
	t, changed, err := c.gest.handle(ev, c.st)
	if err != nil {
		// Scale degenerated to zero. This cannot happen while the
		// clamp below runs after every update, so recover loudly.
		c.log.Error().Err(err).Msg("view transform is singular, resetting")
		c.gest.interrupt()
		c.st.Transform = c.fit()
		return
	}
	if changed {
		c.st.Transform = c.clamp(t)
	}
}

// Interrupt force-discards any active drag session, e.g. on focus loss or
// when the pointer leaves the tracking region. The transform is unchanged.
func (c *Controller) Interrupt() {
	c.gest.interrupt()
}

// Reset restores the centered, aspect-fit view. Idempotent.
func (c *Controller) Reset() {
	c.gest.interrupt()
	c.st.Transform = c.fit()
}

// fit computes the aspect-fit transform and runs it through the clamp, so
// the scale bounds hold even when the fitted content is extreme, e.g. a
// very wide multi-display capture in a small window.
func (c *Controller) fit() transform.Transform {
	t := transform.FitContent(c.st.Viewport, c.st.Content)
	if c.hasContent && c.st.Viewport.Positive() {
		t = c.clamp(t)
	}
	return t
}

// Current returns the current view transform. Safe to call once per frame;
// never blocks.
func (c *Controller) Current() transform.Transform {
	return c.st.Transform
}

// ContentSize returns the size of the loaded content, or the zero Size if
// nothing has been loaded.
func (c *Controller) ContentSize() transform.Size {
	return c.st.Content
}

// ViewportSize returns the current viewport size.
func (c *Controller) ViewportSize() transform.Size {
	return c.st.Viewport
}

// HasContent reports whether content has been loaded.
func (c *Controller) HasContent() bool {
	return c.hasContent
}

// Config returns the effective configuration after defaulting.
func (c *Controller) Config() Config {
	return c.cfg
}

// SetCenteredZoom switches scroll zoom between pointer- and center-anchored.
func (c *Controller) SetCenteredZoom(on bool) {
	c.cfg.CenteredZoom = on
	c.gest.cfg.CenteredZoom = on
}

// SetCenteredRotation switches rotation between center and drag-start pivot.
func (c *Controller) SetCenteredRotation(on bool) {
	c.cfg.CenteredRotation = on
	c.gest.cfg.CenteredRotation = on
}

// clamp enforces the scale bounds and the visibility policy: at least one
// pixel of the transformed content must remain inside the viewport along
// each axis. The gesture anchor invariant is allowed to break only here,
// at the clamp boundary.
func (c *Controller) clamp(t transform.Transform) transform.Transform {
	if t.Scale < c.cfg.MinScale {
		t = t.ScaledAbout(c.cfg.MinScale/t.Scale, c.st.Viewport.Center())
	} else if t.Scale > c.cfg.MaxScale {
		t = t.ScaledAbout(c.cfg.MaxScale/t.Scale, c.st.Viewport.Center())
	}

	bounds := transform.Rect{Width: c.st.Content.W, Height: c.st.Content.H}.Transform(t.Matrix())

	var dx, dy float64
	if bounds.MaxX() < 1 {
		dx = 1 - bounds.MaxX()
	} else if bounds.X > c.st.Viewport.W-1 {
		dx = c.st.Viewport.W - 1 - bounds.X
	}
	if bounds.MaxY() < 1 {
		dy = 1 - bounds.MaxY()
	} else if bounds.Y > c.st.Viewport.H-1 {
		dy = c.st.Viewport.H - 1 - bounds.Y
	}
	if dx != 0 || dy != 0 {
		t = t.TranslatedBy(dx, dy)
	}
	return t
}
