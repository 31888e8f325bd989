package viewport

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fredrik-forsberg/PanZoomRotate/pkg/transform"
)

func TestResetIdempotent(t *testing.T) {
	c := newTestController(t)

	c.Apply(Scroll(3, 100, 200))
	c.Apply(PointerDown(ButtonPrimary, 50, 50))
	c.Apply(PointerMove(300, 100))
	c.Apply(PointerUp(ButtonPrimary))

	c.Reset()
	once := c.Current()
	c.Reset()
	twice := c.Current()

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second reset produced a different transform (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(transform.Transform{Scale: 2}, once, approx); diff != "" {
		t.Errorf("reset transform (-want +got):\n%s", diff)
	}
}

func TestSetContentResetsView(t *testing.T) {
	c := newTestController(t)

	c.Apply(Scroll(5, 100, 100))
	c.Apply(PointerDown(ButtonSecondary, 600, 300))
	c.Apply(PointerMove(400, 500))

	// New content mid-gesture: view refits and the drag is dropped.
	if err := c.SetContent(transform.Size{W: 1600, H: 1200}); err != nil {
		t.Fatal(err)
	}
	want := transform.Transform{Scale: 0.5}
	if diff := cmp.Diff(want, c.Current(), approx); diff != "" {
		t.Errorf("after content load (-want +got):\n%s", diff)
	}

	before := c.Current()
	c.Apply(PointerMove(100, 100)) // stale move from the dropped drag
	if diff := cmp.Diff(before, c.Current()); diff != "" {
		t.Errorf("stale drag survived content load (-want +got):\n%s", diff)
	}
}

func TestInvalidSizes(t *testing.T) {
	c := New(DefaultConfig())

	if err := c.Resize(transform.Size{W: 0, H: 600}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Resize with zero width: got %v, want ErrInvalidSize", err)
	}
	if err := c.Resize(transform.Size{W: 800, H: -2}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Resize with negative height: got %v, want ErrInvalidSize", err)
	}
	if err := c.SetContent(transform.Size{}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("SetContent with zero size: got %v, want ErrInvalidSize", err)
	}
}

func TestEventsIgnoredBeforeContent(t *testing.T) {
	c := New(DefaultConfig())
	if err := c.Resize(transform.Size{W: 800, H: 600}); err != nil {
		t.Fatal(err)
	}

	before := c.Current()
	c.Apply(Scroll(5, 400, 300))
	c.Apply(PointerDown(ButtonPrimary, 10, 10))
	c.Apply(PointerMove(300, 300))

	if diff := cmp.Diff(before, c.Current()); diff != "" {
		t.Errorf("events before content load changed the transform (-want +got):\n%s", diff)
	}
}

func TestResizeKeepsCentroidOffset(t *testing.T) {
	c := newTestController(t)

	c.Apply(PointerDown(ButtonPrimary, 100, 100))
	c.Apply(PointerMove(150, 130))
	c.Apply(PointerUp(ButtonPrimary))

	// Content centroid sits 50,30 from the viewport center.
	centroid := transform.Pt(200, 150)
	oldOffset := c.Current().ToScreen(centroid).Sub(c.ViewportSize().Center())

	if err := c.Resize(transform.Size{W: 1000, H: 800}); err != nil {
		t.Fatal(err)
	}

	newOffset := c.Current().ToScreen(centroid).Sub(c.ViewportSize().Center())
	if diff := cmp.Diff(oldOffset, newOffset, approx); diff != "" {
		t.Errorf("centroid offset changed on resize (-want +got):\n%s", diff)
	}
	if got, want := c.Current().Scale, 2.0; got != want {
		t.Errorf("resize changed scale: %v, want %v", got, want)
	}
}

func TestPanClampKeepsContentVisible(t *testing.T) {
	c := newTestController(t)

	// Drag the content absurdly far off screen in one motion.
	c.Apply(PointerDown(ButtonPrimary, 400, 300))
	c.Apply(PointerMove(40000, 40000))
	c.Apply(PointerUp(ButtonPrimary))

	cur := c.Current()
	bounds := transform.Rect{
		Width:  c.ContentSize().W,
		Height: c.ContentSize().H,
	}.Transform(cur.Matrix())

	vp := c.ViewportSize()
	if bounds.MaxX() < 1 || bounds.X > vp.W-1 || bounds.MaxY() < 1 || bounds.Y > vp.H-1 {
		t.Errorf("content fully off screen after clamp: bounds %+v, viewport %+v", bounds, vp)
	}

	// And in the other direction.
	c.Apply(PointerDown(ButtonPrimary, 400, 300))
	c.Apply(PointerMove(-40000, -40000))
	c.Apply(PointerUp(ButtonPrimary))

	cur = c.Current()
	bounds = transform.Rect{
		Width:  c.ContentSize().W,
		Height: c.ContentSize().H,
	}.Transform(cur.Matrix())
	if bounds.MaxX() < 1 || bounds.X > vp.W-1 || bounds.MaxY() < 1 || bounds.Y > vp.H-1 {
		t.Errorf("content fully off screen after clamp: bounds %+v, viewport %+v", bounds, vp)
	}
}

func TestConfigDefaults(t *testing.T) {
	c := New(Config{})
	cfg := c.Config()

	if cfg.MinScale != DefaultMinScale || cfg.MaxScale != DefaultMaxScale {
		t.Errorf("scale bounds = [%v, %v], want defaults", cfg.MinScale, cfg.MaxScale)
	}
	if cfg.ZoomFactor != DefaultZoomFactor {
		t.Errorf("ZoomFactor = %v, want %v", cfg.ZoomFactor, DefaultZoomFactor)
	}
	if cfg.RotateDeadZone != DefaultRotateDeadZone {
		t.Errorf("RotateDeadZone = %v, want %v", cfg.RotateDeadZone, DefaultRotateDeadZone)
	}

	// Swapped bounds are repaired rather than rejected.
	cfg = New(Config{MinScale: 10, MaxScale: 2}).Config()
	if cfg.MinScale != 2 || cfg.MaxScale != 10 {
		t.Errorf("swapped bounds = [%v, %v], want [2, 10]", cfg.MinScale, cfg.MaxScale)
	}
}

func TestPartialConfigKeepsBooleans(t *testing.T) {
	// A Config built from scratch keeps its boolean zero values; only
	// DefaultConfig carries center-pivot rotation.
	cfg := New(Config{MinScale: 0.5}).Config()

	if cfg.CenteredRotation {
		t.Error("CenteredRotation defaulted to true for a partial Config")
	}
	if cfg.CenteredZoom {
		t.Error("CenteredZoom defaulted to true for a partial Config")
	}
	if cfg.MinScale != 0.5 {
		t.Errorf("MinScale = %v, want 0.5", cfg.MinScale)
	}
	if cfg.MaxScale != DefaultMaxScale || cfg.ZoomFactor != DefaultZoomFactor {
		t.Errorf("numeric defaults not filled: MaxScale %v, ZoomFactor %v", cfg.MaxScale, cfg.ZoomFactor)
	}
	if !DefaultConfig().CenteredRotation {
		t.Error("DefaultConfig lost center-pivot rotation")
	}
}

func TestFitRespectsScaleBounds(t *testing.T) {
	c := New(DefaultConfig())
	if err := c.Resize(transform.Size{W: 800, H: 600}); err != nil {
		t.Fatal(err)
	}

	// Fitting a 100000px capture would need scale 0.008, below the bound.
	if err := c.SetContent(transform.Size{W: 100000, H: 600}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultMinScale, c.Current().Scale, approx); diff != "" {
		t.Errorf("fitted scale not clamped (-want +got):\n%s", diff)
	}

	c.Reset()
	if diff := cmp.Diff(DefaultMinScale, c.Current().Scale, approx); diff != "" {
		t.Errorf("reset scale not clamped (-want +got):\n%s", diff)
	}

	// Fitting a 1x1 image would need scale 600, above the bound.
	if err := c.SetContent(transform.Size{W: 1, H: 1}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultMaxScale, c.Current().Scale, approx); diff != "" {
		t.Errorf("fitted scale not clamped (-want +got):\n%s", diff)
	}
}
