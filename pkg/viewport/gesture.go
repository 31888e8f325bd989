package viewport

import (
	"math"
	"time"

	"github.com/fredrik-forsberg/PanZoomRotate/pkg/transform"
)

// gestureState is the recognizer state. Exactly one drag can be active at a
// time; the first button held wins and the other button is ignored until it
// is released.
type gestureState int

const (
	stateIdle gestureState = iota
	statePanning
	stateRotating
)

// dragSession is the bookkeeping for an active drag. For a pan it records
// the grabbed point in both screen and image space; for a rotation it
// records the pivot and the angle of the pointer around it.
type dragSession struct {
	button      Button
	anchorImage transform.Point
	pivot       transform.Point
	startAngle  float64
	started     time.Time
}

// gestures converts raw input events into transform updates. It reads the
// viewport state it is handed but never mutates it; clamping and ownership
// of the state stay with the Controller.
type gestures struct {
	cfg   Config
	now   func() time.Time
	state gestureState
	drag  dragSession
}

// handle processes one event against the current state and returns the
// resulting transform along with whether it changed. Malformed or
// out-of-order events are ignored and never produce an error; the only error
// is a singular transform, which the Controller treats as a broken invariant.
func (g *gestures) handle(ev Event, st State) (transform.Transform, bool, error) {
	t := st.Transform

	if g.state != stateIdle && g.cfg.MaxDragDuration > 0 &&
		g.now().Sub(g.drag.started) > g.cfg.MaxDragDuration {
		// The matching pointer-up never arrived.
		g.interrupt()
	}

	switch ev.Kind {
	case KindPointerDown:
		if g.state != stateIdle || ev.Button == ButtonNone {
			return t, false, nil
		}
		switch ev.Button {
		case ButtonPrimary:
			anchor, err := t.ToImage(ev.Pos)
			if err != nil {
				return t, false, err
			}
			g.state = statePanning
			g.drag = dragSession{
				button:      ev.Button,
				anchorImage: anchor,
				started:     g.now(),
			}
		case ButtonSecondary:
			pivot := st.Viewport.Center()
			if !g.cfg.CenteredRotation {
				pivot = ev.Pos
			}
			g.state = stateRotating
			g.drag = dragSession{
				button:     ev.Button,
				pivot:      pivot,
				startAngle: ev.Pos.Sub(pivot).Angle(),
				started:    g.now(),
			}
		}
		return t, false, nil

	case KindPointerMove:
		switch g.state {
		case statePanning:
			return g.pan(ev.Pos, t)
		case stateRotating:
			rotated := g.rotate(ev.Pos, st, t)
			return rotated, rotated != t, nil
		}
		return t, false, nil

	case KindPointerUp:
		if g.state != stateIdle && ev.Button == g.drag.button {
			g.interrupt()
		}
		return t, false, nil

	case KindScroll:
		if g.state != stateIdle || ev.Delta == 0 {
			return t, false, nil
		}
		anchor := ev.Pos
		if g.cfg.CenteredZoom {
			anchor = st.Viewport.Center()
		}
		return g.zoom(ev.Delta, anchor, t)

	case KindKey:
		if g.state != stateIdle {
			return t, false, nil
		}
		switch ev.Key {
		case KeyZoomIn:
			return g.zoom(1, st.Viewport.Center(), t)
		case KeyZoomOut:
			return g.zoom(-1, st.Viewport.Center(), t)
		case KeyReset:
			fit := transform.FitContent(st.Viewport, st.Content)
			return fit, fit != t, nil
		}
		return t, false, nil
	}

	return t, false, nil
}

// pan shifts the transform so the image point grabbed at pointer-down stays
// under the pointer.
func (g *gestures) pan(pos transform.Point, t transform.Transform) (transform.Transform, bool, error) {
	now := t.ToScreen(g.drag.anchorImage)
	d := pos.Sub(now)
	if d.X == 0 && d.Y == 0 {
		return t, false, nil
	}
	return t.TranslatedBy(d.X, d.Y), true, nil
}

// rotate turns the transform about the pivot by the angle the pointer has
// swept since the previous event. Inside the dead zone around the pivot the
// angle is re-anchored without rotating.
func (g *gestures) rotate(pos transform.Point, st State, t transform.Transform) transform.Transform {
	v := pos.Sub(g.drag.pivot)
	radius := math.Min(st.Viewport.W, st.Viewport.H) / 2 * g.cfg.RotateDeadZone
	if v.Length() <= radius {
		if v.X != 0 || v.Y != 0 {
			g.drag.startAngle = v.Angle()
		}
		return t
	}

	angle := v.Angle()
	delta := normalizeSweep(angle - g.drag.startAngle)
	g.drag.startAngle = angle
	if delta == 0 {
		return t
	}
	return t.RotatedAbout(delta, g.drag.pivot)
}

// zoom rescales about the anchor by zoomFactor^delta, clamping the resulting
// scale to the configured bounds. When clamped, the anchor invariant holds
// for the part of the step that was applied.
func (g *gestures) zoom(delta float64, anchor transform.Point, t transform.Transform) (transform.Transform, bool, error) {
	if t.Scale == 0 {
		return t, false, transform.ErrSingular
	}
	target := t.Scale * math.Pow(g.cfg.ZoomFactor, delta)
	target = math.Max(g.cfg.MinScale, math.Min(g.cfg.MaxScale, target))
	factor := target / t.Scale
	if factor == 1 {
		return t, false, nil
	}
	return t.ScaledAbout(factor, anchor), true, nil
}

// interrupt discards any active drag session without a transform change.
func (g *gestures) interrupt() {
	g.state = stateIdle
	g.drag = dragSession{}
}

// normalizeSweep wraps an angle difference to (-pi, pi] so crossing the
// atan2 branch cut does not register as a full turn.
func normalizeSweep(a float64) float64 {
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}
