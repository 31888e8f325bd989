package viewport

import "github.com/fredrik-forsberg/PanZoomRotate/pkg/transform"

// EventKind identifies the type of an input event.
type EventKind int

const (
	KindNone EventKind = iota
	KindPointerDown
	KindPointerMove
	KindPointerUp
	KindScroll
	KindKey
)

// Button identifies a pointer button. The primary button pans the view and
// the secondary button rotates it.
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonSecondary
)

// Key identifies the keyboard commands the viewport reacts to.
type Key int

const (
	KeyNone Key = iota
	KeyZoomIn
	KeyZoomOut
	KeyReset
)

// Event is a single input event in viewport-local pixel coordinates,
// independent of any particular windowing toolkit.
type Event struct {
	Kind   EventKind
	Button Button
	Key    Key
	// Pos is the pointer position for pointer and scroll events.
	Pos transform.Point
	// Delta is the scroll amount in notches; positive zooms in.
	Delta float64
}

// PointerDown returns a pointer press event.
func PointerDown(b Button, x, y float64) Event {
	return Event{Kind: KindPointerDown, Button: b, Pos: transform.Pt(x, y)}
}

// PointerMove returns a pointer motion event.
func PointerMove(x, y float64) Event {
	return Event{Kind: KindPointerMove, Pos: transform.Pt(x, y)}
}

// PointerUp returns a pointer release event.
func PointerUp(b Button) Event {
	return Event{Kind: KindPointerUp, Button: b}
}

// Scroll returns a scroll-wheel event at the given pointer position.
func Scroll(delta, x, y float64) Event {
	return Event{Kind: KindScroll, Delta: delta, Pos: transform.Pt(x, y)}
}

// KeyPress returns a keyboard command event.
func KeyPress(k Key) Event {
	return Event{Kind: KindKey, Key: k}
}
