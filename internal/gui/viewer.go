package gui

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
	xdraw "golang.org/x/image/draw"

	"github.com/fredrik-forsberg/PanZoomRotate/pkg/transform"
	"github.com/fredrik-forsberg/PanZoomRotate/pkg/viewport"
)

// scrollNotch is the per-notch delta reported by the desktop driver.
const scrollNotch = 10

// Viewer is a custom widget that displays an image with pan/zoom/rotate.
// Pan with the left mouse button, rotate with the right one, zoom with the
// scroll wheel. All input is forwarded to a viewport.Controller; drawing
// warps the image through the controller's current transform.
//
// The controller requires single-goroutine access, but images arrive from
// worker goroutines (file loads, captures, the global hotkey) while pointer
// events arrive on the driver goroutine. mu serializes both paths.
type Viewer struct {
	widget.BaseWidget

	ctrl *viewport.Controller
	log  zerolog.Logger

	mu       sync.Mutex
	content  image.Image
	raster   *canvas.Raster
	greeting *widget.Label

	buf      *image.RGBA
	lastSize fyne.Size
}

// NewViewer creates a viewer backed by the given controller.
func NewViewer(ctrl *viewport.Controller, log zerolog.Logger) *Viewer {
	v := &Viewer{
		ctrl: ctrl,
		log:  log.With().Str("component", "viewer").Logger(),
	}
	v.ExtendBaseWidget(v)

	v.raster = canvas.NewRaster(v.draw)

	v.greeting = widget.NewLabel("")
	v.greeting.Alignment = fyne.TextAlignCenter

	return v
}

// SetGreeting sets the text shown while no image is loaded.
func (v *Viewer) SetGreeting(text string) {
	v.greeting.SetText(text)
}

// SetImage replaces the displayed content and resets the view to fit it.
// Safe to call from any goroutine.
func (v *Viewer) SetImage(img image.Image) {
	img = normalized(img)
	b := img.Bounds()
	size := transform.Size{W: float64(b.Dx()), H: float64(b.Dy())}

	v.mu.Lock()
	if err := v.ctrl.SetContent(size); err != nil {
		v.mu.Unlock()
		v.log.Error().Err(err).Msg("rejected content")
		return
	}
	v.content = img
	v.mu.Unlock()
	v.log.Info().Int("width", b.Dx()).Int("height", b.Dy()).Msg("content loaded")

	v.greeting.Hide()
	v.Refresh()
}

// HasImage reports whether content is loaded.
func (v *Viewer) HasImage() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.content != nil
}

// View renders the current transformed view at the viewport size, as shown
// on screen. Used for save-to-file and copy-to-clipboard.
func (v *Viewer) View() image.Image {
	v.mu.Lock()
	defer v.mu.Unlock()

	vp := v.ctrl.ViewportSize()
	out := image.NewRGBA(image.Rect(0, 0, int(vp.W), int(vp.H)))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	if v.content != nil {
		m := v.ctrl.Current().Matrix()
		xdraw.ApproxBiLinear.Transform(out, m.Aff3(), v.content, v.content.Bounds(), xdraw.Over, nil)
	}
	return out
}

// CreateRenderer creates the renderer for this widget.
func (v *Viewer) CreateRenderer() fyne.WidgetRenderer {
	return &viewerRenderer{viewer: v}
}

// MouseDown starts a pan (primary) or rotation (secondary) drag.
func (v *Viewer) MouseDown(e *desktop.MouseEvent) {
	if b := toButton(e.Button); b != viewport.ButtonNone {
		v.apply(viewport.PointerDown(b, float64(e.Position.X), float64(e.Position.Y)))
	}
}

// MouseUp ends the active drag, if the released button started it.
func (v *Viewer) MouseUp(e *desktop.MouseEvent) {
	if b := toButton(e.Button); b != viewport.ButtonNone {
		v.apply(viewport.PointerUp(b))
	}
}

// MouseIn implements desktop.Hoverable.
func (v *Viewer) MouseIn(*desktop.MouseEvent) {}

// MouseMoved feeds pointer motion into the active drag.
func (v *Viewer) MouseMoved(e *desktop.MouseEvent) {
	v.apply(viewport.PointerMove(float64(e.Position.X), float64(e.Position.Y)))
}

// MouseOut cancels any drag; the pointer left the tracking region.
func (v *Viewer) MouseOut() {
	v.mu.Lock()
	v.ctrl.Interrupt()
	v.mu.Unlock()
}

// Scrolled zooms about the pointer position.
func (v *Viewer) Scrolled(e *fyne.ScrollEvent) {
	delta := float64(e.Scrolled.DY) / scrollNotch
	if delta == 0 {
		return
	}
	v.apply(viewport.Scroll(delta, float64(e.Position.X), float64(e.Position.Y)))
}

// ZoomIn zooms one step, anchored at the viewport center.
func (v *Viewer) ZoomIn() {
	v.apply(viewport.KeyPress(viewport.KeyZoomIn))
}

// ZoomOut zooms out one step, anchored at the viewport center.
func (v *Viewer) ZoomOut() {
	v.apply(viewport.KeyPress(viewport.KeyZoomOut))
}

// ResetView restores the centered, fitted view.
func (v *Viewer) ResetView() {
	v.mu.Lock()
	v.ctrl.Reset()
	v.mu.Unlock()
	v.Refresh()
}

// SetCenteredZoom switches scroll zoom between pointer- and center-anchored.
func (v *Viewer) SetCenteredZoom(on bool) {
	v.mu.Lock()
	v.ctrl.SetCenteredZoom(on)
	v.mu.Unlock()
}

// SetCenteredRotation switches rotation between center and drag-start pivot.
func (v *Viewer) SetCenteredRotation(on bool) {
	v.mu.Lock()
	v.ctrl.SetCenteredRotation(on)
	v.mu.Unlock()
}

func (v *Viewer) apply(ev viewport.Event) {
	v.mu.Lock()
	before := v.ctrl.Current()
	v.ctrl.Apply(ev)
	changed := v.ctrl.Current() != before
	v.mu.Unlock()
	if changed {
		v.raster.Refresh()
	}
}

// draw is the raster generator. w and h are in device pixels, which may
// differ from the event coordinate units by the display scale.
func (v *Viewer) draw(w, h int) image.Image {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.buf == nil || v.buf.Bounds().Dx() != w || v.buf.Bounds().Dy() != h {
		v.buf = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	draw.Draw(v.buf, v.buf.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	if v.content == nil {
		return v.buf
	}
	size := v.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return v.buf
	}

	px := float64(w) / float64(size.Width)
	m := v.ctrl.Current().Matrix().Multiply(transform.Scaling(px))
	xdraw.ApproxBiLinear.Transform(v.buf, m.Aff3(), v.content, v.content.Bounds(), xdraw.Over, nil)
	return v.buf
}

func toButton(b desktop.MouseButton) viewport.Button {
	switch b {
	case desktop.MouseButtonPrimary:
		return viewport.ButtonPrimary
	case desktop.MouseButtonSecondary:
		return viewport.ButtonSecondary
	}
	return viewport.ButtonNone
}

// normalized re-anchors an image whose bounds do not start at the origin,
// e.g. a multi-display screenshot, so image space matches pixel coordinates.
func normalized(img image.Image) image.Image {
	b := img.Bounds()
	if b.Min == (image.Point{}) {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// viewerRenderer renders the viewer widget.
type viewerRenderer struct {
	viewer *Viewer
}

func (r *viewerRenderer) Layout(size fyne.Size) {
	v := r.viewer
	v.raster.Resize(size)

	min := v.greeting.MinSize()
	v.greeting.Resize(min)
	v.greeting.Move(fyne.NewPos((size.Width-min.Width)/2, (size.Height-min.Height)/2))

	if size != v.lastSize && size.Width > 0 && size.Height > 0 {
		v.lastSize = size
		v.mu.Lock()
		err := v.ctrl.Resize(transform.Size{W: float64(size.Width), H: float64(size.Height)})
		v.mu.Unlock()
		if err != nil {
			v.log.Warn().Err(err).Msg("rejected viewport size")
		}
	}
}

func (r *viewerRenderer) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

func (r *viewerRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.viewer.raster, r.viewer.greeting}
}

func (r *viewerRenderer) Refresh() {
	r.viewer.raster.Refresh()
	r.viewer.greeting.Refresh()
}

func (r *viewerRenderer) Destroy() {}
