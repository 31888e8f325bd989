package gui

import (
	"image"
	"sync"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/rs/zerolog"

	"github.com/fredrik-forsberg/PanZoomRotate/pkg/viewport"
)

// Images arrive from worker goroutines (file loads, captures, the global
// hotkey) while pointer events arrive on the driver goroutine. Run both
// paths concurrently; the race detector flags any unserialized access.
func TestConcurrentLoadAndInput(t *testing.T) {
	test.NewApp()

	ctrl := viewport.New(viewport.DefaultConfig())
	v := NewViewer(ctrl, zerolog.Nop())
	test.WidgetRenderer(v).Layout(fyne.NewSize(800, 600))

	img := image.NewRGBA(image.Rect(0, 0, 400, 300))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			v.SetImage(img)
			v.View()
		}
	}()
	go func() {
		defer wg.Done()
		at := fyne.PointerEvent{Position: fyne.NewPos(100, 100)}
		for i := 0; i < 100; i++ {
			v.MouseDown(&desktop.MouseEvent{PointerEvent: at, Button: desktop.MouseButtonPrimary})
			v.MouseMoved(&desktop.MouseEvent{PointerEvent: fyne.PointerEvent{Position: fyne.NewPos(150, 130)}})
			v.MouseUp(&desktop.MouseEvent{PointerEvent: at, Button: desktop.MouseButtonPrimary})
			v.Scrolled(&fyne.ScrollEvent{PointerEvent: at, Scrolled: fyne.Delta{DY: scrollNotch}})
			v.SetCenteredZoom(i%2 == 0)
			v.MouseOut()
		}
	}()
	wg.Wait()

	if !v.HasImage() {
		t.Fatal("content lost after concurrent loads")
	}
	cfg := ctrl.Config()
	if s := ctrl.Current().Scale; s < cfg.MinScale || s > cfg.MaxScale {
		t.Errorf("scale %v escaped bounds [%v, %v]", s, cfg.MinScale, cfg.MaxScale)
	}
}
