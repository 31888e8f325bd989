// Package gui provides the native desktop viewer window using Fyne.
package gui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/fredrik-forsberg/PanZoomRotate/internal/capture"
	"github.com/fredrik-forsberg/PanZoomRotate/internal/clipboard"
	"github.com/fredrik-forsberg/PanZoomRotate/internal/config"
	"github.com/fredrik-forsberg/PanZoomRotate/internal/hotkey"
	"github.com/fredrik-forsberg/PanZoomRotate/internal/imageio"
	"github.com/fredrik-forsberg/PanZoomRotate/pkg/viewport"
)

// captureDelay gives the window manager time to hide the viewer before the
// screen is grabbed, so the viewer is not part of its own screenshot.
const captureDelay = 300 * time.Millisecond

// App is the viewer application.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	viewer  *Viewer
	ctrl    *viewport.Controller
	menu    *Menu

	grabber  *capture.Grabber
	listener *hotkey.Listener

	settings     config.Settings
	settingsPath string
	fullscreen   bool
	log          zerolog.Logger
}

// NewApp creates the viewer application from loaded settings.
func NewApp(settings config.Settings, settingsPath string, log zerolog.Logger) *App {
	a := &App{
		fyneApp:      app.New(),
		settings:     settings,
		settingsPath: settingsPath,
		log:          log,
	}

	a.fyneApp.Settings().SetTheme(theme.DarkTheme())
	a.window = a.fyneApp.NewWindow("PanZoomRotate")
	a.window.Resize(fyne.NewSize(float32(settings.WindowWidth), float32(settings.WindowHeight)))

	a.ctrl = viewport.New(settings.Viewport(), viewport.WithLogger(log))
	a.viewer = NewViewer(a.ctrl, log)
	a.grabber = capture.New(log)

	if err := clipboard.Init(); err != nil {
		log.Warn().Err(err).Msg("clipboard support disabled")
	}

	return a
}

// Run starts the application, optionally loading a file first.
func (a *App) Run(path string) {
	a.buildUI()
	a.registerHotkey(a.settings.Hotkey)

	if path != "" {
		go func() {
			if err := a.loadFile(path); err != nil {
				a.log.Error().Err(err).Str("path", path).Msg("failed to load file")
				dialog.ShowError(err, a.window)
			}
		}()
	}

	a.window.ShowAndRun()
}

// RunWithScreenshot starts the application and immediately captures the
// screen, like pressing the global hotkey before the window appears.
func (a *App) RunWithScreenshot() {
	a.buildUI()
	a.registerHotkey(a.settings.Hotkey)

	go func() {
		img, err := a.grabber.AllDisplays()
		if err != nil {
			a.log.Error().Err(err).Msg("initial capture failed")
			return
		}
		a.viewer.SetImage(img)
	}()

	a.window.ShowAndRun()
}

// buildUI constructs the window content, menu, and input bindings.
func (a *App) buildUI() {
	a.viewer.SetGreeting(a.greetingText())
	a.window.SetContent(a.viewer)

	a.menu = &Menu{
		OnOpen:       a.openFile,
		OnSave:       a.saveView,
		OnCopy:       a.copyView,
		OnPaste:      a.pasteImage,
		OnScreenshot: a.screenshot,
		OnHotkey:     a.changeHotkey,
		OnReset:      a.viewer.ResetView,
		OnFullscreen: a.toggleFullscreen,
		OnZoomIn:     a.viewer.ZoomIn,
		OnZoomOut:    a.viewer.ZoomOut,
		OnCenteredZoom: func(on bool) {
			a.settings.CenteredZoom = on
			a.viewer.SetCenteredZoom(on)
		},
		OnCenteredRotation: func(on bool) {
			a.settings.CenteredRotation = on
			a.viewer.SetCenteredRotation(on)
		},
		CopyEnabled: clipboard.Supported(),
	}
	a.window.SetMainMenu(a.menu.Build(a.settings.CenteredZoom, a.settings.CenteredRotation))

	a.bindKeys()

	a.window.SetCloseIntercept(func() {
		a.saveSettings()
		if a.listener != nil {
			a.listener.Stop()
		}
		a.fyneApp.Quit()
	})
}

// bindKeys wires the single-key and Ctrl shortcuts.
func (a *App) bindKeys() {
	c := a.window.Canvas()

	c.SetOnTypedRune(func(r rune) {
		switch r {
		case 'r', 'R':
			a.viewer.ResetView()
		case 'f', 'F':
			a.toggleFullscreen()
		case '+':
			a.viewer.ZoomIn()
		case '-':
			a.viewer.ZoomOut()
		}
	})

	c.SetOnTypedKey(func(e *fyne.KeyEvent) {
		if e.Name == fyne.KeyEscape && a.fullscreen {
			a.toggleFullscreen()
		}
	})

	ctrlKey := func(name fyne.KeyName) *desktop.CustomShortcut {
		return &desktop.CustomShortcut{KeyName: name, Modifier: fyne.KeyModifierControl}
	}
	c.AddShortcut(ctrlKey(fyne.KeyO), func(fyne.Shortcut) { a.openFile() })
	c.AddShortcut(ctrlKey(fyne.KeyS), func(fyne.Shortcut) { a.saveView() })
	c.AddShortcut(ctrlKey(fyne.KeyV), func(fyne.Shortcut) { a.pasteImage() })
	if clipboard.Supported() {
		c.AddShortcut(ctrlKey(fyne.KeyC), func(fyne.Shortcut) { a.copyView() })
	}
}

// greetingText lists the controls, shown until an image is loaded.
func (a *App) greetingText() string {
	s := "PanZoomRotate controls\n\n"
	s += "Pan\t\tLeft click and drag\n"
	s += "Zoom\t\tScroll wheel or \"+\"/\"-\" keys\n"
	s += "Rotate\t\tRight click and drag\n\n"
	s += fmt.Sprintf("Global screenshot hotkey\t%s\n", a.settings.Hotkey)
	s += "Fullscreen\t\tF\n"
	s += "Reset view\t\tR\n\n"
	if clipboard.Supported() {
		s += "Copy view to clipboard\tCtrl+C\n"
	}
	s += "Paste image from clipboard\tCtrl+V\n"
	s += "Open image\t\tCtrl+O\n"
	s += "Save view\t\tCtrl+S"
	return s
}

// toggleFullscreen switches fullscreen; the new viewport size reaches the
// controller through the viewer's layout.
func (a *App) toggleFullscreen() {
	a.fullscreen = !a.fullscreen
	a.window.SetFullScreen(a.fullscreen)
}

// screenshot hides the window, captures all displays, and shows the result.
func (a *App) screenshot() {
	a.window.Hide()
	go func() {
		time.Sleep(captureDelay)
		img, err := a.grabber.AllDisplays()
		a.window.Show()
		if err != nil {
			a.log.Error().Err(err).Msg("screenshot failed")
			dialog.ShowError(err, a.window)
			return
		}
		a.viewer.SetImage(img)
	}()
}

// registerHotkey installs the global screenshot hotkey, replacing any
// previous registration.
func (a *App) registerHotkey(combo string) {
	spec, err := hotkey.Parse(combo)
	if err != nil {
		a.log.Warn().Err(err).Str("combo", combo).Msg("invalid hotkey, global capture disabled")
		return
	}
	if a.listener != nil {
		a.listener.Stop()
		a.listener = nil
	}
	l, err := hotkey.Listen(spec, a.screenshot, a.log)
	if err != nil {
		a.log.Warn().Err(err).Msg("hotkey registration failed, global capture disabled")
		return
	}
	a.listener = l
	a.settings.Hotkey = spec.String()
}

// changeHotkey lets the user rebind the global screenshot hotkey.
func (a *App) changeHotkey() {
	entry := widget.NewEntry()
	entry.SetText(a.settings.Hotkey)
	entry.SetPlaceHolder("e.g. ctrl+shift+s")

	items := []*widget.FormItem{widget.NewFormItem("Hotkey", entry)}
	dialog.ShowForm("Change Screenshot Hotkey", "Apply", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		if _, err := hotkey.Parse(entry.Text); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.registerHotkey(entry.Text)
	}, a.window)
}

// openFile shows a file dialog and loads the selected image.
func (a *App) openFile() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return // Cancelled
		}
		defer reader.Close()

		if err := a.loadFile(reader.URI().Path()); err != nil {
			dialog.ShowError(err, a.window)
		}
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter(imageio.FileFilter))
	d.Show()
}

// loadFile loads an image file into the viewer.
func (a *App) loadFile(path string) error {
	img, err := imageio.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	a.viewer.SetImage(img)
	a.window.SetTitle(fmt.Sprintf("PanZoomRotate - %s", path))
	return nil
}

// saveView writes the current transformed view to an image file.
func (a *App) saveView() {
	if !a.viewer.HasImage() {
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if writer == nil {
			return // Cancelled
		}
		path := writer.URI().Path()
		writer.Close()

		if err := imageio.Save(path, a.viewer.View()); err != nil {
			a.log.Error().Err(err).Str("path", path).Msg("save failed")
			dialog.ShowError(err, a.window)
		}
	}, a.window)
	d.SetFileName("view.png")
	d.Show()
}

// copyView places the current transformed view on the clipboard.
func (a *App) copyView() {
	if !a.viewer.HasImage() {
		return
	}
	if err := clipboard.WriteImage(a.viewer.View()); err != nil {
		a.log.Error().Err(err).Msg("copy failed")
		dialog.ShowError(err, a.window)
	}
}

// pasteImage loads an image from the clipboard.
func (a *App) pasteImage() {
	img, err := clipboard.ReadImage()
	if err != nil {
		a.log.Debug().Err(err).Msg("paste failed")
		return
	}
	a.viewer.SetImage(img)
	a.window.SetTitle("PanZoomRotate - clipboard")
}

// saveSettings persists the current settings.
func (a *App) saveSettings() {
	if a.settingsPath == "" {
		return
	}
	size := a.window.Canvas().Size()
	a.settings.WindowWidth = int(size.Width)
	a.settings.WindowHeight = int(size.Height)

	if err := config.Save(a.settingsPath, a.settings); err != nil {
		a.log.Warn().Err(err).Msg("failed to save settings")
	}
}
