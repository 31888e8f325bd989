package gui

import (
	"fyne.io/fyne/v2"
)

// Menu builds the main menu. Actions are wired through callbacks so the
// menu stays decoupled from the application state.
type Menu struct {
	// Callbacks
	OnOpen       func()
	OnSave       func()
	OnCopy       func()
	OnPaste      func()
	OnScreenshot func()
	OnHotkey     func()
	OnReset      func()
	OnFullscreen func()
	OnZoomIn     func()
	OnZoomOut    func()

	OnCenteredZoom     func(bool)
	OnCenteredRotation func(bool)

	// CopyEnabled disables the copy item when the system clipboard
	// cannot receive images.
	CopyEnabled bool

	centeredZoomItem     *fyne.MenuItem
	centeredRotationItem *fyne.MenuItem
	main                 *fyne.MainMenu
}

// Build constructs the menu with the given initial toggle states.
func (m *Menu) Build(centeredZoom, centeredRotation bool) *fyne.MainMenu {
	open := fyne.NewMenuItem("Open…", func() { call(m.OnOpen) })
	save := fyne.NewMenuItem("Save View…", func() { call(m.OnSave) })

	copyItem := fyne.NewMenuItem("Copy View", func() { call(m.OnCopy) })
	copyItem.Disabled = !m.CopyEnabled
	paste := fyne.NewMenuItem("Paste Image", func() { call(m.OnPaste) })

	screenshot := fyne.NewMenuItem("Take Screenshot", func() { call(m.OnScreenshot) })
	hotkeyItem := fyne.NewMenuItem("Change Screenshot Hotkey…", func() { call(m.OnHotkey) })

	reset := fyne.NewMenuItem("Reset View", func() { call(m.OnReset) })
	fullscreen := fyne.NewMenuItem("Toggle Fullscreen", func() { call(m.OnFullscreen) })
	zoomIn := fyne.NewMenuItem("Zoom In", func() { call(m.OnZoomIn) })
	zoomOut := fyne.NewMenuItem("Zoom Out", func() { call(m.OnZoomOut) })

	m.centeredZoomItem = fyne.NewMenuItem("Centered Zoom", nil)
	m.centeredZoomItem.Checked = centeredZoom
	m.centeredZoomItem.Action = func() {
		m.centeredZoomItem.Checked = !m.centeredZoomItem.Checked
		m.main.Refresh()
		if m.OnCenteredZoom != nil {
			m.OnCenteredZoom(m.centeredZoomItem.Checked)
		}
	}

	m.centeredRotationItem = fyne.NewMenuItem("Centered Rotation", nil)
	m.centeredRotationItem.Checked = centeredRotation
	m.centeredRotationItem.Action = func() {
		m.centeredRotationItem.Checked = !m.centeredRotationItem.Checked
		m.main.Refresh()
		if m.OnCenteredRotation != nil {
			m.OnCenteredRotation(m.centeredRotationItem.Checked)
		}
	}

	m.main = fyne.NewMainMenu(
		fyne.NewMenu("File",
			open,
			save,
		),
		fyne.NewMenu("Edit",
			copyItem,
			paste,
		),
		fyne.NewMenu("View",
			reset,
			fullscreen,
			fyne.NewMenuItemSeparator(),
			zoomIn,
			zoomOut,
			fyne.NewMenuItemSeparator(),
			m.centeredZoomItem,
			m.centeredRotationItem,
		),
		fyne.NewMenu("Capture",
			screenshot,
			hotkeyItem,
		),
	)
	return m.main
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
