package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/fredrik-forsberg/PanZoomRotate/internal/config"
	"github.com/fredrik-forsberg/PanZoomRotate/internal/gui"
)

func main() {
	log := newLogger()

	settingsPath, err := config.Path()
	if err != nil {
		log.Warn().Err(err).Msg("no config directory, settings will not persist")
	}
	settings, err := config.Load(settingsPath)
	if err != nil {
		log.Warn().Err(err).Msg("using default settings")
	}

	a := gui.NewApp(settings, settingsPath, log)

	if len(os.Args) < 2 {
		a.Run("")
		return
	}

	switch os.Args[1] {
	case "screenshot":
		a.RunWithScreenshot()

	case "help", "-h", "--help":
		printUsage()

	default:
		if _, err := os.Stat(os.Args[1]); err != nil {
			fmt.Printf("Unknown command or file: %s\n", os.Args[1])
			printUsage()
			os.Exit(1)
		}
		a.Run(os.Args[1])
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if os.Getenv("PZR_DEBUG") != "" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func printUsage() {
	fmt.Println(`PanZoomRotate - pan, zoom, and rotate an image or screenshot

Usage:
  panzoomrotate               Start with an empty viewer
  panzoomrotate <image>       Open an image file
  panzoomrotate screenshot    Start from a capture of all displays
  panzoomrotate help          Show this help

Controls:
  Pan          Left click and drag
  Zoom         Scroll wheel or "+"/"-" keys
  Rotate       Right click and drag
  Reset view   R
  Fullscreen   F (Escape leaves fullscreen)
  Open         Ctrl+O    Save view  Ctrl+S
  Paste image  Ctrl+V    Copy view  Ctrl+C

The global screenshot hotkey (default ctrl+shift+s) works while the
window is unfocused and can be changed from the Capture menu.`)
}
