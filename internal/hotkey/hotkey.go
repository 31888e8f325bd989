// Package hotkey registers the global screenshot hotkey. The key
// combination is remappable at runtime through the settings.
package hotkey

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	xhotkey "golang.design/x/hotkey"
)

// Spec is a parsed hotkey combination.
type Spec struct {
	mods []xhotkey.Modifier
	key  xhotkey.Key
	repr string
}

// String returns the canonical textual form, e.g. "ctrl+shift+s".
func (s Spec) String() string {
	return s.repr
}

// Parse converts a textual combination like "ctrl+shift+s" into a Spec.
// Supported modifiers are "ctrl" and "shift" (the only ones available on
// every platform); the final element must be a letter, a digit, one of
// "f1".."f20", or one of "space", "tab", "escape", "return", "delete",
// "up", "down", "left", "right".
func Parse(combo string) (Spec, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(combo)), "+")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return Spec{}, fmt.Errorf("empty hotkey %q", combo)
	}

	var mods []xhotkey.Modifier
	for _, p := range parts[:len(parts)-1] {
		switch strings.TrimSpace(p) {
		case "ctrl", "control":
			mods = append(mods, xhotkey.ModCtrl)
		case "shift":
			mods = append(mods, xhotkey.ModShift)
		default:
			return Spec{}, fmt.Errorf("unsupported modifier %q in hotkey %q", p, combo)
		}
	}

	name := strings.TrimSpace(parts[len(parts)-1])
	key, ok := keyByName[name]
	if !ok {
		return Spec{}, fmt.Errorf("unsupported key %q in hotkey %q", name, combo)
	}

	canonical := append(canonicalMods(mods), name)
	return Spec{mods: mods, key: key, repr: strings.Join(canonical, "+")}, nil
}

func canonicalMods(mods []xhotkey.Modifier) []string {
	var out []string
	for _, m := range mods {
		switch m {
		case xhotkey.ModCtrl:
			out = append(out, "ctrl")
		case xhotkey.ModShift:
			out = append(out, "shift")
		}
	}
	return out
}

var keyByName = map[string]xhotkey.Key{
	"a": xhotkey.KeyA, "b": xhotkey.KeyB, "c": xhotkey.KeyC, "d": xhotkey.KeyD,
	"e": xhotkey.KeyE, "f": xhotkey.KeyF, "g": xhotkey.KeyG, "h": xhotkey.KeyH,
	"i": xhotkey.KeyI, "j": xhotkey.KeyJ, "k": xhotkey.KeyK, "l": xhotkey.KeyL,
	"m": xhotkey.KeyM, "n": xhotkey.KeyN, "o": xhotkey.KeyO, "p": xhotkey.KeyP,
	"q": xhotkey.KeyQ, "r": xhotkey.KeyR, "s": xhotkey.KeyS, "t": xhotkey.KeyT,
	"u": xhotkey.KeyU, "v": xhotkey.KeyV, "w": xhotkey.KeyW, "x": xhotkey.KeyX,
	"y": xhotkey.KeyY, "z": xhotkey.KeyZ,

	"0": xhotkey.Key0, "1": xhotkey.Key1, "2": xhotkey.Key2, "3": xhotkey.Key3,
	"4": xhotkey.Key4, "5": xhotkey.Key5, "6": xhotkey.Key6, "7": xhotkey.Key7,
	"8": xhotkey.Key8, "9": xhotkey.Key9,

	"f1": xhotkey.KeyF1, "f2": xhotkey.KeyF2, "f3": xhotkey.KeyF3,
	"f4": xhotkey.KeyF4, "f5": xhotkey.KeyF5, "f6": xhotkey.KeyF6,
	"f7": xhotkey.KeyF7, "f8": xhotkey.KeyF8, "f9": xhotkey.KeyF9,
	"f10": xhotkey.KeyF10, "f11": xhotkey.KeyF11, "f12": xhotkey.KeyF12,
	"f13": xhotkey.KeyF13, "f14": xhotkey.KeyF14, "f15": xhotkey.KeyF15,
	"f16": xhotkey.KeyF16, "f17": xhotkey.KeyF17, "f18": xhotkey.KeyF18,
	"f19": xhotkey.KeyF19, "f20": xhotkey.KeyF20,

	"space":  xhotkey.KeySpace,
	"tab":    xhotkey.KeyTab,
	"escape": xhotkey.KeyEscape,
	"return": xhotkey.KeyReturn,
	"enter":  xhotkey.KeyReturn,
	"delete": xhotkey.KeyDelete,
	"up":     xhotkey.KeyUp,
	"down":   xhotkey.KeyDown,
	"left":   xhotkey.KeyLeft,
	"right":  xhotkey.KeyRight,
}

// Listener owns one registered global hotkey.
type Listener struct {
	hk   *xhotkey.Hotkey
	log  zerolog.Logger
	done chan struct{}
}

// Listen registers the hotkey system-wide and invokes fn on every press
// until Stop is called. fn runs on the listener goroutine; it must hand
// work back to the UI thread itself.
func Listen(spec Spec, fn func(), log zerolog.Logger) (*Listener, error) {
	hk := xhotkey.New(spec.mods, spec.key)
	if err := hk.Register(); err != nil {
		return nil, fmt.Errorf("failed to register hotkey %s: %w", spec, err)
	}

	l := &Listener{
		hk:   hk,
		log:  log.With().Str("component", "hotkey").Str("combo", spec.String()).Logger(),
		done: make(chan struct{}),
	}
	go l.run(fn)
	l.log.Info().Msg("global hotkey registered")
	return l, nil
}

func (l *Listener) run(fn func()) {
	for {
		select {
		case <-l.hk.Keydown():
			l.log.Debug().Msg("hotkey pressed")
			fn()
		case <-l.done:
			return
		}
	}
}

// Stop unregisters the hotkey and ends the listener goroutine.
func (l *Listener) Stop() {
	close(l.done)
	if err := l.hk.Unregister(); err != nil {
		l.log.Warn().Err(err).Msg("failed to unregister hotkey")
	}
}
