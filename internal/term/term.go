// Package term resolves whether ANSI colors are used for console output.
//
// [Configure] is called once during startup (from [logging.NewLogger]);
// the banner and the zerolog console writers read [Enabled] afterwards.
package term

import (
	"os"
	"strings"

	"github.com/backmassage/backdrop/internal/config"
)

// ANSI sequences used outside zerolog. Empty when colors are disabled.
var (
	Magenta = ""
	NC      = "" // Reset sequence.
)

var enabled bool

// Configure resolves the color mode and sets the package-level state.
func Configure(mode config.ColorMode) {
	enabled = resolve(mode)
	if enabled {
		Magenta = "\033[1;95m"
		NC = "\033[0m"
	} else {
		Magenta, NC = "", ""
	}
}

// Enabled reports whether ANSI colors are currently active.
func Enabled() bool { return enabled }

// resolve determines whether colors should be enabled based on the configured
// mode, TTY detection, and the NO_COLOR env var (https://no-color.org).
func resolve(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(os.Stdout) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
