package probe

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Dimensions is the pixel size of the first video stream of a file.
// Both values are > 0 when returned by the Prober.
type Dimensions struct {
	Width  int
	Height int
}

// String returns "WxH".
func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Ratio returns Width/Height as float64. Zero when Height is zero.
func (d Dimensions) Ratio() float64 {
	if d.Height == 0 {
		return 0
	}
	return float64(d.Width) / float64(d.Height)
}

// ProbeError reports a failed inspection of Path. Op is "duration" or
// "dimensions".
type ProbeError struct {
	Path   string
	Op     string
	Stderr string
	Err    error
}

func (e *ProbeError) Error() string {
	msg := fmt.Sprintf("probe %s %q: %v", e.Op, e.Path, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + lastLine(s)
	}
	return msg
}

func (e *ProbeError) Unwrap() error { return e.Err }

// IsProbeError reports whether err wraps a *ProbeError.
func IsProbeError(err error) bool {
	var pe *ProbeError
	return errors.As(err, &pe)
}

func lastLine(s string) string {
	if idx := strings.LastIndex(s, "\n"); idx >= 0 {
		return strings.TrimSpace(s[idx+1:])
	}
	return s
}
