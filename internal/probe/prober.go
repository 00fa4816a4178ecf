package probe

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/backmassage/backdrop/internal/logging"
)

// Parse errors. Wrapped into a *ProbeError by the Prober.
var (
	ErrNoDuration   = errors.New("no duration in ffprobe output")
	ErrBadDuration  = errors.New("duration is not a positive number")
	ErrBadDimension = errors.New("unexpected dimensions output")
)

// Prober runs ffprobe queries against a resolved binary.
type Prober struct {
	path string
	log  *logging.Logger
}

// NewProber returns a Prober using the ffprobe binary at ffprobePath.
func NewProber(ffprobePath string, log *logging.Logger) *Prober {
	return &Prober{path: ffprobePath, log: log}
}

// Duration returns the container duration of path in seconds.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	out, stderr, err := p.run(ctx,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)
	if err != nil {
		return 0, &ProbeError{Path: path, Op: "duration", Stderr: stderr, Err: err}
	}
	d, err := ParseDuration(out)
	if err != nil {
		return 0, &ProbeError{Path: path, Op: "duration", Stderr: stderr, Err: err}
	}
	p.log.Debug("duration %s: %.3fs", path, d)
	return d, nil
}

// Dimensions returns the width and height of the first video stream of
// path. Works for still images as well as videos.
func (p *Prober) Dimensions(ctx context.Context, path string) (Dimensions, error) {
	out, stderr, err := p.run(ctx,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=s=x:p=0",
		path,
	)
	if err != nil {
		return Dimensions{}, &ProbeError{Path: path, Op: "dimensions", Stderr: stderr, Err: err}
	}
	d, err := ParseDimensions(string(out))
	if err != nil {
		return Dimensions{}, &ProbeError{Path: path, Op: "dimensions", Stderr: stderr, Err: err}
	}
	p.log.Debug("dimensions %s: %s", path, d)
	return d, nil
}

func (p *Prober) run(ctx context.Context, args ...string) ([]byte, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, stderr.String(), errors.Wrap(err, "ffprobe")
	}
	return stdout.Bytes(), stderr.String(), nil
}

// ParseDuration extracts format.duration from ffprobe JSON output.
// Exported for testing without a real ffprobe binary.
func ParseDuration(data []byte) (float64, error) {
	if !gjson.ValidBytes(data) {
		return 0, errors.New("parse ffprobe JSON: invalid document")
	}
	v := gjson.GetBytes(data, "format.duration")
	if !v.Exists() {
		return 0, ErrNoDuration
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
	if err != nil || d <= 0 {
		return 0, errors.Wrapf(ErrBadDuration, "%q", v.String())
	}
	return d, nil
}

// ParseDimensions parses ffprobe csv output of the form "WxH". Exactly one
// line holding two positive integer tokens is accepted.
func ParseDimensions(out string) (Dimensions, error) {
	s := strings.TrimSpace(out)
	if strings.ContainsAny(s, "\r\n") {
		return Dimensions{}, errors.Wrapf(ErrBadDimension, "%q", out)
	}
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return Dimensions{}, errors.Wrapf(ErrBadDimension, "%q", out)
	}
	w, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return Dimensions{}, errors.Wrapf(ErrBadDimension, "%q", out)
	}
	return Dimensions{Width: w, Height: h}, nil
}
