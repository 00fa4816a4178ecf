package ffmpeg

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// TransformError reports a failed ffmpeg stage. Stderr holds everything
// ffmpeg wrote to stderr during the attempt.
type TransformError struct {
	Stage  string
	Output string
	Stderr string
	Err    error
}

func (e *TransformError) Error() string {
	msg := fmt.Sprintf("ffmpeg %s stage (%s): %v", e.Stage, e.Output, e.Err)
	if h := e.Hint(); h != "" {
		msg += ": " + h
	}
	return msg
}

func (e *TransformError) Unwrap() error { return e.Err }

// Hint classifies Stderr into a short cause, or "" when nothing matched.
func (e *TransformError) Hint() string {
	return ClassifyStderr(e.Stderr)
}

// IsTransformError reports whether err wraps a *TransformError.
func IsTransformError(err error) bool {
	var te *TransformError
	return errors.As(err, &te)
}

// Pre-compiled regexes for classifying ffmpeg stderr output. Checked in
// order by [ClassifyStderr]; the first match wins.
var (
	reOddDimensions = regexp.MustCompile(
		`(?i)(width|height) not divisible by 2|` +
			`width and height must be (a )?multiples? of 2`)

	reInvalidData = regexp.MustCompile(
		`Invalid data found when processing input|` +
			`moov atom not found|` +
			`could not find codec parameters`)

	reMissingFile = regexp.MustCompile(
		`No such file or directory`)

	reUnknownCodec = regexp.MustCompile(
		`(?i)Unknown encoder|` +
			`No such filter|` +
			`Encoder .* not found|` +
			`Filter not found`)

	reNoSpace = regexp.MustCompile(
		`No space left on device`)
)

var stderrHints = []struct {
	re   *regexp.Regexp
	hint string
}{
	{reOddDimensions, "encoder rejected odd frame dimensions"},
	{reInvalidData, "input is not a readable media file"},
	{reMissingFile, "an input or output path does not exist"},
	{reUnknownCodec, "this ffmpeg build lacks a required encoder or filter"},
	{reNoSpace, "no space left on device"},
}

// ClassifyStderr maps ffmpeg stderr to a short human-readable cause.
// Falls back to the last non-empty stderr line, or "" for empty input.
func ClassifyStderr(stderr string) string {
	for _, h := range stderrHints {
		if h.re.MatchString(stderr) {
			return h.hint
		}
	}
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
