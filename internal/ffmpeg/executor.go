package ffmpeg

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"github.com/backmassage/backdrop/internal/logging"
	"github.com/backmassage/backdrop/internal/planner"
)

// Transcoder runs the stages against a resolved ffmpeg binary.
type Transcoder struct {
	ffmpegPath string
	verbose    bool
	log        *logging.Logger
}

// NewTranscoder returns a Transcoder using the ffmpeg binary at ffmpegPath.
// When verbose is set, ffmpeg's stderr is tee'd to os.Stderr in real time.
func NewTranscoder(ffmpegPath string, verbose bool, log *logging.Logger) *Transcoder {
	return &Transcoder{ffmpegPath: ffmpegPath, verbose: verbose, log: log}
}

// Mirror runs the mirror stage from input into output.
func (t *Transcoder) Mirror(ctx context.Context, input, output string, trim planner.TrimWindow) error {
	return t.execute(ctx, StageMirror, output, MirrorStage(input, output, trim))
}

// Composite runs the composite stage: video over background into output.
func (t *Transcoder) Composite(ctx context.Context, background, video, output string, plan planner.CompositionPlan) error {
	return t.execute(ctx, StageComposite, output, CompositeStage(background, video, output, plan))
}

// execute owns the ffmpeg process for one stage. stderr is always captured
// for classification; the process is killed when ctx is cancelled.
func (t *Transcoder) execute(ctx context.Context, stage, output string, s *ffmpeggo.Stream) error {
	args := Args(s, t.verbose)
	if t.log.DebugEnabled() {
		t.log.Debug("%s: %s %s", stage, t.ffmpegPath, strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, t.ffmpegPath, args...)

	var stderrBuf bytes.Buffer
	if t.verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return &TransformError{
			Stage:  stage,
			Output: output,
			Stderr: stderrBuf.String(),
			Err:    err,
		}
	}
	return nil
}
