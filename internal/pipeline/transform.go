package pipeline

import (
	"context"

	"github.com/pkg/errors"

	"github.com/backmassage/backdrop/internal/config"
	"github.com/backmassage/backdrop/internal/display"
	"github.com/backmassage/backdrop/internal/logging"
	"github.com/backmassage/backdrop/internal/planner"
	"github.com/backmassage/backdrop/internal/probe"
)

// ErrTooShort is returned for clips no longer than the total trim: nothing
// would be left after trimming, so ffmpeg is never started.
var ErrTooShort = errors.New("clip too short to trim")

// Inspector reports media properties. Implemented by *probe.Prober.
type Inspector interface {
	Duration(ctx context.Context, path string) (float64, error)
	Dimensions(ctx context.Context, path string) (probe.Dimensions, error)
}

// Transcoder runs the two transform stages. Implemented by *ffmpeg.Transcoder.
type Transcoder interface {
	Mirror(ctx context.Context, input, output string, trim planner.TrimWindow) error
	Composite(ctx context.Context, background, video, output string, plan planner.CompositionPlan) error
}

// Transformer turns one clip into a finished composite.
type Transformer struct {
	inspector  Inspector
	transcoder Transcoder
	trimStart  float64
	trimTotal  float64
	log        *logging.Logger
}

// NewTransformer wires the external tools and the trim settings of cfg.
func NewTransformer(inspector Inspector, transcoder Transcoder, cfg *config.Config, log *logging.Logger) *Transformer {
	return &Transformer{
		inspector:  inspector,
		transcoder: transcoder,
		trimStart:  cfg.TrimStart,
		trimTotal:  cfg.TrimTotal,
		log:        log,
	}
}

// Process mirrors and trims input, composites it over background and moves
// the result to output. Intermediates live in ws and are removed on every
// exit path. Nothing is written at output until the composite succeeded;
// an existing output is replaced only at that point.
func (t *Transformer) Process(ctx context.Context, ws *Workspace, input, background, output string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	trim, err := t.trim(ctx, input)
	if err != nil {
		return err
	}

	sc := ws.Scratch(input)
	defer func() {
		if err := sc.Close(); err != nil {
			t.log.Warn("Could not remove temporary files for %s: %v", input, err)
		}
	}()

	t.log.Debug("mirror: keep %s from %s", display.FormatSeconds(trim.Length), display.FormatSeconds(trim.Start))
	if err := t.transcoder.Mirror(ctx, input, sc.Mirrored, trim); err != nil {
		return err
	}

	plan, err := t.plan(ctx, background, sc.Mirrored)
	if err != nil {
		return err
	}

	if err := t.transcoder.Composite(ctx, background, sc.Mirrored, sc.Composite, plan); err != nil {
		return err
	}

	return replaceFile(sc.Composite, output)
}

// Preview computes what Process would do for input without running ffmpeg.
// The input itself stands in for the mirrored clip: a horizontal flip keeps
// the frame size.
func (t *Transformer) Preview(ctx context.Context, input, background string) (planner.TrimWindow, planner.CompositionPlan, error) {
	trim, err := t.trim(ctx, input)
	if err != nil {
		return planner.TrimWindow{}, planner.CompositionPlan{}, err
	}
	plan, err := t.plan(ctx, background, input)
	if err != nil {
		return planner.TrimWindow{}, planner.CompositionPlan{}, err
	}
	return trim, plan, nil
}

func (t *Transformer) trim(ctx context.Context, input string) (planner.TrimWindow, error) {
	d, err := t.inspector.Duration(ctx, input)
	if err != nil {
		return planner.TrimWindow{}, err
	}
	trim := planner.Trim(d, t.trimStart, t.trimTotal)
	if !trim.Valid() {
		return planner.TrimWindow{}, errors.Wrapf(ErrTooShort, "%s lasts %s, trim removes %s",
			input, display.FormatSeconds(d), display.FormatSeconds(t.trimTotal))
	}
	return trim, nil
}

func (t *Transformer) plan(ctx context.Context, background, video string) (planner.CompositionPlan, error) {
	bg, err := t.inspector.Dimensions(ctx, background)
	if err != nil {
		return planner.CompositionPlan{}, err
	}
	fg, err := t.inspector.Dimensions(ctx, video)
	if err != nil {
		return planner.CompositionPlan{}, err
	}
	plan := planner.Plan(bg, fg)
	t.log.Debug("background %s, video %s: %s", bg, fg, planner.BuildFilterGraph(plan))
	return plan, nil
}
