package pipeline

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/backmassage/backdrop/internal/ffmpeg"
	"github.com/backmassage/backdrop/internal/probe"
)

// FailureKind names the step a file failed in.
type FailureKind string

const (
	KindProbe       FailureKind = "probe"
	KindTransform   FailureKind = "transform"
	KindFinalize    FailureKind = "finalize"
	KindInterrupted FailureKind = "interrupted"
	KindIO          FailureKind = "io"
)

// Failure records one input that did not produce an output.
type Failure struct {
	Input string
	Kind  FailureKind
	Err   error
}

// Hint returns ffmpeg's classified stderr for transform failures, else "".
func (f Failure) Hint() string {
	var te *ffmpeg.TransformError
	if errors.As(f.Err, &te) {
		return te.Hint()
	}
	return ""
}

func newFailure(input string, err error) Failure {
	return Failure{Input: input, Kind: classify(err), Err: err}
}

// classify maps an error from Transformer.Process to a FailureKind.
func classify(err error) FailureKind {
	var (
		fe *FinalizeError
		pe *probe.ProbeError
		te *ffmpeg.TransformError
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindInterrupted
	case errors.As(err, &fe):
		return KindFinalize
	case errors.As(err, &pe):
		return KindProbe
	case errors.Is(err, ErrTooShort), errors.As(err, &te):
		return KindTransform
	default:
		return KindIO
	}
}

// BatchResult is the outcome of a batch run. Every discovered input ends up
// in at most one list; with fail-fast or an interrupt the tail of the batch
// is in none of them.
type BatchResult struct {
	Processed   []string
	Skipped     []string
	Failed      []Failure
	Interrupted bool
}

// Total returns the number of inputs that reached a verdict.
func (r *BatchResult) Total() int {
	return len(r.Processed) + len(r.Skipped) + len(r.Failed)
}

// ProcessedNames returns the base names of processed inputs, in order.
func (r *BatchResult) ProcessedNames() []string {
	return lo.Map(r.Processed, func(p string, _ int) string { return filepath.Base(p) })
}

// OK reports whether the run finished without failures or interruption.
func (r *BatchResult) OK() bool {
	return len(r.Failed) == 0 && !r.Interrupted
}
