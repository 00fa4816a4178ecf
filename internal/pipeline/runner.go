package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/backmassage/backdrop/internal/config"
	"github.com/backmassage/backdrop/internal/display"
	"github.com/backmassage/backdrop/internal/logging"
	"github.com/backmassage/backdrop/internal/planner"
)

// Run is the top-level batch entry point. It creates the output folder,
// discovers inputs and processes them one at a time in order.
//
// An existing output is skipped unless cfg.Force is set. A failed file is
// recorded and the batch continues, unless cfg.FailFast is set. Cancelling
// ctx stops the batch before the next file. The returned error is non-nil
// only for setup failures, in which case no file was attempted.
func Run(ctx context.Context, cfg *config.Config, tr *Transformer, log *logging.Logger) (BatchResult, error) {
	var res BatchResult
	start := time.Now()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return res, errors.Wrap(err, "create output folder")
	}

	files, err := Discover(cfg.InputDir, cfg.VideoExtension)
	if err != nil {
		return res, errors.Wrap(err, "discover inputs")
	}
	logBatchHeader(cfg, log, len(files))

	var ws *Workspace
	if !cfg.DryRun && len(files) > 0 {
		root := cfg.TempDir
		if root == "" {
			root = cfg.OutputDir
		}
		ws, err = NewWorkspace(root)
		if err != nil {
			return res, err
		}
		defer func() {
			if err := ws.Close(); err != nil {
				log.Warn("Could not remove workspace %s: %v", ws.Dir(), err)
			}
		}()
		log.Debug("workspace: %s", ws.Dir())
	}

	for i, input := range files {
		if ctx.Err() != nil {
			res.Interrupted = true
			log.Warn("Interrupted, %d file(s) not started", len(files)-i)
			break
		}

		name := filepath.Base(input)
		output := OutputPath(cfg.OutputDir, input)
		log.Info("[%d/%d] %s", i+1, len(files), name)

		if !cfg.Force && exists(output) {
			log.Warn("Skip (exists): %s", name)
			res.Skipped = append(res.Skipped, input)
			continue
		}

		if cfg.DryRun {
			if err := dryRun(ctx, cfg, tr, log, input, output); err != nil {
				if stop := recordFailure(cfg, log, &res, input, err); stop {
					break
				}
				continue
			}
			res.Processed = append(res.Processed, input)
			continue
		}

		fileStart := time.Now()
		if err := tr.Process(ctx, ws, input, cfg.BackgroundImage, output); err != nil {
			if stop := recordFailure(cfg, log, &res, input, err); stop {
				break
			}
			continue
		}
		res.Processed = append(res.Processed, input)
		log.Success("Done in %s -> %s (%s)", display.FormatElapsed(time.Since(fileStart)), output, fileSize(output))
	}

	logSummary(cfg, log, &res, time.Since(start))
	return res, nil
}

// recordFailure logs and records a failed input. Returns true when the
// batch must stop: on interrupt, or after any failure with fail-fast.
func recordFailure(cfg *config.Config, log *logging.Logger, res *BatchResult, input string, err error) bool {
	f := newFailure(input, err)
	res.Failed = append(res.Failed, f)
	log.Error("Failed (%s): %v", f.Kind, err)

	if f.Kind == KindInterrupted {
		res.Interrupted = true
		return true
	}
	if cfg.FailFast {
		log.Warn("Stopping after first failure (fail-fast)")
		return true
	}
	return false
}

func dryRun(ctx context.Context, cfg *config.Config, tr *Transformer, log *logging.Logger, input, output string) error {
	trim, plan, err := tr.Preview(ctx, input, cfg.BackgroundImage)
	if err != nil {
		return err
	}
	log.Info("  trim: -ss %s -t %s", display.FormatSeconds(trim.Start), display.FormatSeconds(trim.Length))
	log.Info("  background %s, video %s at %d,%d", plan.Background(), plan.Video(), plan.XOffset, plan.YOffset)
	log.Debug("  filter: %s", planner.BuildFilterGraph(plan))
	log.Success("[DRY] Would write %s", output)
	return nil
}

func fileSize(path string) string {
	fi, err := os.Stat(path)
	if err != nil {
		return "?"
	}
	return display.FormatBytes(fi.Size())
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, total int) {
	log.Info("Found %d %s file(s) in %s", total, cfg.VideoExtension, cfg.InputDir)
	log.Info("Background: %s", cfg.BackgroundImage)
	log.Info("Output: %s", cfg.OutputDir)
	log.Info("Trim: %s from start, %s total", display.FormatSeconds(cfg.TrimStart), display.FormatSeconds(cfg.TrimTotal))
	if cfg.Force {
		log.Info("Existing outputs: overwrite")
	}
	if cfg.FailFast {
		log.Info("Failure policy: stop at first failure")
	}
	if cfg.DryRun {
		log.Info("Dry run: nothing will be written")
	}
}

func logSummary(cfg *config.Config, log *logging.Logger, res *BatchResult, elapsed time.Duration) {
	log.Info("==============================")
	log.Info("Summary (%s):", display.FormatElapsed(elapsed))
	log.Info("Processed files: %d", len(res.Processed))
	if cfg.Verbose {
		for _, name := range res.ProcessedNames() {
			log.Info("  %s", name)
		}
	}
	log.Info("Skipped files: %d", len(res.Skipped))

	if len(res.Failed) == 0 {
		if res.Interrupted {
			log.Warn("Run was interrupted")
		}
		return
	}
	log.Error("Failed files: %d", len(res.Failed))
	for _, f := range res.Failed {
		if hint := f.Hint(); hint != "" {
			log.Error("  %s [%s]: %s", filepath.Base(f.Input), f.Kind, hint)
		} else {
			log.Error("  %s [%s]: %v", filepath.Base(f.Input), f.Kind, f.Err)
		}
	}
	if res.Interrupted {
		log.Warn("Run was interrupted")
	}
}
