// Command backdrop mirrors every video in a folder, trims half a second off
// each end and composites the result centered on a background image.
//
// It parses flags, validates configuration and paths, and either runs
// system diagnostics (--check) or the batch pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/backmassage/backdrop/internal/check"
	"github.com/backmassage/backdrop/internal/config"
	"github.com/backmassage/backdrop/internal/display"
	"github.com/backmassage/backdrop/internal/ffmpeg"
	"github.com/backmassage/backdrop/internal/logging"
	"github.com/backmassage/backdrop/internal/pipeline"
	"github.com/backmassage/backdrop/internal/probe"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(execute())
}

// execute builds the root command and returns the process exit code.
func execute() int {
	var flags config.Flags
	code := 0

	root := &cobra.Command{
		Use:           "backdrop -i <input-folder> -b <background-image> -o <output-folder>",
		Short:         "Mirror, trim and composite videos onto a background image",
		Long:          "backdrop flips every video in a folder horizontally, drops its audio, trims it\nand overlays it centered on a background image scaled to fit.",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code = run(cmd.Context(), cmd.Flags(), &flags)
			return nil
		},
	}
	config.BindFlags(root.Flags(), &flags)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "backdrop: %v\n", err)
		return 1
	}
	return code
}

func run(ctx context.Context, fs *pflag.FlagSet, flags *config.Flags) int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt.
	cfg, err := config.Load(fs, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "backdrop: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "backdrop: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "backdrop: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available. All output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(ctx, &cfg, log.Component("check")) {
			return 1
		}
		return 0
	}

	if err := validateInputs(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	log.Info("=== backdrop v%s (%s) ===", version, commit)
	if cfg.ConfigFile != "" {
		log.Info("Config: %s", cfg.ConfigFile)
	}
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be written")
	}

	// Fail fast if ffmpeg/ffprobe are unavailable, before anything is
	// created on disk.
	tools, err := check.Resolve(ctx, &cfg)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	log.Debug("ffmpeg: %s, ffprobe: %s", tools.FFmpeg, tools.FFprobe)

	if err := prepareOutput(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Phase 3: Signal handling. Cancel the context on SIGINT/SIGTERM; the
	// running ffmpeg is killed, its temporaries removed and the batch stops.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, stopping…")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Phase 4: Run the batch.
	tr := pipeline.NewTransformer(
		probe.NewProber(tools.FFprobe, log.Component("probe")),
		ffmpeg.NewTranscoder(tools.FFmpeg, cfg.Verbose, log.Component("ffmpeg")),
		&cfg,
		log.Component("transform"),
	)
	res, err := pipeline.Run(ctx, &cfg, tr, log)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	if !res.OK() {
		return 1
	}
	return 0
}

// validateInputs checks the input folder and background image. It has no
// side effects on disk.
func validateInputs(cfg *config.Config) error {
	if fi, err := os.Stat(cfg.InputDir); err != nil {
		return errors.Errorf("input folder not found: %s", cfg.InputDir)
	} else if !fi.IsDir() {
		return errors.Errorf("input folder is not a directory: %s", cfg.InputDir)
	}

	if fi, err := os.Stat(cfg.BackgroundImage); err != nil {
		return errors.Errorf("background image not found: %s", cfg.BackgroundImage)
	} else if !fi.Mode().IsRegular() {
		return errors.Errorf("background image is not a file: %s", cfg.BackgroundImage)
	}
	return nil
}

// prepareOutput creates the output folder and rejects one that resolves to
// the input folder.
func prepareOutput(cfg *config.Config) error {
	inputAbs, err := absPath(cfg.InputDir)
	if err != nil {
		return errors.Wrapf(err, "cannot resolve input folder %s", cfg.InputDir)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return errors.Wrapf(err, "cannot create output folder %s", cfg.OutputDir)
	}
	outputAbs, err := absPath(cfg.OutputDir)
	if err != nil {
		return errors.Wrapf(err, "cannot resolve output folder %s", cfg.OutputDir)
	}
	return cfg.ValidatePaths(inputAbs, outputAbs)
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of input vs output folders.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
