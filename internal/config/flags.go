package config

// This file binds CLI flags onto a pflag.FlagSet (owned by the cobra root
// command) and applies them to a Config. Only flags the user actually set
// override values that came from defaults, the environment or a config file.

import (
	"github.com/spf13/pflag"
)

// Flags holds raw flag values until [Flags.Apply] copies the changed ones
// into a Config.
type Flags struct {
	InputDir        string
	BackgroundImage string
	OutputDir       string
	Force           bool
	Verbose         bool
	DryRun          bool
	FailFast        bool
	CheckOnly       bool
	ConfigFile      string
	LogFile         string

	// Negated/override flags.
	forceColor bool
	noColor    bool
}

// BindFlags registers every flag on fs.
func BindFlags(fs *pflag.FlagSet, f *Flags) {
	fs.StringVarP(&f.InputDir, "input-folder", "i", "", "folder containing videos to process")
	fs.StringVarP(&f.BackgroundImage, "background-image-path", "b", "", "path to the background image")
	fs.StringVarP(&f.OutputDir, "output-folder", "o", "", "folder to save the processed videos (created if missing)")
	fs.BoolVarP(&f.Force, "force", "f", false, "force reprocessing of existing videos")
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "print verbose output")

	fs.BoolVarP(&f.DryRun, "dry-run", "d", false, "plan only; do not run ffmpeg")
	fs.BoolVar(&f.FailFast, "fail-fast", false, "stop at the first file that fails")
	fs.BoolVarP(&f.CheckOnly, "check", "c", false, "check ffmpeg/ffprobe and exit")
	fs.StringVar(&f.ConfigFile, "config", "", "YAML config file (default: ./"+DefaultConfigFile+" if present)")
	fs.StringVarP(&f.LogFile, "log", "l", "", "append JSON logs to file")
	fs.BoolVar(&f.forceColor, "color", false, "force colored logs")
	fs.BoolVar(&f.noColor, "no-color", false, "disable colored logs")
}

// Apply copies flags that were explicitly set on fs into cfg. Path
// arguments are normalized the same way regardless of source.
func (f *Flags) Apply(fs *pflag.FlagSet, cfg *Config) {
	if fs.Changed("input-folder") {
		cfg.InputDir = f.InputDir
	}
	if fs.Changed("background-image-path") {
		cfg.BackgroundImage = f.BackgroundImage
	}
	if fs.Changed("output-folder") {
		cfg.OutputDir = f.OutputDir
	}
	if fs.Changed("force") {
		cfg.Force = f.Force
	}
	if fs.Changed("verbose") {
		cfg.Verbose = f.Verbose
	}
	if fs.Changed("fail-fast") {
		cfg.FailFast = f.FailFast
	}
	if fs.Changed("log") {
		cfg.LogFile = f.LogFile
	}
	cfg.DryRun = f.DryRun
	cfg.CheckOnly = f.CheckOnly

	if f.noColor {
		cfg.ColorMode = ColorNever
	} else if f.forceColor {
		cfg.ColorMode = ColorAlways
	}

	if cfg.InputDir != "" {
		cfg.InputDir = NormalizeDirArg(cfg.InputDir)
	}
	if cfg.OutputDir != "" {
		cfg.OutputDir = NormalizeDirArg(cfg.OutputDir)
	}
}

// Load builds the effective Config from defaults, the environment, the
// config file and the flags set on fs, in that order.
func Load(fs *pflag.FlagSet, f *Flags) (Config, error) {
	cfg := DefaultConfig()
	LoadEnv(&cfg)

	path := cfg.ConfigFile
	if fs.Changed("config") {
		path = f.ConfigFile
	}
	if err := LoadFile(&cfg, path); err != nil {
		return cfg, err
	}

	f.Apply(fs, &cfg)
	return cfg, nil
}
