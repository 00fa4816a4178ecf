// Package config holds runtime configuration: defaults, environment and
// YAML file loading, CLI flag binding, and validation.
//
// Precedence, lowest to highest: DefaultConfig, .env / environment,
// YAML config file, explicitly set CLI flags.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// DefaultConfigFile is read when no --config path is given and the file exists
// in the working directory.
const DefaultConfigFile = "backdrop.yaml"

// Environment variables consulted by [LoadEnv].
const (
	EnvFFmpeg  = "BACKDROP_FFMPEG"
	EnvFFprobe = "BACKDROP_FFPROBE"
	EnvConfig  = "BACKDROP_CONFIG"
	EnvTempDir = "BACKDROP_TEMP_DIR"
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then [LoadEnv], [LoadFile] and finally [Flags.Apply] before being passed
// (by pointer) to packages that need it.
type Config struct {
	// Paths.
	InputDir        string `yaml:"input_folder"`
	BackgroundImage string `yaml:"background_image_path"`
	OutputDir       string `yaml:"output_folder"`

	// Behavior flags.
	Force     bool `yaml:"force"`     // Reprocess files whose output already exists.
	DryRun    bool `yaml:"-"`         // Plan only; never invoke ffmpeg.
	FailFast  bool `yaml:"fail_fast"` // Stop the batch at the first failed file.
	CheckOnly bool `yaml:"-"`         // Run --check diagnostics and exit.

	// Processing constants. Not exposed as flags.
	VideoExtension string  `yaml:"video_extension"` // Default: ".mp4".
	TrimStart      float64 `yaml:"trim_start"`      // Default: 0.5 s cut from the head.
	TrimTotal      float64 `yaml:"trim_total"`      // Default: 1.0 s removed from the duration.

	// External tools.
	FFmpegPath  string `yaml:"ffmpeg_path"`  // Default: "ffmpeg" (resolved on PATH).
	FFprobePath string `yaml:"ffprobe_path"` // Default: "ffprobe".

	// Scratch space for intermediates. Empty means inside OutputDir.
	TempDir string `yaml:"temp_dir"`

	// Display and logging.
	Verbose    bool      `yaml:"verbose"`
	ColorMode  ColorMode `yaml:"color"`
	LogFile    string    `yaml:"log_file"`
	ConfigFile string    `yaml:"-"`
}

// DefaultConfig returns a Config with every default set.
func DefaultConfig() Config {
	return Config{
		VideoExtension: ".mp4",
		TrimStart:      0.5,
		TrimTotal:      1.0,
		FFmpegPath:     "ffmpeg",
		FFprobePath:    "ffprobe",
		ColorMode:      ColorAuto,
	}
}

// LoadEnv loads a .env file from the working directory when present and
// applies BACKDROP_* overrides.
func LoadEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := strings.TrimSpace(os.Getenv(EnvFFmpeg)); v != "" {
		cfg.FFmpegPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFFprobe)); v != "" {
		cfg.FFprobePath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvConfig)); v != "" {
		cfg.ConfigFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTempDir)); v != "" {
		cfg.TempDir = v
	}
}

// LoadFile merges a YAML config file into cfg. With an empty path the
// default file is used if it exists; an explicit path must exist.
func LoadFile(cfg *Config, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return errors.Wrapf(err, "read config %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "parse config %s", path)
	}
	cfg.ConfigFile = path
	return nil
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum and numeric fields. When not in CheckOnly mode it
// also requires the input folder, background image and output folder.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	if !strings.HasPrefix(c.VideoExtension, ".") || len(c.VideoExtension) < 2 {
		return errors.Errorf("invalid video extension %q (must look like '.mp4')", c.VideoExtension)
	}
	if c.TrimStart < 0 || c.TrimTotal < 0 {
		return errors.New("trim_start and trim_total must not be negative")
	}
	if c.FFmpegPath == "" || c.FFprobePath == "" {
		return errors.New("ffmpeg_path and ffprobe_path must not be empty")
	}

	if c.CheckOnly {
		return nil
	}
	var missing []string
	if c.InputDir == "" {
		missing = append(missing, "--input-folder")
	}
	if c.BackgroundImage == "" {
		missing = append(missing, "--background-image-path")
	}
	if c.OutputDir == "" {
		missing = append(missing, "--output-folder")
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required flag(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidatePaths rejects an output folder that resolves to the input folder:
// every input would then count as its own existing output. Both arguments
// must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	if filepath.Clean(inputAbs) == filepath.Clean(outputAbs) {
		return errors.New("output folder must not be the input folder")
	}
	return nil
}
