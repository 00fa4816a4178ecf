// Package check provides system diagnostics (--check mode) and the
// pre-pipeline tool resolution (Resolve) for ffmpeg and ffprobe.
package check

import (
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/backmassage/backdrop/internal/config"
)

// Sentinel errors returned by Resolve when a required tool is missing or broken.
// All of them are "tool not found" setup failures; see [IsToolNotFound].
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found")
	ErrFfprobeNotFound = errors.New("ffprobe not found")
	ErrFfmpegUnusable  = errors.New("ffmpeg found but -version failed")
	ErrFfprobeUnusable = errors.New("ffprobe found but -version failed")
)

// requiredFilters are the ffmpeg filters both transform stages depend on.
var requiredFilters = []string{"hflip", "scale", "overlay"}

// Tools is the resolved capability handle for the external collaborators.
// It is validated once at startup and passed explicitly to the media
// inspector and the transcoder.
type Tools struct {
	FFmpeg  string
	FFprobe string
}

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// lookPath is replaceable in tests.
var lookPath = exec.LookPath

// IsToolNotFound reports whether err is one of the Resolve sentinels.
func IsToolNotFound(err error) bool {
	return errors.Is(err, ErrFfmpegNotFound) ||
		errors.Is(err, ErrFfprobeNotFound) ||
		errors.Is(err, ErrFfmpegUnusable) ||
		errors.Is(err, ErrFfprobeUnusable)
}

// Resolve locates ffmpeg and ffprobe (configured names or paths) and checks
// that each one answers -version.
func Resolve(ctx context.Context, cfg *config.Config) (Tools, error) {
	ffmpegPath, err := lookPath(cfg.FFmpegPath)
	if err != nil {
		return Tools{}, errors.Wrapf(ErrFfmpegNotFound, "looked up %q, install ffmpeg or set %s", cfg.FFmpegPath, config.EnvFFmpeg)
	}
	ffprobePath, err := lookPath(cfg.FFprobePath)
	if err != nil {
		return Tools{}, errors.Wrapf(ErrFfprobeNotFound, "looked up %q, install ffprobe or set %s", cfg.FFprobePath, config.EnvFFprobe)
	}

	if _, err := versionLine(ctx, ffmpegPath); err != nil {
		return Tools{}, errors.Wrapf(ErrFfmpegUnusable, "%s: %v", ffmpegPath, err)
	}
	if _, err := versionLine(ctx, ffprobePath); err != nil {
		return Tools{}, errors.Wrapf(ErrFfprobeUnusable, "%s: %v", ffprobePath, err)
	}

	return Tools{FFmpeg: ffmpegPath, FFprobe: ffprobePath}, nil
}

// RunCheck runs the --check flow: prints the version of ffmpeg and ffprobe
// and whether the filters used by the transform stages are available.
// Returns false if anything required is missing.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := true
	ffmpegPath := checkTool(ctx, log, "ffmpeg", cfg.FFmpegPath, &ok)
	checkTool(ctx, log, "ffprobe", cfg.FFprobePath, &ok)

	if ffmpegPath == "" {
		return false
	}

	out, err := exec.CommandContext(ctx, ffmpegPath, "-hide_banner", "-filters").Output()
	if err != nil {
		log.Warn("Could not list filters: %v", err)
		return false
	}
	available := ParseFilterList(string(out))
	for _, name := range requiredFilters {
		if available[name] {
			log.Success("filter %s: available", name)
		} else {
			log.Error("filter %s: missing", name)
			ok = false
		}
	}
	return ok
}

// checkTool resolves one tool and logs its version line. Returns the
// resolved path, or "" when the tool is missing or unusable.
func checkTool(ctx context.Context, log Logger, label, name string, ok *bool) string {
	path, err := lookPath(name)
	if err != nil {
		log.Error("%s not found (%s)", label, name)
		*ok = false
		return ""
	}
	line, err := versionLine(ctx, path)
	if err != nil {
		log.Warn("%s found but -version failed: %v", label, err)
		*ok = false
		return ""
	}
	log.Success("%s: %s", label, line)
	return path
}

// versionLine runs "<tool> -version" and returns the first output line.
func versionLine(ctx context.Context, path string) (string, error) {
	out, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(out))
	if idx := strings.Index(line, "\n"); idx > 0 {
		line = line[:idx]
	}
	return line, nil
}

// ParseFilterList extracts filter names from "ffmpeg -filters" output.
// Data lines look like " T.C hflip  V->V  Horizontally flip the input video.";
// the header block before the "------" separator is skipped.
func ParseFilterList(out string) map[string]bool {
	filters := make(map[string]bool)
	inBody := false
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if !inBody {
			if strings.HasPrefix(trimmed, "---") {
				inBody = true
			}
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			continue
		}
		filters[fields[1]] = true
	}
	return filters
}
