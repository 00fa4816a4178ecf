package check

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/backmassage/backdrop/internal/config"
)

const sampleFilters = `Filters:
  T.. = Timeline support
  .S. = Slice threading
  ..C = Command support
  A = Audio input/output
  V = Video input/output
  N = Dynamic number and/or type of input/output
  | = Source or sink filter
 ... hflip             V->V       Horizontally flip the input video.
 TSC overlay           VV->V      Overlay a video source on top of the input.
 ..C scale             V->V       Scale the input video size and/or convert the image format.
 ... vflip             V->V       Flip the input video vertically.
`

func TestParseFilterList(t *testing.T) {
	// Real output has a separator between legend and body.
	out := "Filters:\n  T.. = Timeline support\n ------\n" +
		" ... hflip             V->V       Horizontally flip the input video.\n" +
		" TSC overlay           VV->V      Overlay a video source on top of the input.\n" +
		" ..C scale             V->V       Scale the input video size.\n"
	got := ParseFilterList(out)
	for _, name := range []string{"hflip", "overlay", "scale"} {
		if !got[name] {
			t.Errorf("filter %q not parsed from %v", name, got)
		}
	}
	if got["Timeline"] || got["="] {
		t.Errorf("legend lines leaked into filter set: %v", got)
	}
}

func TestParseFilterList_NoSeparator(t *testing.T) {
	if got := ParseFilterList(sampleFilters); len(got) != 0 {
		t.Errorf("without separator nothing should be parsed, got %v", got)
	}
}

func TestResolve_MissingFfmpeg(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()
	lookPath = func(name string) (string, error) {
		return "", exec.ErrNotFound
	}

	cfg := config.DefaultConfig()
	_, err := Resolve(context.Background(), &cfg)
	if !errors.Is(err, ErrFfmpegNotFound) {
		t.Fatalf("err = %v, want ErrFfmpegNotFound", err)
	}
	if !IsToolNotFound(err) {
		t.Error("IsToolNotFound should be true")
	}
	if !strings.Contains(err.Error(), config.EnvFFmpeg) {
		t.Errorf("err = %q, want a hint naming %s", err.Error(), config.EnvFFmpeg)
	}
}

func TestResolve_MissingFfprobe(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()
	lookPath = func(name string) (string, error) {
		if name == "ffprobe" {
			return "", exec.ErrNotFound
		}
		return "/usr/bin/" + name, nil
	}

	cfg := config.DefaultConfig()
	_, err := Resolve(context.Background(), &cfg)
	if !errors.Is(err, ErrFfprobeNotFound) {
		t.Fatalf("err = %v, want ErrFfprobeNotFound", err)
	}
}

func TestResolve_Unusable(t *testing.T) {
	falseBin, err := exec.LookPath("false")
	if err != nil {
		t.Skip("false(1) not available")
	}
	orig := lookPath
	defer func() { lookPath = orig }()
	lookPath = func(string) (string, error) { return falseBin, nil }

	cfg := config.DefaultConfig()
	_, err = Resolve(context.Background(), &cfg)
	if !errors.Is(err, ErrFfmpegUnusable) {
		t.Fatalf("err = %v, want ErrFfmpegUnusable", err)
	}
}

func TestIsToolNotFound_OtherError(t *testing.T) {
	if IsToolNotFound(errors.New("boom")) {
		t.Error("unrelated error classified as tool-not-found")
	}
	if IsToolNotFound(nil) {
		t.Error("nil classified as tool-not-found")
	}
}

func TestResolve_Real(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not available")
	}
	cfg := config.DefaultConfig()
	tools, err := Resolve(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if tools.FFmpeg == "" || tools.FFprobe == "" {
		t.Errorf("empty tool paths: %+v", tools)
	}
}
