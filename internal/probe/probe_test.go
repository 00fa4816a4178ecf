package probe

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/backmassage/backdrop/internal/logging"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr error
	}{
		{"typical", `{"format": {"duration": "12.345000"}}`, 12.345, nil},
		{"whole seconds", `{"format":{"duration":"3"}}`, 3, nil},
		{"missing field", `{"format": {}}`, 0, ErrNoDuration},
		{"empty object", `{}`, 0, ErrNoDuration},
		{"not a number", `{"format": {"duration": "N/A"}}`, 0, ErrBadDuration},
		{"zero", `{"format": {"duration": "0.000000"}}`, 0, ErrBadDuration},
		{"negative", `{"format": {"duration": "-1.5"}}`, 0, ErrBadDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration([]byte(tt.in))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDuration_InvalidJSON(t *testing.T) {
	if _, err := ParseDuration([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestParseDimensions(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Dimensions
		wantErr bool
	}{
		{"typical", "1920x1080\n", Dimensions{1920, 1080}, false},
		{"odd sizes", "1281x721", Dimensions{1281, 721}, false},
		{"surrounding space", "  640x480  \n", Dimensions{640, 480}, false},
		{"repeated line", "1280x720\n1280x720\n", Dimensions{}, true},
		{"two streams", "1280x720\n640x360", Dimensions{}, true},
		{"empty", "", Dimensions{}, true},
		{"one token", "1920", Dimensions{}, true},
		{"three tokens", "1920x1080x3", Dimensions{}, true},
		{"non numeric", "widexhigh", Dimensions{}, true},
		{"zero width", "0x1080", Dimensions{}, true},
		{"negative height", "1920x-1", Dimensions{}, true},
		{"trailing separator", "1920x1080x", Dimensions{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDimensions(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrBadDimension) {
					t.Errorf("err = %v, want ErrBadDimension", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDimensions_StringAndRatio(t *testing.T) {
	d := Dimensions{Width: 1920, Height: 1080}
	if d.String() != "1920x1080" {
		t.Errorf("String() = %q", d.String())
	}
	if r := d.Ratio(); r < 1.777 || r > 1.778 {
		t.Errorf("Ratio() = %v", r)
	}
	if (Dimensions{Width: 5}).Ratio() != 0 {
		t.Error("zero height should give zero ratio")
	}
}

func TestProbeError(t *testing.T) {
	cause := errors.New("exit status 1")
	var err error = &ProbeError{
		Path:   "/in/a.mp4",
		Op:     "duration",
		Stderr: "line one\n/in/a.mp4: Invalid data found when processing input\n",
		Err:    cause,
	}
	if !IsProbeError(err) {
		t.Error("IsProbeError = false")
	}
	if !errors.Is(err, cause) {
		t.Error("Unwrap does not reach cause")
	}
	want := `probe duration "/in/a.mp4": exit status 1: /in/a.mp4: Invalid data found when processing input`
	if err.Error() != want {
		t.Errorf("Error() = %q\nwant      %q", err.Error(), want)
	}
	if IsProbeError(cause) {
		t.Error("plain error classified as ProbeError")
	}
}

func TestProber_MissingBinary(t *testing.T) {
	p := NewProber(filepath.Join(t.TempDir(), "no-ffprobe"), logging.New(io.Discard, false))
	_, err := p.Duration(context.Background(), "x.mp4")
	if !IsProbeError(err) {
		t.Fatalf("err = %v, want ProbeError", err)
	}
	_, err = p.Dimensions(context.Background(), "x.png")
	if !IsProbeError(err) {
		t.Fatalf("err = %v, want ProbeError", err)
	}
}

func TestProber_Real(t *testing.T) {
	ffmpegBin, err := exec.LookPath("ffmpeg")
	if err != nil {
		t.Skip("ffmpeg not available")
	}
	ffprobeBin, err := exec.LookPath("ffprobe")
	if err != nil {
		t.Skip("ffprobe not available")
	}

	dir := t.TempDir()
	clip := filepath.Join(dir, "clip.mp4")
	gen := exec.Command(ffmpegBin, "-v", "error", "-y",
		"-f", "lavfi", "-i", "testsrc=size=320x240:rate=10:duration=2",
		"-pix_fmt", "yuv420p", clip)
	if out, err := gen.CombinedOutput(); err != nil {
		t.Fatalf("generate clip: %v\n%s", err, out)
	}

	p := NewProber(ffprobeBin, logging.New(io.Discard, true))
	d, err := p.Duration(context.Background(), clip)
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if d < 1.5 || d > 2.5 {
		t.Errorf("Duration = %v, want about 2", d)
	}
	dims, err := p.Dimensions(context.Background(), clip)
	if err != nil {
		t.Fatalf("Dimensions: %v", err)
	}
	if dims != (Dimensions{320, 240}) {
		t.Errorf("Dimensions = %v, want 320x240", dims)
	}

	_, err = p.Duration(context.Background(), filepath.Join(dir, "missing.mp4"))
	if !IsProbeError(err) {
		t.Errorf("missing file: err = %v, want ProbeError", err)
	}
}
