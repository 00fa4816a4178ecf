package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/backdrop/internal/config"
)

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	l.Info("test message")
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = filepath.Join(dir, "logs", "backdrop.log")
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	l.Component("probe").Warn("to %s", "file")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(cfg.LogFile)
	for _, want := range []string{`"level":"warn"`, `"message":"to file"`, `"component":"probe"`} {
		if !bytes.Contains(b, []byte(want)) {
			t.Errorf("log file missing %s: %s", want, string(b))
		}
	}
	// Second close is a no-op.
	if err := l.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestNew_DebugGatedByVerbose(t *testing.T) {
	var buf bytes.Buffer
	quiet := New(&buf, false)
	quiet.Debug("hidden")
	quiet.Success("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("debug line written without verbose: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") || !strings.Contains(buf.String(), "result=ok") {
		t.Errorf("success line missing: %s", buf.String())
	}
	if quiet.DebugEnabled() {
		t.Error("DebugEnabled should be false")
	}

	buf.Reset()
	loud := New(&buf, true)
	loud.Debug("visible %d", 42)
	if !strings.Contains(buf.String(), "visible 42") {
		t.Errorf("debug line missing with verbose: %s", buf.String())
	}
}
