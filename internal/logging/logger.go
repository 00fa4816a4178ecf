// Package logging provides the leveled console logger used across backdrop.
// It is a thin printf-style layer over zerolog: human-readable console output
// (errors to stderr), optional JSON-lines file sink, debug level when verbose.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/backmassage/backdrop/internal/config"
	"github.com/backmassage/backdrop/internal/term"
)

const consoleTimeFormat = "2006-01-02 15:04:05"

// Logger provides leveled logging with an optional file sink. Child loggers
// returned by [Logger.Component] share the parent's sinks; only the root
// logger's Close releases the file.
type Logger struct {
	zl   zerolog.Logger
	file *fileSink
}

type fileSink struct {
	mu sync.Mutex
	f  *os.File
}

func (s *fileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return len(p), nil
	}
	return s.f.Write(p)
}

// NewLogger configures terminal colors from cfg and opens cfg.LogFile when
// set. Call Close when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)

	out := consoleWriter(os.Stdout)
	errOut := consoleWriter(os.Stderr)

	l := &Logger{}
	writers := []io.Writer{&splitWriter{out: out, err: errOut}}

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = &fileSink{f: f}
		writers = append(writers, l.file)
	}

	l.zl = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(levelFor(cfg.Verbose)).
		With().Timestamp().Logger()
	return l, nil
}

// New wraps an arbitrary writer without colors or file sink. Intended for
// tests and embedding.
func New(w io.Writer, verbose bool) *Logger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat, NoColor: true}
	return &Logger{zl: zerolog.New(cw).Level(levelFor(verbose)).With().Timestamp().Logger()}
}

func levelFor(verbose bool) zerolog.Level {
	if verbose {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: consoleTimeFormat,
		NoColor:    !term.Enabled(),
	}
}

// splitWriter routes error-and-above events to stderr, everything else to stdout.
type splitWriter struct {
	out io.Writer
	err io.Writer
}

func (s *splitWriter) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *splitWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level >= zerolog.ErrorLevel {
		return s.err.Write(p)
	}
	return s.out.Write(p)
}

// Component returns a child logger tagged with component=name.
func (l *Logger) Component(name string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", name).Logger()}
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	l.file.mu.Lock()
	defer l.file.mu.Unlock()
	if l.file.f == nil {
		return nil
	}
	err := l.file.f.Close()
	l.file.f = nil
	return err
}

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msg(fmt.Sprintf(format, args...))
}

// Success logs at INFO level with result=ok so file sinks can filter on it.
func (l *Logger) Success(format string, args ...interface{}) {
	l.zl.Info().Str("result", "ok").Msg(fmt.Sprintf(format, args...))
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msg(fmt.Sprintf(format, args...))
}

// Error logs at ERROR level, to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msg(fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level; dropped unless the logger was built verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msg(fmt.Sprintf(format, args...))
}

// DebugEnabled reports whether debug events would be written.
func (l *Logger) DebugEnabled() bool {
	return l.zl.GetLevel() <= zerolog.DebugLevel
}
