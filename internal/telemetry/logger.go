package telemetry

import (
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

type Logger struct {
	*slog.Logger

	component string
}

// NewLogger returns a tint logger writing to stderr, coloured only when
// stderr is a terminal.
func NewLogger(component string, level slog.Level) *Logger {
	var w io.Writer
	opts := &tint.Options{Level: level}

	if runtime.GOOS == "windows" {
		w = colorable.NewColorableStderr()
	} else {
		w = os.Stderr
		opts.NoColor = !isatty.IsTerminal(os.Stderr.Fd())
	}

	return newLogger(component, tint.NewHandler(w, opts))
}

func newLogger(component string, handler slog.Handler) *Logger {
	return &Logger{
		Logger:    slog.New(handler),
		component: component,
	}
}

func (l *Logger) getArgs(args ...any) []any {
	return append([]any{slog.String("component", l.component)}, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.Logger.Debug(msg, l.getArgs(args...)...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.Logger.Info(msg, l.getArgs(args...)...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.Logger.Warn(msg, l.getArgs(args...)...)
}

func (l *Logger) Error(msg string, err error, args ...any) {
	tmpArgs := append([]any{tint.Err(err)}, args...)
	l.Logger.Error(msg, l.getArgs(tmpArgs...)...)
}
