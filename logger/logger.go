// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

var (
	isTerminal = isatty.IsTerminal(os.Stderr.Fd())
	isJournal  = isStderrConnectedToJournal()
)

var base = New()

// Logger is a nil-safe leveled logger. Calling any method on a nil
// *Logger falls through to the package base logger, so components may
// embed an optional *Logger without guarding every call site.
type Logger struct {
	sl *slog.Logger
}

// New creates a Logger writing to stderr. The handler is chosen once at
// startup: colored terminal output when stderr is a tty, plain logfmt
// otherwise.
func New() *Logger {
	if isTerminal {
		return &Logger{sl: slog.New(withCallDepth(pkgCallDepth, newTerminalHandler()))}
	}
	return &Logger{sl: slog.New(withCallDepth(pkgCallDepth, newTextHandler()))}
}

// With returns a Logger that includes the given attributes in each output.
func (l *Logger) With(args ...any) *Logger {
	if l == nil || l.sl == nil {
		return &Logger{sl: base.sl.With(args...)}
	}
	return &Logger{sl: l.sl.With(args...)}
}

func (l *Logger) Error(a ...any)   { l.log(slog.LevelError, fmt.Sprint(a...)) }
func (l *Logger) Warning(a ...any) { l.log(slog.LevelWarn, fmt.Sprint(a...)) }
func (l *Logger) Notice(a ...any)  { l.log(levelNotice, fmt.Sprint(a...)) }
func (l *Logger) Info(a ...any)    { l.log(slog.LevelInfo, fmt.Sprint(a...)) }
func (l *Logger) Debug(a ...any)   { l.log(slog.LevelDebug, fmt.Sprint(a...)) }

func (l *Logger) Errorf(format string, a ...any) {
	l.log(slog.LevelError, fmt.Sprintf(format, a...))
}

func (l *Logger) Warningf(format string, a ...any) {
	l.log(slog.LevelWarn, fmt.Sprintf(format, a...))
}

func (l *Logger) Noticef(format string, a ...any) {
	l.log(levelNotice, fmt.Sprintf(format, a...))
}

func (l *Logger) Infof(format string, a ...any) {
	l.log(slog.LevelInfo, fmt.Sprintf(format, a...))
}

func (l *Logger) Debugf(format string, a ...any) {
	l.log(slog.LevelDebug, fmt.Sprintf(format, a...))
}

func (l *Logger) log(level slog.Level, msg string) {
	if l == nil || l.sl == nil {
		base.sl.Log(nil, level, strings.TrimSpace(msg))
		return
	}
	l.sl.Log(nil, level, strings.TrimSpace(msg))
}
