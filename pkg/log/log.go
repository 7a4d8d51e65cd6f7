// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	countWidth  = 15 // Width for replacement count
	statusWidth = 15 // Width for status text
)

// 🎯 FileOperation represents the outcome of touching one file
type FileOperation struct {
	Path         string // File path
	Status       string // Operation status
	IsModified   bool   // Whether the file was rewritten
	IsRemoved    bool   // Whether the file was removed
	Failed       bool   // Whether the operation failed
	Replacements int    // Number of replacements made
}

// ⚙️ Options configures InitLogging
type Options struct {
	Level   zerolog.Level // Minimum level for structured logs
	Console io.Writer     // Human readable output, io.Discard if nil
	NoColor bool          // Disable ANSI colors on the console
	Stderr  io.Writer     // Optional second sink for structured logs, in zerolog console format
}

// 🎯 Logger is an explicitly created logging context. Nothing here touches
// process-wide state; pass the Logger (or a context carrying it) to callers.
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	file    *os.File
	noColor bool
	mu      sync.Mutex
}

// 🏭 InitLogging creates a logger appending JSON lines to logPath. The parent
// directory is created if needed. With an empty logPath and no Stderr sink,
// only the human readable console output is produced.
func InitLogging(logPath string, opts Options) (*Logger, error) {
	console := opts.Console
	if console == nil {
		console = io.Discard
	}

	l := &Logger{
		console: console,
		noColor: opts.NoColor,
	}

	var sinks []io.Writer
	if opts.Stderr != nil {
		sinks = append(sinks, zerolog.ConsoleWriter{Out: opts.Stderr, NoColor: opts.NoColor})
	}

	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return nil, errors.Errorf("creating log directory: %w", err)
		}

		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errors.Errorf("opening log file: %w", err)
		}
		l.file = f
		sinks = append(sinks, f)
	}

	switch len(sinks) {
	case 0:
		l.zlog = zerolog.Nop()
	case 1:
		l.zlog = zerolog.New(sinks[0]).With().Timestamp().Logger().Level(opts.Level)
	default:
		l.zlog = zerolog.New(zerolog.MultiLevelWriter(sinks...)).With().Timestamp().Logger().Level(opts.Level)
	}
	return l, nil
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	if err != nil {
		return errors.Errorf("closing log file: %w", err)
	}
	return nil
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 🎯 WithContext adds the logger and its zerolog logger to context, so that
// zerolog.Ctx works in library code.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return NewContext(l.zlog.WithContext(ctx), l)
}

// 🛟 Recover runs fn and turns a panic into a logged error instead of
// crashing the process.
func (l *Logger) Recover(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
			l.zlog.Error().
				Str("panic", fmt.Sprint(r)).
				Bytes("stack", debug.Stack()).
				Msg("recovered from panic")
		}
	}()
	return fn(ctx)
}

func (l *Logger) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if l.noColor {
		c.DisableColor()
	}
	return c
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.Failed:
		symbol = '!'
		symbolColor = color.FgRed
	case op.IsRemoved:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.IsModified:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	count := ""
	if !op.IsRemoved {
		count = fmt.Sprintf("%d replaced", op.Replacements)
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		l.paint(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		l.paint(color.FgCyan).Sprint(fmt.Sprintf("%-*s", countWidth, count)),
		fmt.Sprintf("%-*s", statusWidth, op.Status))
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	ev := l.zlog.Info()
	if op.Failed {
		ev = l.zlog.Error()
	}
	ev.Str("file", op.Path).
		Str("status", op.Status).
		Bool("is_modified", op.IsModified).
		Bool("is_removed", op.IsRemoved).
		Int("replacements", op.Replacements).
		Msg("file operation")
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := l.paint(color.Bold, color.FgCyan).Sprint("futil")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, l.paint(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", l.paint(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", l.paint(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", l.paint(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", l.paint(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
