package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type Logger interface {
	Trace(format string, args ...any)
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

var LoggerEnabled = true

// Level orders messages by verbosity, TRACE being the most verbose.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFatal: "FATAL",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel accepts level names case-insensitively. WARNING is accepted as
// an alias of WARN.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		return LevelWarn, nil
	}
	for lvl, n := range levelNames {
		if n == name {
			return lvl, nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown logging level %q", s)
}

func (l *Level) UnmarshalText(text []byte) error {
	lvl, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = lvl
	return nil
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

type sink struct {
	out   *log.Logger
	level Level
}

type DefaultLogger struct {
	name    string
	mu      sync.Mutex
	console sink
	file    *sink
	closer  io.Closer
}

// Option configures a DefaultLogger built with NewLogger.
type Option func(*DefaultLogger) error

func WithConsoleLevel(level Level) Option {
	return func(d *DefaultLogger) error {
		d.console.level = level
		return nil
	}
}

func WithConsoleWriter(w io.Writer) Option {
	return func(d *DefaultLogger) error {
		d.console.out = log.New(w, "", log.LstdFlags)
		return nil
	}
}

// WithFileWriter adds a second sink filtered by its own level.
func WithFileWriter(w io.Writer, level Level) Option {
	return func(d *DefaultLogger) error {
		d.file = &sink{out: log.New(w, "", log.LstdFlags|log.Lmicroseconds), level: level}
		return nil
	}
}

// WithFile opens (appending) the log file at path, creating parent
// directories as needed. The file is closed by Close.
func WithFile(path string, level Level) Option {
	return func(d *DefaultLogger) error {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		d.closer = f
		return WithFileWriter(f, level)(d)
	}
}

func NewDefaultLogger(name string) *DefaultLogger {
	return &DefaultLogger{
		name:    name,
		console: sink{out: log.Default(), level: LevelInfo},
	}
}

func NewLogger(name string, opts ...Option) (*DefaultLogger, error) {
	d := NewDefaultLogger(name)
	for _, opt := range opts {
		if err := opt(d); err != nil {
			d.Close()
			return nil, err
		}
	}
	return d, nil
}

func (d *DefaultLogger) Name() string {
	return d.name
}

func (d *DefaultLogger) ConsoleLevel() Level {
	return d.console.level
}

// FileLevel returns the file sink level; ok is false without a file sink.
func (d *DefaultLogger) FileLevel() (Level, bool) {
	if d.file == nil {
		return 0, false
	}
	return d.file.level, true
}

func (d *DefaultLogger) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	d.file = nil
	return err
}

func (d *DefaultLogger) Trace(format string, args ...any) {
	d.log(LevelTrace, format, args...)
}

func (d *DefaultLogger) Debug(format string, args ...any) {
	d.log(LevelDebug, format, args...)
}

func (d *DefaultLogger) Info(format string, args ...any) {
	d.log(LevelInfo, format, args...)
}

func (d *DefaultLogger) Warn(format string, args ...any) {
	d.log(LevelWarn, format, args...)
}

func (d *DefaultLogger) Error(format string, args ...any) {
	d.log(LevelError, format, args...)
}

func (d *DefaultLogger) log(level Level, format string, args ...any) {
	if !LoggerEnabled {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	line := "[" + level.String() + "] " + d.name + " | " + format + "\n"
	if level >= d.console.level {
		d.console.out.Printf(line, args...)
	}
	if d.file != nil && level >= d.file.level {
		d.file.out.Printf(line, args...)
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) Trace(string, ...any) {}
func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}
