package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultFile = "check-efy.log"
	rootName    = "check-efy"
	timeFormat  = "2006-01-02 15:04:05"

	threadFieldName = "thread"
	loggerFieldName = "logger"
	mainThread      = "main"
)

// ---- Config ----

type Config struct {
	// Level applies to the console sink.
	Level   string
	Console bool
	File    FileConfig
}

type FileConfig struct {
	Enabled bool
	Path    string
	// Verbose lowers the file threshold from warn to info.
	Verbose bool
}

// ---- Logger API ----

type Level = zerolog.Level

// Field mutates a zerolog event. Fields are applied in order.
type Field func(e *zerolog.Event)

func String(k, v string) Field  { return func(e *zerolog.Event) { e.Str(k, v) } }
func Int(k string, v int) Field { return func(e *zerolog.Event) { e.Int(k, v) } }
func Bool(k string, v bool) Field {
	return func(e *zerolog.Event) { e.Bool(k, v) }
}
func Float64(k string, v float64) Field {
	return func(e *zerolog.Event) { e.Float64(k, v) }
}
func Duration(k string, v time.Duration) Field {
	return func(e *zerolog.Event) { e.Dur(k, v) }
}
func Err(err error) Field {
	return func(e *zerolog.Event) {
		if err != nil {
			e.Err(err)
		}
	}
}

// Logger is a named structured logger. The zero value is a safe no-op logger.
type Logger struct {
	base    zerolog.Logger
	hasBase bool
	fields  []Field
}

func Nop() Logger {
	return Logger{base: zerolog.Nop(), hasBase: true}
}

// NewWriter builds a standalone logger writing formatted lines to w.
func NewWriter(w io.Writer, level string) Logger {
	zl := zerolog.New(newTextWriter(w, true)).
		Level(parseLevel(level, zerolog.InfoLevel)).
		With().Timestamp().Str(threadFieldName, mainThread).Str(loggerFieldName, rootName).
		Logger()
	return Logger{base: zl, hasBase: true}
}

func (l Logger) root() zerolog.Logger {
	if l.hasBase {
		return l.base
	}
	return zerolog.Nop()
}

// Named returns a logger whose logger name is "check-efy.<name>".
func (l Logger) Named(name string) Logger {
	cp := l
	cp.base = l.root().With().Str(loggerFieldName, rootName+"."+name).Logger()
	cp.hasBase = true
	return cp
}

func (l Logger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	cp := l
	cp.fields = append(append([]Field(nil), l.fields...), fields...)
	return cp
}

func (l Logger) Debug(msg string, fields ...Field) { l.log(zerolog.DebugLevel, msg, fields...) }
func (l Logger) Info(msg string, fields ...Field)  { l.log(zerolog.InfoLevel, msg, fields...) }
func (l Logger) Warn(msg string, fields ...Field)  { l.log(zerolog.WarnLevel, msg, fields...) }
func (l Logger) Error(msg string, fields ...Field) { l.log(zerolog.ErrorLevel, msg, fields...) }

func (l Logger) log(level zerolog.Level, msg string, fields ...Field) {
	zl := l.root()
	e := zl.WithLevel(level)
	if e == nil {
		return
	}

	for _, f := range l.fields {
		if f != nil {
			f(e)
		}
	}
	for _, f := range fields {
		if f != nil {
			f(e)
		}
	}

	e.Msg(msg)
}

// ---- Service (sinks) ----

// Service owns the log file handle. It is created once at process start.
type Service struct {
	file   *os.File
	logger Logger
}

// New opens the configured sinks and returns the Service and its root Logger.
// A log file that cannot be opened is reported on stderr and skipped.
func New(cfg Config, console, stderr io.Writer) (*Service, Logger) {
	zerolog.ErrorFieldName = "err"

	s := &Service{}

	consoleLevel := parseLevel(cfg.Level, zerolog.InfoLevel)
	fileLevel := zerolog.WarnLevel
	if cfg.File.Verbose {
		fileLevel = zerolog.InfoLevel
	}

	writers := make([]io.Writer, 0, 2)
	minLevel := zerolog.Disabled
	if cfg.Console {
		writers = append(writers, &levelFilter{w: newTextWriter(console, false), min: consoleLevel})
		minLevel = consoleLevel
	}
	if cfg.File.Enabled {
		path := strings.TrimSpace(cfg.File.Path)
		if path == "" {
			path = DefaultFile
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(stderr, "logx: failed opening log file %q: %v\n", path, err)
		} else {
			s.file = f
			writers = append(writers, &levelFilter{w: newTextWriter(zerolog.SyncWriter(f), true), min: fileLevel})
			if fileLevel < minLevel {
				minLevel = fileLevel
			}
		}
	}

	if len(writers) == 0 {
		s.logger = Nop()
		return s, s.logger
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(minLevel).
		With().Timestamp().Str(threadFieldName, mainThread).Str(loggerFieldName, rootName).
		Logger()
	s.logger = Logger{base: zl, hasBase: true}
	return s, s.logger
}

func (s *Service) Logger() Logger { return s.logger }

// FilePath returns the path of the open log file, or "" when file logging is off.
func (s *Service) FilePath() string {
	if s == nil || s.file == nil {
		return ""
	}
	return s.file.Name()
}

func (s *Service) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	f := s.file
	s.file = nil
	return f.Close()
}

func newTextWriter(w io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		TimeFormat: timeFormat,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			threadFieldName,
			loggerFieldName,
			zerolog.MessageFieldName,
		},
		FieldsExclude: []string{threadFieldName, loggerFieldName},
	}
}

// levelFilter drops events below min before they reach w.
type levelFilter struct {
	w   io.Writer
	min zerolog.Level
}

func (f *levelFilter) Write(p []byte) (int, error) {
	return f.WriteLevel(zerolog.InfoLevel, p)
}

func (f *levelFilter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < f.min {
		return len(p), nil
	}
	return f.w.Write(p)
}

func parseLevel(s string, def zerolog.Level) zerolog.Level {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return def
	}
}

// ValidLevel reports whether s names a supported level.
func ValidLevel(s string) bool {
	return parseLevel(s, zerolog.NoLevel) != zerolog.NoLevel
}
