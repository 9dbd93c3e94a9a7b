package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Level represents the logging level.
type Level int

const (
	// LevelDebug is the most verbose level.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel parses a string into a Level. Unknown names yield LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Format represents the log output format.
type Format int

const (
	// FormatText outputs logs as "ts [level] msg key=value ...".
	FormatText Format = iota
	// FormatJSON outputs one JSON object per line.
	FormatJSON
)

// ParseFormat parses a string into a Format.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, "json") {
		return FormatJSON
	}
	return FormatText
}

// Logger is the interface for structured logging.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keysAndValues ...interface{})
	// Info logs an info message with optional key-value pairs.
	Info(msg string, keysAndValues ...interface{})
	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keysAndValues ...interface{})
	// Error logs an error message with optional key-value pairs.
	Error(msg string, keysAndValues ...interface{})
	// Enabled reports whether messages at level are written.
	Enabled(level Level) bool
	// WithSession returns a new logger tagged with a tap session ID.
	WithSession(sessionID string) Logger
	// WithFields returns a new logger with the given fields.
	WithFields(keysAndValues ...interface{}) Logger
}

// Config holds the logger configuration.
type Config struct {
	Level  string
	Format string
	// Output is "stdout", "stderr" or a file path opened for append.
	Output string
}

type logger struct {
	level   Level
	format  Format
	out     *output
	fields  map[string]interface{}
	session string
}

// output is shared by a logger and every logger derived from it so that
// concurrent writers never interleave lines.
type output struct {
	mu sync.Mutex
	w  io.Writer
}

// New creates a Logger from cfg. The returned closer releases the log file
// when Output names one and is a no-op otherwise.
func New(cfg Config) (Logger, io.Closer, error) {
	switch cfg.Output {
	case "", "stderr":
		return NewWithWriter(cfg, os.Stderr), nopCloser{}, nil
	case "stdout":
		return NewWithWriter(cfg, os.Stdout), nopCloser{}, nil
	}

	f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log output: %w", err)
	}
	return NewWithWriter(cfg, f), f, nil
}

// NewWithWriter creates a Logger writing to w.
func NewWithWriter(cfg Config, w io.Writer) Logger {
	return &logger{
		level:  ParseLevel(cfg.Level),
		format: ParseFormat(cfg.Format),
		out:    &output{w: w},
		fields: make(map[string]interface{}),
	}
}

// NewDefault creates an info level text logger on stderr.
func NewDefault() Logger {
	return NewWithWriter(Config{}, os.Stderr)
}

// NewNop creates a no-op logger that discards all output.
func NewNop() Logger {
	return nopLogger{}
}

func (l *logger) Debug(msg string, keysAndValues ...interface{}) {
	l.log(LevelDebug, msg, keysAndValues)
}

func (l *logger) Info(msg string, keysAndValues ...interface{}) {
	l.log(LevelInfo, msg, keysAndValues)
}

func (l *logger) Warn(msg string, keysAndValues ...interface{}) {
	l.log(LevelWarn, msg, keysAndValues)
}

func (l *logger) Error(msg string, keysAndValues ...interface{}) {
	l.log(LevelError, msg, keysAndValues)
}

func (l *logger) Enabled(level Level) bool {
	return level >= l.level
}

func (l *logger) WithSession(sessionID string) Logger {
	child := l.clone()
	child.session = sessionID
	return child
}

func (l *logger) WithFields(keysAndValues ...interface{}) Logger {
	child := l.clone()
	addPairs(child.fields, keysAndValues)
	return child
}

func (l *logger) clone() *logger {
	fields := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return &logger{
		level:   l.level,
		format:  l.format,
		out:     l.out,
		fields:  fields,
		session: l.session,
	}
}

// addPairs copies alternating key/value arguments into m. Non-string keys
// and a trailing key without a value are dropped.
func addPairs(m map[string]interface{}, keysAndValues []interface{}) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		v := keysAndValues[i+1]
		if err, ok := v.(error); ok && err != nil {
			v = err.Error()
		}
		m[key] = v
	}
}

func (l *logger) log(level Level, msg string, keysAndValues []interface{}) {
	if !l.Enabled(level) {
		return
	}

	ts := time.Now().UTC().Format(time.RFC3339)
	fields := make(map[string]interface{}, len(l.fields)+len(keysAndValues)/2)
	for k, v := range l.fields {
		fields[k] = v
	}
	addPairs(fields, keysAndValues)

	var line string
	if l.format == FormatJSON {
		line = l.formatJSON(ts, level, msg, fields)
	} else {
		line = l.formatText(ts, level, msg, fields)
	}

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	fmt.Fprintln(l.out.w, line)
}

func (l *logger) formatJSON(ts string, level Level, msg string, fields map[string]interface{}) string {
	entry := make(map[string]interface{}, len(fields)+4)
	for k, v := range fields {
		entry[k] = v
	}
	entry["ts"] = ts
	entry["level"] = level.String()
	entry["msg"] = msg
	if l.session != "" {
		entry["session"] = l.session
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Sprintf(`{"ts":%q,"level":"error","msg":"failed to marshal log entry"}`, ts)
	}
	return string(data)
}

func (l *logger) formatText(ts string, level Level, msg string, fields map[string]interface{}) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s] %s", ts, level, msg)
	if l.session != "" {
		sb.WriteString(" session=")
		sb.WriteString(l.session)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		s := fmt.Sprint(fields[k])
		if s == "" || strings.ContainsAny(s, " \t\n\"=") {
			s = strconv.Quote(s)
		}
		fmt.Fprintf(&sb, " %s=%s", k, s)
	}
	return sb.String()
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{})       {}
func (nopLogger) Info(string, ...interface{})        {}
func (nopLogger) Warn(string, ...interface{})        {}
func (nopLogger) Error(string, ...interface{})       {}
func (nopLogger) Enabled(Level) bool                 { return false }
func (n nopLogger) WithSession(string) Logger        { return n }
func (n nopLogger) WithFields(...interface{}) Logger { return n }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
