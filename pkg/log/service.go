package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mwantia/joinpractice/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerService interface {
	Debug(msg string, args ...any)

	Info(msg string, args ...any)

	Warn(msg string, args ...any)

	Error(msg string, args ...any)

	Fatal(msg string, args ...any)

	Named(name string) LoggerService
}

// LoggerServiceImpl writes printf-style entries as text or JSON lines. Named
// loggers share the sink of their parent.
type LoggerServiceImpl struct {
	cfg   config.LogConfig
	name  string
	level LogLevel
	sink  *sink
}

// sink serializes writes of every logger derived from the same root
type sink struct {
	mutex  sync.Mutex
	writer io.Writer
	file   *lumberjack.Logger
	color  bool
	exit   func(code int)
}

type logEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Service   string `json:"service,omitempty"`
	Message   string `json:"message"`
}

func NewLoggerService(name string, cfg config.LogConfig) LoggerService {
	s := &sink{exit: os.Exit}

	var writers []io.Writer
	// Logs go to stderr so stdout stays machine readable
	if !cfg.NoTerminal {
		writers = append(writers, os.Stderr)
		s.color = !cfg.NoColor
	}
	if cfg.File != "" {
		s.file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.Rotation.MaxSize,
			MaxBackups: cfg.Rotation.MaxBackups,
			MaxAge:     cfg.Rotation.MaxAge,
			Compress:   cfg.Rotation.Compress,
		}
		writers = append(writers, s.file)
		// Escape sequences would end up in the file
		s.color = false
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}
	s.writer = io.MultiWriter(writers...)

	return newLogger(name, cfg, s)
}

// NewLoggerServiceWithWriter skips terminal and file setup and writes every
// entry to w without colors.
func NewLoggerServiceWithWriter(name string, cfg config.LogConfig, w io.Writer) LoggerService {
	cfg.NoTerminal = true
	return newLogger(name, cfg, &sink{writer: w, exit: os.Exit})
}

func newLogger(name string, cfg config.LogConfig, s *sink) *LoggerServiceImpl {
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = time.RFC3339
	}

	return &LoggerServiceImpl{
		cfg:   cfg,
		name:  name,
		level: Parse(cfg.Level),
		sink:  s,
	}
}

func (impl *LoggerServiceImpl) log(level LogLevel, msg string, args ...any) {
	if level < impl.level {
		return
	}

	entry := logEntry{
		Timestamp: time.Now().Format(impl.cfg.TimeFormat),
		Level:     level.String(),
		Service:   impl.name,
		Message:   fmt.Sprintf(msg, args...),
	}

	var line []byte
	if impl.cfg.JSON {
		line = formatJSON(entry)
	} else {
		line = formatText(level, entry, impl.sink.color)
	}

	impl.sink.mutex.Lock()
	impl.sink.writer.Write(line)
	impl.sink.mutex.Unlock()

	if level == Fatal {
		impl.sink.exit(1)
	}
}

func formatJSON(entry logEntry) []byte {
	data, err := json.Marshal(entry)
	if err != nil {
		data = []byte(fmt.Sprintf(`{"level":"ERROR","message":%q}`, err.Error()))
	}
	return append(data, '\n')
}

func formatText(level LogLevel, entry logEntry, color bool) []byte {
	var buf bytes.Buffer
	if color {
		buf.WriteString(Color(level))
	}

	fmt.Fprintf(&buf, "[%s] %-5s", entry.Timestamp, entry.Level)
	if entry.Service != "" {
		fmt.Fprintf(&buf, " [%s]", entry.Service)
	}
	buf.WriteByte(' ')
	buf.WriteString(entry.Message)

	if color {
		buf.WriteString("\033[0m")
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

func (impl *LoggerServiceImpl) Debug(msg string, args ...any) {
	impl.log(Debug, msg, args...)
}

func (impl *LoggerServiceImpl) Info(msg string, args ...any) {
	impl.log(Info, msg, args...)
}

func (impl *LoggerServiceImpl) Warn(msg string, args ...any) {
	impl.log(Warn, msg, args...)
}

func (impl *LoggerServiceImpl) Error(msg string, args ...any) {
	impl.log(Error, msg, args...)
}

// Fatal logs and terminates the process
func (impl *LoggerServiceImpl) Fatal(msg string, args ...any) {
	impl.log(Fatal, msg, args...)
}

func (impl *LoggerServiceImpl) Named(name string) LoggerService {
	named := name
	if impl.name != "" {
		named = impl.name + "/" + name
	}

	return &LoggerServiceImpl{
		cfg:   impl.cfg,
		name:  named,
		level: impl.level,
		sink:  impl.sink,
	}
}

// Close releases the rotated log file, if any
func (impl *LoggerServiceImpl) Close() error {
	if impl.sink.file == nil {
		return nil
	}
	return impl.sink.file.Close()
}
