package logger

import (
	"fmt"
	"io"
	"log"
	"sync"
)

const (
	levelInfo  = "INFO"
	levelWarn  = "WARN"
	levelError = "ERROR"
)

type BaseLogger struct {
	mu      sync.Mutex
	prefix  string
	writer  io.Writer
	console bool
}

// NewLogger пишет в writer и дублирует каждое сообщение в стандартный log.
func NewLogger(writer io.Writer, prefix string) *BaseLogger {
	return &BaseLogger{
		writer:  writer,
		prefix:  prefix,
		console: true,
	}
}

// NewSilentLogger пишет только в writer. Используется в тестах и в CLI без --verbose.
func NewSilentLogger(writer io.Writer, prefix string) *BaseLogger {
	return &BaseLogger{writer: writer, prefix: prefix}
}

func (l *BaseLogger) Log(format string, v ...interface{}) {
	l.write(levelInfo, format, v...)
}

func (l *BaseLogger) Warn(format string, v ...interface{}) {
	l.write(levelWarn, format, v...)
}

func (l *BaseLogger) Error(format string, v ...interface{}) {
	l.write(levelError, format, v...)
}

func (l *BaseLogger) write(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	message := fmt.Sprintf("%s %s %s", level, l.prefix, fmt.Sprintf(format, v...))
	if l.writer != nil {
		fmt.Fprintln(l.writer, message)
	}
	if l.console {
		log.Print(message)
	}
}

func (l *BaseLogger) WithPrefix(extraPrefix string) *BaseLogger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &BaseLogger{
		writer:  l.writer,
		prefix:  l.prefix + " " + extraPrefix,
		console: l.console,
	}
}

func (l *BaseLogger) SetPrefix(prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prefix = prefix
}

func (l *BaseLogger) SetWriter(writer io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = writer
}
