package logger

import (
	"io"
	"log"
	"os"
)

// Logger wraps standard log with a debug flag. Printf and Println only write
// in debug mode, Errorf and Fatalf always write.
type Logger struct {
	debug     bool
	component string
	*log.Logger
	errors *log.Logger
}

func New(debug bool) *Logger {
	return NewWithWriter(debug, os.Stderr)
}

func NewWithWriter(debug bool, writer io.Writer) *Logger {
	debugWriter := io.Discard
	if debug {
		debugWriter = writer
	}
	return &Logger{
		debug:  debug,
		Logger: log.New(debugWriter, "", log.LstdFlags),
		errors: log.New(writer, "", log.LstdFlags),
	}
}

// Discard drops every line, for tests and library defaults.
func Discard() *Logger {
	return NewWithWriter(false, io.Discard)
}

// WithComponent returns a logger whose lines start with |component|.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		debug:     l.debug,
		component: component,
		Logger:    l.Logger,
		errors:    l.errors,
	}
}

func (l *Logger) Debug() bool {
	return l.debug
}

func (l *Logger) prefix(format string) string {
	if l.component == "" {
		return format
	}
	return "|" + l.component + "| " + format
}

func (l *Logger) Printf(format string, v ...interface{}) {
	if l.debug {
		l.Logger.Printf(l.prefix(format), v...)
	}
}

func (l *Logger) Println(v ...interface{}) {
	if l.debug {
		if l.component != "" {
			v = append([]interface{}{"|" + l.component + "|"}, v...)
		}
		l.Logger.Println(v...)
	}
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.errors.Printf(l.prefix(format), v...)
}

func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.errors.Fatalf(l.prefix(format), v...)
}
