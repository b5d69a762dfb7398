package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger provides simple leveled logging controls on top of logrus. Info and
// verbose output go to one sink and errors to another.
type Logger struct {
	info *logrus.Logger
	err  *logrus.Logger
}

// messageFormatter writes the bare message, one line per entry.
type messageFormatter struct{}

func (messageFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return append([]byte(entry.Message), '\n'), nil
}

// New creates a new logger.
func New(quiet, verbose bool) *Logger {
	return NewWithWriters(quiet, verbose, os.Stdout, os.Stderr)
}

// NewWithWriters creates a logger that writes info/verbose and error output to custom sinks.
func NewWithWriters(quiet, verbose bool, infoWriter, errorWriter io.Writer) *Logger {
	if infoWriter == nil {
		infoWriter = io.Discard
	}
	if errorWriter == nil {
		errorWriter = io.Discard
	}

	infoLevel := logrus.InfoLevel
	errLevel := logrus.ErrorLevel
	switch {
	case quiet:
		infoLevel = logrus.PanicLevel
		errLevel = logrus.PanicLevel
	case verbose:
		infoLevel = logrus.DebugLevel
	}

	return &Logger{
		info: newLogrus(infoWriter, infoLevel),
		err:  newLogrus(errorWriter, errLevel),
	}
}

func newLogrus(w io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(messageFormatter{})
	l.SetLevel(level)
	return l
}

// Infof logs a standard informational message.
func (l *Logger) Infof(format string, args ...any) {
	l.info.Infof(format, args...)
}

// Verbosef logs details that should only appear in verbose mode.
func (l *Logger) Verbosef(format string, args ...any) {
	l.info.Debugf(format, args...)
}

// Errorf logs errors to the error sink.
func (l *Logger) Errorf(format string, args ...any) {
	l.err.Errorf(format, args...)
}

// Verbose reports whether verbose messages are written.
func (l *Logger) Verbose() bool {
	return l.info.IsLevelEnabled(logrus.DebugLevel)
}
