// Package logging is the process-wide structured logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Field keys shared by repository log records.
const (
	// BranchFieldKey branch name (string)
	BranchFieldKey = "branch"
	// CommitFieldKey commit id (string)
	CommitFieldKey = "commit"
	// PathFieldKey working-tree path (string)
	PathFieldKey = "path"
	// OperationFieldKey repository operation (string, ex: merge)
	OperationFieldKey = "op"
)

var defaultLogger = newLogrus()

func newLogrus() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	return l
}

type Fields map[string]interface{}

// Level returns the current default level name.
func Level() string {
	return defaultLogger.GetLevel().String()
}

func SetLevel(level string) error {
	switch strings.ToLower(level) {
	case "trace":
		defaultLogger.SetLevel(logrus.TraceLevel)
	case "debug":
		defaultLogger.SetLevel(logrus.DebugLevel)
	case "info":
		defaultLogger.SetLevel(logrus.InfoLevel)
	case "warn", "warning":
		defaultLogger.SetLevel(logrus.WarnLevel)
	case "error":
		defaultLogger.SetLevel(logrus.ErrorLevel)
	case "null", "none":
		defaultLogger.SetLevel(logrus.PanicLevel)
		defaultLogger.SetOutput(io.Discard)
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	return nil
}

// SetOutputs directs log records to every output: "-" is stdout, "=" is
// stderr, anything else is a size-rotated file.
func SetOutputs(outputs []string, fileMaxSizeMB, filesKeep int) error {
	var writers []io.Writer
	for _, output := range outputs {
		var w io.Writer
		switch output {
		case "":
			continue
		case "-":
			w = os.Stdout
		case "=":
			w = os.Stderr
		default:
			w = &lumberjack.Logger{
				Filename:   output,
				MaxSize:    fileMaxSizeMB,
				MaxBackups: filesKeep,
			}
		}
		writers = append(writers, w)
	}
	if len(writers) == 1 {
		defaultLogger.SetOutput(writers[0])
	} else if len(writers) > 1 {
		defaultLogger.SetOutput(io.MultiWriter(writers...))
	}
	return nil
}

func SetOutputFormat(format string) error {
	formatter, err := newFormatter(format)
	if err != nil {
		return err
	}
	defaultLogger.SetFormatter(formatter)
	return nil
}

func newFormatter(format string) (logrus.Formatter, error) {
	switch strings.ToLower(format) {
	case "text":
		return &logrus.TextFormatter{
			FullTimestamp:          true,
			DisableLevelTruncation: true,
			PadLevelText:           true,
			QuoteEmptyFields:       true,
		}, nil
	case "json":
		return &logrus.JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

type Logger interface {
	WithField(key string, value interface{}) Logger
	WithFields(fields Fields) Logger
	WithError(err error) Logger
	Debug(args ...interface{})
	Info(args ...interface{})
	Error(args ...interface{})
}

type logrusEntryWrapper struct {
	e *logrus.Entry
}

func (l *logrusEntryWrapper) WithField(key string, value interface{}) Logger {
	return &logrusEntryWrapper{l.e.WithField(key, value)}
}

func (l *logrusEntryWrapper) WithFields(fields Fields) Logger {
	return &logrusEntryWrapper{l.e.WithFields(logrus.Fields(fields))}
}

func (l *logrusEntryWrapper) WithError(err error) Logger {
	return &logrusEntryWrapper{l.e.WithError(err)}
}

func (l logrusEntryWrapper) Debug(args ...interface{}) {
	l.e.Debug(args...)
}

func (l logrusEntryWrapper) Info(args ...interface{}) {
	l.e.Info(args...)
}

func (l logrusEntryWrapper) Error(args ...interface{}) {
	l.e.Error(args...)
}

// Default returns a logger writing through the process-wide settings.
func Default() Logger {
	return &logrusEntryWrapper{e: logrus.NewEntry(defaultLogger)}
}

// New returns an independent logger writing JSON records at level to out.
func New(out io.Writer, level string) (Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.JSONFormatter{})
	return &logrusEntryWrapper{e: logrus.NewEntry(l)}, nil
}

// Discard returns a logger that drops every record.
func Discard() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return &logrusEntryWrapper{e: logrus.NewEntry(l)}
}
