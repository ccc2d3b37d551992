// Package log wraps logrus so the rest of the engine logs through one
// configurable sink instead of writing to stderr directly.
package log

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// Fields aliases logrus.Fields.
type Fields = logrus.Fields

// Entry aliases logrus.Entry.
type Entry = logrus.Entry

// Logger is the interface the logging components (catalog,
// storage/badgerstore) log through. Components should accept a Logger
// rather than reach for the package-level Global().
type Logger interface {
	Debug(...interface{})
	Debugf(string, ...interface{})
	Info(...interface{})
	Infof(string, ...interface{})
	Warn(...interface{})
	Warnf(string, ...interface{})
	Error(...interface{})
	Errorf(string, ...interface{})

	WithField(key string, value interface{}) *Entry
	WithFields(Fields) *Entry
	WithContext(context.Context) Logger

	SetLevel(string) error
	SetOutput(io.Writer)
	SetJSONFormatter()
}

type logger struct {
	entry *logrus.Entry
}

// New creates a new, independent logger.
func New() Logger {
	l := logrus.New()
	return logger{entry: logrus.NewEntry(l)}
}

func (l logger) WithContext(ctx context.Context) Logger {
	return logger{l.entry.WithContext(ctx)}
}

func (l logger) Debug(args ...interface{})                 { l.entry.Debug(args...) }
func (l logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l logger) Info(args ...interface{})                  { l.entry.Info(args...) }
func (l logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l logger) Warn(args ...interface{})                  { l.entry.Warn(args...) }
func (l logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l logger) Error(args ...interface{})                 { l.entry.Error(args...) }
func (l logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

func (l logger) WithField(key string, value interface{}) *Entry {
	return l.entry.WithField(key, value)
}

func (l logger) WithFields(fields Fields) *Entry {
	return l.entry.WithFields(fields)
}

func (l logger) SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	l.entry.Logger.SetLevel(lvl)
	return nil
}

func (l logger) SetOutput(w io.Writer) { l.entry.Logger.SetOutput(w) }

func (l logger) SetJSONFormatter() { l.entry.Logger.SetFormatter(&logrus.JSONFormatter{}) }

var global = New()

// Global returns the process-wide default logger used by the CLI.
// Library code (storage, tree, catalog) should prefer an injected
// Logger; Global exists for cmd/ wiring and tests.
func Global() Logger {
	return global
}
