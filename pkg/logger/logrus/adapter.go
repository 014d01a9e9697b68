// Package logrus adapts sirupsen/logrus to logger.Logger
package logrus

import (
	"io"

	"github.com/raykavin/chartwise/pkg/logger"
	"github.com/sirupsen/logrus"
)

type LogrusAdapter struct {
	*logrus.Entry
}

func NewAdapter(entry *logrus.Entry) *LogrusAdapter {
	return &LogrusAdapter{entry}
}

// New builds a logrus logger writing to out with the text or JSON formatter
func New(out io.Writer, level string, json bool) (*LogrusAdapter, error) {
	base := logrus.New()
	base.SetOutput(out)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	base.SetLevel(parsed)

	if json {
		base.SetFormatter(&logrus.JSONFormatter{})
	} else {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return &LogrusAdapter{logrus.NewEntry(base)}, nil
}

// WithField implements logger.Logger.
func (l *LogrusAdapter) WithField(key string, value any) logger.Logger {
	return &LogrusAdapter{l.Entry.WithField(key, value)}
}

// WithFields implements logger.Logger.
func (l *LogrusAdapter) WithFields(fields map[string]any) logger.Logger {
	return &LogrusAdapter{l.Entry.WithFields(logrus.Fields(fields))}
}

// WithError implements logger.Logger.
func (l *LogrusAdapter) WithError(err error) logger.Logger {
	return &LogrusAdapter{l.Entry.WithError(err)}
}

// SetLevel implements logger.Logger.
func (l *LogrusAdapter) SetLevel(level logger.Level) {
	switch level {
	case logger.Disabled:
		l.Entry.Logger.SetOutput(io.Discard)
	case logger.DebugLevel:
		l.Entry.Logger.SetLevel(logrus.DebugLevel)
	case logger.WarnLevel:
		l.Entry.Logger.SetLevel(logrus.WarnLevel)
	case logger.ErrorLevel:
		l.Entry.Logger.SetLevel(logrus.ErrorLevel)
	default:
		l.Entry.Logger.SetLevel(logrus.InfoLevel)
	}
}

// GetLevel implements logger.Logger.
func (l *LogrusAdapter) GetLevel() logger.Level {
	switch l.Entry.Logger.GetLevel() {
	case logrus.TraceLevel, logrus.DebugLevel:
		return logger.DebugLevel
	case logrus.InfoLevel:
		return logger.InfoLevel
	case logrus.WarnLevel:
		return logger.WarnLevel
	default:
		return logger.ErrorLevel
	}
}
