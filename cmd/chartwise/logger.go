package main

import (
	"io"

	"github.com/raykavin/chartwise/internal/config"
	"github.com/raykavin/chartwise/pkg/logger"
	"github.com/raykavin/chartwise/pkg/logger/logrus"
	"github.com/raykavin/chartwise/pkg/logger/zerolog"
)

// newLogger builds the configured logging backend
func newLogger(out io.Writer, c config.LogConfig) (logger.Logger, error) {
	if c.Backend == "logrus" {
		adapter, err := logrus.New(out, c.Level, c.JSON)
		if err != nil {
			return nil, err
		}
		return adapter, nil
	}

	base, err := zerolog.New(out, zerolog.Options{
		Level:      c.Level,
		TimeFormat: c.TimeFormat,
		Colored:    c.Color,
		JSON:       c.JSON,
	})
	if err != nil {
		return nil, err
	}
	return zerolog.NewAdapter(base), nil
}
