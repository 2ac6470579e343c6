// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options selects level, format and destination.
type Options struct {
	Level  string
	Format string // "text" or "json"
	Output io.Writer
	Debug  bool
	Caller bool
}

// New returns a configured logger. An unknown level or format is an error.
func New(opts Options) (*logrus.Logger, error) {
	lg := logrus.New()
	if opts.Output != nil {
		lg.SetOutput(opts.Output)
	}

	level := opts.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if opts.Debug && lvl < logrus.DebugLevel {
		lvl = logrus.DebugLevel
	}
	lg.SetLevel(lvl)
	lg.SetReportCaller(opts.Caller)

	switch strings.ToLower(opts.Format) {
	case "", "text":
		lg.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		lg.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("log format %q: want text or json", opts.Format)
	}
	return lg, nil
}

// Discard returns a logger that drops everything. Components use it when
// none is configured.
func Discard() *logrus.Logger {
	lg := logrus.New()
	lg.SetOutput(io.Discard)
	return lg
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l logrus.FieldLogger) logrus.FieldLogger {
	if l == nil {
		return Discard()
	}
	return l
}
