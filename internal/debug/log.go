package debug

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	// l is the private global debug logger (use GetLogger() to access)
	l    logrus.FieldLogger = discard()
	once sync.Once
)

func discard() logrus.FieldLogger {
	lg := logrus.New()
	lg.SetOutput(io.Discard)
	return lg
}

// GetLogger returns the configured debug logger.
// Always use this function to access the logger instead of storing a reference.
func GetLogger() logrus.FieldLogger {
	return l
}

// InitLogger attaches the debug logger to base when debug mode is enabled.
// Uses sync.Once so concurrent callers initialize it only once. Call this
// after Init so Active.Enabled is set.
func InitLogger(base *logrus.Logger) {
	once.Do(func() {
		if Active.Enabled && base != nil {
			l = base.WithField("component", "debug")
			l.Debug("debug logging enabled")
		}
	})
}
