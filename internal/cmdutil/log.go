// internal/cmdutil/log.go
package cmdutil

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logger bound to dst. quiet keeps only errors;
// verbose enables debug output.
func NewLogger(dst io.Writer, quiet, verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(dst)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	switch {
	case quiet:
		l.SetLevel(logrus.ErrorLevel)
	case verbose:
		l.SetLevel(logrus.DebugLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}

// Warnf logs a warning unless the logger is nil.
func Warnf(log logrus.FieldLogger, format string, a ...any) {
	if log == nil {
		return
	}
	log.Warnf(format, a...)
}
