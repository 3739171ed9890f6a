package avshim

import (
	"os"

	"github.com/sirupsen/logrus"
)

// logger is used for every log line the package emits.
var logger = defaultLogger()

// defaultLogger returns the logrus standard logger, or a logger of the
// package's own when AVSHIM_LOG_LEVEL is set, so the level override never
// touches the host's logging.
func defaultLogger() *logrus.Logger {
	lvl := os.Getenv("AVSHIM_LOG_LEVEL")
	if lvl == "" {
		return logrus.StandardLogger()
	}
	parsed, err := logrus.ParseLevel(lvl)
	if err != nil {
		return logrus.StandardLogger()
	}
	std := logrus.StandardLogger()
	l := logrus.New()
	l.SetOutput(std.Out)
	l.SetFormatter(std.Formatter)
	l.SetLevel(parsed)
	return l
}

// SetLogger replaces the package logger. A nil logger restores the logrus
// standard logger. Fatal entries go through the logger's ExitFunc.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	logger = l
}
