package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// SetupLogging builds the application logger. Logs go to stderr so the
// report on stdout stays clean.
func SetupLogging(level, format string) *logrus.Logger {
	return SetupLoggingWithWriter(os.Stderr, level, format)
}

// SetupLoggingWithWriter is SetupLogging with a custom output.
func SetupLoggingWithWriter(out io.Writer, level, format string) *logrus.Logger {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}

	var formatter logrus.Formatter = &logrus.TextFormatter{
		DisableTimestamp: true,
	}
	if strings.EqualFold(format, "json") {
		formatter = &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "loglevel",
			},
		}
	}

	logger := logrus.Logger{
		Formatter: formatter,
		Out:       out,
		Hooks:     make(logrus.LevelHooks),
		Level:     lvl,
	}

	return &logger
}

// Discard returns a logger that writes nowhere. Used as the default for
// components constructed without one.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
