package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// SetupLogging builds the service logger. An unknown level falls back to info.
func SetupLogging(level string) *logrus.Logger {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	logger := logrus.Logger{
		Formatter: &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "loglevel",
			},
		},
		Out:   os.Stdout,
		Hooks: make(logrus.LevelHooks),
		Level: lvl,
	}

	return &logger
}
