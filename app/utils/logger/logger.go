// Package logger exposes a process-wide structured logger, matching the
// `logger.GetLogger()` call sites used throughout the domain and
// interfaces layers.
package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	once     sync.Once
	instance *logrus.Logger
)

// GetLogger returns the shared logrus logger, initializing it on first use.
func GetLogger() *logrus.Logger {
	once.Do(func() {
		instance = logrus.New()
		instance.SetOutput(os.Stdout)
		instance.SetFormatter(&logrus.JSONFormatter{})
		instance.SetLevel(levelFromEnv())
	})
	return instance
}

func levelFromEnv() logrus.Level {
	if lvl, err := logrus.ParseLevel(os.Getenv("SCHOLARFED_LOG_LEVEL")); err == nil {
		return lvl
	}
	return logrus.InfoLevel
}
