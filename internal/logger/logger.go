package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger *logrus.Logger

func init() {
	Logger = logrus.New()
	Logger.SetOutput(os.Stdout)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Default level
	Logger.SetLevel(logrus.InfoLevel)

	// Override from env, e.g., LOG_LEVEL=debug
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		if parsedLevel, err := logrus.ParseLevel(strings.ToLower(level)); err == nil {
			Logger.SetLevel(parsedLevel)
		}
	}

	if file := os.Getenv("LOG_FILE"); file != "" {
		EnableFileOutput(file)
	}
}

// EnableFileOutput tees log output to a size-rotated file next to stdout.
func EnableFileOutput(filename string) io.Closer {
	rotating := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    32,
		MaxBackups: 5,
		MaxAge:     14,
	}
	Logger.SetOutput(io.MultiWriter(os.Stdout, rotating))
	return rotating
}

// WithComponent adds a component field to the logger
func WithComponent(component string) *logrus.Entry {
	return Logger.WithField("component", component)
}
