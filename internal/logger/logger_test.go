package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithComponent(t *testing.T) {
	entry := WithComponent("facade")
	require.NotNil(t, entry)
	assert.Equal(t, "facade", entry.Data["component"])
}

func TestLoggerInit(t *testing.T) {
	require.NotNil(t, Logger)
	if os.Getenv("LOG_FILE") == "" {
		assert.Equal(t, os.Stdout, Logger.Out)
	}
}

func TestLoggerLevelFromEnv(t *testing.T) {
	origLevel := Logger.GetLevel()
	defer Logger.SetLevel(origLevel)

	tests := []struct {
		name          string
		envValue      string
		expectedLevel logrus.Level
	}{
		{"debug level", "debug", logrus.DebugLevel},
		{"warn level", "warn", logrus.WarnLevel},
		{"DEBUG uppercase", "DEBUG", logrus.DebugLevel},
		{"invalid level", "invalid", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger.SetLevel(logrus.InfoLevel)
			t.Setenv("LOG_LEVEL", tt.envValue)

			if parsed, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
				Logger.SetLevel(parsed)
			}

			assert.Equal(t, tt.expectedLevel, Logger.GetLevel())
		})
	}
}

func TestEnableFileOutput(t *testing.T) {
	origOut := Logger.Out
	defer Logger.SetOutput(origOut)

	path := filepath.Join(t.TempDir(), "storefront.log")
	closer := EnableFileOutput(path)
	defer closer.Close()

	WithComponent("test").Info("written to file")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "written to file")
	assert.Contains(t, string(content), "component=test")
}
