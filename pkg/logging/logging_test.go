package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")

	f, logger, err := FileLogger(logrus.InfoLevel, path)
	require.NoError(t, err)
	defer f.Close()

	logger.Info("pipeline starting")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "pipeline starting")
}

func TestConsoleLoggerLevel(t *testing.T) {
	logger := ConsoleLogger(logrus.WarnLevel)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
}
