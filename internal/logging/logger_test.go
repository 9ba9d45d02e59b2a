package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{name: "nil config uses defaults", config: nil},
		{name: "explicit debug level", config: &Config{Level: LevelDebug, Output: &bytes.Buffer{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.config)
			require.NotNil(t, logger)
		})
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelWarn, Output: &buf})

	logger.Debug("should not appear")
	logger.Info("should not appear either")
	assert.Empty(t, buf.String())

	logger.Warn("warning", "key", "value")
	assert.Contains(t, buf.String(), "[WARN] warning key=value")

	buf.Reset()
	logger.Error("boom")
	assert.Contains(t, buf.String(), "[ERROR] boom")
}

func TestDefaultReturnsSingleton(t *testing.T) {
	SetDefault(NewLogger(nil))
	a := Default()
	b := Default()
	assert.Same(t, a, b)
}
