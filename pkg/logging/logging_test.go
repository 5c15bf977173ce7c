package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetupLoggerLevels(t *testing.T) {
	tests := []struct {
		verbosity int
		level     zerolog.Level
	}{
		{0, zerolog.WarnLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{3, zerolog.TraceLevel},
		{10, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		SetupLogger(tt.verbosity)
		assert.Equal(t, tt.level, zerolog.GlobalLevel(),
			"verbosity %d", tt.verbosity)
	}
}

func TestGetLogger(t *testing.T) {
	logger := GetLogger("template.compile")
	// Should not panic and should be usable
	logger.Debug().Str("pattern", "{job}/{entity}").Msg("test message")
}

func TestWithFields(t *testing.T) {
	logger := WithFields(map[string]interface{}{
		"job":  "SHOW",
		"keys": 3,
	})
	logger.Debug().Msg("test message")
}
