package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"recipehub/media-api/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("chatty"))
}

func TestNew_AppliesLevel(t *testing.T) {
	log := New(&config.Config{ServiceName: "media-api", Environment: "production", LogLevel: "error"})
	assert.Equal(t, zerolog.ErrorLevel, log.GetLevel())
}
