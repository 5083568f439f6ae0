package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupFile_WritesJSONAtLevel(t *testing.T) {
	saved, savedLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = saved
		zerolog.SetGlobalLevel(savedLevel)
	})

	path := filepath.Join(t.TempDir(), "logs", "tradetutor.log")
	closer, err := SetupFile(path, "warn")
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Str("component", "test").Msg("visible")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), `"component":"test"`)
	assert.Contains(t, string(data), `"message":"visible"`)
}

func TestSetup_UnknownLevelFallsBackToInfo(t *testing.T) {
	saved, savedLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = saved
		zerolog.SetGlobalLevel(savedLevel)
	})

	Setup("chatty", true)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	Setup("debug", true)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestSetLevel_ReachesCopiedLoggers(t *testing.T) {
	saved := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(saved) })

	var buf bytes.Buffer
	SetLevel("info")
	copied := zerolog.New(&buf)

	copied.Debug().Msg("before")
	assert.Empty(t, buf.String())

	assert.Equal(t, zerolog.DebugLevel, SetLevel("debug"))
	copied.Debug().Msg("after")
	assert.Contains(t, buf.String(), `"message":"after"`)
}
