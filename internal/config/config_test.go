package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dallionking/tradetutor/internal/api"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `{
		"api": {"baseURL": "http://tutor.internal:9000", "timeoutSeconds": 30},
		"defaults": {"strategy": "ultra"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://tutor.internal:9000", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 5, cfg.API.RequestsPerSecond)
	assert.Equal(t, 5, cfg.API.BreakerFailures)
	assert.Equal(t, "ultra", cfg.Defaults.Strategy)
	assert.Equal(t, "SPY", cfg.Defaults.Symbol)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, Validate(cfg))

	assert.Same(t, cfg, Get())
	assert.Equal(t, path, Path())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `{"defaults": {"symbol": "QQQ"}}`)
	t.Setenv("TRADETUTOR_DEFAULTS_SYMBOL", "NVDA")
	t.Setenv("TRADETUTOR_API_BASEURL", "https://tutor.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "NVDA", cfg.Defaults.Symbol)
	assert.Equal(t, "https://tutor.example.com", cfg.API.BaseURL)

	st, sym, err := cfg.DefaultSelection()
	require.NoError(t, err)
	assert.Equal(t, api.Conservative, st)
	assert.Equal(t, api.NVDA, sym)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `{"api": `)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			API:      APIConfig{BaseURL: "http://localhost:8000", TimeoutSeconds: 90, RequestsPerSecond: 5, BreakerFailures: 5},
			Defaults: Defaults{Strategy: "conservative", Symbol: "SPY"},
			Log:      LogConfig{Level: "info", File: "tradetutor.log"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"relative url", func(c *Config) { c.API.BaseURL = "localhost:8000" }, "api.baseURL"},
		{"empty url", func(c *Config) { c.API.BaseURL = "" }, "api.baseURL"},
		{"zero timeout", func(c *Config) { c.API.TimeoutSeconds = 0 }, "api.timeoutSeconds"},
		{"negative rate", func(c *Config) { c.API.RequestsPerSecond = -1 }, "api.requestsPerSecond"},
		{"zero breaker", func(c *Config) { c.API.BreakerFailures = 0 }, "api.breakerFailures"},
		{"unknown strategy", func(c *Config) { c.Defaults.Strategy = "yolo" }, "defaults.strategy"},
		{"unknown symbol", func(c *Config) { c.Defaults.Symbol = "BTC" }, "defaults.symbol"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"no log file", func(c *Config) { c.Log.File = "" }, "log.file"},
		{"bad metrics addr", func(c *Config) { c.Metrics.Addr = "9100" }, "metrics.addr"},
	}

	assert.Empty(t, Validate(valid()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			errs := Validate(cfg)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)

			err := MustValidate(cfg)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestFindConfigFrom_WalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, `{}`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := findConfigFrom(nested)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWatcher_SignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `{}`)

	w, err := NewWatcher(path)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloads := w.Watch(ctx)

	// Unrelated files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(path, []byte(`{"log": {"level": "debug"}}`), 0o644))

	select {
	case <-reloads:
	case <-time.After(5 * time.Second):
		t.Fatal("no reload signal")
	}

	cancel()
	for range reloads {
	}
}
