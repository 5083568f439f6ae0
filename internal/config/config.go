package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Dallionking/tradetutor/internal/api"
)

// FileName is the config file looked up when --config is not given.
const FileName = "tradetutor.json"

// EnvPrefix prefixes every environment override, e.g. TRADETUTOR_API_BASEURL.
const EnvPrefix = "TRADETUTOR"

// Config represents the full tradetutor.json schema.
type Config struct {
	API      APIConfig     `json:"api" mapstructure:"api" yaml:"api"`
	Defaults Defaults      `json:"defaults" mapstructure:"defaults" yaml:"defaults"`
	Log      LogConfig     `json:"log" mapstructure:"log" yaml:"log"`
	Metrics  MetricsConfig `json:"metrics" mapstructure:"metrics" yaml:"metrics"`
}

// APIConfig locates the analytics service and bounds how it is called.
type APIConfig struct {
	BaseURL           string `json:"baseURL" mapstructure:"baseURL" yaml:"baseURL"`
	TimeoutSeconds    int    `json:"timeoutSeconds" mapstructure:"timeoutSeconds" yaml:"timeoutSeconds"`
	RequestsPerSecond int    `json:"requestsPerSecond" mapstructure:"requestsPerSecond" yaml:"requestsPerSecond"`
	BreakerFailures   int    `json:"breakerFailures" mapstructure:"breakerFailures" yaml:"breakerFailures"`
}

// Defaults holds the parameter selection used at startup.
type Defaults struct {
	Strategy string `json:"strategy" mapstructure:"strategy" yaml:"strategy"`
	Symbol   string `json:"symbol" mapstructure:"symbol" yaml:"symbol"`
}

// LogConfig controls zerolog output.
type LogConfig struct {
	Level string `json:"level" mapstructure:"level" yaml:"level"`
	// File receives dashboard logs, since the terminal belongs to the UI.
	File string `json:"file" mapstructure:"file" yaml:"file"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `json:"addr" mapstructure:"addr" yaml:"addr"`
}

// singleton holds the global loaded config and the file it came from.
var (
	globalCfg  *Config
	globalPath string
	mu         sync.RWMutex
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.baseURL", "http://localhost:8000")
	v.SetDefault("api.timeoutSeconds", 90)
	v.SetDefault("api.requestsPerSecond", 5)
	v.SetDefault("api.breakerFailures", 5)
	v.SetDefault("defaults.strategy", string(api.Conservative))
	v.SetDefault("defaults.symbol", string(api.SPY))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "tradetutor.log")
	v.SetDefault("metrics.addr", "")
}

// Load reads configuration from path, or from the nearest tradetutor.json
// when path is empty. A missing file is not an error: defaults and
// environment overrides still apply. The result is cached for Get.
func Load(path string) (*Config, error) {
	// .env is optional.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		if found, err := DetectConfigFile(); err == nil {
			path = found
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType(configType(path))
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	mu.Lock()
	globalCfg = &cfg
	globalPath = path
	mu.Unlock()

	return &cfg, nil
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}

// Get returns the cached global config. It panics if Load has not been called.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()

	if globalCfg == nil {
		panic("config.Get() called before config.Load()")
	}
	return globalCfg
}

// Path returns the config file read by the last Load, or "" when only
// defaults and environment were used.
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return globalPath
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// ClientOptions builds analytics client options from the config.
func (c *Config) ClientOptions() api.ClientOptions {
	return api.ClientOptions{
		BaseURL:         c.API.BaseURL,
		Timeout:         c.Timeout(),
		RequestsPerSec:  c.API.RequestsPerSecond,
		BreakerFailures: c.API.BreakerFailures,
	}
}

// DefaultSelection parses the configured startup strategy and symbol.
func (c *Config) DefaultSelection() (api.Strategy, api.Symbol, error) {
	st, err := api.ParseStrategy(c.Defaults.Strategy)
	if err != nil {
		return "", "", fmt.Errorf("defaults.strategy: %w", err)
	}
	sym, err := api.ParseSymbol(c.Defaults.Symbol)
	if err != nil {
		return "", "", fmt.Errorf("defaults.symbol: %w", err)
	}
	return st, sym, nil
}

// ErrInvalid wraps validation failures returned by MustValidate.
var ErrInvalid = errors.New("invalid configuration")

// MustValidate runs Validate and folds any issues into one error.
func MustValidate(cfg *Config) error {
	issues := Validate(cfg)
	if len(issues) == 0 {
		return nil
	}
	msgs := make([]string, len(issues))
	for i, ve := range issues {
		msgs[i] = ve.Error()
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}
