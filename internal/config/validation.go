package config

import (
	"fmt"
	"net"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/Dallionking/tradetutor/internal/api"
)

// ValidationError describes a single config validation failure.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface for a single validation error.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// Validate checks the Config for completeness and consistency. It returns a
// slice of all discovered issues rather than stopping at the first one.
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	// --- API ---
	if cfg.API.BaseURL == "" {
		errs = append(errs, ValidationError{Field: "api.baseURL", Message: "required field is empty"})
	} else if u, err := url.Parse(cfg.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "api.baseURL",
			Message: fmt.Sprintf("must be an absolute http(s) URL, got %q", cfg.API.BaseURL),
		})
	}
	if cfg.API.TimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{
			Field:   "api.timeoutSeconds",
			Message: fmt.Sprintf("must be > 0, got %d", cfg.API.TimeoutSeconds),
		})
	}
	if cfg.API.RequestsPerSecond <= 0 {
		errs = append(errs, ValidationError{
			Field:   "api.requestsPerSecond",
			Message: fmt.Sprintf("must be > 0, got %d", cfg.API.RequestsPerSecond),
		})
	}
	if cfg.API.BreakerFailures <= 0 {
		errs = append(errs, ValidationError{
			Field:   "api.breakerFailures",
			Message: fmt.Sprintf("must be > 0, got %d", cfg.API.BreakerFailures),
		})
	}

	// --- Defaults ---
	if _, err := api.ParseStrategy(cfg.Defaults.Strategy); err != nil {
		errs = append(errs, ValidationError{Field: "defaults.strategy", Message: err.Error()})
	}
	if _, err := api.ParseSymbol(cfg.Defaults.Symbol); err != nil {
		errs = append(errs, ValidationError{Field: "defaults.symbol", Message: err.Error()})
	}

	// --- Logging ---
	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("unknown level %q", cfg.Log.Level),
		})
	}
	if cfg.Log.File == "" {
		errs = append(errs, ValidationError{Field: "log.file", Message: "required field is empty"})
	}

	// --- Metrics ---
	if cfg.Metrics.Addr != "" {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Addr); err != nil {
			errs = append(errs, ValidationError{
				Field:   "metrics.addr",
				Message: fmt.Sprintf("must be host:port, got %q", cfg.Metrics.Addr),
			})
		}
	}

	return errs
}
