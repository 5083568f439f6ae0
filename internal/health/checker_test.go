package health

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dallionking/tradetutor/internal/api"
	"github.com/Dallionking/tradetutor/internal/config"
)

type stubProbe struct {
	infoErr  error
	features []api.FeatureImportance
	state    string
}

func (p *stubProbe) BaseURL() string      { return "http://localhost:8000" }
func (p *stubProbe) BreakerState() string { return p.state }

func (p *stubProbe) Info(context.Context) (*api.ServiceInfo, error) {
	if p.infoErr != nil {
		return nil, p.infoErr
	}
	return &api.ServiceInfo{Message: "AI Trading Tutor API", Version: "1.0.0"}, nil
}

func (p *stubProbe) FeatureImportance(context.Context) ([]api.FeatureImportance, error) {
	return p.features, nil
}

func validConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		API:      config.APIConfig{BaseURL: "http://localhost:8000", TimeoutSeconds: 90, RequestsPerSecond: 5, BreakerFailures: 5},
		Defaults: config.Defaults{Strategy: "conservative", Symbol: "SPY"},
		Log:      config.LogConfig{Level: "info", File: t.TempDir() + "/tradetutor.log"},
	}
}

func byName(r *Report) map[string]CheckResult {
	out := make(map[string]CheckResult, len(r.Results))
	for _, res := range r.Results {
		out[res.Name] = res
	}
	return out
}

func TestChecker_ServiceCategory(t *testing.T) {
	probe := &stubProbe{
		features: []api.FeatureImportance{{Name: "return_5d"}},
		state:    "closed",
	}
	c := NewChecker(validConfig(t), "", probe)

	report := c.RunCategory(context.Background(), "service")
	require.Equal(t, 3, report.Total)
	assert.True(t, report.Healthy)

	results := byName(report)
	assert.Equal(t, "AI Trading Tutor API v1.0.0", results["service-reachable"].Message)
	assert.Equal(t, "1 features", results["feature-importance"].Message)
	assert.Equal(t, StatusPass, results["circuit-breaker"].Status)
}

func TestChecker_UnreachableServiceIsUnhealthy(t *testing.T) {
	probe := &stubProbe{infoErr: errors.New("connection refused"), state: "open"}
	c := NewChecker(validConfig(t), "", probe)

	report := c.RunCategory(context.Background(), "service")
	assert.False(t, report.Healthy)

	results := byName(report)
	assert.Equal(t, StatusFail, results["service-reachable"].Status)
	assert.Contains(t, results["service-reachable"].Message, "connection refused")
	assert.Equal(t, StatusWarn, results["feature-importance"].Status)
	assert.Equal(t, StatusFail, results["circuit-breaker"].Status)
}

func TestChecker_ConfigCategory(t *testing.T) {
	cfg := validConfig(t)
	cfg.Defaults.Symbol = "BTC"
	c := NewChecker(cfg, "", &stubProbe{state: "closed"})

	results := byName(c.RunCategory(context.Background(), "config"))
	assert.Equal(t, StatusWarn, results["config-file"].Status)
	assert.Equal(t, StatusFail, results["config-valid"].Status)
	assert.Contains(t, results["config-valid"].Message, "defaults.symbol")
	assert.Equal(t, StatusPass, results["log-file"].Status)
}

func TestChecker_RunCheck(t *testing.T) {
	c := NewChecker(validConfig(t), "", &stubProbe{state: "half-open"})

	report := c.RunCheck(context.Background(), "circuit-breaker")
	require.Len(t, report.Results, 1)
	assert.Equal(t, StatusWarn, report.Results[0].Status)
	assert.Equal(t, 1, report.Warned)

	assert.Zero(t, c.RunCheck(context.Background(), "nope").Total)
	assert.Contains(t, c.Names(), "metrics-port")
}

func TestChecker_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := NewChecker(validConfig(t), "", &stubProbe{}).RunAll(ctx)
	assert.Equal(t, report.Total, report.Failed)
	assert.False(t, report.Healthy)
}

func TestChecker_ServiceSnapshot(t *testing.T) {
	probe := &stubProbe{
		features: []api.FeatureImportance{{Name: "return_5d"}, {Name: "rsi"}},
		state:    "closed",
	}
	c := NewChecker(validConfig(t), "", probe)

	report := c.RunCategory(context.Background(), CategoryService)
	require.NotNil(t, report.Service)
	assert.Equal(t, ServiceSnapshot{
		BaseURL:   "http://localhost:8000",
		Reachable: true,
		Banner:    "AI Trading Tutor API",
		Version:   "1.0.0",
		Breaker:   "closed",
		Features:  2,
	}, *report.Service)
	assert.Equal(t, VerdictReady, report.Verdict())

	assert.Nil(t, c.RunCategory(context.Background(), CategoryConfig).Service, "config checks never touch the service")
}

func TestReport_Verdict(t *testing.T) {
	tests := []struct {
		name   string
		report Report
		want   Verdict
	}{
		{"empty", Report{}, VerdictEmpty},
		{"all passed", Report{Total: 3, Passed: 3}, VerdictReady},
		{"warning", Report{Total: 3, Passed: 2, Warned: 1}, VerdictDegraded},
		{"failure", Report{Total: 3, Passed: 2, Failed: 1}, VerdictBroken},
		{"service down", Report{Total: 3, Failed: 1, Service: &ServiceSnapshot{}}, VerdictServiceDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.report.Verdict())
		})
	}
}

func TestFormatReport(t *testing.T) {
	probe := &stubProbe{state: "closed", features: []api.FeatureImportance{{}}}
	c := NewChecker(validConfig(t), "", probe)

	out := FormatReport(c.RunCategory(context.Background(), CategoryService))
	assert.Contains(t, out, "READY")
	assert.Contains(t, out, "http://localhost:8000")
	assert.Contains(t, out, "AI Trading Tutor API")
	assert.Contains(t, out, "v1.0.0")
	assert.Contains(t, out, "1 features")
	assert.Contains(t, out, "Analytics Service  3/3")
	assert.Contains(t, out, "3/3 passed")
	assert.NotContains(t, out, "Next steps")
}

func TestFormatReport_ServiceDown(t *testing.T) {
	probe := &stubProbe{infoErr: errors.New("connection refused"), state: "open"}
	c := NewChecker(validConfig(t), "", probe)

	out := FormatReport(c.RunCategory(context.Background(), CategoryService))
	assert.Contains(t, out, "SERVICE DOWN")
	assert.Contains(t, out, "not answering")
	assert.Contains(t, out, "open")
	assert.NotContains(t, out, "v1.0.0")
	assert.Contains(t, out, "Next steps")
	assert.Contains(t, out, "tradetutor serve --dir")

	// Failures come before warnings.
	serve := strings.Index(out, "tradetutor serve --dir")
	features := strings.Index(out, "Features tab will be empty")
	require.Positive(t, features)
	assert.Less(t, serve, features)
}

func TestNextSteps_SkipsPassesAndRepeats(t *testing.T) {
	steps := nextSteps([]CheckResult{
		{Name: "a", Status: StatusPass, Hint: "ignored"},
		{Name: "b", Status: StatusWarn, Hint: "same"},
		{Name: "c", Status: StatusFail, Hint: "same"},
		{Name: "d", Status: StatusFail},
	})
	require.Len(t, steps, 1)
	assert.Contains(t, steps[0], "c")
}
