package health

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Dallionking/tradetutor/internal/config"
)

// serviceTimeout bounds each service probe. The backtest endpoint is never
// probed because a single run takes tens of seconds.
const serviceTimeout = 5 * time.Second

const noClient = "no analytics client"

func (c *Checker) registerChecks() {
	c.add("config-file", CategoryConfig, c.checkConfigFile)
	c.add("config-valid", CategoryConfig, c.checkConfigValid)
	c.add("log-file", CategoryConfig, c.checkLogFile)

	c.add("service-reachable", CategoryService, c.checkServiceReachable)
	c.add("feature-importance", CategoryService, c.checkFeatureImportance)
	c.add("circuit-breaker", CategoryService, c.checkCircuitBreaker)

	c.add("metrics-port", CategoryRuntime, c.checkMetricsPort)
	c.add("terminal", CategoryRuntime, c.checkTerminal)
}

// ---------------------------------------------------------------------------
// Config checks
// ---------------------------------------------------------------------------

func (c *Checker) checkConfigFile(_ context.Context) CheckResult {
	if c.configPath == "" {
		return CheckResult{
			Status:  StatusWarn,
			Message: fmt.Sprintf("no %s found; using defaults", config.FileName),
			Hint:    fmt.Sprintf("create %s to set api.baseURL and default parameters", config.FileName),
		}
	}
	if _, err := os.Stat(c.configPath); err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("cannot read %s", c.configPath),
			Hint:    "check the file permissions or pass --config",
		}
	}
	return CheckResult{Status: StatusPass, Message: c.configPath}
}

func (c *Checker) checkConfigValid(_ context.Context) CheckResult {
	if c.cfg == nil {
		return CheckResult{Status: StatusFail, Message: "config not loaded"}
	}
	issues := config.Validate(c.cfg)
	if len(issues) == 0 {
		return CheckResult{Status: StatusPass, Message: "all fields valid"}
	}
	return CheckResult{
		Status:  StatusFail,
		Message: fmt.Sprintf("%d issue(s): %s", len(issues), issues[0].Error()),
		Hint:    "run 'tradetutor config validate' to list every issue",
	}
}

func (c *Checker) checkLogFile(_ context.Context) CheckResult {
	if c.cfg == nil || c.cfg.Log.File == "" {
		return CheckResult{
			Status:  StatusWarn,
			Message: "no log file configured",
			Hint:    "set log.file to keep dashboard logs; they are discarded otherwise",
		}
	}
	dir := filepath.Dir(config.ResolvePath(c.cfg.Log.File))
	info, err := os.Stat(dir)
	if err != nil {
		return CheckResult{Status: StatusWarn, Message: fmt.Sprintf("%s will be created", dir)}
	}
	unwritable := "point log.file at a writable directory"
	if !info.IsDir() {
		return CheckResult{Status: StatusFail, Message: fmt.Sprintf("%s is not a directory", dir), Hint: unwritable}
	}
	f, err := os.CreateTemp(dir, ".tradetutor-probe-*")
	if err != nil {
		return CheckResult{Status: StatusFail, Message: fmt.Sprintf("%s is not writable", dir), Hint: unwritable}
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return CheckResult{Status: StatusPass, Message: dir}
}

// ---------------------------------------------------------------------------
// Service checks
// ---------------------------------------------------------------------------

func (c *Checker) checkServiceReachable(ctx context.Context) CheckResult {
	if c.probe == nil {
		return CheckResult{Status: StatusFail, Message: noClient}
	}
	snap := c.service()
	ctx, cancel := context.WithTimeout(ctx, serviceTimeout)
	defer cancel()

	info, err := c.probe.Info(ctx)
	if err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("%s: %v", snap.BaseURL, err),
			Hint:    "start it with 'tradetutor serve --dir <backend>' or fix api.baseURL",
		}
	}
	snap.Reachable = true
	snap.Banner = strings.TrimSpace(info.Message)
	snap.Version = info.Version
	snap.Disclaimer = strings.TrimSpace(info.Disclaimer)

	msg := snap.Banner
	if info.Version != "" {
		msg += " v" + info.Version
	}
	return CheckResult{Status: StatusPass, Message: msg}
}

func (c *Checker) checkFeatureImportance(ctx context.Context) CheckResult {
	if c.probe == nil {
		return CheckResult{Status: StatusFail, Message: noClient}
	}
	snap := c.service()
	ctx, cancel := context.WithTimeout(ctx, serviceTimeout)
	defer cancel()

	features, err := c.probe.FeatureImportance(ctx)
	if err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: err.Error(),
			Hint:    "the model may still be training; retry with --wait 30s",
		}
	}
	snap.Features = len(features)
	if len(features) == 0 {
		return CheckResult{
			Status:  StatusWarn,
			Message: "model reports no features",
			Hint:    "the Features tab will be empty until the model is trained",
		}
	}
	return CheckResult{Status: StatusPass, Message: fmt.Sprintf("%d features", len(features))}
}

func (c *Checker) checkCircuitBreaker(_ context.Context) CheckResult {
	if c.probe == nil {
		return CheckResult{Status: StatusFail, Message: noClient}
	}
	state := c.probe.BreakerState()
	c.service().Breaker = state
	switch state {
	case "closed":
		return CheckResult{Status: StatusPass, Message: state}
	case "half-open":
		return CheckResult{
			Status:  StatusWarn,
			Message: "half-open: recovering from failures",
			Hint:    "the next request decides; press r in the dashboard to retry",
		}
	default:
		return CheckResult{
			Status:  StatusFail,
			Message: state + ": requests are failing fast",
			Hint:    "check the service output; the breaker closes after its cooldown",
		}
	}
}

// ---------------------------------------------------------------------------
// Runtime checks
// ---------------------------------------------------------------------------

func (c *Checker) checkMetricsPort(_ context.Context) CheckResult {
	if c.cfg == nil || c.cfg.Metrics.Addr == "" {
		return CheckResult{Status: StatusPass, Message: "metrics disabled"}
	}
	ln, err := net.Listen("tcp", c.cfg.Metrics.Addr)
	if err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("%s unavailable", c.cfg.Metrics.Addr),
			Hint:    "pick another --metrics-addr or stop the process holding the port",
		}
	}
	ln.Close()
	return CheckResult{Status: StatusPass, Message: fmt.Sprintf("%s available", c.cfg.Metrics.Addr)}
}

func (c *Checker) checkTerminal(_ context.Context) CheckResult {
	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		return CheckResult{
			Status:  StatusWarn,
			Message: "TERM not set; the dashboard may not render",
			Hint:    "use 'tradetutor report' for plain output",
		}
	}
	return CheckResult{Status: StatusPass, Message: term}
}
