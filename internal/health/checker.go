package health

import (
	"context"
	"time"

	"github.com/Dallionking/tradetutor/internal/api"
	"github.com/Dallionking/tradetutor/internal/config"
)

// Status is the outcome of one check.
type Status int

const (
	StatusPass Status = iota
	StatusWarn
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Check categories, in report order.
const (
	CategoryConfig  = "config"
	CategoryService = "service"
	CategoryRuntime = "runtime"
)

var categories = []string{CategoryConfig, CategoryService, CategoryRuntime}

// CheckResult holds the result of a single check. Hint tells the user what
// to do about a warning or failure.
type CheckResult struct {
	Name     string
	Category string
	Status   Status
	Message  string
	Hint     string
	Duration time.Duration
}

// ServiceSnapshot is what the service checks learned about the analytics
// service during one run.
type ServiceSnapshot struct {
	BaseURL    string
	Reachable  bool
	Banner     string
	Version    string
	Disclaimer string
	Breaker    string
	Features   int
}

// Verdict summarises a report for the user.
type Verdict int

const (
	VerdictReady Verdict = iota
	VerdictDegraded
	VerdictServiceDown
	VerdictBroken
	VerdictEmpty
)

func (v Verdict) String() string {
	switch v {
	case VerdictReady:
		return "READY"
	case VerdictDegraded:
		return "DEGRADED"
	case VerdictServiceDown:
		return "SERVICE DOWN"
	case VerdictBroken:
		return "UNHEALTHY"
	default:
		return "NO CHECKS"
	}
}

// Report aggregates one run. Service is nil when no service check ran.
type Report struct {
	Results  []CheckResult
	Passed   int
	Warned   int
	Failed   int
	Total    int
	Duration time.Duration
	Healthy  bool
	Service  *ServiceSnapshot
}

// Verdict reports whether the dashboard can be used. An unreachable service
// outranks every other failure because nothing works without it.
func (r *Report) Verdict() Verdict {
	switch {
	case r.Total == 0:
		return VerdictEmpty
	case r.Service != nil && !r.Service.Reachable:
		return VerdictServiceDown
	case r.Failed > 0:
		return VerdictBroken
	case r.Warned > 0:
		return VerdictDegraded
	default:
		return VerdictReady
	}
}

// Check is a named, categorized health check function.
type Check struct {
	Name     string
	Category string
	Fn       func(ctx context.Context) CheckResult
}

// Probe is the part of the analytics client the service checks use.
type Probe interface {
	BaseURL() string
	BreakerState() string
	Info(ctx context.Context) (*api.ServiceInfo, error)
	FeatureImportance(ctx context.Context) ([]api.FeatureImportance, error)
}

// Checker runs the config, service and runtime checks. A Checker is not
// safe for concurrent runs.
type Checker struct {
	checks     []Check
	cfg        *config.Config
	configPath string
	probe      Probe

	// snap collects service facts for the run in progress.
	snap *ServiceSnapshot
}

// NewChecker creates a health checker. configPath may be empty when only
// defaults and environment were loaded.
func NewChecker(cfg *config.Config, configPath string, probe Probe) *Checker {
	c := &Checker{
		cfg:        cfg,
		configPath: configPath,
		probe:      probe,
	}
	c.registerChecks()
	return c
}

// Names returns every registered check name in run order.
func (c *Checker) Names() []string {
	names := make([]string, len(c.checks))
	for i, ch := range c.checks {
		names[i] = ch.Name
	}
	return names
}

func (c *Checker) add(name, category string, fn func(ctx context.Context) CheckResult) {
	c.checks = append(c.checks, Check{Name: name, Category: category, Fn: fn})
}

// RunAll runs every registered check.
func (c *Checker) RunAll(ctx context.Context) *Report {
	return c.runMatching(ctx, func(Check) bool { return true })
}

// RunCategory runs only the checks in category.
func (c *Checker) RunCategory(ctx context.Context, category string) *Report {
	return c.runMatching(ctx, func(ch Check) bool { return ch.Category == category })
}

// RunCheck runs the single check called name. The report is empty when no
// such check exists.
func (c *Checker) RunCheck(ctx context.Context, name string) *Report {
	return c.runMatching(ctx, func(ch Check) bool { return ch.Name == name })
}

func (c *Checker) runMatching(ctx context.Context, match func(Check) bool) *Report {
	start := time.Now()
	c.snap = nil
	var results []CheckResult

	for _, ch := range c.checks {
		if !match(ch) {
			continue
		}
		var r CheckResult
		if ctx.Err() != nil {
			r = CheckResult{Status: StatusFail, Message: "context cancelled"}
		} else {
			t := time.Now()
			r = ch.Fn(ctx)
			r.Duration = time.Since(t)
		}
		r.Name = ch.Name
		r.Category = ch.Category
		results = append(results, r)
	}

	rep := buildReport(results, time.Since(start))
	rep.Service = c.snap
	return rep
}

// service returns the snapshot for the current run, creating it on first use.
func (c *Checker) service() *ServiceSnapshot {
	if c.snap == nil {
		c.snap = &ServiceSnapshot{}
		if c.probe != nil {
			c.snap.BaseURL = c.probe.BaseURL()
		}
	}
	return c.snap
}

func buildReport(results []CheckResult, dur time.Duration) *Report {
	r := &Report{
		Results:  results,
		Total:    len(results),
		Duration: dur,
	}
	for _, res := range results {
		switch res.Status {
		case StatusPass:
			r.Passed++
		case StatusWarn:
			r.Warned++
		case StatusFail:
			r.Failed++
		}
	}
	r.Healthy = r.Failed == 0
	return r
}
