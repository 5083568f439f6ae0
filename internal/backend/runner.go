// Package backend starts the Python analytics service from a local checkout
// so the dashboard has something to talk to during development.
package backend

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Package pairs a pip distribution name with the module it is imported as.
type Package struct {
	Dist   string
	Import string
}

// RequiredPackages lists what the analytics service imports at startup.
var RequiredPackages = []Package{
	{Dist: "fastapi", Import: "fastapi"},
	{Dist: "uvicorn", Import: "uvicorn"},
	{Dist: "pydantic", Import: "pydantic"},
	{Dist: "pandas", Import: "pandas"},
	{Dist: "numpy", Import: "numpy"},
	{Dist: "scikit-learn", Import: "sklearn"},
	{Dist: "ta", Import: "ta"},
	{Dist: "yfinance", Import: "yfinance"},
}

// DefaultScript is the service entry point inside the backend directory.
const DefaultScript = "main.py"

// Runner runs Python scripts from the service directory.
type Runner struct {
	pythonBin string
	dir       string
}

// NewRunner creates a Runner for the service checkout in dir, preferring a
// local .venv over the system interpreter.
func NewRunner(dir string) (*Runner, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving service directory: %w", err)
	}
	if fi, err := os.Stat(absDir); err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("service directory %s not found", absDir)
	}

	candidates := []string{
		filepath.Join(absDir, ".venv", "bin", "python3"),
		filepath.Join(absDir, ".venv", "bin", "python"),
	}
	for _, name := range []string{"python3", "python"} {
		if p, err := exec.LookPath(name); err == nil {
			candidates = append(candidates, p)
		}
	}

	for _, c := range candidates {
		if err := exec.Command(c, "--version").Run(); err == nil {
			return &Runner{pythonBin: c, dir: absDir}, nil
		}
	}
	return nil, errors.New("no usable Python interpreter found (checked .venv and system PATH)")
}

// Python returns the interpreter path in use.
func (r *Runner) Python() string { return r.pythonBin }

// Dir returns the absolute service directory.
func (r *Runner) Dir() string { return r.dir }

// Version returns the interpreter version, e.g. "Python 3.12.1".
func (r *Runner) Version(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, r.pythonBin, "--version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("getting python version: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// HasPackage reports whether pkg can be imported.
func (r *Runner) HasPackage(ctx context.Context, pkg Package) bool {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.pythonBin, "-c", "import "+pkg.Import)
	cmd.Dir = r.dir
	return cmd.Run() == nil
}

// MissingPackages returns the pip names of required packages that cannot
// be imported.
func (r *Runner) MissingPackages(ctx context.Context) []string {
	var missing []string
	for _, pkg := range RequiredPackages {
		if !r.HasPackage(ctx, pkg) {
			missing = append(missing, pkg.Dist)
		}
	}
	return missing
}

// Stream runs script with unbuffered output and delivers its stdout and
// stderr line by line. The lines channel closes when the process exits; the
// error channel then yields at most one error and closes. Cancelling ctx
// kills the process.
func (r *Runner) Stream(ctx context.Context, script string, args ...string) (<-chan string, <-chan error) {
	lines := make(chan string, 64)
	errc := make(chan error, 1)

	cmdArgs := append([]string{"-u", r.resolveScript(script)}, args...)
	cmd := exec.CommandContext(ctx, r.pythonBin, cmdArgs...)
	cmd.Dir = r.dir

	pr, pw, err := os.Pipe()
	if err != nil {
		close(lines)
		errc <- fmt.Errorf("creating output pipe: %w", err)
		close(errc)
		return lines, errc
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		close(lines)
		errc <- fmt.Errorf("starting %s: %w", script, err)
		close(errc)
		return lines, errc
	}
	// The child holds its own copy of the write end.
	pw.Close()

	// Grandchildren may keep the pipe open after the kill.
	stop := context.AfterFunc(ctx, func() { pr.Close() })

	go func() {
		defer close(errc)
		defer stop()
		defer pr.Close()

		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
			}
		}
		close(lines)

		waitErr := cmd.Wait()
		switch {
		case ctx.Err() != nil:
			// Killed on purpose.
		case waitErr != nil:
			var exitErr *exec.ExitError
			if errors.As(waitErr, &exitErr) {
				errc <- fmt.Errorf("%s exited with code %d", script, exitErr.ExitCode())
			} else {
				errc <- fmt.Errorf("waiting for %s: %w", script, waitErr)
			}
		case scanner.Err() != nil:
			errc <- fmt.Errorf("reading output: %w", scanner.Err())
		}
	}()

	return lines, errc
}

func (r *Runner) resolveScript(script string) string {
	if script == "" {
		script = DefaultScript
	}
	if filepath.IsAbs(script) {
		return script
	}
	return filepath.Join(r.dir, script)
}
