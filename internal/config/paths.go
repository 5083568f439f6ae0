package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DetectConfigFile walks up from the current working directory looking for
// tradetutor.json. Returns the absolute path or an error if not found.
func DetectConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return findConfigFrom(dir)
}

func findConfigFrom(dir string) (string, error) {
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root without finding the file.
			return "", fmt.Errorf("%s not found in any parent directory", FileName)
		}
		dir = parent
	}
}

// ResolvePath makes p absolute. Relative paths are taken relative to the
// loaded config file's directory, or the working directory without one.
func ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if cfgPath := Path(); cfgPath != "" {
		return filepath.Join(filepath.Dir(cfgPath), p)
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
