package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func validateFormat(f string) error {
	switch f {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown format %q: use text, json, or yaml", f)
}

// writeStructured encodes v as JSON or YAML. It reports false for text so
// the caller renders its own view.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}

// labelRow prints a fixed-width label column like the version and config
// commands do.
func labelRow(label string, width int) string {
	if pad := width - len(label); pad > 0 {
		return label + strings.Repeat(" ", pad)
	}
	return label + " "
}
