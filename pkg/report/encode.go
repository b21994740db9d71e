package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

const runDurationPrecision = time.Millisecond

// Format names an output encoding for a run.
type Format string

// Supported output formats.
const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatHTML    Format = "html"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatConsole, FormatJSON, FormatYAML, FormatHTML:
		return Format(name), nil
	default:
		return "", fmt.Errorf("unknown output format %q", name)
	}
}

// WriteJSON encodes the run as indented JSON.
func WriteJSON(out io.Writer, run *Run) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	err := enc.Encode(run)
	if err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}

	return nil
}

// WriteYAML encodes the run as YAML.
func WriteYAML(out io.Writer, run *Run) error {
	enc := yaml.NewEncoder(out)
	defer enc.Close()

	err := enc.Encode(run)
	if err != nil {
		return fmt.Errorf("encode yaml report: %w", err)
	}

	return nil
}

// Write renders the run in the requested format.
func Write(out io.Writer, run *Run, format Format, verbose bool) error {
	switch format {
	case FormatJSON:
		return WriteJSON(out, run)
	case FormatYAML:
		return WriteYAML(out, run)
	case FormatHTML:
		return WriteHTML(out, run)
	case FormatConsole:
		return NewConsoleWriter(out, verbose).Write(run)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
