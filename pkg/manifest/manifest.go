// Package manifest models the generated project's package.json: the declared
// dependency sets and scripts the validators cross-check against.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
)

// Manifest is the subset of package.json the validators consume. Runtime and
// development dependencies are kept separate in the file but both count as
// declared for cross-checking purposes.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Scripts         map[string]string `json:"scripts"`
}

// Load reads and decodes a package.json file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var m Manifest

	err = json.Unmarshal(data, &m)
	if err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}

	return &m, nil
}

// Declared returns the union of runtime and development dependency names.
func (m *Manifest) Declared() map[string]struct{} {
	out := make(map[string]struct{}, len(m.Dependencies)+len(m.DevDependencies))

	for name := range m.Dependencies {
		out[name] = struct{}{}
	}

	for name := range m.DevDependencies {
		out[name] = struct{}{}
	}

	return out
}

// HasDependency reports whether name is declared in either dependency set.
func (m *Manifest) HasDependency(name string) bool {
	_, runtime := m.Dependencies[name]
	_, dev := m.DevDependencies[name]

	return runtime || dev
}

// HasScript reports whether a script entry exists.
func (m *Manifest) HasScript(name string) bool {
	_, ok := m.Scripts[name]

	return ok
}
