// Package manifest handles coil.toml runtime configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest represents a coil.toml runtime configuration.
type Manifest struct {
	Runtime Runtime `toml:"runtime"`
	Inspect Inspect `toml:"inspect"`

	// Dir is the directory containing the coil.toml file (set at load time).
	Dir string `toml:"-"`
}

// Runtime configures the runtime core.
type Runtime struct {
	// MaxDepth bounds dispatch recursion. Protocol hooks (__index__,
	// __eq__, __repr__) may recurse arbitrarily; this is the runtime's
	// general backstop.
	MaxDepth int `toml:"max-depth"`

	// Trace enables dispatch tracing in tooling.
	Trace bool `toml:"trace"`
}

// Inspect configures inspector output.
type Inspect struct {
	// Output is the default path for CBOR wire dumps.
	Output string `toml:"output"`
}

// DefaultMaxDepth mirrors the runtime's built-in recursion limit.
const DefaultMaxDepth = 1000

// Load parses a coil.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "coil.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	m.applyDefaults()
	return &m, nil
}

// Default returns a manifest with all defaults applied and no backing file.
func Default() *Manifest {
	m := &Manifest{}
	m.applyDefaults()
	return m
}

func (m *Manifest) applyDefaults() {
	if m.Runtime.MaxDepth <= 0 {
		m.Runtime.MaxDepth = DefaultMaxDepth
	}
	if m.Inspect.Output == "" {
		m.Inspect.Output = "coil-inspect.cbor"
	}
}
