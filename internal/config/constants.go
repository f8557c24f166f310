// Package config holds the process-wide switches the generator reads
// at startup: the memory/file emission mode, optimizer verbosity, and
// the intermediate-file extension convention.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Version is the current quadgen version.
var Version = "0.1.0"

// IntermediateFileExt is the recognised extension for a quadruple
// intermediate file.
const IntermediateFileExt = ".qin"

// HasIntermediateExt reports whether path ends with the intermediate
// file extension.
func HasIntermediateExt(path string) bool {
	return len(path) >= len(IntermediateFileExt) && path[len(path)-len(IntermediateFileExt):] == IntermediateFileExt
}

// Settings is the process-wide configuration a compilation run reads
// once at startup. The zero value is the default: memory-mode
// emission, optimisations enabled, no verbosity.
type Settings struct {
	// UseIntermediateFiles selects file-mode emission over the default
	// in-memory quadruple list, for procedures too large to hold
	// entirely in memory (spec.md §4.2/§9).
	UseIntermediateFiles bool `yaml:"use_intermediate_files"`
	// DisableRewrites turns off both local rewrites (nested-LHS
	// collapsing, augmented-assignment rewriting); file-mode emission
	// already implies this since neither rewrite can revisit an
	// already-flushed quadruple.
	DisableRewrites bool `yaml:"disable_rewrites"`
	// Verbose enables the "Optimized" / "No optimization possible"
	// per-rewrite-site reporting.
	Verbose bool `yaml:"verbose"`
}

// RewritesEnabled reports whether either local rewrite may run,
// folding the file-mode constraint into the explicit setting.
func (s Settings) RewritesEnabled() bool {
	return !s.DisableRewrites && !s.UseIntermediateFiles
}

// Default returns the zero-value settings: memory mode, rewrites on,
// quiet.
func Default() Settings {
	return Settings{}
}

// Load reads settings from a YAML file at path, leaving fields absent
// from the file at their Default() values. A missing file is not an
// error; it returns Default().
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
