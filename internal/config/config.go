// Package config holds build constants and the optional run options file.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Version is the current release. Set at build time via -ldflags or by
// editing this file during a release.
var Version = "0.3.1"

const SourceFileExt = ".sfl"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".sfl", ".sf"}

// HasSourceExt returns true if the path ends with a recognized source
// extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// OptionsFileName is looked for in the working directory.
const OptionsFileName = "sfl.yaml"

// Options are the tunables the CLI reads from sfl.yaml; flags override
// them.
type Options struct {
	// Color forces colored output on or off; nil follows the terminal.
	Color *bool `yaml:"color"`
	// StepLimit bounds automatic reduction; 0 means unlimited.
	StepLimit int `yaml:"step_limit"`
	// Prelude toggles loading the standard prelude.
	Prelude bool `yaml:"prelude"`
	// TraceDB is the sqlite file reduction traces are recorded to when
	// tracing is on.
	TraceDB string `yaml:"trace_db"`
}

// DefaultOptions are used when no options file exists.
func DefaultOptions() Options {
	return Options{StepLimit: 10000, Prelude: true, TraceDB: "sfl-trace.db"}
}

// LoadOptions reads path (or OptionsFileName when empty). A missing file
// yields the defaults; a malformed one is an error.
func LoadOptions(path string) (Options, error) {
	if path == "" {
		path = OptionsFileName
	}
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, err
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return DefaultOptions(), err
	}
	return opts, nil
}
