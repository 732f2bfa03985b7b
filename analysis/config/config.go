// Copyright The tacanalyzer Authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the analysis options and the leveled logging group
// shared by the analyses.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config contains the options of the analyses. If some field is not defined
// in the config file, it keeps the value set by NewDefault.
type Config struct {
	sourceFile string

	// LogLevel controls the verbosity of the analyses (see LogLevel values)
	LogLevel int `yaml:"log-level"`

	// MaxIterations bounds the number of passes a dataflow fixed point may
	// take before the engine gives up. 0 means no bound.
	MaxIterations int `yaml:"max-iterations"`

	// WarnIrreducible makes loop identification report strongly connected
	// regions that are not covered by any natural loop.
	WarnIrreducible bool `yaml:"warn-irreducible"`
}

// NewDefault returns a config with the default options: info-level logging,
// unbounded fixed points, irreducible-region warnings on.
func NewDefault() *Config {
	return &Config{
		LogLevel:        int(InfoLevel),
		MaxIterations:   0,
		WarnIrreducible: true,
	}
}

// Load reads a config from a yaml file.
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file %q: %w", filename, err)
	}
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file %q: %w", filename, err)
	}
	cfg.sourceFile = filename
	if cfg.LogLevel < int(ErrLevel) || cfg.LogLevel > int(TraceLevel) {
		return nil, fmt.Errorf("config file %q: log-level %d out of range", filename, cfg.LogLevel)
	}
	if cfg.MaxIterations < 0 {
		return nil, fmt.Errorf("config file %q: max-iterations must be non-negative", filename)
	}
	return cfg, nil
}

// SourceFile returns the name of the file the config was loaded from, or ""
// for a default config.
func (c *Config) SourceFile() string { return c.sourceFile }
