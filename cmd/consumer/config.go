// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/curioloop/consumer/cobb"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config describes one consumer choice problem and the solver settings.
type Config struct {
	Income   float64   `yaml:"income"`
	Prices   []float64 `yaml:"prices"`
	Alpha    []float64 `yaml:"alpha"`
	Steps    int       `yaml:"steps"`    // Candidates per good for the grid search
	Tol      float64   `yaml:"tol"`      // Function tolerance of the simplex search
	MaxIter  int       `yaml:"max_iter"` // Iteration limit of the simplex search
	Restarts int       `yaml:"restarts"`
}

// DefaultConfig returns the settings used when neither file nor flag sets them.
func DefaultConfig() Config {
	return Config{
		Steps:    101,
		Tol:      1e-10,
		MaxIter:  2000,
		Restarts: 2,
	}
}

// LoadConfig reads a YAML file over the defaults. An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Override replaces the fields whose flags were set explicitly.
func (c *Config) Override(fs *pflag.FlagSet) error {
	var err error
	set := func(name string, fn func() error) {
		if err == nil && fs.Changed(name) {
			err = fn()
		}
	}
	set("income", func() (e error) { c.Income, e = fs.GetFloat64("income"); return })
	set("prices", func() (e error) { c.Prices, e = fs.GetFloat64Slice("prices"); return })
	set("alpha", func() (e error) { c.Alpha, e = fs.GetFloat64Slice("alpha"); return })
	set("steps", func() (e error) { c.Steps, e = fs.GetInt("steps"); return })
	set("tol", func() (e error) { c.Tol, e = fs.GetFloat64("tol"); return })
	set("max-iter", func() (e error) { c.MaxIter, e = fs.GetInt("max-iter"); return })
	set("restarts", func() (e error) { c.Restarts, e = fs.GetInt("restarts"); return })
	return err
}

// Market returns the validated market of the configuration.
func (c *Config) Market() (cobb.Market, error) {
	m := cobb.Market{Income: c.Income, Prices: c.Prices, Alpha: c.Alpha}
	return m, m.Validate()
}
