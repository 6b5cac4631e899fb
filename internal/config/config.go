// SPDX-License-Identifier: MIT

// Package config loads the unfold CLI settings: defaults < YAML file <
// command-line flags (applied by cmd/unfold).
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/unfold/geometry"
	"github.com/katalvlaran/unfold/internal/logger"
	"github.com/katalvlaran/unfold/lscm"
	"github.com/katalvlaran/unfold/manufacturing"
	"github.com/katalvlaran/unfold/sparse"
	"github.com/katalvlaran/unfold/unfold"
)

// ErrInvalid wraps every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config holds all CLI settings.
type Config struct {
	Unfold     UnfoldConfig             `yaml:"unfold"`
	Thresholds manufacturing.Thresholds `yaml:"thresholds"`
	Cache      CacheConfig              `yaml:"cache"`
	Logging    LoggingConfig            `yaml:"logging"`
}

// UnfoldConfig holds pipeline settings.
type UnfoldConfig struct {
	Method     string        `yaml:"method"`
	Solver     string        `yaml:"solver"`
	Tolerance  float64       `yaml:"tolerance"`
	Workers    int           `yaml:"workers"` // 0 = GOMAXPROCS
	ClampLimit float64       `yaml:"clamp_limit"`
	Epsilon    float64       `yaml:"epsilon"`
	Normalize  bool          `yaml:"normalize"`
	Timeout    time.Duration `yaml:"timeout"` // 0 = none
}

// CacheConfig holds the result cache settings.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Unfold: UnfoldConfig{
			Method:     unfold.MethodLSCM.String(),
			Solver:     sparse.Auto.String(),
			Tolerance:  sparse.DefaultTolerance,
			ClampLimit: lscm.DefaultClampLimit,
			Epsilon:    geometry.DefaultEpsilon,
			Normalize:  true,
			Timeout:    time.Minute,
		},
		Thresholds: manufacturing.DefaultThresholds(),
		Cache: CacheConfig{
			Path: "unfold-cache.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports the first nonsensical setting.
func (c *Config) Validate() error {
	u := c.Unfold
	if _, err := unfold.ParseMethod(u.Method); err != nil {
		return fmt.Errorf("%w: unfold.method: %w", ErrInvalid, err)
	}
	if _, err := sparse.ParseMethod(u.Solver); err != nil {
		return fmt.Errorf("%w: unfold.solver: %w", ErrInvalid, err)
	}
	switch {
	case !(u.Tolerance > 0):
		return fmt.Errorf("%w: unfold.tolerance must be > 0, got %g", ErrInvalid, u.Tolerance)
	case u.Workers < 0:
		return fmt.Errorf("%w: unfold.workers must be ≥ 0, got %d", ErrInvalid, u.Workers)
	case !(u.ClampLimit > 0):
		return fmt.Errorf("%w: unfold.clamp_limit must be > 0, got %g", ErrInvalid, u.ClampLimit)
	case !(u.Epsilon > 0):
		return fmt.Errorf("%w: unfold.epsilon must be > 0, got %g", ErrInvalid, u.Epsilon)
	case u.Timeout < 0:
		return fmt.Errorf("%w: unfold.timeout must be ≥ 0, got %s", ErrInvalid, u.Timeout)
	}
	if err := c.Thresholds.Check(); err != nil {
		return fmt.Errorf("%w: thresholds: %w", ErrInvalid, err)
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		return fmt.Errorf("%w: cache.path is required when the cache is enabled", ErrInvalid)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %w", ErrInvalid, err)
	}

	return nil
}

// Method returns the parsed unfold method.
func (c *Config) Method() (unfold.Method, error) {
	return unfold.ParseMethod(c.Unfold.Method)
}

// Fingerprint identifies the settings that change a result. Workers and
// Timeout are left out; they never change the output of a successful run.
func (u UnfoldConfig) Fingerprint() string {
	return fmt.Sprintf("%s|%g|%g|%g|%t", u.Solver, u.Tolerance, u.ClampLimit, u.Epsilon, u.Normalize)
}

// UnfoldOptions converts the settings into pipeline options. It validates
// first, so the option constructors never panic.
func (c *Config) UnfoldOptions() ([]unfold.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	method, _ := unfold.ParseMethod(c.Unfold.Method)
	solver, _ := sparse.ParseMethod(c.Unfold.Solver)

	return []unfold.Option{
		unfold.WithMethod(method),
		unfold.WithSolver(sparse.WithMethod(solver), sparse.WithTolerance(c.Unfold.Tolerance)),
		unfold.WithWorkers(c.Unfold.Workers),
		unfold.WithClampLimit(c.Unfold.ClampLimit),
		unfold.WithEpsilon(c.Unfold.Epsilon),
		unfold.WithAreaNormalization(c.Unfold.Normalize),
		unfold.WithThresholds(c.Thresholds),
	}, nil
}
