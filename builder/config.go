// SPDX-License-Identifier: MIT
// Package: unfold/builder
//
// config.go - internal configuration and deterministic defaults.
//
// Deterministic defaults:
//   - rng     = nil   (no randomness unless seeded)
//   - jitter  = 0     (grid interior vertices stay on the lattice)
//   - normals = false (Mesh.Normals left empty)

package builder

import "math/rand"

// builderConfig aggregates all knobs used by constructors. It is passed by
// value to constructors.
type builderConfig struct {
	// RNG for jitter; nil means no randomness.
	rng *rand.Rand
	// In-plane perturbation of interior grid vertices, as a fraction of the
	// smaller cell side, in [0, 0.25).
	jitter float64
	// Compute area-weighted vertex normals after all constructors ran.
	normals bool
}

// newBuilderConfig applies opts in order over the defaults. Jitter without
// an RNG falls back to a fixed seed so results stay reproducible.
func newBuilderConfig(opts ...Option) builderConfig {
	cfg := builderConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.jitter > 0 && cfg.rng == nil {
		cfg.rng = rand.New(rand.NewSource(defaultSeed))
	}

	return cfg
}

const defaultSeed = 1
