// SPDX-License-Identifier: MIT
// Package: unfold/builder
//
// options.go - functional options for Build.
//
// Contract:
//   - Options are functional (type Option func(*builderConfig)).
//   - Option constructors validate and panic on meaningless inputs;
//     constructors themselves never panic.

package builder

import (
	"math"
	"math/rand"
)

// Option customizes Build by mutating the builderConfig before any
// constructor runs.
type Option func(*builderConfig)

// WithRand provides an explicit RNG for jitter. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("builder: WithRand(nil)")
	}

	return func(c *builderConfig) {
		c.rng = r
	}
}

// WithSeed seeds a new RNG for jitter.
func WithSeed(seed int64) Option {
	return func(c *builderConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithJitter perturbs interior Grid vertices in-plane by up to frac of the
// smaller cell side. The grid stays planar and its triangles keep their
// orientation. Panics unless 0 ≤ frac < 0.25.
func WithJitter(frac float64) Option {
	if math.IsNaN(frac) || frac < 0 || frac >= 0.25 {
		panic("builder: WithJitter(frac outside [0,0.25))")
	}

	return func(c *builderConfig) {
		c.jitter = frac
	}
}

// WithNormals fills Mesh.Normals with area-weighted vertex normals.
func WithNormals() Option {
	return func(c *builderConfig) {
		c.normals = true
	}
}
