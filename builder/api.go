// SPDX-License-Identifier: MIT
// Package: unfold/builder
//
// api.go - public entry-point for composing mesh fixtures.
//
// Design contract:
//   - One orchestrator: Build(opts, cons...). Creates an empty mesh, resolves
//     the config, runs the constructors in order, validates the result.
//   - Constructors append; indices they emit are offset by the vertex count
//     at the time they run, so several constructors compose into disjoint
//     pieces of one mesh.
//   - Determinism: same options, seed and constructor order give identical
//     meshes (vertex order, triangle order, coordinates).

package builder

import (
	"fmt"

	"github.com/katalvlaran/unfold/mesh"
)

// Constructor appends a deterministic piece of surface to m using the
// resolved builderConfig. Constructors validate their parameters first and
// return sentinel errors; they never panic.
type Constructor func(m *mesh.Mesh, cfg builderConfig) error

// Build creates an empty mesh, applies every constructor in order and
// validates the structure of the result (mesh.Validate). Topology is not
// checked here: Fan deliberately produces a non-manifold edge and
// Octahedron a closed surface.
//
// Complexity: Σ cost of the constructors plus O(V + T log T) validation.
func Build(opts []Option, cons ...Constructor) (*mesh.Mesh, error) {
	cfg := newBuilderConfig(opts...)
	m := &mesh.Mesh{}

	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("Build: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(m, cfg); err != nil {
			return nil, fmt.Errorf("Build: %w", err)
		}
	}

	if cfg.normals {
		m.Normals = vertexNormals(m)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}

	return m, nil
}

// MustBuild is Build for fixtures known to be valid; it panics on error.
func MustBuild(opts []Option, cons ...Constructor) *mesh.Mesh {
	m, err := Build(opts, cons...)
	if err != nil {
		panic(err)
	}

	return m
}
