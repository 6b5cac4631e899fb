// SPDX-License-Identifier: MIT

// Package builder produces deterministic triangle-mesh fixtures for tests,
// examples, benchmarks and the `unfold generate` command.
//
// Constructors (each returns a Constructor closure):
//
//   - Grid, Square:  planar rectangles in z = 0; optional in-plane jitter.
//   - Hemisphere:    UV half-sphere open along the equator (disk topology).
//   - Disk:          planar triangle fan around a centre vertex.
//   - Annulus:       planar ring with two boundary loops.
//   - Octahedron:    closed surface.
//   - Fan:           n triangles on one hinge edge (non-manifold for n ≥ 3).
//   - Triangle:      a single triangle from explicit corners.
//   - Translated:    rigidly moves what another constructor added.
//
// Composition:
//
//	m, err := builder.Build(nil, builder.Grid(4, 4, 1, 1),
//		builder.Translated(r3.Vec{X: 5}, builder.Disk(8, 1)))
//
// Options (WithSeed, WithRand, WithJitter, WithNormals) are functional and
// panic on meaningless values; constructors return ErrTooSmall,
// ErrBadDimension or ErrUnknownKind instead of panicking.
package builder
