// SPDX-License-Identifier: MIT
// Package: unfold/builder
//
// helpers.go - shared parameter checks and geometry helpers.

package builder

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/unfold/mesh"
)

// checkMin rejects an integer parameter below min.
func checkMin(method, name string, v, min int) error {
	if v < min {
		return fmt.Errorf("%s: %s=%d (must be ≥ %d): %w", method, name, v, min, ErrTooSmall)
	}

	return nil
}

// checkLength rejects non-positive or non-finite lengths.
func checkLength(method, name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%s: %s=%g (must be finite and > 0): %w", method, name, v, ErrBadDimension)
	}

	return nil
}

// ringPoint returns the point at angle theta on the circle of radius r in
// the plane z.
func ringPoint(r, theta, z float64) r3.Vec {
	return r3.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta), Z: z}
}

// vertexNormals accumulates unnormalized face normals (|n| = 2·area) onto
// their vertices and normalizes the sums.
func vertexNormals(m *mesh.Mesh) []r3.Vec {
	out := make([]r3.Vec, len(m.Vertices))
	for t := range m.Triangles {
		a, b, c := m.Corners(t)
		n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
		for _, v := range m.Triangles[t] {
			out[v] = r3.Add(out[v], n)
		}
	}
	for i := range out {
		if r3.Norm(out[i]) > 0 {
			out[i] = r3.Unit(out[i])
		}
	}

	return out
}
