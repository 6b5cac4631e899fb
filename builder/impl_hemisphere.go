// SPDX-License-Identifier: MIT
// Package: unfold/builder
//
// impl_hemisphere.go - Hemisphere(rings, segments, radius): the upper half
// of a UV sphere, open along the equator.
//
// Layout:
//   - Vertex 0 is the pole (0, 0, radius).
//   - Ring r ∈ [1, rings] sits at polar angle φ = r/rings · π/2 and holds
//     `segments` vertices; vertex (r, s) has index 1 + (r-1)·segments + s.
//   - Cap triangles (0, (1,s), (1,s+1)); each band quad a=(r,s), b=(r,s+1),
//     c=(r+1,s+1), d=(r+1,s) splits into (a,d,c) and (a,c,b). All outward.
//   - The equator ring is the single boundary loop.
//
// Counts: 1 + rings·segments vertices, segments·(2·rings − 1) triangles;
// Hemisphere(10, 20, r) has 201 vertices and 380 triangles.

package builder

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/unfold/mesh"
)

const (
	methodHemisphere = "Hemisphere"
	minRings         = 1
	minSegments      = 3
)

// Hemisphere returns a Constructor for a UV hemisphere.
func Hemisphere(rings, segments int, radius float64) Constructor {
	return func(m *mesh.Mesh, _ builderConfig) error {
		if err := checkMin(methodHemisphere, "rings", rings, minRings); err != nil {
			return err
		}
		if err := checkMin(methodHemisphere, "segments", segments, minSegments); err != nil {
			return err
		}
		if err := checkLength(methodHemisphere, "radius", radius); err != nil {
			return err
		}

		base := len(m.Vertices)
		m.AddVertex(r3.Vec{Z: radius})

		var r, s int
		for r = 1; r <= rings; r++ {
			phi := float64(r) / float64(rings) * math.Pi / 2
			ringR, z := radius*math.Sin(phi), radius*math.Cos(phi)
			if r == rings {
				z = 0
			}
			for s = 0; s < segments; s++ {
				m.AddVertex(ringPoint(ringR, 2*math.Pi*float64(s)/float64(segments), z))
			}
		}

		at := func(r, s int) int { return base + 1 + (r-1)*segments + s%segments }
		for s = 0; s < segments; s++ {
			m.AddTriangle(base, at(1, s), at(1, s+1))
		}
		for r = 1; r < rings; r++ {
			for s = 0; s < segments; s++ {
				a, b, c, d := at(r, s), at(r, s+1), at(r+1, s+1), at(r+1, s)
				m.AddTriangle(a, d, c)
				m.AddTriangle(a, c, b)
			}
		}

		return nil
	}
}
