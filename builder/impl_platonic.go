// SPDX-License-Identifier: MIT
// Package: unfold/builder
//
// impl_platonic.go - Octahedron(radius): a closed surface with outward winding.
//
// Vertex order: +x, -x, +y, -y, +z, -z. Eight faces, each wound so the
// right-hand normal points away from the origin. Euler characteristic 2.

package builder

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/unfold/mesh"
)

const methodOctahedron = "Octahedron"

var octahedronFaces = [8]mesh.Triangle{
	{4, 0, 2}, {4, 2, 1}, {4, 1, 3}, {4, 3, 0},
	{5, 2, 0}, {5, 1, 2}, {5, 3, 1}, {5, 0, 3},
}

// Octahedron returns a Constructor for the regular octahedron inscribed in
// the sphere of the given radius.
func Octahedron(radius float64) Constructor {
	return func(m *mesh.Mesh, _ builderConfig) error {
		if err := checkLength(methodOctahedron, "radius", radius); err != nil {
			return err
		}

		base := len(m.Vertices)
		for _, p := range []r3.Vec{
			{X: radius}, {X: -radius},
			{Y: radius}, {Y: -radius},
			{Z: radius}, {Z: -radius},
		} {
			m.AddVertex(p)
		}
		for _, f := range octahedronFaces {
			m.AddTriangle(base+f[0], base+f[1], base+f[2])
		}

		return nil
	}
}
