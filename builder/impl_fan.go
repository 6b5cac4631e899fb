// SPDX-License-Identifier: MIT
// Package: unfold/builder
//
// impl_fan.go - Fan(n): n triangles hinged on one shared edge.
//
// Vertices 0 = (0,0,0) and 1 = (1,0,0) form the hinge; blade k adds vertex
// 2+k on the unit circle around the x axis at angle 2πk/n and the triangle
// (0, 1, 2+k). Every blade walks the hinge 0→1, so Fan(2) has inconsistent
// winding and Fan(n ≥ 3) a non-manifold edge; Fan(1) is a plain triangle.

package builder

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/unfold/mesh"
)

const (
	methodFan  = "Fan"
	minFanSize = 1
)

// Fan returns a Constructor for n triangles sharing the edge (0, 1).
func Fan(n int) Constructor {
	return func(m *mesh.Mesh, _ builderConfig) error {
		if err := checkMin(methodFan, "n", n, minFanSize); err != nil {
			return err
		}

		base := len(m.Vertices)
		m.AddVertex(r3.Vec{})
		m.AddVertex(r3.Vec{X: 1})
		for k := 0; k < n; k++ {
			a := 2 * math.Pi * float64(k) / float64(n)
			m.AddVertex(r3.Vec{X: 0.5, Y: math.Cos(a), Z: math.Sin(a)})
			m.AddTriangle(base, base+1, base+2+k)
		}

		return nil
	}
}
