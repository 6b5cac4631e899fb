// SPDX-License-Identifier: MIT
// Package: unfold/mesh
//
// validate.go - structural validation of a Mesh.
//
// Order of checks: vertices, triangles, normals. The first violation wins.

package mesh

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// Validate checks the structural invariants of m:
//   - at least one vertex and one triangle,
//   - finite vertex coordinates,
//   - every triangle index in [0, V) with three distinct indices,
//   - no two triangles over the same vertex set,
//   - every vertex referenced by at least one triangle,
//   - Normals either empty or one finite entry per vertex.
//
// It returns the first violation in a fixed order (vertices, triangles,
// normals) as an *InputError. Degenerate (zero-area) triangles are geometry,
// not structure, and are left to the geometry package.
//
// Complexity: O(V + T log T).
func (m *Mesh) Validate() error {
	if m == nil {
		return inputErr("mesh", -1, "nil mesh")
	}
	if len(m.Vertices) == 0 {
		return inputErr("vertices", -1, "empty vertex list")
	}
	if len(m.Triangles) == 0 {
		return inputErr("triangles", -1, "empty triangle list")
	}

	var i int
	for i = range m.Vertices {
		if !finite(m.Vertices[i]) {
			return inputErr("vertices", i, "non-finite coordinate %v", m.Vertices[i])
		}
	}

	n := len(m.Vertices)
	used := make([]bool, n)
	keys := make([]Triangle, len(m.Triangles))
	for i = range m.Triangles {
		tri := m.Triangles[i]
		for k := 0; k < 3; k++ {
			if tri[k] < 0 || tri[k] >= n {
				return inputErr("triangles", i, "vertex index %d out of range [0,%d)", tri[k], n)
			}
			used[tri[k]] = true
		}
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2] {
			return inputErr("triangles", i, "repeated vertex index in %v", tri)
		}
		keys[i] = sortedTriangle(tri)
	}

	// Duplicate faces share all three edges and would masquerade as a
	// manifold pair; catch them by sorted-key comparison.
	order := make([]int, len(keys))
	for i = range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return triangleLess(keys[order[a]], keys[order[b]]) })
	for i = 1; i < len(order); i++ {
		if keys[order[i]] == keys[order[i-1]] {
			first, second := order[i-1], order[i]
			if first > second {
				first, second = second, first
			}

			return inputErr("triangles", second, "duplicates triangle %d", first)
		}
	}

	for i = range used {
		if !used[i] {
			return inputErr("vertices", i, "not referenced by any triangle")
		}
	}

	if len(m.Normals) > 0 {
		if len(m.Normals) != n {
			return inputErr("normals", -1, "got %d normals for %d vertices", len(m.Normals), n)
		}
		for i = range m.Normals {
			if !finite(m.Normals[i]) {
				return inputErr("normals", i, "non-finite normal %v", m.Normals[i])
			}
		}
	}

	return nil
}

func finite(p r3.Vec) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}

func sortedTriangle(t Triangle) Triangle {
	if t[0] > t[1] {
		t[0], t[1] = t[1], t[0]
	}
	if t[1] > t[2] {
		t[1], t[2] = t[2], t[1]
	}
	if t[0] > t[1] {
		t[0], t[1] = t[1], t[0]
	}

	return t
}

func triangleLess(a, b Triangle) bool {
	for k := 0; k < 3; k++ {
		if a[k] != b[k] {
			return a[k] < b[k]
		}
	}

	return false
}
