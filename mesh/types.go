// SPDX-License-Identifier: MIT
// Package: unfold/mesh
//
// types.go - Mesh, Triangle, Edge, BoundaryLoop.

package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle is a vertex-index triple. The winding (0→1→2) defines the outward
// normal by the right-hand rule.
type Triangle [3]int

// Edge is an undirected vertex pair normalized so that A < B.
type Edge struct {
	A, B int
}

// NewEdge returns the normalized edge {min(a,b), max(a,b)}.
func NewEdge(a, b int) Edge {
	if a < b {
		return Edge{A: a, B: b}
	}

	return Edge{A: b, B: a}
}

// Less orders edges lexicographically by (A, B).
func (e Edge) Less(o Edge) bool {
	if e.A != o.A {
		return e.A < o.A
	}

	return e.B < o.B
}

// Mesh is a triangulated surface. Vertex index equals insertion order.
// Normals is optional: empty, or exactly one entry per vertex.
type Mesh struct {
	Vertices  []r3.Vec
	Triangles []Triangle
	Normals   []r3.Vec
}

// New returns a Mesh over the given slices. The slices are not copied.
func New(vertices []r3.Vec, triangles []Triangle) *Mesh {
	return &Mesh{Vertices: vertices, Triangles: triangles}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Triangles) }

// AddVertex appends p and returns its index.
func (m *Mesh) AddVertex(p r3.Vec) int {
	m.Vertices = append(m.Vertices, p)

	return len(m.Vertices) - 1
}

// AddTriangle appends the triangle (a, b, c) and returns its index.
// Indices are checked by Validate, not here.
func (m *Mesh) AddTriangle(a, b, c int) int {
	m.Triangles = append(m.Triangles, Triangle{a, b, c})

	return len(m.Triangles) - 1
}

// Corners returns the three vertex positions of triangle t.
func (m *Mesh) Corners(t int) (a, b, c r3.Vec) {
	tri := m.Triangles[t]

	return m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Vertices:  make([]r3.Vec, len(m.Vertices)),
		Triangles: make([]Triangle, len(m.Triangles)),
	}
	copy(out.Vertices, m.Vertices)
	copy(out.Triangles, m.Triangles)
	if len(m.Normals) > 0 {
		out.Normals = make([]r3.Vec, len(m.Normals))
		copy(out.Normals, m.Normals)
	}

	return out
}

// BoundaryLoop is a closed chain of boundary vertices, ordered so that the
// mesh interior lies to the left of each step (the triangles' winding).
// The closing edge from the last vertex back to the first is implicit.
type BoundaryLoop []int

// Edges returns the loop's edges in traversal order, closing edge included.
func (l BoundaryLoop) Edges() []Edge {
	out := make([]Edge, len(l))
	for i := range l {
		out[i] = NewEdge(l[i], l[(i+1)%len(l)])
	}

	return out
}

// Contains reports whether v lies on the loop.
func (l BoundaryLoop) Contains(v int) bool {
	for _, w := range l {
		if w == v {
			return true
		}
	}

	return false
}
