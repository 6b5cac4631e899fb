// SPDX-License-Identifier: MIT
// Package: unfold/mesh
//
// connectivity.go - edge map, manifold checks, boundary loops, components.
//
// Contract:
//   - Analyze is the only constructor of Connectivity; it validates first.
//   - Edges are normalized low-high and visited in sorted order.
//   - Loops follow triangle winding and start at their lowest vertex.

package mesh

import (
	"fmt"
	"sort"
)

// Connectivity is the derived adjacency of a Mesh. It is recomputed from
// scratch by Analyze and never cached on the Mesh itself.
type Connectivity struct {
	// EdgeTriangles maps each undirected edge to its incident triangles, in
	// ascending triangle order.
	EdgeTriangles map[Edge][]int

	// Edges lists every undirected edge, sorted by (A, B).
	Edges []Edge

	// BoundaryEdges lists edges with exactly one incident triangle, sorted.
	BoundaryEdges []Edge

	// Loops holds the boundary chains; each starts at its lowest vertex and
	// loops are ordered by that vertex.
	Loops []BoundaryLoop

	// VertexTriangles lists, per vertex, the incident triangles ascending.
	VertexTriangles [][]int

	// Components groups triangles connected through shared edges; each
	// component is ascending and components are ordered by first triangle.
	Components [][]int

	vertexCount   int
	triangleCount int
}

// Analyze validates m and derives its connectivity.
//
// Implementation:
//   - Stage 1: Validate structure (indices, finiteness).
//   - Stage 2: Build the edge→triangle map from every (k, k+1) corner pair.
//   - Stage 3: Reject edges with more than two triangles and interior edges
//     whose two triangles traverse them in the same direction.
//   - Stage 4: Chain boundary edges, oriented by their triangle, into loops.
//   - Stage 5: Group triangles into edge-connected components (BFS).
//
// Determinism: edges are visited in sorted order, so the first defect
// reported is always the lowest offending edge.
//
// Errors:
//   - *InputError (ErrInvalidInput) from Validate.
//   - *TopologyError (ErrInvalidTopology) for an edge with more than two
//     triangles, inconsistent winding across an edge, or a bow-tie vertex.
//
// Complexity: O(V + T log T) time, O(V + T) memory.
func Analyze(m *Mesh) (*Connectivity, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	c := &Connectivity{
		EdgeTriangles:   make(map[Edge][]int, len(m.Triangles)*3/2+3),
		VertexTriangles: make([][]int, len(m.Vertices)),
		vertexCount:     len(m.Vertices),
		triangleCount:   len(m.Triangles),
	}

	var t, k int
	for t = range m.Triangles {
		tri := m.Triangles[t]
		for k = 0; k < 3; k++ {
			e := NewEdge(tri[k], tri[(k+1)%3])
			c.EdgeTriangles[e] = append(c.EdgeTriangles[e], t)
			c.VertexTriangles[tri[k]] = append(c.VertexTriangles[tri[k]], t)
		}
	}

	c.Edges = make([]Edge, 0, len(c.EdgeTriangles))
	for e := range c.EdgeTriangles {
		c.Edges = append(c.Edges, e)
	}
	sort.Slice(c.Edges, func(i, j int) bool { return c.Edges[i].Less(c.Edges[j]) })

	if err := c.checkManifold(m); err != nil {
		return nil, err
	}
	if err := c.chainBoundary(m); err != nil {
		return nil, err
	}
	c.Components = c.components(m)

	return c, nil
}

// checkManifold enforces ≤2 triangles per edge and consistent winding.
func (c *Connectivity) checkManifold(m *Mesh) error {
	for _, e := range c.Edges {
		tris := c.EdgeTriangles[e]
		switch len(tris) {
		case 1:
			c.BoundaryEdges = append(c.BoundaryEdges, e)
		case 2:
			if traversesForward(m.Triangles[tris[0]], e) == traversesForward(m.Triangles[tris[1]], e) {
				return &TopologyError{
					Err: ErrInvalidTopology, Edge: e, Vertex: -1,
					Triangles: append([]int(nil), tris...),
					Reason:    "inconsistent winding across shared edge",
				}
			}
		default:
			return &TopologyError{
				Err: ErrInvalidTopology, Edge: e, Vertex: -1,
				Triangles: append([]int(nil), tris...),
				Reason:    fmt.Sprintf("non-manifold edge shared by %d triangles", len(tris)),
			}
		}
	}

	return nil
}

// chainBoundary links boundary edges head-to-tail following triangle winding.
func (c *Connectivity) chainBoundary(m *Mesh) error {
	if len(c.BoundaryEdges) == 0 {
		return nil
	}

	next := make(map[int]int, len(c.BoundaryEdges))
	starts := make([]int, 0, len(c.BoundaryEdges))
	for _, e := range c.BoundaryEdges {
		from, to := e.A, e.B
		if !traversesForward(m.Triangles[c.EdgeTriangles[e][0]], e) {
			from, to = e.B, e.A
		}
		if prev, dup := next[from]; dup {
			return &TopologyError{
				Err: ErrInvalidTopology, Vertex: from,
				Reason: fmt.Sprintf("bow-tie boundary vertex with successors %d and %d", prev, to),
			}
		}
		next[from] = to
		starts = append(starts, from)
	}
	sort.Ints(starts)

	visited := make(map[int]bool, len(starts))
	for _, s := range starts {
		if visited[s] {
			continue
		}
		loop := BoundaryLoop{s}
		visited[s] = true
		cur, ok := next[s]
		for steps := 0; cur != s; steps++ {
			if !ok || visited[cur] || steps > len(starts) {
				return &TopologyError{
					Err: ErrInvalidTopology, Vertex: cur,
					Reason: "boundary chain does not close",
				}
			}
			visited[cur] = true
			loop = append(loop, cur)
			cur, ok = next[cur]
		}
		c.Loops = append(c.Loops, loop)
	}

	return nil
}

// components runs a BFS over the triangle adjacency induced by shared edges.
func (c *Connectivity) components(m *Mesh) [][]int {
	comp := make([]int, len(m.Triangles))
	for i := range comp {
		comp[i] = -1
	}

	var out [][]int
	queue := make([]int, 0, len(m.Triangles))
	for seed := range m.Triangles {
		if comp[seed] >= 0 {
			continue
		}
		id := len(out)
		comp[seed] = id
		members := []int{}
		queue = append(queue[:0], seed)
		for len(queue) > 0 {
			t := queue[0]
			queue = queue[1:]
			members = append(members, t)
			tri := m.Triangles[t]
			for k := 0; k < 3; k++ {
				for _, nb := range c.EdgeTriangles[NewEdge(tri[k], tri[(k+1)%3])] {
					if comp[nb] < 0 {
						comp[nb] = id
						queue = append(queue, nb)
					}
				}
			}
		}
		sort.Ints(members)
		out = append(out, members)
	}

	return out
}

// traversesForward reports whether tri walks e from e.A to e.B.
func traversesForward(tri Triangle, e Edge) bool {
	for k := 0; k < 3; k++ {
		if tri[k] == e.A && tri[(k+1)%3] == e.B {
			return true
		}
	}

	return false
}

// Closed reports whether the surface has no boundary.
func (c *Connectivity) Closed() bool { return len(c.BoundaryEdges) == 0 }

// EulerCharacteristic returns V − E + F.
func (c *Connectivity) EulerCharacteristic() int {
	return c.vertexCount - len(c.Edges) + c.triangleCount
}

// IsBoundaryVertex reports whether v lies on any boundary loop.
func (c *Connectivity) IsBoundaryVertex(v int) bool {
	for _, l := range c.Loops {
		if l.Contains(v) {
			return true
		}
	}

	return false
}

// SingleLoop returns the only boundary loop. A closed surface or a surface
// with several loops fails with ErrUnsupportedTopology.
func (c *Connectivity) SingleLoop() (BoundaryLoop, error) {
	switch len(c.Loops) {
	case 1:
		return c.Loops[0], nil
	case 0:
		return nil, &TopologyError{
			Err: ErrUnsupportedTopology, Vertex: -1,
			Reason: "closed surface has no boundary to pin",
		}
	default:
		return nil, &TopologyError{
			Err: ErrUnsupportedTopology, Vertex: -1, Loops: len(c.Loops),
			Reason: fmt.Sprintf("%d boundary loops; merge them before unfolding", len(c.Loops)),
		}
	}
}

// Disk returns the boundary loop of a single-component, single-boundary
// surface, the topology every unfolding method here requires.
func (c *Connectivity) Disk() (BoundaryLoop, error) {
	if len(c.Components) > 1 {
		return nil, &TopologyError{
			Err: ErrUnsupportedTopology, Vertex: -1,
			Reason: fmt.Sprintf("%d disconnected components", len(c.Components)),
		}
	}

	return c.SingleLoop()
}
