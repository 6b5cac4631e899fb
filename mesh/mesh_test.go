// SPDX-License-Identifier: MIT

package mesh_test

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/unfold/builder"
	"github.com/katalvlaran/unfold/mesh"
)

func square() *mesh.Mesh {
	return mesh.New(
		[]r3.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		[]mesh.Triangle{{0, 1, 2}, {0, 2, 3}},
	)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *mesh.Mesh)
		field  string
		index  int
	}{
		{"no vertices", func(m *mesh.Mesh) { m.Vertices = nil }, "vertices", -1},
		{"no triangles", func(m *mesh.Mesh) { m.Triangles = nil }, "triangles", -1},
		{"NaN vertex", func(m *mesh.Mesh) { m.Vertices[2].Y = math.NaN() }, "vertices", 2},
		{"Inf vertex", func(m *mesh.Mesh) { m.Vertices[1].Z = math.Inf(-1) }, "vertices", 1},
		{"index out of range", func(m *mesh.Mesh) { m.Triangles[1][2] = 4 }, "triangles", 1},
		{"negative index", func(m *mesh.Mesh) { m.Triangles[0][0] = -1 }, "triangles", 0},
		{"repeated index", func(m *mesh.Mesh) { m.Triangles[1] = mesh.Triangle{0, 2, 0} }, "triangles", 1},
		{"duplicate triangle", func(m *mesh.Mesh) { m.Triangles = append(m.Triangles, mesh.Triangle{2, 0, 1}) }, "triangles", 2},
		{"unreferenced vertex", func(m *mesh.Mesh) { m.Vertices = append(m.Vertices, r3.Vec{X: 9}) }, "vertices", 4},
		{"normals length", func(m *mesh.Mesh) { m.Normals = []r3.Vec{{Z: 1}} }, "normals", -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := square()
			tc.mutate(m)
			err := m.Validate()
			require.ErrorIs(t, err, mesh.ErrInvalidInput)

			var ie *mesh.InputError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tc.field, ie.Field)
			assert.Equal(t, tc.index, ie.Index)
		})
	}
}

func TestValidate_NilMesh(t *testing.T) {
	var m *mesh.Mesh
	require.ErrorIs(t, m.Validate(), mesh.ErrInvalidInput)
}

func TestAnalyze_Square(t *testing.T) {
	c, err := mesh.Analyze(square())
	require.NoError(t, err)

	assert.Len(t, c.Edges, 5)
	assert.Equal(t, []mesh.Edge{{0, 1}, {0, 3}, {1, 2}, {2, 3}}, c.BoundaryEdges)
	assert.Equal(t, []int{0, 1}, c.EdgeTriangles[mesh.Edge{A: 0, B: 2}])
	require.Len(t, c.Loops, 1)
	assert.Equal(t, mesh.BoundaryLoop{0, 1, 2, 3}, c.Loops[0])
	assert.Equal(t, [][]int{{0, 1}, {0}, {0, 1}, {1}}, c.VertexTriangles)
	assert.False(t, c.Closed())
	assert.True(t, c.IsBoundaryVertex(3))

	loop, err := c.Disk()
	require.NoError(t, err)
	assert.Equal(t, c.Loops[0], loop)
}

func TestAnalyze_LoopFollowsWinding(t *testing.T) {
	// Same square wound clockwise: the loop runs the other way.
	m := mesh.New(square().Vertices, []mesh.Triangle{{0, 2, 1}, {0, 3, 2}})
	c, err := mesh.Analyze(m)
	require.NoError(t, err)
	assert.Equal(t, mesh.BoundaryLoop{0, 3, 2, 1}, c.Loops[0])
}

func TestAnalyze_NonManifoldEdge(t *testing.T) {
	m := builder.MustBuild(nil, builder.Fan(3))
	_, err := mesh.Analyze(m)
	require.ErrorIs(t, err, mesh.ErrInvalidTopology)

	var te *mesh.TopologyError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, mesh.Edge{A: 0, B: 1}, te.Edge)
	assert.Equal(t, []int{0, 1, 2}, te.Triangles)
}

func TestAnalyze_InconsistentWinding(t *testing.T) {
	m := square()
	m.Triangles[1] = mesh.Triangle{0, 3, 2}
	_, err := mesh.Analyze(m)
	require.ErrorIs(t, err, mesh.ErrInvalidTopology)
	assert.Contains(t, err.Error(), "winding")
}

func TestAnalyze_BowTie(t *testing.T) {
	// Two triangles touching only at vertex 0.
	m := mesh.New(
		[]r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {X: -1}, {X: -1, Y: -1}},
		[]mesh.Triangle{{0, 1, 2}, {0, 3, 4}},
	)
	_, err := mesh.Analyze(m)
	require.ErrorIs(t, err, mesh.ErrInvalidTopology)

	var te *mesh.TopologyError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 0, te.Vertex)
}

func TestConnectivity_UnsupportedTopology(t *testing.T) {
	tests := []struct {
		name string
		ctor builder.Constructor
	}{
		{"closed", builder.Octahedron(1)},
		{"two loops", builder.Annulus(8, 0.5, 1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := mesh.Analyze(builder.MustBuild(nil, tc.ctor))
			require.NoError(t, err)
			_, err = c.SingleLoop()
			require.ErrorIs(t, err, mesh.ErrUnsupportedTopology)
		})
	}
}

func TestDocument_RoundTrip(t *testing.T) {
	m := builder.MustBuild([]builder.Option{builder.WithNormals()}, builder.Grid(2, 1, 2, 1))

	for _, f := range []mesh.Format{mesh.FormatYAML, mesh.FormatJSON} {
		var buf bytes.Buffer
		require.NoError(t, mesh.Encode(&buf, m, f))
		got, err := mesh.Decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, m.Vertices, got.Vertices)
		assert.Equal(t, m.Triangles, got.Triangles)
		assert.Equal(t, m.Normals, got.Normals)
		assert.Equal(t, m.ContentHash(), got.ContentHash())
	}
}

func TestDecode_Errors(t *testing.T) {
	_, err := mesh.Decode(strings.NewReader("vertices: [[0, 0]]\ntriangles: []\n"))
	require.ErrorIs(t, err, mesh.ErrInvalidInput)

	_, err = mesh.Decode(strings.NewReader(""))
	require.ErrorIs(t, err, mesh.ErrInvalidInput)

	_, err = mesh.Decode(strings.NewReader("vertices: {"))
	require.Error(t, err)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	m := square()
	for _, name := range []string{"sq.yaml", "sq.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, mesh.WriteFile(path, m))
		got, err := mesh.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, m.ContentHash(), got.ContentHash())
	}
	assert.Equal(t, mesh.FormatJSON, mesh.FormatFromPath("a/B.JSON"))
	assert.Equal(t, mesh.FormatYAML, mesh.FormatFromPath("a/b.yml"))

	_, err := mesh.ReadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestContentHash(t *testing.T) {
	a, b := square(), square()
	assert.Equal(t, a.ContentHash(), b.ContentHash())
	assert.Len(t, a.ContentHash(), 64)

	b.Vertices[2].X = math.Nextafter(1, 2)
	assert.NotEqual(t, a.ContentHash(), b.ContentHash())

	c := a.Clone()
	c.Triangles[0], c.Triangles[1] = c.Triangles[1], c.Triangles[0]
	assert.NotEqual(t, a.ContentHash(), c.ContentHash())
}

func TestEdgeAndLoopHelpers(t *testing.T) {
	assert.Equal(t, mesh.Edge{A: 2, B: 5}, mesh.NewEdge(5, 2))
	assert.True(t, mesh.NewEdge(1, 9).Less(mesh.NewEdge(2, 3)))
	l := mesh.BoundaryLoop{3, 1, 2}
	assert.Equal(t, []mesh.Edge{{1, 3}, {1, 2}, {2, 3}}, l.Edges())
	assert.False(t, l.Contains(0))
}
