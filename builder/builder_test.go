// SPDX-License-Identifier: MIT

package builder_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/unfold/builder"
	"github.com/katalvlaran/unfold/mesh"
)

// TestBuilders_Counts runs table-driven count and topology checks for each fixture.
func TestBuilders_Counts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		ctor      builder.Constructor
		wantV     int
		wantT     int
		wantLoops int
		wantEuler int
	}{
		{"Square", builder.Square(1), 4, 2, 1, 1},
		{"Grid(3,2)", builder.Grid(3, 2, 3, 2), 12, 12, 1, 1},
		{"Hemisphere(10,20)", builder.Hemisphere(10, 20, 1), 201, 380, 1, 1},
		{"Disk(8)", builder.Disk(8, 1), 9, 8, 1, 1},
		{"Annulus(8)", builder.Annulus(8, 0.5, 1), 16, 16, 2, 0},
		{"Octahedron", builder.Octahedron(1), 6, 8, 0, 2},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m, err := builder.Build(nil, tc.ctor)
			require.NoError(t, err)
			assert.Equal(t, tc.wantV, m.VertexCount())
			assert.Equal(t, tc.wantT, m.TriangleCount())

			c, err := mesh.Analyze(m)
			require.NoError(t, err)
			assert.Len(t, c.Loops, tc.wantLoops)
			assert.Equal(t, tc.wantEuler, c.EulerCharacteristic())
			assert.Len(t, c.Components, 1)
		})
	}
}

func TestGrid_OrientationAndLayout(t *testing.T) {
	m := builder.MustBuild(nil, builder.Grid(2, 2, 4, 2))
	require.Equal(t, r3.Vec{X: 2, Y: 1}, m.Vertices[4])
	for i := range m.Triangles {
		a, b, c := m.Corners(i)
		n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
		assert.Greater(t, n.Z, 0.0, "triangle %d must face +z", i)
	}
}

func TestGrid_JitterKeepsBorderAndIsDeterministic(t *testing.T) {
	opts := []builder.Option{builder.WithSeed(7), builder.WithJitter(0.2)}
	a := builder.MustBuild(opts, builder.Grid(4, 4, 1, 1))
	b := builder.MustBuild([]builder.Option{builder.WithSeed(7), builder.WithJitter(0.2)}, builder.Grid(4, 4, 1, 1))
	require.Equal(t, a.Vertices, b.Vertices)

	plain := builder.MustBuild(nil, builder.Grid(4, 4, 1, 1))
	assert.Equal(t, plain.Vertices[0], a.Vertices[0])
	assert.Equal(t, plain.Vertices[24], a.Vertices[24])
	assert.NotEqual(t, plain.Vertices[6], a.Vertices[6])
	for i := range a.Vertices {
		assert.Zero(t, a.Vertices[i].Z)
	}
}

func TestHemisphere_OnSphereAndOutward(t *testing.T) {
	m := builder.MustBuild(nil, builder.Hemisphere(4, 8, 2))
	for i, p := range m.Vertices {
		assert.InDelta(t, 2.0, r3.Norm(p), 1e-12, "vertex %d", i)
		assert.GreaterOrEqual(t, p.Z, 0.0)
	}
	for i := range m.Triangles {
		a, b, c := m.Corners(i)
		n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
		centroid := r3.Scale(1.0/3, r3.Add(a, r3.Add(b, c)))
		assert.Greater(t, r3.Dot(n, centroid), 0.0, "triangle %d must face outward", i)
	}
}

func TestFan_NonManifold(t *testing.T) {
	m := builder.MustBuild(nil, builder.Fan(3))
	_, err := mesh.Analyze(m)
	require.ErrorIs(t, err, mesh.ErrInvalidTopology)
}

func TestTranslated_DisjointComponents(t *testing.T) {
	m := builder.MustBuild(nil,
		builder.Square(1),
		builder.Translated(r3.Vec{X: 5}, builder.Square(1)),
	)
	require.Equal(t, 8, m.VertexCount())
	assert.Equal(t, r3.Vec{X: 5}, m.Vertices[4])
	assert.Equal(t, mesh.Triangle{4, 5, 7}, m.Triangles[2])

	c, err := mesh.Analyze(m)
	require.NoError(t, err)
	assert.Len(t, c.Components, 2)
	_, err = c.Disk()
	assert.ErrorIs(t, err, mesh.ErrUnsupportedTopology)
}

func TestWithNormals(t *testing.T) {
	m := builder.MustBuild([]builder.Option{builder.WithNormals()}, builder.Grid(2, 2, 1, 1))
	require.Len(t, m.Normals, m.VertexCount())
	for _, n := range m.Normals {
		assert.InDelta(t, 1.0, n.Z, 1e-12)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		ctor builder.Constructor
		want error
	}{
		{"grid nx=0", builder.Grid(0, 1, 1, 1), builder.ErrTooSmall},
		{"grid width=0", builder.Grid(1, 1, 0, 1), builder.ErrBadDimension},
		{"hemisphere segments=2", builder.Hemisphere(2, 2, 1), builder.ErrTooSmall},
		{"annulus inverted", builder.Annulus(6, 2, 1), builder.ErrBadDimension},
		{"fan n=0", builder.Fan(0), builder.ErrTooSmall},
		{"nil", nil, builder.ErrConstructFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := builder.Build(nil, tc.ctor)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestByName(t *testing.T) {
	for _, k := range builder.Kinds() {
		c, err := builder.ByName(k, 3)
		require.NoError(t, err, k)
		_, err = builder.Build(nil, c)
		require.NoError(t, err, k)
	}
	_, err := builder.ByName("torus", 3)
	assert.ErrorIs(t, err, builder.ErrUnknownKind)
}

func TestOptions_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "builder: WithRand(nil)", func() { builder.WithRand(nil) })
	assert.Panics(t, func() { builder.WithJitter(0.3) })
	assert.Panics(t, func() { builder.WithJitter(-0.1) })
}
