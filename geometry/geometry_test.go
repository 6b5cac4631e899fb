// SPDX-License-Identifier: MIT

package geometry_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/unfold/builder"
	"github.com/katalvlaran/unfold/geometry"
	"github.com/katalvlaran/unfold/mesh"
)

func TestEvaluate_RightTriangle(t *testing.T) {
	m := builder.MustBuild(nil, builder.Triangle(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: 1}))
	tab, err := geometry.Evaluate(context.Background(), m, geometry.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, tab.Triangles, 1)

	g := tab.Triangles[0]
	assert.InDelta(t, 0.5, g.Area, 1e-15)
	assert.InDelta(t, 0.5, tab.TotalArea, 1e-15)
	assert.InDelta(t, math.Pi/2, g.Angles[0], 1e-12)
	assert.InDelta(t, math.Pi/4, g.Angles[1], 1e-12)
	assert.InDelta(t, math.Pi/4, g.Angles[2], 1e-12)
	assert.InDelta(t, 0, g.Cot[0], 1e-12)
	assert.InDelta(t, 1, g.Cot[1], 1e-12)
	assert.InDelta(t, 1, g.Cot[2], 1e-12)

	assert.Equal(t, [2]float64{0, 0}, g.Local[0])
	assert.InDelta(t, 1, g.Local[1][0], 1e-15)
	assert.InDelta(t, 0, g.Local[2][0], 1e-12)
	assert.InDelta(t, 1, g.Local[2][1], 1e-12)
	assert.InDelta(t, 1, g.Frame.Normal.Z, 1e-15)
}

func TestEvaluate_TiltedFrameKeepsLengths(t *testing.T) {
	a, b, c := r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{X: 2, Y: 4, Z: 3}, r3.Vec{X: 0, Y: 3, Z: 5}
	m := builder.MustBuild(nil, builder.Triangle(a, b, c))
	tab, err := geometry.Evaluate(context.Background(), m, geometry.Options{})
	require.NoError(t, err)

	g := tab.Triangles[0]
	l := g.Local
	assert.InDelta(t, r3.Norm(r3.Sub(c, a)), math.Hypot(l[2][0], l[2][1]), 1e-12)
	assert.InDelta(t, r3.Norm(r3.Sub(c, b)), math.Hypot(l[2][0]-l[1][0], l[2][1]), 1e-12)
	assert.Greater(t, l[2][1], 0.0)
	assert.InDelta(t, math.Pi, g.Angles[0]+g.Angles[1]+g.Angles[2], 1e-12)
}

func TestEvaluate_GridTotalArea(t *testing.T) {
	m := builder.MustBuild(nil, builder.Grid(40, 30, 4, 3))
	tab, err := geometry.Evaluate(context.Background(), m, geometry.Options{Workers: 4})
	require.NoError(t, err)
	assert.InDelta(t, 12.0, tab.TotalArea, 1e-9)
	assert.Len(t, tab.Triangles, 2400)
}

func TestEvaluate_DegenerateLowestIndex(t *testing.T) {
	m := builder.MustBuild(nil, builder.Grid(30, 30, 1, 1))
	// Collapse two triangles far apart; the lower index must be reported.
	collapse := func(tri int) {
		v := m.Vertices[m.Triangles[tri][0]]
		m.Triangles[tri] = mesh.Triangle{m.Triangles[tri][0], m.AddVertex(v), m.AddVertex(r3.Add(v, r3.Vec{X: 1e-3}))}
	}
	collapse(1500)
	collapse(1700)

	for i := 0; i < 5; i++ {
		_, err := geometry.Evaluate(context.Background(), m, geometry.Options{Workers: 8})
		require.ErrorIs(t, err, geometry.ErrDegenerateGeometry)

		var de *geometry.DegenerateError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, 1500, de.Triangle)
		assert.Zero(t, de.Area)
	}
}

func TestEvaluate_EpsilonThreshold(t *testing.T) {
	m := builder.MustBuild(nil, builder.Triangle(r3.Vec{}, r3.Vec{X: 1e-3}, r3.Vec{Y: 1e-3}))
	_, err := geometry.Evaluate(context.Background(), m, geometry.Options{Epsilon: 1e-6})
	require.ErrorIs(t, err, geometry.ErrDegenerateGeometry)

	_, err = geometry.Evaluate(context.Background(), m, geometry.Options{Epsilon: 1e-7})
	require.NoError(t, err)
}

func TestEvaluate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := geometry.Evaluate(ctx, builder.MustBuild(nil, builder.Square(1)), geometry.Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPrimitives(t *testing.T) {
	x, y := r3.Vec{X: 1}, r3.Vec{X: 1, Y: 1}
	assert.InDelta(t, 1.0, geometry.Cot(x, y), 1e-15)
	assert.InDelta(t, math.Pi/4, geometry.Angle(x, y), 1e-15)
	assert.InDelta(t, math.Pi, geometry.Angle(x, r3.Vec{X: -2}), 1e-15)
	assert.True(t, math.IsInf(geometry.Cot(x, r3.Vec{X: 3}), 1))
}
