// SPDX-License-Identifier: MIT
// Package: unfold/geometry
//
// geometry.go - per-triangle areas, interior angles, cotangents and local
// orthonormal frames.
//
// Contract:
//   - Cot(u, v) = (u·v)/|u×v| for the two edge vectors leaving a corner.
//   - Area < Epsilon is degenerate and always fails; nothing is skipped.
//   - Results are independent of Options.Workers.
//
// Complexity: O(T) time and memory.

package geometry

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/unfold/internal/parallel"
	"github.com/katalvlaran/unfold/mesh"
)

// ErrDegenerateGeometry marks a triangle whose area is below the epsilon.
var ErrDegenerateGeometry = errors.New("geometry: degenerate triangle")

// DegenerateError names the offending triangle.
type DegenerateError struct {
	Triangle int
	Area     float64
	Epsilon  float64
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("geometry: degenerate triangle %d: area %g < %g", e.Triangle, e.Area, e.Epsilon)
}

// Unwrap returns ErrDegenerateGeometry.
func (e *DegenerateError) Unwrap() error { return ErrDegenerateGeometry }

// DefaultEpsilon is the minimum accepted triangle area.
const DefaultEpsilon = 1e-12

// Options configures Evaluate. The zero value uses DefaultEpsilon and
// GOMAXPROCS workers.
type Options struct {
	Epsilon float64
	Workers int
}

// DefaultOptions returns Options{Epsilon: DefaultEpsilon}.
func DefaultOptions() Options {
	return Options{Epsilon: DefaultEpsilon}
}

// Frame is an orthonormal basis in the plane of a triangle: Origin is
// corner 0, E1 points along edge 0→1 and E2 = Normal × E1.
type Frame struct {
	Origin, E1, E2, Normal r3.Vec
}

// Project returns the in-plane coordinates of p.
func (f Frame) Project(p r3.Vec) [2]float64 {
	d := r3.Sub(p, f.Origin)

	return [2]float64{r3.Dot(d, f.E1), r3.Dot(d, f.E2)}
}

// TriangleGeometry holds the quantities of one triangle. Index k refers to
// the corner at Triangle[k].
type TriangleGeometry struct {
	Area   float64
	Angles [3]float64 // interior angles, radians
	Cot    [3]float64 // cot of Angles[k]
	Frame  Frame
	Local  [3][2]float64 // corners in Frame: (0,0), (|e01|,0), (x, y>0)
}

// Table is the result of Evaluate.
type Table struct {
	Triangles []TriangleGeometry
	TotalArea float64
}

// Evaluate computes the per-triangle geometry of m. m must be structurally
// valid (mesh.Validate); out-of-range indices panic.
//
// Implementation:
//   - Stage 1: Triangles are split into contiguous chunks; each chunk fills
//     its own slots of the output, stopping at its first degenerate triangle.
//   - Stage 2: The lowest failing chunk wins, which makes the reported
//     triangle the lowest degenerate index overall.
//   - Stage 3: TotalArea is summed sequentially in triangle order.
//
// Errors:
//   - *DegenerateError (ErrDegenerateGeometry) for the lowest triangle with
//     area below Epsilon.
//   - ctx.Err() when cancelled between chunks.
func Evaluate(ctx context.Context, m *mesh.Mesh, opts Options) (*Table, error) {
	eps := opts.Epsilon
	if eps <= 0 {
		eps = DefaultEpsilon
	}

	out := make([]TriangleGeometry, len(m.Triangles))
	err := parallel.ForChunks(ctx, len(m.Triangles), opts.Workers, func(_ context.Context, _ int, r parallel.Range) error {
		for t := r.Lo; t < r.Hi; t++ {
			a, b, c := m.Corners(t)
			g, ok := evalTriangle(a, b, c, eps)
			if !ok {
				return &DegenerateError{Triangle: t, Area: g.Area, Epsilon: eps}
			}
			out[t] = g
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	tab := &Table{Triangles: out}
	for i := range out {
		tab.TotalArea += out[i].Area
	}

	return tab, nil
}

// evalTriangle reports ok=false (with Area filled) for degenerate input.
func evalTriangle(a, b, c r3.Vec, eps float64) (TriangleGeometry, bool) {
	var g TriangleGeometry
	ab, ac := r3.Sub(b, a), r3.Sub(c, a)
	n := r3.Cross(ab, ac)
	g.Area = 0.5 * r3.Norm(n)
	if !(g.Area >= eps) {
		return g, false
	}

	p := [3]r3.Vec{a, b, c}
	for k := 0; k < 3; k++ {
		u := r3.Sub(p[(k+1)%3], p[k])
		v := r3.Sub(p[(k+2)%3], p[k])
		g.Angles[k] = Angle(u, v)
		g.Cot[k] = Cot(u, v)
	}

	e1 := r3.Unit(ab)
	nh := r3.Unit(n)
	g.Frame = Frame{Origin: a, E1: e1, E2: r3.Cross(nh, e1), Normal: nh}
	g.Local[1] = [2]float64{r3.Norm(ab), 0}
	g.Local[2] = g.Frame.Project(c)

	return g, true
}

// Cot returns the cotangent of the angle between u and v, (u·v)/|u×v|.
// Parallel vectors give ±Inf (or NaN for zero vectors).
func Cot(u, v r3.Vec) float64 {
	return r3.Dot(u, v) / r3.Norm(r3.Cross(u, v))
}

// Angle returns the unsigned angle between u and v in [0, π], computed as
// atan2(|u×v|, u·v), which stays accurate near 0 and π.
func Angle(u, v r3.Vec) float64 {
	return math.Atan2(r3.Norm(r3.Cross(u, v)), r3.Dot(u, v))
}
