// SPDX-License-Identifier: MIT
// Package: unfold/lscm
//
// solve.go - solving a System into per-vertex UVs, optional area scaling.

package lscm

import (
	"context"
	"math"

	"github.com/jbeda/geom"

	"github.com/katalvlaran/unfold/geometry"
	"github.com/katalvlaran/unfold/mesh"
	"github.com/katalvlaran/unfold/sparse"
)

// Parameterization is the solved UV layout: exactly one point per input
// vertex, in input order. It is not modified after Solve returns, except by
// NormalizeArea on a value the caller owns.
type Parameterization struct {
	UV         []geom.Coord  `json:"uv" yaml:"uv"`
	Pins       []Pin         `json:"pins" yaml:"pins"`
	Solver     sparse.Method `json:"solver" yaml:"solver"` // strategy used; Cholesky when nothing was free
	Iterations int           `json:"iterations" yaml:"iterations"`
	Residual   float64       `json:"residual" yaml:"residual"`
	Scale      float64       `json:"scale" yaml:"scale"` // factor applied by NormalizeArea, 1 when untouched
	Warnings   []Warning     `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Solve solves sys and expands the result to per-vertex UVs. A system with
// no free unknowns (every vertex pinned) is returned directly from the pins.
//
// Errors:
//   - *sparse.SolveError (ErrSolveFailure) on a singular system,
//     non-convergence or a residual above tolerance.
//   - ctx.Err() (wrapped) on cancellation or deadline.
func Solve(ctx context.Context, sys *System, opts ...sparse.Option) (*Parameterization, error) {
	p := &Parameterization{
		Pins:     append([]Pin(nil), sys.Pins...),
		Solver:   sparse.Cholesky,
		Scale:    1,
		Warnings: sys.Warnings,
	}

	x := []float64{}
	if len(sys.Free) > 0 {
		sol, err := sparse.Solve(ctx, sys.A, sys.B, opts...)
		if err != nil {
			return nil, err
		}
		x = sol.X
		p.Solver, p.Iterations, p.Residual = sol.Method, sol.Iterations, sol.Residual
	}

	uv, err := sys.Expand(x)
	if err != nil {
		return nil, err
	}
	p.UV = uv

	return p, nil
}

// SignedArea returns the signed area of triangle t in the UV plane;
// positive when the image keeps the triangle's winding counter-clockwise.
func SignedArea(uv []geom.Coord, tri mesh.Triangle) float64 {
	a, b, c := uv[tri[0]], uv[tri[1]], uv[tri[2]]
	ab, ac := b.Minus(a), c.Minus(a)

	return 0.5 * (ab.X*ac.Y - ab.Y*ac.X)
}

// NormalizeArea scales the layout about the first pin so that its total
// unsigned UV area equals the total 3D area in tab. Angles are unchanged.
// It returns the factor applied (1 when the UV area is zero).
func (p *Parameterization) NormalizeArea(m *mesh.Mesh, tab *geometry.Table) float64 {
	a2 := 0.0
	for _, tri := range m.Triangles {
		a2 += math.Abs(SignedArea(p.UV, tri))
	}
	if !(a2 > 0) || len(p.Pins) == 0 {
		return 1
	}

	s := math.Sqrt(tab.TotalArea / a2)
	origin := p.UV[p.Pins[0].Vertex]
	for i := range p.UV {
		p.UV[i] = origin.Plus(p.UV[i].Minus(origin).Times(s))
	}
	for i := range p.Pins {
		p.Pins[i].U, p.Pins[i].V = p.UV[p.Pins[i].Vertex].X, p.UV[p.Pins[i].Vertex].Y
	}
	p.Scale *= s

	return s
}
