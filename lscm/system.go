// SPDX-License-Identifier: MIT
// Package: unfold/lscm
//
// system.go - assembly of the reduced conformal (or harmonic) system.
//
// Contract:
//   - Unknowns are interleaved (u_0, v_0, u_1, v_1, ...); pinned ones move
//     to the right-hand side.
//   - Cotangents are clamped to ±ClampLimit; each clamp yields a Warning.
//   - Chunk outputs are merged in chunk order, so A and B do not depend on
//     the worker count.

package lscm

import (
	"context"
	"fmt"
	"math"

	"github.com/jbeda/geom"

	"github.com/katalvlaran/unfold/geometry"
	"github.com/katalvlaran/unfold/internal/parallel"
	"github.com/katalvlaran/unfold/mesh"
	"github.com/katalvlaran/unfold/sparse"
)

// DefaultClampLimit bounds |cot θ| before assembly.
const DefaultClampLimit = 1e6

// Options configures system assembly. Zero fields take their defaults.
type Options struct {
	ClampLimit float64
	Workers    int
}

// DefaultOptions returns Options{ClampLimit: DefaultClampLimit}.
func DefaultOptions() Options {
	return Options{ClampLimit: DefaultClampLimit}
}

// Warning records a cotangent that was clamped during assembly.
type Warning struct {
	Triangle int     `json:"triangle" yaml:"triangle"`
	Corner   int     `json:"corner" yaml:"corner"`
	Value    float64 `json:"value" yaml:"value"` // cotangent before clamping
}

func (w Warning) String() string {
	return fmt.Sprintf("triangle %d corner %d: cotangent %g clamped", w.Triangle, w.Corner, w.Value)
}

// System is the reduced linear system A·x = B over the free unknowns.
// Unknowns are interleaved per vertex: u_i at 2i, v_i at 2i+1.
type System struct {
	A        *sparse.CSR
	B        []float64
	Free     []int // global unknown of each reduced row, ascending
	Pins     []Pin
	Warnings []Warning

	vertices int
	fixed    []float64 // value of each pinned global unknown
	pinned   []bool
}

// VertexCount returns the number of mesh vertices the system covers.
func (s *System) VertexCount() int { return s.vertices }

// Expand merges a reduced solution with the pinned values into one UV
// point per vertex, in vertex order.
func (s *System) Expand(x []float64) ([]geom.Coord, error) {
	if len(x) != len(s.Free) {
		return nil, fmt.Errorf("lscm: Expand: got %d values for %d free unknowns: %w", len(x), len(s.Free), sparse.ErrDimensionMismatch)
	}
	full := append([]float64(nil), s.fixed...)
	for r, g := range s.Free {
		full[g] = x[r]
	}
	uv := make([]geom.Coord, s.vertices)
	for i := range uv {
		uv[i] = geom.Coord{X: full[2*i], Y: full[2*i+1]}
	}

	return uv, nil
}

// Build assembles the least-squares conformal system for m.
//
// Energy: E_C = E_D − A, the Dirichlet energy
//
//	E_D = ¼ Σ_T Σ_k cot θ_k |f_p − f_q|²   ((p, q) the edge opposite corner k)
//
// minus the signed parametric area
//
//	A = ½ Σ_T Σ_(i→j) (u_i v_j − u_j v_i)   (edges in triangle winding order).
//
// E_C ≥ 0 and vanishes exactly on orientation-preserving conformal maps.
// Writing E_C = xᵀQx, the pinned unknowns move to the right-hand side:
// Q_ff x_f = −Q_fp x_p. pins must satisfy ValidatePins.
//
// Implementation:
//   - Stage 1: Validate pins, index free unknowns in ascending order.
//   - Stage 2: Each triangle chunk emits Q entries; entries touching a
//     pinned column become right-hand-side terms. Chunk outputs keep
//     triangle order.
//   - Stage 3: Chunk outputs are concatenated in chunk order and compressed,
//     so the result does not depend on Options.Workers.
//
// Errors:
//   - *mesh.InputError (ErrInvalidInput) from ValidatePins.
//   - sparse.ErrDimensionMismatch when tab does not match m.
//   - ctx.Err() when cancelled between chunks.
func Build(ctx context.Context, m *mesh.Mesh, tab *geometry.Table, pins []Pin, opts Options) (*System, error) {
	return assemble(ctx, m, tab, pins, opts, true)
}

// BuildHarmonic assembles the cotangent-Laplacian system (E_D alone) with
// the whole boundary loop fixed on a circle (CirclePins).
func BuildHarmonic(ctx context.Context, m *mesh.Mesh, tab *geometry.Table, loop mesh.BoundaryLoop, opts Options) (*System, error) {
	pins, err := CirclePins(m, loop)
	if err != nil {
		return nil, err
	}

	return assemble(ctx, m, tab, pins, opts, false)
}

// rhsTerm is one contribution to B, applied in emission order.
type rhsTerm struct {
	row int
	val float64
}

type chunkOut struct {
	a    *sparse.Builder
	rhs  []rhsTerm
	warn []Warning
}

func assemble(ctx context.Context, m *mesh.Mesh, tab *geometry.Table, pins []Pin, opts Options, conformal bool) (*System, error) {
	if len(tab.Triangles) != len(m.Triangles) {
		return nil, fmt.Errorf("lscm: geometry table has %d triangles, mesh %d: %w",
			len(tab.Triangles), len(m.Triangles), sparse.ErrDimensionMismatch)
	}
	if err := ValidatePins(m, pins); err != nil {
		return nil, err
	}
	limit := opts.ClampLimit
	if limit <= 0 {
		limit = DefaultClampLimit
	}

	// Stage 1: unknown bookkeeping.
	n := len(m.Vertices)
	s := &System{
		Pins:     append([]Pin(nil), pins...),
		vertices: n,
		fixed:    make([]float64, 2*n),
		pinned:   make([]bool, 2*n),
	}
	for _, p := range pins {
		s.pinned[2*p.Vertex], s.pinned[2*p.Vertex+1] = true, true
		s.fixed[2*p.Vertex], s.fixed[2*p.Vertex+1] = p.U, p.V
	}
	index := make([]int, 2*n)
	for g := range index {
		if s.pinned[g] {
			index[g] = -1
			continue
		}
		index[g] = len(s.Free)
		s.Free = append(s.Free, g)
	}
	nf := len(s.Free)

	// Stage 2: per-chunk emission.
	ranges := parallel.Split(len(m.Triangles), opts.Workers)
	outs := make([]chunkOut, len(ranges))
	err := parallel.Run(ctx, ranges, opts.Workers, func(_ context.Context, c int, r parallel.Range) error {
		b, err := sparse.NewBuilder(nf, nf, 24*r.Len())
		if err != nil {
			return err
		}
		out := chunkOut{a: b}
		emit := func(g1, g2 int, val float64) error {
			row := index[g1]
			if row < 0 {
				return nil
			}
			if col := index[g2]; col >= 0 {
				return out.a.Add(row, col, val)
			}
			out.rhs = append(out.rhs, rhsTerm{row: row, val: -val * s.fixed[g2]})

			return nil
		}

		var t, k int
		for t = r.Lo; t < r.Hi; t++ {
			tri := m.Triangles[t]
			for k = 0; k < 3; k++ {
				cot := tab.Triangles[t].Cot[k]
				if math.Abs(cot) > limit || math.IsNaN(cot) {
					out.warn = append(out.warn, Warning{Triangle: t, Corner: k, Value: cot})
					cot = clamp(cot, limit)
				}
				p, q := tri[(k+1)%3], tri[(k+2)%3]
				w := cot / 4
				for d := 0; d < 2; d++ {
					pp, qq := 2*p+d, 2*q+d
					if err = firstErr(emit(pp, pp, w), emit(qq, qq, w), emit(pp, qq, -w), emit(qq, pp, -w)); err != nil {
						return err
					}
				}
				if conformal {
					// −½(u_p v_q − u_q v_p) for the oriented edge p→q.
					up, vp, uq, vq := 2*p, 2*p+1, 2*q, 2*q+1
					if err = firstErr(emit(up, vq, -0.25), emit(vq, up, -0.25), emit(uq, vp, 0.25), emit(vp, uq, 0.25)); err != nil {
						return err
					}
				}
			}
		}
		outs[c] = out

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Stage 3: deterministic merge.
	total, err := sparse.NewBuilder(nf, nf, 0)
	if err != nil {
		return nil, err
	}
	s.B = make([]float64, nf)
	for _, out := range outs {
		if err = total.Append(out.a); err != nil {
			return nil, err
		}
		for _, term := range out.rhs {
			s.B[term.row] += term.val
		}
		s.Warnings = append(s.Warnings, out.warn...)
	}
	s.A = total.Build()

	return s, nil
}

// clamp limits v to [−limit, limit]; NaN maps to +limit.
func clamp(v, limit float64) float64 {
	switch {
	case math.IsNaN(v), v > limit:
		return limit
	case v < -limit:
		return -limit
	}

	return v
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}
