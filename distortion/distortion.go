// SPDX-License-Identifier: MIT
// Package: unfold/distortion
//
// distortion.go - per-triangle metrics, aggregates and the quality score.

// Package distortion measures how far a UV layout is from its 3D surface,
// per triangle and in aggregate, and condenses that into a quality score.
//
// Per triangle:
//
//   - AngleDeg:     max over the three corners of |θ3D − θ2D|, degrees.
//   - Area:         |A2/A3 − 1| with A2 the unsigned UV area.
//   - Conformality: σmin/σmax of the affine map from the triangle's local
//     frame to UV; 1 for a similarity, 0 for a collapse.
//   - Flipped:      the UV image reverses the triangle's winding.
//
// Quality:
//
//	q = f(meanAngle / MaxAngleDeg) · f(meanArea / MaxArea),  f(x) = 1 / (1 + 4x²)
//
// so an isometric layout scores 1 and any mean at its configured maximum
// caps its factor at 0.2.
package distortion

import (
	"context"
	"fmt"
	"math"

	"github.com/jbeda/geom"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/unfold/geometry"
	"github.com/katalvlaran/unfold/internal/parallel"
	"github.com/katalvlaran/unfold/mesh"
)

// Defaults used to normalize the quality score.
const (
	DefaultMaxAngleDeg = 15.0
	DefaultMaxArea     = 2.0
)

// Options configures Analyze.
type Options struct {
	MaxAngleDeg float64 // quality normalizer for mean angle distortion (> 0)
	MaxArea     float64 // quality normalizer for mean area distortion (> 0)
	Workers     int
}

// DefaultOptions returns the documented normalizers.
func DefaultOptions() Options {
	return Options{MaxAngleDeg: DefaultMaxAngleDeg, MaxArea: DefaultMaxArea}
}

// Triangle holds the distortion of one triangle.
type Triangle struct {
	AngleDeg     float64 `json:"angle_deg" yaml:"angle_deg"`
	Area         float64 `json:"area" yaml:"area"`
	AreaRatio    float64 `json:"area_ratio" yaml:"area_ratio"`
	Conformality float64 `json:"conformality" yaml:"conformality"`
	Flipped      bool    `json:"flipped,omitempty" yaml:"flipped,omitempty"`
}

// Stats aggregates one metric over all triangles. Variance is the unbiased
// sample variance, 0 for a single triangle.
type Stats struct {
	Max      float64 `json:"max" yaml:"max"`
	Mean     float64 `json:"mean" yaml:"mean"`
	Variance float64 `json:"variance" yaml:"variance"`
}

// Report is the result of Analyze.
type Report struct {
	Triangles    []Triangle `json:"triangles,omitempty" yaml:"triangles,omitempty"`
	Angle        Stats      `json:"angle_deg" yaml:"angle_deg"`
	Area         Stats      `json:"area" yaml:"area"`
	Conformality Stats      `json:"conformality" yaml:"conformality"`
	Flipped      int        `json:"flipped" yaml:"flipped"`
	Quality      float64    `json:"quality" yaml:"quality"`
}

// Analyze compares the UV layout uv (one point per vertex of m) against the
// 3D geometry in tab.
//
// Errors:
//   - *mesh.InputError (ErrInvalidInput) when len(uv) differs from the vertex
//     count or a UV coordinate is NaN/Inf, or when tab does not match m.
//   - ctx.Err() when cancelled between chunks.
func Analyze(ctx context.Context, m *mesh.Mesh, tab *geometry.Table, uv []geom.Coord, opts Options) (*Report, error) {
	if len(uv) != len(m.Vertices) {
		return nil, &mesh.InputError{Field: "uv", Index: -1,
			Reason: fmt.Sprintf("got %d points for %d vertices", len(uv), len(m.Vertices))}
	}
	if len(tab.Triangles) != len(m.Triangles) {
		return nil, &mesh.InputError{Field: "geometry", Index: -1,
			Reason: fmt.Sprintf("table has %d triangles, mesh %d", len(tab.Triangles), len(m.Triangles))}
	}
	for i, p := range uv {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return nil, &mesh.InputError{Field: "uv", Index: i, Reason: "non-finite coordinate"}
		}
	}
	if opts.MaxAngleDeg <= 0 {
		opts.MaxAngleDeg = DefaultMaxAngleDeg
	}
	if opts.MaxArea <= 0 {
		opts.MaxArea = DefaultMaxArea
	}

	out := make([]Triangle, len(m.Triangles))
	err := parallel.ForChunks(ctx, len(m.Triangles), opts.Workers, func(_ context.Context, _ int, r parallel.Range) error {
		for t := r.Lo; t < r.Hi; t++ {
			tri := m.Triangles[t]
			out[t] = measure(&tab.Triangles[t], [3]geom.Coord{uv[tri[0]], uv[tri[1]], uv[tri[2]]})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	rep := &Report{Triangles: out}
	angle := make([]float64, len(out))
	area := make([]float64, len(out))
	conf := make([]float64, len(out))
	for i, d := range out {
		angle[i], area[i], conf[i] = d.AngleDeg, d.Area, d.Conformality
		if d.Flipped {
			rep.Flipped++
		}
	}
	rep.Angle, rep.Area, rep.Conformality = summarize(angle), summarize(area), summarize(conf)
	rep.Quality = Quality(rep.Angle.Mean, rep.Area.Mean, opts.MaxAngleDeg, opts.MaxArea)

	return rep, nil
}

// Quality returns f(meanAngle/maxAngle)·f(meanArea/maxArea) with
// f(x) = 1/(1+4x²).
func Quality(meanAngle, meanArea, maxAngle, maxArea float64) float64 {
	f := func(x float64) float64 { return 1 / (1 + 4*x*x) }

	return f(meanAngle/maxAngle) * f(meanArea/maxArea)
}

func summarize(x []float64) Stats {
	if len(x) == 0 {
		return Stats{}
	}
	mean, variance := stat.MeanVariance(x, nil)
	if len(x) < 2 || math.IsNaN(variance) {
		variance = 0
	}

	return Stats{Max: floats.Max(x), Mean: mean, Variance: variance}
}

// measure compares one triangle's 3D geometry with its UV image.
func measure(g *geometry.TriangleGeometry, q [3]geom.Coord) Triangle {
	var d Triangle

	// Stage 1: corner angles.
	for k := 0; k < 3; k++ {
		u := q[(k+1)%3].Minus(q[k])
		v := q[(k+2)%3].Minus(q[k])
		a2 := math.Atan2(math.Abs(cross2(u, v)), u.X*v.X+u.Y*v.Y)
		if diff := math.Abs(g.Angles[k]-a2) * 180 / math.Pi; diff > d.AngleDeg {
			d.AngleDeg = diff
		}
	}

	// Stage 2: areas and orientation.
	signed := 0.5 * cross2(q[1].Minus(q[0]), q[2].Minus(q[0]))
	d.Flipped = signed < 0
	d.AreaRatio = math.Abs(signed) / g.Area
	d.Area = math.Abs(d.AreaRatio - 1)

	// Stage 3: Jacobian J = F·E⁻¹ of the local-frame → UV affine map, with
	// E the local edge vectors and F their images. Split J into its
	// conformal (p) and anti-conformal (r) parts: σmax = p+r, σmin = |p−r|.
	ex1, ey1 := g.Local[1][0]-g.Local[0][0], g.Local[1][1]-g.Local[0][1]
	ex2, ey2 := g.Local[2][0]-g.Local[0][0], g.Local[2][1]-g.Local[0][1]
	f1, f2 := q[1].Minus(q[0]), q[2].Minus(q[0])
	det := ex1*ey2 - ex2*ey1
	if det != 0 {
		// E⁻¹ = 1/det · [[ey2, −ex2], [−ey1, ex1]]
		a := (f1.X*ey2 - f2.X*ey1) / det
		b := (-f1.X*ex2 + f2.X*ex1) / det
		c := (f1.Y*ey2 - f2.Y*ey1) / det
		e := (-f1.Y*ex2 + f2.Y*ex1) / det
		p := 0.5 * math.Hypot(a+e, c-b)
		r := 0.5 * math.Hypot(a-e, c+b)
		if smax := p + r; smax > 0 {
			d.Conformality = math.Abs(p-r) / smax
		}
	}

	return d
}

func cross2(u, v geom.Coord) float64 {
	return u.X*v.Y - u.Y*v.X
}
