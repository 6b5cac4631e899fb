// SPDX-License-Identifier: MIT
// Package: unfold/builder
//
// impl_grid.go - Grid(nx, ny, width, height): a planar rectangle in z = 0.
//
// Contract:
//   - nx ≥ 1, ny ≥ 1 (else ErrTooSmall); width, height > 0 (else ErrBadDimension).
//   - (nx+1)·(ny+1) vertices in row-major order: index j·(nx+1)+i sits at
//     (i·width/nx, j·height/ny, 0).
//   - Each cell a=(i,j), b=(i+1,j), c=(i+1,j+1), d=(i,j+1) emits (a,b,c)
//     then (a,c,d): counter-clockwise seen from +z.
//   - With WithJitter, interior vertices move in-plane; the border stays put.
//
// Complexity: O(nx·ny) time and memory.

package builder

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/unfold/mesh"
)

const (
	methodGrid = "Grid"
	minGridDim = 1
)

// Grid returns a Constructor for an nx×ny cell rectangle of size width×height.
func Grid(nx, ny int, width, height float64) Constructor {
	return func(m *mesh.Mesh, cfg builderConfig) error {
		// 1) Validate parameters early; no partial work.
		if err := checkMin(methodGrid, "nx", nx, minGridDim); err != nil {
			return err
		}
		if err := checkMin(methodGrid, "ny", ny, minGridDim); err != nil {
			return err
		}
		if err := checkLength(methodGrid, "width", width); err != nil {
			return err
		}
		if err := checkLength(methodGrid, "height", height); err != nil {
			return err
		}

		base := len(m.Vertices)
		cw, ch := width/float64(nx), height/float64(ny)
		amp := cfg.jitter * math.Min(cw, ch)

		// 2) Vertices, row-major.
		var i, j int
		for j = 0; j <= ny; j++ {
			for i = 0; i <= nx; i++ {
				p := r3.Vec{X: float64(i) * cw, Y: float64(j) * ch}
				if amp > 0 && i > 0 && i < nx && j > 0 && j < ny {
					p.X += (2*cfg.rng.Float64() - 1) * amp
					p.Y += (2*cfg.rng.Float64() - 1) * amp
				}
				m.AddVertex(p)
			}
		}

		// 3) Two triangles per cell, same diagonal everywhere.
		idx := func(i, j int) int { return base + j*(nx+1) + i }
		for j = 0; j < ny; j++ {
			for i = 0; i < nx; i++ {
				a, b, c, d := idx(i, j), idx(i+1, j), idx(i+1, j+1), idx(i, j+1)
				m.AddTriangle(a, b, c)
				m.AddTriangle(a, c, d)
			}
		}

		return nil
	}
}

// Square is Grid(1, 1, side, side): four vertices, two triangles.
func Square(side float64) Constructor {
	return Grid(1, 1, side, side)
}
