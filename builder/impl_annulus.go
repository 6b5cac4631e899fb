// SPDX-License-Identifier: MIT
// Package: unfold/builder
//
// impl_annulus.go - planar ring and disk fixtures in z = 0.
//
//   - Annulus(segments, inner, outer): inner ring 0..S-1, outer ring S..2S-1;
//     two boundary loops, so unfolding rejects it as unsupported topology.
//   - Disk(segments, radius): centre vertex plus one ring; a single loop.
//
// Both are wound counter-clockwise seen from +z.

package builder

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/unfold/mesh"
)

const (
	methodAnnulus = "Annulus"
	methodDisk    = "Disk"
)

// Annulus returns a Constructor for a flat ring between two radii.
func Annulus(segments int, inner, outer float64) Constructor {
	return func(m *mesh.Mesh, _ builderConfig) error {
		if err := checkMin(methodAnnulus, "segments", segments, minSegments); err != nil {
			return err
		}
		if err := checkLength(methodAnnulus, "inner", inner); err != nil {
			return err
		}
		if err := checkLength(methodAnnulus, "outer", outer); err != nil {
			return err
		}
		if inner >= outer {
			return fmt.Errorf("%s: inner=%g ≥ outer=%g: %w", methodAnnulus, inner, outer, ErrBadDimension)
		}

		base := len(m.Vertices)
		var s int
		for _, r := range [2]float64{inner, outer} {
			for s = 0; s < segments; s++ {
				m.AddVertex(ringPoint(r, 2*math.Pi*float64(s)/float64(segments), 0))
			}
		}
		in := func(s int) int { return base + s%segments }
		out := func(s int) int { return base + segments + s%segments }
		for s = 0; s < segments; s++ {
			m.AddTriangle(in(s), out(s), out(s+1))
			m.AddTriangle(in(s), out(s+1), in(s+1))
		}

		return nil
	}
}

// Disk returns a Constructor for a triangle fan around a centre vertex.
func Disk(segments int, radius float64) Constructor {
	return func(m *mesh.Mesh, _ builderConfig) error {
		if err := checkMin(methodDisk, "segments", segments, minSegments); err != nil {
			return err
		}
		if err := checkLength(methodDisk, "radius", radius); err != nil {
			return err
		}

		base := len(m.Vertices)
		m.AddVertex(r3.Vec{})
		for s := 0; s < segments; s++ {
			m.AddVertex(ringPoint(radius, 2*math.Pi*float64(s)/float64(segments), 0))
		}
		for s := 0; s < segments; s++ {
			m.AddTriangle(base, base+1+s, base+1+(s+1)%segments)
		}

		return nil
	}
}
