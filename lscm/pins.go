// SPDX-License-Identifier: MIT
// Package: unfold/lscm
//
// pins.go - automatic pin choice, caller pin validation, circle boundary.

package lscm

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/unfold/mesh"
)

// Pin fixes the (U, V) position of one vertex.
type Pin struct {
	Vertex int     `json:"vertex" yaml:"vertex"`
	U      float64 `json:"u" yaml:"u"`
	V      float64 `json:"v" yaml:"v"`
}

// tieTolerance is the relative margin a candidate pair must beat the best
// distance by; anything closer counts as a tie and the earlier pair stays.
const tieTolerance = 1e-12

// AutoPins chooses the two boundary vertices farthest apart in 3D. Pairs
// are scanned in ascending (i, j) vertex order, so among near-equal
// distances the lowest indices win. The first pin maps to (0, 0), the
// second to (d, 0) where d is their 3D distance.
//
// Errors: *mesh.InputError (Field "pins") when the loop has fewer than two
// vertices or all of them coincide.
//
// Complexity: O(B²) for B boundary vertices.
func AutoPins(m *mesh.Mesh, loop mesh.BoundaryLoop) ([]Pin, error) {
	if len(loop) < 2 {
		return nil, &mesh.InputError{Field: "pins", Index: -1, Reason: "boundary loop has fewer than two vertices"}
	}

	vs := append([]int(nil), loop...)
	sort.Ints(vs)

	bi, bj, best := -1, -1, -1.0
	var i, j int
	for i = 0; i < len(vs); i++ {
		for j = i + 1; j < len(vs); j++ {
			d := r3.Norm(r3.Sub(m.Vertices[vs[i]], m.Vertices[vs[j]]))
			if d > best*(1+tieTolerance) {
				bi, bj, best = vs[i], vs[j], d
			}
		}
	}
	if !(best > 0) {
		return nil, &mesh.InputError{Field: "pins", Index: -1, Reason: "all boundary vertices coincide"}
	}

	return []Pin{{Vertex: bi}, {Vertex: bj, U: best}}, nil
}

// ValidatePins checks caller-supplied pins against m: at least two pins,
// vertex indices in range and unique, finite positions, and at least two
// distinct positions. Failures are *mesh.InputError with Field "pins".
func ValidatePins(m *mesh.Mesh, pins []Pin) error {
	if len(pins) < 2 {
		return &mesh.InputError{Field: "pins", Index: -1, Reason: fmt.Sprintf("need at least 2 pins, got %d", len(pins))}
	}

	seen := make(map[int]int, len(pins))
	distinct := false
	for i, p := range pins {
		if p.Vertex < 0 || p.Vertex >= len(m.Vertices) {
			return &mesh.InputError{Field: "pins", Index: i,
				Reason: fmt.Sprintf("vertex %d out of range [0,%d)", p.Vertex, len(m.Vertices))}
		}
		if prev, dup := seen[p.Vertex]; dup {
			return &mesh.InputError{Field: "pins", Index: i,
				Reason: fmt.Sprintf("vertex %d already pinned by pin %d", p.Vertex, prev)}
		}
		seen[p.Vertex] = i
		if math.IsNaN(p.U) || math.IsInf(p.U, 0) || math.IsNaN(p.V) || math.IsInf(p.V, 0) {
			return &mesh.InputError{Field: "pins", Index: i, Reason: "non-finite position"}
		}
		if p.U != pins[0].U || p.V != pins[0].V {
			distinct = true
		}
	}
	if !distinct {
		return &mesh.InputError{Field: "pins", Index: -1, Reason: "all pins share one position"}
	}

	return nil
}

// ValidateBoundaryPins runs ValidatePins and then requires every pinned
// vertex to lie on loop. An interior pin fails with *mesh.InputError
// (Field "pins", Index of the pin).
func ValidateBoundaryPins(m *mesh.Mesh, loop mesh.BoundaryLoop, pins []Pin) error {
	if err := ValidatePins(m, pins); err != nil {
		return err
	}
	for i, p := range pins {
		if !loop.Contains(p.Vertex) {
			return &mesh.InputError{Field: "pins", Index: i,
				Reason: fmt.Sprintf("vertex %d is not on the boundary", p.Vertex)}
		}
	}

	return nil
}

// CirclePins fixes every vertex of loop on a circle, spaced by chord length
// and traversed counter-clockwise in loop order. The radius is the loop's
// perimeter over 2π, so boundary length is preserved.
func CirclePins(m *mesh.Mesh, loop mesh.BoundaryLoop) ([]Pin, error) {
	if len(loop) < 3 {
		return nil, &mesh.InputError{Field: "pins", Index: -1, Reason: "boundary loop has fewer than three vertices"}
	}

	cum := make([]float64, len(loop)+1)
	for i := range loop {
		a, b := m.Vertices[loop[i]], m.Vertices[loop[(i+1)%len(loop)]]
		cum[i+1] = cum[i] + r3.Norm(r3.Sub(b, a))
	}
	total := cum[len(loop)]
	if !(total > 0) {
		return nil, &mesh.InputError{Field: "pins", Index: -1, Reason: "boundary has zero length"}
	}

	radius := total / (2 * math.Pi)
	pins := make([]Pin, len(loop))
	for i, v := range loop {
		theta := 2 * math.Pi * cum[i] / total
		pins[i] = Pin{Vertex: v, U: radius * math.Cos(theta), V: radius * math.Sin(theta)}
	}

	return pins, nil
}
