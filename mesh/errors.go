// SPDX-License-Identifier: MIT
// Package: unfold/mesh
//
// errors.go - sentinels and typed carriers for input and topology failures.
//
// Contract:
//   - Every carrier unwraps to exactly one sentinel.
//   - Messages are prefixed "mesh: ".

package mesh

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers branch with errors.Is; the typed carriers below
// add the offending indices and unwrap to one of these.
var (
	// ErrInvalidInput marks malformed caller data: out-of-range or repeated
	// indices, non-finite coordinates, mismatched array lengths.
	ErrInvalidInput = errors.New("mesh: invalid input")

	// ErrInvalidTopology marks a mesh that is not an oriented 2-manifold:
	// an edge shared by more than two triangles, a bow-tie boundary vertex,
	// or two triangles traversing a shared edge in the same direction.
	ErrInvalidTopology = errors.New("mesh: invalid topology")

	// ErrUnsupportedTopology marks a valid manifold that the unfolding
	// methods cannot handle: no boundary, several boundary loops, or several
	// disconnected components.
	ErrUnsupportedTopology = errors.New("mesh: unsupported topology")
)

// InputError locates a malformed input element.
type InputError struct {
	Field  string // "vertices", "triangles", "normals", "pins"
	Index  int    // element index inside Field, -1 when not applicable
	Reason string
}

func (e *InputError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("mesh: invalid %s: %s", e.Field, e.Reason)
	}

	return fmt.Sprintf("mesh: invalid %s[%d]: %s", e.Field, e.Index, e.Reason)
}

// Unwrap returns ErrInvalidInput.
func (e *InputError) Unwrap() error { return ErrInvalidInput }

// TopologyError locates a topological defect. Err is ErrInvalidTopology or
// ErrUnsupportedTopology.
type TopologyError struct {
	Err       error
	Edge      Edge  // offending edge, zero when the defect is not edge-local
	Vertex    int   // offending vertex, -1 when not vertex-local
	Triangles []int // triangles involved, ascending
	Loops     int   // boundary loop count, for loop-related defects
	Reason    string
}

func (e *TopologyError) Error() string {
	switch {
	case len(e.Triangles) > 0:
		return fmt.Sprintf("%v: edge (%d,%d) triangles %v: %s", e.Err, e.Edge.A, e.Edge.B, e.Triangles, e.Reason)
	case e.Vertex >= 0:
		return fmt.Sprintf("%v: vertex %d: %s", e.Err, e.Vertex, e.Reason)
	default:
		return fmt.Sprintf("%v: %s", e.Err, e.Reason)
	}
}

// Unwrap returns the sentinel classifying the defect.
func (e *TopologyError) Unwrap() error { return e.Err }

func inputErr(field string, index int, format string, args ...any) error {
	return &InputError{Field: field, Index: index, Reason: fmt.Sprintf(format, args...)}
}
