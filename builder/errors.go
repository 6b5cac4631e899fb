// SPDX-License-Identifier: MIT
// Package: unfold/builder
//
// errors.go - sentinel errors for the builder package.
//
// Error policy:
//   - Only sentinel variables are exposed; callers branch with errors.Is.
//   - Constructors attach context with %w ("Grid: nx=0 ...: %w").
//   - Validation panics are confined to option constructors (WithX).

package builder

import "errors"

// ErrTooSmall indicates that a size parameter (cells, rings, segments, fan
// blades) is below the minimum of its constructor.
var ErrTooSmall = errors.New("builder: parameter too small")

// ErrBadDimension indicates a non-positive or non-finite length (width,
// height, radius) or an inverted pair (inner ≥ outer radius).
var ErrBadDimension = errors.New("builder: invalid dimension")

// ErrUnknownKind indicates that ByName was asked for a fixture it does not know.
var ErrUnknownKind = errors.New("builder: unknown fixture kind")

// ErrConstructFailed indicates a programmer error in composition, such as a
// nil constructor passed to Build.
var ErrConstructFailed = errors.New("builder: construction failed")
