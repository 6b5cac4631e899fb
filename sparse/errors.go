// SPDX-License-Identifier: MIT
// Package sparse: sentinel errors and the solve-failure carrier.
//
// Every message is prefixed with "sparse: ..." for grepping. Validators
// return the sentinels wrapped with their tag ("ValidateSquare: %w");
// callers branch with errors.Is.
//
// ERROR PRIORITY (enforced in Solve):
// nil -> shape -> vector length -> NaN/Inf -> symmetry -> numerical failure.

package sparse

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when requested dimensions are negative.
	ErrBadShape = errors.New("sparse: invalid shape")

	// ErrOutOfRange indicates a row or column index outside the matrix.
	ErrOutOfRange = errors.New("sparse: index out of range")

	// ErrDimensionMismatch indicates incompatible operand sizes, such as a
	// non-square system matrix or a right-hand side of the wrong length.
	ErrDimensionMismatch = errors.New("sparse: dimension mismatch")

	// ErrNaNInf signals a NaN or ±Inf entry where finite values are required.
	ErrNaNInf = errors.New("sparse: NaN or Inf encountered")

	// ErrAsymmetry signals that a matrix expected to be symmetric is not,
	// within the symmetry tolerance.
	ErrAsymmetry = errors.New("sparse: matrix is not symmetric within tolerance")

	// ErrNilMatrix indicates a nil *CSR or *Builder.
	ErrNilMatrix = errors.New("sparse: nil matrix")

	// ErrSolveFailure marks a numerical failure of the linear solve: the
	// matrix is singular or not positive definite, an iteration did not
	// converge, or the final residual exceeds the tolerance.
	ErrSolveFailure = errors.New("sparse: solve failed")
)

// SolveError carries the diagnostics of a failed solve.
type SolveError struct {
	Method     Method
	Residual   float64 // relative residual at failure, NaN when never computed
	Iterations int     // CG iterations performed, 0 for Cholesky
	Reason     string
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("sparse: solve failed (%s): %s (residual %g after %d iterations)",
		e.Method, e.Reason, e.Residual, e.Iterations)
}

// Unwrap returns ErrSolveFailure.
func (e *SolveError) Unwrap() error { return ErrSolveFailure }

// sparseErrorf tags err with an operation name.
func sparseErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
