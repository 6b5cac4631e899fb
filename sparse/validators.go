// SPDX-License-Identifier: MIT
// Package: sparse
//
// validators.go - canonical guards shared by CSR methods and Solve.
// Each returns its sentinel wrapped with the validator tag.

package sparse

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ValidateNotNil ensures the matrix reference is non-nil.
func ValidateNotNil(m *CSR) error {
	if m == nil {
		return sparseErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSquare ensures Rows == Cols. Assumes m is not nil.
func ValidateSquare(m *CSR) error {
	if m.r != m.c {
		return sparseErrorf("ValidateSquare", ErrDimensionMismatch)
	}

	return nil
}

// ValidateVecLen ensures len(x) == n.
func ValidateVecLen(x []float64, n int) error {
	if len(x) != n {
		return sparseErrorf("ValidateVecLen", ErrDimensionMismatch)
	}

	return nil
}

// ValidateFinite rejects NaN and ±Inf entries.
func ValidateFinite(x []float64) error {
	if floats.HasNaN(x) {
		return sparseErrorf("ValidateFinite", ErrNaNInf)
	}
	for _, v := range x {
		if math.IsInf(v, 0) {
			return sparseErrorf("ValidateFinite", ErrNaNInf)
		}
	}

	return nil
}

// ValidateSymmetric ensures m is symmetric within eps (see CSR.IsSymmetric).
func ValidateSymmetric(m *CSR, eps float64) error {
	if !m.IsSymmetric(eps) {
		return sparseErrorf("ValidateSymmetric", ErrAsymmetry)
	}

	return nil
}
