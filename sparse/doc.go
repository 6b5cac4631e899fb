// SPDX-License-Identifier: MIT

// Package sparse stores and solves the sparse symmetric systems produced by
// mesh parameterization.
//
// What:
//
//   - Builder: (row, col, value) triplets in insertion order.
//   - CSR: compressed sparse rows with At, MatVec, Diagonal, IsSymmetric and
//     a bridge to gonum (ToSymDense).
//   - Solve: Cholesky (gonum/mat) or Jacobi-preconditioned conjugate
//     gradient (gonum/floats), chosen by size under Auto.
//
// Why:
//
//	The reduced LSCM matrix has about 14 non-zeros per row. Small systems
//	are solved exactly and cheaply in dense form; large ones would need
//	O(n²) memory, so they go through CG on the sparse form instead.
//
// Complexity:
//
//   - Builder.Build: O(k log k) for k triplets.
//   - Cholesky:      O(n³) time, O(n²) memory.
//   - CG:            O(iterations · nnz) time, O(n) memory.
//
// Errors:
//
//   - ErrBadShape, ErrOutOfRange, ErrDimensionMismatch, ErrNaNInf,
//     ErrAsymmetry, ErrNilMatrix: input validation.
//   - ErrSolveFailure (*SolveError): singular or indefinite matrix,
//     non-convergence, residual above tolerance.
package sparse
