// SPDX-License-Identifier: MIT
// Package: sparse
//
// solve.go - symmetric positive definite solve over CSR.
//
// Strategies:
//   - Cholesky: densify to mat.SymDense, factorize with mat.Cholesky,
//     reject non-PD and ill-conditioned factors. O(n³) time, O(n²) memory.
//   - ConjugateGradient: Jacobi-preconditioned CG on the CSR, vector kernels
//     from gonum/floats. Runs past the requested tolerance towards a 1e-12
//     relative residual, bounded by twice the iterations acceptance took.
//     O(k·nnz) time for k iterations, O(n) memory.
//
// Every successful strategy is followed by an explicit residual check; the
// caller never receives an x with ‖Ax−b‖/‖b‖ above the tolerance.

package sparse

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// ctxCheckEvery is the CG iteration stride between context checks.
	ctxCheckEvery = 32
	// cgRefineTol is the relative residual CG iterates towards once the
	// requested tolerance is met.
	cgRefineTol = 1e-12
)

// Solution is the result of Solve.
type Solution struct {
	X          []float64
	Method     Method  // strategy actually used (never Auto)
	Iterations int     // CG iterations, 0 for Cholesky
	Residual   float64 // relative residual ‖Ax−b‖/‖b‖ (absolute when b = 0)
}

// Solve solves A·x = b for a symmetric positive definite A.
//
// Implementation:
//   - Stage 1: Validate (nil, square, len(b), finite b, symmetry).
//   - Stage 2: Resolve Auto by n against the dense limit.
//   - Stage 3: Run the strategy; ctx is honoured before the dense
//     factorization and between CG iterations.
//   - Stage 4: Recompute the true residual and compare it to the tolerance.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrNaNInf, ErrAsymmetry (wrapped).
//   - *SolveError (ErrSolveFailure) on any numerical failure.
//   - ctx.Err() (wrapped) on cancellation or deadline.
func Solve(ctx context.Context, a *CSR, b []float64, opts ...Option) (*Solution, error) {
	o := gatherOptions(opts...)

	// Stage 1: validation in documented priority.
	if err := ValidateNotNil(a); err != nil {
		return nil, sparseErrorf("Solve", err)
	}
	if err := ValidateSquare(a); err != nil {
		return nil, sparseErrorf("Solve", err)
	}
	if err := ValidateVecLen(b, a.r); err != nil {
		return nil, sparseErrorf("Solve", err)
	}
	if err := ValidateFinite(b); err != nil {
		return nil, sparseErrorf("Solve", err)
	}
	if err := ValidateSymmetric(a, o.symTol); err != nil {
		return nil, sparseErrorf("Solve", err)
	}

	n := a.r
	if n == 0 {
		return &Solution{X: []float64{}, Method: Cholesky}, nil
	}

	// Stage 2: strategy.
	method := o.method
	if method == Auto {
		method = ConjugateGradient
		if n <= o.denseLimit {
			method = Cholesky
		}
	}

	// Stage 3.
	var (
		x     []float64
		iters int
		err   error
	)
	switch method {
	case Cholesky:
		x, err = solveCholesky(ctx, a, b)
	default:
		x, iters, err = solveCG(ctx, a, b, o)
	}
	if err != nil {
		return nil, err
	}

	// Stage 4.
	res := relResidual(a, x, b)
	if math.IsNaN(res) || res > o.tol {
		return nil, &SolveError{Method: method, Residual: res, Iterations: iters, Reason: "residual above tolerance"}
	}

	return &Solution{X: x, Method: method, Iterations: iters, Residual: res}, nil
}

func solveCholesky(ctx context.Context, a *CSR, b []float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, sparseErrorf("Solve", err)
	}
	sym, err := a.ToSymDense()
	if err != nil {
		return nil, sparseErrorf("Solve", err)
	}

	var ch mat.Cholesky
	if ok := ch.Factorize(sym); !ok {
		return nil, &SolveError{Method: Cholesky, Residual: math.NaN(), Reason: "matrix is singular or not positive definite"}
	}
	if c := ch.Cond(); c > DefaultMaxCondition || math.IsNaN(c) {
		return nil, &SolveError{Method: Cholesky, Residual: math.NaN(),
			Reason: fmt.Sprintf("matrix is ill-conditioned (cond ≈ %.3g)", c)}
	}
	if err = ctx.Err(); err != nil {
		return nil, sparseErrorf("Solve", err)
	}

	x := mat.NewVecDense(a.r, nil)
	if err = ch.SolveVecTo(x, mat.NewVecDense(a.r, append([]float64(nil), b...))); err != nil {
		// mat.Condition still leaves a usable x; the residual check decides.
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, &SolveError{Method: Cholesky, Residual: math.NaN(), Reason: err.Error()}
		}
	}

	return append([]float64(nil), x.RawVector().Data...), nil
}

func solveCG(ctx context.Context, a *CSR, b []float64, o Options) ([]float64, int, error) {
	n := a.r
	maxIter := o.maxIter
	if maxIter == 0 {
		maxIter = 10 * n
		if maxIter < minMaxIterations {
			maxIter = minMaxIterations
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, 0, sparseErrorf("Solve", err)
	}

	x := make([]float64, n)
	bnorm := floats.Norm(b, 2)
	if bnorm == 0 {
		return x, 0, nil
	}

	// Jacobi preconditioner: the diagonal of an SPD matrix is positive.
	inv := a.Diagonal()
	for i, d := range inv {
		if !(d > 0) {
			return nil, 0, &SolveError{Method: ConjugateGradient, Residual: math.NaN(),
				Reason: fmt.Sprintf("non-positive diagonal entry %g at %d", d, i)}
		}
		inv[i] = 1 / d
	}

	r := append([]float64(nil), b...)
	z := make([]float64, n)
	floats.MulTo(z, inv, r)
	p := append([]float64(nil), z...)
	ap := make([]float64, n)
	rz := floats.Dot(r, z)
	// accept is the residual the caller asked for, with margin for the
	// recomputed check. CG keeps refining towards refine, since the error in
	// x is the residual amplified by the condition number.
	accept := 0.5 * o.tol * bnorm
	refine := math.Min(accept, cgRefineTol*bnorm)
	acceptedAt := 0

	for k := 1; k <= maxIter; k++ {
		if k%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, k, sparseErrorf("Solve", err)
			}
		}

		a.mulVecTo(ap, p)
		pap := floats.Dot(p, ap)
		if !(pap > 0) {
			if acceptedAt > 0 {
				// Breakdown while refining: x already meets the tolerance.
				return x, k - 1, nil
			}
			return nil, k, &SolveError{Method: ConjugateGradient, Residual: floats.Norm(r, 2) / bnorm, Iterations: k,
				Reason: "matrix is singular or not positive definite"}
		}
		alpha := rz / pap
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, ap)

		rnorm := floats.Norm(r, 2)
		if math.IsNaN(rnorm) {
			return nil, k, &SolveError{Method: ConjugateGradient, Residual: math.NaN(), Iterations: k, Reason: "NaN in iteration"}
		}
		if rnorm <= refine {
			return x, k, nil
		}
		if acceptedAt == 0 && rnorm <= accept {
			acceptedAt = k
		}
		// Refinement gets at most as many iterations as acceptance took.
		if acceptedAt > 0 && k >= 2*acceptedAt {
			return x, k, nil
		}

		floats.MulTo(z, inv, r)
		rzNext := floats.Dot(r, z)
		floats.AddScaledTo(p, z, rzNext/rz, p)
		rz = rzNext
	}
	if acceptedAt > 0 {
		return x, maxIter, nil
	}

	return nil, maxIter, &SolveError{Method: ConjugateGradient, Residual: relResidual(a, x, b), Iterations: maxIter,
		Reason: "did not converge"}
}

// Residual returns ‖Ax−b‖/‖b‖, or ‖Ax−b‖ when b = 0.
func Residual(a *CSR, x, b []float64) (float64, error) {
	if err := ValidateNotNil(a); err != nil {
		return 0, sparseErrorf("Residual", err)
	}
	if err := ValidateVecLen(x, a.c); err != nil {
		return 0, sparseErrorf("Residual", err)
	}
	if err := ValidateVecLen(b, a.r); err != nil {
		return 0, sparseErrorf("Residual", err)
	}

	return relResidual(a, x, b), nil
}

func relResidual(a *CSR, x, b []float64) float64 {
	ax := make([]float64, a.r)
	a.mulVecTo(ax, x)
	floats.Sub(ax, b)
	num := floats.Norm(ax, 2)
	if den := floats.Norm(b, 2); den > 0 {
		return num / den
	}

	return num
}
