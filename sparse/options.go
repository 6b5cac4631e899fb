// SPDX-License-Identifier: MIT

// Package sparse: functional configuration for Solve. This file defines:
//   - Method (Auto, Cholesky, ConjugateGradient) and its text form,
//   - documented defaults (constants),
//   - WithX constructors with strict validation (panic on nonsensical values),
//   - gatherOptions (internal) resolving the effective configuration.

package sparse

import (
	"fmt"
	"math"
	"strings"
)

// Method selects the solve strategy.
type Method int

const (
	// Auto uses Cholesky up to the dense limit and ConjugateGradient above it.
	Auto Method = iota
	// Cholesky densifies the matrix and factorizes it with gonum/mat.
	Cholesky
	// ConjugateGradient runs Jacobi-preconditioned CG over the CSR matrix.
	ConjugateGradient
)

var methodNames = [...]string{"auto", "cholesky", "cg"}

// String returns "auto", "cholesky" or "cg".
func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("method(%d)", int(m))
	}

	return methodNames[m]
}

// ParseMethod maps a name (case-insensitive) to a Method. It accepts the
// String forms plus "conjugate_gradient".
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "cholesky":
		return Cholesky, nil
	case "cg", "conjugate_gradient":
		return ConjugateGradient, nil
	}

	return Auto, fmt.Errorf("sparse: unknown solver method %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler via ParseMethod.
func (m *Method) UnmarshalText(b []byte) error {
	v, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = v

	return nil
}

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultTolerance bounds the relative residual ‖Ax−b‖/‖b‖ of every solve.
	DefaultTolerance = 1e-8

	// DefaultDenseLimit is the largest n that Auto solves densely.
	DefaultDenseLimit = 1500

	// DefaultSymmetryTolerance bounds |a_ij − a_ji| relative to max(1, |a_ij|).
	DefaultSymmetryTolerance = 1e-9

	// DefaultMaxCondition rejects dense factorizations whose estimated
	// condition number exceeds it.
	DefaultMaxCondition = 1e15

	// minMaxIterations is the CG iteration floor when the limit is derived
	// from n (10·n, at least this).
	minMaxIterations = 1000
)

const (
	panicToleranceInvalid  = "sparse: WithTolerance: tol must be finite and > 0"
	panicMaxIterInvalid    = "sparse: WithMaxIterations: n must be ≥ 0"
	panicDenseLimitInvalid = "sparse: WithDenseLimit: n must be ≥ 0"
	panicSymTolInvalid     = "sparse: WithSymmetryTolerance: eps must be finite and ≥ 0"
	panicMethodInvalid     = "sparse: WithMethod: unknown method"
)

// Option mutates the solve configuration.
type Option func(*Options)

// Options is the effective configuration after applying Option setters.
type Options struct {
	method     Method
	tol        float64
	maxIter    int // 0 ⇒ max(10·n, minMaxIterations)
	denseLimit int
	symTol     float64
}

func defaultOptions() Options {
	return Options{
		method:     Auto,
		tol:        DefaultTolerance,
		denseLimit: DefaultDenseLimit,
		symTol:     DefaultSymmetryTolerance,
	}
}

func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

// WithMethod forces a strategy. Panics on an unknown Method value.
func WithMethod(m Method) Option {
	if m < Auto || m > ConjugateGradient {
		panic(panicMethodInvalid)
	}

	return func(o *Options) { o.method = m }
}

// WithTolerance sets the relative residual bound. Panics unless tol is
// finite and positive.
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.tol = tol }
}

// WithMaxIterations caps CG iterations; 0 restores the n-derived default.
func WithMaxIterations(n int) Option {
	if n < 0 {
		panic(panicMaxIterInvalid)
	}

	return func(o *Options) { o.maxIter = n }
}

// WithDenseLimit sets the largest system Auto sends to Cholesky.
func WithDenseLimit(n int) Option {
	if n < 0 {
		panic(panicDenseLimitInvalid)
	}

	return func(o *Options) { o.denseLimit = n }
}

// WithSymmetryTolerance sets the symmetry check tolerance.
func WithSymmetryTolerance(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 {
		panic(panicSymTolInvalid)
	}

	return func(o *Options) { o.symTol = eps }
}
