// SPDX-License-Identifier: MIT

package unfold

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/katalvlaran/unfold/lscm"
	"github.com/katalvlaran/unfold/manufacturing"
	"github.com/katalvlaran/unfold/sparse"
)

// Method selects the parameterization algorithm. All methods share the
// same input and output contract.
type Method int

const (
	// MethodLSCM is the least-squares conformal map with two or more pins.
	MethodLSCM Method = iota
	// MethodHarmonic is the cotangent harmonic map with the boundary on a circle.
	MethodHarmonic
	// MethodAngleBased is recognized but not implemented; Unfold returns
	// ErrUnsupportedMethod.
	MethodAngleBased
)

var methodNames = [...]string{"lscm", "harmonic", "angle_based"}

func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("method(%d)", int(m))
	}

	return methodNames[m]
}

// ParseMethod maps "lscm", "harmonic" or "angle_based" (case-insensitive,
// "-" accepted for "_") to a Method. The empty string is MethodLSCM.
func ParseMethod(s string) (Method, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if name == "" {
		return MethodLSCM, nil
	}
	for i, n := range methodNames {
		if n == name {
			return Method(i), nil
		}
	}

	return MethodLSCM, fmt.Errorf("%w: unknown method %q", ErrInvalidInput, s)
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

const (
	panicWorkersNegative = "unfold: WithWorkers: n must be ≥ 0"
	panicClampInvalid    = "unfold: WithClampLimit: limit must be > 0"
	panicEpsilonInvalid  = "unfold: WithEpsilon: eps must be > 0"
	panicMethodInvalid   = "unfold: WithMethod: unknown method"
)

// Option configures one Unfold call.
type Option func(*options)

type options struct {
	method     Method
	pins       []lscm.Pin
	thresholds manufacturing.Thresholds
	solver     []sparse.Option
	workers    int
	clampLimit float64
	epsilon    float64
	normalize  bool
	logger     *zap.Logger
}

func defaultOptions() options {
	return options{
		method:     MethodLSCM,
		thresholds: manufacturing.DefaultThresholds(),
		clampLimit: lscm.DefaultClampLimit,
		normalize:  true,
		logger:     zap.NewNop(),
	}
}

func gatherOptions(opts ...Option) options {
	o := defaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

// WithMethod selects the algorithm. Panics on an unknown Method value.
func WithMethod(m Method) Option {
	if m < MethodLSCM || m > MethodAngleBased {
		panic(panicMethodInvalid)
	}

	return func(o *options) { o.method = m }
}

// WithPins fixes vertices in UV. Without it, LSCM pins the two farthest
// boundary vertices. Pins are validated by Unfold, not here, since they
// depend on the mesh.
func WithPins(pins ...lscm.Pin) Option {
	cp := append([]lscm.Pin(nil), pins...)

	return func(o *options) { o.pins = cp }
}

// WithThresholds replaces the manufacturing limits; Unfold checks them
// before any work.
func WithThresholds(th manufacturing.Thresholds) Option {
	return func(o *options) { o.thresholds = th }
}

// WithSolver forwards options to sparse.Solve.
func WithSolver(opts ...sparse.Option) Option {
	cp := append([]sparse.Option(nil), opts...)

	return func(o *options) { o.solver = append(o.solver, cp...) }
}

// WithWorkers bounds per-triangle parallelism; 0 means GOMAXPROCS.
func WithWorkers(n int) Option {
	if n < 0 {
		panic(panicWorkersNegative)
	}

	return func(o *options) { o.workers = n }
}

// WithClampLimit bounds |cot θ| during assembly.
func WithClampLimit(limit float64) Option {
	if !(limit > 0) {
		panic(panicClampInvalid)
	}

	return func(o *options) { o.clampLimit = limit }
}

// WithEpsilon sets the degenerate-triangle area threshold.
func WithEpsilon(eps float64) Option {
	if !(eps > 0) {
		panic(panicEpsilonInvalid)
	}

	return func(o *options) { o.epsilon = eps }
}

// WithAreaNormalization toggles rescaling of auto-pinned layouts to the
// surface's 3D area. On by default; caller pins are never moved.
func WithAreaNormalization(on bool) Option {
	return func(o *options) { o.normalize = on }
}

// WithLogger sets the logger for stage timings (debug) and clamp warnings
// (warn). nil restores the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	}
}
