// SPDX-License-Identifier: MIT

package unfold

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/unfold/distortion"
	"github.com/katalvlaran/unfold/geometry"
	"github.com/katalvlaran/unfold/lscm"
	"github.com/katalvlaran/unfold/manufacturing"
	"github.com/katalvlaran/unfold/mesh"
)

// Result is the complete output of one Unfold call. It is never returned
// partially filled.
type Result struct {
	Method           Method                   `json:"method" yaml:"method"`
	Parameterization *lscm.Parameterization   `json:"parameterization" yaml:"parameterization"`
	Report           *distortion.Report       `json:"report" yaml:"report"`
	Verdict          *manufacturing.Verdict   `json:"verdict" yaml:"verdict"`
	Warnings         []lscm.Warning           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Stages           map[string]time.Duration `json:"-" yaml:"-"` // wall time per stage
}

// Unfold flattens m into the plane and grades the result.
//
// Pipeline:
//   - Stage 1: options and thresholds are checked; connectivity must be a
//     single disk (one component, one boundary loop) and caller pins must
//     sit on its boundary.
//   - Stage 2: per-triangle geometry (areas, cotangents, local frames).
//   - Stage 3: system assembly. LSCM uses the caller's pins or AutoPins;
//     harmonic fixes the boundary on a circle and refuses caller pins.
//   - Stage 4: sparse solve. Auto-pinned layouts are then scaled so their
//     UV area equals the 3D area, unless WithAreaNormalization(false).
//   - Stage 5: distortion report against the threshold normalizers.
//   - Stage 6: manufacturing verdict.
//
// m is read, never modified. A ctx deadline that expires at any stage yields
// ErrTimeout and no result.
func Unfold(ctx context.Context, m *mesh.Mesh, opts ...Option) (*Result, error) {
	o := gatherOptions(opts...)
	log := o.logger.With(zap.Stringer("method", o.method))
	res := &Result{Method: o.method, Stages: make(map[string]time.Duration, 6)}
	var (
		stage string
		start time.Time
	)
	begin := func(name string) { stage, start = name, time.Now() }
	end := func() {
		d := time.Since(start)
		res.Stages[stage] = d
		log.Debug("stage done", zap.String("stage", stage), zap.Duration("took", d))
	}

	// Stage 1
	begin("connectivity")
	if m == nil {
		return nil, &mesh.InputError{Field: "mesh", Index: -1, Reason: "nil mesh"}
	}
	switch o.method {
	case MethodLSCM:
	case MethodHarmonic:
		if len(o.pins) > 0 {
			return nil, &mesh.InputError{Field: "pins", Index: -1,
				Reason: "harmonic method fixes the whole boundary; caller pins are not accepted"}
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, o.method)
	}
	if err := o.thresholds.Check(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, stageError(ctx, stage, err)
	}
	conn, err := mesh.Analyze(m)
	if err != nil {
		return nil, stageError(ctx, stage, err)
	}
	loop, err := conn.Disk()
	if err != nil {
		return nil, stageError(ctx, stage, err)
	}
	if len(o.pins) > 0 {
		if err = lscm.ValidateBoundaryPins(m, loop, o.pins); err != nil {
			return nil, err
		}
	}
	end()

	// Stage 2
	begin("geometry")
	tab, err := geometry.Evaluate(ctx, m, geometry.Options{Epsilon: o.epsilon, Workers: o.workers})
	if err != nil {
		return nil, stageError(ctx, stage, err)
	}
	end()

	// Stage 3
	begin("assembly")
	lo := lscm.Options{ClampLimit: o.clampLimit, Workers: o.workers}
	var sys *lscm.System
	autoPinned := len(o.pins) == 0
	if o.method == MethodHarmonic {
		sys, err = lscm.BuildHarmonic(ctx, m, tab, loop, lo)
	} else {
		pins := o.pins
		if autoPinned {
			if pins, err = lscm.AutoPins(m, loop); err != nil {
				return nil, stageError(ctx, stage, err)
			}
		}
		sys, err = lscm.Build(ctx, m, tab, pins, lo)
	}
	if err != nil {
		return nil, stageError(ctx, stage, err)
	}
	for _, w := range sys.Warnings {
		log.Warn("cotangent clamped",
			zap.Int("triangle", w.Triangle), zap.Int("corner", w.Corner), zap.Float64("value", w.Value))
	}
	end()

	// Stage 4
	begin("solve")
	p, err := lscm.Solve(ctx, sys, o.solver...)
	if err != nil {
		return nil, stageError(ctx, stage, err)
	}
	if autoPinned && o.normalize {
		p.NormalizeArea(m, tab)
	}
	log.Debug("solved", zap.Stringer("solver", p.Solver), zap.Int("iterations", p.Iterations),
		zap.Float64("residual", p.Residual), zap.Float64("scale", p.Scale))
	end()

	// Stage 5
	begin("distortion")
	rep, err := distortion.Analyze(ctx, m, tab, p.UV, distortion.Options{
		MaxAngleDeg: o.thresholds.MaxAngleDistortionDeg,
		MaxArea:     o.thresholds.MaxAreaDistortion,
		Workers:     o.workers,
	})
	if err != nil {
		return nil, stageError(ctx, stage, err)
	}
	end()

	// Stage 6
	begin("verdict")
	v, err := manufacturing.Validate(rep, p.UV, o.thresholds)
	if err != nil {
		return nil, stageError(ctx, stage, err)
	}
	if err = ctx.Err(); err != nil {
		return nil, stageError(ctx, stage, err)
	}
	end()

	res.Parameterization, res.Report, res.Verdict, res.Warnings = p, rep, v, p.Warnings
	log.Info("unfolded",
		zap.Int("vertices", m.VertexCount()), zap.Int("triangles", m.TriangleCount()),
		zap.Float64("max_angle_deg", rep.Angle.Max), zap.Float64("max_area", rep.Area.Max),
		zap.Float64("quality", rep.Quality), zap.Bool("acceptable", v.Acceptable))

	return res, nil
}
