// SPDX-License-Identifier: MIT

// Package unfold is the entry point of the surface unfolding engine: one
// call takes a disk-topology triangle mesh to a UV layout, a distortion
// report and a manufacturing verdict.
//
//	res, err := unfold.Unfold(ctx, m,
//	    unfold.WithMethod(unfold.MethodLSCM),
//	    unfold.WithThresholds(manufacturing.DefaultThresholds()),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Verdict.Acceptable, res.Report.Quality)
//
// Methods:
//
//	– lscm:        least-squares conformal map (Desbrun form E_D − A). Two
//	               or more pins; the two farthest boundary vertices by default.
//	– harmonic:    cotangent harmonic map, boundary fixed on a circle.
//	– angle_based: parsed but not implemented (ErrUnsupportedMethod).
//
// Options:
//
//	– WithPins, WithThresholds, WithSolver, WithWorkers, WithClampLimit,
//	  WithEpsilon, WithAreaNormalization, WithLogger.
//
// Errors (sentinel, re-exported so callers import one package):
//
//	– ErrInvalidInput        malformed mesh, pins, thresholds.
//	– ErrInvalidTopology     non-manifold edge, bow-tie vertex, bad winding.
//	– ErrUnsupportedTopology closed surface, several loops or components.
//	– ErrDegenerateGeometry  zero-area triangle.
//	– ErrSolveFailure        singular system or residual above tolerance.
//	– ErrTimeout             ctx deadline expired (also matches
//	                         context.DeadlineExceeded).
//	– ErrUnsupportedMethod   angle_based.
//
// Output UVs follow the input vertex order exactly. Results are
// deterministic for a given input and option set, whatever the worker count.
package unfold
