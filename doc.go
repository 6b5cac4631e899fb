// SPDX-License-Identifier: MIT

// Package unfoldkit flattens 3D triangle meshes into 2D cut patterns with
// Least Squares Conformal Maps and grades the result for manufacturing.
//
// What is in the box?
//
//	mesh/           triangle mesh types, validation, topology, YAML/JSON documents
//	builder/        fixture meshes: grid, hemisphere, disk, annulus, fan, octahedron
//	geometry/       per-triangle areas, angles, cotangents and local frames
//	sparse/         CSR matrices with Cholesky and preconditioned CG solvers
//	lscm/           pin selection, conformal system assembly and solve
//	distortion/     per-triangle angle/area/conformality metrics and quality
//	manufacturing/  thresholds, material size and the accept/reject verdict
//	unfold/         the full pipeline: Unfold(ctx, mesh, opts...)
//	cache/          sqlite store of finished results keyed by mesh hash
//	cmd/unfold      CLI: run, generate, batch, watch
//
// Pipeline at a glance:
//
//	mesh ──► connectivity ──► geometry ──► assembly ──► solve ──► distortion ──► verdict
//	         (open disk?)     (cot, area)  (E_D − A)    (u,v)     (angle, area)   (fits?)
//
// Quick start:
//
//	m := builder.MustBuild(nil, builder.Hemisphere(10, 20, 1))
//	res, err := unfold.Unfold(ctx, m)
//	if err != nil { ... }
//	fmt.Println(res.Verdict.Acceptable, res.Report.Quality)
//
//	go install github.com/katalvlaran/unfold/cmd/unfold@latest
package unfoldkit
