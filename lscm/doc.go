// SPDX-License-Identifier: MIT

// Package lscm assembles and solves the linear systems of two
// parameterization methods over a disk-topology triangle mesh:
//
//   - Build: least-squares conformal maps. Minimizes the conformal energy
//     E_D − A (Dirichlet energy minus signed UV area) with two or more
//     pinned vertices.
//   - BuildHarmonic: the cotangent-Laplacian harmonic map with the whole
//     boundary fixed on a circle.
//
// Both produce a System over interleaved unknowns (u0, v0, u1, v1, …) with
// the pinned unknowns eliminated; Solve hands it to package sparse and
// expands the answer back to one geom.Coord per vertex.
//
// Pins are chosen by AutoPins (two farthest boundary vertices), CirclePins
// (harmonic boundary) or supplied by the caller and checked by ValidatePins.
//
// Cotangents beyond ±Options.ClampLimit are clamped and reported as
// Warnings; they never fail assembly.
package lscm
