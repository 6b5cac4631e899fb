// SPDX-License-Identifier: MIT

// Package geometry evaluates per-triangle differential quantities of a mesh:
// area, interior angles, corner cotangents and a local orthonormal frame with
// the triangle's 2D coordinates in it.
//
// What:
//
//   - Evaluate(ctx, m, opts) → *Table, one TriangleGeometry per triangle.
//   - Cot(u, v), Angle(u, v): the corner primitives, exported for reuse by
//     distortion and tests.
//
// Why:
//
//	The LSCM energy and the distortion metrics are both expressed through the
//	cotangent weights and local frames; computing them once per unfold keeps
//	the two consistent.
//
// Complexity:
//
//   - O(T) time and memory, split over Options.Workers chunks.
//
// Errors:
//
//   - ErrDegenerateGeometry (*DegenerateError): a triangle with area below
//     Options.Epsilon. Never skipped; the lowest such triangle is reported.
package geometry
