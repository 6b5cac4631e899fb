// SPDX-License-Identifier: MIT

// Package mesh holds the canonical in-memory triangle mesh and its
// connectivity analysis.
//
// What:
//
//   - Mesh: index-addressed vertices (r3.Vec), triangles as vertex-index
//     triples whose winding defines the outward normal, optional normals.
//   - Analyze: edge→triangle adjacency, boundary edges, boundary loops,
//     per-vertex triangle fans and triangle-connected components.
//   - Decode/Encode: YAML or JSON mesh documents.
//   - ContentHash: a stable digest of the geometry, used as a cache key.
//
// Why:
//
//	Every later stage (geometry, system assembly, distortion) indexes into the
//	same Mesh, so structural problems are rejected here, before they can
//	corrupt the sparsity pattern of the linear system.
//
// Complexity:
//
//   - Validate: O(V + T).
//   - Analyze:  O(V + T log T) (boundary edges are sorted for determinism).
//
// Errors:
//
//   - ErrInvalidInput:        malformed indices, NaN/Inf coordinates, bad normals.
//   - ErrInvalidTopology:     non-manifold edge, bow-tie vertex, inconsistent winding.
//   - ErrUnsupportedTopology: closed surface, several boundary loops or components.
//
// Typed carriers (*InputError, *TopologyError) keep the offending indices and
// unwrap to the sentinels above.
package mesh
