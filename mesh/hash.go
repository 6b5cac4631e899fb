// SPDX-License-Identifier: MIT
// Package: unfold/mesh
//
// hash.go - ContentHash over a canonical binary encoding.

package mesh

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// ContentHash returns a hex sha256 over the canonical binary form of m:
// counts, then vertex coordinates, then triangle indices, then normals, all
// little-endian. Two meshes hash equal iff they are element-wise identical,
// so the digest is usable as a cache key for unfold results.
func (m *Mesh) ContentHash() string {
	h := sha256.New()
	var buf [8]byte

	putU := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = h.Write(buf[:])
	}
	putF := func(f float64) { putU(math.Float64bits(f)) }

	putU(uint64(len(m.Vertices)))
	putU(uint64(len(m.Triangles)))
	putU(uint64(len(m.Normals)))
	for _, p := range m.Vertices {
		putF(p.X)
		putF(p.Y)
		putF(p.Z)
	}
	for _, t := range m.Triangles {
		putU(uint64(t[0]))
		putU(uint64(t[1]))
		putU(uint64(t[2]))
	}
	for _, n := range m.Normals {
		putF(n.X)
		putF(n.Y)
		putF(n.Z)
	}

	return hex.EncodeToString(h.Sum(nil))
}
