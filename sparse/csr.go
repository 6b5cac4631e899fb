// SPDX-License-Identifier: MIT
// Package: sparse
//
// csr.go - triplet accumulation and compressed sparse row storage.
//
// Determinism:
//   - Builder keeps entries in insertion order; Build sorts stably by
//     (row, col) and sums duplicates in that order, so equal insertion
//     sequences give bit-identical CSR values.
//   - Append concatenates builders, which lets parallel assemblers merge
//     chunk-local builders in chunk order.

package sparse

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Builder accumulates (row, col, value) triplets for an r×c matrix.
type Builder struct {
	r, c int
	rows []int
	cols []int
	vals []float64
}

// NewBuilder returns an empty builder for an r×c matrix with room for
// capHint entries.
func NewBuilder(r, c, capHint int) (*Builder, error) {
	if r < 0 || c < 0 {
		return nil, sparseErrorf("NewBuilder", ErrBadShape)
	}
	if capHint < 0 {
		capHint = 0
	}

	return &Builder{
		r: r, c: c,
		rows: make([]int, 0, capHint),
		cols: make([]int, 0, capHint),
		vals: make([]float64, 0, capHint),
	}, nil
}

// Add records v at (i, j); repeated positions are summed by Build.
func (b *Builder) Add(i, j int, v float64) error {
	if i < 0 || i >= b.r || j < 0 || j >= b.c {
		return sparseErrorf("Add", ErrOutOfRange)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sparseErrorf("Add", ErrNaNInf)
	}
	b.rows = append(b.rows, i)
	b.cols = append(b.cols, j)
	b.vals = append(b.vals, v)

	return nil
}

// Append copies all entries of o after those of b. Shapes must match.
func (b *Builder) Append(o *Builder) error {
	if o == nil {
		return sparseErrorf("Append", ErrNilMatrix)
	}
	if o.r != b.r || o.c != b.c {
		return sparseErrorf("Append", ErrDimensionMismatch)
	}
	b.rows = append(b.rows, o.rows...)
	b.cols = append(b.cols, o.cols...)
	b.vals = append(b.vals, o.vals...)

	return nil
}

// Len returns the number of recorded triplets (before duplicate merging).
func (b *Builder) Len() int { return len(b.vals) }

// Build compresses the triplets into a CSR matrix.
//
// Complexity: O(k log k) for k triplets.
func (b *Builder) Build() *CSR {
	k := len(b.vals)
	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		p, q := order[x], order[y]
		if b.rows[p] != b.rows[q] {
			return b.rows[p] < b.rows[q]
		}

		return b.cols[p] < b.cols[q]
	})

	m := &CSR{
		r: b.r, c: b.c,
		RowPtr: make([]int, b.r+1),
		ColIdx: make([]int, 0, k),
		Val:    make([]float64, 0, k),
	}
	last := -1
	lastRow, lastCol := -1, -1
	for _, p := range order {
		i, j := b.rows[p], b.cols[p]
		if i == lastRow && j == lastCol {
			m.Val[last] += b.vals[p]
			continue
		}
		m.ColIdx = append(m.ColIdx, j)
		m.Val = append(m.Val, b.vals[p])
		m.RowPtr[i+1]++
		last = len(m.Val) - 1
		lastRow, lastCol = i, j
	}
	for i := 0; i < b.r; i++ {
		m.RowPtr[i+1] += m.RowPtr[i]
	}

	return m
}

// CSR is an r×c matrix in compressed sparse row form. Row i owns
// ColIdx[RowPtr[i]:RowPtr[i+1]] (ascending) and the matching Val.
type CSR struct {
	r, c   int
	RowPtr []int
	ColIdx []int
	Val    []float64
}

// Rows returns the number of rows.
func (m *CSR) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *CSR) Cols() int { return m.c }

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int { return len(m.Val) }

// At returns the entry at (i, j), 0 when not stored.
func (m *CSR) At(i, j int) (float64, error) {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		return 0, sparseErrorf("At", ErrOutOfRange)
	}

	return m.at(i, j), nil
}

func (m *CSR) at(i, j int) float64 {
	lo, hi := m.RowPtr[i], m.RowPtr[i+1]
	k := lo + sort.SearchInts(m.ColIdx[lo:hi], j)
	if k < hi && m.ColIdx[k] == j {
		return m.Val[k]
	}

	return 0
}

// MatVec returns A·x.
func (m *CSR) MatVec(x []float64) ([]float64, error) {
	if err := ValidateVecLen(x, m.c); err != nil {
		return nil, sparseErrorf("MatVec", err)
	}
	dst := make([]float64, m.r)
	m.mulVecTo(dst, x)

	return dst, nil
}

// mulVecTo writes A·x into dst without checks.
func (m *CSR) mulVecTo(dst, x []float64) {
	var i, k int
	for i = 0; i < m.r; i++ {
		s := 0.0
		for k = m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			s += m.Val[k] * x[m.ColIdx[k]]
		}
		dst[i] = s
	}
}

// Diagonal returns the main diagonal (length min(r, c)).
func (m *CSR) Diagonal() []float64 {
	n := m.r
	if m.c < n {
		n = m.c
	}
	d := make([]float64, n)
	for i := 0; i < n; i++ {
		d[i] = m.at(i, i)
	}

	return d
}

// IsSymmetric reports whether the matrix is square and |a_ij − a_ji| ≤
// eps·max(1, |a_ij|) for every stored entry.
func (m *CSR) IsSymmetric(eps float64) bool {
	if m.r != m.c {
		return false
	}
	var i, k int
	for i = 0; i < m.r; i++ {
		for k = m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			j, v := m.ColIdx[k], m.Val[k]
			if math.Abs(v-m.at(j, i)) > eps*math.Max(1, math.Abs(v)) {
				return false
			}
		}
	}

	return true
}

// ToSymDense copies the upper triangle into a gonum SymDense. The matrix
// must be square; symmetry is the caller's responsibility.
func (m *CSR) ToSymDense() (*mat.SymDense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, sparseErrorf("ToSymDense", err)
	}
	s := mat.NewSymDense(m.r, nil)
	var i, k int
	for i = 0; i < m.r; i++ {
		for k = m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			if j := m.ColIdx[k]; j >= i {
				s.SetSym(i, j, m.Val[k])
			}
		}
	}

	return s, nil
}
