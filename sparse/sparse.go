/*
Package sparse implements a compact bit matrix for relations over dense
symbol spaces. It is mainly used for reachability and unit-derivation
analyses, where the transitive closure of a relation is required.

Rows are stored as packed 64-bit words, so closure computation works on
whole rows at a time (Warshall's algorithm with word-parallel OR).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sparse

import "fmt"

// BitMatrix is a square bit matrix. Construct with
//
//     M := sparse.NewBitMatrix(10)
//     M.Set(2, 3, true)
//     v := M.Bit(2, 3)         // returns true
//     M.TransitiveClosure()
//
type BitMatrix struct {
	n     int
	words int // words per row
	rows  []uint64
}

// NewBitMatrix creates an n × n matrix with all bits unset.
func NewBitMatrix(n int) *BitMatrix {
	words := (n + 63) / 64
	return &BitMatrix{
		n:     n,
		words: words,
		rows:  make([]uint64, n*words),
	}
}

// N returns the dimension of the matrix.
func (m *BitMatrix) N() int {
	return m.n
}

func (m *BitMatrix) check(i, j int) {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		panic(fmt.Sprintf("sparse.BitMatrix: index (%d,%d) out of range for size %d", i, j, m.n))
	}
}

// Set sets or clears the bit at (i, j).
func (m *BitMatrix) Set(i, j int, value bool) {
	m.check(i, j)
	word := i*m.words + j/64
	mask := uint64(1) << uint(j%64)
	if value {
		m.rows[word] |= mask
	} else {
		m.rows[word] &^= mask
	}
}

// Bit returns the bit at (i, j).
func (m *BitMatrix) Bit(i, j int) bool {
	m.check(i, j)
	return m.rows[i*m.words+j/64]&(uint64(1)<<uint(j%64)) != 0
}

// row returns the packed words of row i.
func (m *BitMatrix) row(i int) []uint64 {
	return m.rows[i*m.words : (i+1)*m.words]
}

// TransitiveClosure extends the relation to its transitive closure in
// place: afterwards Bit(i, j) is true iff j was reachable from i through
// any chain of set bits.
func (m *BitMatrix) TransitiveClosure() {
	for k := 0; k < m.n; k++ {
		krow := m.row(k)
		for i := 0; i < m.n; i++ {
			if !m.Bit(i, k) {
				continue
			}
			irow := m.row(i)
			for w := range irow {
				irow[w] |= krow[w]
			}
		}
	}
}

// ReflexiveClosure sets the diagonal.
func (m *BitMatrix) ReflexiveClosure() {
	for i := 0; i < m.n; i++ {
		m.Set(i, i, true)
	}
}
