// Package alexander computes the Alexander polynomial of a knot diagram from its sparse presentation matrix.
package alexander

import (
	"fmt"
	"io"
	"math/big"

	"github.com/2x3systems/goknot/libknot/diagram"
	"github.com/emirpasic/gods/maps/treemap"
)

// Linear is the matrix entry A + B*t.
type Linear struct {
	A, B int64
}

func (e Linear) IsZero() bool {
	return e.A == 0 && e.B == 0
}

func (e Linear) Add(o Linear) Linear {
	return Linear{e.A + o.A, e.B + o.B}
}

// At evaluates e at t.
func (e Linear) At(t *big.Rat) *big.Rat {
	v := new(big.Rat).SetInt64(e.B)
	v.Mul(v, t)
	return v.Add(v, new(big.Rat).SetInt64(e.A))
}

var (
	oneMinusT = Linear{1, -1}
	plusT     = Linear{0, 1}
	minusOne  = Linear{-1, 0}
)

// Matrix is a square sparse matrix of Linear entries; each row maps column -> Linear.
type Matrix struct {
	N    int
	rows []*treemap.Map
}

func NewMatrix(N int) *Matrix {
	M := &Matrix{
		N:    N,
		rows: make([]*treemap.Map, N),
	}
	for i := range M.rows {
		M.rows[i] = treemap.NewWithIntComparator()
	}
	return M
}

// Add accumulates e into entry (r, c), dropping entries that cancel to zero.
func (M *Matrix) Add(r, c int, e Linear) {
	row := M.rows[r]
	if v, found := row.Get(c); found {
		e = e.Add(v.(Linear))
	}
	if e.IsZero() {
		row.Remove(c)
	} else {
		row.Put(c, e)
	}
}

func (M *Matrix) At(r, c int) Linear {
	if v, found := M.rows[r].Get(c); found {
		return v.(Linear)
	}
	return Linear{}
}

// NumNonzeros returns the number of stored entries.
func (M *Matrix) NumNonzeros() int {
	n := 0
	for _, row := range M.rows {
		n += row.Size()
	}
	return n
}

// EachInRow calls fn for every nonzero of row r in ascending column order.
func (M *Matrix) EachInRow(r int, fn func(c int, e Linear)) {
	it := M.rows[r].Iterator()
	for it.Next() {
		fn(it.Key().(int), it.Value().(Linear))
	}
}

func (M *Matrix) WriteAsString(out io.Writer) {
	for r := 0; r < M.N; r++ {
		fmt.Fprintf(out, "%3d:", r)
		M.EachInRow(r, func(c int, e Linear) {
			fmt.Fprintf(out, "  [%d] %d%+dt", c, e.A, e.B)
		})
		io.WriteString(out, "\n")
	}
}

// BuildMatrix forms the N x N presentation matrix of d with one row per crossing and one column per strand,
// a strand being a maximal run of the curve between two consecutive under-passes.
//
// A positive crossing contributes 1-t for its over strand, t for the incoming under strand and -1 for the outgoing
// under strand.  A negative crossing contributes 1-t, -1 and t respectively.
func BuildMatrix(d *diagram.Diagram) *Matrix {
	G := d.GaussCode()
	N := d.NumCrossings()
	M := NewMatrix(N)
	if N == 0 {
		return M
	}

	// strandIn[i] is the strand arriving at visit i; underIdx[i] is the strand leaving under visit i.
	strandIn := make([]int, len(G))
	underIdx := make([]int, len(G))
	overAt := make([]int, N)
	underAt := make([]int, N)
	strand := N - 1
	for i, Vi := range G {
		strandIn[i] = strand
		if Vi.Over {
			overAt[Vi.Crossing-1] = i
		} else {
			underAt[Vi.Crossing-1] = i
			strand = (strand + 1) % N
			underIdx[i] = strand
		}
	}

	for c := 0; c < N; c++ {
		o, u := overAt[c], underAt[c]
		M.Add(c, strandIn[o], oneMinusT)
		if G[o].Sign > 0 {
			M.Add(c, strandIn[u], plusT)
			M.Add(c, underIdx[u], minusOne)
		} else {
			M.Add(c, strandIn[u], minusOne)
			M.Add(c, underIdx[u], plusT)
		}
	}
	return M
}

// Minor returns M with row r and column c removed.
func (M *Matrix) Minor(r, c int) *Matrix {
	out := NewMatrix(M.N - 1)
	for i := 0; i < M.N; i++ {
		if i == r {
			continue
		}
		ri := i
		if i > r {
			ri--
		}
		M.EachInRow(i, func(j int, e Linear) {
			if j == c {
				return
			}
			if j > c {
				j--
			}
			out.Add(ri, j, e)
		})
	}
	return out
}

// Evaluate substitutes t into every entry.
func (M *Matrix) Evaluate(t *big.Rat) *RatMatrix {
	R := NewRatMatrix(M.N)
	for r := 0; r < M.N; r++ {
		M.EachInRow(r, func(c int, e Linear) {
			if v := e.At(t); v.Sign() != 0 {
				R.Set(r, c, v)
			}
		})
	}
	return R
}

// HasPerfectMatching reports whether the nonzero pattern of M admits a row-to-column matching, which is
// necessary for its determinant not to vanish identically.
func (M *Matrix) HasPerfectMatching() bool {
	colOwner := make([]int, M.N)
	for i := range colOwner {
		colOwner[i] = -1
	}

	var augment func(r int, seen []bool) bool
	augment = func(r int, seen []bool) bool {
		found := false
		M.EachInRow(r, func(c int, _ Linear) {
			if found || seen[c] {
				return
			}
			seen[c] = true
			if colOwner[c] < 0 || augment(colOwner[c], seen) {
				colOwner[c] = r
				found = true
			}
		})
		return found
	}

	for r := 0; r < M.N; r++ {
		if !augment(r, make([]bool, M.N)) {
			return false
		}
	}
	return true
}
