package alexander

import (
	"context"
	"math/big"

	"github.com/emirpasic/gods/maps/treemap"
)

// Solver computes exact determinants of rational matrices.
type Solver interface {
	Determinant(ctx context.Context, M *RatMatrix) (*big.Rat, error)
}

// RatMatrix is a square sparse matrix of exact rationals; each row maps column -> *big.Rat.
type RatMatrix struct {
	N    int
	rows []*treemap.Map
}

func NewRatMatrix(N int) *RatMatrix {
	R := &RatMatrix{
		N:    N,
		rows: make([]*treemap.Map, N),
	}
	for i := range R.rows {
		R.rows[i] = treemap.NewWithIntComparator()
	}
	return R
}

// Set assigns entry (r, c); a zero value removes it.
func (R *RatMatrix) Set(r, c int, v *big.Rat) {
	if v.Sign() == 0 {
		R.rows[r].Remove(c)
	} else {
		R.rows[r].Put(c, v)
	}
}

func (R *RatMatrix) At(r, c int) *big.Rat {
	if v, found := R.rows[r].Get(c); found {
		return v.(*big.Rat)
	}
	return new(big.Rat)
}

// SparseLU is a Solver performing exact Gaussian elimination column by column.
//
// Among the rows not yet used, the pivot for each column is the one with the fewest nonzeros (ties go to the
// lowest row), which keeps fill-in low on the near-tridiagonal matrices knot diagrams produce.
type SparseLU struct{}

func (SparseLU) Determinant(ctx context.Context, M *RatMatrix) (*big.Rat, error) {
	n := M.N
	rows := make([]*treemap.Map, n)
	for r := range rows {
		rows[r] = treemap.NewWithIntComparator()
		it := M.rows[r].Iterator()
		for it.Next() {
			rows[r].Put(it.Key(), new(big.Rat).Set(it.Value().(*big.Rat)))
		}
	}

	used := make([]bool, n)
	pivotRow := make([]int, n)
	det := big.NewRat(1, 1)

	for col := 0; col < n; col++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p := -1
		for r := 0; r < n; r++ {
			if used[r] {
				continue
			}
			if _, found := rows[r].Get(col); !found {
				continue
			}
			if p < 0 || rows[r].Size() < rows[p].Size() {
				p = r
			}
		}
		if p < 0 {
			return new(big.Rat), nil
		}
		used[p] = true
		pivotRow[col] = p

		pv, _ := rows[p].Get(col)
		pivot := pv.(*big.Rat)
		det.Mul(det, pivot)

		for r := 0; r < n; r++ {
			if used[r] {
				continue
			}
			v, found := rows[r].Get(col)
			if !found {
				continue
			}
			factor := new(big.Rat).Quo(v.(*big.Rat), pivot)
			it := rows[p].Iterator()
			for it.Next() {
				c := it.Key().(int)
				delta := new(big.Rat).Mul(factor, it.Value().(*big.Rat))
				cur, found := rows[r].Get(c)
				if !found {
					rows[r].Put(c, delta.Neg(delta))
					continue
				}
				sum := cur.(*big.Rat)
				sum.Sub(sum, delta)
				if sum.Sign() == 0 {
					rows[r].Remove(c)
				}
			}
		}
	}

	if permutationParity(pivotRow) {
		det.Neg(det)
	}
	return det, nil
}

// permutationParity returns true if perm is odd.
func permutationParity(perm []int) bool {
	seen := make([]bool, len(perm))
	odd := false
	for i := range perm {
		if seen[i] {
			continue
		}
		cycleLen := 0
		for j := i; !seen[j]; j = perm[j] {
			seen[j] = true
			cycleLen++
		}
		if cycleLen%2 == 0 {
			odd = !odd
		}
	}
	return odd
}
