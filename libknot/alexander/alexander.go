package alexander

import (
	"context"
	"math/big"
	"time"

	"github.com/2x3systems/goknot/goknot"
	"github.com/2x3systems/goknot/libknot/diagram"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// Engine computes normalized Alexander polynomials.
type Engine struct {
	Solver  Solver
	Timeout time.Duration // bounds each Compute; 0 means no bound beyond the caller's context
}

// NewEngine returns an Engine using SparseLU and opts.SolveTimeout.
func NewEngine(opts goknot.Options) *Engine {
	return &Engine{
		Solver:  SparseLU{},
		Timeout: opts.SolveTimeout,
	}
}

// Compute returns the normalized Alexander polynomial of d.
//
// The determinant of a first minor of the presentation matrix is a polynomial of degree at most N-1, so it is
// sampled at t = 1..N, interpolated exactly and then normalized.  If the minor vanishes identically the other
// minors sharing its deleted row are tried before ErrSingularInvariantSystem is returned.
func (e *Engine) Compute(ctx context.Context, d *diagram.Diagram) (goknot.Polynomial, error) {
	N := d.NumCrossings()
	if N == 0 {
		return goknot.One, nil
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}
	solver := e.Solver
	if solver == nil {
		solver = SparseLU{}
	}

	M := BuildMatrix(d)
	for c := N - 1; c >= 0; c-- {
		minor := M.Minor(N-1, c)
		if !minor.HasPerfectMatching() {
			klog.V(3).Infof("alexander: minor (%d,%d) is structurally singular", N-1, c)
			continue
		}
		coeffs, err := interpolateDeterminant(ctx, solver, minor)
		if err != nil {
			return nil, err
		}
		P := goknot.PolynomialFromCoeffs(0, coeffs...)
		if P.IsZero() {
			klog.V(3).Infof("alexander: minor (%d,%d) vanishes", N-1, c)
			continue
		}
		P = P.Normalize()
		klog.V(2).Infof("alexander: %d crossings -> %v", N, P)
		return P, nil
	}
	return nil, errors.Wrapf(goknot.ErrSingularInvariantSystem, "every first minor of the %dx%d matrix vanishes", N, N)
}

// interpolateDeterminant returns the coefficients of det(minor(t)) in ascending powers of t.
func interpolateDeterminant(ctx context.Context, solver Solver, minor *Matrix) ([]int64, error) {
	n := minor.N + 1 // degree <= minor.N
	xs := make([]*big.Rat, n)
	ys := make([]*big.Rat, n)
	for i := 0; i < n; i++ {
		xs[i] = big.NewRat(int64(i+1), 1)
		det, err := solver.Determinant(ctx, minor.Evaluate(xs[i]))
		if err != nil {
			return nil, errors.Wrapf(err, "determinant at t=%d", i+1)
		}
		ys[i] = det
	}
	return newtonCoefficients(xs, ys)
}

// newtonCoefficients interpolates the points (xs[i], ys[i]) and returns the integer coefficients of the
// interpolating polynomial in ascending powers.
func newtonCoefficients(xs, ys []*big.Rat) ([]int64, error) {
	n := len(xs)

	// divided differences, in place
	dd := make([]*big.Rat, n)
	for i := range ys {
		dd[i] = new(big.Rat).Set(ys[i])
	}
	for k := 1; k < n; k++ {
		for i := n - 1; i >= k; i-- {
			num := new(big.Rat).Sub(dd[i], dd[i-1])
			den := new(big.Rat).Sub(xs[i], xs[i-k])
			dd[i] = num.Quo(num, den)
		}
	}

	// Horner expansion of the Newton form: p = dd[n-1]; p = p*(t - xs[k]) + dd[k]
	coeffs := make([]*big.Rat, n)
	for i := range coeffs {
		coeffs[i] = new(big.Rat)
	}
	coeffs[0].Set(dd[n-1])
	for k := n - 2; k >= 0; k-- {
		for i := n - 1; i >= 1; i-- {
			shifted := new(big.Rat).Mul(coeffs[i], xs[k])
			coeffs[i].Sub(coeffs[i-1], shifted)
		}
		coeffs[0].Mul(coeffs[0], xs[k])
		coeffs[0].Sub(dd[k], coeffs[0])
	}

	out := make([]int64, n)
	for i, ci := range coeffs {
		if !ci.IsInt() {
			return nil, errors.Wrapf(goknot.ErrNonIntegralInvariant, "coefficient of t^%d is %v", i, ci.RatString())
		}
		num := ci.Num()
		if !num.IsInt64() {
			return nil, errors.Wrapf(goknot.ErrNonIntegralInvariant, "coefficient of t^%d overflows int64", i)
		}
		out[i] = num.Int64()
	}
	return out, nil
}
