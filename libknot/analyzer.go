// Package libknot turns closed polygonal space curves into knot diagrams and invariants.
//
// An Analyzer owns one curve and lazily derives, once per loaded curve, its diagram, a simplified diagram,
// an unknot verdict and a normalized Alexander polynomial.
package libknot

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/2x3systems/goknot/goknot"
	"github.com/2x3systems/goknot/libknot/alexander"
	"github.com/2x3systems/goknot/libknot/crossing"
	"github.com/2x3systems/goknot/libknot/diagram"
	"github.com/2x3systems/goknot/libknot/geom"
	"github.com/2x3systems/goknot/libknot/simplify"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// Analyzer holds one curve and memoizes everything derived from it.
//
// Every derived value, including a failure to derive it, is bound to the generation of the curve it came from.
// Load replaces the curve and the whole memo under the same lock, so results of two different curves are never
// visible together.
type Analyzer struct {
	mu      sync.Mutex
	opts    goknot.Options
	engine  *alexander.Engine
	metrics *Metrics
	verts   []geom.Vec3
	gen     uuid.UUID
	memo    memo
}

type memo struct {
	detected   bool
	detect     crossing.Result
	diagram    *diagram.Diagram
	diagramErr error

	simplified *simplify.Result

	summandsDone bool
	summands     []*diagram.Diagram
	summandsErr  error

	alexanderDone bool
	alexander     goknot.Polynomial
	alexanderErr  error
}

// NewAnalyzer returns an Analyzer with no curve loaded.  metrics may be nil.
func NewAnalyzer(opts goknot.Options, metrics *Metrics) (*Analyzer, error) {
	opts = opts.Normalized()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{
		opts:    opts,
		engine:  alexander.NewEngine(opts),
		metrics: metrics,
	}, nil
}

// AnalyzeCurve validates points and returns an Analyzer for them.  The diagram is derived on first use.
func AnalyzeCurve(points []goknot.Point, opts goknot.Options) (*Analyzer, error) {
	a, err := NewAnalyzer(opts, nil)
	if err != nil {
		return nil, err
	}
	if err = a.Load(points); err != nil {
		return nil, err
	}
	return a, nil
}

// SetSolver replaces the linear solver used for invariants and drops any invariant already computed.
func (a *Analyzer) SetSolver(solver alexander.Solver) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.engine.Solver = solver
	a.memo.alexanderDone = false
	a.memo.alexander = nil
	a.memo.alexanderErr = nil
}

// Load validates points and installs them as the analyzed curve, invalidating all cached results.
// If validation fails the previously loaded curve and its results are kept.
func (a *Analyzer) Load(points []goknot.Point) error {
	verts, err := geom.ValidateCurve(points, a.opts.Epsilon)
	if err != nil {
		a.metrics.observeError(err)
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.verts = verts
	a.gen = uuid.New()
	a.memo = memo{}
	a.metrics.curveLoaded()
	klog.V(2).Infof("libknot: loaded curve %v (%d vertices)", a.gen, len(verts))
	return nil
}

// Generation identifies the currently loaded curve.  It changes with every successful Load.
func (a *Analyzer) Generation() uuid.UUID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gen
}

// Options returns the normalized options this Analyzer was created with.
func (a *Analyzer) Options() goknot.Options {
	return a.opts
}

func (a *Analyzer) checkLoaded() error {
	if a == nil {
		return goknot.ErrNilAnalyzer
	}
	if a.verts == nil {
		return errors.Wrap(goknot.ErrInvalidCurve, "no curve loaded")
	}
	return nil
}

// Diagram returns the diagram of the loaded curve.
func (a *Analyzer) Diagram() (*diagram.Diagram, error) {
	if a == nil {
		return nil, goknot.ErrNilAnalyzer
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.diagram()
}

func (a *Analyzer) diagram() (*diagram.Diagram, error) {
	if err := a.checkLoaded(); err != nil {
		return nil, err
	}
	if !a.memo.detected {
		a.memo.detected = true
		a.memo.detect, a.memo.diagramErr = crossing.DetectWithRetry(a.verts, a.opts)
		if a.memo.diagramErr == nil {
			a.memo.diagram = diagram.Build(a.memo.detect.Crossings)
			a.metrics.diagramBuilt(a.memo.diagram.NumCrossings(), a.memo.detect.Reprojections)
		} else {
			a.metrics.observeError(a.memo.diagramErr)
		}
	}
	return a.memo.diagram, a.memo.diagramErr
}

// Projection returns the projection the diagram was read from and how many alternate directions were tried.
func (a *Analyzer) Projection() (geom.Projection, int, error) {
	if a == nil {
		return geom.Projection{}, 0, goknot.ErrNilAnalyzer
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := a.diagram(); err != nil {
		return geom.Projection{}, a.memo.detect.Reprojections, err
	}
	return a.memo.detect.Projection, a.memo.detect.Reprojections, nil
}

// PDCode returns a copy of the PD code of the loaded curve's diagram.
func (a *Analyzer) PDCode() (goknot.PDCode, error) {
	d, err := a.Diagram()
	if err != nil {
		return nil, err
	}
	return d.PDCode(), nil
}

// GaussCode returns a copy of the Gauss code of the loaded curve's diagram.
func (a *Analyzer) GaussCode() (goknot.GaussCode, error) {
	d, err := a.Diagram()
	if err != nil {
		return nil, err
	}
	return d.GaussCode(), nil
}

// Simplified returns the outcome of simplifying the diagram within the move budget.
//
// Running out of budget is not an error here: it is reported through Result.BudgetExceeded and Result.Err.
func (a *Analyzer) Simplified() (*simplify.Result, error) {
	if a == nil {
		return nil, goknot.ErrNilAnalyzer
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.simplified()
}

func (a *Analyzer) simplified() (*simplify.Result, error) {
	d, err := a.diagram()
	if err != nil {
		return nil, err
	}
	if a.memo.simplified == nil {
		res := simplify.Simplify(d, a.opts.MoveBudget)
		a.memo.simplified = res
		a.metrics.simplified(res)
	}
	return a.memo.simplified, nil
}

// Summands splits the simplified diagram into the diagrams of its connected summands.
// A prime diagram yields itself and a diagram simplified to no crossings yields none.
func (a *Analyzer) Summands() ([]*diagram.Diagram, error) {
	if a == nil {
		return nil, goknot.ErrNilAnalyzer
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.memo.summandsDone {
		res, err := a.simplified()
		if err != nil {
			return nil, err
		}
		a.memo.summandsDone = true
		a.memo.summands, a.memo.summandsErr = simplify.Summands(res.Diagram)
		if a.memo.summandsErr != nil {
			a.metrics.observeError(a.memo.summandsErr)
		}
	}
	return a.memo.summands, a.memo.summandsErr
}

// SquaredGyradius returns the mean squared distance of the curve's vertices from their centroid.
func (a *Analyzer) SquaredGyradius() (float64, error) {
	if a == nil {
		return 0, goknot.ErrNilAnalyzer
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.checkLoaded(); err != nil {
		return 0, err
	}

	var c geom.Vec3
	for _, v := range a.verts {
		c = c.Add(v)
	}
	c = c.Mul(1 / float64(len(a.verts)))

	sum := 0.0
	for _, v := range a.verts {
		d := v.Sub(c)
		sum += d.Dot(d)
	}
	return sum / float64(len(a.verts)), nil
}

// IsUnknot returns true only if the simplifier reduced the diagram to no crossings.
// A false result covers both knotted and undetermined curves; see Verdict.
func (a *Analyzer) IsUnknot() (bool, error) {
	res, err := a.Simplified()
	if err != nil {
		return false, err
	}
	return res.Terminal(), nil
}

// Verdict classifies the loaded curve.
//
// A curve is the unknot if the simplifier proves it so, and knotted if its Alexander polynomial is not 1.
// Otherwise it is undetermined.  An invariant failure leaves the verdict undetermined and is returned.
func (a *Analyzer) Verdict(ctx context.Context) (goknot.Verdict, error) {
	if a == nil {
		return goknot.VerdictUndetermined, goknot.ErrNilAnalyzer
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	res, err := a.simplified()
	if err != nil {
		return goknot.VerdictUndetermined, err
	}
	if res.Terminal() {
		return goknot.VerdictUnknot, nil
	}
	P, err := a.alexanderPoly(ctx)
	if err != nil {
		return goknot.VerdictUndetermined, err
	}
	if !P.IsOne() {
		return goknot.VerdictKnotted, nil
	}
	return goknot.VerdictUndetermined, nil
}

// Alexander returns the normalized Alexander polynomial of the loaded curve.
//
// Failures are memoized like results, except for cancellation and timeouts, which may succeed on a later call.
func (a *Analyzer) Alexander(ctx context.Context) (goknot.Polynomial, error) {
	if a == nil {
		return nil, goknot.ErrNilAnalyzer
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.alexanderPoly(ctx)
}

func (a *Analyzer) alexanderPoly(ctx context.Context) (goknot.Polynomial, error) {
	if a.memo.alexanderDone {
		return a.memo.alexander, a.memo.alexanderErr
	}

	d, err := a.diagram()
	if err != nil {
		return nil, err
	}
	if a.opts.SimplifyBeforeInvariant {
		res, err := a.simplified()
		if err != nil {
			return nil, err
		}
		d = res.Diagram
	}

	start := time.Now()
	P, err := a.engine.Compute(ctx, d)
	a.metrics.solved(time.Since(start), err)
	if err != nil && goknot.KindOf(err) == goknot.KindCanceled {
		return nil, err
	}
	a.memo.alexanderDone = true
	a.memo.alexander, a.memo.alexanderErr = P, err
	return P, err
}

// Identify looks up the knot types in cat sharing the loaded curve's Alexander polynomial.
// Distinct knots can share a polynomial, so every match is a candidate rather than a proof.
func (a *Analyzer) Identify(ctx context.Context, cat goknot.Catalog) ([]goknot.KnotEntry, error) {
	P, err := a.Alexander(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Lookup(ctx, P)
}

// WriteAsString prints the requested parts of the analysis, one per line.  Parts that fail print their error.
func (a *Analyzer) WriteAsString(out io.Writer, opts goknot.PrintOpts) {
	if opts.Label != "" {
		fmt.Fprintf(out, "%s\n", opts.Label)
	}

	d, err := a.Diagram()
	if err != nil {
		fmt.Fprintf(out, "  error: %v\n", err)
		return
	}
	fmt.Fprintf(out, "  crossings: %d  writhe: %d\n", d.NumCrossings(), d.Writhe())
	if opts.Gauss {
		fmt.Fprintf(out, "  gauss: %v\n", d.GaussCode())
	}
	if opts.PD {
		fmt.Fprintf(out, "  pd: %v\n", d.PDCode())
	}
	if opts.Alexander {
		P, err := a.Alexander(context.Background())
		if err != nil {
			fmt.Fprintf(out, "  alexander: error: %v\n", err)
		} else {
			fmt.Fprintf(out, "  alexander: %v\n", P)
		}
	}
	if opts.Verdict {
		v, err := a.Verdict(context.Background())
		if err != nil {
			fmt.Fprintf(out, "  verdict: %v (%v)\n", v, err)
		} else {
			fmt.Fprintf(out, "  verdict: %v\n", v)
		}
	}
}
