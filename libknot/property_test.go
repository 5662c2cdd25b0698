package libknot

import (
	"context"
	"testing"

	"github.com/2x3systems/goknot/goknot"
	"github.com/2x3systems/goknot/libknot/alexander"
	"github.com/2x3systems/goknot/libknot/diagram"
	"github.com/2x3systems/goknot/libknot/simplify"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const polygonSize = 9

// polygonDiagram returns the diagram of the closed polygon with the given flattened coordinates, or nil if
// the polygon happens to be degenerate.
func polygonDiagram(coords []float64) *diagram.Diagram {
	pts := make([]goknot.Point, len(coords)/3)
	for i := range pts {
		pts[i] = goknot.Point{coords[3*i], coords[3*i+1], coords[3*i+2]}
	}
	a, err := AnalyzeCurve(pts, goknot.DefaultOptions())
	if err != nil {
		return nil
	}
	d, err := a.Diagram()
	if err != nil {
		return nil
	}
	return d
}

func genPolygon() gopter.Gen {
	return gen.SliceOfN(3*polygonSize, gen.Float64Range(-1, 1))
}

// TestDiagramProperties checks the structural properties every diagram read off a space curve must have.
func TestDiagramProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40

	properties := gopter.NewProperties(parameters)

	properties.Property("Gauss code has two visits per PD tuple", prop.ForAll(
		func(coords []float64) bool {
			d := polygonDiagram(coords)
			return d == nil || len(d.GaussCode()) == 2*len(d.PDCode())
		},
		genPolygon(),
	))

	properties.Property("PD and Gauss codes describe the same diagram", prop.ForAll(
		func(coords []float64) bool {
			d := polygonDiagram(coords)
			if d == nil {
				return true
			}
			fromPD, err := diagram.FromPD(d.PDCode())
			if err != nil || !fromPD.Equal(d) {
				return false
			}
			fromGauss, err := diagram.FromGauss(d.GaussCode())
			return err == nil && fromGauss.Equal(d)
		},
		genPolygon(),
	))

	properties.Property("projections are planar", prop.ForAll(
		func(coords []float64) bool {
			d := polygonDiagram(coords)
			if d == nil || d.NumCrossings() == 0 {
				return true
			}
			return len(d.Faces()) == d.NumCrossings()+2
		},
		genPolygon(),
	))

	properties.TestingRun(t)
}

// TestInvariance checks that moves and simplification preserve the Alexander polynomial.
func TestInvariance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping invariance properties in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20

	properties := gopter.NewProperties(parameters)
	engine := alexander.NewEngine(goknot.DefaultOptions())
	ctx := context.Background()

	same := func(d1, d2 *diagram.Diagram) bool {
		P1, err := engine.Compute(ctx, d1)
		if err != nil {
			return false
		}
		P2, err := engine.Compute(ctx, d2)
		return err == nil && P1.EqualUpToUnit(P2)
	}

	properties.Property("simplification preserves the invariant", prop.ForAll(
		func(coords []float64) bool {
			d := polygonDiagram(coords)
			if d == nil {
				return true
			}
			res := simplify.Simplify(d, 500)
			if res.Terminal() {
				P, err := engine.Compute(ctx, d)
				return err == nil && P.IsOne()
			}
			return same(d, res.Diagram)
		},
		genPolygon(),
	))

	properties.Property("kinks preserve the invariant", prop.ForAll(
		func(coords []float64, pos int, over bool) bool {
			d := polygonDiagram(coords)
			if d == nil {
				return true
			}
			k, err := simplify.AddKink(d, pos%(len(d.GaussCode())+1), over, goknot.Negative)
			return err == nil && same(d, k)
		},
		genPolygon(),
		gen.IntRange(0, 1000),
		gen.Bool(),
	))

	properties.Property("R3 moves preserve the invariant", prop.ForAll(
		func(coords []float64) bool {
			d := polygonDiagram(coords)
			if d == nil {
				return true
			}
			for _, m := range simplify.FindR3(d) {
				next, err := simplify.Apply(d, m)
				if err != nil || !same(d, next) {
					return false
				}
			}
			return true
		},
		genPolygon(),
	))

	properties.TestingRun(t)
}
