// Package diagram converts crossings of a projected curve into combinatorial knot diagrams (Gauss and PD codes).
//
// Arc convention: arcs are split at every crossing, so a diagram with N crossings has 2N arcs.
// Arc k (1-based) is the arc arriving at visit k of the Gauss code and arc k+1 (mod 2N) leaves it.
// PD tuples list arcs counter-clockwise starting from the incoming under-arc.
package diagram

import (
	"io"
	"sort"

	"github.com/2x3systems/goknot/goknot"
	"github.com/2x3systems/goknot/libknot/crossing"
	"github.com/pkg/errors"
)

// Diagram is an oriented knot diagram: its signed Gauss word and the PD code derived from it.
type Diagram struct {
	gauss goknot.GaussCode
	pd    goknot.PDCode

	// Origins[i] is where visit i lies on the source curve; nil for diagrams not built from a curve.
	Origins []crossing.CurveParam
}

// Build forms the diagram of a curve from its crossings.
func Build(crossings []crossing.Crossing) *Diagram {
	type visitRec struct {
		visit goknot.Visit
		param crossing.CurveParam
	}
	recs := make([]visitRec, 0, 2*len(crossings))
	for k, Xk := range crossings {
		c := int32(k + 1)
		recs = append(recs,
			visitRec{goknot.Visit{Crossing: c, Over: true, Sign: Xk.Sign}, Xk.Over},
			visitRec{goknot.Visit{Crossing: c, Over: false, Sign: Xk.Sign}, Xk.Under},
		)
	}
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].param.Pos() < recs[j].param.Pos()
	})

	G := make(goknot.GaussCode, len(recs))
	d := &Diagram{
		Origins: make([]crossing.CurveParam, len(recs)),
	}
	for i, ri := range recs {
		G[i] = ri.visit
		d.Origins[i] = ri.param
	}
	d.gauss = Renumber(G)
	d.pd = derivePD(d.gauss)
	return d
}

// FromGauss validates a Gauss code and returns its diagram, with crossings renumbered by first occurrence.
func FromGauss(G goknot.GaussCode) (*Diagram, error) {
	if len(G)%2 != 0 {
		return nil, errors.Wrapf(goknot.ErrBadGaussCode, "odd number of visits (%d)", len(G))
	}

	type seen struct {
		over, under int
		sign        goknot.Sign
	}
	byCrossing := make(map[int32]*seen, len(G)/2)
	for i, Vi := range G {
		if Vi.Crossing <= 0 {
			return nil, errors.Wrapf(goknot.ErrBadGaussCode, "visit %d: bad crossing index %d", i, Vi.Crossing)
		}
		if Vi.Sign != goknot.Positive && Vi.Sign != goknot.Negative {
			return nil, errors.Wrapf(goknot.ErrBadGaussCode, "visit %d: bad sign %d", i, Vi.Sign)
		}
		s := byCrossing[Vi.Crossing]
		if s == nil {
			s = &seen{sign: Vi.Sign}
			byCrossing[Vi.Crossing] = s
		}
		if Vi.Over {
			s.over++
		} else {
			s.under++
		}
		if s.sign != Vi.Sign {
			return nil, errors.Wrapf(goknot.ErrBadGaussCode, "crossing %d has inconsistent signs", Vi.Crossing)
		}
	}
	for c, s := range byCrossing {
		if s.over != 1 || s.under != 1 {
			return nil, errors.Wrapf(goknot.ErrBadGaussCode, "crossing %d must be visited once over and once under", c)
		}
	}

	d := &Diagram{
		gauss: Renumber(G),
	}
	d.pd = derivePD(d.gauss)
	if err := d.checkPlanar(); err != nil {
		return nil, errors.Wrap(goknot.ErrBadGaussCode, err.Error())
	}
	return d, nil
}

// Renumber returns a copy of G with crossings numbered 1..N in order of first occurrence.
func Renumber(G goknot.GaussCode) goknot.GaussCode {
	out := make(goknot.GaussCode, len(G))
	remap := make(map[int32]int32, len(G)/2)
	for i, Vi := range G {
		c, ok := remap[Vi.Crossing]
		if !ok {
			c = int32(len(remap) + 1)
			remap[Vi.Crossing] = c
		}
		Vi.Crossing = c
		out[i] = Vi
	}
	return out
}

// derivePD forms the PD code of a renumbered Gauss word.
func derivePD(G goknot.GaussCode) goknot.PDCode {
	n2 := int32(len(G))
	pd := make(goknot.PDCode, n2/2)
	var overAt, underAt = make([]int32, n2/2), make([]int32, n2/2)
	for i, Vi := range G {
		if Vi.Over {
			overAt[Vi.Crossing-1] = int32(i)
		} else {
			underAt[Vi.Crossing-1] = int32(i)
		}
	}
	for c := range pd {
		o, u := overAt[c], underAt[c]
		inU, outU := u+1, (u+1)%n2+1
		inO, outO := o+1, (o+1)%n2+1
		sign := G[o].Sign
		if sign == goknot.Positive {
			pd[c] = goknot.PDTuple{Arcs: [4]int32{inU, outO, outU, inO}, Sign: sign}
		} else {
			pd[c] = goknot.PDTuple{Arcs: [4]int32{inU, inO, outU, outO}, Sign: sign}
		}
	}
	return pd
}

func (d *Diagram) checkPlanar() error {
	N := d.NumCrossings()
	if N == 0 {
		return nil
	}
	if F := len(d.Faces()); F != N+2 {
		return errors.Errorf("diagram is not planar: %d crossings bound %d faces", N, F)
	}
	return nil
}

// NumCrossings returns the number of crossings N.
func (d *Diagram) NumCrossings() int {
	return len(d.pd)
}

// CrossingCount is an alias of NumCrossings.
func (d *Diagram) CrossingCount() int {
	return len(d.pd)
}

// Writhe is the sum of crossing signs.
func (d *Diagram) Writhe() int {
	return d.pd.Writhe()
}

// GaussCode returns a copy of the diagram's Gauss code.
func (d *Diagram) GaussCode() goknot.GaussCode {
	return append(goknot.GaussCode(nil), d.gauss...)
}

// PDCode returns a copy of the diagram's PD code.
func (d *Diagram) PDCode() goknot.PDCode {
	return append(goknot.PDCode(nil), d.pd...)
}

// Visit returns the i-th visit of the Gauss code (0-based).
func (d *Diagram) Visit(i int) goknot.Visit {
	return d.gauss[i]
}

// Sign returns the sign of the given (1-based) crossing.
func (d *Diagram) Sign(c int32) goknot.Sign {
	return d.pd[c-1].Sign
}

// ArcEnds returns the 0-based Gauss positions that the given arc leaves and arrives at.
func (d *Diagram) ArcEnds(arc int32) (from, to int) {
	n2 := len(d.gauss)
	to = int(arc-1) % n2
	from = (to + n2 - 1) % n2
	return from, to
}

// Equal returns true if d and o have identical Gauss codes.
func (d *Diagram) Equal(o *Diagram) bool {
	if len(d.gauss) != len(o.gauss) {
		return false
	}
	for i := range d.gauss {
		if d.gauss[i] != o.gauss[i] {
			return false
		}
	}
	return true
}

func (d *Diagram) String() string {
	return d.gauss.String()
}

// WriteAsString writes the Gauss and/or PD code of d according to opts.
func (d *Diagram) WriteAsString(out io.Writer, opts goknot.PrintOpts) {
	if opts.Label != "" {
		io.WriteString(out, opts.Label)
	}
	sep := ""
	if opts.Gauss {
		io.WriteString(out, "gauss: ")
		d.gauss.WriteAsString(out)
		sep = "  "
	}
	if opts.PD {
		io.WriteString(out, sep)
		io.WriteString(out, "pd: ")
		d.pd.WriteAsString(out)
	}
}
