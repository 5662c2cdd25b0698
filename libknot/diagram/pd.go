package diagram

import (
	"github.com/2x3systems/goknot/goknot"
	"github.com/pkg/errors"
)

// FromPD reconstructs a diagram from a PD code with arbitrary positive arc labels.
//
// The strand is followed from the incoming under-arc of the first tuple.  Orientation and crossing signs are
// inferred from the slot each arc enters: slot 0 is an incoming under-arc, slot 3 an incoming over-arc of a
// positive crossing and slot 1 an incoming over-arc of a negative crossing.  A nonzero PDTuple.Sign must agree.
// The resulting Gauss code starts at the visit whose incoming arc has the smallest label.
func FromPD(pd goknot.PDCode) (*Diagram, error) {
	N := len(pd)
	if N == 0 {
		return &Diagram{}, nil
	}

	ends := make(map[int32][]Dart, 2*N)
	for c, Xc := range pd {
		for s, arc := range Xc.Arcs {
			if arc <= 0 {
				return nil, errors.Wrapf(goknot.ErrBadPDCode, "crossing %d: bad arc label %d", c+1, arc)
			}
			ends[arc] = append(ends[arc], Dart{int32(c), int8(s)})
		}
	}
	for arc, e := range ends {
		if len(e) != 2 {
			return nil, errors.Wrapf(goknot.ErrBadPDCode, "arc %d appears %d times", arc, len(e))
		}
	}

	visited := make([][4]bool, N)
	G := make(goknot.GaussCode, 0, 2*N)
	inArcs := make([]int32, 0, 2*N)
	signs := make([]goknot.Sign, N)

	at := Dart{0, 0}
	for {
		c, s := at.Crossing, at.Slot
		if visited[c][s] {
			if at == (Dart{0, 0}) {
				break
			}
			return nil, errors.Wrapf(goknot.ErrBadPDCode, "crossing %d entered twice through slot %d", c+1, s)
		}

		var visit goknot.Visit
		switch s {
		case 0:
			visit = goknot.Visit{Crossing: c + 1, Over: false}
		case 1:
			visit = goknot.Visit{Crossing: c + 1, Over: true, Sign: goknot.Negative}
		case 3:
			visit = goknot.Visit{Crossing: c + 1, Over: true, Sign: goknot.Positive}
		default:
			return nil, errors.Wrapf(goknot.ErrBadPDCode, "crossing %d: strand enters through its outgoing under-arc", c+1)
		}
		if visit.Over {
			if signs[c] != 0 {
				return nil, errors.Wrapf(goknot.ErrBadPDCode, "crossing %d passed over twice", c+1)
			}
			signs[c] = visit.Sign
		}

		exit := (s + 2) & 3
		visited[c][s] = true
		visited[c][exit] = true
		G = append(G, visit)
		inArcs = append(inArcs, pd[c].Arcs[s])

		e := ends[pd[c].Arcs[exit]]
		if e[0] == (Dart{c, exit}) {
			at = e[1]
		} else {
			at = e[0]
		}
	}

	if len(G) != 2*N {
		return nil, errors.Wrapf(goknot.ErrNotAKnot, "strand from arc %d covers %d of %d crossing visits", pd[0].Arcs[0], len(G), 2*N)
	}

	for c, Xc := range pd {
		if signs[c] == 0 {
			return nil, errors.Wrapf(goknot.ErrBadPDCode, "crossing %d is never passed over", c+1)
		}
		if Xc.Sign != 0 && Xc.Sign != signs[c] {
			return nil, errors.Wrapf(goknot.ErrBadPDCode, "crossing %d: sign %d disagrees with orientation", c+1, Xc.Sign)
		}
	}
	for i := range G {
		G[i].Sign = signs[G[i].Crossing-1]
	}

	// Rotate so the smallest incoming label comes first.
	start := 0
	for i, arc := range inArcs {
		if arc < inArcs[start] {
			start = i
		}
	}
	rotated := make(goknot.GaussCode, 0, len(G))
	rotated = append(rotated, G[start:]...)
	rotated = append(rotated, G[:start]...)

	d := &Diagram{
		gauss: Renumber(rotated),
	}
	d.pd = derivePD(d.gauss)
	if err := d.checkPlanar(); err != nil {
		return nil, errors.Wrap(goknot.ErrBadPDCode, err.Error())
	}
	return d, nil
}
