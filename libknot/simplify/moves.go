// Package simplify reduces knot diagrams with Reidemeister moves.
package simplify

import (
	"fmt"

	"github.com/2x3systems/goknot/goknot"
	"github.com/2x3systems/goknot/libknot/diagram"
	"github.com/pkg/errors"
)

// MoveKind names a Reidemeister move.
type MoveKind byte

const (
	R1 MoveKind = iota + 1 // removes a kink
	R2                     // separates two strands overlapping in a bigon
	R3                     // slides a strand across a crossing
)

func (k MoveKind) String() string {
	switch k {
	case R1:
		return "R1"
	case R2:
		return "R2"
	case R3:
		return "R3"
	}
	return "R?"
}

// Move is a Reidemeister move located on a particular diagram.
type Move struct {
	Kind      MoveKind
	Crossings []int32 // crossings involved (1-based)
	Arcs      []int32 // for R3, the three arcs bounding the triangle
}

func (m Move) String() string {
	return fmt.Sprintf("%v%v", m.Kind, m.Crossings)
}

// FindR1 returns a move removing a crossing whose two visits are consecutive.
func FindR1(d *diagram.Diagram) (Move, bool) {
	G := d.GaussCode()
	n := len(G)
	for i := 0; i < n; i++ {
		if G[i].Crossing == G[(i+1)%n].Crossing {
			return Move{Kind: R1, Crossings: []int32{G[i].Crossing}}, true
		}
	}
	return Move{}, false
}

// FindR2 returns a move removing a bigon face whose one arc passes over both of its crossings and the other under both.
func FindR2(d *diagram.Diagram) (Move, bool) {
	for _, f := range d.Faces() {
		if len(f) != 2 || f[0].Crossing == f[1].Crossing {
			continue
		}
		if f[0].IsOver() == d.OtherEnd(f[0]).IsOver() {
			return Move{Kind: R2, Crossings: []int32{f[0].Crossing + 1, f[1].Crossing + 1}}, true
		}
	}
	return Move{}, false
}

// FindR3 returns every triangle face that admits a third Reidemeister move,
// that is one with three distinct crossings and an arc passing over (or under) at both its ends.
func FindR3(d *diagram.Diagram) []Move {
	var moves []Move
	for _, f := range d.Faces() {
		if len(f) != 3 {
			continue
		}
		if f[0].Crossing == f[1].Crossing || f[1].Crossing == f[2].Crossing || f[0].Crossing == f[2].Crossing {
			continue
		}
		slides := false
		m := Move{Kind: R3}
		for _, at := range f {
			if at.IsOver() == d.OtherEnd(at).IsOver() {
				slides = true
			}
			m.Crossings = append(m.Crossings, at.Crossing+1)
			m.Arcs = append(m.Arcs, d.Arc(at))
		}
		if slides {
			moves = append(moves, m)
		}
	}
	return moves
}

// Apply performs the given move on d, returning the resulting diagram.
func Apply(d *diagram.Diagram, m Move) (*diagram.Diagram, error) {
	G := d.GaussCode()
	switch m.Kind {
	case R1, R2:
		drop := make(map[int32]bool, len(m.Crossings))
		for _, c := range m.Crossings {
			drop[c] = true
		}
		kept := G[:0]
		for _, Vi := range G {
			if !drop[Vi.Crossing] {
				kept = append(kept, Vi)
			}
		}
		G = kept
	case R3:
		// Each arc of the triangle now meets its two crossings in the opposite order.
		for _, arc := range m.Arcs {
			from, to := d.ArcEnds(arc)
			G[from], G[to] = G[to], G[from]
		}
	default:
		return nil, errors.Errorf("unknown move %v", m.Kind)
	}
	return diagram.FromGauss(G)
}

// AddKink inserts a new crossing whose two visits are consecutive, immediately before Gauss position pos.
// over sets whether the first of the two visits passes over.  This is the inverse of an R1 move.
func AddKink(d *diagram.Diagram, pos int, over bool, sign goknot.Sign) (*diagram.Diagram, error) {
	G := d.GaussCode()
	if pos < 0 || pos > len(G) {
		return nil, errors.Wrapf(goknot.ErrBadGaussCode, "kink position %d out of range", pos)
	}
	c := int32(d.NumCrossings() + 1)
	kink := []goknot.Visit{
		{Crossing: c, Over: over, Sign: sign},
		{Crossing: c, Over: !over, Sign: sign},
	}
	out := make(goknot.GaussCode, 0, len(G)+2)
	out = append(out, G[:pos]...)
	out = append(out, kink...)
	out = append(out, G[pos:]...)
	return diagram.FromGauss(out)
}
