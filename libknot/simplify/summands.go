package simplify

import (
	"github.com/2x3systems/goknot/goknot"
	"github.com/2x3systems/goknot/libknot/diagram"
	"github.com/pkg/errors"
)

// Summands splits d along every circle meeting it in exactly two points, returning the diagrams of the
// connected summands.  A diagram that does not split returns itself and a crossingless one returns nil.
//
// Such a circle separates a run of consecutive visits holding both visits of each of its crossings from the
// rest of the Gauss word, so the split is read off the word directly.
func Summands(d *diagram.Diagram) ([]*diagram.Diagram, error) {
	if d.NumCrossings() == 0 {
		return nil, nil
	}
	words := splitWord(d.GaussCode())
	if len(words) == 1 {
		return []*diagram.Diagram{d}, nil
	}

	out := make([]*diagram.Diagram, len(words))
	for i, w := range words {
		s, err := diagram.FromGauss(w)
		if err != nil {
			return nil, errors.Wrapf(err, "summand %d", i+1)
		}
		out[i] = s
	}
	return out, nil
}

// splitWord recursively cuts G into closed runs, that is runs containing both visits of every crossing they visit.
func splitWord(G goknot.GaussCode) []goknot.GaussCode {
	n := len(G)
	open := make(map[int32]bool, n/2)
	for i := 0; i < n; i++ {
		for k := range open {
			delete(open, k)
		}
		for l := 1; l <= n-2; l++ {
			c := G[(i+l-1)%n].Crossing
			if open[c] {
				delete(open, c)
			} else {
				open[c] = true
			}
			if len(open) != 0 {
				continue
			}
			inner := make(goknot.GaussCode, 0, l)
			outer := make(goknot.GaussCode, 0, n-l)
			for j := 0; j < n; j++ {
				if v := G[(i+j)%n]; j < l {
					inner = append(inner, v)
				} else {
					outer = append(outer, v)
				}
			}
			return append(splitWord(inner), splitWord(outer)...)
		}
	}
	return []goknot.GaussCode{G}
}
