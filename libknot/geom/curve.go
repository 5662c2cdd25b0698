package geom

import (
	"sort"

	"github.com/2x3systems/goknot/goknot"
	"github.com/pkg/errors"
)

// ValidateCurve checks that points describe a closed polygon usable for crossing detection and returns its vertices.
//
// An explicit closing vertex equal to the first is dropped.  At least three distinct vertices must remain,
// all finite, with no repeated vertex and no edge that doubles straight back over the previous one.
func ValidateCurve(points []goknot.Point, eps float64) ([]Vec3, error) {
	N := len(points)
	if N > 1 && V3(points[N-1]).Sub(V3(points[0])).Norm() <= eps {
		N--
	}
	if N < 3 {
		return nil, errors.Wrapf(goknot.ErrInvalidCurve, "need at least 3 vertices, got %d", N)
	}

	verts := make([]Vec3, N)
	for i := 0; i < N; i++ {
		verts[i] = V3(points[i])
		if !verts[i].IsFinite() {
			return nil, errors.Wrapf(goknot.ErrInvalidCurve, "vertex %d is not finite", i)
		}
	}

	for i := 0; i < N; i++ {
		if verts[(i+1)%N].Sub(verts[i]).Norm() <= eps {
			return nil, errors.Wrapf(goknot.ErrInvalidCurve, "segment %d has zero length", i)
		}
	}

	// Sweep vertices sorted by X to find repeats.
	order := make([]int, N)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return verts[order[a]].X < verts[order[b]].X })
	for a := 0; a < N; a++ {
		va := verts[order[a]]
		for b := a + 1; b < N && verts[order[b]].X-va.X <= eps; b++ {
			if verts[order[b]].Sub(va).Norm() <= eps {
				return nil, errors.Wrapf(goknot.ErrInvalidCurve, "vertices %d and %d coincide", order[a], order[b])
			}
		}
	}

	for i := 0; i < N; i++ {
		if _, err := VertexTangent(verts[(i+N-1)%N], verts[i], verts[(i+1)%N]); err != nil {
			return nil, errors.Wrapf(goknot.ErrInvalidCurve, "curve folds back on itself at vertex %d", i)
		}
	}

	return verts, nil
}
