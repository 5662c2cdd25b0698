// Package crossing finds the crossings of a closed polygonal curve under a planar projection.
package crossing

import (
	"fmt"
	"math"
	"sort"

	"github.com/2x3systems/goknot/goknot"
	"github.com/2x3systems/goknot/libknot/geom"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// CurveParam locates a point on the curve: Segment is the index of the edge starting at vertex Segment, T is in (0, 1).
type CurveParam struct {
	Segment int
	T       float64
}

// Pos is the position along the curve used to order visits.
func (p CurveParam) Pos() float64 {
	return float64(p.Segment) + p.T
}

func (p CurveParam) String() string {
	return fmt.Sprintf("%d+%.4f", p.Segment, p.T)
}

// Crossing is a transversal double point of the projected curve.
type Crossing struct {
	Over       CurveParam
	Under      CurveParam
	Sign       goknot.Sign
	Location2D geom.Vec2
	OverPoint  geom.Vec3
	UnderPoint geom.Vec3
}

// FirstPos is the position of whichever visit of this crossing comes first along the curve.
func (X *Crossing) FirstPos() float64 {
	return math.Min(X.Over.Pos(), X.Under.Pos())
}

// Detect returns all crossings of the closed polygon verts under proj, sorted by first occurrence along the curve.
//
// ErrDegenerateProjection is returned if the projection is not generic: a vertex lands on another edge,
// edges overlap, an edge projects to a point, adjacent edges fold back, or three strands meet at a point.
// ErrInvalidCurve is returned if two strands meet in space.
func Detect(verts []geom.Vec3, proj geom.Projection, eps float64) ([]Crossing, error) {
	N := len(verts)
	if N < 3 {
		return nil, errors.Wrapf(goknot.ErrInvalidCurve, "need at least 3 vertices, got %d", N)
	}

	p2 := make([]geom.Vec2, N)
	h := make([]float64, N)
	for i, vi := range verts {
		p2[i], h[i] = proj.Project(vi)
	}

	boxes := make([]geom.Rect2, N)
	for i := 0; i < N; i++ {
		next := (i + 1) % N
		if p2[next].Sub(p2[i]).Norm() <= eps {
			return nil, errors.Wrapf(goknot.ErrDegenerateProjection, "segment %d projects to a point", i)
		}
		if geom.FoldsBack2D(p2[(i+N-1)%N], p2[i], p2[next], eps) {
			return nil, errors.Wrapf(goknot.ErrDegenerateProjection, "projection folds back at vertex %d", i)
		}
		boxes[i] = geom.Bounds(p2[i], p2[next])
	}

	var crossings []Crossing
	for i := 0; i < N; i++ {
		for j := i + 2; j < N; j++ {
			if i == 0 && j == N-1 {
				continue // adjacent through the closing vertex
			}
			if !boxes[i].Overlaps(boxes[j], eps) {
				continue
			}
			ni, nj := (i+1)%N, (j+1)%N
			s, u, kind := geom.IntersectSegments2D(p2[i], p2[ni], p2[j], p2[nj], eps)
			switch kind {
			case geom.IntersectNone:
				continue
			case geom.IntersectDegenerate:
				return nil, errors.Wrapf(goknot.ErrDegenerateProjection, "segments %d and %d meet non-transversally", i, j)
			}

			Pi := verts[i].Lerp(verts[ni], s)
			Pj := verts[j].Lerp(verts[nj], u)
			hi := h[i] + s*(h[ni]-h[i])
			hj := h[j] + u*(h[nj]-h[j])
			if math.Abs(hi-hj) <= eps || !geom.GenericPosition3D(verts[i], verts[ni], verts[j], verts[nj], eps) {
				return nil, errors.Wrapf(goknot.ErrInvalidCurve, "segments %d and %d intersect in space", i, j)
			}

			X := Crossing{
				Location2D: p2[i].Lerp(p2[ni], s),
			}
			dirI := p2[ni].Sub(p2[i])
			dirJ := p2[nj].Sub(p2[j])
			var overDir, underDir geom.Vec2
			if hi > hj {
				X.Over, X.Under = CurveParam{i, s}, CurveParam{j, u}
				X.OverPoint, X.UnderPoint = Pi, Pj
				overDir, underDir = dirI, dirJ
			} else {
				X.Over, X.Under = CurveParam{j, u}, CurveParam{i, s}
				X.OverPoint, X.UnderPoint = Pj, Pi
				overDir, underDir = dirJ, dirI
			}
			if overDir.Cross(underDir) > 0 {
				X.Sign = goknot.Positive
			} else {
				X.Sign = goknot.Negative
			}
			crossings = append(crossings, X)
		}
	}

	if err := checkTriplePoints(crossings, eps); err != nil {
		return nil, err
	}

	sort.Slice(crossings, func(a, b int) bool {
		return crossings[a].FirstPos() < crossings[b].FirstPos()
	})
	return crossings, nil
}

// checkTriplePoints rejects two crossings projecting to the same planar location.
func checkTriplePoints(crossings []Crossing, eps float64) error {
	order := make([]int, len(crossings))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return crossings[order[a]].Location2D.X < crossings[order[b]].Location2D.X
	})
	for a := range order {
		La := crossings[order[a]].Location2D
		for b := a + 1; b < len(order); b++ {
			Lb := crossings[order[b]].Location2D
			if Lb.X-La.X > eps {
				break
			}
			if Lb.Sub(La).Norm() <= eps {
				return errors.Wrapf(goknot.ErrDegenerateProjection, "multiple crossings at %v", La)
			}
		}
	}
	return nil
}

// Result is the outcome of DetectWithRetry.
type Result struct {
	Crossings     []Crossing
	Projection    geom.Projection
	Reprojections int // number of alternate directions tried
}

// DetectWithRetry runs Detect starting from opts.Projection.  On ErrDegenerateProjection it retries
// with the deterministic directions of geom.TiltedDirection, up to opts.MaxReprojections times.
func DetectWithRetry(verts []geom.Vec3, opts goknot.Options) (Result, error) {
	opts = opts.Normalized()

	var lastErr error
	dir := opts.Projection
	for attempt := 0; attempt <= opts.MaxReprojections; attempt++ {
		if attempt > 0 {
			dir = geom.TiltedDirection(opts.Projection, attempt)
			klog.V(3).Infof("crossing: reprojecting along %v (attempt %d): %v", dir, attempt, lastErr)
		}
		proj, err := geom.NewProjection(dir)
		if err != nil {
			return Result{}, errors.Wrapf(goknot.ErrBadOptions, "projection %v: %v", dir, err)
		}

		crossings, err := Detect(verts, proj, opts.Epsilon)
		if err == nil {
			return Result{
				Crossings:     crossings,
				Projection:    proj,
				Reprojections: attempt,
			}, nil
		}
		if !errors.Is(err, goknot.ErrDegenerateProjection) {
			return Result{}, err
		}
		lastErr = err
	}

	klog.Warningf("crossing: no generic projection after %d attempts: %v", opts.MaxReprojections+1, lastErr)
	return Result{Reprojections: opts.MaxReprojections}, lastErr
}
