package geom

import "math"

// IntersectKind classifies how two planar segments meet.
type IntersectKind byte

const (
	// IntersectNone means the segments are disjoint.
	IntersectNone IntersectKind = iota

	// IntersectProper means the segments cross transversally at interior points of both.
	IntersectProper

	// IntersectDegenerate means the segments touch at an endpoint or overlap along a common line.
	IntersectDegenerate
)

func (k IntersectKind) String() string {
	switch k {
	case IntersectProper:
		return "proper"
	case IntersectDegenerate:
		return "degenerate"
	}
	return "none"
}

// IntersectSegments2D intersects segments a0a1 and b0b1.
//
// For a proper intersection the meeting point is a0 + s(a1-a0) = b0 + u(b1-b0).
// Parameters within eps of 0 or 1 are reported as IntersectDegenerate.
func IntersectSegments2D(a0, a1, b0, b1 Vec2, eps float64) (s, u float64, kind IntersectKind) {
	r := a1.Sub(a0)
	q := b1.Sub(b0)
	w := b0.Sub(a0)
	rLen, qLen := r.Norm(), q.Norm()
	if rLen <= eps || qLen <= eps {
		return 0, 0, IntersectDegenerate
	}

	den := r.Cross(q)
	if math.Abs(den) <= eps*rLen*qLen {
		// Parallel: only collinear overlap matters.
		if math.Abs(w.Cross(r)) > eps*rLen {
			return 0, 0, IntersectNone
		}
		rr := r.Dot(r)
		t0 := w.Dot(r) / rr
		t1 := b1.Sub(a0).Dot(r) / rr
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t1 < -eps || t0 > 1+eps {
			return 0, 0, IntersectNone
		}
		return math.Max(t0, 0), 0, IntersectDegenerate
	}

	s = w.Cross(q) / den
	u = w.Cross(r) / den
	if s < -eps || s > 1+eps || u < -eps || u > 1+eps {
		return s, u, IntersectNone
	}
	if s <= eps || s >= 1-eps || u <= eps || u >= 1-eps {
		return s, u, IntersectDegenerate
	}
	return s, u, IntersectProper
}

// SegmentDistance3D returns the minimum distance between segments a0a1 and b0b1.
func SegmentDistance3D(a0, a1, b0, b1 Vec3) float64 {
	d1 := a1.Sub(a0)
	d2 := b1.Sub(b0)
	r := a0.Sub(b0)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float64
	switch {
	case a == 0 && e == 0:
		return r.Norm()
	case a == 0:
		t = clamp01(f / e)
	default:
		c := d1.Dot(r)
		if e == 0 {
			s = clamp01(-c / a)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom != 0 {
				s = clamp01((b*f - c*e) / denom)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clamp01(-c / a)
			} else if t > 1 {
				t = 1
				s = clamp01((b - c) / a)
			}
		}
	}
	return a0.Add(d1.Mul(s)).Sub(b0.Add(d2.Mul(t))).Norm()
}

// GenericPosition3D returns true if segments a0a1 and b0b1 are further than eps apart in space.
func GenericPosition3D(a0, a1, b0, b1 Vec3, eps float64) bool {
	return SegmentDistance3D(a0, a1, b0, b1) > eps
}

// VertexTangent returns the unit tangent at cur, the average of the incoming and outgoing edge directions.
//
// ErrDegenerate is returned for a zero-length edge or when the curve folds straight back on itself at cur.
func VertexTangent(prev, cur, next Vec3) (Vec3, error) {
	in, err := cur.Sub(prev).Normalize()
	if err != nil {
		return Vec3{}, err
	}
	out, err := next.Sub(cur).Normalize()
	if err != nil {
		return Vec3{}, err
	}
	return in.Add(out).Normalize()
}

// FoldsBack2D returns true if the planar path a -> b -> c reverses direction at b, so that the two edges overlap.
func FoldsBack2D(a, b, c Vec2, eps float64) bool {
	in := b.Sub(a)
	out := c.Sub(b)
	inLen, outLen := in.Norm(), out.Norm()
	if inLen <= eps || outLen <= eps {
		return true
	}
	return math.Abs(in.Cross(out)) <= eps*inLen*outLen && in.Dot(out) < 0
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}
