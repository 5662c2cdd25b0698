package geom

import (
	"math"

	"github.com/2x3systems/goknot/goknot"
)

// Projection is a right-handed orthonormal frame (E1, E2, Dir) with E1 × E2 = Dir.
//
// Points project onto the (E1, E2) plane and the viewer looks down -Dir, so a larger height along Dir is nearer the viewer.
type Projection struct {
	Dir Vec3
	E1  Vec3
	E2  Vec3
}

// NewProjection builds the frame for the given viewing direction.
func NewProjection(dir goknot.Point) (Projection, error) {
	D, err := V3(dir).Normalize()
	if err != nil {
		return Projection{}, err
	}

	// Seed E1 with the axis least aligned with D.
	axis := Vec3{1, 0, 0}
	ax, ay, az := math.Abs(D.X), math.Abs(D.Y), math.Abs(D.Z)
	if ay < ax && ay <= az {
		axis = Vec3{0, 1, 0}
	} else if az < ax && az < ay {
		axis = Vec3{0, 0, 1}
	}

	E1, err := axis.Sub(D.Mul(axis.Dot(D))).Normalize()
	if err != nil {
		return Projection{}, err
	}
	return Projection{
		Dir: D,
		E1:  E1,
		E2:  D.Cross(E1),
	}, nil
}

// Project returns the planar image of p and its height along Dir.
func (proj *Projection) Project(p Vec3) (Vec2, float64) {
	return Vec2{p.Dot(proj.E1), p.Dot(proj.E2)}, p.Dot(proj.Dir)
}

// TiltedDirection returns the i-th fallback viewing direction derived from base (i >= 1).
//
// Directions are deterministic: each tilts base by a growing angle about an azimuth that advances by the golden angle.
func TiltedDirection(base goknot.Point, i int) goknot.Point {
	proj, err := NewProjection(base)
	if err != nil {
		proj, _ = NewProjection(goknot.Point{0, 0, 1})
	}
	const goldenAngle = 2.399963229728653
	tilt := 0.05 * float64(i)
	if tilt > 1.2 {
		tilt = 1.2
	}
	phi := goldenAngle * float64(i)

	dir := proj.Dir.Mul(math.Cos(tilt)).
		Add(proj.E1.Mul(math.Sin(tilt) * math.Cos(phi))).
		Add(proj.E2.Mul(math.Sin(tilt) * math.Sin(phi)))
	return dir.Point()
}
