// Package geom holds the floating point primitives shared by crossing detection: vectors, projection frames and segment tests.
package geom

import (
	"fmt"
	"math"

	"github.com/2x3systems/goknot/goknot"
	"github.com/pkg/errors"
)

// ErrDegenerate is returned when a direction cannot be formed from a zero-length or folded-back input.
var ErrDegenerate = errors.New("degenerate geometry")

type Vec3 struct {
	X, Y, Z float64
}

// V3 converts a curve vertex into a Vec3.
func V3(p goknot.Point) Vec3 {
	return Vec3{p[0], p[1], p[2]}
}

func (v Vec3) Point() goknot.Point {
	return goknot.Point{v.X, v.Y, v.Z}
}

func (v Vec3) String() string {
	return fmt.Sprintf("⟨%g, %g, %g⟩", v.X, v.Y, v.Z)
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Mul(f float64) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the right-handed cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns the unit vector along v, or ErrDegenerate if v has zero length.
func (v Vec3) Normalize() (Vec3, error) {
	n := v.Norm()
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return Vec3{}, errors.Wrapf(ErrDegenerate, "cannot normalize %v", v)
	}
	return v.Mul(1 / n), nil
}

// Lerp returns v + t(o - v).
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return v.Add(o.Sub(v).Mul(t))
}

func (v Vec3) IsFinite() bool {
	for _, xi := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(xi) || math.IsInf(xi, 0) {
			return false
		}
	}
	return true
}

type Vec2 struct {
	X, Y float64
}

func (v Vec2) String() string {
	return fmt.Sprintf("⟨%g, %g⟩", v.X, v.Y)
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) Mul(f float64) Vec2 {
	return Vec2{v.X * f, v.Y * f}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the cross product of v and o.
func (v Vec2) Cross(o Vec2) float64 {
	return v.X*o.Y - v.Y*o.X
}

func (v Vec2) Norm() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return v.Add(o.Sub(v).Mul(t))
}

// Rect2 is an axis aligned bounding box.
type Rect2 struct {
	Min, Max Vec2
}

// Bounds returns the bounding box of a segment.
func Bounds(a, b Vec2) Rect2 {
	return Rect2{
		Min: Vec2{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		Max: Vec2{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
	}
}

// Overlaps returns true if r and o intersect when both are grown by eps.
func (r Rect2) Overlaps(o Rect2, eps float64) bool {
	return r.Min.X <= o.Max.X+eps && o.Min.X <= r.Max.X+eps &&
		r.Min.Y <= o.Max.Y+eps && o.Min.Y <= r.Max.Y+eps
}
