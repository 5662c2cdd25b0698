// Package curves samples closed parametric space curves of a few well known knot types.
package curves

import (
	"math"

	"github.com/2x3systems/goknot/goknot"
)

// phase offsets samples so that crossings of the +z projection avoid landing on vertices.
const phase = 0.37

// Func is a closed parametric curve on [0, 2π).
type Func func(t float64) goknot.Point

// Sample evaluates fn at N evenly spaced, phase shifted parameters.
func Sample(fn Func, N int) []goknot.Point {
	pts := make([]goknot.Point, N)
	for i := range pts {
		pts[i] = fn(2 * math.Pi * (float64(i) + phase) / float64(N))
	}
	return pts
}

// Circle is a planar unknot with no crossings.
func Circle(t float64) goknot.Point {
	return goknot.Point{math.Cos(t), math.Sin(t), 0}
}

// Twisted is an unknot whose +z projection is a figure eight with a single crossing.
func Twisted(t float64) goknot.Point {
	return goknot.Point{math.Cos(t), math.Sin(2*t) / 2, 0.3 * math.Sin(t)}
}

// Trefoil is a trefoil whose +z projection has three crossings.
func Trefoil(t float64) goknot.Point {
	return goknot.Point{
		math.Sin(t) + 2*math.Sin(2*t),
		math.Cos(t) - 2*math.Cos(2*t),
		-math.Sin(3 * t),
	}
}

// FigureEight is a figure-eight knot whose +z projection has four crossings.
func FigureEight(t float64) goknot.Point {
	r := 2 + math.Cos(2*t)
	return goknot.Point{
		r * math.Cos(3*t),
		r * math.Sin(3*t),
		math.Sin(4 * t),
	}
}

// ByName maps the names accepted by the command line and script bindings to curves.
var ByName = map[string]Func{
	"circle":       Circle,
	"twisted":      Twisted,
	"trefoil":      Trefoil,
	"figure-eight": FigureEight,
}
