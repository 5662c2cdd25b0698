package diagram

// Dart is one end of an arc at a crossing: Slot indexes the PD tuple of crossing Crossing (0-based).
type Dart struct {
	Crossing int32
	Slot     int8
}

// IsOver returns true if the strand through this slot passes over the crossing (odd slots).
func (d Dart) IsOver() bool {
	return d.Slot&1 != 0
}

// Face is the cycle of darts bounding one region of the diagram, each dart followed
// by the arc to the next crossing and a counter-clockwise turn.
type Face []Dart

// Faces traces the regions of the diagram from its rotation system.
//
// A diagram with N > 0 crossings has N + 2 faces.  A crossingless diagram returns nil.
func (d *Diagram) Faces() []Face {
	N := len(d.pd)
	if N == 0 {
		return nil
	}
	ends := d.arcDarts()
	seen := make([][4]bool, N)

	var faces []Face
	for c := 0; c < N; c++ {
		for s := int8(0); s < 4; s++ {
			if seen[c][s] {
				continue
			}
			var face Face
			for at := (Dart{int32(c), s}); !seen[at.Crossing][at.Slot]; {
				seen[at.Crossing][at.Slot] = true
				face = append(face, at)
				other := d.otherEnd(ends, at)
				at = Dart{other.Crossing, (other.Slot + 1) & 3}
			}
			faces = append(faces, face)
		}
	}
	return faces
}

// Arc returns the arc label at the given dart.
func (d *Diagram) Arc(at Dart) int32 {
	return d.pd[at.Crossing].Arcs[at.Slot]
}

// OtherEnd returns the dart at the far end of the arc leaving at.
func (d *Diagram) OtherEnd(at Dart) Dart {
	return d.otherEnd(d.arcDarts(), at)
}

func (d *Diagram) arcDarts() map[int32][2]Dart {
	ends := make(map[int32][2]Dart, 2*len(d.pd))
	for c, Xc := range d.pd {
		for s, arc := range Xc.Arcs {
			e, ok := ends[arc]
			at := Dart{int32(c), int8(s)}
			if !ok {
				e[0], e[1] = at, at
			} else {
				e[1] = at
			}
			ends[arc] = e
		}
	}
	return ends
}

func (d *Diagram) otherEnd(ends map[int32][2]Dart, at Dart) Dart {
	e := ends[d.pd[at.Crossing].Arcs[at.Slot]]
	if e[0] == at {
		return e[1]
	}
	return e[0]
}
