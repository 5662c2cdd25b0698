package goknot

import (
	"fmt"
	"io"
	"strings"
)

// Writhe is the sum of the signs of all crossings.
func (G GaussCode) Writhe() int {
	w := 0
	for _, Vi := range G {
		if Vi.Over {
			w += int(Vi.Sign)
		}
	}
	return w
}

func (G GaussCode) String() string {
	var buf strings.Builder
	G.WriteAsString(&buf)
	return buf.String()
}

// WriteAsString writes G in the form "O1+ U2+ O3+ U1+ O2+ U3+".
func (G GaussCode) WriteAsString(out io.Writer) {
	for i, Vi := range G {
		if i > 0 {
			io.WriteString(out, " ")
		}
		flag := 'U'
		if Vi.Over {
			flag = 'O'
		}
		fmt.Fprintf(out, "%c%d%c", flag, Vi.Crossing, Vi.Sign.Rune())
	}
}

// Writhe is the sum of the signs of all crossings.
func (pd PDCode) Writhe() int {
	w := 0
	for _, Xi := range pd {
		w += int(Xi.Sign)
	}
	return w
}

func (pd PDCode) String() string {
	var buf strings.Builder
	pd.WriteAsString(&buf)
	return buf.String()
}

// WriteAsString writes pd in the form "PD[X[1,5,2,4], X[3,1,4,6], X[5,3,6,2]]".
func (pd PDCode) WriteAsString(out io.Writer) {
	io.WriteString(out, "PD[")
	for i, Xi := range pd {
		if i > 0 {
			io.WriteString(out, ", ")
		}
		fmt.Fprintf(out, "X[%d,%d,%d,%d]", Xi.Arcs[0], Xi.Arcs[1], Xi.Arcs[2], Xi.Arcs[3])
	}
	io.WriteString(out, "]")
}
