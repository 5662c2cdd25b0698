package goknot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Term is a single coefficient * t^Exp of a Laurent polynomial.
type Term struct {
	Exp   int32
	Coeff int64
}

// Polynomial is a Laurent polynomial in t with integer coefficients.
//
// Terms are kept sorted by ascending exponent with no zero coefficients, so the zero polynomial is empty.
type Polynomial []Term

// One is the Alexander polynomial of the unknot.
var One = Polynomial{{Exp: 0, Coeff: 1}}

// NewPolynomial builds a Polynomial from an exponent -> coefficient mapping.
func NewPolynomial(coeffs map[int32]int64) Polynomial {
	P := make(Polynomial, 0, len(coeffs))
	for exp, c := range coeffs {
		if c != 0 {
			P = append(P, Term{Exp: exp, Coeff: c})
		}
	}
	sort.Slice(P, func(i, j int) bool { return P[i].Exp < P[j].Exp })
	return P
}

// PolynomialFromCoeffs returns sum coeffs[i] * t^(lowExp+i).
func PolynomialFromCoeffs(lowExp int32, coeffs ...int64) Polynomial {
	P := make(Polynomial, 0, len(coeffs))
	for i, c := range coeffs {
		if c != 0 {
			P = append(P, Term{Exp: lowExp + int32(i), Coeff: c})
		}
	}
	return P
}

// Coefficients returns the exponent -> coefficient mapping of P.
func (P Polynomial) Coefficients() map[int32]int64 {
	m := make(map[int32]int64, len(P))
	for _, Ti := range P {
		m[Ti.Exp] = Ti.Coeff
	}
	return m
}

func (P Polynomial) IsZero() bool {
	for _, Ti := range P {
		if Ti.Coeff != 0 {
			return false
		}
	}
	return true
}

// IsOne returns true if P is the constant 1, the Alexander polynomial of the unknot.
func (P Polynomial) IsOne() bool {
	return P.IsEqual(One)
}

// IsEqual returns true if P and Q have identical terms.
func (P Polynomial) IsEqual(Q Polynomial) bool {
	if len(P) != len(Q) {
		return false
	}
	for i := range P {
		if P[i] != Q[i] {
			return false
		}
	}
	return true
}

// At1 evaluates P at t = 1.
func (P Polynomial) At1() int64 {
	sum := int64(0)
	for _, Ti := range P {
		sum += Ti.Coeff
	}
	return sum
}

// Span returns the difference between the highest and lowest exponent (0 for the zero polynomial).
func (P Polynomial) Span() int32 {
	if len(P) == 0 {
		return 0
	}
	return P[len(P)-1].Exp - P[0].Exp
}

// Normalize returns P multiplied by the unit +-t^k that puts it in canonical form:
// the span is centred on t^0 when it is even (otherwise the lowest exponent becomes 0),
// and the sign is chosen so that P(1) = +1, or when P(1) = 0, so that the leading coefficient is positive.
func (P Polynomial) Normalize() Polynomial {
	out := make(Polynomial, 0, len(P))
	for _, Ti := range P {
		if Ti.Coeff != 0 {
			out = append(out, Ti)
		}
	}
	if len(out) == 0 {
		return out
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Exp < out[j].Exp })

	shift := out[0].Exp
	span := out[len(out)-1].Exp - shift
	if span%2 == 0 {
		shift += span / 2
	}

	negate := false
	if at1 := out.At1(); at1 < 0 {
		negate = true
	} else if at1 == 0 && out[len(out)-1].Coeff < 0 {
		negate = true
	}

	for i := range out {
		out[i].Exp -= shift
		if negate {
			out[i].Coeff = -out[i].Coeff
		}
	}
	return out
}

// EqualUpToUnit returns true if P = +-t^k * Q for some k.
func (P Polynomial) EqualUpToUnit(Q Polynomial) bool {
	return P.Normalize().IsEqual(Q.Normalize())
}

// String formats P from the highest exponent down, e.g. "t - 1 + t^-1".
func (P Polynomial) String() string {
	var buf strings.Builder
	P.WriteAsString(&buf)
	return buf.String()
}

func (P Polynomial) WriteAsString(out io.Writer) {
	wrote := false
	for i := len(P) - 1; i >= 0; i-- {
		Ti := P[i]
		if Ti.Coeff == 0 {
			continue
		}
		c := Ti.Coeff
		switch {
		case !wrote && c < 0:
			io.WriteString(out, "-")
			c = -c
		case wrote && c < 0:
			io.WriteString(out, " - ")
			c = -c
		case wrote:
			io.WriteString(out, " + ")
		}
		wrote = true

		if c != 1 || Ti.Exp == 0 {
			fmt.Fprintf(out, "%d", c)
		}
		switch Ti.Exp {
		case 0:
		case 1:
			io.WriteString(out, "t")
		default:
			fmt.Fprintf(out, "t^%d", Ti.Exp)
		}
	}
	if !wrote {
		io.WriteString(out, "0")
	}
}

// AppendKey appends a canonical, self-delimiting binary encoding of P to out.
//
// The term count leads so that no encoding is a proper prefix of another.
func (P Polynomial) AppendKey(out []byte) []byte {
	var scrap [binary.MaxVarintLen64]byte

	n := binary.PutUvarint(scrap[:], uint64(len(P)))
	out = append(out, scrap[:n]...)
	for _, Ti := range P {
		n = binary.PutVarint(scrap[:], int64(Ti.Exp))
		out = append(out, scrap[:n]...)
		n = binary.PutVarint(scrap[:], Ti.Coeff)
		out = append(out, scrap[:n]...)
	}
	return out
}

// InitFromKey assigns P from an encoding made by AppendKey(), returning the number of bytes consumed.
func (P *Polynomial) InitFromKey(key []byte) (int, error) {
	rdr := bytes.NewReader(key)

	count, err := binary.ReadUvarint(rdr)
	if err != nil || count > uint64(len(key)) {
		return 0, ErrUnmarshal
	}
	out := (*P)[:0]
	for i := uint64(0); i < count; i++ {
		exp, err := binary.ReadVarint(rdr)
		if err != nil {
			return 0, ErrUnmarshal
		}
		c, err := binary.ReadVarint(rdr)
		if err != nil {
			return 0, ErrUnmarshal
		}
		out = append(out, Term{Exp: int32(exp), Coeff: c})
	}
	*P = out
	return len(key) - rdr.Len(), nil
}
