package diagram

import (
	"strings"

	"github.com/2x3systems/goknot/goknot"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// GaussExpr is the text form of a Gauss code, e.g. "O1+ U2+ O3+ U1+ O2+ U3+".
type GaussExpr struct {
	Visits []*VisitExpr `parser:"@@*"`
}

type VisitExpr struct {
	Flag     string `parser:"@Flag"`
	Crossing int32  `parser:"@Int"`
	Sign     string `parser:"@Sign"`
}

// PDExpr is the text form of a PD code, e.g. "PD[X[1,5,2,4], X[3,1,4,6], X[5,3,6,2]]".
type PDExpr struct {
	Tuples []*TupleExpr `parser:"\"PD\" \"[\" (@@ (\",\" @@)*)? \"]\""`
}

type TupleExpr struct {
	Arcs []int32 `parser:"\"X\" \"[\" @Int (\",\" @Int)* \"]\""`
}

var sGaussLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Flag", Pattern: `[OUou]`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Sign", Pattern: `[-+]`},
	{Name: "whitespace", Pattern: `[\s,]+`},
})

var sPDLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z]+`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Punct", Pattern: `[\[\],]`},
	{Name: "whitespace", Pattern: `\s+`},
})

var sParseGauss = participle.MustBuild[GaussExpr](
	participle.Lexer(sGaussLexer),
	participle.Elide("whitespace"),
)

var sParsePD = participle.MustBuild[PDExpr](
	participle.Lexer(sPDLexer),
	participle.Elide("whitespace"),
)

// ParseGauss reads the text form of a Gauss code.
func ParseGauss(src string) (goknot.GaussCode, error) {
	expr, err := sParseGauss.ParseString("", src)
	if err != nil {
		return nil, errors.Wrap(goknot.ErrBadGaussCode, err.Error())
	}
	G := make(goknot.GaussCode, len(expr.Visits))
	for i, vi := range expr.Visits {
		G[i] = goknot.Visit{
			Crossing: vi.Crossing,
			Over:     vi.Flag == "O" || vi.Flag == "o",
			Sign:     goknot.Positive,
		}
		if vi.Sign == "-" {
			G[i].Sign = goknot.Negative
		}
	}
	return G, nil
}

// ParsePD reads the text form of a PD code.  Signs are left zero and are inferred by FromPD.
func ParsePD(src string) (goknot.PDCode, error) {
	expr, err := sParsePD.ParseString("", src)
	if err != nil {
		return nil, errors.Wrap(goknot.ErrBadPDCode, err.Error())
	}
	pd := make(goknot.PDCode, len(expr.Tuples))
	for i, Xi := range expr.Tuples {
		if len(Xi.Arcs) != 4 {
			return nil, errors.Wrapf(goknot.ErrBadPDCode, "tuple %d has %d arcs", i+1, len(Xi.Arcs))
		}
		copy(pd[i].Arcs[:], Xi.Arcs)
	}
	return pd, nil
}

// FromString parses either text form: a PD code if it starts with "PD", otherwise a Gauss code.
func FromString(src string) (*Diagram, error) {
	if strings.HasPrefix(strings.TrimSpace(src), "PD") {
		pd, err := ParsePD(src)
		if err != nil {
			return nil, err
		}
		return FromPD(pd)
	}
	G, err := ParseGauss(src)
	if err != nil {
		return nil, err
	}
	return FromGauss(G)
}
