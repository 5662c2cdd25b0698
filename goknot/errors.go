package goknot

import (
	"context"
	"errors"
)

// Errors
var (
	ErrInvalidCurve                 = errors.New("invalid curve")
	ErrDegenerateProjection         = errors.New("degenerate projection")
	ErrSimplificationBudgetExceeded = errors.New("simplification move budget exceeded")
	ErrSingularInvariantSystem      = errors.New("singular invariant system")
	ErrNonIntegralInvariant         = errors.New("invariant interpolation produced non-integral coefficients")
	ErrBadGaussCode                 = errors.New("bad Gauss code")
	ErrBadPDCode                    = errors.New("bad PD code")
	ErrNotAKnot                     = errors.New("diagram has more than one component")
	ErrBadOptions                   = errors.New("bad options")
	ErrBadCatalogParam              = errors.New("bad catalog param")
	ErrUnmarshal                    = errors.New("unmarshal failed")
	ErrNilAnalyzer                  = errors.New("nil analyzer")
)

// ErrorKind classifies an error returned anywhere in the pipeline.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindInvalidCurve
	KindDegenerateProjection
	KindSimplificationBudgetExceeded
	KindSingularInvariantSystem
	KindBadDiagram
	KindCanceled
	KindOther
)

var kindNames = [...]string{
	KindNone:                         "none",
	KindInvalidCurve:                 "InvalidCurve",
	KindDegenerateProjection:         "DegenerateProjection",
	KindSimplificationBudgetExceeded: "SimplificationBudgetExceeded",
	KindSingularInvariantSystem:      "SingularInvariantSystem",
	KindBadDiagram:                   "BadDiagram",
	KindCanceled:                     "Canceled",
	KindOther:                        "Other",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Other"
	}
	return kindNames[k]
}

// KindOf returns the ErrorKind of err, unwrapping any context added along the way.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidCurve):
		return KindInvalidCurve
	case errors.Is(err, ErrDegenerateProjection):
		return KindDegenerateProjection
	case errors.Is(err, ErrSimplificationBudgetExceeded):
		return KindSimplificationBudgetExceeded
	case errors.Is(err, ErrSingularInvariantSystem), errors.Is(err, ErrNonIntegralInvariant):
		return KindSingularInvariantSystem
	case errors.Is(err, ErrBadGaussCode), errors.Is(err, ErrBadPDCode), errors.Is(err, ErrNotAKnot):
		return KindBadDiagram
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	}
	return KindOther
}
