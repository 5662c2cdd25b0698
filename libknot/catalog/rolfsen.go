package catalog

import (
	"context"

	"github.com/2x3systems/goknot/goknot"
	"github.com/2x3systems/goknot/libknot/alexander"
	"github.com/2x3systems/goknot/libknot/diagram"
	"github.com/pkg/errors"
)

// RolfsenKnot names a prime knot and gives one of its minimal diagrams.
type RolfsenKnot struct {
	Name           string
	CrossingNumber int32
	PD             string
}

// RolfsenTable lists the prime knots through six crossings, PD codes as tabulated by KnotTheory.
var RolfsenTable = []RolfsenKnot{
	{"0_1", 0, "PD[]"},
	{"3_1", 3, "PD[X[1,5,2,4], X[3,1,4,6], X[5,3,6,2]]"},
	{"4_1", 4, "PD[X[4,2,5,1], X[8,6,1,5], X[6,3,7,4], X[2,7,3,8]]"},
	{"5_1", 5, "PD[X[1,6,2,7], X[3,8,4,9], X[5,10,6,1], X[7,2,8,3], X[9,4,10,5]]"},
	{"5_2", 5, "PD[X[1,4,2,5], X[3,8,4,9], X[5,10,6,1], X[9,6,10,7], X[7,2,8,3]]"},
	{"6_1", 6, "PD[X[1,4,2,5], X[7,10,8,11], X[3,9,4,8], X[9,3,10,2], X[5,12,6,1], X[11,6,12,7]]"},
	{"6_2", 6, "PD[X[1,4,2,5], X[5,10,6,11], X[3,9,4,8], X[9,3,10,2], X[7,12,8,1], X[11,6,12,7]]"},
	{"6_3", 6, "PD[X[4,2,5,1], X[8,4,9,3], X[12,9,1,10], X[10,5,11,6], X[6,11,7,12], X[2,8,3,7]]"},
}

// Entry computes the catalog entry for k.
func (k RolfsenKnot) Entry(ctx context.Context, engine *alexander.Engine) (goknot.KnotEntry, error) {
	d, err := diagram.FromString(k.PD)
	if err != nil {
		return goknot.KnotEntry{}, errors.Wrapf(err, "knot %s", k.Name)
	}
	P, err := engine.Compute(ctx, d)
	if err != nil {
		return goknot.KnotEntry{}, errors.Wrapf(err, "knot %s", k.Name)
	}
	return goknot.KnotEntry{
		Name:           k.Name,
		CrossingNumber: k.CrossingNumber,
		Alexander:      P,
		PD:             d.PDCode(),
	}, nil
}
