package diagram

import (
	"sort"
	"strings"
	"testing"

	"github.com/2x3systems/goknot/goknot"
	"github.com/2x3systems/goknot/libknot/crossing"
	"github.com/2x3systems/goknot/libknot/curves"
	"github.com/2x3systems/goknot/libknot/geom"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func mustGauss(t *testing.T, src string) *Diagram {
	t.Helper()
	G, err := ParseGauss(src)
	require.NoError(t, err)
	d, err := FromGauss(G)
	require.NoError(t, err)
	return d
}

func mustPD(t *testing.T, src string) *Diagram {
	t.Helper()
	pd, err := ParsePD(src)
	require.NoError(t, err)
	d, err := FromPD(pd)
	require.NoError(t, err)
	return d
}

func curveDiagram(t *testing.T, fn curves.Func, N int) *Diagram {
	t.Helper()
	verts, err := geom.ValidateCurve(curves.Sample(fn, N), goknot.DefaultEpsilon)
	require.NoError(t, err)
	res, err := crossing.DetectWithRetry(verts, goknot.DefaultOptions())
	require.NoError(t, err)
	return Build(res.Crossings)
}

func faceSizes(d *Diagram) []int {
	var sizes []int
	for _, f := range d.Faces() {
		sizes = append(sizes, len(f))
	}
	sort.Ints(sizes)
	return sizes
}

func TestBuildTrefoil(t *testing.T) {
	d := curveDiagram(t, curves.Trefoil, 150)
	require.Equal(t, 3, d.NumCrossings())
	assert.Equal(t, "U1- O2- U3- O1- U2- O3-", d.String())
	assert.Equal(t, "PD[X[1,4,2,5], X[5,2,6,3], X[3,6,4,1]]", d.PDCode().String())
	assert.Equal(t, -3, d.Writhe())
	assert.Len(t, d.GaussCode(), 2*len(d.PDCode()))

	require.Len(t, d.Origins, 6)
	for i := 1; i < len(d.Origins); i++ {
		assert.Less(t, d.Origins[i-1].Pos(), d.Origins[i].Pos())
	}
	diff(t, []int{2, 2, 2, 3, 3}, faceSizes(d))
}

func TestBuildFigureEight(t *testing.T) {
	d := curveDiagram(t, curves.FigureEight, 240)
	require.Equal(t, 4, d.NumCrossings())
	assert.Equal(t, 0, d.Writhe())
	assert.Len(t, d.Faces(), 6)

	// over and under alternate along an alternating diagram
	G := d.GaussCode()
	for i := range G {
		assert.NotEqual(t, G[i].Over, G[(i+1)%len(G)].Over)
	}
}

func TestBuildCircle(t *testing.T) {
	d := curveDiagram(t, curves.Circle, 40)
	assert.Equal(t, 0, d.NumCrossings())
	assert.Empty(t, d.GaussCode())
	assert.Empty(t, d.PDCode())
	assert.Nil(t, d.Faces())
	assert.Equal(t, "PD[]", d.PDCode().String())
}

func TestFromPDKnotTheory(t *testing.T) {
	cases := []struct {
		name, pd, gauss string
	}{
		{"3_1", "PD[X[1,5,2,4], X[3,1,4,6], X[5,3,6,2]]", "U1+ O2+ U3+ O1+ U2+ O3+"},
		{"4_1", "PD[X[4,2,5,1], X[8,6,1,5], X[6,3,7,4], X[2,7,3,8]]", "O1+ U2- O3- U1+ O4+ U3- O2- U4+"},
		{"5_2", "PD[X[1,4,2,5], X[3,8,4,9], X[5,10,6,1], X[9,6,10,7], X[7,2,8,3]]", "U1- O2- U3- O1- U4- O5- U2- O3- U5- O4-"},
		{"6_3", "PD[X[4,2,5,1], X[8,4,9,3], X[12,9,1,10], X[10,5,11,6], X[6,11,7,12], X[2,8,3,7]]", "O1+ U2+ O3+ U1+ O4- U5- O2+ U3+ O6- U4- O5- U6-"},
	}
	for _, c := range cases {
		d := mustPD(t, c.pd)
		assert.Equal(t, c.gauss, d.String(), c.name)
		assert.Len(t, d.Faces(), d.NumCrossings()+2, c.name)
	}
}

func TestKinks(t *testing.T) {
	cases := map[string]string{
		"PD[X[1,1,2,2]]": "U1+ O1+",
		"PD[X[1,2,2,1]]": "U1- O1-",
		"PD[X[2,2,1,1]]": "O1+ U1+",
		"PD[X[2,1,1,2]]": "O1- U1-",
	}
	for pd, gauss := range cases {
		d := mustPD(t, pd)
		assert.Equal(t, gauss, d.String(), pd)
		assert.Len(t, d.Faces(), 3, pd)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, src := range []string{
		"U1- O2- U3- O1- U2- O3-",
		"O1+ U2- O3- U1+ O4+ U3- O2- U4+",
		"O1- U1-",
		"",
	} {
		d := mustGauss(t, src)
		assert.Equal(t, src, d.String())

		back, err := FromPD(d.PDCode())
		require.NoError(t, err)
		assert.True(t, d.Equal(back), src)
		diff(t, d.PDCode(), back.PDCode())

		viaText, err := FromString(d.PDCode().String())
		require.NoError(t, err)
		assert.True(t, d.Equal(viaText), src)
	}
}

func TestFromGaussRenumbers(t *testing.T) {
	d := mustGauss(t, "U7- O3- U5- O7- U3- O5-")
	assert.Equal(t, "U1- O2- U3- O1- U2- O3-", d.String())
}

func TestBadGauss(t *testing.T) {
	for _, src := range []string{
		"O1+ U1+ O2+",         // odd
		"O1+ O1+",             // over twice
		"O1+ U1-",             // signs disagree
		"O1+ O2+ U1+ U2+",     // not planar
		"O0+ U0+",             // bad index
		"O1+ U2+ O2+ U1+ U1+", // thrice
	} {
		_, err := FromString(src)
		assert.ErrorIs(t, err, goknot.ErrBadGaussCode, src)
		assert.Equal(t, goknot.KindBadDiagram, goknot.KindOf(err))
	}

	_, err := ParseGauss("O1* U1+")
	assert.ErrorIs(t, err, goknot.ErrBadGaussCode)
}

func TestBadPD(t *testing.T) {
	for _, src := range []string{
		"PD[X[1,2,3]]",
		"PD[X[1,1,1,2]]",
		"PD[X[0,1,1,0]]",
		"PD[X[1,5,2,4], X[3,1,4,6], X[5,3,6,7]]",
		"PD[X[1,5,2,4]",
	} {
		_, err := FromString(src)
		assert.ErrorIs(t, err, goknot.ErrBadPDCode, src)
	}

	// Hopf link
	_, err := FromString("PD[X[4,1,3,2], X[2,3,1,4]]")
	assert.ErrorIs(t, err, goknot.ErrNotAKnot)

	// sign disagreeing with orientation
	pd, err := ParsePD("PD[X[1,5,2,4], X[3,1,4,6], X[5,3,6,2]]")
	require.NoError(t, err)
	pd[1].Sign = goknot.Negative
	_, err = FromPD(pd)
	assert.ErrorIs(t, err, goknot.ErrBadPDCode)
}

func TestWriteAsString(t *testing.T) {
	d := mustGauss(t, "U1- O2- U3- O1- U2- O3-")
	var buf strings.Builder
	d.WriteAsString(&buf, goknot.PrintOpts{Label: "3_1 ", Gauss: true, PD: true})
	assert.Equal(t, "3_1 gauss: U1- O2- U3- O1- U2- O3-  pd: PD[X[1,4,2,5], X[5,2,6,3], X[3,6,4,1]]", buf.String())
}

func TestArcEnds(t *testing.T) {
	d := mustGauss(t, "U1- O2- U3- O1- U2- O3-")
	for arc := int32(1); arc <= 6; arc++ {
		from, to := d.ArcEnds(arc)
		assert.Equal(t, (int(arc)+4)%6, from)
		assert.Equal(t, int(arc)-1, to)
	}

	// each dart's arc ends where its OtherEnd lies
	for _, f := range d.Faces() {
		for _, at := range f {
			other := d.OtherEnd(at)
			assert.Equal(t, d.Arc(at), d.Arc(other))
			assert.NotEqual(t, at, other)
		}
	}
}
