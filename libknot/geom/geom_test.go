package geom

import (
	"math"
	"testing"

	"github.com/2x3systems/goknot/goknot"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

var approx = cmpopts.EquateApprox(0, 1e-12)

func TestProjectionFrame(t *testing.T) {
	proj, err := NewProjection(goknot.Point{0, 0, 1})
	require.NoError(t, err)
	diff(t, Vec3{1, 0, 0}, proj.E1, approx)
	diff(t, Vec3{0, 1, 0}, proj.E2, approx)

	for _, dir := range []goknot.Point{{1, 2, 3}, {0, -1, 0}, {-5, 0.1, 0.2}, {1, 1, 1}} {
		proj, err := NewProjection(dir)
		require.NoError(t, err)
		assert.InDelta(t, 1, proj.E1.Norm(), 1e-12)
		assert.InDelta(t, 1, proj.E2.Norm(), 1e-12)
		assert.InDelta(t, 0, proj.E1.Dot(proj.E2), 1e-12)
		diff(t, proj.Dir, proj.E1.Cross(proj.E2), approx)
	}

	_, err = NewProjection(goknot.Point{})
	assert.ErrorIs(t, err, ErrDegenerate)
	assert.Equal(t, ErrDegenerate, errors.Cause(err))
	assert.Contains(t, err.Error(), "cannot normalize")

	_, err = Vec3{math.NaN(), 0, 1}.Normalize()
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestProject(t *testing.T) {
	proj, _ := NewProjection(goknot.Point{0, 0, 2})
	p2, h := proj.Project(Vec3{1, 2, 3})
	diff(t, Vec2{1, 2}, p2, approx)
	assert.InDelta(t, 3, h, 1e-12)
}

func TestTiltedDirection(t *testing.T) {
	base := goknot.Point{0, 0, 1}
	seen := map[goknot.Point]bool{}
	for i := 1; i <= 12; i++ {
		dir := TiltedDirection(base, i)
		assert.Equal(t, dir, TiltedDirection(base, i))
		assert.InDelta(t, 1, V3(dir).Norm(), 1e-12)
		assert.Greater(t, dir[2], 0.0)
		assert.False(t, seen[dir])
		seen[dir] = true
	}
}

func TestIntersectSegments2D(t *testing.T) {
	const eps = 1e-9

	s, u, kind := IntersectSegments2D(Vec2{-1, 0}, Vec2{1, 0}, Vec2{0, -1}, Vec2{0, 3}, eps)
	assert.Equal(t, IntersectProper, kind)
	assert.InDelta(t, 0.5, s, 1e-12)
	assert.InDelta(t, 0.25, u, 1e-12)

	_, _, kind = IntersectSegments2D(Vec2{0, 0}, Vec2{1, 0}, Vec2{0, 1}, Vec2{1, 1}, eps)
	assert.Equal(t, IntersectNone, kind)

	// endpoint touch
	_, _, kind = IntersectSegments2D(Vec2{0, 0}, Vec2{1, 0}, Vec2{1, 0}, Vec2{1, 1}, eps)
	assert.Equal(t, IntersectDegenerate, kind)

	// T junction
	_, _, kind = IntersectSegments2D(Vec2{0, 0}, Vec2{2, 0}, Vec2{1, 0}, Vec2{1, 1}, eps)
	assert.Equal(t, IntersectDegenerate, kind)

	// collinear overlap
	_, _, kind = IntersectSegments2D(Vec2{0, 0}, Vec2{2, 0}, Vec2{1, 0}, Vec2{3, 0}, eps)
	assert.Equal(t, IntersectDegenerate, kind)

	// collinear, disjoint
	_, _, kind = IntersectSegments2D(Vec2{0, 0}, Vec2{1, 0}, Vec2{2, 0}, Vec2{3, 0}, eps)
	assert.Equal(t, IntersectNone, kind)

	// zero length
	_, _, kind = IntersectSegments2D(Vec2{0, 0}, Vec2{0, 0}, Vec2{-1, 0}, Vec2{1, 0}, eps)
	assert.Equal(t, IntersectDegenerate, kind)
}

func TestSegmentDistance3D(t *testing.T) {
	d := SegmentDistance3D(Vec3{-1, 0, 0}, Vec3{1, 0, 0}, Vec3{0, -1, 1}, Vec3{0, 1, 1})
	assert.InDelta(t, 1, d, 1e-12)
	assert.True(t, GenericPosition3D(Vec3{-1, 0, 0}, Vec3{1, 0, 0}, Vec3{0, -1, 1}, Vec3{0, 1, 1}, 1e-9))

	d = SegmentDistance3D(Vec3{-1, 0, 0}, Vec3{1, 0, 0}, Vec3{0, -1, 0}, Vec3{0, 1, 0})
	assert.InDelta(t, 0, d, 1e-12)
	assert.False(t, GenericPosition3D(Vec3{-1, 0, 0}, Vec3{1, 0, 0}, Vec3{0, -1, 0}, Vec3{0, 1, 0}, 1e-9))

	// endpoint regions
	d = SegmentDistance3D(Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{3, 0, 0}, Vec3{3, 4, 0})
	assert.InDelta(t, 2, d, 1e-12)
}

func TestVertexTangent(t *testing.T) {
	tan, err := VertexTangent(Vec3{-1, 0, 0}, Vec3{0, 0, 0}, Vec3{0, 1, 0})
	require.NoError(t, err)
	diff(t, Vec3{math.Sqrt2 / 2, math.Sqrt2 / 2, 0}, tan, approx)

	_, err = VertexTangent(Vec3{-1, 0, 0}, Vec3{0, 0, 0}, Vec3{-2, 0, 0})
	assert.ErrorIs(t, err, ErrDegenerate)

	_, err = VertexTangent(Vec3{0, 0, 0}, Vec3{0, 0, 0}, Vec3{1, 0, 0})
	assert.ErrorIs(t, err, ErrDegenerate)

	assert.True(t, FoldsBack2D(Vec2{0, 0}, Vec2{1, 0}, Vec2{0.5, 0}, 1e-9))
	assert.False(t, FoldsBack2D(Vec2{0, 0}, Vec2{1, 0}, Vec2{2, 0}, 1e-9))
}

func TestValidateCurve(t *testing.T) {
	const eps = 1e-9
	square := []goknot.Point{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}

	verts, err := ValidateCurve(square, eps)
	require.NoError(t, err)
	assert.Len(t, verts, 4)

	closed := append(append([]goknot.Point{}, square...), square[0])
	verts, err = ValidateCurve(closed, eps)
	require.NoError(t, err)
	assert.Len(t, verts, 4)

	bad := map[string][]goknot.Point{
		"too few":     {{0, 0, 0}, {1, 0, 0}, {0, 0, 0}},
		"nan":         {{0, 0, 0}, {1, 0, 0}, {math.NaN(), 1, 0}},
		"inf":         {{0, 0, 0}, {1, math.Inf(1), 0}, {1, 1, 0}},
		"zero length": {{0, 0, 0}, {1, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		"repeat":      {{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 0, 0}, {0, -1, 0}, {-1, 0, 0}},
		"fold back":   {{0, 0, 0}, {2, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	}
	for name, pts := range bad {
		_, err := ValidateCurve(pts, eps)
		assert.ErrorIs(t, err, goknot.ErrInvalidCurve, name)
	}
}
