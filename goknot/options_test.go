package goknot

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions([]byte(`
epsilon: 1.0e-7
max_reprojections: 4
projection: [1, 0, 1]
move_budget: 500
solve_timeout: 2s
`))
	require.NoError(t, err)
	assert.Equal(t, 1e-7, opts.Epsilon)
	assert.Equal(t, 4, opts.MaxReprojections)
	assert.Equal(t, Point{1, 0, 1}, opts.Projection)
	assert.Equal(t, 500, opts.MoveBudget)
	assert.Equal(t, 2*time.Second, opts.SolveTimeout)
	assert.True(t, opts.SimplifyBeforeInvariant)
}

func TestParseOptionsRejects(t *testing.T) {
	for _, src := range []string{
		"epsilon: -1",
		"max_reprojections: -2",
		"projection: [0, 0, 0]",
		"move_budget: [",
	} {
		_, err := ParseOptions([]byte(src))
		assert.ErrorIs(t, err, ErrBadOptions, src)
	}
}

func TestNormalized(t *testing.T) {
	opts := Options{}.Normalized()
	def := DefaultOptions()
	assert.Equal(t, def.Epsilon, opts.Epsilon)
	assert.Equal(t, def.Projection, opts.Projection)
	assert.Equal(t, def.MoveBudget, opts.MoveBudget)
	assert.NoError(t, opts.Validate())
}

func TestUnboundedSolveTimeout(t *testing.T) {
	opts, err := ParseOptions([]byte("solve_timeout: 0s\n"))
	require.NoError(t, err)
	assert.Zero(t, opts.SolveTimeout)
	assert.Zero(t, opts.Normalized().SolveTimeout)

	opts.SolveTimeout = 5 * time.Second
	assert.Equal(t, 5*time.Second, opts.Normalized().SolveTimeout)

	_, err = ParseOptions([]byte("solve_timeout: -1s\n"))
	assert.ErrorIs(t, err, ErrBadOptions)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNone, KindOf(nil))
	assert.Equal(t, KindInvalidCurve, KindOf(errors.Wrap(ErrInvalidCurve, "segment 3")))
	assert.Equal(t, KindDegenerateProjection, KindOf(errors.Wrapf(ErrDegenerateProjection, "after %d tries", 3)))
	assert.Equal(t, KindSingularInvariantSystem, KindOf(ErrNonIntegralInvariant))
	assert.Equal(t, KindBadDiagram, KindOf(ErrNotAKnot))
	assert.Equal(t, KindCanceled, KindOf(errors.Wrap(context.DeadlineExceeded, "solve")))
	assert.Equal(t, KindOther, KindOf(errors.New("boom")))
	assert.Equal(t, "DegenerateProjection", KindDegenerateProjection.String())
}
