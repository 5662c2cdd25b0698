package goknot

import (
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		Epsilon:                 DefaultEpsilon,
		MaxReprojections:        DefaultMaxReprojections,
		Projection:              Point{0, 0, 1},
		MoveBudget:              DefaultMoveBudget,
		SolveTimeout:            DefaultSolveTimeout,
		SimplifyBeforeInvariant: true,
	}
}

// ParseOptions reads YAML options on top of DefaultOptions() and validates the result.
func ParseOptions(src []byte) (Options, error) {
	opts := DefaultOptions()
	if err := yaml.Unmarshal(src, &opts); err != nil {
		return opts, errors.Wrap(ErrBadOptions, err.Error())
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// Validate checks field ranges and that the projection direction is a usable vector.
func (opts *Options) Validate() error {
	if err := validate.Struct(opts); err != nil {
		return errors.Wrap(ErrBadOptions, err.Error())
	}
	norm := 0.0
	for _, xi := range opts.Projection {
		if math.IsNaN(xi) || math.IsInf(xi, 0) {
			return errors.Wrap(ErrBadOptions, "projection has a non-finite component")
		}
		norm += xi * xi
	}
	if norm <= opts.Epsilon*opts.Epsilon {
		return errors.Wrap(ErrBadOptions, "projection direction is zero")
	}
	return nil
}

// Normalized returns a copy of opts with zero values replaced by defaults.
// SolveTimeout is left as is since zero there means no bound.
func (opts Options) Normalized() Options {
	def := DefaultOptions()
	if opts.Epsilon <= 0 {
		opts.Epsilon = def.Epsilon
	}
	if opts.Projection == (Point{}) {
		opts.Projection = def.Projection
	}
	if opts.MoveBudget <= 0 {
		opts.MoveBudget = def.MoveBudget
	}
	return opts
}
