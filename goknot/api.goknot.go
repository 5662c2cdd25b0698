package goknot

import (
	"context"
	"io"
	"time"
)

const (

	// DefaultEpsilon is the floating point tolerance shared by all geometric predicates.
	DefaultEpsilon = 1e-9

	// DefaultMaxReprojections is how many alternate projection directions are tried before a degenerate projection is surfaced.
	DefaultMaxReprojections = 12

	// DefaultMoveBudget bounds the number of Reidemeister moves applied or explored per simplification.
	DefaultMoveBudget = 20000

	// DefaultSolveTimeout bounds a single invariant computation.
	DefaultSolveTimeout = 30 * time.Second
)

// Point is a vertex of a closed polygonal space curve.
type Point [3]float64

// Sign is the handedness of a crossing: +1 for right-handed, -1 for left-handed.
type Sign int8

const (
	Positive Sign = +1
	Negative Sign = -1
)

func (s Sign) Rune() rune {
	if s == Negative {
		return '-'
	}
	return '+'
}

// Visit is one pass of the curve through a crossing, in traversal order.
type Visit struct {
	Crossing int32 // one-based crossing index
	Over     bool  // set if the curve passes over at this visit
	Sign     Sign  // sign of the crossing being visited
}

// GaussCode is the signed, over/under tagged sequence of 2N crossing visits along the curve.
type GaussCode []Visit

// PDTuple lists the four arcs incident to a crossing, counter-clockwise starting with the incoming under-arc.
//
// Arcs are split at every crossing, so a positive crossing reads {inUnder, outOver, outUnder, inOver}
// and a negative crossing reads {inUnder, inOver, outUnder, outOver}.
type PDTuple struct {
	Arcs [4]int32
	Sign Sign
}

// PDCode is the planar diagram code: one PDTuple per crossing, indexed by crossing number - 1.
type PDCode []PDTuple

// Verdict is the outcome of unknot recognition.
type Verdict byte

const (
	// VerdictUndetermined means no reducing move was found within the move budget and no invariant showed the knot to be non-trivial.
	VerdictUndetermined Verdict = iota

	// VerdictUnknot means the simplifier reached a diagram with no crossings.
	VerdictUnknot

	// VerdictKnotted means the Alexander polynomial differs from the unknot's.
	VerdictKnotted
)

func (v Verdict) String() string {
	switch v {
	case VerdictUnknot:
		return "unknot"
	case VerdictKnotted:
		return "knotted"
	}
	return "undetermined"
}

// Options configures an analysis pipeline.  See DefaultOptions().
type Options struct {
	Epsilon                 float64       `yaml:"epsilon"                   validate:"gt=0,lt=0.01"`
	MaxReprojections        int           `yaml:"max_reprojections"         validate:"gte=0,lte=256"`
	Projection              Point         `yaml:"projection,flow"`
	MoveBudget              int           `yaml:"move_budget"               validate:"gte=0"`
	SolveTimeout            time.Duration `yaml:"solve_timeout"             validate:"gte=0"` // 0 means no bound beyond the caller's context
	SimplifyBeforeInvariant bool          `yaml:"simplify_before_invariant"`
}

// CatalogContext is a container for open / active Catalog instances.
type CatalogContext interface {

	// Attaches the given Catalog to this context.
	AttachCatalog(cat Catalog)

	// Detaches the given Catalog from this context.
	DetachCatalog(cat Catalog)

	// Closes all open catalogs then closes.
	Close()

	// Signals when Close() completed and all open Catalogs have been closed
	Done() <-chan struct{}
}

// CatalogOpts specifies params for opening a knot Catalog
type CatalogOpts struct {
	DbPathName string // omit for in-memory db
	ReadOnly   bool   // open in read-only mode
	Seed       bool   // add the standard table of prime knots if not already present
}

// KnotEntry is a named knot type along with the invariant it is catalogued under.
type KnotEntry struct {
	Name           string     // Rolfsen name, e.g. "4_1"
	CrossingNumber int32      // minimal crossing number
	Alexander      Polynomial // normalized Alexander polynomial
	PD             PDCode     // a minimal diagram
}

// Catalog wraps a database of known knot types keyed by their normalized Alexander polynomial.
type Catalog interface {

	// TryAddKnot adds the given entry.  If true is returned, no entry of the same name and invariant existed and it was added.
	TryAddKnot(entry KnotEntry) (bool, error)

	// Lookup returns all entries whose invariant equals the given polynomial up to a unit.
	Lookup(ctx context.Context, alexander Polynomial) ([]KnotEntry, error)

	// Select calls onHit with every entry of at most maxCrossings crossings, in invariant order, until onHit returns false.
	Select(ctx context.Context, maxCrossings int32, onHit func(entry KnotEntry) bool) error

	// NumEntries returns the number of entries in this catalog.
	NumEntries() int64

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	Close() error
}

// PrintOpts specifies what is printed when writing out an analysis
type PrintOpts struct {
	Label     string // Prefix label
	PD        bool   // If set, prints the PD code
	Gauss     bool   // If set, prints the Gauss code
	Alexander bool   // If set, prints the normalized Alexander polynomial
	Verdict   bool   // If set, prints the unknot verdict
}

// DefaultPrintOpts prints everything but the PD code.
var DefaultPrintOpts = PrintOpts{
	Gauss:     true,
	Alexander: true,
	Verdict:   true,
}

// StringWriter is implemented by diagrams and analyses that print themselves.
type StringWriter interface {
	WriteAsString(out io.Writer, opts PrintOpts)
}
