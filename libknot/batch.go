package libknot

import (
	"context"
	"runtime"

	"github.com/2x3systems/goknot/goknot"
	"github.com/google/uuid"
	"github.com/plan-systems/klog"
	"golang.org/x/sync/errgroup"
)

// BatchOpts configures AnalyzeAll.
type BatchOpts struct {
	Options goknot.Options
	Workers int            // max curves analyzed at once; <= 0 means GOMAXPROCS
	Metrics *Metrics       // optional
	Catalog goknot.Catalog // optional; if set, Report.Matches is filled in
}

// Report summarizes the analysis of one curve of a batch.
type Report struct {
	Index      int
	Generation uuid.UUID
	Crossings  int
	Gauss      goknot.GaussCode
	PD         goknot.PDCode
	Unknot     bool
	Verdict    goknot.Verdict
	Alexander  goknot.Polynomial
	Matches    []goknot.KnotEntry
	Err        error // first failure met while analyzing this curve
}

// AnalyzeAll analyzes each curve on its own Analyzer, running up to opts.Workers at once.
//
// A failing curve does not stop the others; its failure is kept in its Report.  The returned error is non-nil
// only if ctx ended before every curve was analyzed.
func AnalyzeAll(ctx context.Context, curves [][]goknot.Point, opts BatchOpts) ([]Report, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	reports := make([]Report, len(curves))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	stopped := false
	for i := range curves {
		i := i
		if gctx.Err() != nil {
			stopped = true
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = analyzeOne(gctx, i, curves[i], opts)
			if goknot.KindOf(reports[i].Err) == goknot.KindCanceled && gctx.Err() != nil {
				return reports[i].Err
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil && stopped {
		err = ctx.Err()
	}
	klog.V(2).Infof("libknot: analyzed %d curves with %d workers", len(curves), workers)
	return reports, err
}

func analyzeOne(ctx context.Context, index int, points []goknot.Point, opts BatchOpts) (rep Report) {
	rep.Index = index

	a, err := NewAnalyzer(opts.Options, opts.Metrics)
	if err == nil {
		err = a.Load(points)
	}
	if err != nil {
		rep.Err = err
		return
	}
	rep.Generation = a.Generation()

	d, err := a.Diagram()
	if err != nil {
		rep.Err = err
		return
	}
	rep.Crossings = d.NumCrossings()
	rep.Gauss = d.GaussCode()
	rep.PD = d.PDCode()

	if rep.Unknot, err = a.IsUnknot(); err != nil {
		rep.Err = err
		return
	}
	rep.Verdict, err = a.Verdict(ctx)
	if err != nil {
		rep.Err = err
		return
	}
	if rep.Alexander, err = a.Alexander(ctx); err != nil {
		rep.Err = err
		return
	}
	if opts.Catalog != nil {
		rep.Matches, rep.Err = a.Identify(ctx, opts.Catalog)
	}
	return
}
