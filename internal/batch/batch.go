// Package batch runs the phase-space conversion over a whole candidate
// sample. Events are independent, so the work fans out across a bounded
// worker pool; results come back in input order and per-event
// classification failures stay attached to their row instead of
// aborting the run.
package batch

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/charm-data/k3pi.report/internal/decay"
	"github.com/charm-data/k3pi.report/internal/events"
	"github.com/charm-data/k3pi.report/internal/kinematics"
	"github.com/charm-data/k3pi.report/internal/monitoring"
	"github.com/charm-data/k3pi.report/internal/phsp"
	"github.com/charm-data/k3pi.report/internal/timebin"
)

// progressEvery is the completed-event interval between progress lines
// on monitoring.Logf.
const progressEvery = 250000

// Config controls one batch evaluation.
type Config struct {
	Policy phsp.Policy

	// Seed is the run-level base seed for PairRandom. Each event derives
	// its own generator from (Seed, EventID), so results do not depend
	// on scheduling.
	Seed uint64

	// Workers bounds the pool; values <= 0 select GOMAXPROCS.
	Workers int

	// Verify enables the plane-angle cross-check on every event.
	Verify bool

	// Bins, when set, assigns each event's decay time (ps) to a bin.
	Bins []timebin.Bin
}

// Result is the outcome for one input row. Err records a per-event
// failure (typically an invalid topology); all other fields are only
// meaningful when Err is nil.
type Result struct {
	EventID uint64
	IsD0    bool
	IsRS    bool
	Point   phsp.Point

	// DecayTimePS is valid when HasTime is set; TimeBin is -1 when no
	// binning was configured or the time is missing.
	DecayTimePS float64
	HasTime     bool
	TimeBin     int

	Err error
}

// NonFinite reports whether any phase-space coordinate came back NaN or
// Inf, e.g. from degenerate geometry. Such rows are kept in the output;
// dropping them is the consumer's decision.
func (r *Result) NonFinite() bool {
	for _, v := range []float64{
		r.Point.M12, r.Point.M34, r.Point.CosTheta12, r.Point.CosTheta34, r.Point.Phi, r.Point.M13,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// Process evaluates rows concurrently and returns one result per row,
// in input order. The returned error reports only whole-batch failures
// (context cancellation); per-event failures land in Result.Err.
func Process(ctx context.Context, rows []events.Row, cfg Config) ([]Result, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(rows) {
		workers = len(rows)
	}
	results := make([]Result, len(rows))
	if len(rows) == 0 {
		return results, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	indices := make(chan int)
	g.Go(func() error {
		defer close(indices)
		for i := range rows {
			select {
			case indices <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	var done atomic.Uint64
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range indices {
				results[i] = evalRow(rows[i], cfg)
				if n := done.Add(1); n%progressEvery == 0 {
					monitoring.Logf("Converted %d/%d candidates", n, len(rows))
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	return results, nil
}

func evalRow(row events.Row, cfg Config) Result {
	res := Result{EventID: row.EventID, TimeBin: -1}

	roles, err := decay.Classify(row.IDs)
	if err != nil {
		res.Err = fmt.Errorf("event %d: %w", row.EventID, err)
		return res
	}
	d, err := decay.FromPtEtaPhi(row.IDs, row.Pt, row.Eta, row.Phi)
	if err != nil {
		res.Err = fmt.Errorf("event %d: %w", row.EventID, err)
		return res
	}

	kaonNeg := decay.IsKaonNeg(roles.Slot(decay.RoleKaon), row.IDs)
	res.IsD0 = decay.IsD0(row.DStarPiID)
	res.IsRS = decay.IsRightSign(res.IsD0, kaonNeg)

	opt := phsp.Options{Policy: cfg.Policy, Verify: cfg.Verify}
	if cfg.Policy == phsp.PairRandom {
		opt.Rand = rand.New(rand.NewPCG(cfg.Seed, row.EventID))
	}
	pt, err := phsp.Compute(d, roles, opt)
	if err != nil {
		res.Err = fmt.Errorf("event %d: %w", row.EventID, err)
		return res
	}
	res.Point = pt
	if cfg.Verify && !kinematics.EqualTol(pt.PhiCheckDiff, 0) {
		monitoring.Logf("Plane-angle cross-check: event %d residual %g", row.EventID, pt.PhiCheckDiff)
	}

	if row.HasCTau {
		res.DecayTimePS = timebin.NSToPS(timebin.CTauMMToNS(row.CTauMM))
		res.HasTime = true
		if len(cfg.Bins) > 0 {
			res.TimeBin = timebin.Index(cfg.Bins, res.DecayTimePS)
		}
	}
	return res
}

// FailedCount returns how many results carry a per-event error.
func FailedCount(results []Result) int {
	n := 0
	for i := range results {
		if results[i].Err != nil {
			n++
		}
	}
	return n
}
