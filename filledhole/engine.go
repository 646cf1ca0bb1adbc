package filledhole

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/notargets/fillit/geometry"
	"github.com/notargets/fillit/nastran"
	"github.com/notargets/fillit/utils"
)

// Job is one location with the parameters it is reduced with
type Job struct {
	Location
	Params
}

// GroupEntry selects the locations at one node. With a dual configuration the
// axis codes belong to DualBush and DualBush's pair, in that order
type GroupEntry struct {
	Node     int
	DualBush int // 0 for a single bush
	Params
}

type Engine struct {
	model     *nastran.Model
	log       *zap.Logger
	workers   int
	locations []Location
}

// NewEngine indexes the fastener locations of a linked model. Workers below
// one means one per CPU
func NewEngine(m *nastran.Model, log *zap.Logger, workers int) (e *Engine) {
	if log == nil {
		log = zap.NewNop()
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	e = &Engine{
		model:     m,
		log:       log,
		workers:   workers,
		locations: Locations(m),
	}
	log.Debug("fastener locations indexed", zap.Int("locations", len(e.locations)),
		zap.Int("workers", workers))
	return
}

func (e *Engine) Model() *nastran.Model { return e.model }
func (e *Engine) Locations() []Location { return e.locations }

// LocationsAt returns the locations on node, the A side first
func (e *Engine) LocationsAt(node int) (locs []Location) {
	for _, loc := range e.locations {
		if loc.Node == node {
			locs = append(locs, loc)
		}
	}
	return
}

// AllJobs reduces every location with one set of parameters
func (e *Engine) AllJobs(p Params) (jobs []Job) {
	for _, loc := range e.locations {
		jobs = append(jobs, Job{Location: loc, Params: p})
	}
	return
}

// GroupJobs builds the jobs of a fastener group, swapping the axis codes of a
// dual entry when the bush evaluated at the node is not DualBush
func (e *Engine) GroupJobs(entries []GroupEntry) (jobs []Job) {
	for _, ge := range entries {
		locs := e.LocationsAt(ge.Node)
		if len(locs) == 0 {
			e.log.Warn("no fastener at group node", zap.Int("node", ge.Node))
			continue
		}
		for _, loc := range locs {
			p := ge.Params
			if ge.DualBush != 0 && loc.Bush != ge.DualBush {
				p.Axes[0], p.Axes[1] = p.Axes[1], p.Axes[0]
			}
			jobs = append(jobs, Job{Location: loc, Params: p})
		}
	}
	return
}

/*
Run evaluates the jobs, split over the workers in contiguous buckets. Each job
writes only the sides and records of its own bush end. Cancelling ctx stops the
workers between jobs.
*/
func (e *Engine) Run(ctx context.Context, jobs []Job) (err error) {
	if len(jobs) == 0 {
		return
	}
	var (
		pm      = utils.NewPartitionMap(e.workers, len(jobs))
		g, gctx = errgroup.WithContext(ctx)
	)
	for bn := 0; bn < pm.ParallelDegree; bn++ {
		n := pm.GetBucketDimension(bn)
		if n == 0 {
			continue
		}
		kMin, kMax := pm.GetBucketRange(bn)
		e.log.Debug("starting bucket", zap.Int("bucket", bn), zap.Int("jobs", n))
		g.Go(func() error {
			for k := kMin; k < kMax; k++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				e.Evaluate(jobs[k])
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return
	}
	e.log.Info("fastener locations evaluated", zap.Int("jobs", len(jobs)))
	return
}

// Evaluate discovers, orders and reduces the ring of one job and stores the
// records on the bush
func (e *Engine) Evaluate(job Job) {
	m := e.model
	b, ok := m.Bush(job.Bush)
	if !ok {
		return
	}
	var pair *nastran.Bush
	if job.Paired() {
		pair, _ = m.Bush(job.Pair)
	}
	p := job.Params
	for i, code := range p.Axes {
		if !code.Valid() {
			p.Axes[i] = geometry.DefaultAxisCode
		}
	}
	b.ClearResults(job.Side)
	ring := DiscoverRing(m, job.Node, p.Depth)
	sides := OrderSides(m, b, job.Side, ring, p.Depth, p.Axes[0])
	b.SetSides(job.Side, sides)
	for lc, fl := range Reduce(m, b, job.Side, pair, sides, p) {
		b.SetResult(job.Side, lc, fl)
	}
	e.log.Debug("fastener evaluated", zap.Int("node", job.Node), zap.Int("cbush", b.ID),
		zap.Int("side", job.Side), zap.Int("pair", job.Pair), zap.Int("ring", len(ring)))
}
