// Package driver runs the two-pass pipeline (normalize, then bound-check)
// over a batch of modules in parallel, one goroutine per module — mirroring
// the compiler's own per-file fan-out (internal/driver/parallel.go's
// TokenizeDir/ParseDir) at the granularity this project actually processes
// units at: whole modules, not source files, since the typed AST producer
// is an external collaborator this project never parses text
// for itself.
package driver

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"boundcheck/internal/boundcheck"
	"boundcheck/internal/checkast"
	"boundcheck/internal/diag"
	"boundcheck/internal/normalize"
	"boundcheck/internal/registry"
)

// Unit is one module to check, paired with the path it should be reported
// under.
type Unit struct {
	Path   string
	Module *checkast.Module
}

// Result is one unit's outcome: the diagnostics collected while normalizing
// and bound-checking it, and whether a cache hit skipped re-analysis.
type Result struct {
	Path     string
	Bag      *diag.Bag
	CacheHit bool
}

// Stage identifies which pass a Progress event describes.
type Stage string

const (
	StageNormalize  Stage = "normalize"
	StageBoundCheck Stage = "boundcheck"
)

// Status captures a unit's progress within a Stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one unit, identified by its Path.
type Event struct {
	Path   string
	Stage  Stage
	Status Status
}

// ProgressSink consumes Events emitted while CheckModules runs. A nil sink
// (the zero value of Options.Progress) means no events are emitted.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel so cmd/boundcheck's UI runner
// can consume module progress as it happens.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// Cache is the on-disk memoization hook across runs: a lookup keyed by a
// module's own content (its stripped-AST digest, computed by the cache
// implementation, not here — driver only knows a module by its
// checkast.Module value), and a store back into it once a fresh result is
// computed. A nil Cache disables caching entirely.
type Cache interface {
	Lookup(m *checkast.Module) (*diag.Bag, bool)
	Store(m *checkast.Module, bag *diag.Bag)
}

// Options configures a CheckModules run.
type Options struct {
	// MaxDiagnostics caps each module's diagnostic bag.
	MaxDiagnostics int
	// Jobs bounds concurrent module analysis; <= 0 defaults to GOMAXPROCS.
	Jobs int
	// Cache, if non-nil, is consulted before and populated after analyzing
	// each module.
	Cache Cache
	// Progress, if non-nil, receives Events as each unit moves through
	// normalize and bound-check. Emitted from whichever goroutine is
	// analyzing that unit, so a ProgressSink implementation must be safe
	// for concurrent OnEvent calls — ChannelSink is (a channel send).
	Progress ProgressSink
}

// CheckModules normalizes and bound-checks every unit, one goroutine per
// module. Results are returned in the same order as units, regardless of
// completion order: each goroutine writes only to its own index, so no
// mutex is needed.
func CheckModules(ctx context.Context, reg *registry.Registry, units []Unit, opts Options) ([]Result, error) {
	if len(units) == 0 {
		return nil, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(units)))

	for i, u := range units {
		g.Go(func(i int, u Unit) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				results[i] = checkOne(reg, u, opts)
				return nil
			}
		}(i, u))
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func checkOne(reg *registry.Registry, u Unit, opts Options) Result {
	emit := func(stage Stage, status Status) {
		if opts.Progress != nil {
			opts.Progress.OnEvent(Event{Path: u.Path, Stage: stage, Status: status})
		}
	}

	if opts.Cache != nil {
		if bag, hit := opts.Cache.Lookup(u.Module); hit {
			emit(StageBoundCheck, StatusDone)
			return Result{Path: u.Path, Bag: bag, CacheHit: true}
		}
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	emit(StageNormalize, StatusWorking)
	norm := normalize.New(reg, rep)
	normalized := norm.NormalizeModule(u.Module)
	emit(StageNormalize, StatusDone)

	emit(StageBoundCheck, StatusWorking)
	bc := boundcheck.New(reg, rep)
	bc.CheckModule(normalized)
	status := StatusDone
	if bag.HasErrors() {
		status = StatusError
	}
	emit(StageBoundCheck, status)

	if opts.Cache != nil {
		opts.Cache.Store(u.Module, bag)
	}
	return Result{Path: u.Path, Bag: bag}
}

// SortByPath orders results deterministically for reporting, extending the
// analysis's own determinism guarantee across a whole run: goroutine
// completion order must never leak into output order.
func SortByPath(results []Result) {
	sort.SliceStable(results, func(i, j int) bool { return results[i].Path < results[j].Path })
}
