package assets

import (
	"context"
	"io"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Options configures a Loader.
type Options struct {
	// Fetcher resolves assets. Defaults to a FileFetcher rooted at ".".
	Fetcher Fetcher
	// Concurrency bounds in-flight fetches; 0 means unbounded.
	Concurrency int
	// Timeout is the longest the loader waits before reporting anyway;
	// 0 disables the deadline.
	Timeout time.Duration
	// OnProgress is called after every resolution with the number resolved
	// so far. It runs on loader goroutines.
	OnProgress func(resolved, total int)
	Logger     *log.Logger
}

// Report is delivered once per load. Every manifest entry has a resource;
// those not resolved in time carry a fallback with ErrTimedOut.
type Report struct {
	Resources map[string]Resource
	Resolved  int
	Total     int
	TimedOut  bool
}

// Get returns the resource for id.
func (r Report) Get(id string) (Resource, bool) {
	res, ok := r.Resources[id]
	return res, ok
}

// Failed lists the ids that fell back.
func (r Report) Failed() []string {
	var ids []string
	for id, res := range r.Resources {
		if res.Fallback {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Loader fetches a manifest concurrently. A Loader runs one load; later
// calls to Load return the first load's channel.
type Loader struct {
	opts Options
	log  *log.Logger

	start   sync.Once
	deliver sync.Once
	report  chan Report

	mu        sync.Mutex
	resources map[string]Resource
	resolved  int
	delivered bool
}

// NewLoader creates a loader.
func NewLoader(opts Options) *Loader {
	if opts.Fetcher == nil {
		opts.Fetcher = FileFetcher{Root: "."}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{
		opts:      opts,
		log:       logger.WithPrefix("assets"),
		report:    make(chan Report, 1),
		resources: make(map[string]Resource),
	}
}

// Load starts fetching every asset of m and returns a channel that receives
// exactly one Report: when all assets resolved, when the timeout elapses, or
// when ctx is cancelled, whichever comes first. Resolutions arriving after
// the report are recorded (see Resources) but never delivered again.
func (l *Loader) Load(ctx context.Context, m Manifest) <-chan Report {
	started := false
	l.start.Do(func() {
		started = true
		go l.run(ctx, m)
	})
	if !started {
		l.log.Debug("load already started")
	}
	return l.report
}

// Resources returns a snapshot of everything resolved so far, including
// late arrivals.
func (l *Loader) Resources() map[string]Resource {
	l.mu.Lock()
	defer l.mu.Unlock()
	return maps.Clone(l.resources)
}

func (l *Loader) run(ctx context.Context, m Manifest) {
	if err := m.Validate(); err != nil {
		l.log.Warn("manifest", "err", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		var g errgroup.Group
		if l.opts.Concurrency > 0 {
			g.SetLimit(l.opts.Concurrency)
		}
		for _, a := range m {
			g.Go(func() error {
				l.resolve(ctx, a, len(m))
				return nil
			})
		}
		_ = g.Wait()
	}()

	var deadline <-chan time.Time
	if l.opts.Timeout > 0 {
		timer := time.NewTimer(l.opts.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case <-done:
		l.finish(m, false)
	case <-deadline:
		l.log.Warn("load timed out, continuing with fallbacks", "timeout", l.opts.Timeout)
		l.finish(m, true)
	case <-ctx.Done():
		l.log.Warn("load cancelled", "err", ctx.Err())
		l.finish(m, true)
	}
}

func (l *Loader) resolve(ctx context.Context, a Asset, total int) {
	res, err := l.opts.Fetcher.Fetch(ctx, a)
	if err != nil {
		l.log.Warn("asset failed, using fallback", "id", a.ID, "kind", a.Kind, "err", err)
		res = Fallback(a, err)
	}
	res.Asset = a

	l.mu.Lock()
	l.resources[a.ID] = res
	l.resolved++
	n, late := l.resolved, l.delivered
	l.mu.Unlock()

	if late {
		l.log.Debug("asset resolved after report", "id", a.ID)
	}
	if l.opts.OnProgress != nil {
		l.opts.OnProgress(n, total)
	}
}

func (l *Loader) finish(m Manifest, timedOut bool) {
	l.deliver.Do(func() {
		l.mu.Lock()
		rep := Report{
			Resources: maps.Clone(l.resources),
			Resolved:  l.resolved,
			Total:     len(m),
			TimedOut:  timedOut,
		}
		l.delivered = true
		l.mu.Unlock()

		for _, a := range m {
			if _, ok := rep.Resources[a.ID]; !ok {
				rep.Resources[a.ID] = Fallback(a, ErrTimedOut)
			}
		}
		l.log.Info("assets ready", "resolved", rep.Resolved, "total", rep.Total, "fallbacks", len(rep.Failed()))
		l.report <- rep
	})
}
