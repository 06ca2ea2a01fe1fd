// Package runtime is the parallel, memory-bounded core: it schedules the
// input path set into batches, processes each batch's dependency closure
// through a worker pool, builds the module graph on a single coordinating
// goroutine, analyzes entry files and applies fixes.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	goruntime "runtime"
	"sync"
	"time"

	"github.com/DeusData/modlint/internal/arena"
	"github.com/DeusData/modlint/internal/cache"
	"github.com/DeusData/modlint/internal/diag"
	"github.com/DeusData/modlint/internal/loader"
	"github.com/DeusData/modlint/internal/resolver"
	"github.com/DeusData/modlint/internal/rules"
)

// Options configures a Runtime. Zero values select the defaults noted on
// each field.
type Options struct {
	// FS defaults to the real file system.
	FS FileSystem
	// Loader defaults to the built-in segment loader.
	Loader loader.Loader
	// Resolver enables cross-module resolution and graph construction.
	// Nil runs every file in isolation.
	Resolver resolver.Resolver
	// Rules defaults to the full catalog.
	Rules []rules.Rule
	// Severities overrides per-rule default severities.
	Severities map[string]diag.Severity

	// Concurrency is the worker pool size; defaults to NumCPU.
	Concurrency int
	// BatchFactor scales batch size relative to concurrency; defaults to 4.
	BatchFactor int

	// Fix writes merged fixes back through FS, one write per file.
	Fix bool
	// KeepDependencyContent retains source and trees for dependency files
	// too, not just entries.
	KeepDependencyContent bool

	// Cache, when set, serves and stores per-file results. Only consulted
	// for isolated runs (nil Resolver, Fix off); content hashes cannot key
	// results that depend on other files.
	Cache    *cache.Cache
	CacheTag uint64
}

// Runtime wires the scheduler, worker pool, coordinator and analysis
// executor together.
type Runtime struct {
	opts Options
	exec *rules.Executor
}

// Result is the outcome of one run.
type Result struct {
	Diagnostics []diag.Diagnostic

	// Modules is the number of distinct paths in the dependency graph,
	// failed modules included.
	Modules int
	// Edges counts resolved specifier edges between graph records.
	Edges int
	// Processed counts processing tasks executed; at most one per path.
	Processed int
	// PeakContent is the largest number of concurrently retained file
	// contents observed, bounded by one batch of entries.
	PeakContent int
}

// New validates the options and builds a Runtime.
func New(opts Options) (*Runtime, error) {
	if opts.Concurrency < 0 {
		return nil, fmt.Errorf("concurrency must not be negative, got %d", opts.Concurrency)
	}
	if opts.Concurrency == 0 {
		opts.Concurrency = goruntime.NumCPU()
	}
	if opts.BatchFactor == 0 {
		opts.BatchFactor = 4
	}
	if opts.FS == nil {
		opts.FS = OSFileSystem{}
	}
	if opts.Loader == nil {
		opts.Loader = loader.Default{}
	}
	if opts.Rules == nil {
		opts.Rules = rules.Catalog()
	}
	return &Runtime{
		opts: opts,
		exec: rules.NewExecutor(opts.Rules, opts.Severities),
	}, nil
}

// Run processes the given paths and returns the collected diagnostics.
// Per-file, per-segment and per-edge failures surface as diagnostics; the
// returned error is reserved for fatal pre-flight conditions and
// cancellation.
func (r *Runtime) Run(ctx context.Context, paths []string) (*Result, error) {
	set := NewPathSet(paths...)
	if set.Len() == 0 {
		return nil, fmt.Errorf("empty path set")
	}

	pool, err := arena.NewPool(r.opts.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("arena pool: %w", err)
	}

	batches := Schedule(set, r.opts.Concurrency, r.opts.BatchFactor)
	started := time.Now()
	slog.Debug("runtime.start",
		"paths", set.Len(),
		"batches", len(batches),
		"concurrency", r.opts.Concurrency)

	cacheActive := r.opts.Cache != nil && r.opts.Resolver == nil && !r.opts.Fix
	proc := &processor{
		fs:          r.opts.FS,
		loader:      r.opts.Loader,
		resolver:    r.opts.Resolver,
		keepDeps:    r.opts.KeepDependencyContent,
		cacheActive: cacheActive,
		cache:       r.opts.Cache,
		cacheTag:    r.opts.CacheTag,
	}

	svc := diag.NewService()
	c := &coordinator{
		proc:        proc,
		pool:        pool,
		exec:        r.exec,
		fs:          r.opts.FS,
		sender:      svc.Sender(),
		cloner:      arena.NewCloner(&arena.Arena{}),
		concurrency: r.opts.Concurrency,
		fix:         r.opts.Fix,
		cacheActive: cacheActive,
		cache:       r.opts.Cache,
		cacheTag:    r.opts.CacheTag,
		tasks:       make(chan task, r.opts.Concurrency),
		results:     make(chan *ProcessedModule, r.opts.Concurrency*2),
		entries:     set,
		graph:       make(map[string][]*ModuleRecord),
		dispatched:  make(map[string]bool),
	}

	var wg sync.WaitGroup
	for i := 0; i < r.opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range c.tasks {
				guard := pool.Acquire()
				c.results <- proc.process(t.path, t.entry, guard)
			}
		}()
	}

	var runErr error
	for _, batch := range batches {
		if err := c.runBatch(ctx, batch); err != nil {
			runErr = err
			break
		}
	}

	close(c.tasks)
	wg.Wait()
	diags := svc.Drain()

	slog.Debug("runtime.done",
		"diagnostics", len(diags),
		"modules", len(c.graph),
		"processed", c.processed,
		"elapsed", time.Since(started))

	return &Result{
		Diagnostics: diags,
		Modules:     len(c.graph),
		Edges:       c.edges,
		Processed:   c.processed,
		PeakContent: c.peakContent,
	}, runErr
}
