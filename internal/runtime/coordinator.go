package runtime

import (
	"context"
	"fmt"
	"log/slog"
	goruntime "runtime"

	"golang.org/x/sync/errgroup"

	"github.com/DeusData/modlint/internal/arena"
	"github.com/DeusData/modlint/internal/cache"
	"github.com/DeusData/modlint/internal/diag"
	"github.com/DeusData/modlint/internal/fixer"
	"github.com/DeusData/modlint/internal/rules"
)

// task is one processing dispatch for a worker (or for the coordinator when
// it borrows worker capacity).
type task struct {
	path  string
	entry bool
}

// coordinator is the single owner of the dependency graph. All graph
// mutation happens on the goroutine running runBatch; workers only ever see
// the task and result channels.
type coordinator struct {
	proc        *processor
	pool        *arena.Pool
	exec        *rules.Executor
	fs          FileSystem
	sender      *diag.Sender
	cloner      *arena.Cloner
	concurrency int
	fix         bool

	cacheActive bool
	cache       *cache.Cache
	cacheTag    uint64

	tasks   chan task
	results chan *ProcessedModule

	entries    *PathSet
	graph      map[string][]*ModuleRecord
	dispatched map[string]bool

	// per-batch state, reset between batches
	queue        []task
	pending      int
	batchRecords []*ModuleRecord
	batchContent []*ProcessedModule

	processed   int
	edges       int
	peakContent int
}

// dispatch marks a path for processing at most once per run. Paths already
// dispatched, in this batch or any earlier one, are skipped; this is the
// cycle breaker.
func (c *coordinator) dispatch(path string) {
	if c.dispatched[path] {
		return
	}
	c.dispatched[path] = true
	c.queue = append(c.queue, task{path: path, entry: c.entries.Contains(path)})
	c.pending++
}

// handle folds one worker result into the graph. Newly discovered
// dependencies are dispatched from here, which is the only place the closure
// grows.
func (c *coordinator) handle(pm *ProcessedModule) {
	c.processed++

	// Failed and empty modules still occupy a graph slot so they are never
	// reprocessed.
	if _, ok := c.graph[pm.Path]; !ok {
		c.graph[pm.Path] = []*ModuleRecord{}
	}

	for _, result := range pm.Records {
		c.send(result.Diags)
		if result.Record == nil {
			continue
		}
		c.graph[pm.Path] = append(c.graph[pm.Path], result.Record)
		c.batchRecords = append(c.batchRecords, result.Record)

		for _, req := range result.Record.Requests {
			if req.Err != nil {
				c.send([]diag.Diagnostic{{
					Path:     pm.Path,
					Section:  result.Record.Section,
					Rule:     "unresolved-import",
					Severity: diag.SeverityError,
					Message:  fmt.Sprintf("cannot resolve import %q", req.Specifier),
					Span:     req.Span,
				}})
				continue
			}
			if req.Path != "" {
				c.dispatch(req.Path)
			}
		}
	}

	if pm.Content != nil {
		c.batchContent = append(c.batchContent, pm)
		if n := len(c.batchContent); n > c.peakContent {
			c.peakContent = n
		}
	}
}

// runBatch drives one batch through its state machine: entry dispatch,
// non-blocking drain with work borrowing, closure, analysis, release.
func (c *coordinator) runBatch(ctx context.Context, batch []string) error {
	c.queue = c.queue[:0]
	c.batchRecords = c.batchRecords[:0]
	c.batchContent = c.batchContent[:0]

	for _, path := range batch {
		c.dispatch(path)
	}
	slog.Debug("batch.start", "entries", len(batch), "dispatched", c.pending)

	for c.pending > 0 {
		// On cancellation, stop handing out queued work and let the
		// in-flight tasks drain naturally.
		if ctx.Err() != nil && len(c.queue) > 0 {
			c.pending -= len(c.queue)
			c.queue = c.queue[:0]
		}

		if len(c.queue) > 0 {
			select {
			case c.tasks <- c.queue[0]:
				c.queue = c.queue[1:]
				continue
			default:
			}
		}

		select {
		case pm := <-c.results:
			c.handle(pm)
			c.pending--
			continue
		default:
		}

		// Idle with work still queued: borrow a worker slot and run one
		// task inline rather than stranding parallelism.
		if len(c.queue) > 0 {
			if guard, ok := c.pool.TryAcquire(); ok {
				t := c.queue[0]
				c.queue = c.queue[1:]
				c.handle(c.proc.process(t.path, t.entry, guard))
				c.pending--
				continue
			}
		}

		goruntime.Gosched()
	}

	if err := ctx.Err(); err != nil {
		c.releaseBatch()
		return err
	}

	// Closure complete: every reachable module has a graph slot. Fill the
	// records' direct edges before analysis sees them.
	for _, rec := range c.batchRecords {
		for _, req := range rec.Requests {
			if req.Err != nil || req.Path == "" {
				continue
			}
			targets := c.graph[req.Path]
			if len(targets) == 0 {
				continue
			}
			if rec.LoadedModules == nil {
				rec.LoadedModules = make(map[string]*ModuleRecord)
			}
			rec.LoadedModules[req.Specifier] = targets[0]
			c.edges++
		}
	}
	slog.Debug("batch.closure", "modules", len(c.graph), "analyzing", len(c.batchContent))

	err := c.analyze()
	c.releaseBatch()
	return err
}

// analyze runs the rule catalog over every retained module of the batch,
// applies merged fixes, and feeds the result cache. Parallel across files.
func (c *coordinator) analyze() error {
	g := new(errgroup.Group)
	g.SetLimit(c.concurrency)

	for _, pm := range c.batchContent {
		pm := pm
		g.Go(func() error {
			var fileDiags []diag.Diagnostic
			for i := range pm.Content.Segments {
				seg := &pm.Content.Segments[i]
				if seg.Tree == nil {
					continue
				}
				fileDiags = append(fileDiags, c.exec.Analyze(pm.Path, i, seg.Offset, seg.Source, seg.Tree.RootNode())...)
			}

			if c.fix {
				if fixes := fixer.Collect(fileDiags); len(fixes) > 0 {
					if fixed, changed := fixer.Apply(pm.Content.Source, fixes); changed {
						if err := c.fs.WriteFile(pm.Path, fixed); err != nil {
							fileDiags = append(fileDiags, diag.Diagnostic{
								Path:     pm.Path,
								Rule:     "io",
								Severity: diag.SeverityError,
								Message:  fmt.Sprintf("cannot write fixes: %v", err),
							})
						}
					}
				}
			}

			c.send(fileDiags)

			if c.cacheActive {
				all := make([]diag.Diagnostic, 0, len(fileDiags))
				for _, result := range pm.Records {
					all = append(all, result.Diags...)
				}
				all = append(all, fileDiags...)
				if err := c.cache.Put(pm.Path, pm.ContentHash, c.cacheTag, all); err != nil {
					slog.Warn("cache.put.err", "path", pm.Path, "err", err)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (c *coordinator) releaseBatch() {
	for _, pm := range c.batchContent {
		pm.Release()
	}
	c.batchContent = c.batchContent[:0]
}

// send clones diagnostics out of their producing arena and forwards them to
// the collector. The clone is the one sanctioned cross-thread arena access.
func (c *coordinator) send(diags []diag.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	cloned := make([]diag.Diagnostic, len(diags))
	for i, d := range diags {
		cloned[i] = c.cloner.CloneDiagnostic(d)
	}
	c.sender.Send(cloned)
}
