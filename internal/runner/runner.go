// Package runner drives a lint run: corpus-wide plugins first on the
// calling goroutine, then every file through a bounded worker pool. Results
// flow back to a single controller that owns the counters and the reporter.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"vtlint/internal/ctxlog"
	"vtlint/internal/finding"
	"vtlint/internal/observ"
	"vtlint/internal/patterns"
	"vtlint/internal/plugin"
	"vtlint/internal/registry"
	"vtlint/internal/source"
	"vtlint/internal/trace"
)

// Generic messages for files no plugin could look at.
const (
	MsgFileMissing = "File does not exist."
	MsgNotScript   = "Not a NASL file."
)

// Options configures a Runner.
type Options struct {
	Root       string
	Jobs       int // <= 0 means GOMAXPROCS
	Fix        bool
	Mode       registry.Mode
	Selection  registry.Selection
	Catalogues registry.Catalogues
	Reporter   Reporter
	Progress   ProgressSink
	Patterns   *patterns.Cache
}

// Runner executes one selection over a list of files.
type Runner struct {
	opts   Options
	active *registry.Active
	fix    bool
}

// New resolves the selection. Every error it returns is a configuration
// error; no file has been touched yet.
func New(opts Options) (*Runner, error) {
	active, err := registry.SelectMode(opts.Catalogues, opts.Mode, opts.Selection)
	if err != nil {
		return nil, err
	}
	if opts.Reporter == nil {
		opts.Reporter = nopReporter{}
	}
	if opts.Progress == nil {
		opts.Progress = nopSink{}
	}
	if opts.Patterns == nil {
		opts.Patterns = patterns.NewCache()
	}
	if opts.Root != "" {
		root, err := source.AbsolutePath(opts.Root)
		if err != nil {
			return nil, fmt.Errorf("root %s: %w", opts.Root, err)
		}
		opts.Root = root
	}
	return &Runner{
		opts:   opts,
		active: active,
		fix:    opts.Fix || opts.Mode.ForcesFix(),
	}, nil
}

// Active returns the resolved plugin selection.
func (r *Runner) Active() *registry.Active { return r.active }

// WithProgress returns a copy of r that reports progress to sink.
func (r *Runner) WithProgress(sink ProgressSink) *Runner {
	cp := *r
	if sink == nil {
		sink = nopSink{}
	}
	cp.opts.Progress = sink
	return &cp
}

// FixMode reports whether fixers will run.
func (r *Runner) FixMode() bool { return r.fix }

// Jobs returns the effective worker count for n files.
func (r *Runner) Jobs(n int) int {
	jobs := r.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	jobs = min(jobs, n)
	if jobs < 1 {
		jobs = 1
	}
	return jobs
}

// Run checks files. An interrupt through ctx is not an error: the summary
// comes back with Interrupted set and Success false.
func (r *Runner) Run(ctx context.Context, files []string) (*Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()
	log := ctxlog.FromContext(ctx)
	tracer := trace.FromContext(ctx)
	runSpan := trace.Begin(tracer, trace.ScopeRun, "run", 0).
		WithExtra("catalogue", r.active.Catalogue)

	timer := observ.NewTimer()
	counts := finding.NewCounts()
	summary := &Summary{
		Active: r.active,
		Counts: counts,
		Files:  len(files),
	}

	log.Debug("run started",
		slog.String("catalogue", r.active.Catalogue),
		slog.Int("plugins", r.active.Len()),
		slog.Int("files", len(files)),
		slog.Bool("fix", r.fix))
	r.opts.Reporter.Plugins(r.active)

	idx := timer.Begin("corpus")
	summary.Interrupted = r.runCorpus(ctx, files, counts, runSpan.ID())
	timer.End(idx, fmt.Sprintf("%d plugins", len(r.active.PreRun)))

	if !summary.Interrupted {
		idx = timer.Begin("files")
		summary.Checked, summary.Interrupted = r.runFiles(ctx, files, counts, runSpan.ID())
		timer.End(idx, fmt.Sprintf("%d files, %d jobs", summary.Checked, r.Jobs(len(files))))
	}

	summary.Elapsed = time.Since(started)
	summary.Timings = timer.Report()

	if summary.Interrupted {
		log.Warn("run interrupted", slog.Int("checked", summary.Checked), slog.Int("files", summary.Files))
	}
	log.Debug("run finished",
		slog.Int("errors", counts.Errors),
		slog.Int("warnings", counts.Warnings),
		slog.Int("fixes", counts.Fixes),
		slog.Duration("elapsed", summary.Elapsed))

	r.opts.Reporter.Finish(summary)
	runSpan.End(fmt.Sprintf("errors=%d interrupted=%t", counts.Errors, summary.Interrupted))
	return summary, nil
}

// runCorpus runs the pre-run plugins one after another. It reports true if
// ctx was cancelled before all of them ran.
func (r *Runner) runCorpus(ctx context.Context, files []string, counts *finding.Counts, parent uint64) bool {
	if len(r.active.PreRun) == 0 {
		return ctx.Err() != nil
	}
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "corpus", parent)
	defer span.End("")

	fctx := &plugin.FilesContext{Root: r.opts.Root, Files: files, Patterns: r.opts.Patterns}
	for _, p := range r.active.PreRun {
		if ctx.Err() != nil {
			return true
		}
		res := r.runPlugin(ctx, p, nil, fctx, span.ID())
		counts.AddAll(res.Plugin, res.Findings)
		r.opts.Reporter.CorpusResults(res.Plugin, res.Findings)
	}
	return false
}

// runFiles fans files out to the worker pool and collects the results on
// the calling goroutine.
func (r *Runner) runFiles(ctx context.Context, files []string, counts *finding.Counts, parent uint64) (checked int, interrupted bool) {
	if len(files) == 0 {
		return 0, ctx.Err() != nil
	}
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "files", parent)
	defer span.End("")

	jobs := r.Jobs(len(files))
	results := make(chan *FileResult, jobs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for _, file := range files {
		r.opts.Progress.OnEvent(Event{File: file, Status: StatusQueued})
	}

	go func() {
		defer close(results)
		for _, file := range files {
			// stop submitting, in-flight files finish
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				results <- r.checkFile(gctx, file, span.ID())
				return nil
			})
		}
		_ = g.Wait()
	}()

	total := len(files)
	for res := range results {
		checked++
		for _, f := range res.Generic {
			counts.Add(finding.GenericBucket, f)
		}
		for _, pr := range res.Plugins {
			counts.AddAll(pr.Plugin, pr.Findings)
		}
		r.opts.Reporter.FileResults(res, checked, total)
	}
	return checked, checked < total && ctx.Err() != nil
}

// checkFile runs the per-file plugins on one file, in catalogue order.
// Every fixer sees the content as it was read here.
func (r *Runner) checkFile(ctx context.Context, path string, parent uint64) *FileResult {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "file:"+path, parent)
	r.opts.Progress.OnEvent(Event{File: path, Status: StatusChecking})

	res := &FileResult{Path: path}
	defer func() {
		all := res.All()
		status := StatusDone
		if finding.HasErrors(all) {
			status = StatusError
		}
		r.opts.Progress.OnEvent(Event{
			File:     path,
			Status:   status,
			Errors:   finding.CountKind(all, finding.Error),
			Warnings: finding.CountKind(all, finding.Warning),
		})
		span.End(string(status))
	}()

	generic := func(f finding.Finding) {
		res.Generic = append(res.Generic, f.WithFile(path))
		res.Skipped = true
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		generic(finding.NewError(MsgFileMissing))
		return res
	case err != nil:
		generic(finding.NewError(fmt.Sprintf("File could not be read: %v", err)))
		return res
	case info.IsDir() || !source.IsScript(path):
		generic(finding.NewWarning(MsgNotScript))
		return res
	}

	fctx, err := plugin.NewFileContext(r.opts.Root, path, r.opts.Patterns)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("read failed", slog.String("file", path), slog.Any("error", err))
		generic(finding.NewError(fmt.Sprintf("File could not be read: %v", err)))
		return res
	}

	res.Plugins = make([]PluginResult, 0, len(r.active.PerFile))
	for _, p := range r.active.PerFile {
		res.Plugins = append(res.Plugins, r.runPlugin(ctx, p, fctx, nil, span.ID()))
	}
	return res
}

// runPlugin drives one plugin through its variant. A panic or a failed Fix
// turns into an Error for this plugin only. Exactly one of file and files
// is set.
func (r *Runner) runPlugin(ctx context.Context, p plugin.Plugin, file *plugin.FileContext, files *plugin.FilesContext, parent uint64) (res PluginResult) {
	name := p.Name()
	res.Plugin = name
	path := ""
	if file != nil {
		path = file.File
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePlugin, "plugin:"+name, parent)

	defer func() {
		if rec := recover(); rec != nil {
			msg := fmt.Sprintf("Plugin %s crashed: %v", name, rec)
			res.Findings = append(res.Findings, finding.NewError(msg))
			trace.Point(tracer, trace.ScopePlugin, "panic:"+name, fmt.Sprint(rec), span.ID())
			ctxlog.FromContext(ctx).Error("plugin panicked",
				slog.String("plugin", name),
				slog.String("file", path),
				slog.Any("panic", rec))
		}
		for i := range res.Findings {
			res.Findings[i] = res.Findings[i].Stamp(path, name)
		}
		span.End(fmt.Sprintf("%d findings", len(res.Findings)))
	}()

	var check plugin.Check
	switch v := p.(type) {
	case plugin.FileContentPlugin:
		res.Findings = v.CheckContent(file)
		return res
	case plugin.LineContentPlugin:
		res.Findings = v.CheckLines(file)
		return res
	case plugin.FilePlugin:
		check = v.NewCheck(file)
	case plugin.FilesPlugin:
		check = v.NewCorpusCheck(files)
	default:
		res.Findings = []finding.Finding{finding.NewError(fmt.Sprintf("Plugin %s implements no known variant", name))}
		return res
	}

	res.Findings = check.Run()
	if !r.fix {
		return res
	}
	fixer, ok := check.(plugin.Fixer)
	if !ok {
		return res
	}
	fixes, err := fixer.Fix()
	res.Findings = append(res.Findings, fixes...)
	if err != nil {
		res.Findings = append(res.Findings, finding.NewError(fmt.Sprintf("Plugin %s failed to fix: %v", name, err)))
		ctxlog.FromContext(ctx).Error("fix failed",
			slog.String("plugin", name),
			slog.String("file", path),
			slog.Any("error", err))
	}
	return res
}
