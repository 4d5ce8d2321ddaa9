package analyzer

import (
	"context"
	"runtime"
	"sort"
	"time"

	"github.com/arthur-debert/codeguard/pkg/cache"
	"github.com/arthur-debert/codeguard/pkg/logging"
	"github.com/arthur-debert/codeguard/pkg/rules"
	"github.com/arthur-debert/codeguard/pkg/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Options control one analysis run
type Options struct {
	// Parallel evaluates files on a worker pool. When false every file is
	// evaluated on the calling goroutine.
	Parallel bool
	// Workers sizes the pool. Zero uses runtime.GOMAXPROCS(0).
	Workers int
	// FailFast stops dispatch after the first error-severity violation.
	FailFast bool
	// MaxViolations caps the number of reported violations. Zero is unlimited.
	MaxViolations int
}

// DefaultOptions returns parallel evaluation with no stop conditions
func DefaultOptions() Options {
	return Options{Parallel: true}
}

// Analyzer evaluates files against a compiled rule set
type Analyzer struct {
	fs     types.FS
	engine *rules.Engine
	cache  *cache.Cache
	logger zerolog.Logger
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithCache enables result caching. A nil cache disables it.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// New creates an analyzer reading files from fs
func New(fs types.FS, engine *rules.Engine, opts ...Option) *Analyzer {
	a := &Analyzer{
		fs:     fs,
		engine: engine,
		logger: logging.GetLogger("analyzer"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Engine returns the rule engine the analyzer evaluates with
func (a *Analyzer) Engine() *rules.Engine {
	return a.engine
}

// Cache returns the configured cache, or nil
func (a *Analyzer) Cache() *cache.Cache {
	return a.cache
}

// Workers returns the pool size used for opts
func Workers(opts Options) int {
	if !opts.Parallel {
		return 1
	}
	if opts.Workers > 0 {
		return opts.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Run analyzes files and returns the assembled report. When ctx is
// cancelled the report covers the files completed so far and ctx.Err() is
// returned alongside it.
func (a *Analyzer) Run(ctx context.Context, files []string, opts Options) (*types.Report, error) {
	done := logging.LogOperationStart(a.logger, "analyze")
	defer done()

	start := time.Now()
	files = uniqueSorted(files)
	workers := Workers(opts)
	col := newCollector(opts)

	a.logger.Debug().
		Int("files", len(files)).
		Int("workers", workers).
		Bool("failFast", opts.FailFast).
		Int("maxViolations", opts.MaxViolations).
		Msg("Starting analysis")

	if workers == 1 {
		for _, path := range files {
			if col.stopped() || ctx.Err() != nil {
				break
			}
			col.accept(a.analyzeFile(path))
		}
	} else {
		var g errgroup.Group
		g.SetLimit(workers)
		for _, path := range files {
			if col.stopped() || ctx.Err() != nil {
				break
			}
			path := path
			g.Go(func() error {
				if col.stopped() || ctx.Err() != nil {
					return nil
				}
				col.accept(a.analyzeFile(path))
				return nil
			})
		}
		_ = g.Wait()
	}

	report := col.report()
	report.Duration = time.Since(start)

	a.logger.Info().
		Int("files", report.FilesAnalyzed).
		Int("violations", len(report.Violations)).
		Int("cacheHits", report.CacheHits).
		Bool("aborted", report.Aborted).
		Bool("truncated", report.Truncated).
		Dur("duration", report.Duration).
		Msg("Analysis finished")

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func uniqueSorted(files []string) []string {
	out := append([]string(nil), files...)
	sort.Strings(out)
	n := 0
	for i, f := range out {
		if i > 0 && f == out[n-1] {
			continue
		}
		out[n] = f
		n++
	}
	return out[:n]
}
