package cli

import (
	"context"
	"io"
	"os"

	"github.com/arthur-debert/codeguard/pkg/analyzer"
	"github.com/arthur-debert/codeguard/pkg/cache"
	"github.com/arthur-debert/codeguard/pkg/config"
	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/arthur-debert/codeguard/pkg/logging"
	"github.com/arthur-debert/codeguard/pkg/output"
	"github.com/arthur-debert/codeguard/pkg/resolver"
	"github.com/arthur-debert/codeguard/pkg/rules"
	"github.com/arthur-debert/codeguard/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// session wires one configuration into the resolver, engine, cache and
// orchestrator shared by check and watch.
type session struct {
	cfg      *config.Config
	fs       types.FS
	engine   *rules.Engine
	resolver *resolver.Resolver
	analyzer *analyzer.Analyzer
	cache    *cache.Cache
	logger   zerolog.Logger
}

func newSession(cfg *config.Config, fs types.FS) (*session, error) {
	logger := logging.GetLogger("cli")

	engine, err := cfg.Engine()
	if err != nil {
		return nil, err
	}

	res, err := resolver.New(fs, cfg.Paths.Patterns,
		resolver.WithIgnoreFile(cfg.Paths.IgnoreFile),
		resolver.WithDefaultPolarity(cfg.DefaultPolarity()),
	)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, fs: fs, engine: engine, resolver: res, logger: logger}

	var opts []analyzer.Option
	if cfg.Cache.Enabled {
		c, err := cache.Load(fs, cfg.CacheFile(), engine.Fingerprint(), cfg.Cache.MaxEntries)
		if err != nil {
			logger.Warn().Err(err).Str("file", cfg.CacheFile()).Msg("Starting with an empty cache")
		}
		s.cache = c
		opts = append(opts, analyzer.WithCache(c))
	}
	s.analyzer = analyzer.New(fs, engine, opts...)

	logger.Debug().
		Int("rules", engine.EnabledCount()).
		Bool("cache", s.cache != nil).
		Str("root", cfg.Root).
		Msg("Session ready")
	return s, nil
}

// rootsFor returns the paths to analyze: the arguments, or the project root
func rootsFor(cfg *config.Config, args []string) []string {
	if len(args) > 0 {
		return args
	}
	return []string{cfg.Root}
}

// resolve lists the files to analyze under roots. Unreadable roots are
// logged by the resolver; it is an error only when nothing was readable.
func (s *session) resolve(roots []string) ([]string, error) {
	result, err := s.resolver.Resolve(roots)
	if err != nil {
		return nil, err
	}
	if len(result.Files) == 0 && len(result.RootErrors) > 0 {
		return nil, errors.Wrap(result.RootErrors[0], errors.ErrPathResolve, MsgErrNoRoots)
	}
	return result.Files, nil
}

// analyze runs the orchestrator and persists the cache afterwards, also
// when the run was cut short.
func (s *session) analyze(ctx context.Context, files []string) (*types.Report, error) {
	report, err := s.analyzer.Run(ctx, files, s.cfg.AnalyzerOptions())
	s.persist()
	return report, err
}

// persist drops entries for deleted files and writes the snapshot. Cache
// failures never fail a run.
func (s *session) persist() {
	if s.cache == nil {
		return
	}
	pruned := s.cache.Prune(func(path string) bool {
		_, err := s.fs.Stat(path)
		return err == nil
	})
	if err := s.cache.Save(s.fs, s.cfg.CacheFile(), s.engine.Fingerprint()); err != nil {
		s.logger.Warn().Err(err).Str("file", s.cfg.CacheFile()).Msg("Failed to save cache")
		return
	}
	s.logger.Debug().Int("pruned", pruned).Str("file", s.cfg.CacheFile()).Msg("Cache saved")
}

// render writes report in the configured format, hiding violations below
// the configured severity.
func (s *session) render(w io.Writer, report *types.Report) error {
	format, err := output.ParseFormat(s.cfg.Output.Format)
	if err != nil {
		return err
	}
	r := output.New(format, output.Options{Color: colorFor(w), Root: s.cfg.Root})
	return r.Render(w, report.Filter(s.cfg.MinSeverity()))
}

func colorFor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && output.DetectColor(f)
}

// analysisFlags are the flags check and watch share. Only flags set on the
// command line override the configuration.
type analysisFlags struct {
	format        string
	minSeverity   string
	failFast      bool
	maxViolations int
	workers       int
	noParallel    bool
	noCache       bool
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.format, "format", "f", "auto", MsgFlagFormat)
	flags.StringVar(&f.minSeverity, "min-severity", "info", MsgFlagMinSeverity)
	flags.BoolVar(&f.failFast, "fail-fast", false, MsgFlagFailFast)
	flags.IntVar(&f.maxViolations, "max-violations", 0, MsgFlagMaxViolations)
	flags.IntVarP(&f.workers, "workers", "j", 0, MsgFlagWorkers)
	flags.BoolVar(&f.noParallel, "no-parallel", false, MsgFlagNoParallel)
	flags.BoolVar(&f.noCache, "no-cache", false, MsgFlagNoCache)

	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletions(config.Formats...))
	_ = cmd.RegisterFlagCompletionFunc("min-severity", fixedCompletions("info", "warning", "error"))
}

func (f *analysisFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = f.format
	}
	if flags.Changed("min-severity") {
		cfg.Output.MinSeverity = f.minSeverity
	}
	if flags.Changed("fail-fast") {
		cfg.Analysis.FailFast = f.failFast
	}
	if flags.Changed("max-violations") {
		cfg.Analysis.MaxViolations = f.maxViolations
	}
	if flags.Changed("workers") {
		cfg.Analysis.Workers = f.workers
	}
	if f.noParallel {
		cfg.Analysis.Parallel = false
	}
	if f.noCache {
		cfg.Cache.Enabled = false
	}

	if _, err := output.ParseFormat(cfg.Output.Format); err != nil {
		return err
	}
	if _, err := types.ParseSeverity(cfg.Output.MinSeverity); err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, "invalid --min-severity")
	}
	if cfg.Analysis.Workers < 0 {
		return errors.Newf(errors.ErrInvalidInput, "--workers must not be negative, got %d", cfg.Analysis.Workers)
	}
	if cfg.Analysis.MaxViolations < 0 {
		return errors.Newf(errors.ErrInvalidInput, "--max-violations must not be negative, got %d", cfg.Analysis.MaxViolations)
	}
	return nil
}

func fixedCompletions(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
