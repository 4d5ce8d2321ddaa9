package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/codeguard/pkg/config"
	"github.com/arthur-debert/codeguard/pkg/filesystem"
	"github.com/arthur-debert/codeguard/pkg/logging"
	"github.com/arthur-debert/codeguard/pkg/style"
	"github.com/arthur-debert/codeguard/pkg/types"
	"github.com/arthur-debert/codeguard/pkg/watch"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newWatchCmd(g *globalOptions) *cobra.Command {
	flags := &analysisFlags{}
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: MsgWatchShort,
		Long: `Watch runs a full check, then waits for changes below the given paths and
re-analyzes after a quiet period. Edits re-analyze only the changed files;
created, removed or renamed files and ignore-file edits resolve the tree
again. Editing the project configuration reloads it.`,
		Example: `  # Watch the project with a longer quiet period
  codeguard watch --debounce 1s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, g, flags, debounce, args)
		},
	}
	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", 0, MsgFlagDebounce)
	return cmd
}

// watcher keeps the last full report and refreshes it batch by batch
type watcher struct {
	g      *globalOptions
	cmd    *cobra.Command
	flags  *analysisFlags
	roots  []string
	out    io.Writer
	logger zerolog.Logger

	session *session
	files   map[string]struct{}
	report  *types.Report
}

func runWatch(cmd *cobra.Command, g *globalOptions, flags *analysisFlags, debounce time.Duration, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	w := &watcher{
		g:      g,
		cmd:    cmd,
		flags:  flags,
		out:    cmd.OutOrStdout(),
		logger: logging.GetLogger("cli.watch"),
	}
	if err := w.reload(); err != nil {
		return err
	}
	w.roots = rootsFor(w.session.cfg, args)
	if err := w.full(ctx); err != nil {
		return err
	}

	window := w.session.cfg.Watch.Debounce
	if cmd.Flags().Changed("debounce") {
		window = debounce
	}

	events, err := w.sources(ctx)
	if err != nil {
		return err
	}

	ignoreFiles := append([]string{w.session.cfg.Paths.IgnoreFile}, config.ProjectFiles...)
	sched := watch.NewScheduler(window, func(b watch.Batch) { w.handle(ctx, b) },
		watch.WithIgnoreFiles(ignoreFiles...))

	fmt.Fprintf(w.out, MsgWatching, strings.Join(w.roots, ", "))
	err = sched.Run(ctx, events)
	if stderrors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// reload loads the configuration and rebuilds the session. On failure the
// previous session stays in place.
func (w *watcher) reload() error {
	cfg, err := w.g.loadConfig()
	if err != nil {
		return err
	}
	if err := w.flags.apply(w.cmd, cfg); err != nil {
		return err
	}
	s, err := newSession(cfg, filesystem.NewOS())
	if err != nil {
		return err
	}
	w.session = s
	return nil
}

// full resolves the roots again and analyzes every file
func (w *watcher) full(ctx context.Context) error {
	files, err := w.session.resolve(w.roots)
	if err != nil {
		return err
	}
	w.files = make(map[string]struct{}, len(files))
	for _, f := range files {
		w.files[f] = struct{}{}
	}

	report, err := w.session.analyze(ctx, files)
	if err != nil {
		return err
	}
	w.report = report
	return w.session.render(w.out, report)
}

// handle runs for each debounced batch
func (w *watcher) handle(ctx context.Context, b watch.Batch) {
	if ctx.Err() != nil {
		return
	}

	if touchesConfig(b.Paths) {
		if err := w.reload(); err != nil {
			w.logger.Error().Err(err).Msg("Keeping previous configuration")
			return
		}
		w.logger.Info().Msg("Configuration reloaded")
		b.Structural = true
	}

	if b.Structural {
		fmt.Fprintf(w.out, MsgWatchRerun, MsgWatchStructural, strings.Join(b.Paths, ", "))
		if err := w.full(ctx); err != nil && ctx.Err() == nil {
			w.logger.Error().Err(err).Msg("Re-analysis failed")
		}
		return
	}

	var targets []string
	for _, p := range b.Paths {
		p = filepath.ToSlash(filepath.Clean(p))
		if _, ok := w.files[p]; ok {
			targets = append(targets, p)
		}
	}
	if len(targets) == 0 {
		w.logger.Debug().Strs("paths", b.Paths).Msg("No analyzed file changed")
		return
	}

	n := len(targets)
	fmt.Fprintf(w.out, MsgWatchRerun, fmt.Sprintf("%d %s", n, style.Plural(n, "file")), strings.Join(targets, ", "))
	next, err := w.session.analyze(ctx, targets)
	if err != nil {
		return
	}
	w.report = w.report.Merge(next, targets)
	if err := w.session.render(w.out, w.report); err != nil {
		w.logger.Error().Err(err).Msg("Failed to render report")
	}
}

// sources starts one file system source per watched directory and merges
// their events. The returned channel closes when every source has stopped.
func (w *watcher) sources(ctx context.Context) (<-chan watch.Event, error) {
	ignore := ignoredDirs(w.session.cfg.Paths.Patterns)

	var srcs []*watch.FSSource
	for _, dir := range watchDirs(w.roots) {
		src, err := watch.NewFSSource(dir, ignore)
		if err != nil {
			for _, s := range srcs {
				_ = s.Close()
			}
			return nil, err
		}
		srcs = append(srcs, src)
	}

	merged := make(chan watch.Event)
	var wg sync.WaitGroup
	for _, src := range srcs {
		wg.Add(1)
		go src.Start(ctx)
		go func(src *watch.FSSource) {
			defer wg.Done()
			for ev := range src.Events() {
				select {
				case merged <- ev:
				case <-ctx.Done():
				}
			}
		}(src)
	}
	go func() {
		wg.Wait()
		close(merged)
	}()
	return merged, nil
}

// watchDirs maps roots to the directories to watch: directories as given,
// files through their parent. Duplicates are dropped.
func watchDirs(roots []string) []string {
	seen := make(map[string]struct{}, len(roots))
	var dirs []string
	for _, root := range roots {
		dir := filepath.Clean(root)
		if info, err := os.Stat(dir); err == nil && !info.IsDir() {
			dir = filepath.Dir(dir)
		}
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	return dirs
}

// ignoredDirs returns directory names that plain exclusion patterns such
// as "vendor/" drop everywhere, so the watcher never registers them. Any
// negated pattern disables this.
func ignoredDirs(patterns []string) []string {
	for _, p := range patterns {
		if strings.HasPrefix(strings.TrimSpace(p), "!") {
			return nil
		}
	}
	var names []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if !strings.HasSuffix(p, "/") || strings.HasPrefix(p, "#") {
			continue
		}
		name := strings.TrimSuffix(p, "/")
		if name == "" || strings.ContainsAny(name, "/*?[\\") {
			continue
		}
		names = append(names, name)
	}
	return names
}

func touchesConfig(paths []string) bool {
	for _, p := range paths {
		base := filepath.Base(p)
		for _, name := range config.ProjectFiles {
			if base == name {
				return true
			}
		}
	}
	return false
}
