package resolver

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/arthur-debert/codeguard/pkg/logging"
	"github.com/arthur-debert/codeguard/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultIgnoreFile is the per-directory ignore file name
const DefaultIgnoreFile = ".codeguardignore"

// Resolver turns roots into the ordered list of files to analyze
type Resolver struct {
	fs              types.FS
	patterns        []PathPattern
	ignoreFile      string
	defaultPolarity Polarity
	logger          zerolog.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithIgnoreFile sets the per-directory ignore file name. An empty name
// disables ignore files.
func WithIgnoreFile(name string) Option {
	return func(r *Resolver) {
		r.ignoreFile = name
	}
}

// WithDefaultPolarity sets the fate of paths no pattern matches
func WithDefaultPolarity(p Polarity) Option {
	return func(r *Resolver) {
		r.defaultPolarity = p
	}
}

// New compiles the configured patterns. An invalid pattern is a fatal
// configuration error.
func New(fs types.FS, patterns []string, opts ...Option) (*Resolver, error) {
	compiled, err := ParsePatterns(patterns)
	if err != nil {
		return nil, err
	}
	r := &Resolver{
		fs:              fs,
		patterns:        compiled,
		ignoreFile:      DefaultIgnoreFile,
		defaultPolarity: Include,
		logger:          logging.GetLogger("resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Patterns returns the configured patterns in order
func (r *Resolver) Patterns() []PathPattern {
	return append([]PathPattern(nil), r.patterns...)
}

// IgnoreFile returns the per-directory ignore file name
func (r *Resolver) IgnoreFile() string {
	return r.ignoreFile
}

// Result is the outcome of resolving a set of roots
type Result struct {
	// Files is sorted, slash-separated and free of duplicates.
	Files []string
	// RootErrors holds PATH_RESOLVE errors scoped to a root or directory.
	RootErrors []error
}

type walkState struct {
	root    string
	files   map[string]struct{}
	visited map[string]struct{}
	errs    []error
}

// Resolve walks every root depth-first. A missing or unreadable root is
// recorded in the result and the remaining roots still resolve.
func (r *Resolver) Resolve(roots []string) (*Result, error) {
	done := logging.LogOperationStart(r.logger, "resolve")
	defer done()

	st := &walkState{
		files:   make(map[string]struct{}),
		visited: make(map[string]struct{}),
	}

	for _, root := range roots {
		st.root = root
		info, err := r.fs.Stat(root)
		if err != nil {
			r.logger.Warn().Err(err).Str("root", root).Msg("Cannot resolve root")
			st.errs = append(st.errs, errors.Wrapf(err, errors.ErrPathResolve, "cannot read root %s", root).
				WithDetail("root", root))
			continue
		}
		if !info.IsDir() {
			// Explicit file roots are always analyzed.
			st.files[filepath.ToSlash(filepath.Clean(root))] = struct{}{}
			continue
		}
		dir := filepath.Clean(root)
		r.walk(st, dir, "", r.withIgnoreFile(r.patterns, dir, ""))
	}

	files := make([]string, 0, len(st.files))
	for f := range st.files {
		files = append(files, f)
	}
	sort.Strings(files)

	r.logger.Debug().
		Int("roots", len(roots)).
		Int("files", len(files)).
		Int("errors", len(st.errs)).
		Msg("Resolved files")

	return &Result{Files: files, RootErrors: st.errs}, nil
}

// walk visits dir. effective already holds the patterns of dir's own ignore
// file.
func (r *Resolver) walk(st *walkState, dir, rel string, effective []PathPattern) {
	canonical, err := r.fs.EvalSymlinks(dir)
	if err != nil {
		canonical = dir
	}
	if _, seen := st.visited[canonical]; seen {
		r.logger.Debug().Str("dir", dir).Str("canonical", canonical).Msg("Skipping already visited directory")
		return
	}
	st.visited[canonical] = struct{}{}

	entries, err := r.fs.ReadDir(dir)
	if err != nil {
		r.logger.Warn().Err(err).Str("dir", dir).Msg("Cannot read directory")
		st.errs = append(st.errs, errors.Wrapf(err, errors.ErrPathResolve, "cannot read directory %s", dir).
			WithDetail("root", st.root))
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if r.ignoreFile != "" && name == r.ignoreFile {
			continue
		}
		childPath := filepath.Join(dir, name)
		childRel := joinRel(rel, name)

		isDir := entry.IsDir()
		regular := entry.Type().IsRegular()
		if entry.Type()&fs.ModeSymlink != 0 {
			info, err := r.fs.Stat(childPath)
			if err != nil {
				r.logger.Debug().Err(err).Str("path", childPath).Msg("Skipping broken symlink")
				continue
			}
			isDir = info.IsDir()
			regular = info.Mode().IsRegular()
		}

		if isDir {
			// The child's ignore file is read first so its overrides can
			// keep the directory from being pruned.
			childEffective := r.withIgnoreFile(effective, childPath, childRel)
			if r.prune(childEffective, childRel) {
				r.logger.Trace().Str("dir", childRel).Msg("Pruned excluded directory")
				continue
			}
			r.walk(st, childPath, childRel, childEffective)
			continue
		}
		if !regular {
			continue
		}
		if Decide(effective, childRel, false, r.defaultPolarity) == Include {
			st.files[filepath.ToSlash(childPath)] = struct{}{}
		}
	}
}

// prune reports whether a directory can be skipped entirely: it is excluded
// and no include pattern, inherited or from its own ignore file, could
// re-include anything below it.
func (r *Resolver) prune(effective []PathPattern, rel string) bool {
	return Decide(effective, rel, true, r.defaultPolarity) == Exclude && !hasInclude(effective)
}

// withIgnoreFile returns inherited followed by the ignore-file patterns of dir.
// Invalid lines are logged and skipped.
func (r *Resolver) withIgnoreFile(inherited []PathPattern, dir, rel string) []PathPattern {
	if r.ignoreFile == "" {
		return inherited
	}
	content, err := r.fs.ReadFile(filepath.Join(dir, r.ignoreFile))
	if err != nil {
		return inherited
	}

	effective := make([]PathPattern, len(inherited), len(inherited)+8)
	copy(effective, inherited)
	for i, line := range strings.Split(string(content), "\n") {
		p, ok, err := ParsePattern(line, rel)
		if err != nil {
			r.logger.Warn().
				Err(err).
				Str("file", filepath.Join(dir, r.ignoreFile)).
				Int("line", i+1).
				Msg("Skipping invalid ignore pattern")
			continue
		}
		if ok {
			effective = append(effective, p)
		}
	}
	r.logger.Trace().Str("dir", dir).Int("patterns", len(effective)-len(inherited)).Msg("Loaded ignore file")
	return effective
}

// Includes answers the inclusion question for a single path under root the
// same way Resolve would, without walking the tree.
func (r *Resolver) Includes(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return false
	}
	if r.ignoreFile != "" && path.Base(rel) == r.ignoreFile {
		return false
	}

	effective := r.withIgnoreFile(r.patterns, root, "")
	parts := strings.Split(rel, "/")
	for i := 0; i < len(parts)-1; i++ {
		dirRel := strings.Join(parts[:i+1], "/")
		effective = r.withIgnoreFile(effective, filepath.Join(root, filepath.FromSlash(dirRel)), dirRel)
		if r.prune(effective, dirRel) {
			return false
		}
	}
	return Decide(effective, rel, false, r.defaultPolarity) == Include
}

func joinRel(rel, name string) string {
	if rel == "" {
		return name
	}
	return rel + "/" + name
}
