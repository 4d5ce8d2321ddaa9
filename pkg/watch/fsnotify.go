package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/arthur-debert/codeguard/pkg/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// FSSource delivers file system changes under a root as Events. New
// directories are registered as they appear.
type FSSource struct {
	root    string
	ignore  map[string]struct{}
	watcher *fsnotify.Watcher
	events  chan Event
	errs    chan error
	logger  zerolog.Logger
}

// NewFSSource watches root recursively, skipping directories whose base
// name is in ignoreDirs.
func NewFSSource(root string, ignoreDirs []string) (*FSSource, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to create file watcher")
	}

	src := &FSSource{
		root:    root,
		ignore:  make(map[string]struct{}, len(ignoreDirs)),
		watcher: w,
		events:  make(chan Event, 64),
		errs:    make(chan error, 8),
		logger:  logging.GetLogger("watch"),
	}
	for _, d := range ignoreDirs {
		src.ignore[strings.TrimSuffix(d, "/")] = struct{}{}
	}

	if err := src.addRecursive(root); err != nil {
		_ = w.Close()
		return nil, errors.Wrapf(err, errors.ErrPathResolve, "failed to watch %s", root).WithDetail("root", root)
	}
	return src, nil
}

// Events returns the channel of translated events. It is closed when Start
// returns.
func (s *FSSource) Events() <-chan Event {
	return s.events
}

// Errors returns watcher errors that did not stop the source
func (s *FSSource) Errors() <-chan error {
	return s.errs
}

// Start translates fsnotify events until ctx is done or the watcher closes
func (s *FSSource) Start(ctx context.Context) {
	defer close(s.events)
	defer s.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn().Err(err).Msg("File watcher error")
			select {
			case s.errs <- err:
			default:
			}
		case fe, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			ev, keep := s.translate(fe)
			if !keep {
				continue
			}
			select {
			case s.events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *FSSource) translate(fe fsnotify.Event) (Event, bool) {
	if s.ignored(fe.Name) {
		return Event{}, false
	}
	switch {
	case fe.Has(fsnotify.Create):
		if info, err := os.Stat(fe.Name); err == nil && info.IsDir() {
			if err := s.addRecursive(fe.Name); err != nil {
				s.logger.Warn().Err(err).Str("path", fe.Name).Msg("Failed to watch new directory")
			}
		}
		return Event{Path: fe.Name, Kind: EventCreate}, true
	case fe.Has(fsnotify.Remove):
		return Event{Path: fe.Name, Kind: EventRemove}, true
	case fe.Has(fsnotify.Rename):
		return Event{Path: fe.Name, Kind: EventRename}, true
	case fe.Has(fsnotify.Write):
		return Event{Path: fe.Name, Kind: EventWrite}, true
	}
	return Event{}, false
}

// ignored reports whether any segment of path below root is an ignored directory
func (s *FSSource) ignored(path string) bool {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return false
	}
	for _, p := range strings.Split(filepath.ToSlash(rel), "/") {
		if _, ok := s.ignore[p]; ok {
			return true
		}
	}
	return false
}

func (s *FSSource) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir {
			if _, skip := s.ignore[d.Name()]; skip {
				return filepath.SkipDir
			}
		}
		return s.watcher.Add(path)
	})
}

// Close stops the underlying watcher
func (s *FSSource) Close() error {
	return s.watcher.Close()
}
