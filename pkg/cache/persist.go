package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/arthur-debert/codeguard/pkg/logging"
	"github.com/arthur-debert/codeguard/pkg/rules"
	"github.com/arthur-debert/codeguard/pkg/types"
)

// SnapshotVersion is bumped whenever the snapshot layout changes
const SnapshotVersion = 1

type snapshot struct {
	Version     int                      `json:"version"`
	Fingerprint string                   `json:"fingerprint"`
	Entries     map[string]snapshotEntry `json:"entries"`
}

type snapshotEntry struct {
	Hash       string            `json:"hash"`
	Partial    bool              `json:"partial,omitempty"`
	Violations []types.Violation `json:"violations,omitempty"`
}

// Load reads a snapshot into a new cache. A missing file, or a snapshot
// written by another format version or rule set, yields an empty cache.
// A corrupt snapshot also yields an empty cache together with a CACHE_IO
// error the caller should log.
func Load(fs types.FS, path, fingerprint string, maxEntries int) (*Cache, error) {
	logger := logging.GetLogger("cache")
	c := New(maxEntries)

	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, errors.Wrapf(err, errors.ErrCacheIO, "failed to read cache snapshot %s", path)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return c, errors.Wrapf(err, errors.ErrCacheIO, "corrupt cache snapshot %s", path)
	}
	if snap.Version != SnapshotVersion || snap.Fingerprint != fingerprint {
		logger.Debug().
			Int("version", snap.Version).
			Bool("fingerprintMatch", snap.Fingerprint == fingerprint).
			Msg("Discarding incompatible cache snapshot")
		return c, nil
	}

	// Insert in sorted order so the LRU contents do not depend on map order.
	paths := make([]string, 0, len(snap.Entries))
	for p := range snap.Entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		e := snap.Entries[p]
		c.entries.Add(p, Entry{
			Hash:        e.Hash,
			Fingerprint: fingerprint,
			Result:      resultOf(e),
		})
	}

	logger.Debug().Str("path", path).Int("entries", c.entries.Len()).Msg("Loaded cache snapshot")
	return c, nil
}

// Save writes the entries computed under fingerprint to path atomically
func (c *Cache) Save(fs types.FS, path, fingerprint string) error {
	snap := snapshot{
		Version:     SnapshotVersion,
		Fingerprint: fingerprint,
		Entries:     make(map[string]snapshotEntry),
	}
	for _, p := range c.entries.Keys() {
		e, ok := c.entries.Peek(p)
		if !ok || e.Fingerprint != fingerprint {
			continue
		}
		snap.Entries[p] = snapshotEntry{
			Hash:       e.Hash,
			Partial:    e.Result.Partial,
			Violations: e.Result.Violations,
		}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, errors.ErrCacheIO, "failed to encode cache snapshot")
	}
	if err := writeAtomic(fs, path, data); err != nil {
		return errors.Wrapf(err, errors.ErrCacheIO, "failed to write cache snapshot %s", path)
	}

	c.logger.Debug().Str("path", path).Int("entries", len(snap.Entries)).Msg("Saved cache snapshot")
	return nil
}

// SnapshotInfo describes a snapshot file without loading its entries
type SnapshotInfo struct {
	Path        string
	Version     int
	Fingerprint string
	Entries     int
	Size        int64
	ModTime     time.Time
}

// Inspect reads the header of the snapshot at path. A missing file is a
// NOT_FOUND error, an unreadable or corrupt one a CACHE_IO error.
func Inspect(fs types.FS, path string) (SnapshotInfo, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return SnapshotInfo{}, errors.Wrapf(err, errors.ErrNotFound, "no cache snapshot at %s", path)
		}
		return SnapshotInfo{}, errors.Wrapf(err, errors.ErrCacheIO, "failed to stat cache snapshot %s", path)
	}
	data, err := fs.ReadFile(path)
	if err != nil {
		return SnapshotInfo{}, errors.Wrapf(err, errors.ErrCacheIO, "failed to read cache snapshot %s", path)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return SnapshotInfo{}, errors.Wrapf(err, errors.ErrCacheIO, "corrupt cache snapshot %s", path)
	}
	return SnapshotInfo{
		Path:        path,
		Version:     snap.Version,
		Fingerprint: snap.Fingerprint,
		Entries:     len(snap.Entries),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
	}, nil
}

// Compatible reports whether a cache loaded with fingerprint would keep
// the snapshot's entries
func (i SnapshotInfo) Compatible(fingerprint string) bool {
	return i.Version == SnapshotVersion && i.Fingerprint == fingerprint
}

// Remove deletes a snapshot file. A missing file is not an error.
func Remove(fs types.FS, path string) error {
	if err := fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrCacheIO, "failed to remove cache snapshot %s", path)
	}
	return nil
}

// writeAtomic writes to a temp file next to path then renames it into place
func writeAtomic(fs types.FS, path string, data []byte) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())
	if err := fs.WriteFile(tmp, data, 0644); err != nil {
		_ = fs.Remove(tmp)
		return err
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return err
	}
	return nil
}

func resultOf(e snapshotEntry) rules.Result {
	return copyResult(rules.Result{Partial: e.Partial, Violations: e.Violations})
}
