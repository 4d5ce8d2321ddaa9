// pkg/watch/fsnotify_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem, fsnotify
// PURPOSE: Test translation of file system notifications into events

package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/codeguard/pkg/watch"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, events <-chan watch.Event, match func(watch.Event) bool) watch.Event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event channel closed")
			if match(ev) {
				return ev
			}
		case <-timeout:
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestFSSource_ReportsChanges(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "vendor"), 0755))

	src, err := watch.NewFSSource(root, []string{"vendor"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go src.Start(ctx)

	file := filepath.Join(root, "a.go")
	require.NoError(t, os.WriteFile(file, []byte("package a\n"), 0644))
	waitFor(t, src.Events(), func(ev watch.Event) bool {
		return ev.Path == file && ev.Kind == watch.EventCreate
	})

	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	waitFor(t, src.Events(), func(ev watch.Event) bool { return ev.Path == sub })

	// Files in a directory created after start are seen too.
	nested := filepath.Join(sub, "b.go")
	require.NoError(t, os.WriteFile(nested, []byte("package sub\n"), 0644))
	waitFor(t, src.Events(), func(ev watch.Event) bool { return ev.Path == nested })

	require.NoError(t, os.WriteFile(filepath.Join(root, "vendor", "x.go"), []byte("package x\n"), 0644))
	require.NoError(t, os.Remove(file))
	ev := waitFor(t, src.Events(), func(ev watch.Event) bool { return ev.Kind == watch.EventRemove })
	require.Equal(t, file, ev.Path, "ignored directories produce no events")
}

func TestFSSource_MissingRoot(t *testing.T) {
	_, err := watch.NewFSSource(filepath.Join(t.TempDir(), "nope"), nil)
	require.Error(t, err)
}
