package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_RebuildsOnInputWrite(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "info.html")
	require.NoError(t, os.WriteFile(input, []byte("v1"), 0o644))

	rebuilt := make(chan struct{}, 1)
	w, err := New(input, func() {
		select {
		case rebuilt <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(input, []byte("v2"), 0o644))

	select {
	case <-rebuilt:
	case <-time.After(5 * time.Second):
		t.Fatal("rebuild was not triggered")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "info.html")
	require.NoError(t, os.WriteFile(input, []byte("v1"), 0o644))

	rebuilt := make(chan struct{}, 1)
	w, err := New(input, func() {
		select {
		case rebuilt <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	select {
	case <-rebuilt:
		t.Fatal("rebuild triggered by unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}
