package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPollingDetectsChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "topology.json")
	writeTestFile(t, path, `{"nodes": [], "edges": []}`)

	var changes atomic.Int32
	w, err := New(path,
		WithForcePoll(true),
		WithPollInterval(20*time.Millisecond),
		WithDebounceDuration(10*time.Millisecond),
		WithOnChange(func() { changes.Add(1) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("forced poll mode not active")
	}

	// mtime granularity on some filesystems is one second; changing the
	// size guarantees detection.
	time.Sleep(50 * time.Millisecond)
	writeTestFile(t, path, `{"nodes": [{"id": "n1", "kind": "host"}], "edges": []}`)

	select {
	case <-w.Changed():
	case <-time.After(2 * time.Second):
		t.Fatal("no change signal within 2s")
	}
	if changes.Load() == 0 {
		t.Error("OnChange callback never ran")
	}
}

func TestRemovalReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "topology.json")
	writeTestFile(t, path, `{}`)

	errCh := make(chan error, 4)
	w, err := New(path,
		WithForcePoll(true),
		WithPollInterval(20*time.Millisecond),
		WithOnError(func(err error) {
			select {
			case errCh <- err:
			default:
			}
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-errCh:
		if got != ErrFileRemoved {
			t.Errorf("error = %v, want ErrFileRemoved", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("removal never reported")
	}
}

func TestDoubleStartRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.json")
	writeTestFile(t, path, `{}`)

	w, err := New(path, WithForcePoll(true))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := w.Start(); err != ErrAlreadyStarted {
		t.Errorf("second start = %v, want ErrAlreadyStarted", err)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.json")
	writeTestFile(t, path, `{}`)

	w, err := New(path, WithForcePoll(true))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()

	if w.IsStarted() {
		t.Error("watcher still marked started after Stop")
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	var runs atomic.Int32
	db := newDebouncer(30 * time.Millisecond)

	for i := 0; i < 5; i++ {
		db.trigger(func() { runs.Add(1) })
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Errorf("debounced runs = %d, want 1", got)
	}
}

func TestWatchMissingFileThenCreate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "later.json")

	w, err := New(path,
		WithForcePoll(true),
		WithPollInterval(20*time.Millisecond),
		WithDebounceDuration(10*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	writeTestFile(t, path, `{"nodes": []}`)

	select {
	case <-w.Changed():
	case <-time.After(2 * time.Second):
		t.Fatal("creation of watched file never signaled")
	}
}
