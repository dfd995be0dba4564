package category

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "categories.yaml")
	if err := os.WriteFile(path, []byte("sections:\n  \"7\": article\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Watch(ctx, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}()

	// Give the watcher a moment to register before the write.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("sections:\n  \"7\": video\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if s.Classify("7") == Video {
			cancel()
			<-done
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("mapping was not reloaded after file write")
}

func TestWatchWithoutPathWaitsForCancel(t *testing.T) {
	s, err := NewStore("")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Watch(ctx, slog.New(slog.NewTextHandler(os.Stderr, nil))); err != nil {
		t.Fatalf("Watch: %v", err)
	}
}
