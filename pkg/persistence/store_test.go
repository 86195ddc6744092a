package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dtimer-project/dtimer-go/pkg/dispatch"
	"github.com/dtimer-project/dtimer-go/pkg/sched"
	"github.com/dtimer-project/dtimer-go/pkg/timer"
)

func newArmedScheduler(t *testing.T) *sched.Scheduler {
	t.Helper()
	s, err := sched.New(4)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	s.Enable(true)
	id := s.Register(dispatch.Callback(func() {}), 10, true)
	if id == timer.NoTimer {
		t.Fatal("Register() failed")
	}
	if !s.Start(id, false) {
		t.Fatal("Start() failed")
	}
	return s
}

func TestSnapshotStore(t *testing.T) {
	t.Run("LoadMissingFile", func(t *testing.T) {
		store := NewSnapshotStore(filepath.Join(t.TempDir(), "sched.snap"))

		stored, err := store.Load()
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if stored != nil {
			t.Error("expected nil for missing file")
		}
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		store := NewSnapshotStore(filepath.Join(t.TempDir(), "sched.snap"))
		s := newArmedScheduler(t)

		if err := store.Save(s.Snapshot()); err != nil {
			t.Fatalf("Save() failed: %v", err)
		}

		stored, err := store.Load()
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if stored == nil {
			t.Fatal("Load() returned nil")
		}
		if stored.Version != StoreVersion {
			t.Errorf("expected version %d, got %d", StoreVersion, stored.Version)
		}
		if stored.SavedAt.IsZero() {
			t.Error("expected SavedAt to be set")
		}
		if stored.Snapshot.Capacity != 4 {
			t.Errorf("expected capacity 4, got %d", stored.Snapshot.Capacity)
		}
		if stored.Snapshot.Registered != 1 {
			t.Errorf("expected 1 registered slot, got %d", stored.Snapshot.Registered)
		}
	})

	t.Run("RestoreIntoScheduler", func(t *testing.T) {
		store := NewSnapshotStore(filepath.Join(t.TempDir(), "sched.snap"))
		s := newArmedScheduler(t)

		if err := store.Save(s.Snapshot()); err != nil {
			t.Fatalf("Save() failed: %v", err)
		}

		stored, err := store.Load()
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}

		fresh, err := sched.New(4)
		if err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		if err := fresh.RestoreSnapshot(stored.Snapshot); err != nil {
			t.Fatalf("RestoreSnapshot() failed: %v", err)
		}
		if !fresh.HasActiveTimer() {
			t.Fatal("expected an active timer after restore")
		}
		if next := fresh.TimeToNext(); next != 10 {
			t.Errorf("expected 10 ticks to next expiry, got %d", next)
		}
	})

	t.Run("CreatesParentDirectory", func(t *testing.T) {
		store := NewSnapshotStore(filepath.Join(t.TempDir(), "nested", "dir", "sched.snap"))
		s := newArmedScheduler(t)

		if err := store.Save(s.Snapshot()); err != nil {
			t.Fatalf("Save() failed: %v", err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		store := NewSnapshotStore(filepath.Join(t.TempDir(), "sched.snap"))
		s := newArmedScheduler(t)

		if err := store.Save(s.Snapshot()); err != nil {
			t.Fatalf("Save() failed: %v", err)
		}
		if err := store.Clear(); err != nil {
			t.Fatalf("Clear() failed: %v", err)
		}

		stored, err := store.Load()
		if err != nil {
			t.Fatalf("Load() after Clear() failed: %v", err)
		}
		if stored != nil {
			t.Error("expected nil after Clear()")
		}
	})

	t.Run("ClearMissingFile", func(t *testing.T) {
		store := NewSnapshotStore(filepath.Join(t.TempDir(), "sched.snap"))
		if err := store.Clear(); err != nil {
			t.Fatalf("Clear() on missing file failed: %v", err)
		}
	})

	t.Run("LoadGarbage", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sched.snap")
		store := NewSnapshotStore(path)

		if err := os.WriteFile(path, []byte("not a snapshot"), 0644); err != nil {
			t.Fatalf("failed to write garbage: %v", err)
		}
		if _, err := store.Load(); err == nil {
			t.Error("expected error for garbage file")
		}
	})
}
