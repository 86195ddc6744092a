package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/dtimer-project/dtimer-go/pkg/sched"
)

// StoreVersion is the current version of the snapshot file format.
const StoreVersion = 1

// StoredSnapshot wraps a scheduler snapshot with file metadata.
type StoredSnapshot struct {
	// Version is the snapshot file format version.
	Version int `cbor:"1,keyasint"`

	// SavedAt is when the snapshot was saved.
	SavedAt time.Time `cbor:"2,keyasint"`

	// Snapshot is the scheduler's scheduling state.
	Snapshot sched.Snapshot `cbor:"3,keyasint"`
}

var storeEncMode cbor.EncMode
var storeDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	storeEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot store CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}
	storeDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot store CBOR decoder mode: %v", err))
	}
}

// SnapshotStore manages persistence of a scheduler snapshot to a CBOR file.
type SnapshotStore struct {
	mu   sync.Mutex
	path string
}

// NewSnapshotStore creates a new snapshot store.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Save persists the snapshot to disk.
func (s *SnapshotStore) Save(snap sched.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	stored := StoredSnapshot{
		Version:  StoreVersion,
		SavedAt:  time.Now(),
		Snapshot: snap,
	}

	data, err := storeEncMode.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	return os.WriteFile(s.path, data, 0644)
}

// Load reads the snapshot from disk.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *SnapshotStore) Load() (*StoredSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	stored := &StoredSnapshot{}
	if err := storeDecMode.Unmarshal(data, stored); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if stored.Version != StoreVersion {
		return nil, fmt.Errorf("unsupported snapshot file version %d", stored.Version)
	}

	return stored, nil
}

// Clear removes the snapshot file.
func (s *SnapshotStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
