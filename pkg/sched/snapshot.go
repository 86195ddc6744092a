package sched

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/dtimer-project/dtimer-go/pkg/timer"
)

// Snapshot errors.
var (
	ErrSnapshotCapacity = errors.New("sched: snapshot capacity does not match scheduler capacity")
	ErrSnapshotCorrupt  = errors.New("sched: corrupt snapshot")
)

// snapEncMode is the CBOR encoder mode for snapshots. Deterministic
// encoding so identical scheduler states produce identical bytes.
var snapEncMode cbor.EncMode

// snapDecMode is the CBOR decoder mode for snapshots.
var snapDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	snapEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}
	snapDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR decoder mode: %v", err))
	}
}

// SlotSnapshot is the serializable scheduling state of one pool slot.
// Dispatch targets are not captured; they are not data.
type SlotSnapshot struct {
	ID        uint8  `cbor:"1,keyasint"`
	Period    uint32 `cbor:"2,keyasint"`
	Delta     uint32 `cbor:"3,keyasint"`
	Repeating bool   `cbor:"4,keyasint"`
	Prev      uint8  `cbor:"5,keyasint"`
	Next      uint8  `cbor:"6,keyasint"`
}

// Snapshot is the full serializable state of a scheduler's arena. Because
// the active list is threaded by slot index rather than pointers, the
// snapshot is position-independent and can be restored into any scheduler
// of the same capacity.
type Snapshot struct {
	Capacity   int            `cbor:"1,keyasint"`
	Head       uint8          `cbor:"2,keyasint"`
	Tail       uint8          `cbor:"3,keyasint"`
	Registered int            `cbor:"4,keyasint"`
	Enabled    bool           `cbor:"5,keyasint"`
	Slots      []SlotSnapshot `cbor:"6,keyasint"`
}

// Snapshot captures the scheduler's scheduling state under the guard.
// Targets and hooks are not part of the snapshot.
func (s *Scheduler) Snapshot() Snapshot {
	s.g.Enter()
	defer s.g.Leave()

	snap := Snapshot{
		Capacity:   len(s.records),
		Head:       uint8(s.list.head),
		Tail:       uint8(s.list.tail),
		Registered: s.registered,
		Enabled:    s.enabled.Load(),
		Slots:      make([]SlotSnapshot, len(s.records)),
	}
	for i := range s.records {
		rec := &s.records[i]
		snap.Slots[i] = SlotSnapshot{
			ID:        uint8(rec.id),
			Period:    uint32(rec.period),
			Delta:     uint32(rec.delta),
			Repeating: rec.repeating,
			Prev:      uint8(rec.prev),
			Next:      uint8(rec.next),
		}
	}
	return snap
}

// RestoreSnapshot overwrites the scheduler's scheduling state from a
// snapshot taken from a scheduler of the same capacity. Slot targets are
// left as currently registered; a restored slot with no target dispatches
// as a no-op.
//
// The snapshot's arena links are validated first. A snapshot with
// out-of-range indices or an inconsistent chain, as a corrupt or
// hand-edited file can carry, is rejected with ErrSnapshotCorrupt and
// the scheduler is left unchanged.
func (s *Scheduler) RestoreSnapshot(snap Snapshot) error {
	if snap.Capacity != len(s.records) || len(snap.Slots) != len(s.records) {
		return ErrSnapshotCapacity
	}
	if err := snap.validate(); err != nil {
		return err
	}

	s.g.Enter()
	defer s.g.Leave()

	for i := range s.records {
		rec := &s.records[i]
		slot := snap.Slots[i]
		rec.id = timer.ID(slot.ID)
		rec.period = timer.Ticks(slot.Period)
		rec.delta = timer.Ticks(slot.Delta)
		rec.repeating = slot.Repeating
		rec.prev = timer.ID(slot.Prev)
		rec.next = timer.ID(slot.Next)
	}
	s.list.head = timer.ID(snap.Head)
	s.list.tail = timer.ID(snap.Tail)
	s.registered = snap.Registered
	s.enabled.Store(snap.Enabled)
	return nil
}

// validate checks the snapshot's arena links before they are trusted:
// every index in range, prev/next symmetric along the chain, head
// reaching tail without cycles, armed slots exactly the chained ones,
// and the registered count agreeing with the pool.
func (snap Snapshot) validate() error {
	capacity := len(snap.Slots)
	noSlot := uint8(timer.NoTimer)
	inRange := func(id uint8) bool { return id == noSlot || int(id) < capacity }

	if !inRange(snap.Head) || !inRange(snap.Tail) {
		return fmt.Errorf("%w: list bounds out of range", ErrSnapshotCorrupt)
	}
	if (snap.Head == noSlot) != (snap.Tail == noSlot) {
		return fmt.Errorf("%w: half-empty list bounds", ErrSnapshotCorrupt)
	}

	registered := 0
	for i, slot := range snap.Slots {
		if slot.ID != noSlot {
			if int(slot.ID) != i {
				return fmt.Errorf("%w: slot %d carries id %d", ErrSnapshotCorrupt, i, slot.ID)
			}
			registered++
		}
		if !inRange(slot.Prev) || !inRange(slot.Next) {
			return fmt.Errorf("%w: slot %d links out of range", ErrSnapshotCorrupt, i)
		}
	}
	if registered != snap.Registered {
		return fmt.Errorf("%w: registered count is %d, pool has %d", ErrSnapshotCorrupt, snap.Registered, registered)
	}

	chained := make([]bool, capacity)
	prev := noSlot
	seen := 0
	for id := snap.Head; id != noSlot; id = snap.Slots[id].Next {
		if seen++; seen > capacity {
			return fmt.Errorf("%w: active list cycles", ErrSnapshotCorrupt)
		}
		slot := snap.Slots[id]
		if slot.ID == noSlot {
			return fmt.Errorf("%w: free slot %d is chained", ErrSnapshotCorrupt, id)
		}
		if slot.Prev != prev {
			return fmt.Errorf("%w: slot %d prev is %d, want %d", ErrSnapshotCorrupt, id, slot.Prev, prev)
		}
		if timer.Ticks(slot.Delta) == timer.TicksInactive {
			return fmt.Errorf("%w: chained slot %d is marked inactive", ErrSnapshotCorrupt, id)
		}
		if slot.Period == 0 && slot.Repeating {
			return fmt.Errorf("%w: chained slot %d repeats with zero period", ErrSnapshotCorrupt, id)
		}
		chained[id] = true
		prev = id
	}
	if snap.Tail != prev {
		return fmt.Errorf("%w: tail is %d, chain ends at %d", ErrSnapshotCorrupt, snap.Tail, prev)
	}

	for i, slot := range snap.Slots {
		if !chained[i] && slot.ID != noSlot && timer.Ticks(slot.Delta) != timer.TicksInactive {
			return fmt.Errorf("%w: armed slot %d is not chained", ErrSnapshotCorrupt, i)
		}
	}
	return nil
}

// EncodeSnapshot writes a snapshot to w in CBOR.
func EncodeSnapshot(w io.Writer, snap Snapshot) error {
	data, err := snapEncMode.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// DecodeSnapshot reads a CBOR snapshot from r.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := snapDecMode.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
