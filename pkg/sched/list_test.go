package sched

import (
	"testing"

	"github.com/dtimer-project/dtimer-go/pkg/timer"
)

// newTestList builds a pool of n registered records and a list over it.
func newTestList(n int) ([]record, *deltaList) {
	records := make([]record, n)
	for i := range records {
		records[i].reset()
		records[i].id = timer.ID(i)
	}
	l := newDeltaList(records)
	return records, &l
}

// arm primes a record with remaining ticks and inserts it.
func arm(l *deltaList, records []record, id timer.ID, remaining timer.Ticks) {
	records[id].delta = remaining
	l.insert(id)
}

func deltas(l *deltaList) []timer.Ticks {
	var out []timer.Ticks
	for id := l.head; id != timer.NoTimer; id = l.records[id].next {
		out = append(out, l.records[id].delta)
	}
	return out
}

func order(l *deltaList) []timer.ID {
	var out []timer.ID
	for id := l.head; id != timer.NoTimer; id = l.records[id].next {
		out = append(out, id)
	}
	return out
}

func TestListInsertEncodesDeltas(t *testing.T) {
	records, l := newTestList(4)

	// Remaining times 10, 4, 7 inserted out of order.
	arm(l, records, 0, 10)
	arm(l, records, 1, 4)
	arm(l, records, 2, 7)

	wantOrder := []timer.ID{1, 2, 0}
	wantDeltas := []timer.Ticks{4, 3, 3}

	gotOrder := order(l)
	gotDeltas := deltas(l)
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("order = %v, want %v", gotOrder, wantOrder)
		}
		if gotDeltas[i] != wantDeltas[i] {
			t.Fatalf("deltas = %v, want %v", gotDeltas, wantDeltas)
		}
	}

	if l.head != 1 || l.tail != 0 {
		t.Errorf("head/tail = %d/%d, want 1/0", l.head, l.tail)
	}
}

func TestListTieBreakLastArmedFirst(t *testing.T) {
	records, l := newTestList(3)

	arm(l, records, 0, 5)
	arm(l, records, 1, 5)

	// The later-armed timer must sort before the equal-expiry one.
	got := order(l)
	if got[0] != 1 || got[1] != 0 {
		t.Errorf("order = %v, want [1 0]", got)
	}
	if records[1].delta != 5 || records[0].delta != 0 {
		t.Errorf("deltas = [%d %d], want [5 0] after tie insert", records[1].delta, records[0].delta)
	}
}

func TestListManualRemoveCompensatesSuccessor(t *testing.T) {
	records, l := newTestList(3)

	arm(l, records, 0, 3)
	arm(l, records, 1, 8)
	arm(l, records, 2, 12)
	// Encoded deltas: 3, 5, 4.

	l.remove(1, false)

	// The removed delta folds into the successor: 3, 9.
	got := deltas(l)
	if len(got) != 2 || got[0] != 3 || got[1] != 9 {
		t.Errorf("deltas after manual remove = %v, want [3 9]", got)
	}
	if records[1].active() {
		t.Error("removed record still marked active")
	}
	if records[1].prev != timer.NoTimer || records[1].next != timer.NoTimer {
		t.Error("removed record still linked")
	}
}

func TestListExpiredRemoveSkipsCompensation(t *testing.T) {
	records, l := newTestList(2)

	arm(l, records, 0, 3)
	arm(l, records, 1, 8)
	// Encoded deltas: 3, 5.

	// Expiry removal: the caller consumed the head's delta already.
	l.remove(0, true)

	got := deltas(l)
	if len(got) != 1 || got[0] != 5 {
		t.Errorf("deltas after expired remove = %v, want [5]", got)
	}
	if l.head != 1 || l.tail != 1 {
		t.Errorf("head/tail = %d/%d, want 1/1", l.head, l.tail)
	}
}

func TestListRemoveHeadAndTail(t *testing.T) {
	records, l := newTestList(3)

	arm(l, records, 0, 1)
	arm(l, records, 1, 2)
	arm(l, records, 2, 3)

	l.remove(0, false)
	if l.head != 1 {
		t.Errorf("head = %d after head removal, want 1", l.head)
	}

	l.remove(2, false)
	if l.tail != 1 {
		t.Errorf("tail = %d after tail removal, want 1", l.tail)
	}

	l.remove(1, false)
	if !l.empty() {
		t.Error("list not empty after removing every entry")
	}
}

func TestListClear(t *testing.T) {
	records, l := newTestList(3)

	arm(l, records, 0, 1)
	arm(l, records, 1, 2)
	arm(l, records, 2, 3)

	l.clear()

	if !l.empty() {
		t.Error("list not empty after clear")
	}
	for i := range records {
		if records[i].active() {
			t.Errorf("record %d still active after clear", i)
		}
	}
}

func TestListAppendAtTail(t *testing.T) {
	records, l := newTestList(2)

	arm(l, records, 0, 2)
	arm(l, records, 1, 9)

	got := deltas(l)
	if len(got) != 2 || got[0] != 2 || got[1] != 7 {
		t.Errorf("deltas = %v, want [2 7]", got)
	}
	if l.tail != 1 {
		t.Errorf("tail = %d, want 1", l.tail)
	}
}
