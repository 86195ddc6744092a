package sched

import "github.com/dtimer-project/dtimer-go/pkg/timer"

// deltaList is the active-timer list: an intrusive doubly linked list
// threaded through the pool by slot index, ordered by expiry and
// delta-encoded. The record at the head stores its full remaining ticks;
// every other record stores only the ticks between it and its predecessor.
type deltaList struct {
	head timer.ID
	tail timer.ID

	// The pool the list is threaded through.
	records []record
}

func newDeltaList(records []record) deltaList {
	return deltaList{
		head:    timer.NoTimer,
		tail:    timer.NoTimer,
		records: records,
	}
}

// empty reports whether no timer is armed.
func (l *deltaList) empty() bool {
	return l.head == timer.NoTimer
}

// front returns the record due soonest. Callers must check empty first.
func (l *deltaList) front() *record {
	return &l.records[l.head]
}

// insert places id at its delta position. The record's delta holds its
// full remaining ticks on entry and its encoded delta on return.
//
// Walking from the head, the new record is placed before the first entry
// whose encoded delta is >= the new record's remaining delta. Using <= for
// the comparison (rather than <) makes a timer armed at an exact tie sort
// before the existing entry, so the last-armed timer dispatches first.
func (l *deltaList) insert(id timer.ID) {
	rec := &l.records[id]

	if l.head == timer.NoTimer {
		l.head = id
		l.tail = id
		rec.prev = timer.NoTimer
		rec.next = timer.NoTimer
		return
	}

	for testID := l.head; testID != timer.NoTimer; testID = l.records[testID].next {
		test := &l.records[testID]

		if rec.delta <= test.delta {
			// Insert before test.
			if testID == l.head {
				l.head = id
			}
			rec.prev = test.prev
			test.prev = id
			rec.next = testID

			// Restore the encoding for the displaced entry.
			test.delta -= rec.delta

			if rec.prev != timer.NoTimer {
				l.records[rec.prev].next = id
			}
			return
		}

		rec.delta -= test.delta
	}

	// Later than everything armed: append at the tail.
	l.records[l.tail].next = id
	rec.prev = l.tail
	rec.next = timer.NoTimer
	l.tail = id
}

// remove unlinks id. When the removal is not an expiry, the removed delta
// is folded into the successor so the remaining encoding stays correct;
// an expired head's delta has already been consumed from the elapsed
// count by the caller.
func (l *deltaList) remove(id timer.ID, hasExpired bool) {
	rec := &l.records[id]

	if l.head == id {
		l.head = rec.next
	} else {
		l.records[rec.prev].next = rec.next
	}

	if l.tail == id {
		l.tail = rec.prev
	} else {
		l.records[rec.next].prev = rec.prev
	}

	if !hasExpired && rec.next != timer.NoTimer {
		l.records[rec.next].delta += rec.delta
	}

	rec.prev = timer.NoTimer
	rec.next = timer.NoTimer
	rec.setInactive()
}

// clear unlinks every armed timer. No encoding is preserved; everything
// is being discarded.
func (l *deltaList) clear() {
	id := l.head
	for id != timer.NoTimer {
		rec := &l.records[id]
		id = rec.next
		rec.prev = timer.NoTimer
		rec.next = timer.NoTimer
		rec.setInactive()
	}

	l.head = timer.NoTimer
	l.tail = timer.NoTimer
}
