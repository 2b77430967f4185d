package gamekit

// QueueEntry is time-based work driven by the scheduler: tweens, waits,
// timers, sprite animations and camera scrolls. Update receives the frame's
// run time in milliseconds. Once Finished reports true the entry is dropped
// on the next scan and never updated again.
type QueueEntry interface {
	Update(now float64)
	Finished() bool
}

// TweenQueue is the ordered set of in-flight queue entries owned by a Core.
// It is only touched from the frame loop.
type TweenQueue struct {
	entries  []QueueEntry
	scanning bool
}

// Add appends an entry. Entries added while the queue is being scanned are
// first updated on the following frame.
func (q *TweenQueue) Add(e QueueEntry) {
	q.entries = append(q.entries, e)
}

// Remove drops e from the queue and reports whether it was present. During a
// scan the slot is cleared and compacted once the scan ends.
func (q *TweenQueue) Remove(e QueueEntry) bool {
	for i, x := range q.entries {
		if x != e {
			continue
		}
		if q.scanning {
			q.entries[i] = nil
		} else {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
		}
		return true
	}
	return false
}

// Contains reports whether e is queued.
func (q *TweenQueue) Contains(e QueueEntry) bool {
	for _, x := range q.entries {
		if x == e {
			return true
		}
	}
	return false
}

// Len returns the number of queued entries, finished or not.
func (q *TweenQueue) Len() int {
	n := 0
	for _, x := range q.entries {
		if x != nil {
			n++
		}
	}
	return n
}

// scan walks the entries present when it starts, back to front. Finished
// entries are dropped without an update. update is the per-entry call and
// lets the Core wrap it in a panic guard.
func (q *TweenQueue) scan(now float64, update func(QueueEntry, float64)) {
	q.scanning = true
	defer q.compact()
	for i := len(q.entries) - 1; i >= 0; i-- {
		e := q.entries[i]
		if e == nil {
			continue
		}
		if e.Finished() {
			q.entries[i] = nil
			continue
		}
		update(e, now)
	}
}

// compact removes the slots cleared during a scan, keeping order.
func (q *TweenQueue) compact() {
	q.scanning = false
	keep := 0
	for _, e := range q.entries {
		if e != nil {
			q.entries[keep] = e
			keep++
		}
	}
	clear(q.entries[keep:])
	q.entries = q.entries[:keep]
}
