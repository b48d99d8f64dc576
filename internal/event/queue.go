package event

import "container/heap"

// Queue is a min-priority queue of Events ordered by Time ascending, with
// ties broken by insertion sequence so that ordering is deterministic
// per run. Pop does not check staleness: the collision system drops stale
// events lazily as they reach the head, and only an explicit Compact call
// removes them in bulk.
type Queue struct {
	h innerHeap
	n uint64
}

// NewQueue returns an empty event queue.
func NewQueue() *Queue {
	q := &Queue{}
	heap.Init(&q.h)
	return q
}

// Push inserts e into the queue.
func (q *Queue) Push(e *Event) {
	q.n++
	heap.Push(&q.h, &entry{event: e, seq: q.n})
}

// Pop removes and returns the earliest-scheduled event. It panics if the
// queue is empty; callers must check Len first.
func (q *Queue) Pop() *Event {
	return heap.Pop(&q.h).(*entry).event
}

// Peek returns the earliest-scheduled event without removing it.
func (q *Queue) Peek() *Event {
	return q.h[0].event
}

// Len reports the number of entries currently queued, including any that
// are already stale.
func (q *Queue) Len() int { return len(q.h) }

// Reset discards every queued entry.
func (q *Queue) Reset() {
	q.h = q.h[:0]
}

// Compact drops every entry that is currently stale. It is O(n) and is
// meant to be called at most once per frame boundary as a memory bound on
// long runs with heavy re-prediction traffic; ordinary operation relies on
// lazy invalidation at Pop time instead.
func (q *Queue) Compact() (dropped int) {
	kept := q.h[:0]
	for _, en := range q.h {
		if en.event.IsValid() {
			kept = append(kept, en)
		} else {
			dropped++
		}
	}
	q.h = kept
	heap.Init(&q.h)
	return dropped
}

type entry struct {
	event *Event
	seq   uint64
}

type innerHeap []*entry

func (h innerHeap) Len() int { return len(h) }

func (h innerHeap) Less(i, j int) bool {
	if h[i].event.Time != h[j].event.Time {
		return h[i].event.Time < h[j].event.Time
	}
	return h[i].seq < h[j].seq
}

func (h innerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *innerHeap) Push(x any) {
	*h = append(*h, x.(*entry))
}

func (h *innerHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
