package event

import (
	"testing"

	"github.com/san-kum/harddisk-md/internal/particle"
)

func TestIsValid(t *testing.T) {
	a := particle.New(0, 0, 1, 0, 0.1, 1)
	b := particle.New(1, 0, -1, 0, 0.1, 1)

	e := New(PairCollision, 1.0, a, b)
	if !e.IsValid() {
		t.Fatal("freshly created event should be valid")
	}

	a.CollisionCount++
	if e.IsValid() {
		t.Fatal("event should be stale once a's collision count changes")
	}
}

func TestIsValid_UnsetSlotIgnoresParticipant(t *testing.T) {
	a := particle.New(0, 0, 1, 0, 0.1, 1)
	e := New(VerticalWall, 1.0, a, nil)
	if !e.IsValid() {
		t.Fatal("expected valid event with nil b slot")
	}
}

func TestQueue_OrdersByTimeThenInsertion(t *testing.T) {
	q := NewQueue()
	q.Push(New(Frame, 3.0, nil, nil))
	q.Push(New(Frame, 1.0, nil, nil))
	q.Push(New(Frame, 2.0, nil, nil))
	q.Push(New(Frame, 1.0, nil, nil))

	var times []float64
	for q.Len() > 0 {
		times = append(times, q.Pop().Time)
	}

	want := []float64{1.0, 1.0, 2.0, 3.0}
	for i, w := range want {
		if times[i] != w {
			t.Fatalf("pop order = %v, want %v", times, want)
		}
	}
}

func TestQueue_CompactDropsStale(t *testing.T) {
	a := particle.New(0, 0, 0, 0, 0.1, 1)
	q := NewQueue()
	stale := New(PairCollision, 1.0, a, nil)
	q.Push(stale)
	a.CollisionCount++
	q.Push(New(PairCollision, 2.0, a, nil))

	dropped := q.Compact()
	if dropped != 1 {
		t.Fatalf("Compact() dropped = %d, want 1", dropped)
	}
	if q.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", q.Len())
	}
}
