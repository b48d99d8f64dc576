// Package event defines the tagged occurrences the collision scheduler
// orders by time, and the stale-event invalidation scheme used to discard
// events whose participants have collided again since the event was
// enqueued.
package event

import "github.com/san-kum/harddisk-md/internal/particle"

// Kind identifies which of the four event variants an Event carries.
type Kind int

const (
	// PairCollision fires when two particles are predicted to touch.
	PairCollision Kind = iota
	// VerticalWall fires when a particle is predicted to reach a
	// left/right box face.
	VerticalWall
	// HorizontalWall fires when a particle is predicted to reach a
	// top/bottom box face.
	HorizontalWall
	// Frame is a non-physical periodic tick that paces renderer output.
	Frame
)

// unsetStamp marks a stamp slot as unused, matching the -1 sentinel used
// by the invalidation scheme for events that reference no particle in that
// slot (e.g. b in a wall event, or both slots in a Frame event).
const unsetStamp = -1

// Event is a single scheduled occurrence. Pair/wall events reference one
// or two particles by pointer and stamp each with that particle's
// CollisionCount at enqueue time; a mismatch at pop time means the event
// is stale and must be discarded without effect.
type Event struct {
	Kind Kind
	Time float64

	A, B   *particle.Particle
	stampA int
	stampB int
}

// New constructs an event of the given kind at time t, referencing a and/or
// b as required by kind (either may be nil). The current collision counts
// of a and b are captured immediately.
func New(kind Kind, t float64, a, b *particle.Particle) *Event {
	e := &Event{Kind: kind, Time: t, A: a, B: b}
	if a != nil {
		e.stampA = a.CollisionCount
	} else {
		e.stampA = unsetStamp
	}
	if b != nil {
		e.stampB = b.CollisionCount
	} else {
		e.stampB = unsetStamp
	}
	return e
}

// IsValid reports whether every particle this event references still has
// the collision count it had when the event was enqueued.
func (e *Event) IsValid() bool {
	if e.A != nil && e.A.CollisionCount != e.stampA {
		return false
	}
	if e.B != nil && e.B.CollisionCount != e.stampB {
		return false
	}
	return true
}
