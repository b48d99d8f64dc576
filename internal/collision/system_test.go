package collision

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/harddisk-md/internal/box"
	"github.com/san-kum/harddisk-md/internal/event"
	"github.com/san-kum/harddisk-md/internal/logx"
	"github.com/san-kum/harddisk-md/internal/particle"
)

func almostEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func newTestSystem(ps []*particle.Particle, side float64, cfg Config) *System {
	b := box.New(side)
	s := New(ps, b, cfg, logx.Discard(), rand.New(rand.NewSource(1)))
	s.Init()
	return s
}

// Scenario 1: two particles, unit mass, r=0.01, head-on collision.
func TestScenario_TwoParticleHeadOnCollision(t *testing.T) {
	a := particle.New(0.25, 0.5, 0.1, 0, 0.01, 1)
	b := particle.New(0.75, 0.5, -0.1, 0, 0.01, 1)
	sys := newTestSystem([]*particle.Particle{a, b}, 1.0, Config{Friction: 1.0, Hz: 2})

	var collided bool
	for i := 0; i < 100 && !collided; i++ {
		e, ok := sys.applyOne()
		if !ok {
			break
		}
		if e.Kind == event.PairCollision {
			collided = true
		}
	}

	if !collided {
		t.Fatal("expected a collision to occur")
	}
	if !almostEqual(sys.Time(), 2.4, 1e-6) {
		t.Fatalf("collision time = %v, want 2.4", sys.Time())
	}
	if !almostEqual(a.VX, -0.1, 1e-9) || !almostEqual(b.VX, 0.1, 1e-9) {
		t.Fatalf("post-collision velocities = (%v, %v), want (-0.1, 0.1)", a.VX, b.VX)
	}
}

// Scenario 2: single particle hits a vertical wall.
func TestScenario_SingleParticleWallHit(t *testing.T) {
	p := particle.New(0.5, 0.5, 0.2, 0, 0.05, 1)
	sys := newTestSystem([]*particle.Particle{p}, 1.0, Config{Friction: 1.0, Hz: 2})

	var hit bool
	for i := 0; i < 100 && !hit; i++ {
		e, ok := sys.applyOne()
		if !ok {
			break
		}
		hit = e.Kind == event.VerticalWall
	}

	if !hit {
		t.Fatal("expected a wall collision")
	}
	if !almostEqual(sys.Time(), 2.25, 1e-6) {
		t.Fatalf("collision time = %v, want 2.25", sys.Time())
	}
	if !almostEqual(p.VX, -0.2, 1e-9) {
		t.Fatalf("post-collision VX = %v, want -0.2", p.VX)
	}
}

// Scenario 3: empty particle list produces only Frame events.
func TestScenario_EmptyParticleList(t *testing.T) {
	sys := newTestSystem(nil, 1.0, Config{Friction: 1.0, Hz: 10})

	for i := 0; i < 20; i++ {
		snap, ok := sys.Tick()
		if !ok {
			t.Fatal("queue should never empty out with only Frame events scheduled")
		}
		if len(snap.Particles) != 0 {
			t.Fatal("expected no particles in snapshot")
		}
	}
	if sys.collisionsTotal != 0 {
		t.Fatalf("collisionsTotal = %d, want 0", sys.collisionsTotal)
	}
}

// Scenario 4: an already-overlapping pair never gets a collision scheduled.
func TestScenario_OverlappingPairNeverScheduled(t *testing.T) {
	a := particle.New(0.5, 0.5, 0, 0, 0.5, 1)
	b := particle.New(0.75, 0.5, 0, 0, 0.5, 1) // distance 0.25, sigma 1.0
	sys := newTestSystem([]*particle.Particle{a, b}, 4.0, Config{Friction: 1.0, Hz: 2})

	for i := 0; i < sys.queue.Len(); i++ {
		e := sys.queue.Peek()
		if e.Kind == event.PairCollision {
			t.Fatal("expected no PairCollision event for an overlapping pair")
		}
		sys.queue.Pop()
	}
}

// Scenario 5: an expanding box never schedules a wall event for a
// stationary particle.
func TestScenario_ExpandingBoxStationaryParticle(t *testing.T) {
	p := particle.New(0.5, 0.5, 0, 0, 0.05, 1)
	b := box.New(1.0)
	b.Speed = 0.1
	sys := New([]*particle.Particle{p}, b, Config{Friction: 1.0, Hz: 2}, logx.Discard(), rand.New(rand.NewSource(1)))
	sys.Init()

	for sys.queue.Len() > 0 {
		e := sys.queue.Pop()
		if e.Kind == event.VerticalWall || e.Kind == event.HorizontalWall {
			t.Fatal("expected no wall event for a stationary particle in an expanding box")
		}
	}
}

// Scenario 6: a moving-wall reflection combines the wall's velocity.
func TestScenario_MovingWallReflection(t *testing.T) {
	p := particle.New(0.9, 0.5, 0.3, 0, 0.05, 1)
	b := box.New(1.0)
	b.Speed = 0.1
	sys := New([]*particle.Particle{p}, b, Config{Friction: 1.0, Hz: 2}, logx.Discard(), rand.New(rand.NewSource(1)))
	sys.Init()

	for i := 0; i < 50 && sys.collisionsTotal == 0; i++ {
		if _, ok := sys.Tick(); !ok {
			break
		}
	}

	if sys.collisionsTotal == 0 {
		t.Fatal("expected a wall collision")
	}
	if !almostEqual(p.VX, -0.1, 1e-6) {
		t.Fatalf("post-collision VX = %v, want -0.1", p.VX)
	}
}

func TestStationaryParticleStaticBox_NoCollisions(t *testing.T) {
	p := particle.New(0.5, 0.5, 0, 0, 0.05, 1)
	sys := newTestSystem([]*particle.Particle{p}, 1.0, Config{Friction: 1.0, Hz: 10})

	for i := 0; i < 50; i++ {
		if _, ok := sys.Tick(); !ok {
			t.Fatal("queue emptied unexpectedly")
		}
	}
	if sys.collisionsTotal != 0 {
		t.Fatalf("collisionsTotal = %d, want 0", sys.collisionsTotal)
	}
}

func TestRemoveOverlaps_KeepsEarlierBorn(t *testing.T) {
	a := particle.New(0.5, 0.5, 0, 0, 0.3, 1)
	a.Birthdate = 0
	b := particle.New(0.6, 0.5, 0, 0, 0.3, 1)
	b.Birthdate = 1

	sys := newTestSystem([]*particle.Particle{a, b}, 4.0, Config{Friction: 1.0, Hz: 2})
	removed := sys.RemoveOverlaps()

	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if len(sys.Particles()) != 1 || sys.Particles()[0] != a {
		t.Fatal("expected the earlier-born particle to survive")
	}
}

func TestAddParticle_RegeneratesQueue(t *testing.T) {
	sys := newTestSystem(nil, 1.0, Config{Friction: 1.0, Hz: 2})
	sys.AddParticle()

	if len(sys.Particles()) != 1 {
		t.Fatalf("expected 1 particle after AddParticle, got %d", len(sys.Particles()))
	}
	if sys.queue.Len() == 0 {
		t.Fatal("expected the regenerated queue to be non-empty")
	}
}

func TestPause_FreezesClock(t *testing.T) {
	p := particle.New(0.5, 0.5, 0.2, 0, 0.05, 1)
	sys := newTestSystem([]*particle.Particle{p}, 1.0, Config{Friction: 1.0, Hz: 2})
	sys.TogglePause()

	before := sys.Time()
	snap, ok := sys.Tick()
	if !ok {
		t.Fatal("Tick should still succeed while paused")
	}
	if !snap.Paused {
		t.Fatal("snapshot should report paused")
	}
	if sys.Time() != before {
		t.Fatalf("time advanced while paused: %v -> %v", before, sys.Time())
	}
}

func TestStop_EndsTheLoop(t *testing.T) {
	sys := newTestSystem(nil, 1.0, Config{Friction: 1.0, Hz: 10})
	sys.Stop()
	if _, ok := sys.Tick(); ok {
		t.Fatal("Tick should report ok=false after Stop")
	}
}

// Init should designate a tracer automatically, and it should record a
// point every time its particle collides.
func TestInit_AutoTracesNearestCentreParticle(t *testing.T) {
	center := particle.New(0.5, 0.5, 0.1, 0, 0.01, 1)
	edge := particle.New(0.9, 0.9, 0, 0, 0.01, 1)
	sys := newTestSystem([]*particle.Particle{center, edge}, 1.0, Config{Friction: 1.0, Hz: 10})

	if sys.tracerIndex != 0 {
		t.Fatalf("tracerIndex = %d, want 0 (the particle nearest the box centre)", sys.tracerIndex)
	}

	var snap Snapshot
	for i := 0; i < 200; i++ {
		var ok bool
		snap, ok = sys.Tick()
		if !ok {
			t.Fatal("queue emptied unexpectedly")
		}
	}
	if len(snap.TracerPath) == 0 {
		t.Fatal("expected the tracer to have recorded at least one point")
	}
}

func TestSetTracer_ExplicitIndexOverridesAutoSelection(t *testing.T) {
	a := particle.New(0.5, 0.5, 0, 0, 0.01, 1)
	b := particle.New(0.9, 0.9, 0, 0, 0.01, 1)
	bx := box.New(1.0)
	sys := New([]*particle.Particle{a, b}, bx, Config{Friction: 1.0, Hz: 10}, logx.Discard(), rand.New(rand.NewSource(1)))
	sys.SetTracer(1)
	sys.Init()

	if sys.tracerIndex != 1 {
		t.Fatalf("tracerIndex = %d, want 1 (explicitly requested)", sys.tracerIndex)
	}
}
