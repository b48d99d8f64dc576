// Package collision owns the particle array and the event queue and drives
// the event-driven simulation: it seeds predictions, repeatedly advances
// the clock to the next valid event, applies that event's physical effect,
// and re-predicts only the particles it touched. It is the only package
// that mutates particle state.
package collision

import (
	"math"
	"math/rand"

	"github.com/san-kum/harddisk-md/internal/box"
	"github.com/san-kum/harddisk-md/internal/event"
	"github.com/san-kum/harddisk-md/internal/logx"
	"github.com/san-kum/harddisk-md/internal/metrics"
	"github.com/san-kum/harddisk-md/internal/particle"
	"github.com/san-kum/harddisk-md/internal/units"
)

// Config holds the collision system's tunable parameters, plumbed in at
// construction rather than read from package-level globals.
type Config struct {
	// Friction is the restitution coefficient used in BounceOff; 1.0 is
	// fully elastic.
	Friction float64
	// Hz is the Frame event frequency.
	Hz float64
	// BucketWidth is the speed histogram's bucket width. Zero picks the
	// engine default.
	BucketWidth float64
	// HistogramScale is the histogram's initial horizontal scale. Zero
	// picks the engine default.
	HistogramScale float64
}

// DefaultConfig returns the engine's textbook defaults.
func DefaultConfig() Config {
	return Config{Friction: units.DefaultFriction, Hz: 60, BucketWidth: 0.01, HistogramScale: 1.0}
}

// System is the collision-driven simulator: particles, box, event queue and
// simulation clock, plus the derived-instrumentation state (tracer,
// histogram) that piggybacks on the same event stream.
type System struct {
	box       *box.Box
	particles []*particle.Particle
	queue     *event.Queue
	t         float64
	cfg       Config
	log       logx.Logger
	rng       *rand.Rand

	paused  bool
	stopped bool

	collisionsTotal int

	tracer      *metrics.Tracer
	tracerIndex int // -1 when no tracer is configured

	histogram *metrics.Histogram
}

// New constructs a collision system over particles inside b. It does not
// seed the event queue; call Init before the first Tick.
func New(particles []*particle.Particle, b *box.Box, cfg Config, log logx.Logger, rng *rand.Rand) *System {
	if log == nil {
		log = logx.Discard()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	bucketWidth := cfg.BucketWidth
	if bucketWidth <= 0 {
		bucketWidth = 0.01
	}
	histScale := cfg.HistogramScale
	if histScale <= 0 {
		histScale = 1.0
	}
	return &System{
		box:         b,
		particles:   particles,
		queue:       event.NewQueue(),
		cfg:         cfg,
		log:         log,
		rng:         rng,
		tracerIndex: -1,
		histogram:   metrics.NewHistogram(bucketWidth, histScale),
	}
}

// Particles returns the live particle slice. Callers outside this package
// must treat it as read-only; the collision system is the sole mutator.
func (s *System) Particles() []*particle.Particle { return s.particles }

// Box returns the live box. Same read-only contract as Particles.
func (s *System) Box() *box.Box { return s.box }

// Time returns the current simulation clock value.
func (s *System) Time() float64 { return s.t }

// Histogram returns the velocity histogram accumulator so callers can read
// or resize it (§4.7's "change histogram horizontal scale" control input).
func (s *System) Histogram() *metrics.Histogram { return s.histogram }

// Init seeds the queue: a prediction pass over every particle, followed by
// a Frame event at time 0. It also designates the tracer particle, per
// §4.7's derived-instrumentation "tracer path" (nearest the box centre,
// unless the caller already picked one with SetTracer).
func (s *System) Init() {
	for _, p := range s.particles {
		s.predict(p)
	}
	s.queue.Push(event.New(event.Frame, s.t, nil, nil))
	if s.tracer == nil && len(s.particles) > 0 {
		s.SetTracer(s.tracerIndex)
	}
}

// predict pushes every future event p could plausibly trigger: a
// PairCollision against each other particle, and a VerticalWall /
// HorizontalWall event if p is on a course to reach either box face.
// Overlapping pairs are logged and never scheduled.
func (s *System) predict(p *particle.Particle) {
	for _, q := range s.particles {
		dt, overlapping := p.TimeToHit(q)
		if overlapping {
			s.log.Warn("particles overlapping at prediction time; refusing to schedule a collision",
				logx.Float("ax", p.X), logx.Float("ay", p.Y),
				logx.Float("bx", q.X), logx.Float("by", q.Y))
			continue
		}
		if dt >= 0 && !math.IsInf(dt, 1) {
			s.queue.Push(event.New(event.PairCollision, s.t+dt, p, q))
		}
	}

	if dtX := p.TimeToHitVertical(s.box); dtX >= 0 && !math.IsInf(dtX, 1) {
		s.queue.Push(event.New(event.VerticalWall, s.t+dtX, p, nil))
	}
	if dtY := p.TimeToHitHorizontal(s.box); dtY >= 0 && !math.IsInf(dtY, 1) {
		s.queue.Push(event.New(event.HorizontalWall, s.t+dtY, p, nil))
	}
}

// Regenerate discards the entire queue and re-seeds it from scratch. It is
// required after any structural change — a particle added or removed, or
// the wall speed changed — because cached events reference kinematic state
// that no longer produces the right ordering.
func (s *System) Regenerate() {
	s.queue.Reset()
	for _, p := range s.particles {
		s.predict(p)
	}
	s.queue.Push(event.New(event.Frame, s.t, nil, nil))
}

// Tick runs the main loop (§4.5) until it either exhausts the queue or
// produces a Frame event, at which point it returns the snapshot for the
// renderer to consume and yields control back to the caller — mirroring
// the single-threaded cooperative model in which the loop only "returns"
// after a Frame or on shutdown. The second return value is false once the
// system has nothing left to do (or Stop was called).
func (s *System) Tick() (Snapshot, bool) {
	if s.stopped {
		return Snapshot{}, false
	}
	if s.paused {
		return s.snapshot(), true
	}

	for {
		e, ok := s.applyOne()
		if !ok {
			return Snapshot{}, false
		}
		if e.Kind == event.Frame {
			return s.snapshot(), true
		}
	}
}

// applyOne pops and executes exactly one valid event: it advances every
// particle and the box to the event's time, dispatches the event's
// physical effect, and re-predicts the participant(s). It is split out of
// Tick so tests can observe the simulation clock at the moment of each
// individual physical event rather than only at Frame boundaries.
func (s *System) applyOne() (*event.Event, bool) {
	e, ok := s.nextValidEvent()
	if !ok {
		return nil, false
	}

	dt := e.Time - s.t
	if dt < 0 {
		dt = 0
	}
	for _, p := range s.particles {
		p.Move(dt)
	}
	s.box.Advance(dt)
	for _, p := range s.particles {
		p.X = s.box.Clamp(p.X, p.Radius)
		p.Y = s.box.Clamp(p.Y, p.Radius)
	}
	s.t = e.Time

	switch e.Kind {
	case event.PairCollision:
		a, b := e.A, e.B
		a.BounceOff(b, s.cfg.Friction)
		s.collisionsTotal++
		s.recordTracer(a)
		s.recordTracer(b)
		s.predict(a)
		s.predict(b)

	case event.VerticalWall:
		a := e.A
		faceSpeed := s.box.NearestFaceSpeed(a.X, a.Radius)
		a.BounceOffVertical(faceSpeed)
		s.collisionsTotal++
		s.recordTracer(a)
		s.predict(a)

	case event.HorizontalWall:
		a := e.A
		faceSpeed := s.box.NearestFaceSpeed(a.Y, a.Radius)
		a.BounceOffHorizontal(faceSpeed)
		s.collisionsTotal++
		s.recordTracer(a)
		s.predict(a)

	case event.Frame:
		s.queue.Push(event.New(event.Frame, s.t+1/s.cfg.Hz, nil, nil))

	default:
		panic("collision: unreachable event kind")
	}

	return e, true
}

// nextValidEvent drains stale and non-monotonic entries from the head of
// the queue and pops the first one fit to execute.
func (s *System) nextValidEvent() (*event.Event, bool) {
	for s.queue.Len() > 0 {
		e := s.queue.Peek()
		if !e.IsValid() {
			s.queue.Pop()
			continue
		}
		if e.Time < s.t-units.Epsilon {
			s.queue.Pop()
			continue
		}
		return s.queue.Pop(), true
	}
	return nil, false
}

func (s *System) recordTracer(p *particle.Particle) {
	if s.tracer == nil || s.tracerIndex < 0 || s.tracerIndex >= len(s.particles) {
		return
	}
	if s.particles[s.tracerIndex] != p {
		return
	}
	s.tracer.Record(s.t, p.X, p.Y)
}

// SetTracer designates the particle at index idx (or the one nearest the
// box centre when idx < 0) as the tracer and returns its path recorder.
func (s *System) SetTracer(idx int) *metrics.Tracer {
	if idx < 0 {
		idx = s.nearestCenterIndex()
	}
	s.tracerIndex = idx
	s.tracer = metrics.NewTracer(2000)
	return s.tracer
}

func (s *System) nearestCenterIndex() int {
	cx, cy := s.box.Center, s.box.Center
	best, bestDist := -1, 0.0
	for i, p := range s.particles {
		dx, dy := p.X-cx, p.Y-cy
		d := dx*dx + dy*dy
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// TogglePause flips the paused flag; while paused, Tick returns the
// current snapshot without advancing the clock.
func (s *System) TogglePause() { s.paused = !s.paused }

// Paused reports whether the system is currently paused.
func (s *System) Paused() bool { return s.paused }

// Stop raises the shutdown flag; Tick returns ok=false from the next call
// on, regardless of remaining queue contents.
func (s *System) Stop() { s.stopped = true }

// AddParticle injects one particle at a random interior position with a
// small random velocity, then regenerates the queue (§4.6). radius and
// mass follow the existing population's first particle when available.
func (s *System) AddParticle() *particle.Particle {
	radius, mass := 0.01, 1.0
	if len(s.particles) > 0 {
		radius, mass = s.particles[0].Radius, s.particles[0].Mass
	}

	lo, hi := s.box.Low()+radius, s.box.High()-radius
	x := lo + s.rng.Float64()*(hi-lo)
	y := lo + s.rng.Float64()*(hi-lo)
	vx := (s.rng.Float64()*2 - 1) * 0.1
	vy := (s.rng.Float64()*2 - 1) * 0.1

	p := particle.New(x, y, vx, vy, radius, mass)
	p.Birthdate = s.t
	s.particles = append(s.particles, p)
	s.Regenerate()
	return p
}

// RemoveOverlaps scans every pair for interpenetration and removes the
// later-born particle of each overlapping pair, then regenerates the
// queue. It returns the number of particles removed.
func (s *System) RemoveOverlaps() int {
	remove := make(map[*particle.Particle]bool)
	for i := 0; i < len(s.particles); i++ {
		for j := i + 1; j < len(s.particles); j++ {
			a, b := s.particles[i], s.particles[j]
			if remove[a] || remove[b] {
				continue
			}
			if _, overlapping := a.TimeToHit(b); overlapping {
				if a.Birthdate <= b.Birthdate {
					remove[b] = true
				} else {
					remove[a] = true
				}
			}
		}
	}
	if len(remove) == 0 {
		return 0
	}

	kept := s.particles[:0]
	for _, p := range s.particles {
		if !remove[p] {
			kept = append(kept, p)
		}
	}
	s.particles = kept
	s.Regenerate()
	return len(remove)
}

// SetWallSpeed sets the box's wall speed and regenerates the queue, since
// every wall-collision prediction depends on it.
func (s *System) SetWallSpeed(speed float64) {
	s.box.Speed = speed
	s.Regenerate()
}

// AdjustWallSpeed changes the wall speed by delta (the "change wall speed
// by +/-0.1" control input) and regenerates the queue.
func (s *System) AdjustWallSpeed(delta float64) {
	s.SetWallSpeed(s.box.Speed + delta)
}

func (s *System) snapshot() Snapshot {
	views := make([]ParticleView, len(s.particles))
	for i, p := range s.particles {
		views[i] = ParticleView{X: p.X, Y: p.Y, VX: p.VX, VY: p.VY, Radius: p.Radius, Color: p.Color}
	}
	var tracePath []metrics.TracePoint
	if s.tracer != nil {
		tracePath = s.tracer.Path()
	}
	return Snapshot{
		Time:             s.t,
		Side:             s.box.Side,
		WallSpeed:        s.box.Speed,
		Particles:        views,
		CollisionsTotal:  s.collisionsTotal,
		AvgKineticEnergy: metrics.AverageKineticEnergy(s.particles),
		QueueSize:        s.queue.Len(),
		Paused:           s.paused,
		HistogramCounts:  s.histogram.Compute(s.particles),
		HistogramScale:   s.histogram.Scale(),
		TracerPath:       tracePath,
	}
}
