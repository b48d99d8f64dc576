package collision_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/harddisk-md/internal/box"
	"github.com/san-kum/harddisk-md/internal/collision"
	"github.com/san-kum/harddisk-md/internal/logx"
	"github.com/san-kum/harddisk-md/internal/particle"
)

func randomGas(seed int64, n int, side, radius float64) (*collision.System, []*particle.Particle) {
	rng := rand.New(rand.NewSource(seed))
	ps := make([]*particle.Particle, 0, n)

	for len(ps) < n {
		x := radius + rng.Float64()*(side-2*radius)
		y := radius + rng.Float64()*(side-2*radius)
		vx := (rng.Float64()*2 - 1) * 0.3
		vy := (rng.Float64()*2 - 1) * 0.3
		candidate := particle.New(x, y, vx, vy, radius, 1.0)

		ok := true
		for _, other := range ps {
			if _, overlapping := candidate.TimeToHit(other); overlapping {
				ok = false
				break
			}
		}
		if ok {
			ps = append(ps, candidate)
		}
	}

	b := box.New(side)
	sys := collision.New(ps, b, collision.Config{Friction: 1.0, Hz: 30}, logx.Discard(), rng)
	sys.Init()
	return sys, ps
}

func totalMechanicalEnergy(ps []*particle.Particle) float64 {
	sum := 0.0
	for _, p := range ps {
		sum += 0.5 * p.Mass * (p.VX*p.VX + p.VY*p.VY)
	}
	return sum
}

var _ = Describe("Event-driven collision engine invariants", func() {
	It("conserves total mechanical energy across many collisions (P1)", func() {
		sys, ps := randomGas(1, 12, 4.0, 0.1)
		initial := totalMechanicalEnergy(ps)

		for i := 0; i < 400; i++ {
			if _, ok := sys.Tick(); !ok {
				break
			}
		}

		final := totalMechanicalEnergy(ps)
		Expect(math.Abs(final-initial) / initial).To(BeNumerically("<", 1e-6))
	})

	It("keeps every particle inside the box, modulo epsilon (P3)", func() {
		sys, ps := randomGas(2, 12, 4.0, 0.1)
		b := sys.Box()

		for i := 0; i < 400; i++ {
			if _, ok := sys.Tick(); !ok {
				break
			}
			for _, p := range ps {
				Expect(p.X).To(BeNumerically(">=", b.Low()+p.Radius-1e-6))
				Expect(p.X).To(BeNumerically("<=", b.High()-p.Radius+1e-6))
				Expect(p.Y).To(BeNumerically(">=", b.Low()+p.Radius-1e-6))
				Expect(p.Y).To(BeNumerically("<=", b.High()-p.Radius+1e-6))
			}
		}
	})

	It("never lets two particles interpenetrate beyond epsilon (P4)", func() {
		sys, ps := randomGas(3, 12, 4.0, 0.1)

		for i := 0; i < 400; i++ {
			if _, ok := sys.Tick(); !ok {
				break
			}
			for i := 0; i < len(ps); i++ {
				for j := i + 1; j < len(ps); j++ {
					dx := ps[i].X - ps[j].X
					dy := ps[i].Y - ps[j].Y
					dist := math.Hypot(dx, dy)
					Expect(dist).To(BeNumerically(">=", ps[i].Radius+ps[j].Radius-1e-3))
				}
			}
		}
	})

	It("never lets the simulation clock go backward (P5)", func() {
		sys, _ := randomGas(4, 12, 4.0, 0.1)

		last := sys.Time()
		for i := 0; i < 400; i++ {
			snap, ok := sys.Tick()
			if !ok {
				break
			}
			Expect(snap.Time).To(BeNumerically(">=", last))
			last = snap.Time
		}
	})

	It("keeps the event queue non-empty as collisions accumulate", func() {
		sys, _ := randomGas(5, 12, 4.0, 0.1)

		for i := 0; i < 400; i++ {
			snap, ok := sys.Tick()
			if !ok {
				break
			}
			Expect(snap.QueueSize).To(BeNumerically(">", 0))
		}
	})
})
