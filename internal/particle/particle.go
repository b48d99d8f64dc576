// Package particle implements the kinematic state of a single hard disk and
// the analytic prediction/response kernel used by the event-driven
// collision scheduler: time-to-hit calculations against another disk or
// against a (possibly moving) box wall, straight-line advance, and the
// elastic/inelastic velocity update applied when a collision actually
// happens.
package particle

import (
	"math"

	"github.com/san-kum/harddisk-md/internal/box"
	"github.com/san-kum/harddisk-md/internal/units"
)

// Particle is a hard disk moving in a straight line between collisions.
type Particle struct {
	Birthdate float64

	X, Y   float64
	VX, VY float64

	Radius float64
	Mass   float64

	CollisionCount int

	// Color is presentation metadata; it never affects physics and is
	// read-only for the core.
	Color string
}

// New constructs a particle, panicking if the invariants mass > 0 and
// radius > 0 are violated — a malformed particle would corrupt every
// prediction downstream.
func New(x, y, vx, vy, radius, mass float64) *Particle {
	if mass <= 0 {
		panic("particle: mass must be positive")
	}
	if radius <= 0 {
		panic("particle: radius must be positive")
	}
	return &Particle{X: x, Y: y, VX: vx, VY: vy, Radius: radius, Mass: mass}
}

// Move advances the particle in a straight line for a duration dt.
func (p *Particle) Move(dt float64) {
	p.X += p.VX * dt
	p.Y += p.VY * dt
}

// Speed returns the magnitude of the particle's velocity.
func (p *Particle) Speed() float64 {
	return math.Hypot(p.VX, p.VY)
}

// KineticEnergy returns the particle's kinetic energy in joules, using the
// argon-like unit conversion from internal/units.
func (p *Particle) KineticEnergy() float64 {
	v := p.Speed() * units.SpeedUnit
	m := p.Mass * units.MassUnit
	return 0.5 * m * v * v
}

// TimeToHit returns the delay, relative to now, until this particle and
// other collide, assuming both move in straight lines with no intervening
// event. It reports overlapping = true when the two disks are already
// interpenetrating, in which case the returned delay is always +Inf and
// the caller is expected to log the condition — this package stays
// side-effect free.
func (p *Particle) TimeToHit(other *Particle) (dt float64, overlapping bool) {
	if p == other {
		return math.Inf(1), false
	}

	dx := other.X - p.X
	dy := other.Y - p.Y
	dvx := other.VX - p.VX
	dvy := other.VY - p.VY

	drdr := dx*dx + dy*dy
	sigma := p.Radius + other.Radius

	if drdr-sigma*sigma < 0 {
		return math.Inf(1), true
	}

	dvdr := dx*dvx + dy*dvy
	if dvdr >= 0 {
		return math.Inf(1), false
	}

	dvdv := dvx*dvx + dvy*dvy

	discriminant := dvdr*dvdr - dvdv*(drdr-sigma*sigma)
	if discriminant < 0 {
		return math.Inf(1), false
	}
	if dvdv == 0 {
		return math.Inf(1), false
	}

	t := -(dvdr + math.Sqrt(discriminant)) / dvdv
	if t < 0 {
		return math.Inf(1), false
	}
	return t, false
}

// TimeToHitVertical returns the delay until this particle reaches the left
// or right face of b, accounting for wall motion. It returns +Inf if the
// particle never reaches either face at its current velocity.
func (p *Particle) TimeToHitVertical(b *box.Box) float64 {
	return timeToHitFace(p.X, p.VX, p.Radius, b.Low(), b.High(), b.LeftSpeed(), b.RightSpeed())
}

// TimeToHitHorizontal is the analogue of TimeToHitVertical on the y axis.
func (p *Particle) TimeToHitHorizontal(b *box.Box) float64 {
	return timeToHitFace(p.Y, p.VY, p.Radius, b.Low(), b.High(), b.LeftSpeed(), b.RightSpeed())
}

// timeToHitFace computes the earliest positive time at which a point
// moving at velocity v from position x, offset inward by radius r, reaches
// either face of an interval [lo, hi] whose endpoints move at loSpeed and
// hiSpeed respectively. On a static box (loSpeed = hiSpeed = 0) this
// reduces to the textbook vx>0 / vx<0 / vx=0 case split.
func timeToHitFace(x, v, r, lo, hi, loSpeed, hiSpeed float64) float64 {
	best := math.Inf(1)

	if relHi := v - hiSpeed; relHi > 0 {
		if t := (hi - r - x) / relHi; t > 0 && t < best {
			best = t
		}
	}
	if relLo := v - loSpeed; relLo < 0 {
		if t := (lo + r - x) / relLo; t > 0 && t < best {
			best = t
		}
	}
	return best
}

// BounceOff applies the collision response to p and other, whose centres
// are exactly the sum of their radii apart at contact. friction is the coefficient of
// restitution scaling term (1+friction); friction = 1 is fully elastic.
// Both collision counters are incremented.
func (p *Particle) BounceOff(other *Particle, friction float64) {
	dx := other.X - p.X
	dy := other.Y - p.Y
	dvx := other.VX - p.VX
	dvy := other.VY - p.VY

	dvdr := dx*dvx + dy*dvy
	sigma := p.Radius + other.Radius

	j := (1 + friction) * p.Mass * other.Mass * dvdr / ((p.Mass + other.Mass) * sigma)

	fx := j * dx / sigma
	fy := j * dy / sigma

	p.VX += fx / p.Mass
	p.VY += fy / p.Mass
	other.VX -= fx / other.Mass
	other.VY -= fy / other.Mass

	p.CollisionCount++
	other.CollisionCount++
}

// BounceOffVertical reflects the particle's x-velocity off a vertical
// (left/right) wall. When the box is moving, wallSpeed carries the
// signed velocity of the face that was actually struck (+Speed for the
// right face, -Speed for the left face) and is added twice, matching an
// elastic collision with an infinitely heavier moving wall.
func (p *Particle) BounceOffVertical(wallSpeed float64) {
	p.VX = -p.VX + 2*wallSpeed
	p.CollisionCount++
}

// BounceOffHorizontal is the y-axis analogue of BounceOffVertical.
func (p *Particle) BounceOffHorizontal(wallSpeed float64) {
	p.VY = -p.VY + 2*wallSpeed
	p.CollisionCount++
}
