// Package metrics computes the derived instrumentation built from particle
// state and Frame snapshots: energy/temperature/pressure aggregates, a
// velocity histogram with a Maxwell-Boltzmann density for comparison, and
// a tracer path for one distinguished particle. None of this
// package feeds back into the physics; it only reads particle state.
package metrics

import (
	"math"

	"github.com/san-kum/harddisk-md/internal/particle"
	"github.com/san-kum/harddisk-md/internal/units"
)

// AverageKineticEnergy is the arithmetic mean of KineticEnergy() over ps.
func AverageKineticEnergy(ps []*particle.Particle) float64 {
	if len(ps) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range ps {
		sum += p.KineticEnergy()
	}
	return sum / float64(len(ps))
}

// Temperature derives T = (2/3) * <Ek> / kB, the two-dimensional
// equipartition relation used throughout the engine (each disk has two
// translational degrees of freedom, so the textbook (2/3) factor from three
// dimensions is kept as specified rather than corrected to 1, matching the
// source's convention).
func Temperature(avgKE float64) float64 {
	return (2.0 / 3.0) * avgKE / units.Boltzmann
}

// Pressure derives P = (2/3) * <Ek> * N / area, with area expressed in
// physical units (box-space area scaled by DistanceUnit^2).
func Pressure(avgKE float64, n int, boxAreaBoxSpace float64) float64 {
	if boxAreaBoxSpace == 0 {
		return 0
	}
	areaPhysical := boxAreaBoxSpace * units.DistanceUnit * units.DistanceUnit
	return (2.0 / 3.0) * avgKE * float64(n) / areaPhysical
}

// PackingFactor is the ratio of summed disk area to box area, both in
// box-space units.
func PackingFactor(ps []*particle.Particle, boxArea float64) float64 {
	if boxArea == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range ps {
		sum += math.Pi * p.Radius * p.Radius
	}
	return sum / boxArea
}
