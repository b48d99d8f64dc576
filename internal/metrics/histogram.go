package metrics

import (
	"math"

	"github.com/san-kum/harddisk-md/internal/particle"
	"github.com/san-kum/harddisk-md/internal/units"
)

// Histogram buckets particle speeds into fixed-width bins over a dynamic
// upper bound. Widening the scale (see Scale/SetScale) grows the number of
// buckets that fit under the same DeltaS, matching the "change histogram
// horizontal scale" control input.
type Histogram struct {
	DeltaS float64
	scale  float64
	counts []int
}

// NewHistogram returns a histogram with bucket width deltaS and an initial
// horizontal scale (s_max) of initialScale.
func NewHistogram(deltaS, initialScale float64) *Histogram {
	if deltaS <= 0 {
		deltaS = 0.01
	}
	if initialScale <= 0 {
		initialScale = 1
	}
	return &Histogram{DeltaS: deltaS, scale: initialScale}
}

// Scale returns the current s_max.
func (h *Histogram) Scale() float64 { return h.scale }

// SetScale changes s_max, in response to the "change histogram horizontal
// scale" control input. Values below one bucket width are rejected.
func (h *Histogram) SetScale(s float64) {
	if s < h.DeltaS {
		return
	}
	h.scale = s
}

// Buckets returns the bucket count for the current scale and bucket width.
func (h *Histogram) Buckets() int {
	n := int(math.Ceil(h.scale / h.DeltaS))
	if n < 1 {
		n = 1
	}
	return n
}

// Compute rebuilds the histogram counts from the current particle speeds.
// Speeds at or beyond s_max fall into the last bucket.
func (h *Histogram) Compute(ps []*particle.Particle) []int {
	n := h.Buckets()
	h.counts = make([]int, n)
	for _, p := range ps {
		idx := int(p.Speed() / h.DeltaS)
		if idx >= n {
			idx = n - 1
		}
		if idx < 0 {
			idx = 0
		}
		h.counts[idx]++
	}
	return h.counts
}

// MaxwellBoltzmannPDF returns the 2D Maxwell-Boltzmann speed density
// f(s) = (m s / (kB T)) * exp(-m s^2 / (2 kB T)), sampled at the centre of
// each histogram bucket, for a gas at temperature t (kelvin) of particles
// with mass m (box-space units, scaled to MassUnit) and speed expressed in
// box-space units per second (scaled to SpeedUnit for the exponent).
func (h *Histogram) MaxwellBoltzmannPDF(mass, t float64) []float64 {
	n := h.Buckets()
	pdf := make([]float64, n)
	if t <= 0 {
		return pdf
	}
	m := mass * units.MassUnit
	kT := units.Boltzmann * t
	for i := 0; i < n; i++ {
		sBox := (float64(i) + 0.5) * h.DeltaS
		s := sBox * units.SpeedUnit
		pdf[i] = (m * s / kT) * math.Exp(-m*s*s/(2*kT))
	}
	return pdf
}
