package collision

import "github.com/san-kum/harddisk-md/internal/metrics"

// ParticleView is the read-only, presentation-relevant projection of a
// particle exposed to the renderer/input adapter.
type ParticleView struct {
	X, Y   float64
	VX, VY float64
	Radius float64
	Color  string
}

// Snapshot is the immutable view of the system emitted to the renderer on
// each Frame event. It never aliases internal state: every field is a
// value or a freshly built slice.
type Snapshot struct {
	Time             float64
	Side             float64
	WallSpeed        float64
	Particles        []ParticleView
	CollisionsTotal  int
	AvgKineticEnergy float64
	QueueSize        int
	Paused           bool
	HistogramCounts  []int
	HistogramScale   float64
	TracerPath       []metrics.TracePoint
}
