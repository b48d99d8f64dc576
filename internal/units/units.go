// Package units carries the physical unit conversions used to turn
// box-space kinematic quantities into the argon-like physical values shown
// in derived instrumentation (temperature, pressure, kinetic energy).
package units

// Conversion factors from box-space to SI, argon-like.
const (
	// SpeedUnit is metres/second per box-space unit of speed.
	SpeedUnit = 1000.0

	// DistanceUnit is metres per box-space unit of length.
	DistanceUnit = 188e-12

	// MassUnit is kilograms per box-space unit of mass.
	MassUnit = 6.6335209e-26

	// Boltzmann is the Boltzmann constant, joules per kelvin.
	Boltzmann = 1.3806503e-23

	// DefaultFriction is the restitution coefficient used when none is
	// supplied: friction = 1 is a fully elastic collision.
	DefaultFriction = 0.99

	// Epsilon is how far an event's time may lie behind the clock before
	// it is dropped as non-monotonic. Position clamping uses no tolerance.
	Epsilon = 1e-3
)
