package config

// Presets holds named starting configurations, mirroring the worked
// scenarios and typical lattice runs. Presets only fill in the
// domain-shape parameters (radius, spacing, friction, box geometry) plus
// frame rate, velocity scale and tracer index; the
// lattice itself is built by the caller from Radius/Spacing/BoxSide.
var Presets = map[string]*Config{
	"lattice-small": {
		Radius: 0.01, Spacing: 0.05, Friction: 1.0,
		BoxSide: 1.0, Hz: 60, VelocityScale: 0.2, TracerIndex: -1,
	},
	"lattice-large": {
		Radius: 0.005, Spacing: 0.02, Friction: 1.0,
		BoxSide: 1.0, Hz: 60, VelocityScale: 0.2, TracerIndex: -1,
	},
	"sticky": {
		Radius: 0.01, Spacing: 0.05, Friction: 0.9,
		BoxSide: 1.0, Hz: 60, VelocityScale: 0.2, TracerIndex: -1,
	},
	"expanding-box": {
		Radius: 0.01, Spacing: 0.05, Friction: 1.0,
		BoxSide: 1.0, WallSpeed: 0.1, Hz: 60, VelocityScale: 0.2, TracerIndex: -1,
	},
	"contracting-box": {
		Radius: 0.01, Spacing: 0.08, Friction: 1.0,
		BoxSide: 1.0, WallSpeed: -0.05, Hz: 60, VelocityScale: 0.2, TracerIndex: -1,
	},
}

// GetPreset looks up a named preset, or nil if it doesn't exist.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	clone := *cfg
	return &clone
}

// ListPresets returns every known preset name.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
