package vehicle

// Parameters holds the rigid-body and tire constants of the bicycle model.
// Constant for the lifetime of a simulation.
type Parameters struct {
	Lf        float64 `yaml:"lf"`         // CoG to front axle (m)
	Lr        float64 `yaml:"lr"`         // CoG to rear axle (m)
	HalfWidth float64 `yaml:"half_width"` // m, unused by the dynamics
	Mass      float64 `yaml:"mass"`       // kg
	Iz        float64 `yaml:"iz"`         // yaw inertia (kg*m^2)
	CAlphaF   float64 `yaml:"c_alpha_f"`  // front cornering stiffness (N/rad)
	CAlphaR   float64 `yaml:"c_alpha_r"`  // rear cornering stiffness (N/rad)
}

// DefaultParameters returns the Hyundai Azera parameter set.
func DefaultParameters() Parameters {
	return Parameters{
		Lf:        1.152,
		Lr:        1.693,
		HalfWidth: 0.8125,
		Mass:      1840,
		Iz:        3477,
		CAlphaF:   4.0703e4,
		CAlphaR:   6.4495e4,
	}
}
