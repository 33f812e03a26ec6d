package vehicle

// ActuatorGain is the first-order lag gain (1/s). The actual actuation
// approaches the commanded value with a time constant of 0.2 s.
const ActuatorGain = 5.0

// applyActuatorLag moves the actual actuation toward the commanded values
// over a sub-step of duration dt. Commands pass through unclamped; the
// model deliberately does not saturate acceleration or steering.
func applyActuatorLag(s *State, cmd Command, dt float64) {
	s.Acc += ActuatorGain * (cmd.Accel - s.Acc) * dt
	s.Df += ActuatorGain * (cmd.Steer - s.Df) * dt
}
