package vehicle

import "math"

// Step advances the state by one explicit-Euler sub-step of duration dt.
// Every next-value is derived from the same prior snapshot, then committed
// together. On commit the heading is wrapped into [-pi, pi) and forward
// speed is clamped at zero; when the vehicle is (about to be) at rest the
// lateral and yaw dynamics are zeroed rather than integrated. The actuator
// lag toward cmd is applied last.
func Step(p Parameters, s *State, cmd Command, dt float64) {
	fyf, fyr := TireForces(p, s.Vx, s.Vy, s.Wz, s.Df)

	vxN := math.Max(0, s.Vx+dt*(s.Acc-fyf*math.Sin(s.Df)/p.Mass+s.Wz*s.Vy))

	var vyN, wzN float64
	if vxN > speedEpsilon {
		vyN = s.Vy + dt*((fyf*math.Cos(s.Df)+fyr)/p.Mass-s.Wz*s.Vx)
		wzN = s.Wz + dt*((p.Lf*fyf*math.Cos(s.Df)-p.Lr*fyr)/p.Iz)
	}

	// Pre-update wz and velocities: explicit Euler, not semi-implicit.
	psiN := s.Psi + dt*s.Wz
	xN := s.X + dt*(s.Vx*math.Cos(s.Psi)-s.Vy*math.Sin(s.Psi))
	yN := s.Y + dt*(s.Vx*math.Sin(s.Psi)+s.Vy*math.Cos(s.Psi))

	s.X = xN
	s.Y = yN
	s.Psi = WrapAngle(psiN)
	s.Vx = vxN
	s.Vy = vyN
	s.Wz = wzN

	applyActuatorLag(s, cmd, dt)
}
