package vehicle

import "math"

// Below this forward speed the slip-angle atan2 terms are meaningless and
// the lateral/yaw dynamics are frozen instead.
const speedEpsilon = 1e-6

// SlipAngles computes the front and rear tire slip angles from the current
// body-frame velocities and steering angle. At rest both angles are zero.
func SlipAngles(p Parameters, vx, vy, wz, df float64) (alphaF, alphaR float64) {
	if math.Abs(vx) <= speedEpsilon {
		return 0, 0
	}
	alphaF = df - math.Atan2(vy+p.Lf*wz, vx)
	alphaR = -math.Atan2(vy-p.Lf*wz, vx)
	return alphaF, alphaR
}

// TireForces returns the front and rear lateral tire forces of the linear
// tire model: force proportional to slip angle through the cornering
// stiffness. Pure function of its inputs.
func TireForces(p Parameters, vx, vy, wz, df float64) (fyf, fyr float64) {
	alphaF, alphaR := SlipAngles(p, vx, vy, wz, df)
	return p.CAlphaF * alphaF, p.CAlphaR * alphaR
}
