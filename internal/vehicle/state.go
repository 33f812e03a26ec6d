package vehicle

import (
	"math"
	"time"
)

// State is the bicycle-model state vector plus actuator state. It is owned
// by a single simulation loop and mutated only inside Step.
type State struct {
	X   float64 // world position (m)
	Y   float64 // world position (m)
	Psi float64 // heading (rad), kept in [-pi, pi)
	Vx  float64 // body-frame forward velocity (m/s), never negative
	Vy  float64 // body-frame lateral velocity (m/s)
	Wz  float64 // yaw rate (rad/s)
	Acc float64 // actual acceleration after actuator lag (m/s^2)
	Df  float64 // actual steering angle after actuator lag (rad)
}

// Command is a desired actuation pair as received from a controller.
type Command struct {
	Accel float64 `json:"accel_cmd"`       // desired acceleration (m/s^2)
	Steer float64 `json:"steer_angle_cmd"` // desired steering angle (rad)
}

// Estimate is the published state snapshot. Lateral velocity and yaw rate
// are internal to the model and never leave it.
type Estimate struct {
	Timestamp time.Time `json:"timestamp"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Psi       float64   `json:"psi"`
	V         float64   `json:"v"`
	A         float64   `json:"a"`
	Df        float64   `json:"df"`
}

// Snapshot returns the publishable view of the state.
func (s State) Snapshot(ts time.Time) Estimate {
	return Estimate{
		Timestamp: ts,
		X:         s.X,
		Y:         s.Y,
		Psi:       s.Psi,
		V:         s.Vx,
		A:         s.Acc,
		Df:        s.Df,
	}
}

// WrapAngle maps theta into [-pi, pi).
func WrapAngle(theta float64) float64 {
	w := math.Mod(theta+math.Pi, 2*math.Pi)
	if w < 0 {
		w += 2 * math.Pi
	}
	return w - math.Pi
}
