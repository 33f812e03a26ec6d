// Package vehicle implements a planar bicycle model with a linear tire
// model, the numerical core of the simulator.
//
//   - [State]: position, heading, body-frame velocities, actuator state
//   - [Parameters]: rigid-body and tire constants
//   - [TireForces]: slip angles to lateral forces (linear model)
//   - [Step]: one explicit-Euler sub-step, including first-order actuator lag
//
// The model only drives forward: forward speed is clamped at zero and the
// lateral/yaw dynamics are frozen near rest to keep the slip-angle
// computation away from its singularity.
package vehicle
