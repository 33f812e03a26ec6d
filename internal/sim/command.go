package sim

import (
	"math"
	"sync/atomic"

	"github.com/san-kum/vehiclesim/internal/vehicle"
)

// CommandCell holds the latest desired actuation, shared between the ingress
// side and the simulation loop. Each field is an atomic double so a reader
// never observes a torn value. The pair is not updated atomically: a read may
// combine the acceleration of one command with the steering of another.
// Last write wins per field, and the last command is held indefinitely if
// the ingress goes quiet.
type CommandCell struct {
	accel atomic.Uint64
	steer atomic.Uint64
}

// NewCommandCell returns a cell holding the zero command.
func NewCommandCell() *CommandCell {
	return &CommandCell{}
}

// Set overwrites the desired actuation.
func (c *CommandCell) Set(cmd vehicle.Command) {
	c.accel.Store(math.Float64bits(cmd.Accel))
	c.steer.Store(math.Float64bits(cmd.Steer))
}

// Load returns the most recently written desired actuation.
func (c *CommandCell) Load() vehicle.Command {
	return vehicle.Command{
		Accel: math.Float64frombits(c.accel.Load()),
		Steer: math.Float64frombits(c.steer.Load()),
	}
}
