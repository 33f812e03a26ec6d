package sim

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/san-kum/vehiclesim/internal/vehicle"
)

const (
	// DtModel is the model update period (100 Hz publish rate).
	DtModel = 0.01
	// DiscSteps is the number of integration sub-steps per tick.
	DiscSteps = 10
	// DeltaT is the sub-step duration.
	DeltaT = DtModel / DiscSteps
)

// Observer receives one state estimate per loop tick.
type Observer interface {
	OnEstimate(vehicle.Estimate)
}

// Loop owns the vehicle state and advances it at a fixed wall-clock rate,
// publishing one estimate per tick to every observer. The state is never
// touched outside the loop goroutine; the command cell is the only shared
// input.
type Loop struct {
	params    vehicle.Parameters
	state     vehicle.State
	commands  *CommandCell
	observers []Observer
	log       zerolog.Logger
}

func NewLoop(p vehicle.Parameters, initial vehicle.State, commands *CommandCell, log zerolog.Logger) *Loop {
	return &Loop{
		params:   p,
		state:    initial,
		commands: commands,
		log:      log,
	}
}

func (l *Loop) AddObserver(o Observer) { l.observers = append(l.observers, o) }

// State returns a copy of the current vehicle state. Only safe before Run or
// after it has returned.
func (l *Loop) State() vehicle.State { return l.state }

// Tick runs one model period: DiscSteps sub-steps, each re-reading the
// command cell, then one publish stamped with now.
func (l *Loop) Tick(now time.Time) vehicle.Estimate {
	for i := 0; i < DiscSteps; i++ {
		vehicle.Step(l.params, &l.state, l.commands.Load(), DeltaT)
	}

	est := l.state.Snapshot(now)
	for _, o := range l.observers {
		o.OnEstimate(est)
	}
	return est
}

// Run drives the loop until ctx is cancelled. The ticker holds absolute
// deadlines on the monotonic clock, so tick timing does not drift with the
// cost of the integration step.
func (l *Loop) Run(ctx context.Context) error {
	period := time.Duration(DtModel * float64(time.Second))
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	l.log.Info().
		Float64("dt_model", DtModel).
		Int("disc_steps", DiscSteps).
		Msg("simulation loop running")

	for {
		l.Tick(time.Now())

		select {
		case <-ctx.Done():
			l.log.Info().Msg("simulation loop stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
