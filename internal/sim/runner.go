package sim

import (
	"sort"
	"time"

	"github.com/san-kum/vehiclesim/internal/vehicle"
)

// ScheduleEntry is a piecewise-constant command taking effect at T seconds
// of simulation time.
type ScheduleEntry struct {
	T     float64 `yaml:"t" json:"t"`
	Accel float64 `yaml:"accel" json:"accel"`
	Steer float64 `yaml:"steer" json:"steer"`
}

// Result holds the output of an offline run, one sample per model period.
type Result struct {
	Estimates []vehicle.Estimate
	Times     []float64
	Final     vehicle.State
}

// Runner executes the vehicle model without wall-clock pacing. It uses the
// same sub-step kernel as Loop, so a run is a deterministic function of the
// initial state, parameters, and schedule.
type Runner struct {
	Params   vehicle.Parameters
	Initial  vehicle.State
	Schedule []ScheduleEntry
}

// Run advances duration seconds of simulation time. Timestamps are synthetic,
// spaced DtModel apart from the Unix epoch.
func (r *Runner) Run(duration float64) *Result {
	ticks := int(duration / DtModel)
	result := &Result{
		Estimates: make([]vehicle.Estimate, 0, ticks),
		Times:     make([]float64, 0, ticks),
	}

	schedule := make([]ScheduleEntry, len(r.Schedule))
	copy(schedule, r.Schedule)
	sort.SliceStable(schedule, func(i, j int) bool { return schedule[i].T < schedule[j].T })

	base := time.Unix(0, 0).UTC()
	state := r.Initial
	var cmd vehicle.Command
	next := 0

	for i := 0; i < ticks; i++ {
		t := float64(i) * DtModel
		for next < len(schedule) && schedule[next].T <= t {
			cmd = vehicle.Command{Accel: schedule[next].Accel, Steer: schedule[next].Steer}
			next++
		}

		for j := 0; j < DiscSteps; j++ {
			vehicle.Step(r.Params, &state, cmd, DeltaT)
		}

		tEnd := t + DtModel
		result.Estimates = append(result.Estimates, state.Snapshot(base.Add(time.Duration(tEnd*float64(time.Second)))))
		result.Times = append(result.Times, tEnd)
	}

	result.Final = state
	return result
}
