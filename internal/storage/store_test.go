package storage

import (
	"math"
	"testing"

	"github.com/san-kum/vehiclesim/internal/sim"
	"github.com/san-kum/vehiclesim/internal/vehicle"
)

func TestStoreRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	schedule := []sim.ScheduleEntry{{T: 0, Accel: 1.0, Steer: 0.05}}
	runner := &sim.Runner{
		Params:   vehicle.DefaultParameters(),
		Initial:  vehicle.State{X: -300, Y: -450, Psi: 1.0},
		Schedule: schedule,
	}
	result := runner.Run(1.0)

	runID, err := st.Save(1.0, schedule, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.ID != runID {
		t.Errorf("id: got %s, expected %s", meta.ID, runID)
	}
	if meta.Dt != sim.DtModel || meta.DiscSteps != sim.DiscSteps {
		t.Errorf("unexpected rate metadata: dt=%g substeps=%d", meta.Dt, meta.DiscSteps)
	}
	if len(meta.Schedule) != 1 || meta.Schedule[0].Accel != 1.0 {
		t.Errorf("unexpected schedule: %+v", meta.Schedule)
	}

	times, rows, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if len(times) != len(result.Estimates) {
		t.Fatalf("expected %d samples, got %d", len(result.Estimates), len(times))
	}

	// Values survive the 6-decimal csv round trip.
	last := result.Estimates[len(result.Estimates)-1]
	row := rows[len(rows)-1]
	for i, want := range []float64{last.X, last.Y, last.Psi, last.V, last.A, last.Df} {
		if math.Abs(row[i]-want) > 1e-6 {
			t.Errorf("column %s: got %g, expected %g", Columns()[i], row[i], want)
		}
	}
}

func TestStoreListEmpty(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("run_0"); err == nil {
		t.Error("expected error for missing run")
	}
}
