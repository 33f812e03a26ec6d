package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/vehiclesim/internal/sim"
)

// Store saves offline runs to a directory tree: one sub-directory per run
// holding metadata.json and states.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string              `json:"id"`
	Timestamp time.Time           `json:"timestamp"`
	Dt        float64             `json:"dt"`
	DiscSteps int                 `json:"disc_steps"`
	Duration  float64             `json:"duration"`
	Schedule  []sim.ScheduleEntry `json:"schedule"`
}

var csvHeader = []string{"time", "x", "y", "psi", "v", "a", "df"}

// Save writes one run and returns its generated id.
func (s *Store) Save(duration float64, schedule []sim.ScheduleEntry, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		Dt:        sim.DtModel,
		DiscSteps: sim.DiscSteps,
		Duration:  duration,
		Schedule:  schedule,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}

	for i, est := range result.Estimates {
		row := []string{
			strconv.FormatFloat(result.Times[i], 'f', 6, 64),
			strconv.FormatFloat(est.X, 'f', 6, 64),
			strconv.FormatFloat(est.Y, 'f', 6, 64),
			strconv.FormatFloat(est.Psi, 'f', 6, 64),
			strconv.FormatFloat(est.V, 'f', 6, 64),
			strconv.FormatFloat(est.A, 'f', 6, 64),
			strconv.FormatFloat(est.Df, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSeries reads back the recorded time column and the six state columns
// (x, y, psi, v, a, df), one row per sample.
func (s *Store) LoadSeries(runID string) ([]float64, [][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return []float64{}, [][]float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	rows := make([][]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) != len(csvHeader) {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		row := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				row = nil
				break
			}
			row = append(row, val)
		}
		if row == nil {
			continue
		}

		times = append(times, t)
		rows = append(rows, row)
	}

	return times, rows, nil
}

// Columns are the state series names in csv column order, after time.
func Columns() []string {
	return csvHeader[1:]
}
