// Package store persists benchmark runs on disk. Each run gets its own
// directory with a metadata.json (strategy, tolerances, timing, solver
// counters) and a states.csv holding the trajectory.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/odebench/odebench/internal/bench"
	"github.com/odebench/odebench/internal/ode"
)

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
	ID        string    `json:"id"`
	Problem   string    `json:"problem"`
	Timestamp time.Time `json:"timestamp"`

	Algorithm string `json:"algorithm"`
	Jacobian  string `json:"jacobian"`
	Linear    string `json:"linear"`

	Atol float64 `json:"atol"`
	Rtol float64 `json:"rtol"`

	ElapsedNs int64     `json:"elapsed_ns"`
	Stats     ode.Stats `json:"stats"`

	FinalTime float64   `json:"final_time"`
	FinalY    []float64 `json:"final_y"`
}

// Save writes one measured run plus its trajectory and returns the run
// ID.
func (s *Store) Save(tm bench.Timing, cfg ode.Config, sol *ode.Solution) (string, error) {
	// Nanosecond IDs keep rapid back-to-back runs of the same problem
	// in separate directories.
	runID := fmt.Sprintf("%s_%d", tm.Problem, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Problem:   tm.Problem,
		Timestamp: time.Now(),
		Algorithm: tm.Strategy.Algorithm,
		Jacobian:  tm.Strategy.Jacobian,
		Linear:    tm.Strategy.Linear,
		Atol:      cfg.Atol,
		Rtol:      cfg.Rtol,
		ElapsedNs: tm.Elapsed.Nanoseconds(),
		Stats:     tm.Stats,
		FinalTime: tm.FinalTime,
		FinalY:    tm.FinalY,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "states.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := writeStates(csvFile, sol); err != nil {
		return "", err
	}

	return runID, nil
}

func writeStates(out io.Writer, sol *ode.Solution) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if sol == nil || len(sol.Ys) == 0 {
		return nil
	}

	header := []string{"time"}
	for i := range sol.Ys[0] {
		header = append(header, fmt.Sprintf("y%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// Shortest float form: stiff trajectories span many orders of
	// magnitude and fixed precision would flatten the small species.
	for i, y := range sol.Ys {
		row := make([]string, 0, len(y)+1)
		row = append(row, strconv.FormatFloat(sol.Ts[i], 'g', -1, 64))
		for _, v := range y {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		state := make([]float64, 0, len(record)-1)
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			state = append(state, val)
		}
		states = append(states, state)
	}

	return states, times, nil
}
