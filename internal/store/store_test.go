package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/odebench/odebench/internal/bench"
	"github.com/odebench/odebench/internal/ode"
)

func sampleRun() (bench.Timing, ode.Config, *ode.Solution) {
	tm := bench.Timing{
		Problem: "robertson",
		Strategy: ode.Strategy{
			Algorithm: ode.AlgoRosenbrock,
			Jacobian:  ode.JacAutodiff,
			Linear:    ode.LinDense,
		},
		Elapsed:   3 * time.Millisecond,
		Stats:     ode.Stats{Steps: 120, Evals: 360, JacEvals: 120, LinSolves: 360},
		FinalTime: 1e5,
		FinalY:    ode.State{0.008, 3e-8, 0.992},
	}
	cfg := ode.DefaultConfig()
	sol := &ode.Solution{
		Ts: []float64{0, 0.5, 1e5},
		Ys: []ode.State{
			{1, 0, 0},
			{0.98, 1e-5, 0.02},
			{0.008, 3e-8, 0.992},
		},
		Stats: tm.Stats,
	}
	return tm, cfg, sol
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	tm, cfg, sol := sampleRun()
	runID, err := st.Save(tm, cfg, sol)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Problem != "robertson" {
		t.Errorf("expected problem robertson, got %q", meta.Problem)
	}
	if meta.Algorithm != ode.AlgoRosenbrock {
		t.Errorf("expected rosenbrock, got %q", meta.Algorithm)
	}
	if meta.Stats.Steps != 120 {
		t.Errorf("expected 120 steps, got %d", meta.Stats.Steps)
	}
	if meta.ElapsedNs != tm.Elapsed.Nanoseconds() {
		t.Errorf("elapsed mismatch: %d vs %d", meta.ElapsedNs, tm.Elapsed.Nanoseconds())
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if len(states) != 3 || len(times) != 3 {
		t.Fatalf("expected 3 rows, got %d states / %d times", len(states), len(times))
	}
	// Small species must survive the round trip intact.
	if states[2][1] != 3e-8 {
		t.Errorf("lost precision on small component: %g", states[2][1])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	tm, cfg, sol := sampleRun()
	if _, err := st.Save(tm, cfg, sol); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreBackToBackSavesStayDistinct(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	tm, cfg, sol := sampleRun()
	id1, err := st.Save(tm, cfg, sol)
	if err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	id2, err := st.Save(tm, cfg, sol)
	if err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	if id1 == id2 {
		t.Fatalf("rapid saves share run id %s", id1)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	tm, cfg, sol := sampleRun()
	runID, err := st.Save(tm, cfg, sol)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(dir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "states.csv")); os.IsNotExist(err) {
		t.Error("states.csv not created")
	}
}

func TestExportJSON(t *testing.T) {
	tm, _, sol := sampleRun()

	var sb strings.Builder
	if err := ExportJSON(&sb, tm, sol); err != nil {
		t.Fatal(err)
	}

	out := sb.String()
	for _, want := range []string{`"robertson"`, `"rosenbrock"`, `"times"`, `"states"`} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %s", want)
		}
	}
}

func TestExportCSV(t *testing.T) {
	_, _, sol := sampleRun()

	var sb strings.Builder
	if err := ExportCSV(&sb, sol); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "time,y0,y1,y2" {
		t.Errorf("unexpected header: %s", lines[0])
	}
}
