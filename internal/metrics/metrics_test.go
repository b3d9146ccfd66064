package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRun_SetUnits(t *testing.T) {
	r := NewRun()
	r.SetUnits(Flows{Planned: 200, Allocated: 150, Backorder: 50, Actual: 140, Receipts: 90})

	if got := testutil.ToFloat64(r.fillRate); got != 0.75 {
		t.Errorf("Expected fill rate 0.75, got %v", got)
	}
	if got := testutil.ToFloat64(r.units.WithLabelValues("backorder")); got != 50 {
		t.Errorf("Expected 50 backorder units, got %v", got)
	}

	r.SetUnits(Flows{})
	if got := testutil.ToFloat64(r.fillRate); got != 1 {
		t.Errorf("Expected fill rate 1 with no plan, got %v", got)
	}
}

func TestRun_WriteTextfile(t *testing.T) {
	r := NewRun()
	r.SetInfo("abc", 42, 104, 600)
	r.ObserveStage("allocate", 1500*time.Millisecond)
	r.SetTableRows("fact_plan", 12)
	r.AddStockouts(3)

	path := filepath.Join(t.TempDir(), FileName)
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("Expected write to succeed, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{
		`retailsim_run_info{run_id="abc",seed="42",skus="600",weeks="104"} 1`,
		`retailsim_stage_duration_seconds{stage="allocate"} 1.5`,
		`retailsim_table_rows{table="fact_plan"} 12`,
		`retailsim_stockout_lines_total 3`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q\n%s", want, out)
		}
	}
}

func TestRun_RegistryIsolated(t *testing.T) {
	a, b := NewRun(), NewRun()
	a.ObserveStage("plan", time.Second)
	a.ObserveStage("allocate", 2*time.Second)

	n, err := testutil.GatherAndCount(a.Registry(), "retailsim_stage_duration_seconds")
	if err != nil {
		t.Fatalf("Expected gather to succeed, got %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 stage series, got %d", n)
	}

	n, err = testutil.GatherAndCount(b.Registry(), "retailsim_stage_duration_seconds")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Expected a fresh run to have no stage series, got %d", n)
	}
}
