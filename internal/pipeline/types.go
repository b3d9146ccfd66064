package pipeline

import (
	"fmt"
	"time"

	"github.com/andresuchdata/retailsim/internal/allocation"
	"github.com/andresuchdata/retailsim/internal/export"
	"github.com/google/uuid"
)

// ManifestFile is the name of the run manifest in the output directory.
const ManifestFile = "manifest.json"

// RunStatus represents the current state of a simulation run
type RunStatus string

const (
	StatusPending    RunStatus = "pending"
	StatusProcessing RunStatus = "processing"
	StatusCompleted  RunStatus = "completed"
	StatusFailed     RunStatus = "failed"
)

// Stage names, in execution order.
const (
	StageDimensions = "dimensions"
	StagePlan       = "plan"
	StageAllocate   = "allocate"
	StageRollup     = "rollup"
	StageExport     = "export"
)

// StageTiming records how long one stage took.
type StageTiming struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
}

// Manifest describes a single execution of the simulation.
type Manifest struct {
	RunID        string            `json:"run_id"`
	Seed         int64             `json:"seed"`
	Weeks        int               `json:"weeks"`
	SKUs         int               `json:"skus"`
	StartDate    string            `json:"start_date"`
	Status       RunStatus         `json:"status"`
	StartedAt    time.Time         `json:"started_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
	Stages       []StageTiming     `json:"stages"`
	Files        []export.File     `json:"files,omitempty"`
	Totals       allocation.Totals `json:"totals"`
	ErrorMessage string            `json:"error,omitempty"`
}

// runNamespace scopes run ids generated by this tool.
var runNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/andresuchdata/retailsim"))

// RunID derives a stable id from the inputs that determine the output.
func RunID(seed int64, weeks, skus int, start time.Time, maxLines int) string {
	name := fmt.Sprintf("seed=%d;weeks=%d;skus=%d;start=%s;lines=%d",
		seed, weeks, skus, start.Format("2006-01-02"), maxLines)
	return uuid.NewSHA1(runNamespace, []byte(name)).String()
}
