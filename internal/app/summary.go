package app

import (
	"time"

	"github.com/hyperifyio/finextract/internal/extract"
)

// Status is the outcome of processing one document.
type Status string

const (
	StatusOK      Status = "ok"
	StatusEmpty   Status = "empty"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
	// StatusLocated is used by dry runs, which stop after page location.
	StatusLocated Status = "located"
)

// DocumentResult is the per-document line of a run summary.
type DocumentResult struct {
	Document  string          `json:"document"`
	Status    Status          `json:"status"`
	Page      int             `json:"page,omitempty"`
	Financial bool            `json:"financial"`
	Tier      string          `json:"tier,omitempty"`
	Record    *extract.Record `json:"record,omitempty"`
	OutputDir string          `json:"output_dir,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Summary describes a whole run.
type Summary struct {
	RunID      string           `json:"run_id"`
	Version    string           `json:"version"`
	DryRun     bool             `json:"dry_run,omitempty"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Documents  []DocumentResult `json:"documents"`
}

// Counts tallies documents by status.
func (s Summary) Counts() map[Status]int {
	out := make(map[Status]int, 5)
	for _, d := range s.Documents {
		out[d.Status]++
	}
	return out
}

// Degraded reports whether any document finished without a usable record.
func (s Summary) Degraded() bool {
	for _, d := range s.Documents {
		if d.Status != StatusOK && d.Status != StatusLocated {
			return true
		}
	}
	return false
}

// ExitCode maps the summary to the process exit code: 0 when every document
// is ok and 1 when the run is degraded.
func (s Summary) ExitCode() int {
	if s.Degraded() {
		return 1
	}
	return 0
}
