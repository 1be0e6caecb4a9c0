package domain

import "time"

// RunStatus is the run state machine: running is the only non-terminal state.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunCancelled RunStatus = "cancelled"
)

func (s RunStatus) Terminal() bool { return s != RunRunning }

// Run is one execution of the discovery pipeline.
type Run struct {
	ID           int64     `json:"id"`
	Status       RunStatus `json:"status"`
	RunAt        time.Time `json:"runAt"`
	TotalFetched int       `json:"totalFetched"`
	NewJobs      int       `json:"newJobs"`
	Duplicates   int       `json:"duplicates"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	ParamsJSON   string    `json:"paramsJson,omitempty"`
}

// Match pairs a run with a listing and the score computed during that run.
// Unique per (run, listing); the same listing may score differently in later
// runs as the profile and weights evolve.
type Match struct {
	RunID     int64 `json:"runId"`
	ListingID int64 `json:"listingId"`
	Score     int   `json:"score"`
	Rank      int   `json:"rank"`
}
