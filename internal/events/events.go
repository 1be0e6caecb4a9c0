package events

import (
	"encoding/json"
	"time"
)

// Run lifecycle event types published on the hub.
const (
	TypeRunStarted  = "run_started"
	TypeRunProgress = "run_progress"
	TypeRunFinished = "run_finished"
)

type Event struct {
	Type string          `json:"type"`
	At   time.Time       `json:"at"`
	Data json.RawMessage `json:"data,omitempty"`
}

// RunEvent is the payload for the run_* event types.
type RunEvent struct {
	RunID        int64  `json:"runId"`
	Status       string `json:"status,omitempty"`
	TotalFetched int    `json:"totalFetched,omitempty"`
	NewJobs      int    `json:"newJobs,omitempty"`
	Duplicates   int    `json:"duplicates,omitempty"`
}

func Make(typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{Type: typ, At: time.Now().UTC(), Data: raw}
	b, _ := json.Marshal(e)
	return string(b)
}
