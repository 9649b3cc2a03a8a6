package recorder

import (
	"time"

	"StockFetcher/internal/model"
)

// Outcome status values.
const (
	StatusSaved  = "SAVED"
	StatusEmpty  = "EMPTY"
	StatusFailed = "FAILED"
)

// CombinedTarget is the Outcome target used for the combined download.
const CombinedTarget = "*"

// Outcome is the result of one provider request.
type Outcome struct {
	Target string // ticker, or CombinedTarget
	Status string // SAVED, EMPTY or FAILED
	Rows   int
	File   string
	Error  string
}

// RunRecord holds everything one fetch run produced.
type RunRecord struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Range      model.DateRange
	Outcomes   []Outcome
}

// Recorder persists run history for later inspection.
type Recorder interface {
	RecordRun(run *RunRecord) error
	Close() error
}
