// Package progress defines the event structures emitted by the discovery
// pipeline and the sinks that consume them.
package progress

import (
	"errors"
	"fmt"
	"time"
)

// Stage denotes the type of milestone represented by an Event.
type Stage string

// Supported progress stages.
const (
	StageSubjectStart Stage = "SUBJECT_START"
	StageSubjectDone  Stage = "SUBJECT_DONE"
	StageSubjectError Stage = "SUBJECT_ERROR"
	StageBatchStart   Stage = "BATCH_START"
	StageBatchDone    Stage = "BATCH_DONE"
	StagePause        Stage = "PAUSE"
	StageRunDone      Stage = "RUN_DONE"
)

// Summary aggregates per-batch (or per-run) subject accounting.
type Summary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// Add folds one batch summary into a cumulative one.
func (s *Summary) Add(other Summary) {
	s.Total += other.Total
	s.Successful += other.Successful
	s.Failed += other.Failed
}

// Event captures a single milestone of pipeline progress.
type Event struct {
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage denotes which milestone occurred.
	Stage Stage
	// SubjectID and SubjectName scope subject-level events.
	SubjectID   string
	SubjectName string
	// Batch numbers batches within an auto-continuation run, starting at 1.
	Batch int
	// Summary carries counts on batch/run completion events.
	Summary Summary
	// Dur captures wall time for subject completions and pause lengths.
	Dur time.Duration
	// Note lets emitters attach low-volume context (e.g. error text).
	Note string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageSubjectStart, StageSubjectDone, StageSubjectError:
		if e.SubjectID == "" {
			return errors.New("subject events require a subject id")
		}
	case StageBatchStart, StageBatchDone:
		if e.Batch <= 0 {
			return errors.New("batch events require a batch number")
		}
	case StagePause, StageRunDone:
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}
