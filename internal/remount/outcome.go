package remount

import "github.com/google/uuid"

// Status classifies the result of a single share remount attempt.
type Status string

const (
	// StatusSkipped means the share's local path already existed, so the
	// mount was not attempted. Skipped is not a failure.
	StatusSkipped Status = "skipped"
	// StatusSucceeded means the mount command ran and succeeded.
	StatusSucceeded Status = "succeeded"
	// StatusFailed means the mount command ran and reported failure.
	StatusFailed Status = "failed"
)

// Outcome is the result for one share within a remount pass.
type Outcome struct {
	Share  string
	Status Status
	// Reason is set only for StatusFailed.
	Reason string
}

// Summary aggregates the outcomes of one remount pass. Every pass gets a
// PassID so its log lines can be correlated.
type Summary struct {
	PassID   uuid.UUID
	Outcomes []Outcome
}

// Failed returns the outcomes that failed.
func (s Summary) Failed() []Outcome {
	var failed []Outcome
	for _, o := range s.Outcomes {
		if o.Status == StatusFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

// Successful reports whether the pass as a whole succeeded: no outcome
// failed. Skipped outcomes count as non-failure.
func (s Summary) Successful() bool {
	return len(s.Failed()) == 0
}
