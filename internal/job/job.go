// Package job tracks commentary generation work as in-memory jobs.
// Jobs move along one-directional status edges; the registry is the only
// mutator. Nothing here is durable: job state lives for the process only.
package job

import (
	"strconv"
	"strings"
	"time"
)

// Status represents the state of a job in its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition is legal from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Request describes one commentary generation request. It is built once
// per job and never mutated.
type Request struct {
	StrategyName       string
	Quarter            string // Q1..Q4
	Year               int
	Benchmark          string
	CustomInstructions string
}

// Period returns the request period as "Q1 2024".
func (r Request) Period() string {
	return r.Quarter + " " + strconv.Itoa(r.Year)
}

// Iteration records one generate+review cycle of the quality loop.
// Iterations are appended by the loop and never mutated afterwards.
type Iteration struct {
	Index       int
	Text        string
	Scored      bool // false when the review carried no parseable score
	Score       float64
	Feedback    string
	MissingData []string
	GenErr      string // non-empty when the generate step failed
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Usable reports whether this iteration produced commentary text.
func (it Iteration) Usable() bool {
	return it.GenErr == "" && it.Text != ""
}

// WordCount returns the number of words in the iteration's text.
func (it Iteration) WordCount() int {
	return len(strings.Fields(it.Text))
}

// Job represents one end-to-end commentary generation and its outcome.
type Job struct {
	ID      string
	Request Request

	Status      Status
	CreatedAt   time.Time
	StartedAt   time.Time
	CompletedAt time.Time

	Iterations []Iteration

	FinalText   string
	FinalScored bool
	FinalScore  float64
	Error       string
}

// ShortID returns the first 8 characters of the job ID for display.
func (j *Job) ShortID() string {
	if len(j.ID) <= 8 {
		return j.ID
	}
	return j.ID[:8]
}
