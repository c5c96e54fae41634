package job

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"mktcontext/internal/logging"
)

// Summary holds per-status job counts.
type Summary struct {
	Total     int
	Pending   int
	Running   int
	Completed int
	Failed    int
	Cancelled int
}

// Registry is an in-memory store of jobs keyed by ID.
//
// Every mutating operation checks the current status and returns false
// without changing anything when the transition is illegal. The registry is
// written for single-threaded callers; the mutex only keeps accidental
// concurrent use from corrupting the map, it is not a scheduling guarantee.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		jobs: make(map[string]*Job),
	}
}

// Create registers a new pending job for the given request.
func (r *Registry) Create(req Request) *Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	j := &Job{
		ID:        uuid.New().String(),
		Request:   req,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	r.jobs[j.ID] = j

	logging.Jobs("created job %s: %s %s", j.ShortID(), req.StrategyName, req.Period())
	return j
}

// Get returns the job with the given ID, or nil.
func (r *Registry) Get(id string) *Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.jobs[id]
}

// List returns all jobs sorted by creation time, newest first.
func (r *Registry) List() []*Job {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool {
		return out[i].CreatedAt.After(out[k].CreatedAt)
	})
	return out
}

// Start transitions pending -> running. Returns false for any other state.
func (r *Registry) Start(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok || j.Status != StatusPending {
		return false
	}
	j.Status = StatusRunning
	j.StartedAt = time.Now()

	logging.Jobs("started job %s", j.ShortID())
	return true
}

// Complete transitions running -> completed with the final result.
// scored=false records a completion whose review never produced a score.
func (r *Registry) Complete(id, finalText string, score float64, scored bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok || j.Status != StatusRunning {
		return false
	}
	j.Status = StatusCompleted
	j.CompletedAt = time.Now()
	j.FinalText = finalText
	j.FinalScore = score
	j.FinalScored = scored

	logging.Jobs("completed job %s (score=%.1f scored=%v)", j.ShortID(), score, scored)
	return true
}

// Fail transitions running -> failed with an error message.
func (r *Registry) Fail(id, message string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok || j.Status != StatusRunning {
		return false
	}
	j.Status = StatusFailed
	j.CompletedAt = time.Now()
	j.Error = message

	logging.Jobs("failed job %s: %s", j.ShortID(), message)
	return true
}

// Cancel transitions pending or running -> cancelled.
// Cancellation cannot interrupt an in-flight generation call; it only
// prevents a pending job from starting.
func (r *Registry) Cancel(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok || (j.Status != StatusPending && j.Status != StatusRunning) {
		return false
	}
	j.Status = StatusCancelled
	j.CompletedAt = time.Now()

	logging.Jobs("cancelled job %s", j.ShortID())
	return true
}

// Delete removes a job entirely. Returns false if the ID is unknown.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[id]; !ok {
		return false
	}
	delete(r.jobs, id)
	return true
}

// AppendIteration records one quality-loop iteration on the job's history.
func (r *Registry) AppendIteration(id string, it Iteration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok {
		return false
	}
	j.Iterations = append(j.Iterations, it)
	return true
}

// Summary returns per-status counts across all jobs.
func (r *Registry) Summary() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Summary{Total: len(r.jobs)}
	for _, j := range r.jobs {
		switch j.Status {
		case StatusPending:
			s.Pending++
		case StatusRunning:
			s.Running++
		case StatusCompleted:
			s.Completed++
		case StatusFailed:
			s.Failed++
		case StatusCancelled:
			s.Cancelled++
		}
	}
	return s
}
