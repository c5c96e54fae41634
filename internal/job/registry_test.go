package job

import (
	"testing"
	"time"
)

func newTestRequest() Request {
	return Request{
		StrategyName: "US Equity Core",
		Quarter:      "Q1",
		Year:         2024,
		Benchmark:    "S&P 500",
	}
}

func TestRegistry_CreateStartsPending(t *testing.T) {
	r := NewRegistry()
	j := r.Create(newTestRequest())

	if j.ID == "" {
		t.Fatal("expected non-empty job ID")
	}
	if j.Status != StatusPending {
		t.Errorf("expected pending, got %s", j.Status)
	}
	if j.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if got := r.Get(j.ID); got != j {
		t.Error("Get must return the created job")
	}
}

func TestRegistry_LifecycleHappyPath(t *testing.T) {
	r := NewRegistry()
	j := r.Create(newTestRequest())

	if !r.Start(j.ID) {
		t.Fatal("Start on pending job must succeed")
	}
	if j.Status != StatusRunning {
		t.Errorf("expected running, got %s", j.Status)
	}

	if !r.Complete(j.ID, "Final commentary text.", 9.2, true) {
		t.Fatal("Complete on running job must succeed")
	}
	if j.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", j.Status)
	}
	if j.FinalText != "Final commentary text." {
		t.Errorf("unexpected final text: %q", j.FinalText)
	}
	if !j.FinalScored || j.FinalScore != 9.2 {
		t.Errorf("unexpected final score: scored=%v score=%v", j.FinalScored, j.FinalScore)
	}
	if !j.Status.Terminal() {
		t.Error("completed must be terminal")
	}
}

func TestRegistry_IllegalTransitionsAreNoOps(t *testing.T) {
	r := NewRegistry()
	j := r.Create(newTestRequest())

	// Complete and Fail require running.
	if r.Complete(j.ID, "text", 9.0, true) {
		t.Error("Complete on pending job must fail")
	}
	if r.Fail(j.ID, "boom") {
		t.Error("Fail on pending job must fail")
	}
	if j.Status != StatusPending {
		t.Errorf("failed transition must not change status, got %s", j.Status)
	}

	r.Start(j.ID)
	if r.Start(j.ID) {
		t.Error("Start on running job must fail")
	}

	r.Complete(j.ID, "text", 9.0, true)

	// Terminal states accept nothing.
	if r.Start(j.ID) || r.Fail(j.ID, "late") || r.Cancel(j.ID) || r.Complete(j.ID, "again", 1.0, true) {
		t.Error("no transition may leave a terminal state")
	}
	if j.Status != StatusCompleted {
		t.Errorf("terminal status must be preserved, got %s", j.Status)
	}
	if j.FinalText != "text" {
		t.Errorf("terminal result must be preserved, got %q", j.FinalText)
	}
}

func TestRegistry_UnknownIDs(t *testing.T) {
	r := NewRegistry()

	if r.Get("missing") != nil {
		t.Error("Get on unknown ID must return nil")
	}
	if r.Start("missing") || r.Complete("missing", "", 0, false) ||
		r.Fail("missing", "") || r.Cancel("missing") || r.Delete("missing") {
		t.Error("mutations on unknown IDs must return false")
	}
	if r.AppendIteration("missing", Iteration{Index: 1}) {
		t.Error("AppendIteration on unknown ID must return false")
	}
}

func TestRegistry_FailRecordsError(t *testing.T) {
	r := NewRegistry()
	j := r.Create(newTestRequest())
	r.Start(j.ID)

	if !r.Fail(j.ID, "no usable commentary after 5 iterations") {
		t.Fatal("Fail on running job must succeed")
	}
	if j.Status != StatusFailed {
		t.Errorf("expected failed, got %s", j.Status)
	}
	if j.Error != "no usable commentary after 5 iterations" {
		t.Errorf("unexpected error message: %q", j.Error)
	}
}

func TestRegistry_CancelPendingAndRunning(t *testing.T) {
	r := NewRegistry()

	pending := r.Create(newTestRequest())
	if !r.Cancel(pending.ID) {
		t.Error("Cancel on pending job must succeed")
	}
	if pending.Status != StatusCancelled {
		t.Errorf("expected cancelled, got %s", pending.Status)
	}

	running := r.Create(newTestRequest())
	r.Start(running.ID)
	if !r.Cancel(running.ID) {
		t.Error("Cancel on running job must succeed")
	}

	done := r.Create(newTestRequest())
	r.Start(done.ID)
	r.Complete(done.ID, "text", 9.0, true)
	if r.Cancel(done.ID) {
		t.Error("Cancel on completed job must fail")
	}
}

func TestRegistry_Delete(t *testing.T) {
	r := NewRegistry()
	j := r.Create(newTestRequest())

	if !r.Delete(j.ID) {
		t.Fatal("Delete on existing job must succeed")
	}
	if r.Get(j.ID) != nil {
		t.Error("deleted job must not be retrievable")
	}
	if r.Delete(j.ID) {
		t.Error("second Delete must fail")
	}
}

func TestRegistry_ListNewestFirst(t *testing.T) {
	r := NewRegistry()
	first := r.Create(newTestRequest())
	// CreatedAt has nanosecond resolution but keep the ordering unambiguous.
	time.Sleep(time.Millisecond)
	second := r.Create(newTestRequest())

	jobs := r.List()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != second.ID || jobs[1].ID != first.ID {
		t.Error("List must return newest jobs first")
	}
}

func TestRegistry_AppendIteration(t *testing.T) {
	r := NewRegistry()
	j := r.Create(newTestRequest())

	r.AppendIteration(j.ID, Iteration{Index: 1, Text: "draft one"})
	r.AppendIteration(j.ID, Iteration{Index: 2, Text: "draft two", Scored: true, Score: 9.1})

	if len(j.Iterations) != 2 {
		t.Fatalf("expected 2 iterations, got %d", len(j.Iterations))
	}
	if j.Iterations[1].Score != 9.1 {
		t.Errorf("unexpected score on iteration 2: %v", j.Iterations[1].Score)
	}
}

func TestRegistry_Summary(t *testing.T) {
	r := NewRegistry()

	r.Create(newTestRequest()) // pending

	running := r.Create(newTestRequest())
	r.Start(running.ID)

	completed := r.Create(newTestRequest())
	r.Start(completed.ID)
	r.Complete(completed.ID, "text", 9.0, true)

	failed := r.Create(newTestRequest())
	r.Start(failed.ID)
	r.Fail(failed.ID, "boom")

	cancelled := r.Create(newTestRequest())
	r.Cancel(cancelled.ID)

	s := r.Summary()
	if s.Total != 5 {
		t.Errorf("expected total 5, got %d", s.Total)
	}
	if s.Pending != 1 || s.Running != 1 || s.Completed != 1 || s.Failed != 1 || s.Cancelled != 1 {
		t.Errorf("unexpected summary: %+v", s)
	}
}

func TestRequest_Period(t *testing.T) {
	req := Request{Quarter: "Q3", Year: 2023}
	if got := req.Period(); got != "Q3 2023" {
		t.Errorf("expected %q, got %q", "Q3 2023", got)
	}
}

func TestIteration_Usable(t *testing.T) {
	if (Iteration{Text: "draft"}).Usable() != true {
		t.Error("iteration with text must be usable")
	}
	if (Iteration{}).Usable() {
		t.Error("iteration without text must not be usable")
	}
	if (Iteration{Text: "draft", GenErr: "boom"}).Usable() {
		t.Error("iteration with a generation error must not be usable")
	}
}

func TestJob_ShortID(t *testing.T) {
	j := &Job{ID: "0123456789abcdef"}
	if got := j.ShortID(); got != "01234567" {
		t.Errorf("expected 8-char short ID, got %q", got)
	}
	short := &Job{ID: "abc"}
	if got := short.ShortID(); got != "abc" {
		t.Errorf("short IDs pass through, got %q", got)
	}
}
