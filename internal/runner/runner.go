// Package runner glues the job registry to the quality loop: it owns the
// job state transitions around a run and is the outermost error boundary.
package runner

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"mktcontext/internal/agent"
	"mktcontext/internal/job"
	"mktcontext/internal/llm"
	"mktcontext/internal/logging"
	"mktcontext/internal/prompt"
)

// Runner executes jobs against the quality loop.
type Runner struct {
	registry  *job.Registry
	client    llm.Client
	templates prompt.Templates
	loopCfg   agent.LoopConfig
}

// New creates a runner over a registry and an LLM client.
func New(registry *job.Registry, client llm.Client, templates prompt.Templates, loopCfg agent.LoopConfig) *Runner {
	return &Runner{
		registry:  registry,
		client:    client,
		templates: templates,
		loopCfg:   loopCfg,
	}
}

// Registry exposes the underlying registry for read operations.
func (r *Runner) Registry() *job.Registry {
	return r.registry
}

// RunResult summarizes one job run for the caller.
type RunResult struct {
	JobID      string
	Success    bool
	Text       string
	Scored     bool
	Score      float64
	Iterations int
	Err        string
	Duration   time.Duration
}

// Run executes the job with the given ID through the quality loop.
//
// The returned error covers caller mistakes only (unknown job, job not
// pending). Everything that goes wrong inside the loop is absorbed here and
// recorded on the job as a failed state; it never propagates as a Go error.
func (r *Runner) Run(ctx context.Context, id string) (*RunResult, error) {
	j := r.registry.Get(id)
	if j == nil {
		return nil, fmt.Errorf("job %s not found", id)
	}
	if !r.registry.Start(id) {
		return nil, fmt.Errorf("job %s is %s, cannot start", j.ShortID(), j.Status)
	}

	start := time.Now()
	req := j.Request // immutable snapshot; the loop never sees the Job

	loop := agent.NewLoopWithConfig(r.client, r.templates, r.loopCfg)
	res, err := loop.Run(ctx, req)

	// Record the iteration history whether or not the loop succeeded.
	for _, it := range loop.Iterations() {
		r.registry.AppendIteration(id, it)
	}

	duration := time.Since(start)

	if err != nil {
		r.registry.Fail(id, err.Error())
		return &RunResult{
			JobID:      id,
			Success:    false,
			Iterations: len(loop.Iterations()),
			Err:        err.Error(),
			Duration:   duration,
		}, nil
	}

	r.registry.Complete(id, res.Text, res.Score, res.Scored)
	logging.Jobs("job %s ran %d iterations in %v", j.ShortID(), len(res.Iterations), duration)

	return &RunResult{
		JobID:      id,
		Success:    true,
		Text:       res.Text,
		Scored:     res.Scored,
		Score:      res.Score,
		Iterations: len(res.Iterations),
		Duration:   duration,
	}, nil
}

// Export writes a completed job's commentary to a text file with a metadata
// header, returning the path written.
func (r *Runner) Export(id, path string) (string, error) {
	j := r.registry.Get(id)
	if j == nil {
		return "", fmt.Errorf("job %s not found", id)
	}
	return Export(j, path)
}

// Export writes the job's final commentary to a text file with a metadata
// header, returning the path written. An empty path derives a filename from
// the job's strategy and period.
func Export(j *job.Job, path string) (string, error) {
	if j.FinalText == "" {
		return "", fmt.Errorf("job %s has no result to save", j.ShortID())
	}

	if path == "" {
		path = DefaultExportPath(j)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Market Context for %s - %s\n", j.Request.StrategyName, j.Request.Period()))
	sb.WriteString(fmt.Sprintf("Generated on: %s\n", time.Now().Format("2006-01-02 15:04:05")))
	if j.FinalScored {
		sb.WriteString(fmt.Sprintf("Quality Score: %.1f/10\n", j.FinalScore))
	} else {
		sb.WriteString("Quality Score: not available\n")
	}
	sb.WriteString(fmt.Sprintf("Benchmark: %s\n", j.Request.Benchmark))
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")
	sb.WriteString(j.FinalText)
	sb.WriteString("\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to save result: %w", err)
	}
	return path, nil
}

// DefaultExportPath derives an export filename from a job's request.
func DefaultExportPath(j *job.Job) string {
	strategy := strings.ReplaceAll(j.Request.StrategyName, " ", "_")
	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("market_context_%s_%s_%d_%s.txt", strategy, j.Request.Quarter, j.Request.Year, timestamp)
}
