package agent

import (
	"context"
	"fmt"
	"time"

	"mktcontext/internal/job"
	"mktcontext/internal/llm"
	"mktcontext/internal/logging"
	"mktcontext/internal/prompt"
)

// State represents the current state of the quality loop.
type State string

const (
	StateIdle     State = "idle"
	StateResearch State = "research"
	StateGenerate State = "generate"
	StateReview   State = "review"
	StateGather   State = "gather_data"
	StateAccepted State = "accepted"
)

// LoopConfig holds configuration for the quality loop.
type LoopConfig struct {
	// ScoreThreshold ends the loop early when a review scores at or above
	// it. 0-10 scale.
	ScoreThreshold float64

	// MaxIterations caps the generate/review cycles.
	MaxIterations int

	// WordCount is the target commentary length passed to the prompts.
	WordCount int
}

// DefaultLoopConfig returns sensible defaults.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		ScoreThreshold: 9.0,
		MaxIterations:  5,
		WordCount:      400,
	}
}

// StateTransition records one state change for debugging.
type StateTransition struct {
	From      State
	To        State
	Iteration int
	Timestamp time.Time
}

// Result is the outcome of a completed quality loop.
type Result struct {
	Text       string
	Scored     bool
	Score      float64
	Iterations []job.Iteration
}

// Loop drives commentary generation through bounded generate/review cycles.
//
// The loop itself has no side effects beyond its iteration history; all job
// mutation happens in the runner. Steps run strictly sequentially: a review
// depends on the text generated immediately before it.
type Loop struct {
	config  LoopConfig
	client  llm.Client
	prompts *prompt.Builder

	state      State
	iterations []job.Iteration
	history    []StateTransition
}

// NewLoop creates a quality loop with default configuration.
func NewLoop(client llm.Client, templates prompt.Templates) *Loop {
	return NewLoopWithConfig(client, templates, DefaultLoopConfig())
}

// NewLoopWithConfig creates a quality loop with custom configuration.
func NewLoopWithConfig(client llm.Client, templates prompt.Templates, config LoopConfig) *Loop {
	if config.MaxIterations <= 0 {
		config.MaxIterations = DefaultLoopConfig().MaxIterations
	}
	if config.ScoreThreshold <= 0 {
		config.ScoreThreshold = DefaultLoopConfig().ScoreThreshold
	}
	if config.WordCount <= 0 {
		config.WordCount = DefaultLoopConfig().WordCount
	}
	return &Loop{
		config:  config,
		client:  client,
		prompts: prompt.NewBuilder(templates, config.WordCount),
		state:   StateIdle,
	}
}

// State returns the current loop state.
func (l *Loop) State() State {
	return l.state
}

// History returns the state transitions recorded so far.
func (l *Loop) History() []StateTransition {
	return append([]StateTransition{}, l.history...)
}

// Iterations returns the iteration records so far.
func (l *Loop) Iterations() []job.Iteration {
	return append([]job.Iteration{}, l.iterations...)
}

func (l *Loop) transition(to State, iteration int) {
	l.history = append(l.history, StateTransition{
		From:      l.state,
		To:        to,
		Iteration: iteration,
		Timestamp: time.Now(),
	})
	logging.AgentDebug("state %s -> %s (iteration %d)", l.state, to, iteration)
	l.state = to
}

// Run executes the quality loop for one request and returns the accepted
// result. The only error condition is a loop that never produced usable
// text; partial per-step failures degrade the loop but do not abort it.
func (l *Loop) Run(ctx context.Context, req job.Request) (*Result, error) {
	timer := logging.StartTimer(logging.CategoryAgent, "quality loop")
	defer timer.StopWithInfo()

	l.iterations = nil
	period := req.Period()

	l.transition(StateResearch, 0)
	research := l.prompts.Research(period)

	var (
		gathered string
		feedback string
		lastErr  string
	)

	for i := 1; i <= l.config.MaxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		it := job.Iteration{
			Index:     i,
			StartedAt: time.Now(),
		}

		l.transition(StateGenerate, i)
		userPrompt := l.prompts.Commentary(
			req.StrategyName, period, req.Benchmark,
			research, gathered, feedback, req.CustomInstructions,
		)
		text, err := l.client.CompleteWithSystem(ctx, l.prompts.System(), userPrompt)
		if err != nil {
			// Recover locally: record the failure and keep looping with
			// whatever inputs we still have.
			it.GenErr = err.Error()
			lastErr = err.Error()
			logging.Agent("iteration %d: generation failed: %v", i, err)
		} else {
			it.Text = text
		}

		l.transition(StateReview, i)
		if it.Usable() {
			l.review(ctx, &it, req.StrategyName)
		}

		it.FinishedAt = time.Now()
		l.iterations = append(l.iterations, it)

		if it.Scored && it.Score >= l.config.ScoreThreshold {
			logging.Agent("iteration %d scored %.1f >= %.1f, accepting", i, it.Score, l.config.ScoreThreshold)
			break
		}
		if i == l.config.MaxIterations {
			logging.Agent("iteration cap %d reached", l.config.MaxIterations)
			break
		}

		l.transition(StateGather, i)
		if len(it.MissingData) > 0 {
			if data := l.gather(ctx, it, req); data != "" {
				gathered = data
			}
		}
		feedback = it.Feedback
	}

	l.transition(StateAccepted, len(l.iterations))

	best := bestIteration(l.iterations)
	if best == nil {
		if lastErr == "" {
			lastErr = "model returned no text"
		}
		return nil, fmt.Errorf("no usable commentary after %d iterations: %s", len(l.iterations), lastErr)
	}

	return &Result{
		Text:       best.Text,
		Scored:     best.Scored,
		Score:      best.Score,
		Iterations: l.Iterations(),
	}, nil
}

// review runs the quality-review call for an iteration and folds the parsed
// score, feedback and missing-data prompts into it. Review failures leave
// the iteration unscored; they never abort the loop.
func (l *Loop) review(ctx context.Context, it *job.Iteration, strategy string) {
	raw, err := l.client.Complete(ctx, l.prompts.Review(strategy, it.Text))
	if err != nil {
		logging.Agent("iteration %d: review call failed: %v", it.Index, err)
		return
	}

	rev, err := ParseReview(raw)
	// Feedback and missing-data prompts are kept even from a malformed
	// review; only the score is treated as absent.
	it.Feedback = rev.Feedback
	it.MissingData = rev.MissingData
	if err != nil {
		logging.Agent("iteration %d: %v", it.Index, err)
		return
	}
	it.Scored = true
	it.Score = rev.Score
	logging.Agent("iteration %d scored %.1f", it.Index, rev.Score)
}

// gather runs the data-gathering call for the next generation round.
// Failures degrade to an empty result.
func (l *Loop) gather(ctx context.Context, it job.Iteration, req job.Request) string {
	data, err := l.client.Complete(ctx, l.prompts.DataGatherer(
		it.MissingData, it.Feedback, req.StrategyName, req.Period(), req.Benchmark,
	))
	if err != nil {
		logging.Agent("iteration %d: data gathering failed: %v", it.Index, err)
		return ""
	}
	return data
}

// bestIteration folds the iteration history into the accepted result:
// the highest-scoring iteration wins, ties going to the earliest. An
// unscored iteration never beats a scored one; when nothing scored at all,
// the most recent usable iteration is returned. Nil means no usable text
// was ever produced.
func bestIteration(iterations []job.Iteration) *job.Iteration {
	var best *job.Iteration
	for i := range iterations {
		it := &iterations[i]
		if !it.Usable() || !it.Scored {
			continue
		}
		if best == nil || it.Score > best.Score {
			best = it
		}
	}
	if best != nil {
		return best
	}

	// No scored iteration: fall back to the latest usable text.
	for i := len(iterations) - 1; i >= 0; i-- {
		if iterations[i].Usable() {
			return &iterations[i]
		}
	}
	return nil
}
