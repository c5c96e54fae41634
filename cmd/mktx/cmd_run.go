package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mktcontext/internal/agent"
	"mktcontext/internal/config"
	"mktcontext/internal/job"
	"mktcontext/internal/logging"
)

var (
	runStrategy      string
	runQuarter       string
	runYear          int
	runBenchmark     string
	runInstructions  string
	runOut           string
	runMaxIterations int
	runThreshold     float64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate a market context commentary",
	Long: `Create a generation job and run it to completion.

The quality loop drafts the commentary, has the model review and score it,
gathers any data the reviewer flagged as missing, and regenerates until the
score threshold is met or the iteration cap is reached. The best-scoring
draft wins.`,
	Example: `  mktx run --strategy "US Equity Core" --quarter Q1 --year 2024
  mktx run --strategy "Global Bond" --quarter Q3 --year 2023 --benchmark "Bloomberg Agg" --out commentary.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		quarter, err := parseQuarter(runQuarter)
		if err != nil {
			return err
		}
		if runYear < 1900 || runYear > 2200 {
			return fmt.Errorf("invalid year: %d", runYear)
		}

		r, err := newRunner(func(cfg *agent.LoopConfig) {
			if cmd.Flags().Changed("max-iterations") {
				cfg.MaxIterations = runMaxIterations
			}
			if cmd.Flags().Changed("threshold") {
				cfg.ScoreThreshold = runThreshold
			}
		})
		if err != nil {
			return err
		}

		req := job.Request{
			StrategyName:       runStrategy,
			Quarter:            quarter,
			Year:               runYear,
			Benchmark:          runBenchmark,
			CustomInstructions: runInstructions,
		}

		j := registry.Create(req)

		fmt.Printf("Generating market context for %s (%s)...\n", req.StrategyName, req.Period())
		start := time.Now()

		res, err := r.Run(cmd.Context(), j.ID)
		if err != nil {
			return err
		}

		logger.Info("run finished",
			zap.String("job_id", j.ID),
			zap.Bool("success", res.Success),
			zap.Int("iterations", res.Iterations),
			zap.Duration("duration", time.Since(start)))

		fmt.Println(renderJobDetail(registry.Get(j.ID)))

		if !res.Success {
			return fmt.Errorf("generation failed: %s", res.Err)
		}

		if runOut != "" {
			path, err := r.Export(j.ID, runOut)
			if err != nil {
				return err
			}
			logging.CLI("exported job %s to %s", j.ShortID(), path)
			fmt.Printf("Saved to %s\n", path)
		}
		return nil
	},
}

// parseQuarter validates a quarter flag value and normalizes it to "Q1".."Q4".
func parseQuarter(s string) (string, error) {
	switch s {
	case "Q1", "q1", "1":
		return "Q1", nil
	case "Q2", "q2", "2":
		return "Q2", nil
	case "Q3", "q3", "3":
		return "Q3", nil
	case "Q4", "q4", "4":
		return "Q4", nil
	}
	return "", fmt.Errorf("invalid quarter %q (expected Q1..Q4)", s)
}

func init() {
	runCmd.Flags().StringVar(&runStrategy, "strategy", "", "strategy name (required)")
	runCmd.Flags().StringVar(&runQuarter, "quarter", "", "quarter, Q1..Q4 (required)")
	runCmd.Flags().IntVar(&runYear, "year", 0, "year (required)")
	runCmd.Flags().StringVar(&runBenchmark, "benchmark", config.DefaultBenchmark, "benchmark index")
	runCmd.Flags().StringVar(&runInstructions, "instructions", "", "additional instructions for the writer")
	runCmd.Flags().StringVar(&runOut, "out", "", "write the final commentary to this file")
	runCmd.Flags().IntVar(&runMaxIterations, "max-iterations", config.DefaultMaxIterations, "iteration cap for the quality loop")
	runCmd.Flags().Float64Var(&runThreshold, "threshold", config.DefaultScoreThreshold, "quality score threshold (0-10)")

	_ = runCmd.MarkFlagRequired("strategy")
	_ = runCmd.MarkFlagRequired("quarter")
	_ = runCmd.MarkFlagRequired("year")
}
