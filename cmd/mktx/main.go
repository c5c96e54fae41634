// Command mktx generates Market Context sections for quarterly portfolio
// commentaries by driving an LLM through a bounded quality-improvement loop.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mktcontext/internal/agent"
	"mktcontext/internal/config"
	"mktcontext/internal/job"
	"mktcontext/internal/llm"
	"mktcontext/internal/logging"
	"mktcontext/internal/prompt"
	"mktcontext/internal/runner"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger
	logger *zap.Logger

	// Jobs live for the process only; every invocation starts empty.
	registry = job.NewRegistry()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mktx",
	Short: "mktx - Market Context commentary generator",
	Long: `mktx generates the Market Context section of a quarterly portfolio
commentary for a given strategy and period.

Generation runs through a quality loop: the commentary is drafted, reviewed
and scored by the model, missing data is gathered, and the draft is
regenerated until it reaches the quality threshold or the iteration cap.
The best-scoring draft is kept.

Job state is held in memory for the lifetime of the process; use "mktx run"
to create and execute a job in one step.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if err := logging.Initialize(config.DefaultStateDir()); err != nil {
			logger.Warn("file logging unavailable", zap.Error(err))
		}
		logging.CLI("command: %s %v", cmd.Name(), args)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// loadConfig loads the user config from --config or the default path.
func loadConfig() (*config.UserConfig, error) {
	path := configPath
	if path == "" {
		path = config.DefaultUserConfigPath()
	}
	return config.LoadUserConfig(path)
}

// newRunner builds the runner stack: config, LLM client, prompt templates.
// Fails fast when no API credential is configured.
func newRunner(overrides func(*agent.LoopConfig)) (*runner.Runner, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	templates, err := prompt.Load(cfg.PromptsFile)
	if err != nil {
		return nil, err
	}

	agentCfg := cfg.GetAgentConfig()
	loopCfg := agent.LoopConfig{
		ScoreThreshold: agentCfg.ScoreThreshold,
		MaxIterations:  agentCfg.MaxIterations,
		WordCount:      agentCfg.WordCount,
	}
	if overrides != nil {
		overrides(&loopCfg)
	}

	return runner.New(registry, client, templates, loopCfg), nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(summaryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
