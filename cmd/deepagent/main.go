// Command deepagent answers research questions with an orchestrating agent
// that plans with todos, delegates topics to isolated sub-agents, and keeps
// its findings in a virtual file system.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPaths []string
	agentDirs   []string
	modelFlag   string
	maxTurns    int
	debug       bool
	showFiles   bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "deepagent",
	Short: "Research agent with planning, delegation and a virtual file system",
	Long: `deepagent runs an orchestrating agent that breaks a question into todos,
delegates each topic to a sub-agent working in an isolated context, and
collects the results as files before answering.

Environment: ANTHROPIC_API_KEY and TAVILY_API_KEY, optionally from a .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		config := zap.NewProductionConfig()
		if debug {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringSliceVar(&configPaths, "config", nil, "settings file (JSON or YAML); repeatable, later files override earlier")
	pf.StringSliceVar(&agentDirs, "agents-dir", nil, "directory of sub-agent .md files; repeatable")
	pf.StringVar(&modelFlag, "model", "", "model ID for all agents")
	pf.IntVar(&maxTurns, "max-turns", 0, "maximum reasoning turns for the orchestrator (0 = unlimited)")
	pf.BoolVar(&debug, "debug", false, "enable debug logging")

	runCmd.Flags().BoolVar(&showFiles, "show-files", false, "print the contents of the virtual files after the answer")

	rootCmd.AddCommand(runCmd, agentsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
