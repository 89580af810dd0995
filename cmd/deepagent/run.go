package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	agent "github.com/armatrix/deepagents-go"
)

var runCmd = &cobra.Command{
	Use:   "run [question]",
	Short: "Answer a question with the orchestrator and its sub-agents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, files, err := loadSettings()
		if err != nil {
			return err
		}

		model := agent.NewModel(anthropic.Model(settings.Model))
		sys, err := assemble(settings, files, model, newSearcher(model, logger), progress(cmd), logger)
		if err != nil {
			return err
		}
		defer sys.client.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		answer, err := sys.client.Query(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, answer.Content)
		printFiles(cmd, sys.client.State(), showFiles)
		return nil
	},
}

// progress reports capability activity on stderr.
func progress(cmd *cobra.Command) agent.EventHandler {
	errOut := cmd.ErrOrStderr()
	return func(e agent.Event) {
		switch ev := e.(type) {
		case *agent.ToolResultEvent:
			mark := "✓"
			if ev.IsError {
				mark = "✗"
			}
			fmt.Fprintf(errOut, "%s %s\n", mark, ev.Name)
		case *agent.ResultEvent:
			fmt.Fprintf(errOut, "done: %s after %d turns, $%s\n", ev.Subtype, ev.NumTurns, ev.TotalCost.StringFixed(4))
		}
	}
}

// printFiles lists the virtual files; with contents set it prints each one.
func printFiles(cmd *cobra.Command, st *agent.State, contents bool) {
	out := cmd.OutOrStdout()
	names := st.Files.Names()
	if len(names) == 0 {
		return
	}

	fmt.Fprintf(out, "\nFiles: %s\n", strings.Join(names, ", "))
	if !contents {
		return
	}
	for _, name := range names {
		fmt.Fprintf(out, "\n## %s\n\n%s\n", name, st.Files[name])
	}
}
