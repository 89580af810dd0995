package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the sub-agent specializations available to the task capability",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, files, err := loadSettings()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTOOLS\tDESCRIPTION")
		for _, def := range definitions(settings, files) {
			tools := "all"
			if def.Capabilities != nil {
				tools = fmt.Sprint(def.Capabilities)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", def.Name, tools, def.Description)
		}
		return w.Flush()
	},
}
