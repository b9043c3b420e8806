package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the indexed documents, their distinct word counts and result cache usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for id := range a.server.All() {
				rows = append(rows, []string{
					strconv.Itoa(id),
					strconv.Itoa(len(a.server.WordFrequencies(id))),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "documents: %d\n", a.server.DocumentCount())
			if cs := a.server.CacheStats(); cs.Enabled {
				fmt.Fprintf(cmd.OutOrStdout(), "cache: entries=%d hits=%d misses=%d\n", cs.Entries, cs.Hits, cs.Misses)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "cache: disabled")
			}
			return renderTable(cmd.OutOrStdout(), []string{"ID", "Words"}, rows)
		},
	}
}
