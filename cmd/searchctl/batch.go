package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/search"
)

func newBatchCmd(a *app) *cobra.Command {
	var joined bool
	cmd := &cobra.Command{
		Use:   "batch <query>...",
		Short: "Run several queries concurrently",
		Long: `Run several queries concurrently, one query per argument. Quote
multi-word queries.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if joined {
				docs, err := search.ProcessQueriesJoined(a.server, args)
				if err != nil {
					return err
				}
				return renderTable(cmd.OutOrStdout(), []string{"ID", "Relevance", "Rating"}, documentRows(docs))
			}

			results, err := search.ProcessQueries(a.server, args)
			if err != nil {
				return err
			}
			var rows [][]string
			for i, docs := range results {
				for _, row := range documentRows(docs) {
					rows = append(rows, append([]string{strconv.Itoa(i), args[i]}, row...))
				}
			}
			return renderTable(cmd.OutOrStdout(), []string{"#", "Query", "ID", "Relevance", "Rating"}, rows)
		},
	}
	cmd.Flags().BoolVar(&joined, "joined", false, "print all results as one list")
	return cmd
}
