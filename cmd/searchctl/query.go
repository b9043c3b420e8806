package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/document"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/search"
)

func newQueryCmd(a *app) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "query <words>...",
		Short: "Print the top documents for a query",
		Long: `Print the top documents for a query. Words prefixed with '-' exclude
every document containing them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := statusFilter(status)
			if err != nil {
				return err
			}
			docs, err := a.server.FindTopDocuments(a.mode, strings.Join(args, " "), filter)
			if err != nil {
				return err
			}
			return renderTable(cmd.OutOrStdout(), []string{"ID", "Relevance", "Rating"}, documentRows(docs))
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only documents with this status, or \"any\" (default actual)")
	return cmd
}

func newMatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "match <id> <words>...",
		Short: "Print the query words found in one document",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid document id %q: %w", args[0], err)
			}
			words, status, err := a.server.MatchDocument(a.mode, strings.Join(args[1:], " "), id)
			if err != nil {
				return err
			}
			return renderTable(cmd.OutOrStdout(), []string{"ID", "Status", "Matched"},
				[][]string{{strconv.Itoa(id), status.String(), strings.Join(words, " ")}})
		},
	}
}

func statusFilter(name string) (search.Filter, error) {
	switch strings.ToLower(name) {
	case "":
		return nil, nil
	case "any":
		return search.AnyDocument(), nil
	}
	status, err := document.ParseStatus(name)
	if err != nil {
		return nil, err
	}
	return search.ByStatus(status), nil
}

func documentRows(docs []document.Document) [][]string {
	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, []string{
			strconv.Itoa(d.ID),
			strconv.FormatFloat(d.Relevance, 'f', 6, 64),
			strconv.Itoa(d.Rating),
		})
	}
	return rows
}
