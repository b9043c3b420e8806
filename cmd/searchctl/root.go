package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/search"
)

// app carries what every subcommand needs once the root has loaded the
// config and the corpus.
type app struct {
	configPath  string
	corpusPath  string
	dumpMetrics bool
	modeName    string

	mode     search.ExecutionMode
	cfg      *config.Config
	registry *prometheus.Registry
	server   *search.Server
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "searchctl",
		Short:        "Query an in-memory TF-IDF document index",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !a.dumpMetrics || a.registry == nil {
				return nil
			}
			return writeMetrics(cmd.OutOrStdout(), a.registry)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file")
	root.PersistentFlags().StringVar(&a.corpusPath, "corpus", "corpus.yaml", "path to corpus file")
	root.PersistentFlags().StringVar(&a.modeName, "mode", "sequential", "execution mode: sequential or parallel")
	root.PersistentFlags().BoolVar(&a.dumpMetrics, "metrics", false, "print collected metrics after the command")

	root.AddCommand(
		newQueryCmd(a),
		newMatchCmd(a),
		newBatchCmd(a),
		newStatsCmd(a),
		newLoadTestCmd(a),
	)
	return root
}

func (a *app) load(logOut io.Writer) error {
	mode, err := search.ParseExecutionMode(a.modeName)
	if err != nil {
		return err
	}
	a.mode = mode

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg
	logger.Setup(logOut, cfg.Logging.Level, cfg.Logging.Format)

	c, err := corpus.Load(a.corpusPath)
	if err != nil {
		return err
	}

	opts := []search.Option{
		search.FromConfig(cfg),
		search.WithLogger(logger.WithComponent("searchctl")),
	}
	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		opts = append(opts, search.WithMetrics(metrics.New(a.registry)))
	}

	// Config stop words extend the corpus's own list.
	a.server, err = c.NewServer(cfg.Index.AllStopWords(), opts...)
	if err != nil {
		return fmt.Errorf("loading corpus %s: %w", a.corpusPath, err)
	}
	slog.Info("corpus loaded",
		"path", a.corpusPath,
		"documents", a.server.DocumentCount(),
		"stop_words", len(a.server.StopWords()),
	)
	return nil
}

func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}
