package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/search"
)

type loadTestConfig struct {
	Concurrency int
	Duration    time.Duration
	Mode        search.ExecutionMode
	Queries     []string
}

type loadStats struct {
	total       atomic.Int64
	errors      atomic.Int64
	latencies   []time.Duration
	latenciesMu sync.Mutex
}

func (s *loadStats) record(d time.Duration, err error) {
	s.total.Add(1)
	if err != nil {
		s.errors.Add(1)
		return
	}
	s.latenciesMu.Lock()
	s.latencies = append(s.latencies, d)
	s.latenciesMu.Unlock()
}

func newLoadTestCmd(a *app) *cobra.Command {
	cfg := loadTestConfig{}
	cmd := &cobra.Command{
		Use:   "loadtest <query>...",
		Short: "Hammer the index with concurrent queries and report latency",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Concurrency < 1 {
				return fmt.Errorf("concurrency must be positive, got %d", cfg.Concurrency)
			}
			cfg.Queries = args
			cfg.Mode = a.mode
			stats := runLoadTest(cmd.Context(), a.server, cfg)
			return printReport(cmd.OutOrStdout(), stats, cfg.Duration)
		},
	}
	cmd.Flags().IntVar(&cfg.Concurrency, "concurrency", 4, "number of concurrent workers")
	cmd.Flags().DurationVar(&cfg.Duration, "duration", 5*time.Second, "test duration")
	return cmd
}

func runLoadTest(ctx context.Context, s *search.Server, cfg loadTestConfig) *loadStats {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	stats := &loadStats{}
	var wg sync.WaitGroup
	for w := range cfg.Concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := w; ctx.Err() == nil; i++ {
				query := cfg.Queries[i%len(cfg.Queries)]
				start := time.Now()
				_, err := s.FindTopDocuments(cfg.Mode, query, nil)
				stats.record(time.Since(start), err)
			}
		}()
	}
	wg.Wait()
	return stats
}

func printReport(w io.Writer, stats *loadStats, duration time.Duration) error {
	total := stats.total.Load()
	errs := stats.errors.Load()
	if total == 0 {
		return fmt.Errorf("no queries completed")
	}

	stats.latenciesMu.Lock()
	latencies := slices.Clone(stats.latencies)
	stats.latenciesMu.Unlock()
	slices.Sort(latencies)

	rows := [][]string{
		{"queries", fmt.Sprint(total)},
		{"errors", fmt.Sprint(errs)},
		{"error rate", fmt.Sprintf("%.2f%%", float64(errs)/float64(total)*100)},
		{"queries/sec", fmt.Sprintf("%.2f", float64(total)/duration.Seconds())},
	}
	if len(latencies) > 0 {
		var sum time.Duration
		for _, l := range latencies {
			sum += l
		}
		avg := sum / time.Duration(len(latencies))
		var sumSquared float64
		for _, l := range latencies {
			diff := float64(l - avg)
			sumSquared += diff * diff
		}
		rows = append(rows,
			[]string{"min", latencies[0].String()},
			[]string{"avg", avg.String()},
			[]string{"p50", percentile(latencies, 50).String()},
			[]string{"p90", percentile(latencies, 90).String()},
			[]string{"p99", percentile(latencies, 99).String()},
			[]string{"max", latencies[len(latencies)-1].String()},
			[]string{"stddev", time.Duration(math.Sqrt(sumSquared / float64(len(latencies)))).String()},
		)
	}
	return renderTable(w, []string{"Metric", "Value"}, rows)
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	idx = max(0, min(idx, len(sorted)-1))
	return sorted[idx]
}
