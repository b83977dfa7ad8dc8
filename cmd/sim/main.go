package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"amber-server/internal/agent"
	"amber-server/internal/config"
	"amber-server/pkg/logger"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func init() {
	logger.Init()
}

// Пакетный прогон автопилота по диапазону сидов. Результаты в JSON Lines на stdout.
func main() {
	var (
		balancePath string
		firstSeed   int64
		runs        int
		tickMs      float64
		maxTicks    int
		workers     int
	)
	flag.StringVar(&balancePath, "balance", "", "Path to balance YAML (empty: built-in)")
	flag.Int64Var(&firstSeed, "seed", 1, "First seed of the batch")
	flag.IntVar(&runs, "n", 100, "Number of encounters")
	flag.Float64Var(&tickMs, "tick", 50, "Tick length in ms")
	flag.IntVar(&maxTicks, "max-ticks", 20*60*10, "Tick limit per encounter")
	flag.IntVar(&workers, "workers", runtime.NumCPU(), "Parallel simulations")
	flag.Parse()
	if workers < 1 {
		workers = 1
	}

	balance := config.Default()
	if balancePath != "" {
		b, err := config.Load(balancePath)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to load balance")
		}
		balance = b
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results := make([]agent.SimResult, runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < runs; i++ {
		i := i
		g.Go(func() error {
			res, err := agent.Simulate(ctx, balance, firstSeed+int64(i), tickMs, maxTicks)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		logger.Log.WithError(err).Fatal("Simulation batch aborted")
	}

	outcomes := make(map[string]int)
	var total int64
	enc := json.NewEncoder(os.Stdout)
	for _, r := range results {
		outcomes[r.Outcome]++
		total += r.FinalScore
		_ = enc.Encode(r)
	}

	fields := logrus.Fields{"runs": runs}
	for k, v := range outcomes {
		if k == "" {
			k = "timeout"
		}
		fields[k] = v
	}
	if runs > 0 {
		fields["avg_score"] = total / int64(runs)
	}
	logger.Log.WithFields(fields).Info("Batch finished")
}
