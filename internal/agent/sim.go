package agent

import (
	"context"

	"amber-server/internal/config"
	"amber-server/internal/engine"
	"amber-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// SimResult - итог одного безголового боя.
type SimResult struct {
	Seed       int64   `json:"seed"`
	Outcome    string  `json:"outcome"` // пусто, если бой упёрся в лимит тиков
	Reason     string  `json:"reason"`
	FinalScore int64   `json:"finalScore"`
	Ticks      int     `json:"ticks"`
	ElapsedS   float64 `json:"elapsedS"`
}

// Simulate проводит бой под управлением Policy без реального времени.
func Simulate(ctx context.Context, b *config.Balance, seed int64, tickMs float64, maxTicks int) (SimResult, error) {
	e := engine.NewEncounter(b, seed, nil)
	policy := NewPolicy(b)
	log := logger.Log.WithFields(logrus.Fields{"component": "sim", "seed": seed})

	for !e.Over() && e.Ticks() < maxTicks {
		if err := ctx.Err(); err != nil {
			return SimResult{}, err
		}
		state := engine.BuildSnapshot(e, "sim", engine.MsgUpdate, nil)
		for _, cmd := range policy.Decide(state) {
			if _, err := engine.Apply(e, cmd); err != nil {
				log.WithError(err).Debug("Command rejected")
			}
		}
		e.Tick(tickMs)
	}

	res := SimResult{
		Seed:       seed,
		Ticks:      e.Ticks(),
		ElapsedS:   e.NowMs() / 1000,
		FinalScore: e.Score().Current(),
	}
	if r, ok := e.Result(); ok {
		res.Outcome = r.Outcome.String()
		res.Reason = r.Reason
		res.FinalScore = r.FinalScore
	}
	log.WithFields(logrus.Fields{
		"outcome": res.Outcome,
		"score":   res.FinalScore,
		"ticks":   res.Ticks,
	}).Debug("Simulation finished")
	return res, nil
}
