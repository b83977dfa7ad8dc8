package engine

import (
	"encoding/json"
	"fmt"

	"amber-server/internal/config"
	"amber-server/internal/domain"
	"amber-server/internal/engine/handlers"
	"amber-server/pkg/api"
	"amber-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// PlayReplay детерминированно воспроизводит записанный бой без реального времени.
// Команды применяются перед тиком с номером Tick+1, как при записи.
func PlayReplay(b *config.Balance, rs *domain.ReplaySession, observer domain.Observer) (*Encounter, error) {
	if rs.TickMs <= 0 {
		return nil, fmt.Errorf("replay %s: bad tick interval %d", rs.Token, rs.TickMs)
	}

	e := NewEncounter(b, rs.Seed, observer)
	tickMs := float64(rs.TickMs)
	ctx := handlers.Context{Combat: e, SessionID: rs.Token}

	for n, act := range rs.Actions {
		if act.Tick < e.Ticks() {
			return nil, fmt.Errorf("replay %s: action %d out of order (tick %d < %d)", rs.Token, n, act.Tick, e.Ticks())
		}
		for e.Ticks() < act.Tick && !e.Over() {
			e.Tick(tickMs)
		}
		if _, err := applyCommand(defaultHandlers, ctx, act.Action, act.Payload); err != nil {
			return nil, fmt.Errorf("replay %s: action %d: %w", rs.Token, n, err)
		}
	}
	for e.Ticks() < rs.TotalTicks && !e.Over() {
		e.Tick(tickMs)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "replay",
		"seed":      rs.Seed,
		"actions":   len(rs.Actions),
		"ticks":     e.Ticks(),
		"status":    e.Status(),
	}).Info("Replay finished")
	return e, nil
}

// Apply выполняет команду клиента над энкаунтером без сессии (симуляции, боты, тесты).
// RESTART здесь не поддерживается.
func Apply(e *Encounter, cmd api.ClientCommand) (handlers.Result, error) {
	return applyCommand(defaultHandlers, handlers.Context{Combat: e, SessionID: cmd.Token}, domain.ParseCommand(cmd.Action), cmd.Payload)
}

var defaultHandlers = newHandlerTable()

func applyCommand(table map[domain.CommandType]handlers.HandlerFunc, ctx handlers.Context, action domain.CommandType, payload json.RawMessage) (handlers.Result, error) {
	handler, ok := table[action]
	if !ok {
		return handlers.Result{}, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	return handler(ctx, payload)
}
