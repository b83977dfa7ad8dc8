package agent

import (
	"context"

	"amber-server/internal/engine"
	"amber-server/pkg/api"
	"amber-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Bot - игрок-компьютер внутри сервера. Подписывается в хабе как обычный клиент,
// получает снимки своей сессии и отвечает командами через ProcessCommand.
type Bot struct {
	SessionID string
	Service   *engine.GameService
	Inbox     chan api.ServerResponse
	Policy    *Policy

	log *logrus.Entry
}

// NewBot регистрирует бота в хабе и запускает для него энкаунтер.
func NewBot(sessionID string, service *engine.GameService) *Bot {
	b := &Bot{
		SessionID: sessionID,
		Service:   service,
		Inbox:     service.Hub.Register(sessionID),
		Policy:    NewPolicy(service.Balance()),
		log:       logger.Log.WithFields(logrus.Fields{"component": "bot", "session": sessionID}),
	}
	service.CreateSession(sessionID)
	b.log.Info("Bot joined")
	return b
}

// Run играет до конца энкаунтера или отмены ctx. Возвращает итог, если бой закончился.
func (b *Bot) Run(ctx context.Context) (*api.ResultView, error) {
	defer func() {
		b.Service.CloseSession(b.SessionID)
		b.Service.Hub.Unregister(b.SessionID)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case state, ok := <-b.Inbox:
			if !ok {
				return nil, nil
			}
			if state.Result != nil {
				b.log.WithFields(logrus.Fields{
					"outcome": state.Result.Outcome,
					"score":   state.Result.FinalScore,
				}).Info("Bot finished")
				return state.Result, nil
			}
			for _, cmd := range b.Policy.Decide(state) {
				cmd.Token = b.SessionID
				if err := b.Service.ProcessCommand(cmd); err != nil {
					return nil, err
				}
			}
		}
	}
}
