package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"amber-server/internal/config"
	"amber-server/internal/domain"
	"amber-server/internal/engine/handlers"
	"amber-server/internal/engine/handlers/actions"
	"amber-server/internal/infrastructure/storage"
	"amber-server/internal/network"
	"amber-server/pkg/api"
	"amber-server/pkg/logger"
	"amber-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownAction   = errors.New("unknown action")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session closed")
)

// GameService - реестр сессий. Одна сессия - одно соединение - один энкаунтер.
type GameService struct {
	Config  Config
	Hub     *network.Broadcaster
	Replays *storage.ReplayService // nil, если запись выключена

	mu       sync.RWMutex
	sessions map[string]*Instance
	balance  *config.Balance

	actionHandlers map[domain.CommandType]handlers.HandlerFunc
	log            *logrus.Entry
}

// SessionInfo - краткая сводка для debug-роутов.
type SessionInfo struct {
	ID     string `json:"id"`
	Seed   int64  `json:"seed"`
	Tick   int    `json:"tick"`
	Phase  int    `json:"phase"`
	Score  int64  `json:"score"`
	Status string `json:"status"`
}

func NewService(cfg Config) (*GameService, error) {
	balance, err := config.Load(cfg.BalancePath)
	if err != nil {
		return nil, fmt.Errorf("load balance: %w", err)
	}

	s := &GameService{
		Config:         cfg,
		Hub:            network.NewBroadcaster(),
		sessions:       make(map[string]*Instance),
		balance:        balance,
		actionHandlers: newHandlerTable(),
		log:            logger.Log.WithField("component", "game_service"),
	}

	if cfg.ReplayDir != "" {
		replays, err := storage.NewReplayService(cfg.ReplayDir)
		if err != nil {
			return nil, err
		}
		s.Replays = replays
	}
	return s, nil
}

func newHandlerTable() map[domain.CommandType]handlers.HandlerFunc {
	return map[domain.CommandType]handlers.HandlerFunc{
		domain.CmdInit:    handlers.WithEmptyPayload(actions.HandleInit),
		domain.CmdAbility: handlers.WithPayload(actions.HandleAbility),
		domain.CmdTarget:  handlers.WithPayload(actions.HandleTarget),
		domain.CmdMove:    handlers.WithPayload(actions.HandleMove),
		domain.CmdRestart: handlers.WithEmptyPayload(actions.HandleRestart),
	}
}

// Run следит за файлом баланса до отмены ctx, затем закрывает все сессии.
// Новый баланс применяется к энкаунтерам, созданным после изменения.
func (s *GameService) Run(ctx context.Context) error {
	defer s.closeAll()

	if s.Config.BalancePath == "" {
		<-ctx.Done()
		return nil
	}

	w, err := config.NewWatcher(s.Config.BalancePath)
	if err != nil {
		return fmt.Errorf("watch balance: %w", err)
	}
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case b := <-w.Updates:
			s.setBalance(b)
			s.log.WithField("path", s.Config.BalancePath).Info("Balance reloaded")
			s.Hub.Broadcast(api.ServerResponse{
				Type: MsgNotice,
				Logs: []api.LogEntry{{Text: "Balance updated. Changes apply from the next encounter.", Type: "INFO"}},
			})
		case err := <-w.Errors:
			s.log.WithError(err).Warn("Balance reload failed, keeping previous table")
		}
	}
}

func (s *GameService) Balance() *config.Balance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance
}

func (s *GameService) setBalance(b *config.Balance) {
	s.mu.Lock()
	s.balance = b
	s.mu.Unlock()
}

// CreateSession запускает энкаунтер для нового соединения.
// Пустой токен получает сгенерированный ID. Существующая сессия с тем же токеном закрывается.
func (s *GameService) CreateSession(token string) *Instance {
	if token == "" {
		token = utils.GenerateID()
	}
	s.CloseSession(token)

	inst := NewInstance(token, s, s.Config.SeedFor(token))
	ctx, cancel := context.WithCancel(context.Background())
	inst.cancel = cancel

	s.mu.Lock()
	s.sessions[token] = inst
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"session": token, "seed": inst.Seed}).Info("Session created")
	go inst.Run(ctx)
	return inst
}

// ProcessCommand принимает команду от внешнего мира (WebSocket, бот).
func (s *GameService) ProcessCommand(cmd api.ClientCommand) error {
	action := domain.ParseCommand(cmd.Action)
	if action == domain.CmdUnknown {
		return fmt.Errorf("%w: %s", ErrUnknownAction, cmd.Action)
	}

	inst, ok := s.Session(cmd.Token)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, cmd.Token)
	}

	select {
	case inst.CommandChan <- domain.InternalCommand{Action: action, Token: cmd.Token, Payload: cmd.Payload}:
		return nil
	case <-inst.Done():
		return ErrSessionClosed
	}
}

// CloseSession останавливает энкаунтер и ждёт завершения его цикла.
func (s *GameService) CloseSession(id string) {
	s.mu.Lock()
	inst, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return
	}
	inst.cancel()
	<-inst.Done()
	s.log.WithField("session", id).Info("Session closed")
}

// CloseSessionIf закрывает сессию, только если под её ID всё ещё работает inst.
// Старое соединение не должно гасить энкаунтер, созданный переподключением.
func (s *GameService) CloseSessionIf(inst *Instance) {
	s.mu.Lock()
	owned := s.sessions[inst.ID] == inst
	if owned {
		delete(s.sessions, inst.ID)
	}
	s.mu.Unlock()

	inst.cancel()
	<-inst.Done()
	if owned {
		s.log.WithField("session", inst.ID).Info("Session closed")
	}
}

func (s *GameService) Session(id string) (*Instance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.sessions[id]
	return inst, ok
}

// Sessions - сводка по всем сессиям, отсортированная по ID.
func (s *GameService) Sessions() []SessionInfo {
	s.mu.RLock()
	list := make([]*Instance, 0, len(s.sessions))
	for _, inst := range s.sessions {
		list = append(list, inst)
	}
	s.mu.RUnlock()

	out := make([]SessionInfo, 0, len(list))
	for _, inst := range list {
		snap := inst.Snapshot()
		out = append(out, SessionInfo{
			ID:     inst.ID,
			Seed:   inst.Seed,
			Tick:   snap.Tick,
			Phase:  snap.Encounter.Phase,
			Score:  snap.Encounter.Score,
			Status: snap.Encounter.Status,
		})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

func (s *GameService) closeAll() {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	for _, id := range ids {
		s.CloseSession(id)
	}
}
