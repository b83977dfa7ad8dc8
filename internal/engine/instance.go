package engine

import (
	"context"
	"sync"
	"time"

	"amber-server/internal/domain"
	"amber-server/internal/engine/handlers"
	"amber-server/pkg/api"
	"amber-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Instance - один запущенный энкаунтер, привязанный к сессии (соединению).
// Все мутации (тики и команды) идут через одну горутину Run.
type Instance struct {
	ID        string
	Encounter *Encounter

	// Команды от клиента
	CommandChan chan domain.InternalCommand

	// Ссылка на Service для доступа к Hub, балансу и хендлерам
	Service *GameService

	Logs   []api.LogEntry // логи с прошлой рассылки
	Seed   int64
	Replay *domain.ReplaySession // лента команд

	tickInterval time.Duration
	endSent      bool
	replaySaved  bool
	logSeq       int

	mu       sync.RWMutex
	snapshot api.ServerResponse

	cancel context.CancelFunc
	done   chan struct{}
	log    *logrus.Entry
}

func NewInstance(id string, service *GameService, seed int64) *Instance {
	i := &Instance{
		ID:           id,
		CommandChan:  make(chan domain.InternalCommand, 100),
		Service:      service,
		Logs:         []api.LogEntry{},
		Seed:         seed,
		tickInterval: service.Config.TickInterval,
		done:         make(chan struct{}),
		log: logger.Log.WithFields(logrus.Fields{
			"component": "instance",
			"session":   id,
		}),
	}
	if i.tickInterval <= 0 {
		i.tickInterval = DefaultTickInterval
	}
	i.reset()
	return i
}

// reset создает новый энкаунтер с тем же сидом и пустой лентой.
func (i *Instance) reset() {
	i.Encounter = NewEncounter(i.Service.Balance(), i.Seed, i)
	i.Replay = &domain.ReplaySession{
		Token:     i.ID,
		Seed:      i.Seed,
		TickMs:    int(i.tickInterval / time.Millisecond),
		Timestamp: time.Now().Unix(),
		Actions:   make([]domain.ReplayAction, 0),
	}
	i.endSent = false
	i.replaySaved = false
}

// Run запускает цикл реального времени ЭТОГО энкаунтера до отмены ctx.
func (i *Instance) Run(ctx context.Context) {
	defer close(i.done)
	defer i.saveReplay()

	ticker := time.NewTicker(i.tickInterval)
	defer ticker.Stop()

	i.log.WithField("seed", i.Seed).Info("Instance loop started")
	i.publish(MsgInit)

	tickMs := float64(i.tickInterval) / float64(time.Millisecond)
	for {
		select {
		case <-ctx.Done():
			i.log.Info("Instance loop stopped")
			return

		case cmd := <-i.CommandChan:
			i.executeCommand(cmd)

		case <-ticker.C:
			if i.Encounter.Over() {
				continue
			}
			i.Encounter.Tick(tickMs)
			i.publish(MsgUpdate)
		}
	}
}

// Done закрывается, когда цикл инстанса завершился.
func (i *Instance) Done() <-chan struct{} {
	return i.done
}

// Snapshot - последний разосланный снимок. Безопасен из любой горутины.
func (i *Instance) Snapshot() api.ServerResponse {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.snapshot
}

// executeCommand выполняет команду в контексте энкаунтера
func (i *Instance) executeCommand(cmd domain.InternalCommand) {
	handler, ok := i.Service.actionHandlers[cmd.Action]
	if !ok {
		return
	}

	tick := i.Encounter.Ticks()
	ctx := handlers.Context{
		Combat:    i.Encounter,
		SessionID: i.ID,
		Restart:   i.restart,
	}

	result, err := handler(ctx, cmd.Payload)
	if err != nil {
		i.log.WithError(err).WithField("action", cmd.Action.String()).Warn("Command rejected")
		i.AddLog(err.Error(), "ERROR")
		i.publish(MsgUpdate)
		return
	}

	if cmd.Action.Mutating() {
		i.recordAction(cmd, tick)
	}
	if result.Msg != "" {
		i.AddLog(result.Msg, result.MsgType)
	}

	if cmd.Action == domain.CmdInit || cmd.Action == domain.CmdRestart {
		i.publish(MsgInit)
		return
	}
	i.publish(MsgUpdate)
}

func (i *Instance) restart() {
	i.saveReplay()
	i.log.Info("Encounter restarted")
	i.reset()
}

func (i *Instance) recordAction(cmd domain.InternalCommand, tick int) {
	if i.Encounter.Over() && i.endSent {
		return
	}
	i.Replay.Actions = append(i.Replay.Actions, domain.ReplayAction{
		Tick:    tick,
		Action:  cmd.Action,
		Payload: cmd.Payload,
	})
}

// publish рассылает снимок подписчику сессии. Терминальный снимок уходит ровно один раз.
func (i *Instance) publish(msgType string) {
	if i.Encounter.Over() && !i.endSent {
		msgType = MsgEnd
	}

	state := BuildSnapshot(i.Encounter, i.ID, msgType, i.Logs)
	if msgType == MsgEnd {
		i.endSent = true
		i.saveReplay()
	} else {
		state.Result = nil
	}

	i.mu.Lock()
	i.snapshot = state
	i.mu.Unlock()

	if !i.Service.Hub.SendTo(i.ID, state) && msgType == MsgEnd {
		i.log.Warn("Final snapshot was not delivered")
	}
	i.Logs = []api.LogEntry{}
}

// saveReplay пишет ленту на диск, если запись включена. Повторно не пишет.
func (i *Instance) saveReplay() {
	if i.replaySaved || i.Service.Replays == nil || i.Encounter.Ticks() == 0 {
		return
	}
	i.replaySaved = true
	i.Replay.TotalTicks = i.Encounter.Ticks()

	path, err := i.Service.Replays.Save(i.Replay)
	if err != nil {
		i.log.WithError(err).Error("Failed to save replay")
		return
	}
	i.log.WithFields(logrus.Fields{
		"path":    path,
		"actions": len(i.Replay.Actions),
		"ticks":   i.Replay.TotalTicks,
	}).Info("Replay saved")
}
