package engine

import (
	"fmt"

	"amber-server/internal/domain"
	"amber-server/pkg/api"

	"github.com/sirupsen/logrus"
)

// AddLog добавляет запись в боевой лог инстанса. Время - время симуляции.
func (i *Instance) AddLog(text, logType string) {
	i.logSeq++
	var at float64
	if i.Encounter != nil {
		at = i.Encounter.NowMs()
	}
	i.Logs = append(i.Logs, api.LogEntry{
		ID:        fmt.Sprintf("%s_%d", i.ID, i.logSeq),
		Text:      text,
		Type:      logType,
		Timestamp: int64(at),
	})
	i.log.WithFields(logrus.Fields{
		"component": "combat_log",
		"log_type":  logType,
	}).Debug(text)
}

// OnEvent превращает события энкаунтера в записи боевого лога.
func (i *Instance) OnEvent(ev domain.Event) {
	switch ev.Type {
	case domain.EventPhaseChanged:
		i.AddLog(fmt.Sprintf("Phase %d begins!", ev.Value), "PHASE")
	case domain.EventSecondarySpawned, domain.EventSecondaryDefeated:
		i.AddLog(ev.Text, "PHASE")
	case domain.EventCastStarted, domain.EventCastCompleted:
		i.AddLog(ev.Text, "COMBAT")
	case domain.EventCastInterrupted:
		i.AddLog(fmt.Sprintf("%s: cast interrupted", ev.Actor), "COMBAT")
	case domain.EventStacksReset:
		i.AddLog(fmt.Sprintf("%s: %d stacks faded", ev.Actor, ev.Value), "INFO")
	case domain.EventBerserk:
		i.AddLog(ev.Text, "ERROR")
	case domain.EventEncounterEnded:
		i.AddLog(ev.Text, "PHASE")
	}
}
