package domain

import "strings"

// EventType - Внутренний числовой идентификатор события энкаунтера
type EventType uint8

const (
	EventUnknown EventType = iota
	EventAbilityUsed
	EventPhaseChanged
	EventSecondarySpawned
	EventSecondaryDefeated
	EventCastStarted
	EventCastInterrupted
	EventCastCompleted
	EventStacksReset
	EventGlobuleSpawned
	EventGlobuleConsumed
	EventBerserk
	EventActorDied
	EventEncounterEnded
)

var eventTypeToString = map[EventType]string{
	EventAbilityUsed:       "ABILITY_USED",
	EventPhaseChanged:      "PHASE_CHANGED",
	EventSecondarySpawned:  "SECONDARY_SPAWNED",
	EventSecondaryDefeated: "SECONDARY_DEFEATED",
	EventCastStarted:       "CAST_STARTED",
	EventCastInterrupted:   "CAST_INTERRUPTED",
	EventCastCompleted:     "CAST_COMPLETED",
	EventStacksReset:       "STACKS_RESET",
	EventGlobuleSpawned:    "GLOBULE_SPAWNED",
	EventGlobuleConsumed:   "GLOBULE_CONSUMED",
	EventBerserk:           "BERSERK",
	EventActorDied:         "ACTOR_DIED",
	EventEncounterEnded:    "ENCOUNTER_ENDED",
}

// ParseEvent конвертирует строку в EventType
func ParseEvent(s string) EventType {
	upper := strings.ToUpper(s)
	for t, name := range eventTypeToString {
		if name == upper {
			return t
		}
	}
	return EventUnknown
}

func (e EventType) String() string {
	if val, ok := eventTypeToString[e]; ok {
		return val
	}
	return "UNKNOWN"
}

// Event - уведомление для внешних наблюдателей (лог, UI, метрики бота).
type Event struct {
	Type  EventType `json:"type"`
	AtMs  float64   `json:"atMs"`
	Actor ActorID   `json:"actor,omitempty"`
	Value int       `json:"value,omitempty"`
	Text  string    `json:"text,omitempty"`
}

// Observer получает события симуляции синхронно, внутри тика.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc позволяет передать функцию как Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }
