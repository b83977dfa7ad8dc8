package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse это снимок энкаунтера, который сервер отправляет UI-клиенту.
// Отправляется после каждого тика симуляции и после каждой команды клиента.
type ServerResponse struct {
	// Type тип сообщения: INIT, UPDATE или END.
	Type string `json:"type"`

	// Tick номер тика симуляции.
	Tick int `json:"tick"`

	// SessionID сессия (энкаунтер), к которой относится снимок.
	SessionID string `json:"sessionId,omitempty"`

	// Arena размеры арены. Передаются только в INIT.
	Arena *ArenaMeta `json:"arena,omitempty"`

	Encounter EncounterView `json:"encounter"`

	Player *PlayerView `json:"player,omitempty"`

	// Bosses босс и (после фазы 2) Amber Monstrosity со стаками.
	Bosses []BossView `json:"bosses,omitempty"`

	// Casts прогресс кастов, помеченных разными метками (player / monstrosity).
	Casts []CastView `json:"casts,omitempty"`

	// Actors все живые акторы, включая аддов. Нужны для отрисовки и ботов.
	Actors []ActorView `json:"actors,omitempty"`

	Globules []GlobuleView `json:"globules,omitempty"`

	// Result терминальное событие. Присылается ровно один раз.
	Result *ResultView `json:"result,omitempty"`

	// Logs новые сообщения с прошлой рассылки.
	Logs []LogEntry `json:"logs,omitempty"`
}

// ArenaMeta размеры арены в пикселях мира.
type ArenaMeta struct {
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
}

// EncounterView общие показатели боя.
type EncounterView struct {
	ElapsedMs float64 `json:"elapsedMs"`
	Phase     int     `json:"phase"`
	Score     int64   `json:"score"`
	Status    string  `json:"status"`
}

// Vec это DTO позиции.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ActorView это DTO для актора.
type ActorView struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"` // PLAYER, BOSS, SECONDARY_BOSS, ADD
	Name      string  `json:"name"`
	Class     string  `json:"class,omitempty"`
	Pos       Vec     `json:"pos"`
	HP        float64 `json:"hp"`
	MaxHP     float64 `json:"maxHp"`
	Ranged    bool    `json:"ranged,omitempty"`
	Berserk   bool    `json:"berserk,omitempty"`
	Willpower float64 `json:"willpower,omitempty"`
	TargetID  string  `json:"targetId,omitempty"`
}

// PlayerView расширяет ActorView ресурсами игрока.
type PlayerView struct {
	ActorView
	MaxWillpower float64            `json:"maxWillpower"`
	Cooldowns    map[string]float64 `json:"cooldowns"` // ability -> секунды
	Debuffs      []DebuffView       `json:"debuffs,omitempty"`
	Stunned      bool               `json:"stunned,omitempty"`
}

// BossView босс со своим счётчиком стаков.
type BossView struct {
	ActorView
	Stacks               int          `json:"stacks"`
	StackIdleRemainingMs float64      `json:"stackIdleRemainingMs"`
	Shielded             bool         `json:"shielded,omitempty"`
	Debuffs              []DebuffView `json:"debuffs,omitempty"`
}

// DebuffView активный дебафф.
type DebuffView struct {
	Name       string  `json:"name"`
	Percent    float64 `json:"percent"`
	RemainingS float64 `json:"remainingS"`
}

// CastView прогресс канального каста.
type CastView struct {
	Label    string  `json:"label"` // player, monstrosity
	Active   bool    `json:"active"`
	Progress float64 `json:"progress"` // 0..100
	NextInMs float64 `json:"nextInMs"`
}

// GlobuleView сфера янтаря на арене.
type GlobuleView struct {
	ID  int `json:"id"`
	Pos Vec `json:"pos"`
}

// ResultView итог энкаунтера.
type ResultView struct {
	Outcome    string `json:"outcome"` // victory, defeat, success
	Reason     string `json:"reason"`
	FinalScore int64  `json:"finalScore"`
}

// LogEntry представляет одну запись в боевом логе.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, COMBAT, PHASE, ERROR
	Timestamp int64  `json:"timestamp"` // миллисекунды симуляции
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Token ID сессии. В первом сообщении (LOGIN) может быть пустым.
	Token string `json:"token,omitempty"`

	// Action название действия: INIT, ABILITY, TARGET, MOVE, RESTART.
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload"`
}

// --- Payloads ---

// AbilityPayload используется в ABILITY.
type AbilityPayload struct {
	Ability string `json:"ability"` // primary-strike, self-interrupt, consume-resource, break-free
}

// TargetPayload используется в TARGET: либо клик по точке, либо ссылка на актора.
// Пустой ActorID без координат сбрасывает цель.
type TargetPayload struct {
	ActorID string   `json:"actorId,omitempty"`
	X       *float64 `json:"x,omitempty"`
	Y       *float64 `json:"y,omitempty"`
}

// MovePayload направление движения игрока. Нулевой вектор останавливает игрока.
type MovePayload struct {
	Dx float64 `json:"dx"`
	Dy float64 `json:"dy"`
}
