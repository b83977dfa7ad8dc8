package domain

import "encoding/json"

// ReplayAction - одна команда клиента, применённая перед тиком Tick.
type ReplayAction struct {
	Tick    int             `json:"tick"`
	Action  CommandType     `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// ReplaySession - полная запись энкаунтера: сид, шаг симуляции и команды.
// Этого достаточно, чтобы детерминированно воспроизвести бой.
type ReplaySession struct {
	Token      string         `json:"token"`
	Seed       int64          `json:"seed"`
	TickMs     int            `json:"tickMs"`
	Timestamp  int64          `json:"timestamp"`
	TotalTicks int            `json:"totalTicks"`
	Actions    []ReplayAction `json:"actions"`
}
