package handlers

import (
	"encoding/json"

	"amber-server/internal/domain"
)

// Combat - команды игрока, которые энкаунтер принимает между тиками.
// Encounter неявно реализует этот интерфейс.
type Combat interface {
	UseAbility(id domain.AbilityID) domain.AbilityResult
	SelectTargetAt(pos domain.Vec2) domain.ActorID
	SelectTarget(id domain.ActorID) domain.ActorID
	Move(dx, dy float64)
}

// Context передает хендлеру энкаунтер сессии.
type Context struct {
	Combat    Combat
	SessionID string
	// Restart пересоздает энкаунтер с тем же сидом.
	Restart func()
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет в логи сервиса напрямую, он возвращает данные.
type Result struct {
	Msg     string // Текст лога
	MsgType string // Тип лога (INFO, COMBAT, ERROR)
}

// HandlerFunc - это контракт для любой команды (ABILITY, TARGET, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}
