package engine

import (
	"time"

	"amber-server/pkg/utils"
)

// DefaultTickInterval - шаг симуляции реального времени
const DefaultTickInterval = 50 * time.Millisecond

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно. 0 означает: сид выводится из токена сессии
	// (или из времени, если токена нет).
	Seed         int64
	TickInterval time.Duration
	// BalancePath - YAML с балансом. Пусто - встроенный баланс.
	BalancePath string
	// ReplayDir - куда писать реплеи. Пусто - запись выключена.
	ReplayDir string
}

// NewConfig создает конфиг по умолчанию
func NewConfig() Config {
	return Config{
		TickInterval: DefaultTickInterval,
	}
}

// SeedFor возвращает сид энкаунтера для сессии.
func (c Config) SeedFor(token string) int64 {
	switch {
	case c.Seed != 0:
		return c.Seed
	case token != "":
		return utils.StringToSeed(token)
	default:
		return time.Now().UnixNano()
	}
}
