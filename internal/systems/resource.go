package systems

import (
	"amber-server/internal/config"
	"amber-server/internal/domain"
)

// TickWillpower списывает волю за тик.
// Возвращает true, когда воля актора только что или уже исчерпана.
func TickWillpower(a *domain.Actor, deltaMs float64) bool {
	if !a.Alive() || a.Willpower.Max <= 0 {
		return false
	}
	return a.Willpower.Drain(deltaMs)
}

// ApplyDamage снимает здоровье. Мёртвая или удалённая цель не трогается.
// Возвращает true, если удар был смертельным.
func ApplyDamage(target *domain.Actor, amount int) bool {
	if !target.Alive() || amount <= 0 {
		return false
	}
	return target.Health.TakeDamage(amount)
}

// GoBerserk переводит конструкта в берсерк до конца боя.
// Возвращает false, если он уже в берсерке.
func GoBerserk(a *domain.Actor, mult config.MultiplierConfig) bool {
	if a.Berserk {
		return false
	}
	a.Berserk = true
	a.Stats = a.Base.Scaled(orOne(mult.DamageMult), orOne(mult.SpeedMult), orOne(mult.IntervalMult))
	return true
}
