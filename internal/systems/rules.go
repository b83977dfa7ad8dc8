package systems

import (
	"amber-server/internal/config"
	"amber-server/internal/domain"
)

// World - то, что системам нужно знать об энкаунтере.
// Реализуется оркестратором, в тестах подменяется фейком.
type World interface {
	NowMs() float64
	Phase() int

	Player() *domain.Actor
	Boss() *domain.Actor
	// Secondary возвращает монстрозити или nil, если она ещё не появилась.
	Secondary() *domain.Actor
	Actor(id domain.ActorID) *domain.Actor

	// StacksFor возвращает счётчик стаков цели или nil, если стаков у неё нет.
	StacksFor(id domain.ActorID) *domain.StackCounter

	NearestGlobule(from domain.Vec2) (domain.Globule, bool)
	ConsumeGlobule(id int) bool
}

// Rules - срез баланса, нужный системам на каждом тике.
type Rules struct {
	Abilities map[domain.AbilityID]domain.AbilitySpec
	Bounds    domain.Rect

	DamageReduction    float64
	StackAmplification float64

	BossTargetRadius      float64
	SecondaryTargetRadius float64

	RangedThreshold float64
	BandLow         float64
	BandHigh        float64
	Splash          config.SplashConfig

	Berserk        config.MultiplierConfig
	HungerFraction float64
	GlobuleValue   float64
	PickupRadius   float64

	Regroup config.RegroupConfig
}

func RulesFromBalance(b *config.Balance) Rules {
	return Rules{
		Abilities:             b.AbilityTable(),
		Bounds:                b.Arena.Bounds(),
		DamageReduction:       b.Combat.DamageReduction,
		StackAmplification:    b.Combat.StackAmplification,
		BossTargetRadius:      b.Combat.BossTargetRadius,
		SecondaryTargetRadius: b.Combat.SecondaryTargetRadius,
		RangedThreshold:       b.Raid.RangedThreshold,
		BandLow:               b.Raid.BandLow,
		BandHigh:              b.Raid.BandHigh,
		Splash:                b.Raid.Splash,
		Berserk:               b.Constructs.Berserk,
		HungerFraction:        b.Constructs.HungerFraction,
		GlobuleValue:          b.Constructs.GlobuleValue,
		PickupRadius:          b.Globules.PickupRadius,
		Regroup:               b.Boss.Regroup,
	}
}

// Shielded - по цели проходит только 1% урона, пока жива монстрозити.
func Shielded(w World, target *domain.Actor) bool {
	if target == nil || target.Kind != domain.KindBoss {
		return false
	}
	return w.Secondary().Alive()
}

func orOne(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}
