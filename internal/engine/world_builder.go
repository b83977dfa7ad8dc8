package engine

import (
	"fmt"
	"math"
	"math/rand"

	"amber-server/internal/config"
	"amber-server/internal/domain"
	"amber-server/pkg/utils"
)

// Адды появляются кольцом вокруг босса
const (
	spawnRingMin = 100.0
	spawnRingMax = 150.0
)

// buildPlayer создает конструкт игрока в центре арены.
func buildPlayer(b *config.Balance) *domain.Actor {
	p := domain.NewActor(domain.NewActorID(domain.KindPlayer, 1), b.Player.Name, domain.CombatStats{
		MoveSpeed: b.Player.MoveSpeed,
	})
	p.Pos = b.Arena.PlayerSpawn
	p.Health = domain.NewHealthPool(b.Player.Health, 1)
	p.Willpower = domain.NewWillpowerPool(b.Player.Willpower, b.Player.WillpowerDrain)
	p.Cast = domain.NewCastState(b.Player.Cast)
	return p
}

// buildBoss создает Amber-Shaper. Бой начинается не с полного здоровья.
func buildBoss(b *config.Balance) *domain.Actor {
	boss := domain.NewActor(domain.NewActorID(domain.KindBoss, 1), b.Boss.Name, b.Boss.Stats)
	boss.Pos = b.Arena.BossSpawn
	boss.Health = domain.NewHealthPool(b.Boss.Health, b.Boss.StartFraction)
	return boss
}

// buildSecondary создает монстрозити в случайной точке зоны спавна.
func buildSecondary(b *config.Balance, rng *rand.Rand) *domain.Actor {
	sec := domain.NewActor(domain.NewActorID(domain.KindSecondaryBoss, 1), b.Secondary.Name, b.Secondary.Stats)
	region := b.Secondary.SpawnRegion
	sec.Pos = domain.Vec2{
		X: utils.FloatInRange(rng, region.MinX, region.MaxX),
		Y: utils.FloatInRange(rng, region.MinY, region.MaxY),
	}
	sec.Health = domain.NewHealthPool(b.Secondary.Health, 1)
	sec.Cast = domain.NewCastState(b.Secondary.Cast)
	return sec
}

// buildRoster создает рейд и конструкты в порядке создания.
// Явный roster из баланса важнее генерации по сиду.
func buildRoster(b *config.Balance, rng *rand.Rand) []*domain.Actor {
	var adds []*domain.Actor
	index := 0
	next := func() domain.ActorID {
		index++
		return domain.NewActorID(domain.KindAdd, index)
	}

	if len(b.Raid.Roster) > 0 {
		for _, entry := range b.Raid.Roster {
			rangeDist, _ := b.Raid.ClassRange(entry.Class)
			adds = append(adds, newRaider(b, rng, next(), entry.Class, domain.CombatStats{
				MoveSpeed:        b.Raid.MoveSpeed,
				AttackDamage:     entry.Damage,
				AttackRange:      rangeDist,
				AttackIntervalMs: entry.IntervalMs,
			}))
		}
	} else {
		ranged, melee := splitClasses(b.Raid)
		rangedCount := utils.IntInRange(rng, b.Raid.RangedMin, b.Raid.RangedMax)
		for i := 0; i < b.Raid.Count; i++ {
			pool := melee
			if i < rangedCount {
				pool = ranged
			}
			if len(pool) == 0 {
				pool = b.Raid.Classes
			}
			class := pool[rng.Intn(len(pool))]
			adds = append(adds, newRaider(b, rng, next(), class.Name, domain.CombatStats{
				MoveSpeed:        b.Raid.MoveSpeed,
				AttackDamage:     float64(utils.IntInRange(rng, b.Raid.DamageMin, b.Raid.DamageMax)),
				AttackRange:      class.Range,
				AttackIntervalMs: utils.FloatInRange(rng, b.Raid.IntervalMinMs, b.Raid.IntervalMaxMs),
			}))
		}
	}

	for i := 0; i < b.Constructs.Count; i++ {
		c := domain.NewActor(next(), fmt.Sprintf("Amber Construct %d", i+1), b.Constructs.Stats)
		c.Variant = domain.VariantConstruct
		c.Health = domain.NewHealthPool(b.Constructs.Health, 1)
		c.Willpower = domain.NewWillpowerPool(b.Constructs.Willpower, b.Constructs.WillpowerDrain)
		c.Pos = ringPosition(b, rng)
		adds = append(adds, c)
	}
	return adds
}

func newRaider(b *config.Balance, rng *rand.Rand, id domain.ActorID, class string, stats domain.CombatStats) *domain.Actor {
	a := domain.NewActor(id, fmt.Sprintf("%s %d", class, id.Index()), stats)
	a.Class = class
	a.Variant = domain.VariantRaider
	a.Health = domain.NewHealthPool(b.Raid.Health, 1)
	a.Pos = ringPosition(b, rng)
	return a
}

// splitClasses делит классы на дальнобойные и ближнего боя по порогу.
func splitClasses(r config.RaidConfig) (ranged, melee []config.ClassConfig) {
	for _, c := range r.Classes {
		if c.Range >= r.RangedThreshold {
			ranged = append(ranged, c)
		} else {
			melee = append(melee, c)
		}
	}
	return ranged, melee
}

func ringPosition(b *config.Balance, rng *rand.Rand) domain.Vec2 {
	angle := rng.Float64() * 2 * math.Pi
	radius := utils.FloatInRange(rng, spawnRingMin, spawnRingMax)
	p := b.Arena.BossSpawn.Add(domain.Vec2{X: math.Cos(angle) * radius, Y: math.Sin(angle) * radius})
	return b.Arena.Bounds().Clamp(p)
}

// randomGlobulePosition - точка на арене с отступом от краёв.
func randomGlobulePosition(b *config.Balance, rng *rand.Rand) domain.Vec2 {
	m := b.Globules.Margin
	return domain.Vec2{
		X: utils.FloatInRange(rng, m, b.Arena.Width-m),
		Y: utils.FloatInRange(rng, m, b.Arena.Height-m),
	}
}
