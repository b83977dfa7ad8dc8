package systems

import (
	"math"
	"math/rand"

	"amber-server/internal/domain"
	"amber-server/pkg/logger"
	"amber-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

// DamageInput - всё, что влияет на итоговый урон одного удара.
type DamageInput struct {
	Raw      float64
	Outgoing float64 // множитель атакующего
	Taken    float64 // дебаффы цели
	Stacks   int     // стаки на цели
	Shielded bool    // цель под щитом монстрозити
}

// ComputeDamage считает урон: сырое значение, множитель атакующего, дебаффы цели,
// усиление от стаков, затем снижение щитом. Положительный урон не бывает меньше 1.
func (r Rules) ComputeDamage(in DamageInput) int {
	if in.Raw <= 0 {
		return 0
	}
	d := in.Raw * orOne(in.Outgoing) * orOne(in.Taken)
	d *= 1 + r.StackAmplification*float64(in.Stacks)
	if in.Shielded {
		d *= 1 - r.DamageReduction
	}
	final := int(math.Round(d))
	if final < 1 {
		final = 1
	}
	return final
}

// RollDamage - равномерный целочисленный бросок в [min, max].
func RollDamage(rng *rand.Rand, min, max int) int {
	return utils.IntInRange(rng, min, max)
}

// HitInput собирает DamageInput для удара attacker по target.
func HitInput(w World, attacker, target *domain.Actor, raw float64) DamageInput {
	in := DamageInput{
		Raw:      raw,
		Outgoing: attacker.DamageMultiplier,
		Taken:    target.Debuffs.DamageTakenMultiplier(),
		Shielded: Shielded(w, target),
	}
	if counter := w.StacksFor(target.ID); counter != nil {
		in.Stacks = counter.Count
	}
	return in
}

// AttackReport - итог автоатаки NPC.
type AttackReport struct {
	Damage int
	Killed bool
	Splash int // сколько получил игрок от брызг
}

// ResolveAttack - автоатака NPC по его цели. Стаки не начисляются, касты не сбиваются.
func ResolveAttack(w World, r Rules, attacker, target *domain.Actor) AttackReport {
	var report AttackReport
	if !attacker.Alive() || !target.Alive() {
		return report
	}

	dmg := r.ComputeDamage(HitInput(w, attacker, target, attacker.Stats.AttackDamage))
	report.Damage = dmg
	report.Killed = ApplyDamage(target, dmg)

	// Брызги: игрок стоит вплотную к адду, который бьёт цель рядом с игроком
	if attacker.Kind == domain.KindAdd && target.Kind != domain.KindPlayer {
		player := w.Player()
		if player.Alive() &&
			player.DistanceTo(target) <= r.Splash.TargetRadius &&
			player.DistanceTo(attacker) <= r.Splash.AddRadius {
			ApplyDamage(player, r.Splash.Damage)
			report.Splash = r.Splash.Damage
		}
	}

	logger.Component("combat_system").WithFields(logrus.Fields{
		"attacker_id": attacker.ID,
		"target_id":   target.ID,
		"damage":      dmg,
		"hp_after":    target.Health.Current,
		"target_died": report.Killed,
		"splash":      report.Splash,
	}).Debug("Attack resolved.")

	return report
}
