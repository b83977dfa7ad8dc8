package systems

import (
	"math/rand"

	"amber-server/internal/domain"
	"amber-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// CheckAbility проверяет, можно ли использовать способность прямо сейчас.
// Ничего не меняет.
func CheckAbility(w World, r Rules, id domain.AbilityID) domain.RejectReason {
	spec, ok := r.Abilities[id]
	if !ok {
		return domain.RejectUnknownAbility
	}
	player := w.Player()
	if !player.Alive() {
		return domain.RejectEncounterOver
	}
	if !player.Cooldowns.Ready(id) {
		return domain.RejectCooldown
	}
	if !player.Willpower.Has(spec.Cost) {
		return domain.RejectResource
	}
	if spec.BlockedWhileCasting && player.Casting() {
		return domain.RejectBlocked
	}
	if id == domain.AbilityConsumeResource {
		if _, ok := globuleInReach(w, player, spec.Reach); !ok {
			return domain.RejectNoTarget
		}
	}
	return domain.RejectNone
}

// UseAbility - полный цикл способности игрока: проверка, оплата, эффект.
// Отказ возвращается в результате, состояние при этом не меняется.
// break-free здесь только оплачивается, исход боя фиксирует оркестратор.
func UseAbility(w World, r Rules, rng *rand.Rand, id domain.AbilityID) domain.AbilityResult {
	if reason := CheckAbility(w, r, id); reason != domain.RejectNone {
		return domain.Rejected(id, reason)
	}

	player := w.Player()
	spec := r.Abilities[id]
	player.Willpower.Spend(spec.Cost)
	player.Cooldowns.Start(id, spec.CooldownS)

	result := domain.AbilityResult{Ability: id, OK: true, Globule: -1}
	switch id {
	case domain.AbilitySelfInterrupt:
		resolveSelfInterrupt(w, spec, &result)
	case domain.AbilityConsumeResource:
		resolveConsume(w, spec, &result)
	case domain.AbilityBreakFree:
	default:
		if spec.Offensive() {
			resolveStrike(w, r, rng, spec, &result)
		}
	}

	logger.Component("ability_system").WithFields(logrus.Fields{
		"ability":     id.String(),
		"target_id":   result.Target,
		"hit":         result.Hit,
		"whiff":       result.Whiff,
		"damage":      result.Damage,
		"interrupted": result.Interrupted,
	}).Debug("Ability resolved.")

	return result
}

// resolveStrike - удар по выбранной цели. Вне дальности удар уходит в пустоту:
// кулдаун и стоимость уже списаны, но урона, стаков и дебаффа нет.
func resolveStrike(w World, r Rules, rng *rand.Rand, spec domain.AbilitySpec, result *domain.AbilityResult) {
	player := w.Player()
	if player.Target.IsZero() {
		return
	}
	target := w.Actor(player.Target)
	if !target.Alive() {
		return
	}
	result.Target = target.ID

	if player.DistanceTo(target) > spec.Range {
		result.Whiff = true
		return
	}

	raw := RollDamage(rng, spec.DamageMin, spec.DamageMax)
	dmg := r.ComputeDamage(HitInput(w, player, target, float64(raw)))
	result.Hit = true
	result.Damage = dmg
	result.Killed = ApplyDamage(target, dmg)

	now := w.NowMs()
	if spec.Debuff != nil && !result.Killed {
		target.Debuffs.Add(spec.Debuff.Name, spec.Debuff.Percent, spec.Debuff.DurationS, now)
	}
	if spec.Interrupts && target.Cast != nil {
		result.Interrupted = target.Cast.Interrupt()
	}
	if spec.Stacks {
		if counter := w.StacksFor(target.ID); counter != nil {
			counter.RecordHit(now)
		}
	}
}

// resolveSelfInterrupt - "Struggle for Control": сбивает собственный каст игрока,
// вешает на него дебафф и коротко оглушает.
func resolveSelfInterrupt(w World, spec domain.AbilitySpec, result *domain.AbilityResult) {
	player := w.Player()
	result.Target = player.ID
	if player.Cast != nil {
		result.Interrupted = player.Cast.Interrupt()
	}
	if spec.SelfDebuff != nil {
		player.Debuffs.Add(spec.SelfDebuff.Name, spec.SelfDebuff.Percent, spec.SelfDebuff.DurationS, w.NowMs())
	}
	if spec.StunS > 0 {
		player.StunMs = spec.StunS * 1000
	}
}

// resolveConsume поглощает ближайшую сферу: воля (больше в третьей фазе) и здоровье сверх максимума.
func resolveConsume(w World, spec domain.AbilitySpec, result *domain.AbilityResult) {
	player := w.Player()
	globule, ok := globuleInReach(w, player, spec.Reach)
	if !ok || !w.ConsumeGlobule(globule.ID) {
		return
	}
	result.Globule = globule.ID

	restore := spec.Restore
	if w.Phase() >= 3 && spec.RestoreLatePhase > 0 {
		restore = spec.RestoreLatePhase
	}
	player.Willpower.Restore(restore)
	player.Health.Bolster(spec.Bolster)
}

func globuleInReach(w World, a *domain.Actor, reach float64) (domain.Globule, bool) {
	g, ok := w.NearestGlobule(a.Pos)
	if !ok || a.Pos.DistanceTo(g.Pos) > reach {
		return domain.Globule{}, false
	}
	return g, true
}
