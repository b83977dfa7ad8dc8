package systems

import (
	"amber-server/internal/domain"
)

// reachEpsilon гасит ошибку округления после подхода ровно на дистанцию атаки.
const reachEpsilon = 1e-6

// AIOutcome - что NPC сделал за тик.
type AIOutcome struct {
	Target   domain.ActorID
	Attacked bool
	Attack   AttackReport
	Globule  int // поглощённая сфера, -1 если нет
	Arrived  bool
}

// UpdateAI - один тик NPC: выбор цели, движение, автоатака по кулдауну.
func UpdateAI(w World, r Rules, npc *domain.Actor, deltaMs float64) AIOutcome {
	out := AIOutcome{Globule: -1}
	if !npc.Alive() || npc.Stunned() {
		return out
	}

	var target *domain.Actor
	switch npc.Kind {
	case domain.KindBoss:
		target = w.Player()
		if npc.MoveTarget != nil {
			out.Arrived = regroup(npc, r, deltaMs)
		} else if target.Alive() {
			Approach(npc, target.Pos, npc.Stats.AttackRange, npc.Stats.MoveSpeed, deltaMs, r.Bounds)
		}
	case domain.KindSecondaryBoss:
		target = w.Player()
		if target.Alive() {
			Approach(npc, target.Pos, npc.Stats.AttackRange, npc.Stats.MoveSpeed, deltaMs, r.Bounds)
		}
	case domain.KindAdd:
		if hungry(npc, r) {
			if g, ok := w.NearestGlobule(npc.Pos); ok {
				out.Globule = seekGlobule(w, r, npc, g, deltaMs)
				return out
			}
		}
		target = SelectAddTarget(w, npc)
		if target.Alive() {
			positionAdd(npc, target, r, deltaMs)
		}
	default:
		return out
	}

	if !target.Alive() {
		npc.Target = domain.NoActor
		return out
	}
	npc.Target = target.ID
	out.Target = target.ID

	if npc.AttackCooldownMs > 0 || npc.DistanceTo(target) > npc.Stats.AttackRange+reachEpsilon {
		return out
	}
	out.Attacked = true
	out.Attack = ResolveAttack(w, r, npc, target)
	npc.AttackCooldownMs = npc.Stats.AttackIntervalMs
	return out
}

// positionAdd: дальнобойный держит дистанцию, ближний подходит вплотную.
func positionAdd(npc, target *domain.Actor, r Rules, deltaMs float64) {
	if npc.IsRanged(r.RangedThreshold) {
		KeepDistance(npc, target.Pos, npc.Stats.AttackRange, r.BandLow, r.BandHigh, deltaMs, r.Bounds)
		return
	}
	Approach(npc, target.Pos, npc.Stats.AttackRange, npc.Stats.MoveSpeed, deltaMs, r.Bounds)
}

// regroup ведёт босса к точке сбора. Возвращает true по прибытии.
func regroup(boss *domain.Actor, r Rules, deltaMs float64) bool {
	speed := boss.MoveTargetSpd
	if speed <= 0 {
		speed = boss.Stats.MoveSpeed
	}
	Approach(boss, *boss.MoveTarget, 0, speed, deltaMs, r.Bounds)
	if boss.Pos.DistanceTo(*boss.MoveTarget) <= r.Regroup.ArrivalRadius {
		boss.MoveTarget = nil
		return true
	}
	return false
}

// hungry - конструкту не хватает воли и он идёт к сфере.
func hungry(npc *domain.Actor, r Rules) bool {
	return npc.Variant == domain.VariantConstruct &&
		!npc.Berserk &&
		npc.Willpower.Max > 0 &&
		npc.Willpower.Fraction() < r.HungerFraction
}

// seekGlobule двигает конструкта к сфере и поглощает её в радиусе подбора.
func seekGlobule(w World, r Rules, npc *domain.Actor, g domain.Globule, deltaMs float64) int {
	npc.Target = domain.NoActor
	Approach(npc, g.Pos, 0, npc.Stats.MoveSpeed, deltaMs, r.Bounds)
	if npc.Pos.DistanceTo(g.Pos) > r.PickupRadius {
		return -1
	}
	if !w.ConsumeGlobule(g.ID) {
		return -1
	}
	npc.Willpower.Restore(r.GlobuleValue)
	return g.ID
}
