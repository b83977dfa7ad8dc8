package systems

import (
	"amber-server/internal/domain"
)

// ResolveTargetClick выбирает цель игрока по клику в точку арены.
// Босс в своём радиусе важнее монстрозити. Пустое место сбрасывает цель.
func ResolveTargetClick(w World, r Rules, pos domain.Vec2) domain.ActorID {
	if boss := w.Boss(); boss.Alive() && boss.Pos.DistanceTo(pos) <= r.BossTargetRadius {
		return boss.ID
	}
	if sec := w.Secondary(); sec.Alive() && sec.Pos.DistanceTo(pos) <= r.SecondaryTargetRadius {
		return sec.ID
	}
	return domain.NoActor
}

// ResolveTargetRef проверяет явную ссылку на актора.
// Целью могут быть только живые боссы, всё остальное (адды, сам игрок) сбрасывает цель.
func ResolveTargetRef(w World, id domain.ActorID) domain.ActorID {
	target := w.Actor(id)
	if !target.Alive() || !target.Kind.IsBossType() {
		return domain.NoActor
	}
	return target.ID
}

// SelectAddTarget - цель скриптового адда: монстрозити, пока жива, иначе босс.
// Конструкт в берсерке бьёт игрока.
func SelectAddTarget(w World, add *domain.Actor) *domain.Actor {
	if add.Variant == domain.VariantConstruct && add.Berserk {
		return w.Player()
	}
	if sec := w.Secondary(); sec.Alive() {
		return sec
	}
	return w.Boss()
}
