package systems

import (
	"amber-server/internal/domain"
)

// stepLen - сколько актор проходит за тик.
func stepLen(speed, deltaMs float64) float64 {
	if speed <= 0 || deltaMs <= 0 {
		return 0
	}
	return speed * deltaMs / 1000
}

// MovePlayer двигает игрока по намерению MoveDir. Оглушённый стоит на месте.
func MovePlayer(p *domain.Actor, bounds domain.Rect, deltaMs float64) bool {
	if !p.Alive() || p.Stunned() || p.MoveDir.Len() == 0 {
		return false
	}
	step := stepLen(p.Stats.MoveSpeed, deltaMs)
	next := bounds.Clamp(p.Pos.Add(p.MoveDir.Normalized().Scale(step)))
	moved := next != p.Pos
	p.Pos = next
	return moved
}

// Approach подводит актора к точке, но не ближе stopAt.
func Approach(a *domain.Actor, target domain.Vec2, stopAt, speed, deltaMs float64, bounds domain.Rect) {
	dist := a.Pos.DistanceTo(target)
	if dist <= stopAt {
		return
	}
	step := stepLen(speed, deltaMs)
	if step > dist-stopAt {
		step = dist - stopAt
	}
	a.Pos = bounds.Clamp(a.Pos.MoveToward(target, step))
}

// Retreat отводит актора от точки, но не дальше until.
func Retreat(a *domain.Actor, from domain.Vec2, until, speed, deltaMs float64, bounds domain.Rect) {
	dist := a.Pos.DistanceTo(from)
	if dist >= until {
		return
	}
	step := stepLen(speed, deltaMs)
	if step > until-dist {
		step = until - dist
	}
	a.Pos = bounds.Clamp(a.Pos.MoveAway(from, step))
}

// KeepDistance держит дальнобойного актора в полосе [desired-below, desired+above] от цели.
// Выйдя из полосы, актор возвращается ровно на desired.
// Возвращает true, если актор уже внутри полосы.
func KeepDistance(a *domain.Actor, target domain.Vec2, desired, below, above, deltaMs float64, bounds domain.Rect) bool {
	dist := a.Pos.DistanceTo(target)
	switch {
	case dist > desired+above:
		Approach(a, target, desired, a.Stats.MoveSpeed, deltaMs, bounds)
		return false
	case dist < desired-below:
		Retreat(a, target, desired, a.Stats.MoveSpeed, deltaMs, bounds)
		return false
	}
	return true
}
