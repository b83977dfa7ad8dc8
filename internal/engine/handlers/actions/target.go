package actions

import (
	"fmt"

	"amber-server/internal/domain"
	"amber-server/internal/engine/handlers"
	"amber-server/pkg/api"
)

// HandleTarget выбирает цель кликом по точке или по ID актора.
// Недопустимая цель сбрасывает выбор, это не ошибка.
func HandleTarget(ctx handlers.Context, p api.TargetPayload) (handlers.Result, error) {
	var selected domain.ActorID
	if p.HasPosition() {
		selected = ctx.Combat.SelectTargetAt(domain.Vec2{X: *p.X, Y: *p.Y})
	} else {
		id, err := domain.ParseActorID(p.ActorID)
		if err != nil {
			id = domain.NoActor
		}
		selected = ctx.Combat.SelectTarget(id)
	}

	if selected.IsZero() {
		return handlers.EmptyResult(), nil
	}
	return handlers.Result{Msg: fmt.Sprintf("Target: %s", selected), MsgType: "INFO"}, nil
}
