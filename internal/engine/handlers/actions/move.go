package actions

import (
	"amber-server/internal/engine/handlers"
	"amber-server/pkg/api"
)

func HandleMove(ctx handlers.Context, p api.MovePayload) (handlers.Result, error) {
	ctx.Combat.Move(p.Dx, p.Dy)
	return handlers.EmptyResult(), nil
}
