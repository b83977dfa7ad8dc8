package actions

import (
	"fmt"

	"amber-server/internal/domain"
	"amber-server/internal/engine/handlers"
	"amber-server/pkg/api"
)

func HandleAbility(ctx handlers.Context, p api.AbilityPayload) (handlers.Result, error) {
	id := domain.ParseAbility(p.Ability)
	res := ctx.Combat.UseAbility(id)

	if !res.OK {
		return handlers.Result{Msg: res.Reason.String(), MsgType: "ERROR"}, nil
	}

	switch {
	case res.Hit:
		msg := fmt.Sprintf("Amber Strike hits %s for %d.", res.Target, res.Damage)
		if res.Interrupted {
			msg += " Cast interrupted!"
		}
		return handlers.Result{Msg: msg, MsgType: "COMBAT"}, nil
	case res.Whiff:
		return handlers.Result{Msg: "Amber Strike misses: target out of range.", MsgType: "COMBAT"}, nil
	case id == domain.AbilitySelfInterrupt && res.Interrupted:
		return handlers.Result{Msg: "You struggle for control and stop the explosion.", MsgType: "COMBAT"}, nil
	case id == domain.AbilityConsumeResource:
		return handlers.Result{Msg: "You consume a globule of amber.", MsgType: "INFO"}, nil
	}
	return handlers.EmptyResult(), nil
}
