package actions

import "amber-server/internal/engine/handlers"

func HandleInit(ctx handlers.Context) (handlers.Result, error) {
	return handlers.Result{
		Msg:     "Amber-Shaper Un'sok awaits. Keep your willpower up.",
		MsgType: "INFO",
	}, nil
}

// HandleRestart пересоздает энкаунтер сессии с тем же сидом.
func HandleRestart(ctx handlers.Context) (handlers.Result, error) {
	if ctx.Restart == nil {
		return handlers.EmptyResult(), nil
	}
	ctx.Restart()
	return handlers.Result{Msg: "Encounter restarted.", MsgType: "INFO"}, nil
}
