package engine

import (
	"amber-server/internal/domain"
	"amber-server/pkg/api"
)

// Типы сообщений
const (
	MsgInit   = "INIT"
	MsgUpdate = "UPDATE"
	MsgEnd    = "END"
	// MsgNotice - служебное сообщение без снимка, только Logs
	MsgNotice = "NOTICE"
)

// Метки кастов в снимке
const (
	CastLabelPlayer      = "player"
	CastLabelMonstrosity = "monstrosity"
)

// BuildSnapshot создает снимок энкаунтера для UI-клиента или бота.
// Снимок содержит копии значений, поэтому его можно отдавать в другую горутину.
func BuildSnapshot(e *Encounter, sessionID, msgType string, logs []api.LogEntry) api.ServerResponse {
	score := e.Score()
	resp := api.ServerResponse{
		Type:      msgType,
		Tick:      e.Ticks(),
		SessionID: sessionID,
		Encounter: api.EncounterView{
			ElapsedMs: e.NowMs(),
			Phase:     e.Phase(),
			Score:     score.Current(),
			Status:    e.Status(),
		},
	}

	if msgType == MsgInit {
		arena := e.Balance().Arena
		resp.Arena = &api.ArenaMeta{Width: arena.Width, Height: arena.Height}
	}

	resp.Player = toPlayerView(e, e.Player())

	for _, boss := range e.BossTargets() {
		if boss.Removed {
			continue
		}
		view := api.BossView{
			ActorView: toActorView(e, boss),
			Shielded:  e.Shielded(boss),
			Debuffs:   toDebuffViews(boss.Debuffs.Active()),
		}
		if counter := e.StacksFor(boss.ID); counter != nil {
			view.Stacks = counter.Count
			view.StackIdleRemainingMs = counter.IdleRemainingMs(e.NowMs())
		}
		resp.Bosses = append(resp.Bosses, view)
	}

	resp.Casts = append(resp.Casts, toCastView(CastLabelPlayer, e.Player().Cast))
	if sec := e.Secondary(); sec.Alive() {
		resp.Casts = append(resp.Casts, toCastView(CastLabelMonstrosity, sec.Cast))
	}

	for _, add := range e.Adds() {
		if add.Alive() {
			resp.Actors = append(resp.Actors, toActorView(e, add))
		}
	}

	for _, g := range e.Globules() {
		resp.Globules = append(resp.Globules, api.GlobuleView{ID: g.ID, Pos: toVec(g.Pos)})
	}

	if res, ok := e.Result(); ok {
		resp.Result = &api.ResultView{
			Outcome:    res.Outcome.String(),
			Reason:     res.Reason,
			FinalScore: res.FinalScore,
		}
		resp.Encounter.Score = res.FinalScore
	}

	if len(logs) > 0 {
		resp.Logs = make([]api.LogEntry, len(logs))
		copy(resp.Logs, logs)
	}
	return resp
}

func toActorView(e *Encounter, a *domain.Actor) api.ActorView {
	view := api.ActorView{
		ID:        a.ID.String(),
		Kind:      a.Kind.String(),
		Name:      a.Name,
		Class:     a.Class,
		Pos:       toVec(a.Pos),
		HP:        float64(a.Health.Current),
		MaxHP:     float64(a.Health.Max),
		Berserk:   a.Berserk,
		Willpower: a.Willpower.Current,
		TargetID:  a.Target.String(),
	}
	if a.Kind == domain.KindAdd {
		view.Ranged = a.IsRanged(e.Balance().Raid.RangedThreshold)
	}
	return view
}

func toPlayerView(e *Encounter, p *domain.Actor) *api.PlayerView {
	view := &api.PlayerView{
		ActorView:    toActorView(e, p),
		MaxWillpower: p.Willpower.Max,
		Cooldowns:    make(map[string]float64),
		Debuffs:      toDebuffViews(p.Debuffs.Active()),
		Stunned:      p.Stunned(),
	}
	for _, id := range domain.AllAbilities() {
		view.Cooldowns[id.String()] = p.Cooldowns.Remaining(id)
	}
	return view
}

func toCastView(label string, c *domain.CastState) api.CastView {
	if c == nil {
		return api.CastView{Label: label}
	}
	return api.CastView{
		Label:    label,
		Active:   c.Casting(),
		Progress: c.Progress() * 100,
		NextInMs: c.NextInMs(),
	}
}

func toDebuffViews(list []domain.Debuff) []api.DebuffView {
	if len(list) == 0 {
		return nil
	}
	out := make([]api.DebuffView, 0, len(list))
	for _, d := range list {
		out = append(out, api.DebuffView{Name: d.Name, Percent: d.Percent, RemainingS: d.Remaining})
	}
	return out
}

func toVec(p domain.Vec2) api.Vec {
	return api.Vec{X: p.X, Y: p.Y}
}
