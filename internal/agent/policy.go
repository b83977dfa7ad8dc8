package agent

import (
	"encoding/json"
	"math"

	"amber-server/internal/config"
	"amber-server/internal/domain"
	"amber-server/internal/engine"
	"amber-server/pkg/api"
)

// Policy - автопилот игрока. Решает только по снимку, как UI-клиент.
// Хранит лишь то, что уже отправил (цель и направление), чтобы не слать дубли.
type Policy struct {
	StrikeRange float64
	Reach       float64
	// HungryBelow - ниже этой воли бот идёт за сферой
	HungryBelow float64
	// InterruptAt - процент прогресса своего каста, после которой бот его сбивает
	InterruptAt float64

	target  string
	moveDir api.Vec
}

func NewPolicy(b *config.Balance) *Policy {
	table := b.AbilityTable()
	return &Policy{
		StrikeRange: table[domain.AbilityPrimaryStrike].Range,
		Reach:       table[domain.AbilityConsumeResource].Reach,
		HungryBelow: b.Player.Willpower * 0.4,
		InterruptAt: 40,
	}
}

// Decide возвращает команды на этот снимок. Пустой список - ничего не менять.
func (p *Policy) Decide(state api.ServerResponse) []api.ClientCommand {
	if state.Result != nil || state.Player == nil {
		return nil
	}
	me := state.Player
	var cmds []api.ClientCommand

	// 1. Свой взрыв важнее всего
	if cast, ok := findCast(state, engine.CastLabelPlayer); ok && cast.Active && cast.Progress >= p.InterruptAt {
		if ready(me, domain.AbilitySelfInterrupt) {
			return append(cmds, ability(domain.AbilitySelfInterrupt))
		}
	}

	// 2. Воля на исходе: к ближайшей сфере
	if me.Willpower < p.HungryBelow && len(state.Globules) > 0 {
		g := nearestGlobule(me.Pos, state.Globules)
		if dist(me.Pos, g.Pos) <= p.Reach*0.8 {
			cmds = append(cmds, p.move(api.Vec{})...)
			if ready(me, domain.AbilityConsumeResource) {
				cmds = append(cmds, ability(domain.AbilityConsumeResource))
			}
			return cmds
		}
		return append(cmds, p.move(direction(me.Pos, g.Pos))...)
	}

	// 3. Бить монстрозити, пока она жива (она кастует и щитует босса), иначе босса
	target, ok := pickTarget(state)
	if !ok {
		return append(cmds, p.move(api.Vec{})...)
	}
	if p.target != target.ID {
		p.target = target.ID
		payload, _ := json.Marshal(api.TargetPayload{ActorID: target.ID})
		cmds = append(cmds, api.ClientCommand{Action: domain.CmdTarget.String(), Payload: payload})
	}

	if dist(me.Pos, target.Pos) > p.StrikeRange*0.8 {
		return append(cmds, p.move(direction(me.Pos, target.Pos))...)
	}
	cmds = append(cmds, p.move(api.Vec{})...)

	if ready(me, domain.AbilityPrimaryStrike) && !selfCasting(state) {
		cmds = append(cmds, ability(domain.AbilityPrimaryStrike))
	}
	return cmds
}

// move отправляет MOVE только при смене направления.
func (p *Policy) move(dir api.Vec) []api.ClientCommand {
	if dir == p.moveDir {
		return nil
	}
	p.moveDir = dir
	payload, _ := json.Marshal(api.MovePayload{Dx: dir.X, Dy: dir.Y})
	return []api.ClientCommand{{Action: domain.CmdMove.String(), Payload: payload}}
}

func ability(id domain.AbilityID) api.ClientCommand {
	payload, _ := json.Marshal(api.AbilityPayload{Ability: id.String()})
	return api.ClientCommand{Action: domain.CmdAbility.String(), Payload: payload}
}

func ready(me *api.PlayerView, id domain.AbilityID) bool {
	return me.Cooldowns[id.String()] <= 0
}

func selfCasting(state api.ServerResponse) bool {
	cast, ok := findCast(state, engine.CastLabelPlayer)
	return ok && cast.Active
}

func findCast(state api.ServerResponse, label string) (api.CastView, bool) {
	for _, c := range state.Casts {
		if c.Label == label {
			return c, true
		}
	}
	return api.CastView{}, false
}

func pickTarget(state api.ServerResponse) (api.BossView, bool) {
	var boss api.BossView
	found := false
	for _, b := range state.Bosses {
		if b.HP <= 0 {
			continue
		}
		if b.Kind == domain.KindSecondaryBoss.String() {
			return b, true
		}
		boss, found = b, true
	}
	return boss, found
}

func nearestGlobule(from api.Vec, list []api.GlobuleView) api.GlobuleView {
	best := list[0]
	for _, g := range list[1:] {
		if dist(from, g.Pos) < dist(from, best.Pos) {
			best = g
		}
	}
	return best
}

func dist(a, b api.Vec) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// direction - единичный вектор, округлённый до десятых, чтобы мелкие сдвиги не порождали новый MOVE.
func direction(from, to api.Vec) api.Vec {
	d := dist(from, to)
	if d == 0 {
		return api.Vec{}
	}
	round := func(v float64) float64 { return math.Round(v*10) / 10 }
	return api.Vec{X: round((to.X - from.X) / d), Y: round((to.Y - from.Y) / d)}
}
