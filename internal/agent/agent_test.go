package agent

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"amber-server/internal/config"
	"amber-server/internal/domain"
	"amber-server/internal/engine"
	"amber-server/pkg/api"
	"amber-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func readyCooldowns() map[string]float64 {
	out := make(map[string]float64)
	for _, id := range domain.AllAbilities() {
		out[id.String()] = 0
	}
	return out
}

func baseState() api.ServerResponse {
	return api.ServerResponse{
		Type: engine.MsgUpdate,
		Player: &api.PlayerView{
			ActorView:    api.ActorView{ID: "PLAYER_1", Pos: api.Vec{X: 400, Y: 400}, Willpower: 100},
			MaxWillpower: 100,
			Cooldowns:    readyCooldowns(),
		},
		Bosses: []api.BossView{
			{ActorView: api.ActorView{ID: "BOSS_1", Kind: domain.KindBoss.String(), Pos: api.Vec{X: 400, Y: 200}, HP: 1000}},
		},
	}
}

func actions(cmds []api.ClientCommand) []string {
	var out []string
	for _, c := range cmds {
		out = append(out, c.Action)
	}
	return out
}

func abilityOf(t *testing.T, cmd api.ClientCommand) string {
	t.Helper()
	var p api.AbilityPayload
	if err := json.Unmarshal(cmd.Payload, &p); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	return p.Ability
}

func TestPolicy_SelfInterrupt(t *testing.T) {
	p := NewPolicy(config.Default())
	state := baseState()
	state.Casts = []api.CastView{{Label: engine.CastLabelPlayer, Active: true, Progress: 60}}

	cmds := p.Decide(state)
	if len(cmds) != 1 || abilityOf(t, cmds[0]) != domain.AbilitySelfInterrupt.String() {
		t.Fatalf("expected self-interrupt, got %v", actions(cmds))
	}

	// Кулдаун не готов: бот продолжает обычный цикл
	state.Player.Cooldowns[domain.AbilitySelfInterrupt.String()] = 3
	for _, c := range p.Decide(state) {
		if c.Action == domain.CmdAbility.String() && abilityOf(t, c) == domain.AbilitySelfInterrupt.String() {
			t.Error("self-interrupt on cooldown must not be sent")
		}
	}
}

func TestPolicy_ApproachAndStrike(t *testing.T) {
	p := NewPolicy(config.Default())
	state := baseState()

	cmds := p.Decide(state)
	if got := actions(cmds); len(got) != 2 || got[0] != "TARGET" || got[1] != "MOVE" {
		t.Fatalf("expected TARGET then MOVE, got %v", got)
	}
	var mv api.MovePayload
	_ = json.Unmarshal(cmds[1].Payload, &mv)
	if mv.Dy >= 0 || mv.Dx != 0 {
		t.Errorf("expected move up toward boss, got %+v", mv)
	}

	// Повторный снимок без изменений: дублей нет
	if cmds := p.Decide(state); len(cmds) != 0 {
		t.Errorf("expected no commands, got %v", actions(cmds))
	}

	// В радиусе удара: стоп и удар
	state.Player.Pos = api.Vec{X: 400, Y: 220}
	cmds = p.Decide(state)
	if got := actions(cmds); len(got) != 2 || got[0] != "MOVE" || got[1] != "ABILITY" {
		t.Fatalf("expected MOVE stop then ABILITY, got %v", got)
	}
	if abilityOf(t, cmds[1]) != domain.AbilityPrimaryStrike.String() {
		t.Errorf("expected primary strike")
	}
}

func TestPolicy_PrefersSecondary(t *testing.T) {
	p := NewPolicy(config.Default())
	state := baseState()
	state.Bosses = append(state.Bosses, api.BossView{
		ActorView: api.ActorView{ID: "MONSTROSITY_1", Kind: domain.KindSecondaryBoss.String(), Pos: api.Vec{X: 200, Y: 400}, HP: 500},
	})

	cmds := p.Decide(state)
	if len(cmds) == 0 || cmds[0].Action != "TARGET" {
		t.Fatalf("expected TARGET, got %v", actions(cmds))
	}
	var tp api.TargetPayload
	_ = json.Unmarshal(cmds[0].Payload, &tp)
	if tp.ActorID != "MONSTROSITY_1" {
		t.Errorf("target = %q, want MONSTROSITY_1", tp.ActorID)
	}
}

func TestPolicy_Consume(t *testing.T) {
	tests := []struct {
		name    string
		globule api.Vec
		want    string
	}{
		{"in reach", api.Vec{X: 410, Y: 400}, "ABILITY"},
		{"far away", api.Vec{X: 700, Y: 400}, "MOVE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPolicy(config.Default())
			state := baseState()
			state.Player.Willpower = 10
			state.Globules = []api.GlobuleView{{ID: 1, Pos: tt.globule}}

			cmds := p.Decide(state)
			if len(cmds) == 0 {
				t.Fatal("expected commands")
			}
			last := cmds[len(cmds)-1]
			if last.Action != tt.want {
				t.Fatalf("last action = %s, want %s", last.Action, tt.want)
			}
			if tt.want == "ABILITY" && abilityOf(t, last) != domain.AbilityConsumeResource.String() {
				t.Errorf("expected consume")
			}
		})
	}
}

func TestPolicy_IgnoresFinishedState(t *testing.T) {
	p := NewPolicy(config.Default())
	state := baseState()
	state.Result = &api.ResultView{Outcome: "victory"}
	if cmds := p.Decide(state); cmds != nil {
		t.Errorf("expected nil, got %v", actions(cmds))
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	b := config.Default()
	first, err := Simulate(context.Background(), b, 42, 50, 400)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	second, err := Simulate(context.Background(), b, 42, 50, 400)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if first != second {
		t.Errorf("same seed diverged: %+v vs %+v", first, second)
	}
	if first.Ticks == 0 || first.Ticks > 400 {
		t.Errorf("ticks = %d", first.Ticks)
	}
}

func TestSimulate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Simulate(ctx, config.Default(), 1, 50, 100); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestBot_PlaysLiveSession(t *testing.T) {
	cfg := engine.NewConfig()
	cfg.TickInterval = 5 * time.Millisecond
	svc, err := engine.NewService(cfg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	bot := NewBot("bot-1", svc)
	if _, ok := svc.Session("bot-1"); !ok {
		t.Fatal("bot session not created")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	res, err := bot.Run(ctx)
	switch {
	case err == nil && res == nil:
		t.Error("bot stopped without a result")
	case err != nil && !errors.Is(err, context.DeadlineExceeded):
		t.Errorf("Run: %v", err)
	}

	if _, ok := svc.Session("bot-1"); ok {
		t.Error("session must be closed after Run")
	}
	if svc.Hub.HasSubscriber("bot-1") {
		t.Error("bot must unregister from the hub")
	}
}
