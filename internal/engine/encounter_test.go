package engine

import (
	"math"
	"os"
	"reflect"
	"testing"

	"amber-server/internal/config"
	"amber-server/internal/domain"
	"amber-server/internal/systems"
	"amber-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// eventLog собирает события энкаунтера
type eventLog struct {
	events []domain.Event
}

func (l *eventLog) OnEvent(e domain.Event) { l.events = append(l.events, e) }

func (l *eventLog) count(t domain.EventType) int {
	n := 0
	for _, e := range l.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// quietBalance - бой один на один с боссом: без рейда, конструктов и взрыва игрока.
func quietBalance() *config.Balance {
	b := config.Default()
	b.Raid.Count = 0
	b.Raid.Roster = nil
	b.Constructs.Count = 0
	b.Player.Cast.IntervalMs = 1e9
	return b
}

func tickN(e *Encounter, n int, deltaMs float64) {
	for i := 0; i < n && !e.Over(); i++ {
		e.Tick(deltaMs)
	}
}

// closeIn подводит игрока к боссу на дистанцию удара.
func closeIn(t *testing.T, e *Encounter) {
	t.Helper()
	e.Move(0, -1)
	for i := 0; i < 100 && e.Player().DistanceTo(e.Boss()) > 45; i++ {
		e.Tick(100)
	}
	e.Move(0, 0)
	if d := e.Player().DistanceTo(e.Boss()); d > 50 {
		t.Fatalf("player did not reach the boss: dist %.1f", d)
	}
	if got := e.SelectTarget(e.Boss().ID); got != e.Boss().ID {
		t.Fatalf("target = %s, want boss", got)
	}
}

func TestEncounter_InitialState(t *testing.T) {
	b := config.Default()
	e := NewEncounter(b, 7, nil)

	if e.Phase() != 1 || e.Status() != StatusRunning {
		t.Errorf("phase %d status %s", e.Phase(), e.Status())
	}
	if got, want := e.Boss().Health.Current, int(float64(b.Boss.Health)*b.Boss.StartFraction); got != want {
		t.Errorf("boss hp = %d, want %d", got, want)
	}
	if got := len(e.Adds()); got != b.Raid.Count+b.Constructs.Count {
		t.Errorf("adds = %d", got)
	}
	if got := len(e.Globules()); got != b.Globules.Initial {
		t.Errorf("globules = %d", got)
	}
	if e.Secondary() != nil {
		t.Error("secondary must not exist in phase 1")
	}

	ranged := 0
	for i, add := range e.Adds() {
		if add.ID.Index() != i+1 {
			t.Errorf("add %d has id %s", i, add.ID)
		}
		if e.Actor(add.ID) != add {
			t.Errorf("Actor(%s) lookup failed", add.ID)
		}
		if add.Variant == domain.VariantRaider && add.IsRanged(b.Raid.RangedThreshold) {
			ranged++
		}
	}
	if ranged < b.Raid.RangedMin || ranged > b.Raid.RangedMax {
		t.Errorf("ranged raiders = %d, want %d..%d", ranged, b.Raid.RangedMin, b.Raid.RangedMax)
	}
}

// Игрок сбивает собственный взрыв через секунду после начала каста.
func TestEncounter_SelfInterruptStopsExplosion(t *testing.T) {
	b := quietBalance()
	b.Player.Cast.IntervalMs = 13000
	events := &eventLog{}
	e := NewEncounter(b, 1, events)

	for i := 0; i < 200 && !e.Player().Casting(); i++ {
		e.Tick(100)
	}
	if !e.Player().Casting() {
		t.Fatal("player cast never started")
	}
	tickN(e, 10, 100)
	willBefore := e.Player().Willpower.Current

	res := e.UseAbility(domain.AbilitySelfInterrupt)
	if !res.OK || !res.Interrupted {
		t.Fatalf("self-interrupt = %+v", res)
	}
	p := e.Player()
	if p.Casting() {
		t.Error("cast must be idle after interrupt")
	}
	if p.Cast.CooldownMs != b.Player.Cast.InterruptCooldownMs {
		t.Errorf("interrupt cooldown = %v", p.Cast.CooldownMs)
	}
	if math.Abs(willBefore-p.Willpower.Current-8) > 1e-9 {
		t.Errorf("willpower %.2f -> %.2f, want cost 8", willBefore, p.Willpower.Current)
	}
	if !p.Stunned() || !p.Debuffs.Has(domain.DebuffStruggleControl) {
		t.Error("self-interrupt must stun and apply struggle-control")
	}

	tickN(e, 30, 100)
	if e.Over() || events.count(domain.EventCastCompleted) != 0 {
		t.Errorf("explosion completed after interrupt: over=%v", e.Over())
	}
	if events.count(domain.EventCastInterrupted) != 1 {
		t.Errorf("interrupt events = %d", events.count(domain.EventCastInterrupted))
	}
}

func TestEncounter_PlayerCastCompletesIsDefeat(t *testing.T) {
	b := quietBalance()
	b.Player.Cast.IntervalMs = 1000
	e := NewEncounter(b, 1, nil)

	tickN(e, 100, 100)
	res, ok := e.Result()
	if !ok || res.Outcome != domain.OutcomeDefeat || res.Reason != domain.ReasonSelfExplosion {
		t.Fatalf("result = %+v, %v", res, ok)
	}
	// 1000 мс до старта + 2500 мс каста
	if res.ElapsedMs != 3500 {
		t.Errorf("ended at %v ms", res.ElapsedMs)
	}
}

// Переход во вторую фазу: монстрозити, переключение рейда, одно событие.
func TestEncounter_PhaseTwoSpawnsSecondary(t *testing.T) {
	b := config.Default()
	b.Player.Cast.IntervalMs = 1e9
	events := &eventLog{}
	e := NewEncounter(b, 3, events)

	e.Boss().Health.Current = int(0.69 * float64(e.Boss().Health.Max))
	e.Tick(50)

	if e.Phase() != 2 {
		t.Fatalf("phase = %d", e.Phase())
	}
	sec := e.Secondary()
	if !sec.Alive() {
		t.Fatal("secondary not spawned")
	}
	region := b.Secondary.SpawnRegion
	if sec.Pos.X < region.MinX || sec.Pos.X > region.MaxX || sec.Pos.Y < region.MinY || sec.Pos.Y > region.MaxY {
		t.Errorf("secondary spawned outside region: %+v", sec.Pos)
	}
	for _, add := range e.Adds() {
		if add.Alive() && !add.Berserk && add.Target != sec.ID {
			t.Errorf("%s targets %s, want %s", add.ID, add.Target, sec.ID)
		}
	}
	if e.Boss().MoveTarget == nil {
		t.Error("boss must regroup toward the secondary")
	}
	if !e.Shielded(e.Boss()) {
		t.Error("boss must be shielded while the secondary lives")
	}

	tickN(e, 20, 50)
	if n := events.count(domain.EventPhaseChanged); n != 1 {
		t.Errorf("phase events = %d, want 1", n)
	}
	if n := events.count(domain.EventSecondarySpawned); n != 1 {
		t.Errorf("spawn events = %d, want 1", n)
	}
}

func TestEncounter_SecondaryDeath(t *testing.T) {
	b := config.Default()
	b.Player.Cast.IntervalMs = 1e9
	events := &eventLog{}
	e := NewEncounter(b, 3, events)

	e.Boss().Health.Current = int(0.69 * float64(e.Boss().Health.Max))
	e.Tick(50)
	sec := e.Secondary()
	systems.ApplyDamage(sec, sec.Health.Max)
	e.Tick(50)

	if !sec.Removed || !e.StacksFor(sec.ID).Retired {
		t.Error("dead secondary must be removed and its counter retired")
	}
	if e.Shielded(e.Boss()) {
		t.Error("shield must drop with the secondary")
	}
	for _, add := range e.Adds() {
		if add.Alive() && add.Target == sec.ID {
			t.Errorf("%s still targets the dead secondary", add.ID)
		}
	}
	if events.count(domain.EventSecondaryDefeated) != 1 {
		t.Error("missing secondary defeated event")
	}
	if e.Over() {
		t.Error("secondary death does not end the encounter")
	}
}

func TestEncounter_DeadSecondaryKeepsStackPoints(t *testing.T) {
	events := &eventLog{}
	e := NewEncounter(quietBalance(), 3, events)

	e.Boss().Health.Current = int(0.69 * float64(e.Boss().Health.Max))
	e.Tick(100)
	sec := e.Secondary()
	counter := e.StacksFor(sec.ID)
	for i := 0; i < 3; i++ {
		counter.RecordHit(e.NowMs())
	}
	e.Tick(100)
	if got := e.Score().StackPoints; got != 700 {
		t.Fatalf("stack points with 3 stacks = %d, want 700", got)
	}

	systems.ApplyDamage(sec, sec.Health.Max)
	tickN(e, 170, 100)
	if e.Over() {
		t.Fatalf("encounter ended early: %+v", e.result)
	}
	if got := e.Score().StackPoints; got != 700 {
		t.Errorf("stack points after secondary death = %d, want 700", got)
	}
	if events.count(domain.EventStacksReset) != 0 {
		t.Error("retired counter must not emit a stack reset")
	}
}

func TestEncounter_MonstrosityBlast(t *testing.T) {
	b := quietBalance()
	b.Secondary.Cast.IntervalMs = 1000
	b.Secondary.Cast.DurationMs = 500
	e := NewEncounter(b, 5, nil)

	e.Boss().Health.Current = int(0.69 * float64(e.Boss().Health.Max))
	tickN(e, 100, 100)

	res, ok := e.Result()
	if !ok || res.Reason != domain.ReasonMonstrosityBlast {
		t.Fatalf("result = %+v", res)
	}
}

// Бездействие: воля кончается на 50-й секунде, счёт только за время.
func TestEncounter_IdleUntilBerserk(t *testing.T) {
	e := NewEncounter(quietBalance(), 11, nil)

	tickN(e, 100, 1000)

	if e.Ticks() != 50 {
		t.Errorf("ticks = %d, want 50", e.Ticks())
	}
	res, ok := e.Result()
	if !ok {
		t.Fatal("encounter must be over")
	}
	if res.Outcome != domain.OutcomeDefeat || res.Reason != domain.ReasonBerserk {
		t.Errorf("result = %+v", res)
	}
	if res.FinalScore != 500 {
		t.Errorf("final score = %d, want 500", res.FinalScore)
	}
	if e.Status() != StatusDefeat {
		t.Errorf("status = %s", e.Status())
	}

	// После конца тики ничего не меняют
	e.Tick(1000)
	if e.Ticks() != 50 {
		t.Error("tick after the end must be ignored")
	}
}

// Стак держится 15 секунд простоя и сгорает, очки: +100 - 50.
func TestEncounter_StackResetScoring(t *testing.T) {
	events := &eventLog{}
	e := NewEncounter(quietBalance(), 9, events)
	closeIn(t, e)

	res := e.UseAbility(domain.AbilityPrimaryStrike)
	if !res.OK || !res.Hit || res.Damage <= 0 {
		t.Fatalf("strike = %+v", res)
	}
	if got := e.StacksFor(e.Boss().ID).Count; got != 1 {
		t.Fatalf("stacks = %d", got)
	}
	if !e.Boss().Debuffs.Has(domain.DebuffAmberStrike) {
		t.Error("strike must apply amber-strike")
	}
	if got := e.Score().DamageDealt; got != int64(res.Damage) {
		t.Errorf("damage dealt = %d, want %d", got, res.Damage)
	}

	e.Tick(100)
	if got := e.Score().StackPoints; got != 100 {
		t.Errorf("stack points after gain = %d", got)
	}

	tickN(e, 150, 100)
	if got := e.StacksFor(e.Boss().ID).Count; got != 0 {
		t.Errorf("stacks after idle = %d", got)
	}
	if events.count(domain.EventStacksReset) != 1 {
		t.Error("missing stack reset event")
	}
	if got := e.Score().StackPoints; got != 50 {
		t.Errorf("stack points after reset = %d, want 50", got)
	}
}

func TestEncounter_Victory(t *testing.T) {
	e := NewEncounter(quietBalance(), 2, nil)
	closeIn(t, e)
	e.Boss().Health.Current = 1

	res := e.UseAbility(domain.AbilityPrimaryStrike)
	if !res.Hit || !res.Killed {
		t.Fatalf("strike = %+v", res)
	}

	result, ok := e.Result()
	if !ok || result.Outcome != domain.OutcomeVictory || result.Reason != domain.ReasonVictory {
		t.Fatalf("result = %+v", result)
	}
	s := e.Score()
	if !s.Killed || s.KillTimeS != e.NowMs()/1000 {
		t.Errorf("kill time = %v at %v ms", s.KillTimeS, e.NowMs())
	}
	want := systems.FinalScore(systems.BaseScore(s.ElapsedS, s.DamageDealt), s.StackPoints, true, s.KillTimeS)
	if result.FinalScore != want {
		t.Errorf("final score = %d, want %d", result.FinalScore, want)
	}
	if result.FinalScore <= s.Current() {
		t.Error("fast kill must multiply the score")
	}
}

func TestEncounter_BreakFree(t *testing.T) {
	events := &eventLog{}
	e := NewEncounter(config.Default(), 4, events)
	e.Tick(50)

	res := e.UseAbility(domain.AbilityBreakFree)
	if !res.OK {
		t.Fatalf("break-free rejected: %v", res.Reason)
	}
	result, ok := e.Result()
	if !ok || result.Outcome != domain.OutcomeSuccess || result.Reason != domain.ReasonBreakFree {
		t.Fatalf("result = %+v", result)
	}
	if e.Status() != StatusSuccess {
		t.Errorf("status = %s", e.Status())
	}

	again := e.UseAbility(domain.AbilityPrimaryStrike)
	if again.OK || again.Reason != domain.RejectEncounterOver {
		t.Errorf("command after end = %+v", again)
	}
	if n := events.count(domain.EventEncounterEnded); n != 1 {
		t.Errorf("end events = %d, want 1", n)
	}
}

func TestEncounter_ConsumeGlobule(t *testing.T) {
	e := NewEncounter(quietBalance(), 6, nil)
	tickN(e, 10, 1000)

	p := e.Player()
	e.globules = []domain.Globule{{ID: 99, Pos: p.Pos.Add(domain.Vec2{X: 30})}}
	before := p.Willpower.Current

	res := e.UseAbility(domain.AbilityConsumeResource)
	if !res.OK || res.Globule != 99 {
		t.Fatalf("consume = %+v", res)
	}
	if got := p.Willpower.Current - before; math.Abs(got-20) > 1e-9 {
		t.Errorf("restored %.2f, want 20", got)
	}
	if len(e.Globules()) != 0 {
		t.Error("globule must be consumed")
	}

	if res := e.UseAbility(domain.AbilityConsumeResource); res.Reason != domain.RejectCooldown {
		t.Errorf("second consume = %v, want cooldown", res.Reason)
	}

	tickN(e, 2, 1000)
	will := p.Willpower.Current
	if res := e.UseAbility(domain.AbilityConsumeResource); res.Reason != domain.RejectNoTarget {
		t.Errorf("consume without globules = %v", res.Reason)
	}
	if p.Willpower.Current != will || !p.Cooldowns.Ready(domain.AbilityConsumeResource) {
		t.Error("rejected consume must not mutate state")
	}
}

func TestEncounter_GlobuleBatches(t *testing.T) {
	b := quietBalance()
	e := NewEncounter(b, 8, nil)

	tickN(e, 149, 100)
	if got := len(e.Globules()); got != b.Globules.Initial {
		t.Fatalf("before first batch: %d", got)
	}
	e.Tick(100) // 15000 мс
	if got := len(e.Globules()); got != b.Globules.Initial+1 {
		t.Errorf("at 15 s: %d", got)
	}
	tickN(e, 20, 100) // 17000 мс
	if got := len(e.Globules()); got != b.Globules.Initial+b.Globules.BatchSize {
		t.Errorf("at 17 s: %d", got)
	}
}

func TestEncounter_ConstructsBerserk(t *testing.T) {
	b := quietBalance()
	b.Constructs.Count = 3
	b.Constructs.WillpowerDrain = 50
	b.Constructs.HungerFraction = 0
	events := &eventLog{}
	e := NewEncounter(b, 10, events)

	tickN(e, 10, 1000)

	res, ok := e.Result()
	if !ok || res.Reason != domain.ReasonConstructsBerserk {
		t.Fatalf("result = %+v", res)
	}
	if n := events.count(domain.EventBerserk); n != 3 {
		t.Errorf("berserk events = %d", n)
	}
	for _, c := range e.Adds() {
		if !c.Berserk || c.Stats.AttackDamage != c.Base.AttackDamage*b.Constructs.Berserk.DamageMult {
			t.Errorf("%s: berserk=%v stats=%+v", c.ID, c.Berserk, c.Stats)
		}
	}
}

func TestEncounter_Deterministic(t *testing.T) {
	b := config.Default()
	run := func() *Encounter {
		e := NewEncounter(b, 12345, nil)
		tickN(e, 400, 50)
		return e
	}
	a, c := run(), run()

	sa := BuildSnapshot(a, "s", MsgUpdate, nil)
	sc := BuildSnapshot(c, "s", MsgUpdate, nil)
	if !reflect.DeepEqual(sa, sc) {
		t.Error("same seed must produce the same encounter")
	}
}

func TestBuildSnapshot(t *testing.T) {
	b := config.Default()
	e := NewEncounter(b, 1, nil)
	e.Tick(50)

	first := BuildSnapshot(e, "s1", MsgInit, nil)
	if first.Arena == nil || first.Arena.Width != b.Arena.Width {
		t.Error("INIT must carry arena size")
	}
	if first.SessionID != "s1" || first.Tick != 1 {
		t.Errorf("header = %s/%d", first.SessionID, first.Tick)
	}
	if len(first.Bosses) != 1 || first.Bosses[0].ID != "BOSS-1" {
		t.Errorf("bosses = %+v", first.Bosses)
	}
	if len(first.Casts) != 1 || first.Casts[0].Label != CastLabelPlayer {
		t.Errorf("casts = %+v", first.Casts)
	}
	if first.Player == nil || len(first.Player.Cooldowns) != len(domain.AllAbilities()) {
		t.Errorf("player = %+v", first.Player)
	}
	if first.Result != nil {
		t.Error("running encounter has no result")
	}

	upd := BuildSnapshot(e, "s1", MsgUpdate, nil)
	if upd.Arena != nil {
		t.Error("UPDATE must not carry arena size")
	}
}
