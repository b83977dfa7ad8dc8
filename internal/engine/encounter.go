package engine

import (
	"context"
	"math"
	"math/rand"

	"amber-server/internal/config"
	"amber-server/internal/domain"
	"amber-server/internal/systems"
	"amber-server/pkg/logger"

	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"
)

// Состояния энкаунтера
const (
	StatusRunning = "running"
	StatusVictory = "victory"
	StatusDefeat  = "defeat"
	StatusSuccess = "success"
)

// Encounter - оркестратор боя. Владеет всеми акторами и продвигает их в фиксированном порядке.
// Не потокобезопасен: все вызовы идут из одной горутины (Instance).
type Encounter struct {
	balance  *config.Balance
	rules    systems.Rules
	rng      *rand.Rand
	seed     int64
	observer domain.Observer
	log      *logrus.Entry

	nowMs float64
	ticks int

	player    *domain.Actor
	boss      *domain.Actor
	secondary *domain.Actor
	adds      []*domain.Actor

	stacks     map[domain.ActorID]*domain.StackCounter
	stackOrder []domain.ActorID

	globules      []domain.Globule
	nextGlobuleID int
	schedule      *Scheduler

	phases *systems.PhaseController
	score  *systems.ScoreState

	status *fsm.FSM
	result *domain.Result
}

// NewEncounter собирает бой из баланса. Один и тот же сид даёт один и тот же бой.
func NewEncounter(b *config.Balance, seed int64, observer domain.Observer) *Encounter {
	if observer == nil {
		observer = domain.ObserverFunc(func(domain.Event) {})
	}
	rng := rand.New(rand.NewSource(seed))

	e := &Encounter{
		balance:  b,
		rules:    systems.RulesFromBalance(b),
		rng:      rng,
		seed:     seed,
		observer: observer,
		log:      logger.Component("encounter").WithField("seed", seed),
		stacks:   make(map[domain.ActorID]*domain.StackCounter),
		schedule: NewScheduler(),
		phases:   systems.NewPhaseController(b.Boss.Phases),
		score:    systems.NewScoreState(),
		status: fsm.NewFSM(
			StatusRunning,
			fsm.Events{
				{Name: "win", Src: []string{StatusRunning}, Dst: StatusVictory},
				{Name: "lose", Src: []string{StatusRunning}, Dst: StatusDefeat},
				{Name: "escape", Src: []string{StatusRunning}, Dst: StatusSuccess},
			},
			fsm.Callbacks{},
		),
	}

	e.player = buildPlayer(b)
	e.boss = buildBoss(b)
	e.addStackCounter(e.boss.ID)
	e.adds = buildRoster(b, rng)

	for i := 0; i < b.Globules.Initial; i++ {
		e.spawnGlobule()
	}
	e.schedule.Schedule(TimedGlobuleBatch, b.Globules.BatchIntervalMs)

	e.log.WithFields(logrus.Fields{
		"adds":        len(e.adds),
		"boss_hp":     e.boss.Health.Current,
		"boss_max_hp": e.boss.Health.Max,
	}).Info("Encounter created")
	return e
}

// --- systems.World ---

func (e *Encounter) NowMs() float64 { return e.nowMs }
func (e *Encounter) Phase() int { return e.phases.Current() }
func (e *Encounter) Player() *domain.Actor { return e.player }
func (e *Encounter) Boss() *domain.Actor { return e.boss }
func (e *Encounter) Secondary() *domain.Actor { return e.secondary }

func (e *Encounter) Actor(id domain.ActorID) *domain.Actor {
	switch id.Kind() {
	case domain.KindPlayer:
		return e.player
	case domain.KindBoss:
		return e.boss
	case domain.KindSecondaryBoss:
		return e.secondary
	case domain.KindAdd:
		i := id.Index() - 1
		if i >= 0 && i < len(e.adds) {
			return e.adds[i]
		}
	}
	return nil
}

func (e *Encounter) StacksFor(id domain.ActorID) *domain.StackCounter {
	return e.stacks[id]
}

func (e *Encounter) NearestGlobule(from domain.Vec2) (domain.Globule, bool) {
	best, found := domain.Globule{}, false
	bestDist := math.Inf(1)
	for _, g := range e.globules {
		if d := from.DistanceTo(g.Pos); d < bestDist {
			best, bestDist, found = g, d, true
		}
	}
	return best, found
}

func (e *Encounter) ConsumeGlobule(id int) bool {
	for i, g := range e.globules {
		if g.ID == id {
			e.globules = append(e.globules[:i], e.globules[i+1:]...)
			e.emit(domain.EventGlobuleConsumed, domain.NoActor, id, "")
			return true
		}
	}
	return false
}

// --- Запросы для снимков ---

func (e *Encounter) Balance() *config.Balance { return e.balance }
func (e *Encounter) Seed() int64 { return e.seed }
func (e *Encounter) Ticks() int { return e.ticks }
func (e *Encounter) Adds() []*domain.Actor { return e.adds }
func (e *Encounter) Globules() []domain.Globule { return e.globules }
func (e *Encounter) Score() *systems.ScoreState { return e.score }
func (e *Encounter) Status() string { return e.status.Current() }
func (e *Encounter) Over() bool { return !e.status.Is(StatusRunning) }
func (e *Encounter) Shielded(a *domain.Actor) bool { return systems.Shielded(e, a) }

// Result возвращает итог боя, если он закончился.
func (e *Encounter) Result() (domain.Result, bool) {
	if e.result == nil {
		return domain.Result{}, false
	}
	return *e.result, true
}

// BossTargets - боссы со стаками в порядке появления.
func (e *Encounter) BossTargets() []*domain.Actor {
	out := []*domain.Actor{e.boss}
	if e.secondary != nil {
		out = append(out, e.secondary)
	}
	return out
}

// --- Тик ---

// Tick продвигает симуляцию на deltaMs в фиксированном порядке:
// таймеры и воля, дебаффы, касты, ИИ, простой стаков, фазы, исход, счёт.
func (e *Encounter) Tick(deltaMs float64) {
	if e.Over() || deltaMs <= 0 {
		return
	}
	e.ticks++
	e.nowMs += deltaMs
	e.score.ElapsedS = e.nowMs / 1000

	steps := []func(float64){
		e.stepTimers,
		e.stepDebuffs,
		e.stepCasts,
		e.stepActors,
		func(float64) { e.stepStacks() },
		func(float64) { e.stepPhases() },
		func(float64) { e.checkTermination() },
	}
	for _, step := range steps {
		step(deltaMs)
		if e.Over() {
			return
		}
	}
	e.observeStacks()
}

// all - живые акторы в порядке создания.
func (e *Encounter) all() []*domain.Actor {
	out := make([]*domain.Actor, 0, len(e.adds)+3)
	out = append(out, e.player, e.boss)
	if e.secondary != nil {
		out = append(out, e.secondary)
	}
	out = append(out, e.adds...)
	return out
}

func (e *Encounter) stepTimers(deltaMs float64) {
	for _, a := range e.all() {
		if !a.Alive() {
			continue
		}
		a.TickTimers(deltaMs)
		if !systems.TickWillpower(a, deltaMs) {
			continue
		}
		switch {
		case a == e.player:
			e.end(domain.OutcomeDefeat, domain.ReasonBerserk)
			return
		case a.Variant == domain.VariantConstruct:
			if systems.GoBerserk(a, e.rules.Berserk) {
				e.emit(domain.EventBerserk, a.ID, e.berserkCount(), a.Name+" went berserk!")
				e.log.WithField("actor", a.ID).Info("Construct went berserk")
			}
		}
	}

	for {
		item, ok := e.schedule.PopDue(e.nowMs)
		if !ok {
			break
		}
		switch item.Kind {
		case TimedGlobuleBatch:
			g := e.balance.Globules
			for i := 0; i < g.BatchSize; i++ {
				e.schedule.Schedule(TimedGlobuleSpawn, item.AtMs+float64(i)*g.SpacingMs)
			}
			e.schedule.Schedule(TimedGlobuleBatch, item.AtMs+g.BatchIntervalMs)
		case TimedGlobuleSpawn:
			e.spawnGlobule()
		}
	}
}

func (e *Encounter) stepDebuffs(deltaMs float64) {
	for _, a := range e.all() {
		if a.Alive() {
			a.Debuffs.Tick(deltaMs)
		}
	}
}

func (e *Encounter) stepCasts(deltaMs float64) {
	for _, a := range []*domain.Actor{e.player, e.secondary} {
		if !a.Alive() || a.Cast == nil {
			continue
		}
		switch a.Cast.Advance(deltaMs) {
		case domain.CastStarted:
			e.emit(domain.EventCastStarted, a.ID, 0, castLabel(a)+" begins Amber Explosion")
			e.log.WithField("actor", a.ID).Info("Cast started")
		case domain.CastCompleted:
			e.emit(domain.EventCastCompleted, a.ID, a.Cast.Spec.Damage, castLabel(a)+" Amber Explosion completed")
			systems.ApplyDamage(e.player, a.Cast.Spec.Damage)
			reason := domain.ReasonSelfExplosion
			if a != e.player {
				reason = domain.ReasonMonstrosityBlast
			}
			e.end(domain.OutcomeDefeat, reason)
			return
		}
	}
}

func (e *Encounter) stepActors(deltaMs float64) {
	systems.MovePlayer(e.player, e.rules.Bounds, deltaMs)

	for _, npc := range e.all()[1:] {
		if !npc.Alive() {
			continue
		}
		out := systems.UpdateAI(e, e.rules, npc, deltaMs)
		if out.Arrived {
			e.log.Info("Boss reached the regroup point")
		}
		if out.Attack.Killed {
			e.reap()
			if e.checkTermination(); e.Over() {
				return
			}
		}
	}
	e.reap()
}

func (e *Encounter) stepStacks() {
	for _, id := range e.stackOrder {
		counter := e.stacks[id]
		before := counter.Count
		if counter.Tick(e.nowMs) {
			e.emit(domain.EventStacksReset, id, before, "")
			e.log.WithFields(logrus.Fields{"target": id, "lost": before}).Info("Stacks reset")
		}
	}
}

func (e *Encounter) stepPhases() {
	for _, ph := range e.phases.Check(e.boss.Health.Fraction()) {
		systems.ApplyPhaseStats(e.boss, ph)
		e.emit(domain.EventPhaseChanged, e.boss.ID, ph.Phase, "")
		e.log.WithFields(logrus.Fields{
			"phase":     ph.Phase,
			"boss_hp":   e.boss.Health.Current,
			"elapsed_s": e.score.ElapsedS,
		}).Info("Phase changed")

		if ph.Phase == 2 && e.secondary == nil {
			e.spawnSecondary()
		}
	}
}

// spawnSecondary: монстрозити появляется, босс идёт к ней, рейд переключается на неё.
func (e *Encounter) spawnSecondary() {
	sec := buildSecondary(e.balance, e.rng)
	e.secondary = sec
	e.addStackCounter(sec.ID)

	rg := e.rules.Regroup
	point := sec.Pos.MoveToward(e.boss.Pos, rg.Offset)
	e.boss.MoveTarget = &point
	e.boss.MoveTargetSpd = rg.Speed

	for _, add := range e.adds {
		if add.Alive() && !add.Berserk {
			add.Target = sec.ID
		}
	}

	e.emit(domain.EventSecondarySpawned, sec.ID, 0, sec.Name+" emerges!")
	e.log.WithField("pos", sec.Pos).Info("Secondary boss spawned")
}

// reap убирает погибших аддов и монстрозити. Смерть игрока и босса решает checkTermination.
func (e *Encounter) reap() {
	if sec := e.secondary; sec != nil && !sec.Removed && !sec.Health.Alive() {
		sec.Removed = true
		if counter := e.stacks[sec.ID]; counter != nil {
			counter.Retired = true
		}
		for _, add := range e.adds {
			if add.Alive() && add.Target == sec.ID {
				add.Target = e.boss.ID
			}
		}
		e.emit(domain.EventSecondaryDefeated, sec.ID, 0, sec.Name+" has been defeated!")
		e.log.Info("Secondary boss defeated")
	}
	for _, add := range e.adds {
		if !add.Removed && !add.Health.Alive() {
			add.Removed = true
			e.emit(domain.EventActorDied, add.ID, 0, add.Name+" died")
		}
	}
}

func (e *Encounter) checkTermination() {
	if e.Over() {
		return
	}
	switch {
	case !e.boss.Health.Alive():
		e.score.RecordKill(e.nowMs / 1000)
		e.end(domain.OutcomeVictory, domain.ReasonVictory)
	case !e.player.Health.Alive():
		e.end(domain.OutcomeDefeat, domain.ReasonConstructDestroyed)
	case e.berserkCount() >= e.balance.Combat.BerserkLimit:
		e.end(domain.OutcomeDefeat, domain.ReasonConstructsBerserk)
	}
}

func (e *Encounter) berserkCount() int {
	n := 0
	for _, add := range e.adds {
		if add.Alive() && add.Berserk {
			n++
		}
	}
	return n
}

// observeStacks начисляет очки за изменение стаков с прошлого тика.
func (e *Encounter) observeStacks() {
	for _, id := range e.stackOrder {
		e.score.ObserveStacks(id, e.stacks[id].Count)
	}
}

// end фиксирует исход. Повторный вызов ничего не делает.
func (e *Encounter) end(outcome domain.Outcome, reason string) {
	if e.Over() {
		return
	}
	event := map[domain.Outcome]string{
		domain.OutcomeVictory: "win",
		domain.OutcomeDefeat:  "lose",
		domain.OutcomeSuccess: "escape",
	}[outcome]
	_ = e.status.Event(context.Background(), event)

	e.observeStacks()
	e.result = &domain.Result{
		Outcome:    outcome,
		Reason:     reason,
		FinalScore: e.score.Final(),
		ElapsedMs:  e.nowMs,
		KillTimeS:  e.score.KillTimeS,
	}

	e.emit(domain.EventEncounterEnded, domain.NoActor, int(e.result.FinalScore), reason)
	e.log.WithFields(logrus.Fields{
		"outcome":     outcome.String(),
		"final_score": e.result.FinalScore,
		"elapsed_s":   e.score.ElapsedS,
		"ticks":       e.ticks,
	}).Info("Encounter ended")
}

// --- Команды ---

// UseAbility применяет способность игрока немедленно. Отказ ничего не меняет.
func (e *Encounter) UseAbility(id domain.AbilityID) domain.AbilityResult {
	if e.Over() {
		return domain.Rejected(id, domain.RejectEncounterOver)
	}
	res := systems.UseAbility(e, e.rules, e.rng, id)
	if !res.OK {
		return res
	}

	e.emit(domain.EventAbilityUsed, res.Target, res.Damage, id.String())
	if res.Hit {
		e.score.AddDamage(res.Damage)
	}
	if res.Interrupted {
		e.emit(domain.EventCastInterrupted, res.Target, 0, "")
		e.log.WithField("actor", res.Target).Info("Cast interrupted")
	}

	if id == domain.AbilityBreakFree {
		e.end(domain.OutcomeSuccess, domain.ReasonBreakFree)
		return res
	}
	e.reap()
	e.checkTermination()
	return res
}

// SelectTargetAt - клик по арене.
func (e *Encounter) SelectTargetAt(pos domain.Vec2) domain.ActorID {
	if e.Over() {
		return e.player.Target
	}
	e.player.Target = systems.ResolveTargetClick(e, e.rules, pos)
	return e.player.Target
}

// SelectTarget - явная ссылка на актора. Недопустимая цель сбрасывает выбор.
func (e *Encounter) SelectTarget(id domain.ActorID) domain.ActorID {
	if e.Over() {
		return e.player.Target
	}
	e.player.Target = systems.ResolveTargetRef(e, id)
	return e.player.Target
}

// Move задаёт направление движения игрока. Нулевой вектор - стоп.
func (e *Encounter) Move(dx, dy float64) {
	if e.Over() {
		return
	}
	e.player.MoveDir = domain.Vec2{X: dx, Y: dy}.Normalized()
}

// --- Вспомогательное ---

func (e *Encounter) addStackCounter(id domain.ActorID) {
	e.stacks[id] = domain.NewStackCounter(id, e.balance.Combat.StackIdleTimeoutMs)
	e.stackOrder = append(e.stackOrder, id)
}

func (e *Encounter) spawnGlobule() {
	e.nextGlobuleID++
	g := domain.Globule{ID: e.nextGlobuleID, Pos: randomGlobulePosition(e.balance, e.rng)}
	e.globules = append(e.globules, g)
	e.emit(domain.EventGlobuleSpawned, domain.NoActor, g.ID, "")
}

func (e *Encounter) emit(t domain.EventType, actor domain.ActorID, value int, text string) {
	e.observer.OnEvent(domain.Event{Type: t, AtMs: e.nowMs, Actor: actor, Value: value, Text: text})
}

func castLabel(a *domain.Actor) string {
	if a.Kind == domain.KindPlayer {
		return "You"
	}
	return a.Name
}
