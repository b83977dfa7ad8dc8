package domain

// CombatStats - боевые константы актора.
type CombatStats struct {
	MoveSpeed        float64 `json:"moveSpeed" yaml:"move_speed"`
	AttackDamage     float64 `json:"attackDamage" yaml:"attack_damage"`
	AttackRange      float64 `json:"attackRange" yaml:"attack_range"`
	AttackIntervalMs float64 `json:"attackIntervalMs" yaml:"attack_interval_ms"`
}

// Scaled возвращает статы с множителями урона, скорости и интервала атаки.
func (s CombatStats) Scaled(damage, speed, interval float64) CombatStats {
	return CombatStats{
		MoveSpeed:        s.MoveSpeed * speed,
		AttackDamage:     s.AttackDamage * damage,
		AttackRange:      s.AttackRange,
		AttackIntervalMs: s.AttackIntervalMs * interval,
	}
}

// Actor - любой участник боя: игрок, босс, монстрозити или адд.
// Компоненты, не нужные варианту, остаются нулевыми (Cast == nil, Willpower.Max == 0).
type Actor struct {
	ID      ActorID    `json:"id"`
	Kind    ActorKind  `json:"kind"`
	Name    string     `json:"name"`
	Class   string     `json:"class,omitempty"`
	Variant AddVariant `json:"variant"`

	Pos Vec2 `json:"pos"`

	Health    HealthPool    `json:"health"`
	Willpower WillpowerPool `json:"willpower"`

	Base  CombatStats `json:"base"`  // без модификаторов
	Stats CombatStats `json:"stats"` // действующие

	// DamageMultiplier - множитель исходящего урона
	DamageMultiplier float64 `json:"damageMultiplier"`

	Cooldowns Cooldowns    `json:"cooldowns"`
	Debuffs   DebuffLedger `json:"-"`
	Cast      *CastState   `json:"-"`

	Target ActorID `json:"target"`

	// Таймеры в миллисекундах
	AttackCooldownMs float64 `json:"attackCooldownMs"`
	StunMs           float64 `json:"stunMs"`

	Berserk bool `json:"berserk"`

	// MoveDir - намерение движения игрока (единичный вектор или ноль).
	MoveDir Vec2 `json:"moveDir"`

	// MoveTarget - точка перегруппировки босса. Пока она задана, босс идёт к ней.
	MoveTarget    *Vec2   `json:"moveTarget,omitempty"`
	MoveTargetSpd float64 `json:"-"`

	Removed bool `json:"removed"`
}

// NewActor создает актора с пустыми компонентами.
func NewActor(id ActorID, name string, stats CombatStats) *Actor {
	return &Actor{
		ID:               id,
		Kind:             id.Kind(),
		Name:             name,
		Base:             stats,
		Stats:            stats,
		DamageMultiplier: 1,
		Cooldowns:        make(Cooldowns),
	}
}

// Alive - актор участвует в бою.
func (a *Actor) Alive() bool {
	return a != nil && !a.Removed && a.Health.Alive()
}

func (a *Actor) Stunned() bool {
	return a.StunMs > 0
}

// Casting - актор сейчас кастует взрыв.
func (a *Actor) Casting() bool {
	return a.Cast != nil && a.Cast.Casting()
}

// IsRanged - дальнобойный по порогу дистанции атаки.
func (a *Actor) IsRanged(threshold float64) bool {
	return a.Stats.AttackRange >= threshold
}

func (a *Actor) DistanceTo(other *Actor) float64 {
	return a.Pos.DistanceTo(other.Pos)
}

// TickTimers уменьшает кулдауны, оглушение и таймер атаки.
func (a *Actor) TickTimers(deltaMs float64) {
	a.Cooldowns.Tick(deltaMs)
	if a.AttackCooldownMs > 0 {
		a.AttackCooldownMs -= deltaMs
		if a.AttackCooldownMs < 0 {
			a.AttackCooldownMs = 0
		}
	}
	if a.StunMs > 0 {
		a.StunMs -= deltaMs
		if a.StunMs < 0 {
			a.StunMs = 0
		}
	}
}
