package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"amber-server/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed balance.yaml
var defaultBalanceYAML []byte

// Balance - единая таблица констант энкаунтера.
type Balance struct {
	Arena      ArenaConfig                   `yaml:"arena" json:"arena"`
	Player     PlayerConfig                  `yaml:"player" json:"player"`
	Abilities  map[string]domain.AbilitySpec `yaml:"abilities" json:"abilities"`
	Boss       BossConfig                    `yaml:"boss" json:"boss"`
	Secondary  SecondaryConfig               `yaml:"secondary" json:"secondary"`
	Combat     CombatConfig                  `yaml:"combat" json:"combat"`
	Raid       RaidConfig                    `yaml:"raid" json:"raid"`
	Constructs ConstructConfig               `yaml:"constructs" json:"constructs"`
	Globules   GlobuleConfig                 `yaml:"globules" json:"globules"`
}

type ArenaConfig struct {
	Width       float64     `yaml:"width" json:"width"`
	Height      float64     `yaml:"height" json:"height"`
	PlayerSpawn domain.Vec2 `yaml:"player_spawn" json:"playerSpawn"`
	BossSpawn   domain.Vec2 `yaml:"boss_spawn" json:"bossSpawn"`
}

// Bounds - прямоугольник арены.
func (a ArenaConfig) Bounds() domain.Rect {
	return domain.Rect{MaxX: a.Width, MaxY: a.Height}
}

type PlayerConfig struct {
	Name           string          `yaml:"name" json:"name"`
	Health         int             `yaml:"health" json:"health"`
	Willpower      float64         `yaml:"willpower" json:"willpower"`
	WillpowerDrain float64         `yaml:"willpower_drain" json:"willpowerDrain"`
	MoveSpeed      float64         `yaml:"move_speed" json:"moveSpeed"`
	Cast           domain.CastSpec `yaml:"cast" json:"cast"`
}

// PhaseConfig - порог и модификаторы босса при входе в фазу.
type PhaseConfig struct {
	Phase          int     `yaml:"phase" json:"phase"`
	HealthFraction float64 `yaml:"health_fraction" json:"healthFraction"`
	DamageMult     float64 `yaml:"damage_mult" json:"damageMult"`
	SpeedMult      float64 `yaml:"speed_mult" json:"speedMult"`
	IntervalMult   float64 `yaml:"interval_mult" json:"intervalMult"`
}

type RegroupConfig struct {
	Speed         float64 `yaml:"speed" json:"speed"`
	Offset        float64 `yaml:"offset" json:"offset"`
	ArrivalRadius float64 `yaml:"arrival_radius" json:"arrivalRadius"`
}

type BossConfig struct {
	Name          string             `yaml:"name" json:"name"`
	Health        int                `yaml:"health" json:"health"`
	StartFraction float64            `yaml:"start_fraction" json:"startFraction"`
	Stats         domain.CombatStats `yaml:"stats" json:"stats"`
	Phases        []PhaseConfig      `yaml:"phases" json:"phases"`
	Regroup       RegroupConfig      `yaml:"regroup" json:"regroup"`
}

type SecondaryConfig struct {
	Name        string             `yaml:"name" json:"name"`
	Health      int                `yaml:"health" json:"health"`
	Stats       domain.CombatStats `yaml:"stats" json:"stats"`
	Cast        domain.CastSpec    `yaml:"cast" json:"cast"`
	SpawnRegion domain.Rect        `yaml:"spawn_region" json:"spawnRegion"`
}

type CombatConfig struct {
	DamageReduction       float64 `yaml:"damage_reduction" json:"damageReduction"`
	StackAmplification    float64 `yaml:"stack_amplification" json:"stackAmplification"`
	StackIdleTimeoutMs    float64 `yaml:"stack_idle_timeout_ms" json:"stackIdleTimeoutMs"`
	BossTargetRadius      float64 `yaml:"boss_target_radius" json:"bossTargetRadius"`
	SecondaryTargetRadius float64 `yaml:"secondary_target_radius" json:"secondaryTargetRadius"`
	BerserkLimit          int     `yaml:"berserk_limit" json:"berserkLimit"`
}

type ClassConfig struct {
	Name  string  `yaml:"name" json:"name"`
	Range float64 `yaml:"range" json:"range"`
}

type SplashConfig struct {
	Damage       int     `yaml:"damage" json:"damage"`
	TargetRadius float64 `yaml:"target_radius" json:"targetRadius"`
	AddRadius    float64 `yaml:"add_radius" json:"addRadius"`
}

// RosterEntry - явно заданный участник рейда.
type RosterEntry struct {
	Class      string  `yaml:"class" json:"class"`
	Damage     float64 `yaml:"damage" json:"damage"`
	IntervalMs float64 `yaml:"interval_ms" json:"intervalMs"`
}

type RaidConfig struct {
	Count           int           `yaml:"count" json:"count"`
	Health          int           `yaml:"health" json:"health"`
	MoveSpeed       float64       `yaml:"move_speed" json:"moveSpeed"`
	DamageMin       int           `yaml:"damage_min" json:"damageMin"`
	DamageMax       int           `yaml:"damage_max" json:"damageMax"`
	IntervalMinMs   float64       `yaml:"interval_min_ms" json:"intervalMinMs"`
	IntervalMaxMs   float64       `yaml:"interval_max_ms" json:"intervalMaxMs"`
	RangedMin       int           `yaml:"ranged_min" json:"rangedMin"`
	RangedMax       int           `yaml:"ranged_max" json:"rangedMax"`
	RangedThreshold float64       `yaml:"ranged_threshold" json:"rangedThreshold"`
	BandLow         float64       `yaml:"band_low" json:"bandLow"`
	BandHigh        float64       `yaml:"band_high" json:"bandHigh"`
	Classes         []ClassConfig `yaml:"classes" json:"classes"`
	Splash          SplashConfig  `yaml:"splash" json:"splash"`
	Roster          []RosterEntry `yaml:"roster" json:"roster"`
}

// ClassRange возвращает дальность атаки класса.
func (r RaidConfig) ClassRange(class string) (float64, bool) {
	for _, c := range r.Classes {
		if c.Name == class {
			return c.Range, true
		}
	}
	return 0, false
}

type MultiplierConfig struct {
	DamageMult   float64 `yaml:"damage_mult" json:"damageMult"`
	SpeedMult    float64 `yaml:"speed_mult" json:"speedMult"`
	IntervalMult float64 `yaml:"interval_mult" json:"intervalMult"`
}

type ConstructConfig struct {
	Count          int                `yaml:"count" json:"count"`
	Health         int                `yaml:"health" json:"health"`
	Willpower      float64            `yaml:"willpower" json:"willpower"`
	WillpowerDrain float64            `yaml:"willpower_drain" json:"willpowerDrain"`
	Stats          domain.CombatStats `yaml:"stats" json:"stats"`
	Berserk        MultiplierConfig   `yaml:"berserk" json:"berserk"`
	HungerFraction float64            `yaml:"hunger_fraction" json:"hungerFraction"`
	GlobuleValue   float64            `yaml:"globule_value" json:"globuleValue"`
}

type GlobuleConfig struct {
	Initial         int     `yaml:"initial" json:"initial"`
	BatchSize       int     `yaml:"batch_size" json:"batchSize"`
	BatchIntervalMs float64 `yaml:"batch_interval_ms" json:"batchIntervalMs"`
	SpacingMs       float64 `yaml:"spacing_ms" json:"spacingMs"`
	Margin          float64 `yaml:"margin" json:"margin"`
	PickupRadius    float64 `yaml:"pickup_radius" json:"pickupRadius"`
}

// Default возвращает встроенный баланс.
func Default() *Balance {
	b, err := Parse(defaultBalanceYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded balance is invalid: %v", err))
	}
	return b
}

// Parse накладывает YAML поверх встроенного баланса и проверяет результат.
// Поля, которых нет в документе, остаются по умолчанию.
func Parse(data []byte) (*Balance, error) {
	b := &Balance{}
	if err := yaml.Unmarshal(defaultBalanceYAML, b); err != nil {
		return nil, fmt.Errorf("decode embedded balance: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, b); err != nil {
			return nil, fmt.Errorf("decode balance: %w", err)
		}
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Load читает файл баланса. Пустой путь означает встроенный баланс.
func Load(path string) (*Balance, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read balance %s: %w", path, err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("balance %s: %w", path, err)
	}
	return b, nil
}

// Validate проверяет инварианты таблицы.
func (b *Balance) Validate() error {
	var errs []error
	check := func(ok bool, msg string) {
		if !ok {
			errs = append(errs, errors.New(msg))
		}
	}

	check(b.Arena.Width > 0 && b.Arena.Height > 0, "arena size must be positive")
	check(b.Player.Health > 0, "player.health must be positive")
	check(b.Player.Willpower > 0, "player.willpower must be positive")
	check(b.Player.Cast.DurationMs > 0 && b.Player.Cast.IntervalMs > 0, "player.cast timings must be positive")
	check(b.Boss.Health > 0, "boss.health must be positive")
	check(b.Boss.StartFraction > 0 && b.Boss.StartFraction <= 1, "boss.start_fraction must be in (0, 1]")
	check(b.Secondary.Health > 0, "secondary.health must be positive")
	check(b.Secondary.Cast.DurationMs > 0 && b.Secondary.Cast.IntervalMs > 0, "secondary.cast timings must be positive")
	check(b.Combat.DamageReduction >= 0 && b.Combat.DamageReduction < 1, "combat.damage_reduction must be in [0, 1)")
	check(b.Combat.StackIdleTimeoutMs > 0, "combat.stack_idle_timeout_ms must be positive")
	check(b.Combat.BerserkLimit > 0, "combat.berserk_limit must be positive")
	check(b.Raid.DamageMin <= b.Raid.DamageMax, "raid damage range is inverted")
	check(b.Raid.IntervalMinMs <= b.Raid.IntervalMaxMs, "raid interval range is inverted")
	check(b.Raid.RangedMin <= b.Raid.RangedMax, "raid ranged range is inverted")
	check(b.Raid.Count == 0 || len(b.Raid.Classes) > 0 || len(b.Raid.Roster) > 0, "raid needs classes or an explicit roster")
	check(b.Globules.BatchIntervalMs > 0, "globules.batch_interval_ms must be positive")

	last := 1.0
	for _, p := range b.Boss.Phases {
		check(p.Phase >= 2 && p.Phase <= 3, fmt.Sprintf("unknown phase %d", p.Phase))
		check(p.HealthFraction < last, "boss.phases must have decreasing health thresholds")
		last = p.HealthFraction
	}

	for name, spec := range b.Abilities {
		if domain.ParseAbility(name) == domain.AbilityUnknown {
			errs = append(errs, fmt.Errorf("unknown ability %q", name))
			continue
		}
		check(spec.DamageMin <= spec.DamageMax, fmt.Sprintf("%s: damage range is inverted", name))
		check(spec.Cost >= 0 && spec.CooldownS >= 0, fmt.Sprintf("%s: cost and cooldown must be non-negative", name))
	}
	for _, entry := range b.Raid.Roster {
		if _, ok := b.Raid.ClassRange(entry.Class); !ok {
			errs = append(errs, fmt.Errorf("roster: unknown class %q", entry.Class))
		}
	}

	return errors.Join(errs...)
}

// AbilityTable - таблица способностей по закрытому enum.
func (b *Balance) AbilityTable() map[domain.AbilityID]domain.AbilitySpec {
	table := make(map[domain.AbilityID]domain.AbilitySpec, len(b.Abilities))
	for name, spec := range b.Abilities {
		if id := domain.ParseAbility(name); id != domain.AbilityUnknown {
			table[id] = spec
		}
	}
	return table
}

// Phase возвращает настройки фазы, если они заданы.
func (b *Balance) Phase(phase int) (PhaseConfig, bool) {
	for _, p := range b.Boss.Phases {
		if p.Phase == phase {
			return p, true
		}
	}
	return PhaseConfig{}, false
}
