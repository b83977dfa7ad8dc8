package domain

import "strings"

// AbilityID - закрытый набор способностей игрока.
type AbilityID uint8

const (
	AbilityUnknown AbilityID = iota
	AbilityPrimaryStrike
	AbilitySelfInterrupt
	AbilityConsumeResource
	AbilityBreakFree
)

// Маппинг для конвертации JSON -> Domain (с внутриигровыми названиями как алиасами)
var abilityStringToID = map[string]AbilityID{
	"primary-strike":   AbilityPrimaryStrike,
	"amber-strike":     AbilityPrimaryStrike,
	"self-interrupt":   AbilitySelfInterrupt,
	"struggle-control": AbilitySelfInterrupt,
	"consume-resource": AbilityConsumeResource,
	"consume-amber":    AbilityConsumeResource,
	"break-free":       AbilityBreakFree,
}

var abilityIDToString = map[AbilityID]string{
	AbilityPrimaryStrike:   "primary-strike",
	AbilitySelfInterrupt:   "self-interrupt",
	AbilityConsumeResource: "consume-resource",
	AbilityBreakFree:       "break-free",
}

// ParseAbility конвертирует строку из JSON/конфига в AbilityID
func ParseAbility(s string) AbilityID {
	lower := strings.ToLower(strings.TrimSpace(s))
	if val, ok := abilityStringToID[lower]; ok {
		return val
	}
	return AbilityUnknown
}

func (a AbilityID) String() string {
	if val, ok := abilityIDToString[a]; ok {
		return val
	}
	return "unknown"
}

// AllAbilities - порядок слотов на панели.
func AllAbilities() []AbilityID {
	return []AbilityID{AbilityPrimaryStrike, AbilitySelfInterrupt, AbilityConsumeResource, AbilityBreakFree}
}

// DebuffSpec - дебафф, который способность накладывает.
type DebuffSpec struct {
	Name      string  `json:"name" yaml:"name"`
	Percent   float64 `json:"percent" yaml:"percent"`
	DurationS float64 `json:"durationS" yaml:"duration_s"`
}

// AbilitySpec - строка таблицы констант способности.
type AbilitySpec struct {
	Cost       float64 `json:"cost" yaml:"cost"` // воля
	CooldownS  float64 `json:"cooldownS" yaml:"cooldown_s"`
	Range      float64 `json:"range" yaml:"range"`
	DamageMin  int     `json:"damageMin" yaml:"damage_min"`
	DamageMax  int     `json:"damageMax" yaml:"damage_max"`
	Interrupts bool    `json:"interrupts" yaml:"interrupts"`
	Stacks     bool    `json:"stacks" yaml:"stacks"`

	// BlockedWhileCasting - нельзя использовать, пока игрок сам кастует.
	BlockedWhileCasting bool `json:"blockedWhileCasting" yaml:"blocked_while_casting"`

	Debuff     *DebuffSpec `json:"debuff,omitempty" yaml:"debuff,omitempty"`
	SelfDebuff *DebuffSpec `json:"selfDebuff,omitempty" yaml:"self_debuff,omitempty"`
	StunS      float64     `json:"stunS,omitempty" yaml:"stun_s,omitempty"`

	// Для поглощения янтаря
	Reach            float64 `json:"reach,omitempty" yaml:"reach,omitempty"`
	Restore          float64 `json:"restore,omitempty" yaml:"restore,omitempty"`
	RestoreLatePhase float64 `json:"restoreLatePhase,omitempty" yaml:"restore_late_phase,omitempty"`
	Bolster          int     `json:"bolster,omitempty" yaml:"bolster,omitempty"`
}

// Offensive - способность наносит урон цели.
func (s AbilitySpec) Offensive() bool {
	return s.DamageMax > 0
}

// RejectReason - почему команда отклонена.
type RejectReason uint8

const (
	RejectNone RejectReason = iota
	RejectUnknownAbility
	RejectCooldown
	RejectResource
	RejectBlocked
	RejectNoTarget
	RejectEncounterOver
)

var rejectToString = map[RejectReason]string{
	RejectNone:           "",
	RejectUnknownAbility: "Unknown ability",
	RejectCooldown:       "Ability is on cooldown",
	RejectResource:       "Not enough willpower",
	RejectBlocked:        "Cannot do that while casting",
	RejectNoTarget:       "Nothing in reach",
	RejectEncounterOver:  "The encounter is over",
}

func (r RejectReason) String() string {
	return rejectToString[r]
}

// AbilityResult - итог вызова способности. Отказ - не ошибка.
type AbilityResult struct {
	Ability AbilityID
	OK      bool
	Reason  RejectReason

	Hit    bool    // урон прошёл
	Whiff  bool    // цель есть, но вне досягаемости
	Damage int     // итоговый урон
	Target ActorID // цель удара

	Interrupted bool // сбит каст (цели или свой)
	Killed      bool
	Globule     int // поглощённая сфера, -1 если нет
}

func Rejected(id AbilityID, reason RejectReason) AbilityResult {
	return AbilityResult{Ability: id, Reason: reason, Globule: -1}
}
