package domain

// Имена дебаффов
const (
	DebuffAmberStrike     = "amber-strike"
	DebuffStruggleControl = "struggle-control"
)

// Debuff - увеличивает получаемый урон на Percent процентов.
type Debuff struct {
	Name      string  `json:"name"`
	Percent   float64 `json:"percent"`
	Remaining float64 `json:"remaining"` // секунды
	AppliedAt float64 `json:"appliedAt"` // мс от начала боя
}

// DebuffLedger хранит не больше одной записи на имя.
// Порядок записей - порядок первого наложения.
type DebuffLedger struct {
	entries []Debuff
}

// Add накладывает или обновляет дебафф со свежим таймером.
func (l *DebuffLedger) Add(name string, percent, durationS, nowMs float64) {
	d := Debuff{Name: name, Percent: percent, Remaining: durationS, AppliedAt: nowMs}
	for i := range l.entries {
		if l.entries[i].Name == name {
			l.entries[i] = d
			return
		}
	}
	l.entries = append(l.entries, d)
}

// Tick уменьшает оставшееся время и удаляет истекшие. Возвращает имена снятых дебаффов.
func (l *DebuffLedger) Tick(deltaMs float64) []string {
	var expired []string
	kept := l.entries[:0]
	for _, d := range l.entries {
		d.Remaining -= deltaMs / 1000
		if d.Remaining <= 0 {
			expired = append(expired, d.Name)
			continue
		}
		kept = append(kept, d)
	}
	l.entries = kept
	return expired
}

// DamageTakenMultiplier = 1 + сумма процентов / 100.
func (l *DebuffLedger) DamageTakenMultiplier() float64 {
	m := 1.0
	for _, d := range l.entries {
		m += d.Percent / 100
	}
	return m
}

func (l *DebuffLedger) Get(name string) (Debuff, bool) {
	for _, d := range l.entries {
		if d.Name == name {
			return d, true
		}
	}
	return Debuff{}, false
}

func (l *DebuffLedger) Has(name string) bool {
	_, ok := l.Get(name)
	return ok
}

func (l *DebuffLedger) Len() int { return len(l.entries) }

// Active возвращает копию активных записей.
func (l *DebuffLedger) Active() []Debuff {
	out := make([]Debuff, len(l.entries))
	copy(out, l.entries)
	return out
}
