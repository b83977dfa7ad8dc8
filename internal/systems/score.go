package systems

import (
	"math"

	"amber-server/internal/domain"
)

// BaseScore = floor(секунды × 10) + урон игрока × 5.
func BaseScore(elapsedS float64, damageDealt int64) int64 {
	return int64(math.Floor(elapsedS*10)) + damageDealt*5
}

// StackPoints - очки за изменение числа стаков с oldCount до newCount.
// Стак i стоит 100·2^(i-1) при наборе и -50·2^(i-1) при потере.
func StackPoints(newCount, oldCount int) int64 {
	var total int64
	switch {
	case newCount > oldCount:
		for i := oldCount + 1; i <= newCount; i++ {
			total = saturatingAdd(total, stackValue(100, i))
		}
	case newCount < oldCount:
		for i := newCount + 1; i <= oldCount; i++ {
			total = saturatingAdd(total, -stackValue(50, i))
		}
	}
	return total
}

// stackValue = unit·2^(i-1), с насыщением вместо переполнения.
func stackValue(unit int64, i int) int64 {
	if i < 1 {
		return 0
	}
	v := math.Ldexp(float64(unit), i-1)
	if v >= math.MaxInt64/2 {
		return math.MaxInt64 / 2
	}
	return int64(v)
}

func saturatingAdd(a, b int64) int64 {
	s := a + b
	switch {
	case a > 0 && b > 0 && s < 0:
		return math.MaxInt64
	case a < 0 && b < 0 && s >= 0:
		return math.MinInt64
	}
	return s
}

// TimeMultiplier - множитель за скорость убийства босса. Кусочно-линейный и непрерывный.
func TimeMultiplier(t float64) float64 {
	switch {
	case t <= 30:
		return 4.0 + (30-t)*0.05
	case t <= 60:
		return 4.0 - (t-30)/30*1.0
	case t <= 90:
		return 3.0 - (t-60)/30*1.0
	case t <= 120:
		return 2.0 - (t-90)/30*0.5
	case t <= 180:
		return 1.5 - (t-120)/60*0.3
	case t <= 240:
		return 1.2 - (t-180)/60*0.2
	default:
		return 1.0
	}
}

// FinalScore умножает очки на TimeMultiplier только при убийстве босса.
func FinalScore(base, stackPoints int64, killed bool, killTimeS float64) int64 {
	mult := 1.0
	if killed {
		mult = TimeMultiplier(killTimeS)
	}
	return int64(math.Floor(float64(base+stackPoints) * mult))
}

// ScoreState - всё, из чего считается счёт. Сам счёт не хранится.
type ScoreState struct {
	ElapsedS    float64 `json:"elapsedS"`
	DamageDealt int64   `json:"damageDealt"`
	StackPoints int64   `json:"stackPoints"`
	Killed      bool    `json:"killed"`
	KillTimeS   float64 `json:"killTimeS"`

	lastCounts map[domain.ActorID]int
}

func NewScoreState() *ScoreState {
	return &ScoreState{lastCounts: make(map[domain.ActorID]int)}
}

// ObserveStacks вызывается раз в тик на каждый счётчик: начисляет разницу с прошлым тиком.
func (s *ScoreState) ObserveStacks(target domain.ActorID, count int) int64 {
	delta := StackPoints(count, s.lastCounts[target])
	s.lastCounts[target] = count
	s.StackPoints = saturatingAdd(s.StackPoints, delta)
	return delta
}

func (s *ScoreState) AddDamage(amount int) {
	if amount > 0 {
		s.DamageDealt += int64(amount)
	}
}

// RecordKill фиксирует время убийства босса.
func (s *ScoreState) RecordKill(atS float64) {
	if s.Killed {
		return
	}
	s.Killed = true
	s.KillTimeS = atS
}

// Current - текущий счёт для отображения, без множителя.
func (s *ScoreState) Current() int64 {
	return BaseScore(s.ElapsedS, s.DamageDealt) + s.StackPoints
}

func (s *ScoreState) Final() int64 {
	return FinalScore(BaseScore(s.ElapsedS, s.DamageDealt), s.StackPoints, s.Killed, s.KillTimeS)
}
