package systems

import (
	"sort"

	"amber-server/internal/config"
	"amber-server/internal/domain"
)

// PhaseController - фазы босса 1 → 2 → 3 по доле здоровья. Обратных переходов нет.
type PhaseController struct {
	current int
	phases  []config.PhaseConfig
}

func NewPhaseController(phases []config.PhaseConfig) *PhaseController {
	sorted := make([]config.PhaseConfig, len(phases))
	copy(sorted, phases)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Phase < sorted[j].Phase })
	return &PhaseController{current: 1, phases: sorted}
}

func (p *PhaseController) Current() int {
	return p.current
}

// Check сравнивает долю здоровья босса с порогами и возвращает фазы, в которые
// энкаунтер вошёл на этом тике, по порядку. Большой удар может пройти две фазы сразу.
func (p *PhaseController) Check(healthFraction float64) []config.PhaseConfig {
	var entered []config.PhaseConfig
	for _, ph := range p.phases {
		if ph.Phase <= p.current {
			continue
		}
		if healthFraction > ph.HealthFraction {
			break
		}
		p.current = ph.Phase
		entered = append(entered, ph)
	}
	return entered
}

// ApplyPhaseStats пересчитывает статы босса от базовых, множители не накапливаются.
func ApplyPhaseStats(boss *domain.Actor, ph config.PhaseConfig) {
	boss.Stats = boss.Base.Scaled(orOne(ph.DamageMult), orOne(ph.SpeedMult), orOne(ph.IntervalMult))
}
