package domain

// HealthPool - здоровье актора. Current всегда в [0, Max].
type HealthPool struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// NewHealthPool создает пул, заполненный на долю fraction (0..1].
func NewHealthPool(max int, fraction float64) HealthPool {
	if fraction <= 0 || fraction > 1 {
		fraction = 1
	}
	return HealthPool{Current: int(float64(max) * fraction), Max: max}
}

// TakeDamage наносит урон. Возвращает true, если актор погиб именно этим ударом.
func (h *HealthPool) TakeDamage(amount int) bool {
	if h.Current <= 0 {
		return false
	}
	if amount < 0 {
		amount = 0
	}

	h.Current -= amount

	if h.Current <= 0 {
		h.Current = 0
		return true
	}
	return false
}

// Heal лечит в пределах текущего максимума
func (h *HealthPool) Heal(amount int) {
	if h.Current <= 0 || amount <= 0 {
		return
	}
	h.Current += amount
	if h.Current > h.Max {
		h.Current = h.Max
	}
}

// Bolster поднимает и максимум, и текущее здоровье (поглощение янтаря).
func (h *HealthPool) Bolster(amount int) {
	if amount <= 0 {
		return
	}
	h.Max += amount
	h.Heal(amount)
}

func (h HealthPool) Alive() bool {
	return h.Current > 0
}

// Fraction - доля оставшегося здоровья.
func (h HealthPool) Fraction() float64 {
	if h.Max <= 0 {
		return 0
	}
	return float64(h.Current) / float64(h.Max)
}

// WillpowerPool - воля. Есть только у игрока и конструктов.
type WillpowerPool struct {
	Current   float64 `json:"current"`
	Max       float64 `json:"max"`
	DrainRate float64 `json:"drainRate"` // единиц в секунду
}

func NewWillpowerPool(max, drainRate float64) WillpowerPool {
	return WillpowerPool{Current: max, Max: max, DrainRate: drainRate}
}

// Drain списывает волю за deltaMs. Возвращает true, если воля исчерпана.
func (w *WillpowerPool) Drain(deltaMs float64) bool {
	if w.Max <= 0 {
		return false
	}
	w.Current -= w.DrainRate * deltaMs / 1000
	if w.Current <= 0 {
		w.Current = 0
		return true
	}
	return false
}

// Has проверяет, хватает ли воли
func (w *WillpowerPool) Has(cost float64) bool {
	return w.Current >= cost
}

// Spend тратит волю. Возвращает false, если не хватило.
func (w *WillpowerPool) Spend(cost float64) bool {
	if cost <= 0 {
		return true
	}
	if w.Current < cost {
		return false
	}
	w.Current -= cost
	return true
}

// Restore восстанавливает волю в пределах максимума
func (w *WillpowerPool) Restore(amount float64) {
	w.Current += amount
	if w.Current > w.Max {
		w.Current = w.Max
	}
}

func (w WillpowerPool) Fraction() float64 {
	if w.Max <= 0 {
		return 0
	}
	return w.Current / w.Max
}
