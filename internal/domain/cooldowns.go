package domain

// Cooldowns - оставшееся время перезарядки способностей в секундах.
type Cooldowns map[AbilityID]float64

func (c Cooldowns) Remaining(id AbilityID) float64 {
	return c[id]
}

func (c Cooldowns) Ready(id AbilityID) bool {
	return c[id] <= 0
}

func (c Cooldowns) Start(id AbilityID, seconds float64) {
	if seconds <= 0 {
		delete(c, id)
		return
	}
	c[id] = seconds
}

// Tick уменьшает все таймеры, обнуляя истекшие.
func (c Cooldowns) Tick(deltaMs float64) {
	for id, left := range c {
		left -= deltaMs / 1000
		if left <= 0 {
			delete(c, id)
			continue
		}
		c[id] = left
	}
}
