package domain

// StackIdleTimeoutMs - через сколько без попаданий стаки сгорают.
const StackIdleTimeoutMs = 15000

// StackCounter - стаки на одной цели (босс или монстрозити).
type StackCounter struct {
	Target          ActorID `json:"target"`
	Count           int     `json:"count"`
	LastIncrementMs float64 `json:"lastIncrementMs"`
	TimeoutMs       float64 `json:"timeoutMs"`

	// Retired - цель мертва, новые стаки не начисляются.
	Retired bool `json:"retired"`
}

func NewStackCounter(target ActorID, timeoutMs float64) *StackCounter {
	if timeoutMs <= 0 {
		timeoutMs = StackIdleTimeoutMs
	}
	return &StackCounter{Target: target, TimeoutMs: timeoutMs}
}

// RecordHit +1 стак и обновляет отметку последнего попадания.
func (s *StackCounter) RecordHit(nowMs float64) {
	if s.Retired {
		return
	}
	s.Count++
	s.LastIncrementMs = nowMs
}

// Tick сбрасывает счётчик, если простой строго больше таймаута.
// Попадание ровно на границе таймаута стаки сохраняет. Списанный счётчик не сбрасывается.
func (s *StackCounter) Tick(nowMs float64) bool {
	if !s.Retired && s.Count > 0 && nowMs-s.LastIncrementMs > s.TimeoutMs {
		s.Count = 0
		return true
	}
	return false
}

// IdleRemainingMs - сколько осталось до сброса. 0, если стаков нет.
func (s *StackCounter) IdleRemainingMs(nowMs float64) float64 {
	if s.Count == 0 {
		return 0
	}
	left := s.TimeoutMs - (nowMs - s.LastIncrementMs)
	if left < 0 {
		return 0
	}
	return left
}

// Amplification - множитель входящего урона от стаков.
func (s *StackCounter) Amplification(perStack float64) float64 {
	return 1 + perStack*float64(s.Count)
}
