package systems

import (
	"math"
	"testing"

	"amber-server/internal/domain"
)

func TestTimeMultiplier_Boundaries(t *testing.T) {
	tests := []struct {
		t    float64
		want float64
	}{
		{0, 5.5},
		{30, 4.0},
		{45, 3.5},
		{60, 3.0},
		{90, 2.0},
		{120, 1.5},
		{180, 1.2},
		{240, 1.0},
		{600, 1.0},
	}
	for _, tt := range tests {
		if got := TimeMultiplier(tt.t); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("TimeMultiplier(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestTimeMultiplier_Continuous(t *testing.T) {
	for _, b := range []float64{30, 60, 90, 120, 180, 240} {
		left := TimeMultiplier(b - 1e-9)
		right := TimeMultiplier(b + 1e-9)
		if math.Abs(left-right) > 1e-6 {
			t.Errorf("discontinuity at %v: %v vs %v", b, left, right)
		}
	}
}

func TestStackPoints(t *testing.T) {
	tests := []struct {
		name     string
		newCount int
		oldCount int
		want     int64
	}{
		{"no change", 2, 2, 0},
		{"first stack", 1, 0, 100},
		{"three stacks", 3, 0, 700},
		{"fourth stack", 4, 3, 800},
		{"reset from three", 0, 3, -350},
		{"lose top stack", 2, 3, -200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StackPoints(tt.newCount, tt.oldCount); got != tt.want {
				t.Errorf("StackPoints(%d, %d) = %d, want %d", tt.newCount, tt.oldCount, got, tt.want)
			}
		})
	}
}

func TestStackPoints_LossIsHalfOfGain(t *testing.T) {
	for k := 1; k <= 20; k++ {
		gain := StackPoints(k, 0)
		loss := StackPoints(0, k)
		if loss > 0 {
			t.Fatalf("losing %d stacks must not add points, got %d", k, loss)
		}
		if -2*loss != gain {
			t.Errorf("k=%d: loss %d is not half of gain %d", k, loss, gain)
		}
	}
}

func TestStackPoints_Saturates(t *testing.T) {
	if got := StackPoints(200, 0); got <= 0 {
		t.Errorf("huge stack count overflowed: %d", got)
	}
}

func TestFinalScore_ScenarioD(t *testing.T) {
	// Босс убит на 45 секунде, база + стаки = 1000
	if got := FinalScore(900, 100, true, 45); got != 3500 {
		t.Errorf("FinalScore = %d, want 3500", got)
	}
	if got := FinalScore(900, 100, false, 45); got != 1000 {
		t.Errorf("FinalScore without kill = %d, want 1000", got)
	}
}

func TestBaseScore(t *testing.T) {
	if got := BaseScore(12.37, 40); got != 123+200 {
		t.Errorf("BaseScore = %d, want 323", got)
	}
}

func TestScoreState_ObserveStacks(t *testing.T) {
	s := NewScoreState()
	boss := domain.NewActorID(domain.KindBoss, 1)
	sec := domain.NewActorID(domain.KindSecondaryBoss, 1)

	s.ObserveStacks(boss, 1)
	s.ObserveStacks(boss, 2)
	s.ObserveStacks(sec, 1)
	if s.StackPoints != 100+200+100 {
		t.Fatalf("StackPoints = %d, want 400", s.StackPoints)
	}

	// Сброс по таймауту на боссе не трогает монстрозити
	s.ObserveStacks(boss, 0)
	s.ObserveStacks(sec, 1)
	if s.StackPoints != 400-150 {
		t.Errorf("StackPoints after reset = %d, want 250", s.StackPoints)
	}

	s.ElapsedS = 10
	s.AddDamage(10)
	s.AddDamage(-5)
	if got := s.Current(); got != 100+50+250 {
		t.Errorf("Current = %d, want 400", got)
	}

	s.RecordKill(30)
	s.RecordKill(99)
	if s.KillTimeS != 30 {
		t.Errorf("kill time overwritten: %v", s.KillTimeS)
	}
	if got := s.Final(); got != 1600 {
		t.Errorf("Final = %d, want 1600", got)
	}
}
