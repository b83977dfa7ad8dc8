package systems

import (
	"math"
	"testing"

	"amber-server/internal/domain"
)

func TestUpdateAI_AddTargeting(t *testing.T) {
	w := newFakeWorld()
	r := testRules()
	add := w.addRaider(1, 60, domain.Vec2{X: 300, Y: 300})

	if out := UpdateAI(w, r, add, 50); out.Target != w.boss.ID {
		t.Fatalf("add target = %v, want boss", out.Target)
	}

	sec := w.spawnSecondary(domain.Vec2{X: 200, Y: 300})
	if out := UpdateAI(w, r, add, 50); out.Target != sec.ID || add.Target != sec.ID {
		t.Fatalf("add target = %v, want monstrosity", out.Target)
	}

	sec.Health.TakeDamage(sec.Health.Current)
	if out := UpdateAI(w, r, add, 50); out.Target != w.boss.ID {
		t.Errorf("add did not return to the boss: %v", out.Target)
	}
}

func TestUpdateAI_MeleeApproach(t *testing.T) {
	w := newFakeWorld()
	r := testRules()
	add := w.addRaider(1, 60, domain.Vec2{X: 640, Y: 600})

	out := UpdateAI(w, r, add, 1000)
	if out.Attacked {
		t.Fatal("add attacked from 280 away")
	}
	if d := add.DistanceTo(w.boss); math.Abs(d-200) > 1e-6 {
		t.Errorf("distance after one second = %v, want 200", d)
	}

	// Подход останавливается на дистанции атаки
	for i := 0; i < 10; i++ {
		UpdateAI(w, r, add, 1000)
	}
	if d := add.DistanceTo(w.boss); math.Abs(d-60) > 1e-6 {
		t.Errorf("melee add stopped at %v, want 60", d)
	}
}

func TestUpdateAI_RangedStandOff(t *testing.T) {
	tests := []struct {
		name     string
		start    domain.Vec2
		wantDist float64
		attacked bool
	}{
		{"too close retreats and shoots", domain.Vec2{X: 640, Y: 400}, 160, true},
		{"too far approaches", domain.Vec2{X: 640, Y: 720}, 320, false},
		{"in band attacks", domain.Vec2{X: 640, Y: 620}, 300, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newFakeWorld()
			r := testRules()
			add := w.addRaider(1, 300, tt.start)

			out := UpdateAI(w, r, add, 1000)
			if out.Attacked != tt.attacked {
				t.Errorf("attacked = %v, want %v", out.Attacked, tt.attacked)
			}
			if d := add.DistanceTo(w.boss); math.Abs(d-tt.wantDist) > 1e-6 {
				t.Errorf("distance = %v, want %v", d, tt.wantDist)
			}
		})
	}
}

func TestUpdateAI_AttackCooldown(t *testing.T) {
	w := newFakeWorld()
	r := testRules()
	add := w.addRaider(1, 60, domain.Vec2{X: 640, Y: 280})
	hp := w.boss.Health.Current

	if out := UpdateAI(w, r, add, 50); !out.Attacked || out.Attack.Damage != 20 {
		t.Fatalf("first swing = %+v", out)
	}
	if out := UpdateAI(w, r, add, 50); out.Attacked {
		t.Fatal("attack ignored the cooldown")
	}
	add.TickTimers(2000)
	if out := UpdateAI(w, r, add, 50); !out.Attacked {
		t.Fatal("attack did not come back after the interval")
	}
	if w.boss.Health.Current != hp-40 {
		t.Errorf("boss health = %d, want %d", w.boss.Health.Current, hp-40)
	}
	if w.stacks[w.boss.ID].Count != 0 {
		t.Error("add attacks must not build stacks")
	}
}

func TestUpdateAI_BossChasesAndHitsPlayer(t *testing.T) {
	w := newFakeWorld()
	r := testRules()

	out := UpdateAI(w, r, w.boss, 50)
	if out.Target != w.player.ID || !out.Attacked {
		t.Fatalf("boss in range did not attack: %+v", out)
	}
	if w.player.Health.Current != w.player.Health.Max-50 {
		t.Errorf("player health = %d", w.player.Health.Current)
	}

	w.boss.Pos = domain.Vec2{X: 640, Y: 100}
	w.boss.AttackCooldownMs = 0
	out = UpdateAI(w, r, w.boss, 1000)
	if out.Attacked {
		t.Error("boss attacked out of range")
	}
	if d := w.boss.DistanceTo(w.player); math.Abs(d-210) > 1e-6 {
		t.Errorf("boss distance = %v, want 210", d)
	}
}

func TestUpdateAI_BossRegroup(t *testing.T) {
	w := newFakeWorld()
	r := testRules()
	point := domain.Vec2{X: 100, Y: 300}
	w.boss.MoveTarget = &point
	w.boss.MoveTargetSpd = r.Regroup.Speed

	arrived := false
	for i := 0; i < 100 && !arrived; i++ {
		arrived = UpdateAI(w, r, w.boss, 100).Arrived
	}
	if !arrived || w.boss.MoveTarget != nil {
		t.Fatal("boss never reached the regroup point")
	}
	if d := w.boss.Pos.DistanceTo(point); d > r.Regroup.ArrivalRadius {
		t.Errorf("boss stopped %v away", d)
	}
}

func TestUpdateAI_ConstructSeeksGlobule(t *testing.T) {
	w := newFakeWorld()
	r := testRules()
	c := w.addRaider(2, 35, domain.Vec2{X: 300, Y: 310})
	c.Variant = domain.VariantConstruct
	c.Stats.MoveSpeed = 60
	c.Willpower = domain.NewWillpowerPool(100, 1)
	c.Willpower.Current = 40
	w.globules = []domain.Globule{{ID: 9, Pos: domain.Vec2{X: 300, Y: 300}}}

	out := UpdateAI(w, r, c, 100)
	if out.Globule != 9 {
		t.Fatalf("construct did not consume the globule: %+v", out)
	}
	if c.Willpower.Current != 60 {
		t.Errorf("willpower = %v, want 60", c.Willpower.Current)
	}
	if len(w.globules) != 0 {
		t.Error("globule still on the floor")
	}

	c.Berserk = true
	if out := UpdateAI(w, r, c, 100); out.Target != w.player.ID {
		t.Errorf("berserk construct target = %v, want player", out.Target)
	}
}

func TestUpdateAI_DeadNPCDoesNothing(t *testing.T) {
	w := newFakeWorld()
	add := w.addRaider(1, 60, domain.Vec2{X: 640, Y: 280})
	add.Health.TakeDamage(100)

	if out := UpdateAI(w, testRules(), add, 50); out.Attacked || !out.Target.IsZero() {
		t.Errorf("dead add acted: %+v", out)
	}
}
