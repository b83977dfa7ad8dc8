package systems

import (
	"testing"

	"amber-server/internal/domain"
)

func TestResolveTargetClick(t *testing.T) {
	w := newFakeWorld()
	r := testRules()
	w.boss.Pos = domain.Vec2{X: 500, Y: 300}
	sec := w.spawnSecondary(domain.Vec2{X: 540, Y: 300})

	tests := []struct {
		name  string
		click domain.Vec2
		want  domain.ActorID
	}{
		{"boss has priority in overlap", domain.Vec2{X: 530, Y: 300}, w.boss.ID},
		{"boss radius", domain.Vec2{X: 500, Y: 355}, w.boss.ID},
		{"monstrosity outside boss radius", domain.Vec2{X: 570, Y: 300}, sec.ID},
		{"empty space clears", domain.Vec2{X: 900, Y: 600}, domain.NoActor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveTargetClick(w, r, tt.click); got != tt.want {
				t.Errorf("ResolveTargetClick(%+v) = %v, want %v", tt.click, got, tt.want)
			}
		})
	}
}

func TestResolveTargetRef(t *testing.T) {
	w := newFakeWorld()
	add := w.addRaider(1, 60, domain.Vec2{X: 10, Y: 10})

	if got := ResolveTargetRef(w, w.boss.ID); got != w.boss.ID {
		t.Errorf("boss ref = %v", got)
	}
	if got := ResolveTargetRef(w, add.ID); got != domain.NoActor {
		t.Errorf("friendly add must clear the target, got %v", got)
	}
	if got := ResolveTargetRef(w, w.player.ID); got != domain.NoActor {
		t.Errorf("self must clear the target, got %v", got)
	}
	if got := ResolveTargetRef(w, domain.NewActorID(domain.KindSecondaryBoss, 1)); got != domain.NoActor {
		t.Errorf("missing actor must clear the target, got %v", got)
	}
}
