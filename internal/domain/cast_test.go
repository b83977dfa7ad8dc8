package domain

import (
	"bytes"
	"strings"
	"testing"

	"amber-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

func testCastSpec() CastSpec {
	return CastSpec{DurationMs: 2500, IntervalMs: 13000, Damage: 250000, InterruptCooldownMs: 6000}
}

func advance(c *CastState, totalMs, stepMs float64) []CastTransition {
	var out []CastTransition
	for t := 0.0; t < totalMs; t += stepMs {
		if tr := c.Advance(stepMs); tr != CastNoChange {
			out = append(out, tr)
		}
	}
	return out
}

func TestCastCycle(t *testing.T) {
	c := NewCastState(testCastSpec())
	if c.State() != CastIdle {
		t.Fatalf("cast must start idle, got %s", c.State())
	}

	tr := advance(c, 13000, 100)
	if len(tr) != 1 || tr[0] != CastStarted {
		t.Fatalf("expected a single start at 13s, got %v", tr)
	}
	if !c.Casting() || c.TimerMs != 0 || c.ElapsedMs != 0 {
		t.Errorf("start must reset timers: %+v", c)
	}

	tr = advance(c, 2500, 100)
	if len(tr) != 1 || tr[0] != CastCompleted {
		t.Fatalf("expected completion after 2.5s, got %v", tr)
	}
	if c.Casting() {
		t.Error("cast must be idle after completion")
	}
}

// Прерывание на 1000 мс из 2500: без урона, кулдаун 6 с.
func TestCastInterrupt(t *testing.T) {
	c := NewCastState(testCastSpec())
	advance(c, 13000, 100)
	advance(c, 1000, 100)

	if p := c.Progress(); p < 0.39 || p > 0.41 {
		t.Errorf("progress = %f, want 0.4", p)
	}
	if !c.Interrupt() {
		t.Fatal("interrupt of an active cast must succeed")
	}
	if c.Casting() || c.ElapsedMs != 0 || c.TimerMs != 0 {
		t.Errorf("interrupt must reset state: %+v", c)
	}
	if c.CooldownMs != 6000 {
		t.Errorf("cooldown = %f, want 6000", c.CooldownMs)
	}
	if c.Interrupt() {
		t.Error("interrupting an idle cast must report false")
	}
}

func TestCastCooldownBlocksStart(t *testing.T) {
	spec := testCastSpec()
	spec.IntervalMs = 1000 // короче кулдауна
	c := NewCastState(spec)
	advance(c, 1000, 100)
	c.Interrupt()

	if tr := advance(c, 5900, 100); len(tr) != 0 {
		t.Fatalf("cast must not restart during cooldown, got %v", tr)
	}
	if tr := advance(c, 100, 100); len(tr) != 1 || tr[0] != CastStarted {
		t.Errorf("cast should restart once the cooldown ends, got %v", tr)
	}
	if c.NextInMs() != 0 {
		t.Error("NextInMs is zero while casting")
	}
}

func TestCastRejectedTransitionIsLogged(t *testing.T) {
	log := logger.Component("cast").Logger
	var buf bytes.Buffer
	oldOut, oldLevel := log.Out, log.GetLevel()
	log.SetOutput(&buf)
	log.SetLevel(logrus.DebugLevel)
	defer func() {
		log.SetOutput(oldOut)
		log.SetLevel(oldLevel)
	}()

	c := NewCastState(testCastSpec())
	c.fire(castComplete)

	if c.State() != CastIdle {
		t.Errorf("state = %s, want idle", c.State())
	}
	if !strings.Contains(buf.String(), "Cast transition rejected") {
		t.Errorf("rejected transition not logged: %q", buf.String())
	}
}
