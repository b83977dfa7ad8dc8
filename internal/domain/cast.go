package domain

import (
	"context"

	"amber-server/pkg/logger"

	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"
)

// Состояния каста
const (
	CastIdle    = "idle"
	CastCasting = "casting"
)

// События автомата каста
const (
	castBegin     = "begin"
	castComplete  = "complete"
	castInterrupt = "interrupt"
)

// CastSpec - неизменяемые параметры взрыва янтаря.
type CastSpec struct {
	DurationMs          float64 `json:"durationMs" yaml:"duration_ms"`
	IntervalMs          float64 `json:"intervalMs" yaml:"interval_ms"`
	Damage              int     `json:"damage" yaml:"damage"`
	InterruptCooldownMs float64 `json:"interruptCooldownMs" yaml:"interrupt_cooldown_ms"`
}

// CastTransition - что произошло с кастом за тик.
type CastTransition uint8

const (
	CastNoChange CastTransition = iota
	CastStarted
	CastCompleted
)

// CastState - канальный каст (игрок или монстрозити).
// Рекуррентный таймер идёт всегда, независимо от состояния.
type CastState struct {
	Spec       CastSpec
	ElapsedMs  float64 // сколько уже кастуется
	TimerMs    float64 // время с последнего старта/прерывания
	CooldownMs float64 // блокировка после прерывания

	machine *fsm.FSM
}

func NewCastState(spec CastSpec) *CastState {
	return &CastState{
		Spec: spec,
		machine: fsm.NewFSM(
			CastIdle,
			fsm.Events{
				{Name: castBegin, Src: []string{CastIdle}, Dst: CastCasting},
				{Name: castComplete, Src: []string{CastCasting}, Dst: CastIdle},
				{Name: castInterrupt, Src: []string{CastCasting}, Dst: CastIdle},
			},
			fsm.Callbacks{},
		),
	}
}

func (c *CastState) State() string {
	return c.machine.Current()
}

func (c *CastState) Casting() bool {
	return c.machine.Is(CastCasting)
}

// Advance продвигает каст на deltaMs. За один вызов возможен максимум один переход.
func (c *CastState) Advance(deltaMs float64) CastTransition {
	if c.CooldownMs > 0 {
		c.CooldownMs -= deltaMs
		if c.CooldownMs < 0 {
			c.CooldownMs = 0
		}
	}
	c.TimerMs += deltaMs

	if c.Casting() {
		c.ElapsedMs += deltaMs
		if c.ElapsedMs >= c.Spec.DurationMs {
			c.fire(castComplete)
			c.ElapsedMs = 0
			return CastCompleted
		}
		return CastNoChange
	}

	if c.TimerMs >= c.Spec.IntervalMs && c.CooldownMs <= 0 {
		c.fire(castBegin)
		c.ElapsedMs = 0
		c.TimerMs = 0
		return CastStarted
	}
	return CastNoChange
}

// Interrupt сбивает каст. Возвращает false, если каста не было.
func (c *CastState) Interrupt() bool {
	if !c.Casting() {
		return false
	}
	c.fire(castInterrupt)
	c.ElapsedMs = 0
	c.TimerMs = 0
	c.CooldownMs = c.Spec.InterruptCooldownMs
	return true
}

// Progress - доля прогресса каста 0..1 (0 вне каста).
func (c *CastState) Progress() float64 {
	if !c.Casting() || c.Spec.DurationMs <= 0 {
		return 0
	}
	p := c.ElapsedMs / c.Spec.DurationMs
	if p > 1 {
		return 1
	}
	return p
}

// NextInMs - сколько осталось до следующей попытки каста (0 во время каста).
func (c *CastState) NextInMs() float64 {
	if c.Casting() {
		return 0
	}
	left := c.Spec.IntervalMs - c.TimerMs
	if c.CooldownMs > left {
		left = c.CooldownMs
	}
	if left < 0 {
		return 0
	}
	return left
}

// fire переводит автомат. Переходы проверены вызывающим кодом,
// так что ошибка здесь - рассинхрон полей каста и состояния автомата.
func (c *CastState) fire(event string) {
	if err := c.machine.Event(context.Background(), event); err != nil {
		logger.Component("cast").WithFields(logrus.Fields{
			"event": event,
			"state": c.machine.Current(),
		}).WithError(err).Debug("Cast transition rejected")
	}
}
