package api

import (
	"errors"
	"math"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

var (
	ErrAbilityRequired = errors.New("ability is required")
	ErrTargetAmbiguous = errors.New("target must be either a position or an actorId")
	ErrTargetPartial   = errors.New("target position needs both x and y")
	ErrMoveOutOfRange  = errors.New("movement components must be within [-1, 1]")
)

func (p AbilityPayload) Validate() error {
	if p.Ability == "" {
		return ErrAbilityRequired
	}
	return nil
}

func (p TargetPayload) Validate() error {
	if (p.X == nil) != (p.Y == nil) {
		return ErrTargetPartial
	}
	if p.ActorID != "" && p.X != nil {
		return ErrTargetAmbiguous
	}
	if p.X != nil && (math.IsNaN(*p.X) || math.IsNaN(*p.Y)) {
		return ErrTargetPartial
	}
	return nil
}

// HasPosition сообщает, что цель задана кликом по точке.
func (p TargetPayload) HasPosition() bool {
	return p.X != nil && p.Y != nil
}

func (p MovePayload) Validate() error {
	if math.IsNaN(p.Dx) || math.IsNaN(p.Dy) {
		return ErrMoveOutOfRange
	}
	if p.Dx < -1 || p.Dx > 1 || p.Dy < -1 || p.Dy > 1 {
		return ErrMoveOutOfRange
	}
	return nil
}
