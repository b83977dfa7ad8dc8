package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ActorID - упакованный идентификатор актора (Kind + Index).
// Индексы начинаются с 1, поэтому нулевой ID означает "нет актора".
type ActorID uint32

// Конфигурация битов
const (
	bitsIndex = 24
	bitsKind  = 8

	shiftKind = bitsIndex

	maskIndex = (1 << bitsIndex) - 1 // 0x00FFFFFF
	maskKind  = (1 << bitsKind) - 1  // 0xFF
)

// NoActor - пустая ссылка на цель.
const NoActor ActorID = 0

// NewActorID создает ID из вида и порядкового номера.
func NewActorID(kind ActorKind, index int) ActorID {
	id := uint32(index) & maskIndex
	id |= (uint32(kind) & maskKind) << shiftKind
	return ActorID(id)
}

func (id ActorID) Kind() ActorKind {
	return ActorKind((id >> shiftKind) & maskKind)
}

func (id ActorID) Index() int {
	return int(id & maskIndex)
}

func (id ActorID) IsZero() bool {
	return id == NoActor
}

// String для логов и клиента: BOSS-1, ADD-12
func (id ActorID) String() string {
	if id.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s-%d", id.Kind().Prefix(), id.Index())
}

// ParseActorID разбирает строку вида "ADD-12".
func ParseActorID(s string) (ActorID, error) {
	if s == "" {
		return NoActor, nil
	}
	dash := strings.LastIndexByte(s, '-')
	if dash <= 0 {
		return NoActor, fmt.Errorf("malformed actor id %q", s)
	}
	kind := parseKindPrefix(s[:dash])
	if kind == KindUnknown {
		return NoActor, fmt.Errorf("unknown actor kind in %q", s)
	}
	idx, err := strconv.Atoi(s[dash+1:])
	if err != nil || idx <= 0 || idx > maskIndex {
		return NoActor, fmt.Errorf("bad actor index in %q", s)
	}
	return NewActorID(kind, idx), nil
}

// MarshalJSON сериализует ID в строку, чтобы клиенту не нужно было знать упаковку.
func (id ActorID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(id.String())), nil
}

// UnmarshalJSON принимает строку "BOSS-1" или пустую строку.
func (id *ActorID) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("actor id must be a string: %w", err)
	}
	parsed, err := ParseActorID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
