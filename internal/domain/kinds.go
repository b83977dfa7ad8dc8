package domain

import "strings"

// ActorKind - вариант актора
type ActorKind uint8

const (
	KindUnknown ActorKind = iota
	KindPlayer
	KindBoss
	KindSecondaryBoss
	KindAdd
)

var kindToString = map[ActorKind]string{
	KindPlayer:        "PLAYER",
	KindBoss:          "BOSS",
	KindSecondaryBoss: "SECONDARY_BOSS",
	KindAdd:           "ADD",
}

// Короткие префиксы для ActorID
var kindToPrefix = map[ActorKind]string{
	KindPlayer:        "PLAYER",
	KindBoss:          "BOSS",
	KindSecondaryBoss: "MONSTROSITY",
	KindAdd:           "ADD",
}

func (k ActorKind) String() string {
	if val, ok := kindToString[k]; ok {
		return val
	}
	return "UNKNOWN"
}

func (k ActorKind) Prefix() string {
	if val, ok := kindToPrefix[k]; ok {
		return val
	}
	return "UNKNOWN"
}

// IsBossType - босс или монстрозити: у них есть стаки и их можно выбрать целью.
func (k ActorKind) IsBossType() bool {
	return k == KindBoss || k == KindSecondaryBoss
}

func parseKindPrefix(s string) ActorKind {
	upper := strings.ToUpper(s)
	for k, p := range kindToPrefix {
		if p == upper {
			return k
		}
	}
	return KindUnknown
}

// AddVariant - разновидность скриптового адда
type AddVariant uint8

const (
	VariantRaider    AddVariant = iota // участник рейда (класс WoW)
	VariantConstruct                   // конструкт с волей и берсерком
)

func (v AddVariant) String() string {
	if v == VariantConstruct {
		return "construct"
	}
	return "raider"
}
