package domain

import (
	"encoding/json"
	"strings"
)

// CommandType - Внутренний числовой идентификатор команды клиента
type CommandType uint8

const (
	CmdUnknown CommandType = iota
	CmdInit
	CmdAbility
	CmdTarget
	CmdMove
	CmdRestart
)

// Маппинг для конвертации JSON -> Domain
var commandStringToType = map[string]CommandType{
	"INIT":    CmdInit,
	"ABILITY": CmdAbility,
	"TARGET":  CmdTarget,
	"MOVE":    CmdMove,
	"RESTART": CmdRestart,
}

// Маппинг для логов Domain -> String
var commandTypeToString = map[CommandType]string{
	CmdInit:    "INIT",
	CmdAbility: "ABILITY",
	CmdTarget:  "TARGET",
	CmdMove:    "MOVE",
	CmdRestart: "RESTART",
}

// ParseCommand конвертирует строку из JSON в CommandType
func ParseCommand(s string) CommandType {
	upper := strings.ToUpper(s)
	if val, ok := commandStringToType[upper]; ok {
		return val
	}
	return CmdUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (c CommandType) String() string {
	if val, ok := commandTypeToString[c]; ok {
		return val
	}
	return "UNKNOWN"
}

// Mutating - команда меняет состояние симуляции и попадает в реплей.
func (c CommandType) Mutating() bool {
	return c == CmdAbility || c == CmdTarget || c == CmdMove
}

// InternalCommand - команда для движка.
type InternalCommand struct {
	Action  CommandType
	Token   string          // ID сессии
	Payload json.RawMessage // Сырые данные (парсятся хендлером)
}
