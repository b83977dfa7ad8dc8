package domain

// Outcome - чем закончился энкаунтер
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeVictory
	OutcomeDefeat
	OutcomeSuccess
)

var outcomeToString = map[Outcome]string{
	OutcomeNone:    "",
	OutcomeVictory: "victory",
	OutcomeDefeat:  "defeat",
	OutcomeSuccess: "success",
}

func (o Outcome) String() string {
	return outcomeToString[o]
}

// Тексты исходов
const (
	ReasonVictory            = "Victory! You defeated Amber-Shaper Un'sok!"
	ReasonBerserk            = "You went berserk! The raid leader called wipe. The raid leader is strongly disappointed in you."
	ReasonSelfExplosion      = "You blew up! The raid leader called wipe. The raid leader is strongly disappointed in you."
	ReasonMonstrosityBlast   = "You blew up! The Amber Monstrosity's Amber Explosion killed you. The raid leader called wipe."
	ReasonConstructsBerserk  = "Too many constructs went berserk! The raid leader called wipe. The raid leader is strongly disappointed in you."
	ReasonConstructDestroyed = "Your construct was destroyed! The raid leader called wipe."
	ReasonBreakFree          = "You jumped out before you exploded, good job!"
)

// Result - терминальное событие энкаунтера.
type Result struct {
	Outcome    Outcome `json:"outcome"`
	Reason     string  `json:"reason"`
	FinalScore int64   `json:"finalScore"`
	ElapsedMs  float64 `json:"elapsedMs"`
	KillTimeS  float64 `json:"killTimeS,omitempty"`
}
