package domain

// Globule - сфера янтаря. Поглощается игроком или голодным конструктом.
type Globule struct {
	ID  int  `json:"id"`
	Pos Vec2 `json:"pos"`
}
