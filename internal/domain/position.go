package domain

import "math"

// Vec2 - позиция или направление на арене (пиксели мира).
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo возвращает евклидово расстояние до другой точки.
func (p Vec2) DistanceTo(other Vec2) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

func (p Vec2) Add(o Vec2) Vec2 { return Vec2{X: p.X + o.X, Y: p.Y + o.Y} }

func (p Vec2) Sub(o Vec2) Vec2 { return Vec2{X: p.X - o.X, Y: p.Y - o.Y} }

func (p Vec2) Scale(k float64) Vec2 { return Vec2{X: p.X * k, Y: p.Y * k} }

func (p Vec2) Len() float64 { return math.Hypot(p.X, p.Y) }

// Normalized возвращает единичный вектор. Нулевой вектор остаётся нулевым.
func (p Vec2) Normalized() Vec2 {
	l := p.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: p.X / l, Y: p.Y / l}
}

// MoveToward сдвигает точку к цели не дальше step. Перелёта нет.
func (p Vec2) MoveToward(target Vec2, step float64) Vec2 {
	d := target.Sub(p)
	dist := d.Len()
	if dist <= step || dist == 0 {
		return target
	}
	return p.Add(d.Scale(step / dist))
}

// MoveAway сдвигает точку от источника на step.
// Если точки совпадают, направление не определено и точка остаётся на месте.
func (p Vec2) MoveAway(from Vec2, step float64) Vec2 {
	d := p.Sub(from)
	if d.Len() == 0 {
		return p
	}
	return p.Add(d.Normalized().Scale(step))
}

// Rect - прямоугольная область (арена, зона спавна).
type Rect struct {
	MinX float64 `json:"minX" yaml:"min_x"`
	MinY float64 `json:"minY" yaml:"min_y"`
	MaxX float64 `json:"maxX" yaml:"max_x"`
	MaxY float64 `json:"maxY" yaml:"max_y"`
}

// Clamp возвращает ближайшую к p точку внутри прямоугольника.
func (r Rect) Clamp(p Vec2) Vec2 {
	return Vec2{
		X: math.Max(r.MinX, math.Min(r.MaxX, p.X)),
		Y: math.Max(r.MinY, math.Min(r.MaxY, p.Y)),
	}
}

func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

func (r Rect) Center() Vec2 {
	return Vec2{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}
