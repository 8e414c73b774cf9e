package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Checkbox toggles a boolean on click and draws its label to the right.
type Checkbox struct {
	Label string
	Value bool
	X, Y  float64
	Size  float64

	// OnChange, when set, is called with the new value after each toggle.
	OnChange func(bool)
}

func NewCheckbox(x, y float64, label string, value bool) *Checkbox {
	return &Checkbox{
		Label: label,
		Value: value,
		X:     x,
		Y:     y,
		Size:  16,
	}
}

// Contains reports whether the point lies inside the box.
func (c *Checkbox) Contains(x, y float64) bool {
	return x >= c.X && x <= c.X+c.Size && y >= c.Y && y <= c.Y+c.Size
}

// Toggle flips the value as a click would.
func (c *Checkbox) Toggle() {
	c.Value = !c.Value
	if c.OnChange != nil {
		c.OnChange(c.Value)
	}
}

func (c *Checkbox) Update() {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if c.Contains(float64(mx), float64(my)) {
		c.Toggle()
	}
}

func (c *Checkbox) Draw(screen *ebiten.Image) {
	vector.StrokeRect(screen,
		float32(c.X), float32(c.Y),
		float32(c.Size), float32(c.Size),
		2,
		color.RGBA{R: 200, G: 200, B: 200, A: 255},
		true)

	if c.Value {
		vector.FillRect(screen,
			float32(c.X+4), float32(c.Y+4),
			float32(c.Size-8), float32(c.Size-8),
			color.RGBA{R: 100, G: 200, B: 100, A: 255},
			true)
	}
	ebitenutil.DebugPrintAt(screen, c.Label, int(c.X+c.Size+6), int(c.Y))
}

// Width covers the box and an estimated 6px per label character.
func (c *Checkbox) Width() float64 {
	return c.Size + 6 + float64(len(c.Label)*6)
}

func (c *Checkbox) moveTo(x, y float64) { c.X, c.Y = x, y }
