// Package ui holds the few immediate-mode widgets the window front-end needs.
package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget is anything a Toolbar can lay out.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	Width() float64
	moveTo(x, y float64)
}

// Toolbar lays widgets out left to right on a translucent strip.
type Toolbar struct {
	X, Y    float64
	Height  float64
	Spacing float64
	Widgets []Widget

	BGColor     color.RGBA
	BorderColor color.RGBA
}

func NewToolbar(x, y float64) *Toolbar {
	return &Toolbar{
		X:           x,
		Y:           y,
		Height:      28,
		Spacing:     12,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 200},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// Add places w after the last widget, vertically centered on the strip.
func (t *Toolbar) Add(w Widget, height float64) {
	w.moveTo(t.X+t.Spacing/2+t.contentWidth(), t.Y+(t.Height-height)/2)
	t.Widgets = append(t.Widgets, w)
}

func (t *Toolbar) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(0, 0, label, value)
	t.Add(c, c.Size)
	return c
}

func (t *Toolbar) AddButton(label string, width float64, onClick func()) *Button {
	b := NewButton(0, 0, width, t.Height-6, label, onClick)
	t.Add(b, b.H)
	return b
}

// Width is the strip width including half a spacing of padding on each side.
func (t *Toolbar) Width() float64 {
	return t.contentWidth()
}

func (t *Toolbar) contentWidth() float64 {
	total := 0.0
	for _, w := range t.Widgets {
		total += w.Width() + t.Spacing
	}
	return total
}

func (t *Toolbar) Update() {
	for _, w := range t.Widgets {
		w.Update()
	}
}

func (t *Toolbar) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(t.X), float32(t.Y), float32(t.Width()), float32(t.Height), t.BGColor, false)
	vector.StrokeRect(screen, float32(t.X), float32(t.Y), float32(t.Width()), float32(t.Height), 1, t.BorderColor, false)
	for _, w := range t.Widgets {
		w.Draw(screen)
	}
}
