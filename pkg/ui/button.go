package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Button runs OnClick once per mouse press inside it.
type Button struct {
	Label    string
	X, Y     float64
	W, H     float64
	Disabled bool
	OnClick  func()

	// Styling
	BGColor       color.RGBA
	HoverColor    color.RGBA
	DisabledColor color.RGBA
}

func NewButton(x, y, width, height float64, label string, onClick func()) *Button {
	return &Button{
		Label:         label,
		X:             x,
		Y:             y,
		W:             width,
		H:             height,
		OnClick:       onClick,
		BGColor:       color.RGBA{R: 80, G: 120, B: 180, A: 255},
		HoverColor:    color.RGBA{R: 100, G: 150, B: 220, A: 255},
		DisabledColor: color.RGBA{R: 70, G: 70, B: 75, A: 255},
	}
}

func (b *Button) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.W && y >= b.Y && y <= b.Y+b.H
}

// Click runs OnClick unless the button is disabled. It reports whether it ran.
func (b *Button) Click() bool {
	if b.Disabled || b.OnClick == nil {
		return false
	}
	b.OnClick()
	return true
}

func (b *Button) Update() {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if b.Contains(float64(mx), float64(my)) {
		b.Click()
	}
}

func (b *Button) Draw(screen *ebiten.Image) {
	mx, my := ebiten.CursorPosition()

	bgColor := b.BGColor
	switch {
	case b.Disabled:
		bgColor = b.DisabledColor
	case b.Contains(float64(mx), float64(my)):
		bgColor = b.HoverColor
	}

	vector.FillRect(screen,
		float32(b.X), float32(b.Y),
		float32(b.W), float32(b.H),
		bgColor, true)
	vector.StrokeRect(screen,
		float32(b.X), float32(b.Y),
		float32(b.W), float32(b.H),
		2, color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)

	// debug font glyphs are 6x16
	textX := b.X + (b.W-float64(len(b.Label)*6))/2
	textY := b.Y + (b.H-16)/2
	ebitenutil.DebugPrintAt(screen, b.Label, int(textX), int(textY))
}

func (b *Button) Width() float64 { return b.W }

func (b *Button) moveTo(x, y float64) { b.X, b.Y = x, y }
