package game

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-buddy-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-buddy-flock/pkg/geometry"
)

func TestAppendTriangle(t *testing.T) {
	s := flock.Sprite{Position: geometry.Vector2D{X: 100, Y: 50}, Heading: math.Pi / 2, Kind: flock.KindBuddy}

	vs, is := appendTriangle(nil, nil, s, buddyColor)
	if len(vs) != 3 || len(is) != 3 {
		t.Fatalf("got %d vertices and %d indices; want 3 and 3", len(vs), len(is))
	}
	// heading +pi/2 points down the screen
	if math.Abs(float64(vs[0].DstX)-100) > 1e-4 || math.Abs(float64(vs[0].DstY)-56) > 1e-4 {
		t.Errorf("tip = (%v, %v); want (100, 56)", vs[0].DstX, vs[0].DstY)
	}
	for i, v := range vs[1:] {
		if v.DstY >= 50 {
			t.Errorf("rear corner %d at y=%v; want behind the center", i, v.DstY)
		}
	}
	if got := vs[0].ColorR; math.Abs(float64(got)-float64(0x4D)/0xff) > 1e-6 {
		t.Errorf("ColorR = %v; want buddy color", got)
	}

	_, is = appendTriangle(vs, is, s, pilotColor)
	want := []uint16{0, 1, 2, 3, 4, 5}
	for i := range want {
		if is[i] != want[i] {
			t.Fatalf("indices = %v; want %v", is, want)
		}
	}
}
