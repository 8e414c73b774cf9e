package flock

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/lao-tseu-is-alive/go-buddy-flock/pkg/geometry"
)

func TestClassify_Thresholds(t *testing.T) {
	p := testParams()
	me := buddyAt(100, 100, 0, 0)

	tests := []struct {
		name         string
		dx           float64
		wantNeighbor bool
		wantClose    bool
	}{
		{"inside both", 30, true, true},
		{"just inside close", 44.999, true, true},
		{"on close boundary", 45, true, false},
		{"between radii", 50, true, false},
		{"on neighbor boundary", 60, false, false},
		{"far away", 200, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := buddyAt(100+tt.dx, 100, 0, 0)
			ns, cs := classify(me, []Agent{me, other}, p, nil, nil)
			if got := slices.Contains(ns, Agent(other)); got != tt.wantNeighbor {
				t.Errorf("neighbor at %v: got %v; want %v", tt.dx, got, tt.wantNeighbor)
			}
			if got := slices.Contains(cs, Agent(other)); got != tt.wantClose {
				t.Errorf("close neighbor at %v: got %v; want %v", tt.dx, got, tt.wantClose)
			}
		})
	}
}

func TestClassify_IdentityNotPosition(t *testing.T) {
	p := testParams()
	a := buddyAt(50, 50, 1, 0)
	twin := buddyAt(50, 50, 0, 1) // same point, different agent

	ns, cs := classify(a, []Agent{a, twin}, p, nil, nil)

	if slices.Contains(ns, Agent(a)) || slices.Contains(cs, Agent(a)) {
		t.Error("an agent must never be its own neighbor")
	}
	if len(ns) != 1 || ns[0] != Agent(twin) {
		t.Errorf("neighbors = %v; want only the twin", ns)
	}
	if len(cs) != 1 || cs[0] != Agent(twin) {
		t.Errorf("close neighbors = %v; want only the twin", cs)
	}
}

func TestClassify_CloseIsSubset(t *testing.T) {
	p := testParams()
	rng := rand.New(rand.NewPCG(3, 5))
	population := make([]Agent, 80)
	for i := range population {
		population[i] = buddyAt(rng.Float64()*150, rng.Float64()*150, 0, 0)
	}

	for _, self := range population {
		ns, cs := classify(self, population, p, nil, nil)
		if slices.Contains(ns, self) {
			t.Fatalf("agent %v listed itself as a neighbor", self.State().Position)
		}
		for _, c := range cs {
			if !slices.Contains(ns, c) {
				t.Fatalf("close neighbor %v missing from neighbors", c.State().Position)
			}
		}
	}
}

func TestClassify_ReusesBuffers(t *testing.T) {
	p := testParams()
	me := buddyAt(0, 0, 0, 0)
	others := []Agent{me, buddyAt(1, 0, 0, 0), buddyAt(50, 0, 0, 0)}

	ns, cs := classify(me, others, p, make([]Agent, 0, 8), make([]Agent, 0, 8))
	if len(ns) != 2 || len(cs) != 1 {
		t.Fatalf("got %d neighbors and %d close; want 2 and 1", len(ns), len(cs))
	}

	// a second pass from the truncated buffers must not keep stale entries
	others[1].(*Buddy).state.Position = geometry.Vector2D{X: 500, Y: 500}
	ns, cs = classify(me, others, p, ns[:0], cs[:0])
	if len(ns) != 1 || len(cs) != 0 {
		t.Errorf("got %d neighbors and %d close after move; want 1 and 0", len(ns), len(cs))
	}
}
