package flock

import "github.com/lao-tseu-is-alive/go-buddy-flock/pkg/geometry"

// The three rules of Reynolds' boids (https://en.wikipedia.org/wiki/Boids).
// They read agent states and nothing else.

// SeparationWeight is ((closeDistance - d) / closeDistance)²: 0 at the
// close-neighbor boundary, approaching 1 as d goes to 0.
func SeparationWeight(d, closeDistance float64) float64 {
	r := (closeDistance - d) / closeDistance
	return r * r
}

// Separation pushes pos away from its close neighbors, harder the closer
// they are.
func Separation(pos geometry.Vector2D, closeNeighbors []Agent, closeDistance float64) geometry.Vector2D {
	var sum geometry.Vector2D
	for _, other := range closeNeighbors {
		diff := pos.Sub(other.State().Position)
		sum.AddInPlace(diff.Mul(SeparationWeight(diff.Len(), closeDistance)))
	}
	return sum
}

// Alignment is the mean velocity of the neighbors.
func Alignment(neighbors []Agent) geometry.Vector2D {
	if len(neighbors) == 0 {
		return geometry.Zero
	}
	var sum geometry.Vector2D
	for _, other := range neighbors {
		sum.AddInPlace(other.State().Velocity)
	}
	return sum.Mul(1 / float64(len(neighbors)))
}

// Cohesion points from pos to the mean position of the neighbors.
func Cohesion(pos geometry.Vector2D, neighbors []Agent) geometry.Vector2D {
	if len(neighbors) == 0 {
		return geometry.Zero
	}
	var center geometry.Vector2D
	for _, other := range neighbors {
		center.AddInPlace(other.State().Position)
	}
	return center.Mul(1 / float64(len(neighbors))).Sub(pos)
}

// Steering combines the three forces with their weights. The result is not
// clamped.
func Steering(separation, alignment, cohesion geometry.Vector2D, w Weights) geometry.Vector2D {
	return separation.Mul(w.Separation).
		Add(alignment.Mul(w.Alignment)).
		Add(cohesion.Mul(w.Cohesion))
}
