package flock

// classify appends to neighbors every other agent closer than
// NeighborDistance to self, and to closeNeighbors those also closer than
// CloseNeighborDistance. Self is skipped by identity, so an agent sharing
// self's exact position is still a neighbor.
//
// The scan is brute force over the whole population.
func classify(self Agent, population []Agent, p *Params, neighbors, closeNeighbors []Agent) ([]Agent, []Agent) {
	me := self.State().Position
	for _, other := range population {
		if other == self {
			continue
		}
		d := me.DistanceTo(other.State().Position)
		if d >= p.NeighborDistance {
			continue
		}
		neighbors = append(neighbors, other)
		if d < p.CloseNeighborDistance {
			closeNeighbors = append(closeNeighbors, other)
		}
	}
	return neighbors, closeNeighbors
}
