package search

import "github.com/smarttransit/flight-route-backend/internal/models"

// label is one way of reaching an airport: accumulated cost, number of legs
// and the label it was extended from
type label struct {
	node      string
	cost      float64
	hops      int
	parent    *label
	leg       *models.EnrichedRoute
	finalized bool
	index     int
}

// frontier is a binary min-heap of labels ordered by cost, then hops, then
// airport code, so equal-cost candidates pop in a stable order
type frontier []*label

func (pq frontier) Len() int { return len(pq) }

func (pq frontier) Less(i, j int) bool {
	a, b := pq[i], pq[j]
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	if a.hops != b.hops {
		return a.hops < b.hops
	}
	return a.node < b.node
}

func (pq frontier) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *frontier) Push(x interface{}) {
	n := len(*pq)
	item := x.(*label)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *frontier) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[0 : n-1]
	return item
}
