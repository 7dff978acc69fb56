// Package search finds the minimum-weight itinerary between two airports of
// a flight graph using at most a given number of legs.
package search

import (
	"container/heap"
	"fmt"

	"github.com/smarttransit/flight-route-backend/internal/graph"
	"github.com/smarttransit/flight-route-backend/internal/models"
)

// Search returns the cheapest itinerary from origin to destination that uses
// at most maxStops legs, or false when none exists. Unknown airports and
// origin == destination are reported as not found.
//
// Costs are minimised strictly; the leg bound only removes candidates. To
// keep that guarantee when the bound is active, an airport may be reached by
// several labels as long as none is beaten on both cost and leg count by
// another, and an airport is expanded again only through a label with fewer
// legs than every label already finalized for it. With a bound that cannot
// bind, this is plain Dijkstra with one finalization per airport.
//
// The graph is only read, so concurrent searches may share it.
func Search(g *graph.FlightGraph, origin, destination string, maxStops int) (*models.Itinerary, bool) {
	if !g.Exists(origin) || !g.Exists(destination) || origin == destination {
		return nil, false
	}

	s := newState(maxStops < g.SourceCount())
	s.push(&label{node: origin})

	for s.queue.Len() > 0 {
		current := heap.Pop(&s.queue).(*label)

		if s.settled(current.node, current.hops) {
			continue
		}
		s.finalize(current)

		if current.node == destination {
			return assemble(current, origin), true
		}

		if current.hops+1 > maxStops {
			continue
		}

		for _, edge := range g.Neighbors(current.node) {
			candidate := &label{
				node:   edge.To,
				cost:   current.cost + edge.Weight,
				hops:   current.hops + 1,
				parent: current,
				leg:    edge.Leg,
			}
			if s.settled(candidate.node, candidate.hops) || s.dominated(candidate) {
				continue
			}
			s.push(candidate)
		}
	}

	return nil, false
}

type state struct {
	bounded   bool
	queue     frontier
	fronts    map[string][]*label
	finalized map[string]int // fewest legs among finalized labels
}

func newState(bounded bool) *state {
	return &state{
		bounded:   bounded,
		queue:     frontier{},
		fronts:    make(map[string][]*label),
		finalized: make(map[string]int),
	}
}

// settled reports whether node already has a finalized label that is at
// least as good as any label with the given leg count. Labels pop in
// non-decreasing cost, so only the leg count needs comparing.
func (s *state) settled(node string, hops int) bool {
	best, ok := s.finalized[node]
	if !ok {
		return false
	}
	return !s.bounded || best <= hops
}

func (s *state) finalize(l *label) {
	if l.finalized {
		panic(fmt.Sprintf("search: label for %s finalized twice", l.node))
	}
	l.finalized = true
	if best, ok := s.finalized[l.node]; !ok || l.hops < best {
		s.finalized[l.node] = l.hops
	}
}

// dominates reports whether a is at least as good as b. Without an active
// bound the leg count only breaks cost ties.
func (s *state) dominates(a, b *label) bool {
	if s.bounded {
		return a.cost <= b.cost && a.hops <= b.hops
	}
	return a.cost < b.cost || (a.cost == b.cost && a.hops <= b.hops)
}

// dominated reports whether candidate is no better than a label already
// queued for its airport
func (s *state) dominated(candidate *label) bool {
	for _, existing := range s.fronts[candidate.node] {
		if s.dominates(existing, candidate) {
			return true
		}
	}
	return false
}

func (s *state) push(l *label) {
	front := s.fronts[l.node][:0]
	for _, existing := range s.fronts[l.node] {
		if !s.dominates(l, existing) {
			front = append(front, existing)
		}
	}
	s.fronts[l.node] = append(front, l)
	heap.Push(&s.queue, l)
}
