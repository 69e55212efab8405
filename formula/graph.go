package formula

import (
	"maps"
	"slices"

	"github.com/midbel/gridcalc/layout"
)

// Set is a set of grid positions.
type Set map[layout.Position]struct{}

func (s Set) Has(pos layout.Position) bool {
	_, ok := s[pos]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Sorted returns the members of the set ordered by line then column.
func (s Set) Sorted() []layout.Position {
	return slices.SortedFunc(maps.Keys(s), comparePosition)
}

func (s Set) add(pos layout.Position) {
	s[pos] = struct{}{}
}

func comparePosition(a, b layout.Position) int {
	switch {
	case a.Equal(b):
		return 0
	case a.Less(b):
		return -1
	default:
		return 1
	}
}

// graph keeps the edges between formulas and the cells they read.
// precedents is keyed by formula, dependents by the cell being read.
type graph struct {
	precedents map[layout.Position]Set
	dependents map[layout.Position]Set
}

func newGraph() *graph {
	return &graph{
		precedents: make(map[layout.Position]Set),
		dependents: make(map[layout.Position]Set),
	}
}

func (g *graph) link(pos layout.Position, deps Set) {
	g.unlink(pos)
	g.precedents[pos] = deps
	for d := range deps {
		set, ok := g.dependents[d]
		if !ok {
			set = make(Set)
			g.dependents[d] = set
		}
		set.add(pos)
	}
}

func (g *graph) unlink(pos layout.Position) {
	for d := range g.precedents[pos] {
		set := g.dependents[d]
		delete(set, pos)
		if len(set) == 0 {
			delete(g.dependents, d)
		}
	}
	delete(g.precedents, pos)
}

func (g *graph) dependentsOf(pos layout.Position) Set {
	return g.dependents[pos]
}

func (g *graph) precedentsOf(pos layout.Position) Set {
	return g.precedents[pos]
}

// reaches reports whether target can be reached from one of the cells of
// deps by following the precedents of the formulas met on the way.
func (g *graph) reaches(deps Set, target layout.Position) bool {
	var (
		seen  = make(Set)
		stack = slices.Collect(maps.Keys(deps))
	)
	for len(stack) > 0 {
		n := len(stack) - 1
		curr := stack[n]
		stack = stack[:n]
		if curr.Equal(target) {
			return true
		}
		if seen.Has(curr) {
			continue
		}
		seen.add(curr)
		for p := range g.precedents[curr] {
			if !seen.Has(p) {
				stack = append(stack, p)
			}
		}
	}
	return false
}

// order sorts the formulas so that each one comes after the formulas it
// reads. Formulas caught in a cycle are returned separately.
func (g *graph) order() ([]layout.Position, []layout.Position) {
	var (
		indegree = make(map[layout.Position]int)
		queue    []layout.Position
		list     []layout.Position
	)
	for pos, deps := range g.precedents {
		indegree[pos] += 0
		for d := range deps {
			if _, ok := g.precedents[d]; ok {
				indegree[pos]++
			}
		}
	}
	for pos, n := range indegree {
		if n == 0 {
			queue = append(queue, pos)
		}
	}
	slices.SortFunc(queue, comparePosition)
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		list = append(list, curr)

		for _, d := range g.dependents[curr].Sorted() {
			if _, ok := indegree[d]; !ok {
				continue
			}
			indegree[d]--
			if indegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}
	var cyclic []layout.Position
	if len(list) < len(indegree) {
		for pos, n := range indegree {
			if n > 0 {
				cyclic = append(cyclic, pos)
			}
		}
		slices.SortFunc(cyclic, comparePosition)
	}
	return list, cyclic
}
