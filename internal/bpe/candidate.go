package bpe

import (
	"container/heap"
	"sort"
)

// CandidateIndex tracks, for every adjacent rune pair currently present in a
// DocumentGraph, the set of positions where it occurs, and supports popping
// the most frequent pair (ties broken by pair content) in O(log n).
//
// Go has no built-in ordered-set equivalent to a balanced tree keyed on
// (count, pair). This uses container/heap with lazy deletion instead: every
// mutation pushes a fresh (pair, count) entry; PopBest discards entries whose
// recorded count no longer matches the pair's live position count before
// trusting one.
type CandidateIndex struct {
	positions map[string]map[Position]struct{}
	h         pairHeap
}

type pairEntry struct {
	pair  string
	count int
}

type pairHeap []pairEntry

func (h pairHeap) Len() int { return len(h) }
func (h pairHeap) Less(i, j int) bool {
	if h[i].count != h[j].count {
		return h[i].count > h[j].count
	}
	return h[i].pair > h[j].pair
}
func (h pairHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *pairHeap) Push(x any)        { *h = append(*h, x.(pairEntry)) }
func (h *pairHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// NewCandidateIndex returns an empty CandidateIndex.
func NewCandidateIndex() *CandidateIndex {
	return &CandidateIndex{positions: make(map[string]map[Position]struct{})}
}

// Insert records that pair occurs at pos.
func (c *CandidateIndex) Insert(pair string, pos Position) {
	set, ok := c.positions[pair]
	if !ok {
		set = make(map[Position]struct{})
		c.positions[pair] = set
	}
	set[pos] = struct{}{}
	heap.Push(&c.h, pairEntry{pair: pair, count: len(set)})
}

// Remove forgets that pair occurs at pos.
func (c *CandidateIndex) Remove(pair string, pos Position) {
	set, ok := c.positions[pair]
	if !ok {
		return
	}
	delete(set, pos)
	if len(set) == 0 {
		delete(c.positions, pair)
		return
	}
	heap.Push(&c.h, pairEntry{pair: pair, count: len(set)})
}

// PopBest removes and returns the most frequent pair and its positions
// (ascending by Position), or false if the index is empty.
func (c *CandidateIndex) PopBest() (string, []Position, bool) {
	for c.h.Len() > 0 {
		top := heap.Pop(&c.h).(pairEntry)
		set, ok := c.positions[top.pair]
		if !ok || len(set) != top.count {
			continue // stale entry: pair removed entirely, or superseded by a fresher push
		}
		positions := make([]Position, 0, len(set))
		for pos := range set {
			positions = append(positions, pos)
		}
		delete(c.positions, top.pair)
		sort.Slice(positions, func(i, j int) bool { return positionLess(positions[i], positions[j]) })
		return top.pair, positions, true
	}
	return "", nil, false
}

// Count reports how many positions are currently recorded for pair.
func (c *CandidateIndex) Count(pair string) int {
	return len(c.positions[pair])
}

func positionLess(a, b Position) bool {
	if a.Sid != b.Sid {
		return a.Sid < b.Sid
	}
	return a.I < b.I
}
