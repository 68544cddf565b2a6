package bpe

import (
	"fmt"
	"strings"
)

// assertInvariants checks the document graph and candidate index against
// the step-boundary invariants I1-I4 (spec.md §3) and panics on the first
// violation found. It is a no-op unless built with -tags debug, per
// spec.md §7 ("invariant violation is a program error (crash), not a
// recoverable condition"). The underlying checkX functions are unconditional
// so tests can exercise P1/P2 without a debug build.
func assertInvariants(graph *DocumentGraph, index *CandidateIndex, step int) {
	if !debugBuild {
		return
	}
	violations := checkInvariants(graph, index, step)
	assertInvariant(len(violations) == 0, "%s", strings.Join(violations, "; "))
}

// checkInvariants runs all of I1-I4 and returns every violation found,
// described with enough context to debug (empty when the state is
// consistent).
func checkInvariants(graph *DocumentGraph, index *CandidateIndex, step int) []string {
	var violations []string
	violations = append(violations, checkLinkConsistency(graph, step)...)
	violations = append(violations, checkCandidateIndexMatchesGraph(graph, index, step)...)
	violations = append(violations, checkFreqEntriesFresh(index, step)...)
	return violations
}

// checkLinkConsistency checks I1: every live position's neighbors point
// back at it.
func checkLinkConsistency(graph *DocumentGraph, step int) []string {
	var violations []string
	for sid, links := range graph.Links {
		for i, l := range links {
			if l.Prev == deadLink && l.Next == deadLink {
				continue // removed node
			}
			if l.Prev >= 0 && links[l.Prev].Next != i {
				violations = append(violations, fmt.Sprintf(
					"I1 violated at step %d: sentence %d pos %d has prev %d whose next is %d, want %d",
					step, sid, i, l.Prev, links[l.Prev].Next, i))
			}
			if l.Next < len(links) && links[l.Next].Prev != i {
				violations = append(violations, fmt.Sprintf(
					"I1 violated at step %d: sentence %d pos %d has next %d whose prev is %d, want %d",
					step, sid, i, l.Next, links[l.Next].Prev, i))
			}
		}
	}
	return violations
}

// checkCandidateIndexMatchesGraph checks I2 and I4 together: the positions
// set recorded for every pair the CandidateIndex tracks is exactly the set
// of live 2-hop spans the graph currently presents for that pair's content
// (I4's "one live head character followed by exactly one live successor's
// entire representation" is precisely what PairWords(pos, 0, 2) computes).
func checkCandidateIndexMatchesGraph(graph *DocumentGraph, index *CandidateIndex, step int) []string {
	live := make(map[string]map[Position]struct{})
	for sid, s := range graph.Sentences {
		links := graph.Links[sid]
		for i := range s {
			if links[i].Prev == deadLink && links[i].Next == deadLink {
				continue
			}
			pair, ppos, ok := graph.PairWords(Position{Sid: sid, I: i}, 0, 2)
			if !ok {
				continue
			}
			key := string(pair)
			if live[key] == nil {
				live[key] = make(map[Position]struct{})
			}
			live[key][ppos] = struct{}{}
		}
	}

	var violations []string
	for pair, positions := range index.positions {
		want := live[pair]
		if len(want) != len(positions) {
			violations = append(violations, fmt.Sprintf(
				"I2 violated at step %d: pair %q indexed with %d positions, graph has %d live occurrences",
				step, pair, len(positions), len(want)))
			continue
		}
		for pos := range positions {
			if _, ok := want[pos]; !ok {
				violations = append(violations, fmt.Sprintf(
					"I2 violated at step %d: pair %q indexed at %+v, which is not a live 2-hop occurrence in the graph",
					step, pair, pos))
			}
		}
	}
	return violations
}

// checkFreqEntriesFresh checks I3, restated per spec.md §9 for a lazily
// deleted heap: every pair currently tracked by positions has a non-stale
// entry (count > 0, matching the live position count) somewhere in the
// frequency heap, so PopBest can always surface it.
func checkFreqEntriesFresh(index *CandidateIndex, step int) []string {
	var violations []string
	for pair, positions := range index.positions {
		count := len(positions)
		if count == 0 {
			violations = append(violations, fmt.Sprintf("I3 violated at step %d: pair %q indexed with zero positions", step, pair))
			continue
		}

		found := false
		for _, e := range index.h {
			if e.pair == pair && e.count == count {
				found = true
				break
			}
		}
		if !found {
			violations = append(violations, fmt.Sprintf(
				"I3 violated at step %d: pair %q (count %d) has no fresh entry in the frequency heap",
				step, pair, count))
		}
	}
	return violations
}
