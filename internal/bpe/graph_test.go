package bpe

import "testing"

func TestDocumentGraph_NthFrom(t *testing.T) {
	g := NewDocumentGraph([][]rune{[]rune("abcd")})

	pos := Position{Sid: 0, I: 1} // 'b'
	if got, ok := g.NthFrom(pos, 1); !ok || got.I != 2 {
		t.Errorf("NthFrom(+1) = %+v, %v; want I=2, true", got, ok)
	}
	if got, ok := g.NthFrom(pos, -1); !ok || got.I != 0 {
		t.Errorf("NthFrom(-1) = %+v, %v; want I=0, true", got, ok)
	}
	if _, ok := g.NthFrom(Position{Sid: 0, I: 0}, -1); ok {
		t.Error("NthFrom(-1) at the first position should underflow")
	}
	if _, ok := g.NthFrom(Position{Sid: 0, I: 3}, 2); ok {
		t.Error("NthFrom walking past the end should fail")
	}
}

func TestDocumentGraph_PairWords(t *testing.T) {
	g := NewDocumentGraph([][]rune{[]rune("abcd")})

	pos := Position{Sid: 0, I: 0}
	span, left, ok := g.PairWords(pos, 0, 2)
	if !ok {
		t.Fatal("PairWords(0, 2) failed")
	}
	if string(span) != "ab" {
		t.Errorf("PairWords span = %q, want %q", string(span), "ab")
	}
	if left != pos {
		t.Errorf("PairWords left = %+v, want %+v", left, pos)
	}

	if _, _, ok := g.PairWords(Position{Sid: 0, I: 3}, 0, 2); ok {
		t.Error("PairWords should fail when the right endpoint falls off the end")
	}
}

func TestDocumentGraph_RemoveNode(t *testing.T) {
	g := NewDocumentGraph([][]rune{[]rune("abcd")})

	ok := g.RemoveNode(Position{Sid: 0, I: 1}) // remove 'b'
	if !ok {
		t.Fatal("RemoveNode failed")
	}

	// 'a' should now link directly to 'c'.
	next, ok := g.NthFrom(Position{Sid: 0, I: 0}, 1)
	if !ok || next.I != 2 {
		t.Errorf("after removal, next of 'a' = %+v, %v; want I=2, true", next, ok)
	}
	prev, ok := g.NthFrom(Position{Sid: 0, I: 2}, -1)
	if !ok || prev.I != 0 {
		t.Errorf("after removal, prev of 'c' = %+v, %v; want I=0, true", prev, ok)
	}

	assertLinkConsistency(t, g)
}

func TestDocumentGraph_RemoveNode_RequiresBothNeighbors(t *testing.T) {
	g := NewDocumentGraph([][]rune{[]rune("ab")})

	if g.RemoveNode(Position{Sid: 0, I: 0}) {
		t.Error("RemoveNode at the first position (no predecessor) should fail")
	}
	if !g.RemoveNode(Position{Sid: 0, I: 1}) {
		t.Error("RemoveNode at the last position should succeed: its successor is the past-the-end boundary")
	}
}

func TestDocumentGraph_RemoveNode_AtEndOfSentenceUpdatesBoundary(t *testing.T) {
	g := NewDocumentGraph([][]rune{[]rune("abc")})

	if !g.RemoveNode(Position{Sid: 0, I: 2}) { // remove 'c', the last node
		t.Fatal("RemoveNode failed")
	}
	// next of 'b' is now the past-the-end index 3.
	afterB, ok := g.NthFrom(Position{Sid: 0, I: 1}, 1)
	if !ok || afterB.I != 3 {
		t.Errorf("next of 'b' = %+v, %v; want I=3, true", afterB, ok)
	}
}

// assertLinkConsistency checks invariant I1: every live link's prev/next
// pointers agree with their neighbor's own prev/next.
func assertLinkConsistency(t *testing.T, g *DocumentGraph) {
	t.Helper()
	for sid, links := range g.Links {
		for i, l := range links {
			if l.Prev == deadLink && l.Next == deadLink {
				continue // dead node
			}
			if l.Next >= 0 && l.Next < len(links) {
				if links[l.Next].Prev != i {
					t.Errorf("sentence %d: links[%d].next=%d but links[%d].prev=%d, want %d",
						sid, i, l.Next, l.Next, links[l.Next].Prev, i)
				}
			}
			if l.Prev >= 0 && l.Prev < len(links) {
				if links[l.Prev].Next != i {
					t.Errorf("sentence %d: links[%d].prev=%d but links[%d].next=%d, want %d",
						sid, i, l.Prev, l.Prev, links[l.Prev].Next, i)
				}
			}
		}
	}
}
