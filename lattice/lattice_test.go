package lattice

import "testing"

func identityConnect(_, _ uint16) uint32 { return 0 }

func newTestLattice(text []uint16) *Lattice {
	l := &Lattice{}
	l.Reset(text)
	return l
}

func TestSetAndLinkSimplePath(t *testing.T) {
	text := []uint16{'a', 'b', 'c'}
	l := newTestLattice(text)

	l.BeginPosition()
	id, err := l.Set(0, 1, 10, 1<<12, 5, 0, 0xFFFFFF, 1, false)
	if err != nil || id == 0 {
		t.Fatalf("Set failed: id=%d err=%v", id, err)
	}
	l.LinkWithParent(identityConnect)

	l.BeginPosition()
	id2, err := l.Set(1, 2, 20, 2<<12, 7, 0, 0xFFFFFF, 1, false)
	if err != nil || id2 == 0 {
		t.Fatalf("Set failed: id=%d err=%v", id2, err)
	}
	l.LinkWithParent(identityConnect)

	var out [MaxEdges]EdgeID
	n, err := l.ExtractPath(3, out[:])
	if err != nil {
		t.Fatalf("ExtractPath: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 edges on the path, got %d", n)
	}
	if l.Edge(out[0]).Start != 0 || l.Edge(out[1]).Start != 1 {
		t.Errorf("expected path in start order 0,1; got %d,%d", l.Edge(out[0]).Start, l.Edge(out[1]).Start)
	}
	if got := l.Edge(out[1]).CumCost; got != 12 {
		t.Errorf("expected cumulative cost 5+7=12, got %d", got)
	}
}

// TestMultiDictionaryPriorityRule covers spec §3/§8 property 3: a lower
// dic_priority candidate at the same (start, end, coarse POS group) as
// an already-registered higher-priority candidate must be dropped.
func TestMultiDictionaryPriorityRule(t *testing.T) {
	text := []uint16{'a', 'b'}
	l := newTestLattice(text)
	l.BeginPosition()

	highGroup := uint16(3) << 12
	if _, err := l.Set(0, 2, 100, highGroup, 10, 0, 0xFFFFFF, 10, false); err != nil {
		t.Fatalf("high-priority Set failed: %v", err)
	}
	lowID, err := l.Set(0, 2, 200, highGroup, 1, 0, 0xFFFFFF, 1, false)
	if err != nil {
		t.Fatalf("low-priority Set returned error instead of silent drop: %v", err)
	}
	if lowID != 0 {
		t.Errorf("expected the lower-priority same-group candidate to be silently dropped, got id %d", lowID)
	}
}

// TestMultiDictionaryDifferentGroupBothEmitted covers spec §8 scenario
// 3's second half: candidates in different coarse POS groups at the
// same (start, end) must both survive regardless of priority.
func TestMultiDictionaryDifferentGroupBothEmitted(t *testing.T) {
	text := []uint16{'a', 'b'}
	l := newTestLattice(text)
	l.BeginPosition()

	if _, err := l.Set(0, 2, 100, 3<<12, 10, 0, 0xFFFFFF, 10, false); err != nil {
		t.Fatalf("first Set failed: %v", err)
	}
	id, err := l.Set(0, 2, 200, 5<<12, 1, 0, 0xFFFFFF, 1, false)
	if err != nil {
		t.Fatalf("second Set (different group) failed: %v", err)
	}
	if id == 0 {
		t.Errorf("expected a different coarse POS group to survive the priority rule")
	}
}

func TestVoidEdgeIsIsolated(t *testing.T) {
	text := []uint16{'a'}
	l := newTestLattice(text)
	l.BeginPosition()

	id, err := l.Set(0, 1, VoidPOS, 0, 50, 0, 0xFFFFFF, 1, false)
	if err != nil || id == 0 {
		t.Fatalf("Set void failed: id=%d err=%v", id, err)
	}
	l.LinkWithParent(identityConnect)

	e := l.Edge(id)
	if !e.Void {
		t.Fatal("expected edge to be marked void")
	}
	if e.Cost != 0 || e.CumCost != 0 {
		t.Errorf("expected void edge to carry zero cost regardless of argument, got cost=%d cumCost=%d", e.Cost, e.CumCost)
	}
	if e.Parent != id {
		t.Errorf("expected void edge to be its own parent (isolated), got parent=%d", e.Parent)
	}
	if l.endIndex[1] != NoEdge {
		t.Errorf("expected void edge to never connect into end_index chain")
	}
}

func TestLatticeFullForcesOverflow(t *testing.T) {
	text := make([]uint16, 1)
	l := newTestLattice(text)
	l.BeginPosition()

	var lastErr error
	for i := 0; i < MaxEdges+5; i++ {
		_, err := l.Set(0, 1, uint16(i+1), 1<<12, 1, 0, 0xFFFFFF, 1, false)
		if err != nil {
			lastErr = err
			break
		}
	}
	if lastErr == nil {
		t.Fatal("expected the arena to eventually overflow")
	}
}

func TestExpandPriorityChainsSubMorphemes(t *testing.T) {
	text := []uint16{'a', 'b', 'c', 'd'}
	l := newTestLattice(text)
	l.BeginPosition()

	id, err := l.Set(0, 4, 999, 1<<12, 3, 0, 0xFFFFFF, 5, true)
	if err != nil || id == 0 {
		t.Fatalf("Set priority edge failed: id=%d err=%v", id, err)
	}
	l.LinkWithParent(identityConnect)
	if l.PriorityEdge() != id {
		t.Fatalf("expected PriorityEdge() to return %d, got %d", id, l.PriorityEdge())
	}

	orig := *l.Edge(id)
	subs := []SubMorpheme{
		{Length: 2, POS: 10, UnaPOS: 1 << 12},
		{Length: 2, POS: 11, UnaPOS: 1 << 12},
	}
	last, err := l.ExpandPriority(subs)
	if err != nil {
		t.Fatalf("ExpandPriority: %v", err)
	}
	if last == 0 {
		t.Fatal("expected a non-zero last edge id")
	}

	first := l.Edge(id)
	if first.POS != 10 || first.Length != 2 {
		t.Fatalf("expected the first sub-edge to overwrite the priority edge slot, got pos=%d length=%d", first.POS, first.Length)
	}
	if first.Parent != orig.Parent {
		t.Errorf("expected the first sub-edge to keep the original parent")
	}

	second := l.Edge(last)
	if second.Start != 2 || second.Length != 2 || second.POS != 11 {
		t.Fatalf("expected the second sub-edge at start=2 length=2 pos=11, got start=%d length=%d pos=%d", second.Start, second.Length, second.POS)
	}
	if second.CumCost != first.CumCost {
		t.Errorf("expected the second sub-edge to inherit the first's cumulative cost verbatim, got %d vs %d", second.CumCost, first.CumCost)
	}
	if second.Parent != id {
		t.Errorf("expected the second sub-edge to chain off the first")
	}
	if l.LatticeEnd != 4 {
		t.Errorf("expected LatticeEnd advanced to 4, got %d", l.LatticeEnd)
	}
}

func TestSameLengthMorphCheck(t *testing.T) {
	text := []uint16{'a', 'b'}
	l := newTestLattice(text)
	l.BeginPosition()

	if l.MorphCheck(2) {
		t.Fatal("expected morph_check[2] to start false")
	}
	if _, err := l.Set(0, 2, 1, 1<<12, 3, 0, 0xFFFFFF, 1, false); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !l.MorphCheck(2) {
		t.Error("expected morph_check[2] to be set after a length-2 registered morpheme")
	}
}

func TestConvergenceCandidateCount(t *testing.T) {
	text := []uint16{'a'}
	l := newTestLattice(text)

	l.BeginPosition()
	if n := l.CandidateCount(); n != 0 {
		t.Fatalf("expected zero candidates before any Set, got %d", n)
	}
	if _, err := l.Set(0, 1, 1, 1<<12, 3, 0, 0xFFFFFF, 1, false); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if n := l.CandidateCount(); n != 1 {
		t.Errorf("expected exactly one candidate to signal convergence, got %d", n)
	}
}
