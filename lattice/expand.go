package lattice

// SubMorpheme describes one element of a sub-morpheme chain: either a
// collocation's registered sub-words (spec §4.2) or an English
// hyphen-continuation token's decomposition (spec §4.4).
type SubMorpheme struct {
	Length int
	POS    uint16
	UnaPOS uint16
	Cost   uint16
	AppI   uint32
	SubI   uint32
}

// unlink removes id from the older-sibling chain rooted at endIndex[end].
func (l *Lattice) unlink(end int, id EdgeID) {
	if end < 0 || end >= len(l.endIndex) {
		return
	}
	if l.endIndex[end] == id {
		l.endIndex[end] = l.edges[id].OlderSibling
		return
	}
	for cur := l.endIndex[end]; cur != NoEdge; {
		next := l.edges[cur].OlderSibling
		if next == id {
			l.edges[cur].OlderSibling = l.edges[id].OlderSibling
			return
		}
		cur = next
	}
}

// ExpandPriority replaces the current position's priority edge (set via
// Set(..., prioFlag=true)) with a chain of sub-morpheme edges (spec
// §4.2's priority-registration callback): only the first sub-edge keeps
// the original edge's Viterbi parent; every subsequent sub-edge inherits
// the first's cumulative cost verbatim rather than recomputing a
// connection cost, because priority registration bypasses normal
// cost-minimization by design. LatticeEnd is set to the end of the last
// sub-edge. Returns the id of the last edge in the chain, or 0 if
// there was no priority edge to expand.
func (l *Lattice) ExpandPriority(subs []SubMorpheme) (EdgeID, error) {
	prio := l.prioEdgePos
	if prio == 0 || len(subs) == 0 {
		return prio, nil
	}

	orig := l.edges[prio]
	origEnd := orig.Start + orig.Length
	l.unlink(origEnd, prio)

	cur := prio
	pos := orig.Start
	inheritedCost := orig.CumCost
	origParent := orig.Parent

	for i, s := range subs {
		id := prio
		if i > 0 {
			if l.curEdgePos >= MaxEdges {
				return 0, nil
			}
			l.curEdgePos++
			id = l.curEdgePos
		}

		e := &l.edges[id]
		*e = Edge{
			Start:       pos,
			Length:      s.Length,
			POS:         s.POS,
			UnaPOS:      s.UnaPOS,
			Cost:        s.Cost,
			AppI:        s.AppI,
			SubI:        s.SubI,
			DicPriority: orig.DicPriority,
			CumCost:     inheritedCost,
		}
		if i == 0 {
			e.Parent = origParent
		} else {
			e.Parent = cur
		}

		pos += s.Length
		cur = id
	}

	end := pos
	l.edges[cur].OlderSibling = l.endIndex[end]
	l.endIndex[end] = cur
	if length := pos - orig.Start; length < len(l.morphChk) {
		l.morphChk[length] = true
	}
	l.ResetEnd(end)

	return cur, nil
}
