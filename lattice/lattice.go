// Package lattice implements the Viterbi lattice core described in spec
// §4.1: a fixed-capacity arena of candidate-morpheme edges, Viterbi
// back-pointer linking through a connection-cost table, convergence
// detection, and optimal-path extraction.
//
// The arena is addressed by small integer indices rather than pointers,
// the same flat, index-based shape the teacher repo uses for its
// FlatNode/FlatEdge trie (no GC pressure, trivially mmap-friendly if
// ever persisted, and a direct fit for the "arena of edges indexed by
// u8" design note in spec §9).
package lattice

import (
	"github.com/unalang/una/charclass"
	"github.com/unalang/una/unaerr"
)

// Limits from spec §6.
const (
	MaxTextLen  = 255 // UNA_LOCAL_TEXT_SIZE
	MaxEdges    = 255 // UNAMORPH_LAT_BRNCH_MAX
	MaxWordLen  = 255 // UNA_HYOKI_LEN_MAX
	PutCost     = 25  // PUT_COST: same-length suppression threshold
	CantConnect = 65535
)

// VoidPOS is the lattice-local sentinel for void morphemes (LOCAL_HIN_VOID
// in the original source). Individual dictionaries have their own
// void-POS number; the dictionary layer translates it to VoidPOS before
// calling Set, so the lattice core can recognize void edges by number
// alone (spec §3 invariants).
const VoidPOS uint16 = 0xFFFF

// NoEdge is the sentinel "nothing ends/starts here" index. It shares the
// value 0 with the virtual root, which is never linked into an
// end_index chain.
const NoEdge uint8 = 0

// EdgeID indexes into Lattice.edges. 0 is the virtual root.
type EdgeID = uint8

// Edge is one lattice candidate morpheme (spec §3's "Lattice edge").
type Edge struct {
	Start        int    // text_start, character offset
	Length       int    // char_length
	POS          uint16 // morpheme-POS
	UnaPOS       uint16 // coarse POS (top 4 bits used as the priority group)
	CumCost      uint32 // cumulative_cost
	Cost         uint16 // morpheme_cost, 0..254 (255 reserved "infeasible" in connection tables)
	Parent       EdgeID
	OlderSibling EdgeID // chains all edges ending at the same position
	AppI         uint32 // (dic_index<<24) | record_id
	SubI         uint32 // sub-morpheme-list offset / 0xFFFFFF / count
	DicPriority  uint8
	Void         bool
}

// CoarseGroup returns the top 4 bits of the UNA-POS, the grouping used
// by the multi-dictionary priority rule (spec §3, §4.1).
func (e *Edge) CoarseGroup() uint16 { return e.UnaPOS >> 12 }

// ConnectFunc looks up the connection cost between a predecessor's POS
// and a candidate's POS, expanding the wire sentinel 255 to
// CantConnect==65535 per spec §3's connection-table contract.
type ConnectFunc func(predPOS, selfPOS uint16) uint32

// Lattice is one handle's mutable analysis arena (spec §3's "Lattice").
type Lattice struct {
	edges [MaxEdges + 1]Edge // index 0 is the virtual root

	Text     []charclass.CodeUnit // borrowed input buffer
	TextLen  int

	endIndex  [MaxTextLen + 2]EdgeID // end_index[position] -> head of older-sibling chain
	morphChk  [MaxWordLen + 1]bool   // morph_check[length]

	LatticeEnd  int   // furthest character position reached so far
	curEdgePos  EdgeID
	startEdgePos EdgeID // first edge registered at the current start position
	prioEdgePos  EdgeID // priority edge registered at the current start position, 0 = none

	// VirtualPredPOS is the POS number of a virtual predecessor edge
	// ending at position 0, used to carry a handle's last-emitted
	// morpheme POS (maeHin, spec §5) into the connection cost of the
	// first morpheme of the next analyze call. Zero by default; zero is
	// treated as POS 0, so edges starting at 0 are always charged
	// connect(VirtualPredPOS, pos) on top of their own morpheme cost.
	VirtualPredPOS uint16
}

// Reset rebinds the lattice to a new input buffer and clears all
// per-call state, keeping the backing array allocations.
func (l *Lattice) Reset(text []charclass.CodeUnit) {
	n := len(text)
	if n > MaxTextLen {
		n = MaxTextLen
	}
	l.Text = text[:n]
	l.TextLen = n

	l.edges[0] = Edge{Parent: 0, Void: true}
	for i := range l.endIndex {
		l.endIndex[i] = NoEdge
	}
	for i := range l.morphChk {
		l.morphChk[i] = false
	}
	l.LatticeEnd = 0
	l.curEdgePos = 0
	l.startEdgePos = 0
	l.prioEdgePos = 0
}

// BeginPosition records the arena high-water mark before scanning
// position st, resets the morph_check flags for the new start (they are
// keyed by length relative to the *current* start per spec §3/§4.3),
// and clears the priority-edge slot.
func (l *Lattice) BeginPosition() {
	l.startEdgePos = l.curEdgePos + 1
	l.prioEdgePos = 0
	for i := range l.morphChk {
		l.morphChk[i] = false
	}
}

// StartEdgePos returns the arena index where the current position's
// candidates began.
func (l *Lattice) StartEdgePos() EdgeID { return l.startEdgePos }

// CurEdgePos returns the arena high-water mark.
func (l *Lattice) CurEdgePos() EdgeID { return l.curEdgePos }

// PriorityEdge returns the priority edge registered during the current
// position, or 0 if none was registered.
func (l *Lattice) PriorityEdge() EdgeID { return l.prioEdgePos }

// MorphCheck reports whether a registered morpheme of character length L
// has already been emitted at the current start position (spec §4.3
// same-length suppression).
func (l *Lattice) MorphCheck(length int) bool {
	if length < 0 || length >= len(l.morphChk) {
		return false
	}
	return l.morphChk[length]
}

// Edge returns a pointer to the edge at id. Callers must not retain it
// across a Set call, which may not reallocate but does mutate siblings.
func (l *Lattice) Edge(id EdgeID) *Edge { return &l.edges[id] }

// Set appends one candidate edge to the lattice (spec §4.1's
// lattice_set). It returns the new edge's id, or (0, ErrLatticeFull) if
// the arena is exhausted -- callers treat that as forced convergence,
// never surfacing it to the analyze caller (spec §7).
func (l *Lattice) Set(start, length int, pos uint16, unaPOS uint16, cost uint16, appI, subI uint32, dicPriority uint8, prioFlag bool) (EdgeID, error) {
	end := start + length
	if end > MaxTextLen+1 {
		return 0, &unaerr.MalformedError{Resource: "lattice", Offset: int64(end), Reason: "edge end past buffer"}
	}

	void := pos == VoidPOS

	// Multi-dictionary priority rule (spec §3, §4.1): if another edge
	// already ends here with the same start, a strictly higher
	// dic_priority, and the same coarse POS group, drop silently.
	if !void {
		group := unaPOS >> 12
		for sib := l.endIndex[end]; sib != NoEdge; sib = l.edges[sib].OlderSibling {
			e := &l.edges[sib]
			if e.Start == start && e.DicPriority > dicPriority && e.UnaPOS>>12 == group {
				return 0, nil
			}
		}
	}

	if l.curEdgePos >= MaxEdges {
		return 0, unaerr.ErrLatticeFull()
	}
	l.curEdgePos++
	id := l.curEdgePos

	e := &l.edges[id]
	*e = Edge{
		Start:       start,
		Length:      length,
		POS:         pos,
		UnaPOS:      unaPOS,
		Cost:        cost,
		AppI:        appI,
		SubI:        subI,
		DicPriority: dicPriority,
		Void:        void,
	}
	if void {
		e.Cost = 0
		e.CumCost = 0
		e.Parent = id
	} else {
		e.OlderSibling = l.endIndex[end]
		l.endIndex[end] = id
		if end > l.LatticeEnd {
			l.LatticeEnd = end
		}
		if length < len(l.morphChk) {
			l.morphChk[length] = true
		}
	}

	if prioFlag && !void {
		l.prioEdgePos = id
	}

	return id, nil
}

// LinkWithParent runs Viterbi back-pointer selection over every edge
// registered in [startEdgePos..curEdgePos] (spec §4.1's
// link_with_parent): for each candidate edge, scan the predecessor
// chain ending at its start position and keep the minimum
// connect-cost + self-cost parent. Void-POS predecessors are skipped;
// a void-POS self becomes an orphan with cumulative cost 0.
func (l *Lattice) LinkWithParent(connect ConnectFunc) {
	for id := l.startEdgePos; id != 0 && id <= l.curEdgePos; id++ {
		e := &l.edges[id]
		if e.Void {
			e.CumCost = 0
			e.Parent = id
			continue
		}

		bestParent := EdgeID(0)
		bestCost := uint64(0)
		found := false

		if e.Start == 0 {
			cc := uint64(connect(l.VirtualPredPOS, e.POS))
			if cc == 255 {
				cc = CantConnect
			}
			bestParent = 0
			bestCost = cc + uint64(e.Cost)
			found = true
		}

		for pred := l.endIndex[e.Start]; pred != NoEdge; pred = l.edges[pred].OlderSibling {
			p := &l.edges[pred]
			if p.Void {
				continue
			}
			cc := uint64(connect(p.POS, e.POS))
			if cc == 255 {
				cc = CantConnect
			}
			total := uint64(p.CumCost) + cc + uint64(e.Cost)
			if !found || total < bestCost {
				bestCost = total
				bestParent = pred
				found = true
			}
		}

		if !found {
			// No predecessor at all (start==0 already handled above);
			// treat as a root-attached edge with only its own cost.
			bestParent = 0
			bestCost = uint64(e.Cost)
		}

		e.Parent = bestParent
		if bestCost > uint64(^uint32(0)) {
			bestCost = uint64(^uint32(0))
		}
		e.CumCost = uint32(bestCost)
	}
}

// ExtractPath walks back from the best edge ending exactly at upTo via
// Parent until the root, reversing into out (spec §4.1's
// extract_path). It returns the number of edges written, 0 if no edge
// ends at upTo. The best edge ending at upTo is the one among
// endIndex[upTo]'s chain with minimum cumulative cost; ties favor the
// most recently registered edge, which heads the chain.
func (l *Lattice) ExtractPath(upTo int, out []EdgeID) (int, error) {
	best := l.bestEdgeEndingAt(upTo)
	if best == 0 {
		return 0, nil
	}

	var stack []EdgeID
	for id := best; id != 0; {
		stack = append(stack, id)
		e := &l.edges[id]
		if e.Parent == id {
			break
		}
		id = e.Parent
	}

	if len(stack) > len(out) {
		return 0, unaerr.ErrMorphBufferFull
	}
	for i, id := range stack {
		out[i] = stack[len(stack)-1-i]
		_ = id
	}
	return len(stack), nil
}

func (l *Lattice) bestEdgeEndingAt(pos int) EdgeID {
	if pos < 0 || pos >= len(l.endIndex) {
		return 0
	}
	var best EdgeID
	var bestCost uint32
	for id := l.endIndex[pos]; id != NoEdge; id = l.edges[id].OlderSibling {
		e := &l.edges[id]
		if best == 0 || e.CumCost < bestCost {
			best = id
			bestCost = e.CumCost
		}
	}
	return best
}

// ResetEnd forces LatticeEnd to ed, used after priority/collocation
// expansion replaces a single edge with a chain whose true end differs
// from the registered edge's nominal end (spec §4.1/§4.2).
func (l *Lattice) ResetEnd(ed int) {
	l.LatticeEnd = ed
}

// CandidateCount returns how many non-void edges were registered during
// the current position, used by convergence detection (spec §4.1: "p ==
// SCAN_DICTS ... exactly one candidate was produced during this
// position").
func (l *Lattice) CandidateCount() int {
	n := 0
	for id := l.startEdgePos; id != 0 && id <= l.curEdgePos; id++ {
		if !l.edges[id].Void {
			n++
		}
	}
	return n
}
