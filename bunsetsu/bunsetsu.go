package bunsetsu

// Phrase is one bunsetsu: a contiguous run of morpheme indices plus its
// resolved dependency target and relation type.
type Phrase struct {
	Start    int // first morpheme index (inclusive)
	End      int // last morpheme index (exclusive)
	Target   int // phrase index this phrase depends on (itself, if final)
	Relation RelationType
}

// Segment splits a morpheme stream into bunsetsu (spec §4.5's
// segmentation rule, grounded on unaBns_gen): break after a KUTEN-POS
// morpheme (unconditionally) or wherever the grammar table's break
// table marks a boundary between two consecutive POS. A KUTEN closes
// the current phrase and segmentation continues with the next
// morpheme; it never produces more than MaxPhrases phrases.
func Segment(g *Grammar, pos []uint16) []Phrase {
	if len(pos) == 0 {
		return nil
	}

	var phrases []Phrase
	start := 0
	for i := 0; i < len(pos); i++ {
		if g.IsKuten(pos[i]) {
			phrases = append(phrases, Phrase{Start: start, End: i + 1})
			start = i + 1
			if len(phrases) >= MaxPhrases || start >= len(pos) {
				return phrases
			}
			continue
		}
		if i+1 < len(pos) && g.BreaksAfter(pos[i], pos[i+1]) {
			phrases = append(phrases, Phrase{Start: start, End: i + 1})
			start = i + 1
			if len(phrases) >= MaxPhrases {
				return phrases
			}
		}
	}
	if start < len(pos) {
		phrases = append(phrases, Phrase{Start: start, End: len(pos)})
	}
	return phrases
}

// kakariHeads returns (h1, h2): the compressed POS of the
// second-to-last and last morpheme of the phrase (UNA_HIN_NOTHING if
// the phrase has only one morpheme).
func kakariHeads(g *Grammar, pos []uint16, p Phrase) (h1, h2 int) {
	h1 = g.kuHin(NothingPOS)
	if p.End-p.Start > 1 {
		h1 = g.kuHin(pos[p.End-2])
	}
	h2 = g.kuHin(pos[p.End-1])
	return h1, h2
}

// ukeHeads returns (h3, h4): the compressed POS of the first and
// second morpheme of the phrase (UNA_HIN_NOTHING if the phrase has
// only one morpheme).
func ukeHeads(g *Grammar, pos []uint16, p Phrase) (h3, h4 int) {
	h3 = g.kuHin(pos[p.Start])
	h4 = g.kuHin(NothingPOS)
	if p.End-p.Start > 1 {
		h4 = g.kuHin(pos[p.Start+1])
	}
	return h3, h4
}

// pairRelationCost computes the direct kakari/uke cost and relation
// type between phrase k (kakari side) and phrase u (uke side),
// mirroring InitPCost's per-pair body.
func pairRelationCost(g *Grammar, pos []uint16, phrases []Phrase, k, u int) (cost int, rel RelationType) {
	h1, h2 := kakariHeads(g, pos, phrases[k])
	kGrp := g.kGrp(h1, h2)
	h3, h4 := ukeHeads(g, pos, phrases[u])
	uGrp := g.uGrp(h3, h4)
	rel = g.relationOf(kGrp, uGrp)
	cost = g.pairCost(kGrp, uGrp) + g.distanceCost(rel, u-k)
	return cost, rel
}

// AssignDependencies computes the minimum-cost, non-crossing dependency
// structure over phrases and fills in each Phrase's Target and
// Relation, via the triangular DP ported from InitPCost/SearchPath/
// SetKuInfo (spec §4.5).
func AssignDependencies(g *Grammar, pos []uint16, phrases []Phrase) {
	n := len(phrases)
	if n == 0 {
		return
	}
	if n == 1 {
		phrases[0].Target = 0
		phrases[0].Relation = RelNone
		return
	}

	pCost := make([][]int, n)
	pPtrn := make([][]int, n)
	for i := range pCost {
		pCost[i] = make([]int, n)
		pPtrn[i] = make([]int, n)
	}

	for k := 0; k < n; k++ {
		for u := k + 1; u < n; u++ {
			cost, _ := pairRelationCost(g, pos, phrases, k, u)
			pCost[k][u] = cost
			pPtrn[k][u] = u - k
		}
	}

	for span := 1; span < n; span++ {
		for s := 0; s+span < n; s++ {
			e := s + span
			mCost := pCost[s][e]
			mPtrn := span
			for split := 1; split < span; split++ {
				tCost := pCost[s][s+split] + pCost[s+split][e]
				if tCost < mCost {
					mCost = tCost
					mPtrn = split
				}
			}
			pCost[s][e] = mCost
			pPtrn[s][e] = mPtrn
			if s > 0 {
				pCost[s-1][e] += mCost
			}
		}
	}

	lStack := make([]int, n+1)
	stackPos := 1
	lStack[0] = 0
	kLen := n - 1

	for k := 0; k < n-1; k++ {
		u := k + pPtrn[k][k+kLen]
		phrases[k].Target = u

		h1, h2 := kakariHeads(g, pos, phrases[k])
		kGrp := g.kGrp(h1, h2)
		h3, h4 := ukeHeads(g, pos, phrases[u])
		uGrp := g.uGrp(h3, h4)
		phrases[k].Relation = g.relationOf(kGrp, uGrp)

		if kLen-pPtrn[k][k+kLen] > 0 {
			lStack[stackPos] = kLen - pPtrn[k][k+kLen]
			stackPos++
		}

		kLen = pPtrn[k][k+kLen] - 1
		if kLen <= 0 {
			stackPos--
			kLen = lStack[stackPos]
		}
	}

	phrases[n-1].Target = n - 1
	phrases[n-1].Relation = RelNone
}
