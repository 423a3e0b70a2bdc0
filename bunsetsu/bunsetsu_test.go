package bunsetsu

// newTestGrammar builds a small grammar table by hand for unit tests,
// without going through Load. POS numbers double as their own
// compressed POS (identity kuHin) to keep the fixtures readable.
func newTestGrammar(kutenPOS uint16, compPOSMax int) *Grammar {
	g := &Grammar{
		morphPOSMax: compPOSMax,
		compPOSMax:  compPOSMax,
		kGrpMax:     compPOSMax,
		uGrpMax:     compPOSMax,
		maxDistance: 16,
		kutenPOS:    kutenPOS,
	}
	g.compressedPOS = make([]int16, compPOSMax)
	for i := range g.compressedPOS {
		g.compressedPOS[i] = int16(i)
	}
	g.kTbl = make([]uint8, compPOSMax*compPOSMax)
	g.uTbl = make([]uint8, compPOSMax*compPOSMax)
	for h1 := 0; h1 < compPOSMax; h1++ {
		for h2 := 0; h2 < compPOSMax; h2++ {
			g.kTbl[h1*compPOSMax+h2] = uint8(h1) // kGrp == h1
			g.uTbl[h1*compPOSMax+h2] = uint8(h2) // uGrp == h2 (of the uke-side pair)
		}
	}
	g.kuMap = make([]uint8, compPOSMax*compPOSMax)
	for kGrp := 0; kGrp < compPOSMax; kGrp++ {
		for uGrp := 0; uGrp < compPOSMax; uGrp++ {
			g.kuMap[kGrp*compPOSMax+uGrp] = uint8(RelContinuousWeak)
		}
	}
	g.kuCost = make([]uint8, compPOSMax*compPOSMax)
	for i := range g.kuCost {
		g.kuCost[i] = 10
	}
	g.lnCost = make([]uint8, int(relCount)*16)
	for i := range g.lnCost {
		g.lnCost[i] = 5
	}
	return g
}

func setBreak(g *Grammar, h1, h2 int) {
	g.kTbl[h1*g.compPOSMax+h2] |= breakBit
}
