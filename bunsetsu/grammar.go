// Package bunsetsu implements phrase (bunsetsu) segmentation and the
// triangular minimum-cost dependency DP over the resulting phrases
// (spec §4.5). Both stages are invoked only when a grammar table is
// loaded.
package bunsetsu

import (
	"github.com/rs/zerolog"

	"github.com/unalang/una/resource"
)

// MaxPhrases is UNA_LOCAL_BNS_SIZE, the hard cap on phrases accumulated
// before a bunsetsu is forcibly closed.
const MaxPhrases = 128

// CostOfCantRelate is COST_OF_CANT_REL, the cost substituted whenever
// either half of a pair cost carries the cantRelateSentinel.
const CostOfCantRelate = 256 * 16

const cantRelateSentinel = 0xFF

// breakBit marks a kTbl cell as a forced bunsetsu boundary (IsBsEnd).
const breakBit = 0x80

// kGrpMask extracts the kakari-attribute number from a kTbl cell
// (KuCode).
const kGrpMask = 0x7F

// NothingPOS is the morph-POS sentinel meaning "no morpheme here"
// (used at the edges of a bunsetsu where the neighboring word does not
// exist), matching UNA_HIN_NOTHING.
const NothingPOS uint16 = 0

// RelationType enumerates the 12 dependency-relation categories.
type RelationType int

const (
	RelNone RelationType = iota
	RelCompound
	RelParallelStrong
	RelParallelWeak
	RelContinuousStrong
	RelContinuousWeak
	RelAttributiveStrong
	RelAttributiveWeak
	RelConnectiveStrong
	RelConnectiveWeak
	RelBracket
	RelIsolated
	relCount
)

// Grammar is the immutable, shared `GRM V1.11-` resource.
type Grammar struct {
	morphPOSMax int
	compPOSMax  int
	kGrpMax     int
	uGrpMax     int
	maxDistance int
	kutenPOS    uint16

	compressedPOS []int16 // kuHin: morph-POS -> compressed POS
	kTbl          []uint8 // [compPOSMax*compPOSMax]: bit7 break, low7 kGrp
	uTbl          []uint8 // [compPOSMax*compPOSMax]: low7 uGrp
	kuMap         []uint8 // [kGrpMax*uGrpMax]: RelationType
	kuCost        []uint8 // [kGrpMax*uGrpMax]
	lnCost        []uint8 // [relCount*maxDistance]
}

// Load parses a `GRM V1.11-` resource, mirroring unaBns_init's header
// walk (morph-POS max, compressed-POS max, kakari/uke-attribute maxes,
// max distance, then the six tables in header order).
//
// Wire layout (little-endian, after the header):
//
//	u32 morphPOSMax, compPOSMax, kGrpMax, uGrpMax, maxDistance
//	u16 kutenPOS
//	i16 compressedPOS[morphPOSMax]
//	u8  kTbl[compPOSMax*compPOSMax]
//	u8  uTbl[compPOSMax*compPOSMax]
//	u8  kuMap[kGrpMax*uGrpMax]
//	u8  kuCost[kGrpMax*uGrpMax]
//	u8  lnCost[12*maxDistance]
func Load(img *resource.Image, log zerolog.Logger) (*Grammar, error) {
	r := resource.NewReader("grammar", img.Body)

	morphPOSMax, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	compPOSMax, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	kGrpMax, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	uGrpMax, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	maxDistance, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	kutenPOS, err := r.Uint16()
	if err != nil {
		return nil, err
	}

	g := &Grammar{
		morphPOSMax: int(morphPOSMax),
		compPOSMax:  int(compPOSMax),
		kGrpMax:     int(kGrpMax),
		uGrpMax:     int(uGrpMax),
		maxDistance: int(maxDistance),
		kutenPOS:    kutenPOS,
	}

	compPOS, err := r.Bytes(int64(morphPOSMax) * 2)
	if err != nil {
		return nil, err
	}
	g.compressedPOS = make([]int16, morphPOSMax)
	for i := range g.compressedPOS {
		g.compressedPOS[i] = int16(compPOS[i*2]) | int16(compPOS[i*2+1])<<8
	}

	g.kTbl, err = r.Bytes(int64(compPOSMax) * int64(compPOSMax))
	if err != nil {
		return nil, err
	}
	g.uTbl, err = r.Bytes(int64(compPOSMax) * int64(compPOSMax))
	if err != nil {
		return nil, err
	}
	g.kuMap, err = r.Bytes(int64(kGrpMax) * int64(uGrpMax))
	if err != nil {
		return nil, err
	}
	g.kuCost, err = r.Bytes(int64(kGrpMax) * int64(uGrpMax))
	if err != nil {
		return nil, err
	}
	g.lnCost, err = r.Bytes(int64(relCount) * int64(maxDistance))
	if err != nil {
		return nil, err
	}

	log.Debug().Uint32("compPOSMax", compPOSMax).Msg("loaded grammar table")
	return g, nil
}

// IsKuten reports whether pos is the period/kuten POS that forces a
// bunsetsu break regardless of the grammar table (supplemented from
// unabns.cpp's hard override in unaBns_gen).
func (g *Grammar) IsKuten(pos uint16) bool { return pos == g.kutenPOS }

// kuHin returns the compressed POS for a morpheme POS (KuHin), or -1 if
// pos is out of range.
func (g *Grammar) kuHin(pos uint16) int {
	if int(pos) >= g.morphPOSMax {
		return -1
	}
	return int(g.compressedPOS[pos])
}

// kTblCell and uTblCell index the [compPOSMax][compPOSMax] byte tables.
func (g *Grammar) kTblCell(h1, h2 int) uint8 {
	if h1 < 0 || h2 < 0 || h1 >= g.compPOSMax || h2 >= g.compPOSMax {
		return 0
	}
	return g.kTbl[h1*g.compPOSMax+h2]
}

func (g *Grammar) uTblCell(h3, h4 int) uint8 {
	if h3 < 0 || h4 < 0 || h3 >= g.compPOSMax || h4 >= g.compPOSMax {
		return 0
	}
	return g.uTbl[h3*g.compPOSMax+h4]
}

// BreaksAfter reports whether the boundary between two consecutive
// morphemes (by raw POS) is a forced bunsetsu break (IsBsEnd), mirroring
// unaBns_gen's per-morpheme scan.
func (g *Grammar) BreaksAfter(posA, posB uint16) bool {
	if g.IsKuten(posA) {
		return true
	}
	h1, h2 := g.kuHin(posA), g.kuHin(posB)
	return g.kTblCell(h1, h2)&breakBit != 0
}

func (g *Grammar) kGrp(h1, h2 int) int { return int(g.kTblCell(h1, h2) & kGrpMask) }
func (g *Grammar) uGrp(h3, h4 int) int { return int(g.uTblCell(h3, h4) & kGrpMask) }

// pairCost returns kuCost[kGrp][uGrp], expanding cantRelateSentinel to
// CostOfCantRelate (InitPCost's kc computation).
func (g *Grammar) pairCost(kGrp, uGrp int) int {
	if kGrp < 0 || uGrp < 0 || kGrp >= g.kGrpMax || uGrp >= g.uGrpMax {
		return CostOfCantRelate
	}
	v := g.kuCost[kGrp*g.uGrpMax+uGrp]
	if v == cantRelateSentinel {
		return CostOfCantRelate
	}
	return int(v)
}

// relationOf returns kuMap[kGrp][uGrp], the dependency-relation type
// assigned to a kakari/uke attribute pair.
func (g *Grammar) relationOf(kGrp, uGrp int) RelationType {
	if kGrp < 0 || uGrp < 0 || kGrp >= g.kGrpMax || uGrp >= g.uGrpMax {
		return RelNone
	}
	return RelationType(g.kuMap[kGrp*g.uGrpMax+uGrp])
}

// distanceCost returns lnCost[relType][distance], expanding
// cantRelateSentinel to CostOfCantRelate (InitPCost's lc computation).
func (g *Grammar) distanceCost(relType RelationType, distance int) int {
	if int(relType) >= int(relCount) || distance < 0 || distance >= g.maxDistance {
		return CostOfCantRelate
	}
	v := g.lnCost[int(relType)*g.maxDistance+distance]
	if v == cantRelateSentinel {
		return CostOfCantRelate
	}
	return int(v)
}
