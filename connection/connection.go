// Package connection implements the connection-cost table resource
// (spec §3 "Connection table", §6 `CON V1.16-` resource): the
// kakari/uke compressed POS indices, the 2-D connect-cost matrix, the
// morpheme-POS -> UNA-POS mapping used for the multi-dictionary
// priority rule's "coarse POS group", and the POS-name string pool.
package connection

import (
	"github.com/rs/zerolog"

	"github.com/unalang/una/resource"
	"github.com/unalang/una/unaerr"
)

// CantConnect is the expanded "cannot connect" value; the wire table
// stores 255 and callers expand it (spec §3).
const CantConnect = 65535

// Table is one handle-shared, immutable connection-cost resource.
type Table struct {
	// kakari/uke compress a morpheme-POS number into a connect-table
	// index; 0..kakariMax-1 / 0..ukeMax-1.
	kakari []uint16
	uke    []uint16

	// cost[kakariCode*ukeMax + ukeCode], 255 meaning "cannot connect".
	cost []uint8
	ukeMax int

	// unaHin maps a morpheme-POS number to its coarse UNA-POS number.
	// unaHin[0] is a dummy entry (spec's "[0] is a dummy").
	unaHin []uint16

	// POS-name pool: posNamePos[pos] indexes into posNamePool, a flat
	// UTF-16 string pool, matching the original source's
	// hinNamePos/hinNamePool split (one array of offsets, one character
	// pool) so that names are never copied out of the mapped resource.
	posNamePos  []int32
	posNamePool []uint16

	// SentenceEndPOS is the morpheme-POS number assigned to the virtual
	// sentence-end terminator (spec §3's "+1 is reserved for a virtual
	// sentence-end terminator forced on overflow").
	SentenceEndPOS uint16
}

// Load parses a CON resource body already validated by resource.Open.
//
// Wire layout (little-endian, after the 64-byte header):
//
//	u32 posMax
//	u32 kakariMax, u32 ukeMax
//	u16 kakari[posMax]
//	u16 uke[posMax]
//	u8  cost[kakariMax*ukeMax]
//	u16 unaHin[posMax]
//	u16 sentenceEndPOS
//	i32 posNamePos[posMax]
//	u32 poolLen
//	u16 pool[poolLen]
//
// This module owns both ends of this format (no external builder ships
// with the kernel per spec §1), so the exact field order is fixed here
// and documented rather than reverse-engineered.
func Load(img *resource.Image, log zerolog.Logger) (*Table, error) {
	r := resource.NewReader("connection", img.Body)

	posMax, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	kakariMax, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	ukeMax, err := r.Uint32()
	if err != nil {
		return nil, err
	}

	kakari, err := r.Uint16Array(int64(posMax))
	if err != nil {
		return nil, err
	}
	uke, err := r.Uint16Array(int64(posMax))
	if err != nil {
		return nil, err
	}
	costBytes, err := r.Bytes(int64(kakariMax) * int64(ukeMax))
	if err != nil {
		return nil, err
	}
	unaHin, err := r.Uint16Array(int64(posMax))
	if err != nil {
		return nil, err
	}
	sentenceEnd, err := r.Uint16()
	if err != nil {
		return nil, err
	}

	posNamePos := make([]int32, posMax)
	for i := range posNamePos {
		v, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		posNamePos[i] = int32(v)
	}
	poolLen, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	pool, err := r.Uint16Array(int64(poolLen))
	if err != nil {
		return nil, err
	}

	log.Debug().Uint32("posMax", posMax).Uint32("kakariMax", kakariMax).Uint32("ukeMax", ukeMax).Msg("loaded connection table")

	return &Table{
		kakari:         kakari,
		uke:            uke,
		cost:           costBytes,
		ukeMax:         int(ukeMax),
		unaHin:         unaHin,
		posNamePos:     posNamePos,
		posNamePool:    pool,
		SentenceEndPOS: sentenceEnd,
	}, nil
}

// Cost returns the connect cost from predPOS to selfPOS, expanding the
// wire sentinel 255 to CantConnect.
func (t *Table) Cost(predPOS, selfPOS uint16) uint32 {
	if int(predPOS) >= len(t.kakari) || int(selfPOS) >= len(t.uke) {
		return CantConnect
	}
	k := t.kakari[predPOS]
	u := t.uke[selfPOS]
	idx := int(k)*t.ukeMax + int(u)
	if idx < 0 || idx >= len(t.cost) {
		return CantConnect
	}
	c := t.cost[idx]
	if c == 255 {
		return CantConnect
	}
	return uint32(c)
}

// UnaPOS maps a morpheme-POS number to its coarse UNA-POS number,
// returning unaerr.POSError if pos is out of range (spec §7's
// InvalidPOS).
func (t *Table) UnaPOS(pos uint16) (uint16, error) {
	if int(pos) >= len(t.unaHin) {
		return 0, &unaerr.POSError{POS: pos}
	}
	return t.unaHin[pos], nil
}

// POSName returns the display name of a morpheme-POS number, applying
// the FF5E/FF0D<->301C/2212 codepoint rewrite noted in spec §9 (the
// offline builders sorted names by raw Unicode ordinal; the runtime
// loads them verbatim and must normalize these four codepoints at
// lookup time to stay compatible).
func (t *Table) POSName(pos uint16) string {
	if int(pos) >= len(t.posNamePos) {
		return ""
	}
	start := t.posNamePos[pos]
	if start < 0 {
		return ""
	}
	end := int(start)
	for end < len(t.posNamePool) && t.posNamePool[end] != 0 {
		end++
	}
	units := make([]uint16, end-int(start))
	copy(units, t.posNamePool[start:end])
	for i, u := range units {
		units[i] = normalizePOSNameCodepoint(u)
	}
	return string(utf16Decode(units))
}

// normalizePOSNameCodepoint applies the builder/runtime ordinal
// mismatch fix-up called out in spec §9's Open Questions.
func normalizePOSNameCodepoint(u uint16) uint16 {
	switch u {
	case 0xFF5E:
		return 0x301C
	case 0xFF0D:
		return 0x2212
	case 0x301C:
		return 0xFF5E
	case 0x2212:
		return 0xFF0D
	default:
		return u
	}
}

func utf16Decode(units []uint16) []rune {
	runes := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		if u >= 0xD800 && u <= 0xDBFF && i+1 < len(units) {
			lo := units[i+1]
			if lo >= 0xDC00 && lo <= 0xDFFF {
				runes = append(runes, (rune(u)-0xD800)<<10+(rune(lo)-0xDC00)+0x10000)
				i++
				continue
			}
		}
		runes = append(runes, rune(u))
	}
	return runes
}
