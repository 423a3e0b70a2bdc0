package morpho

import (
	"github.com/unalang/una/charclass"
	"github.com/unalang/una/english"
	"github.com/unalang/una/lattice"
)

// SubMorphemes expands a Morpheme's sub-structure (spec §6's
// sub_morphemes): a registered dictionary's collocation/compound
// sub-word list (§4.2), or an English hyphen-continuation token's
// alphabet/hyphen/space/break decomposition (§4.4). Morphemes with no
// sub-structure (SubI == 0xFFFFFF) return nil, nil.
func (h *Handle) SubMorphemes(m Morpheme, text []charclass.CodeUnit) ([]Morpheme, error) {
	dicIndex := m.dicIndexOf()

	switch {
	case dicIndex < len(h.dicts):
		subs, err := h.dicts[dicIndex].SubMorphemes(m.SubI)
		if err != nil {
			return nil, err
		}
		return h.subMorphemesFromChain(m, subs), nil

	case dicIndex == len(h.dicts):
		if m.SubI == 0xFFFFFF {
			return nil, nil
		}
		subs := english.SubMorphemes(text, m.Start, m.Length)
		return h.subMorphemesFromChain(m, subs), nil

	default:
		// The unknown-word detector never registers sub-structure.
		return nil, nil
	}
}

// subMorphemesFromChain renders a sub-morpheme chain (spec-relative
// lengths only) into absolute-offset public Morphemes, inheriting the
// parent's dictionary index so a caller can recurse if a sub-morpheme
// itself carries further sub-structure.
func (h *Handle) subMorphemesFromChain(parent Morpheme, subs []lattice.SubMorpheme) []Morpheme {
	if len(subs) == 0 {
		return nil
	}
	out := make([]Morpheme, 0, len(subs))
	pos := parent.Start
	dicIndex := parent.dicIndexOf()
	for _, s := range subs {
		out = append(out, Morpheme{
			Start:  pos,
			Length: s.Length,
			POS:    s.POS,
			UnaPOS: s.UnaPOS,
			AppI:   uint32(dicIndex)<<24 | (s.AppI & 0xFFFFFF),
			SubI:   s.SubI,
			Cost:   s.Cost,
		})
		pos += s.Length
	}
	return out
}

// ApplicationInfo returns the application-specific byte payload
// recorded for m (spec §6's application_info). Only morphemes sourced
// from a registered dictionary that was loaded with a companion
// app-info resource carry one; everything else returns nil.
func (h *Handle) ApplicationInfo(m Morpheme) []byte {
	dicIndex := m.dicIndexOf()
	if dicIndex < 0 || dicIndex >= len(h.appInfo) {
		return nil
	}
	info := h.appInfo[dicIndex]
	if info == nil {
		return nil
	}
	return info.Payload(m.recordIDOf())
}
