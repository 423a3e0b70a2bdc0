package dict

import (
	"fmt"

	"github.com/unalang/una/charclass"
	"github.com/unalang/una/lattice"
)

// Candidate is one matched dictionary entry at a given start position,
// version-independent (spec §4.2).
type Candidate struct {
	Length      int
	POS         uint16
	Cost        uint16
	AppI        uint32
	SubI        uint32
	Collocation bool
}

// SearchOptions configures one Search call (spec §6 analyze options).
type SearchOptions struct {
	// IgnoreLineBreak allows one CR/LF run in the middle of a word to be
	// skipped during traversal (spec §4.2's "ignore-CR mode").
	IgnoreLineBreak bool
	// MaxWordLength bounds the traversal length; 0 means
	// lattice.MaxWordLen.
	MaxWordLength int
}

// Search enumerates every registered morpheme whose surface string is a
// prefix of text[pos:], emitting one Candidate per homograph at every
// accepting prefix (spec §4.2's traversal contract).
//
// DicIndex (for the caller's AppI packing) is not embedded here: AppI in
// each returned Candidate already has the low 24 bits set to the record
// id; callers OR in (dicIndex<<24).
func (d *Dictionary) Search(text []charclass.CodeUnit, pos int, opts SearchOptions) ([]Candidate, error) {
	maxLen := opts.MaxWordLength
	if maxLen <= 0 || maxLen > lattice.MaxWordLen {
		maxLen = lattice.MaxWordLen
	}

	var out []Candidate
	var state uint32
	length := 0
	usedLineBreakSkip := false
	i := pos

	for i < len(text) && length < maxLen {
		cu := text[i]

		// Ignore-CR mode: try to skip exactly one CR/LF run mid-word.
		if (cu == '\r' || cu == '\n') && opts.IgnoreLineBreak && !usedLineBreakSkip && length > 0 {
			skip := 0
			j := i
			if j < len(text) && text[j] == '\r' {
				skip++
				j++
			}
			if j < len(text) && text[j] == '\n' {
				skip++
				j++
			}
			usedLineBreakSkip = true
			i = j
			length += skip
			continue
		}

		internal := d.remap.Class(cu)
		idx := state + uint32(internal)
		nb, nl, ok := d.stateBaseLabel(idx)
		if !ok || nl != internal {
			break
		}
		state = nb
		length++
		i++

		if b, l, ok := d.stateBaseLabel(state); ok && l == EOK {
			recID := b
			if err := d.appendHomographs(recID, length, &out); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

func (d *Dictionary) appendHomographs(recID uint32, length int, out *[]Candidate) error {
	if int(recID) >= len(d.records) {
		return fmt.Errorf("una/dict: %s: record id %d out of range", d.name, recID)
	}
	first := d.records[recID]
	count := int(first.HomographCount)
	if count == 0 {
		count = 1
	}
	for h := 0; h < count; h++ {
		idx := recID + uint32(h)
		if int(idx) >= len(d.records) {
			break
		}
		rec := d.records[idx]
		isColl := rec.POS == d.collSent
		if isColl && first.HomographCount != 0 {
			return fmt.Errorf("una/dict: %s: collocation record %d has homographs", d.name, idx)
		}
		pos := rec.POS
		if pos == VoidMorphPOS {
			pos = lattice.VoidPOS
		}
		*out = append(*out, Candidate{
			Length:      length,
			POS:         pos,
			Cost:        uint16(rec.Cost),
			AppI:        idx,
			SubI:        rec.SubListOffset,
			Collocation: isColl,
		})
	}
	return nil
}

// SubMorphemes expands a collocation's or compound word's sub-structure
// list starting at subI into a chain (spec §4.2's expand_sub). The
// sub-list pool stores one u32 per sub-morpheme word:
// (length:u8 | pos:u16 << 8 | cost:u8 << 24) packed low to high, and a
// terminal entry with length==0. This module owns the sub-list format
// end to end (the builder is out of scope, per spec §1), so the packing
// is fixed here.
func (d *Dictionary) SubMorphemes(subI uint32) ([]lattice.SubMorpheme, error) {
	if subI == 0xFFFFFF {
		return nil, nil
	}
	var out []lattice.SubMorpheme
	for off := subI; int(off) < len(d.subList); off++ {
		cell := d.subList[off]
		length := uint8(cell)
		if length == 0 {
			break
		}
		pos := uint16(cell >> 8)
		cost := uint8(cell >> 24)
		if pos == VoidMorphPOS {
			pos = lattice.VoidPOS
		}
		out = append(out, lattice.SubMorpheme{
			Length: int(length),
			POS:    pos,
			Cost:   uint16(cost),
			AppI:   off,
			SubI:   0xFFFFFF,
		})
	}
	return out, nil
}
