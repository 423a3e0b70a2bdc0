package english

import (
	"github.com/unalang/una/charclass"
	"github.com/unalang/una/lattice"
)

// Candidate is one matched English token (spec §4.4).
type Candidate struct {
	Length  int
	Type    RegistrationType
	Cost    uint16
	StartAt int // index in text this candidate started from
}

// Scan runs the FSM forward from text[pos:], returning one Candidate
// per accepting transition reached (spec §4.4's per-call algorithm: the
// next-state/registration/termination tables are consulted together at
// every character).
func (t *Table) Scan(text []charclass.CodeUnit, pos int) []Candidate {
	if pos >= len(text) {
		return nil
	}

	var out []Candidate
	state := uint8(outsideState)
	for i := pos; i < len(text); i++ {
		class := t.Class(text[i])
		reg := t.regType[state][class]
		if reg != RegNone {
			out = append(out, Candidate{
				Length:  i - pos + 1,
				Type:    reg,
				Cost:    t.Cost(reg),
				StartAt: pos,
			})
		}
		if t.terminal[state][class] {
			break
		}
		state = t.next[state][class]
	}
	return out
}

// PhonologicalCheck validates a candidate hyphen-continuation token by
// walking text[pos:pos+length], counting the whitespace run between the
// pre-hyphen and post-hyphen alphabetic segments (spec §4.4's
// "phonological check").
//
// It returns the number of whitespace groups found (0, 1 or 2: an
// optional run immediately after the hyphen and an optional run
// immediately after the line break), which becomes subI = 4 + groups.
func PhonologicalCheck(text []charclass.CodeUnit, pos, length int) (groups int, ok bool) {
	end := pos + length
	if end > len(text) {
		return 0, false
	}
	i := pos
	sawAlphaBefore := false
	for i < end && isAlpha(text[i]) {
		sawAlphaBefore = true
		i++
	}
	if !sawAlphaBefore || i >= end || text[i] != '-' {
		return 0, false
	}
	i++ // consume hyphen

	if i < end && isSpace(text[i]) {
		groups++
		for i < end && isSpace(text[i]) {
			i++
		}
	}

	if i >= end || !isLineBreak(text[i]) {
		return 0, false
	}
	for i < end && isLineBreak(text[i]) {
		i++
	}

	if i < end && isSpace(text[i]) {
		groups++
		for i < end && isSpace(text[i]) {
			i++
		}
	}

	sawAlphaAfter := false
	for i < end && isAlpha(text[i]) {
		sawAlphaAfter = true
		i++
	}
	if !sawAlphaAfter || i != end {
		return 0, false
	}
	return groups, true
}

// subKindPreAlpha through subKindPostAlpha pack a sub-morpheme's
// kind into the low bits of its appI value (spec §4.4's "Sub-morpheme
// retrieval for hyphen-continuation").
const (
	subKindPreAlpha  = 0
	subKindHyphen    = 1
	subKindSpace     = 2
	subKindBreak     = 3
	subKindPostAlpha = 4
)

// SubMorphemes rewalks a hyphen-continuation candidate's characters,
// classifying each run as alphabet/hyphen/space/line break (a CR/LF
// sequence forms a single break run), and emits the
// 4-6 sub-morphemes the spec describes (pre-segment, hyphen, optional
// pre-break whitespace, break, optional post-break whitespace,
// post-segment).
func SubMorphemes(text []charclass.CodeUnit, pos, length int) []lattice.SubMorpheme {
	end := pos + length
	if end > len(text) {
		end = len(text)
	}
	var out []lattice.SubMorpheme
	i := pos

	start := i
	for i < end && isAlpha(text[i]) {
		i++
	}
	if i > start {
		out = append(out, sub(start, i, subKindPreAlpha))
	}

	if i < end && text[i] == '-' {
		out = append(out, sub(i, i+1, subKindHyphen))
		i++
	}

	if i < end && isSpace(text[i]) {
		start = i
		for i < end && isSpace(text[i]) {
			i++
		}
		out = append(out, sub(start, i, subKindSpace))
	}

	if i < end && isLineBreak(text[i]) {
		start = i
		for i < end && isLineBreak(text[i]) {
			i++
		}
		out = append(out, sub(start, i, subKindBreak))
	}

	if i < end && isSpace(text[i]) {
		start = i
		for i < end && isSpace(text[i]) {
			i++
		}
		out = append(out, sub(start, i, subKindSpace))
	}

	start = i
	for i < end && isAlpha(text[i]) {
		i++
	}
	if i > start {
		out = append(out, sub(start, i, subKindPostAlpha))
	}

	return out
}

func sub(from, to, kind int) lattice.SubMorpheme {
	return lattice.SubMorpheme{
		Length: to - from,
		POS:    0,
		Cost:   0,
		AppI:   uint32(from<<8 | kind),
		SubI:   0xFFFFFF,
	}
}

func isAlpha(cu charclass.CodeUnit) bool {
	return (cu >= 'A' && cu <= 'Z') || (cu >= 'a' && cu <= 'z')
}

func isSpace(cu charclass.CodeUnit) bool {
	return cu == ' ' || cu == '\t'
}

func isLineBreak(cu charclass.CodeUnit) bool {
	return cu == '\r' || cu == '\n'
}
