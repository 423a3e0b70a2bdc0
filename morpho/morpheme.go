package morpho

import (
	"github.com/unalang/una/bunsetsu"
	"github.com/unalang/una/charclass"
)

// Morpheme is the tuple spec §3 names: (start, length, pos, appI, subI,
// cost), plus the coarse UNA-POS used by the multi-dictionary priority
// rule. Start/Length are character offsets/counts into the text buffer
// the producing analyze call was given (when normalization ran, into
// the normalized text the call worked on); the morpheme borrows that text
// and never copies it (spec §9's "Pointer graphs" note), so callers
// must keep the original slice alive for as long as they hold onto a
// Morpheme.
type Morpheme struct {
	Start  int
	Length int
	POS    uint16
	UnaPOS uint16
	AppI   uint32
	SubI   uint32
	Cost   uint16
}

// dicIndexOf/recordIDOf unpack AppI's (dictionary_index<<24 |
// record_id_24bit) layout (spec §3).
func (m Morpheme) dicIndexOf() int    { return int(m.AppI >> 24) }
func (m Morpheme) recordIDOf() uint32 { return m.AppI & 0xFFFFFF }

// MatchMode classifies which kind of source produced a Morpheme, the
// narrow "match mode" field of the token contract spec §1 retains from
// the original Data/LanguageData/WordData framework.
type MatchMode uint8

const (
	MatchRegistered MatchMode = iota
	MatchEnglish
	MatchUnknown
)

// Token is the narrow contract spec §1 keeps from the original
// Data/LanguageData/WordData object framework: "a token carries a term
// string, a language tag, a match mode, a category, a score and a
// document-frequency". DocFrequency is always zero from this kernel; it
// exists only so downstream indexing code has a stable field to fill in
// from its own corpus statistics.
type Token struct {
	Term         string
	Language     string
	Mode         MatchMode
	Category     uint16 // coarse POS group (UnaPOS >> 12)
	Score        int    // morpheme cost, lower is better
	DocFrequency uint32
}

// Token renders a Morpheme against the text it was produced from into
// the narrow token contract.
func (h *Handle) Token(m Morpheme, text []charclass.CodeUnit) Token {
	lang := "ja"
	mode := MatchRegistered
	switch {
	case m.dicIndexOf() == len(h.dicts):
		mode = MatchEnglish
		lang = "en"
	case m.dicIndexOf() == len(h.dicts)+1:
		mode = MatchUnknown
	}

	end := m.Start + m.Length
	if end > len(text) {
		end = len(text)
	}
	var term string
	if m.Start >= 0 && m.Start <= end {
		term = string(utf16ToRunes(text[m.Start:end]))
	}

	return Token{
		Term:         term,
		Language:     lang,
		Mode:         mode,
		Category:     m.UnaPOS >> 12,
		Score:        int(m.Cost),
		DocFrequency: 0,
	}
}

func utf16ToRunes(cus []charclass.CodeUnit) []rune {
	out := make([]rune, 0, len(cus))
	for i := 0; i < len(cus); i++ {
		if charclass.IsHighSurrogate(cus[i]) && i+1 < len(cus) && charclass.IsLowSurrogate(cus[i+1]) {
			out = append(out, charclass.DecodePair(cus[i], cus[i+1]))
			i++
			continue
		}
		out = append(out, rune(cus[i]))
	}
	return out
}

// Phrase is one bunsetsu: spec §4.5's morpheme-index span plus its
// resolved dependency target and relation type, reusing bunsetsu's
// already-public result type verbatim.
type Phrase = bunsetsu.Phrase
