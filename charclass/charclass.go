// Package charclass holds the character-class and code-remap tables
// shared by the dictionary trie, the unknown-word detector, the
// English-token detector and the normalizer, plus the surrogate-pair
// helpers all four of them need to stay in lockstep (spec §3, §4.3,
// §4.4, §4.6).
//
// The analyzer's input text is a borrowed slice of UTF-16 code units
// (spec §3's "Morpheme" contract: "an offset into an externally-owned
// UTF-16 slice"), not decoded runes, because the wire format of every
// resource table is keyed by 16-bit code unit and because morpheme
// length is counted in UTF-16 code units with surrogate pairs counting
// as 2 (spec §3).
package charclass

// CodeUnit is one UTF-16 code unit of analyzed text.
type CodeUnit = uint16

// Table is a 65536-entry class/remap lookup, memory-mapped verbatim
// from a resource body (spec §3's "a 65536-entry Unicode→internal-code
// table" / "a 65536-entry character-class table").
type Table []uint16

// Class returns the class (or remapped internal code) of a single code
// unit, with no surrogate-pair resolution.
func (t Table) Class(cu CodeUnit) uint16 {
	return t[cu]
}

// IsHighSurrogate reports whether cu is a UTF-16 high surrogate
// (U+D800..U+DBFF).
func IsHighSurrogate(cu CodeUnit) bool { return cu >= 0xD800 && cu <= 0xDBFF }

// IsLowSurrogate reports whether cu is a UTF-16 low surrogate
// (U+DC00..U+DFFF).
func IsLowSurrogate(cu CodeUnit) bool { return cu >= 0xDC00 && cu <= 0xDFFF }

// DecodePair combines a high/low surrogate pair into the full code
// point, for callers that need the actual character (e.g. to look up a
// supplementary-plane ideograph).
func DecodePair(hi, lo CodeUnit) rune {
	return (rune(hi)-0xD800)<<10 + (rune(lo) - 0xDC00) + 0x10000
}

// RuneLen returns the lattice character length contributed by the code
// unit at position i in buf: 2 if it begins a surrogate pair, else 1.
// Matches spec §3: "surrogate pairs count as 2 for length bookkeeping".
func RuneLen(buf []CodeUnit, i int) int {
	if i < len(buf) && IsHighSurrogate(buf[i]) && i+1 < len(buf) && IsLowSurrogate(buf[i+1]) {
		return 2
	}
	return 1
}
