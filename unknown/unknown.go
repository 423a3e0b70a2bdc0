// Package unknown implements the unknown-word detector (spec §4.3): a
// left-to-right character-class scan over a 43x43 registration/
// termination matrix pair, producing unknown-morpheme candidates when no
// (or not enough) registered words cover a position.
package unknown

import (
	"github.com/rs/zerolog"

	"github.com/unalang/una/charclass"
	"github.com/unalang/una/resource"
)

// Class-table sentinels (spec §4.3/§3). 0 and 1 are reserved for the
// kanji odd/even flip-flop the original table uses to distinguish
// character parity; 2..42 are opaque concrete classes loaded from the
// resource; 95..97 mark surrogate halves; 98 is the "variable" class
// whose effective class depends on neighboring context.
const (
	ClassKanjiEven uint16 = 0
	ClassKanjiOdd  uint16 = 1

	ClassSurrogateA    uint16 = 95
	ClassSurrogateB    uint16 = 96
	ClassSurrogateSign uint16 = 97
	ClassVariable      uint16 = 98

	// ClassSign is the class variable characters other than the
	// iteration mark resolve to at the start of a morpheme (spec §4.3
	// point 1).
	ClassSign uint16 = 6
	// ClassDounojiten is the class the iteration mark resolves to
	// instead of ClassSign (spec §4.3 point 1).
	ClassDounojiten uint16 = 10
)

// HyokiLimit is UNA_UNK_HYOKI_LIMIT, the length-weight ceiling that
// forces the scan to stop (spec §4.3 point 6).
const HyokiLimit = 32

// PutCost mirrors lattice.PutCost; duplicated as a plain constant here
// to avoid an import cycle (lattice does not depend on unknown).
const PutCost = 25

// UnknownType enumerates the 13 categories of spec §4.3 point 4.
type UnknownType int

const (
	TypeKanjiRun UnknownType = iota
	TypeKanjiHiraganaRun
	TypeHiraganaRun
	TypeNumeric
	TypeKanjiNumeric
	TypeKatakana
	TypeSmallKatakanaInitial
	TypeSign
	TypeDounojitenKanji
	TypeDounojitenHiragana
	TypeSingleAlphabet
	TypeUppercaseInitial
	TypeLowercaseInitial
	typeCount
)

// Table is the immutable, shared unknown-word resource bundle: the
// `UMK V1.01-` character-class table plus the `UC V1.02-` cost table.
type Table struct {
	classTable charclass.Table // 65536-entry UMK table
	regMatrix  [43][43]bool
	termMatrix [43][43]bool
	cost       [typeCount][]uint16 // cost[type][length-1]
	pos        [typeCount]uint16
	punctPOS   uint16
}

// Load parses the UMK (character classes + matrices) and UC (costs)
// resources together, since spec §6 treats them as a matched pair.
//
// UMK wire layout (little-endian, after the header):
//
//	u16 classTable[65536]
//	u8  regMatrix[43*43]   (0/1)
//	u8  termMatrix[43*43]  (0/1)
//
// UC wire layout:
//
//	u16 pos[13]
//	u16 punctPOS
//	u32 maxLen
//	u16 cost[13][maxLen]
func Load(umk, uc *resource.Image, log zerolog.Logger) (*Table, error) {
	t := &Table{}

	r := resource.NewReader("unknown-class", umk.Body)
	classes, err := r.Uint16Array(65536)
	if err != nil {
		return nil, err
	}
	t.classTable = charclass.Table(classes)

	regBytes, err := r.Bytes(43 * 43)
	if err != nil {
		return nil, err
	}
	termBytes, err := r.Bytes(43 * 43)
	if err != nil {
		return nil, err
	}
	for i := 0; i < 43; i++ {
		for j := 0; j < 43; j++ {
			t.regMatrix[i][j] = regBytes[i*43+j] != 0
			t.termMatrix[i][j] = termBytes[i*43+j] != 0
		}
	}

	cr := resource.NewReader("unknown-cost", uc.Body)
	for i := 0; i < int(typeCount); i++ {
		v, err := cr.Uint16()
		if err != nil {
			return nil, err
		}
		t.pos[i] = v
	}
	punct, err := cr.Uint16()
	if err != nil {
		return nil, err
	}
	t.punctPOS = punct
	maxLen, err := cr.Uint32()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(typeCount); i++ {
		costs, err := cr.Uint16Array(int64(maxLen))
		if err != nil {
			return nil, err
		}
		t.cost[i] = costs
	}

	log.Debug().Msg("loaded unknown-word tables")
	return t, nil
}

// Candidate is one unknown-word match (spec §4.3).
type Candidate struct {
	Length int
	POS    uint16
	Cost   uint16
}

// ScanOptions configures one Scan call (spec §4.3 / §6).
type ScanOptions struct {
	NonJapanese bool // force CJK/kana to SIGN, one character per morpheme
	EmulateBug  bool // legacy max-length/kanji-comparison quirks
	MaxWordLen  int  // mwLen, used only in EmulateBug mode
	// MorphCheck reports whether a registered morpheme of the given
	// character length has already been emitted at this start position
	// (lattice.Lattice.MorphCheck), for same-length suppression.
	MorphCheck func(length int) bool
}

// Scan produces unknown-morpheme candidates starting at text[pos:]
// (spec §4.3's per-call algorithm).
func (t *Table) Scan(text []charclass.CodeUnit, pos int, opts ScanOptions) []Candidate {
	if pos >= len(text) {
		return nil
	}

	startChar := text[pos]
	startClass, startLen := t.resolveStart(text, pos, opts.NonJapanese)
	if startClass == ClassVariable {
		startClass = ClassSign
	}

	weight := t.baseWeight(startClass)
	endClass := startClass
	length := startLen
	i := pos + startLen

	var out []Candidate

	for {
		emit, terminate := false, false
		if i < len(text) {
			nextClass, nextLen := t.classifyAt(text, i, endClass, opts.NonJapanese)
			emit = t.regMatrix[clampClass(endClass)][clampClass(nextClass)]
			terminate = t.termMatrix[clampClass(endClass)][clampClass(nextClass)]
			if emit {
				out = append(out, t.makeCandidate(startChar, startClass, endClass, length))
			}
			if terminate {
				// A run must always yield at least one candidate for
				// its start position (the analyzer's fallback source
				// of last resort never leaves a position uncovered);
				// if the registration matrix never fired before this
				// transition terminates the run, emit the
				// already-accumulated run now instead of discarding it.
				if len(out) == 0 {
					out = append(out, t.makeCandidate(startChar, startClass, endClass, length))
				}
				break
			}
			weight += t.charWeight(nextClass)
			if weight >= HyokiLimit {
				out = append(out, t.makeCandidate(startChar, startClass, nextClass, length+nextLen))
				break
			}
			// Legacy bug-emulation mode stops on a hard character-count
			// ceiling instead of the weighted limit, and compares raw
			// class ids instead of the resolved kanji parity when
			// deciding whether the run continues (spec §4.3 point 6).
			if opts.EmulateBug && opts.MaxWordLen > 0 && length+nextLen >= opts.MaxWordLen {
				out = append(out, t.makeCandidate(startChar, startClass, nextClass, length+nextLen))
				break
			}
			if opts.EmulateBug && endClass != nextClass && isKanjiClass(endClass) && isKanjiClass(nextClass) {
				break
			}
			endClass = nextClass
			length += nextLen
			i += nextLen
			continue
		}
		// End of text: emit the run collected so far if nothing has
		// been emitted yet for this start.
		if len(out) == 0 {
			out = append(out, t.makeCandidate(startChar, startClass, endClass, length))
		}
		break
	}

	if opts.MorphCheck != nil {
		filtered := out[:0]
		for _, c := range out {
			if opts.MorphCheck(c.Length) && c.Cost > PutCost {
				continue
			}
			filtered = append(filtered, c)
		}
		out = filtered
	}

	return out
}

func clampClass(c uint16) uint16 {
	if c > 42 {
		return 42
	}
	return c
}

func (t *Table) resolveStart(text []charclass.CodeUnit, pos int, nonJapanese bool) (class uint16, length int) {
	return t.classifyAt(text, pos, 0xFFFF, nonJapanese)
}

// classifyAt classifies the character at i, resolving the variable
// class and the surrogate-pair/kanji-parity special cases (spec §4.3
// point 1/3). prevClass is 0xFFFF when classifying the start character.
func (t *Table) classifyAt(text []charclass.CodeUnit, i int, prevClass uint16, nonJapanese bool) (class uint16, length int) {
	cu := text[i]

	if charclass.IsHighSurrogate(cu) && i+1 < len(text) && charclass.IsLowSurrogate(text[i+1]) {
		r := charclass.DecodePair(cu, text[i+1])
		if isIdeograph(r) {
			class = t.kanjiParity(prevClass)
		} else {
			class = ClassSign
		}
		return class, 2
	}

	class = t.classTable.Class(cu)

	if nonJapanese && isCJKOrKana(cu) {
		class = ClassSign
	}

	if class == ClassVariable {
		if isIterationMark(cu) {
			class = ClassDounojiten
		} else if prevClass == ClassKanjiEven || prevClass == ClassKanjiOdd {
			class = t.kanjiParity(prevClass)
		} else {
			class = ClassSign
		}
	}

	if class == ClassKanjiEven || class == ClassKanjiOdd {
		class = t.kanjiParity(prevClass)
	}

	return class, 1
}

// kanjiParity flip-flops between the two kanji classes so consecutive
// kanji characters alternate class 0/1 (spec §4.3 point 3).
func (t *Table) kanjiParity(prevClass uint16) uint16 {
	if prevClass == ClassKanjiEven {
		return ClassKanjiOdd
	}
	return ClassKanjiEven
}

func (t *Table) baseWeight(class uint16) int {
	if isKatakanaClass(class) {
		return 0
	}
	return HyokiLimit - 15
}

func (t *Table) charWeight(class uint16) int {
	if isKanjiClass(class) {
		return 2
	}
	return 1
}

func isKanjiClass(class uint16) bool {
	return class == ClassKanjiEven || class == ClassKanjiOdd
}

// isKatakanaClass is a placeholder hook: the concrete katakana class id
// is resource-defined (loaded from the UMK table), not fixed by this
// package. Real deployments set it via SetKatakanaClass.
var katakanaClass uint16 = 3

// SetKatakanaClass overrides which resource-defined class id is treated
// as katakana for weight-seeding purposes (spec §4.3 point 2).
func SetKatakanaClass(c uint16) { katakanaClass = c }

func isKatakanaClass(class uint16) bool { return class == katakanaClass }

func (t *Table) makeCandidate(startChar charclass.CodeUnit, startClass, endClass uint16, length int) Candidate {
	typ := classifyType(startChar, startClass, endClass, length)
	pos := t.pos[typ]
	idx := length - 1
	costs := t.cost[typ]
	var cost uint16
	if idx >= 0 && idx < len(costs) {
		cost = costs[idx]
	} else if len(costs) > 0 {
		cost = costs[len(costs)-1]
	}
	return Candidate{Length: length, POS: pos, Cost: cost}
}

// classifyType maps (start_char, start_class, end_class, length) to one
// of the 13 unknown-word categories (spec §4.3 point 4).
func classifyType(startChar charclass.CodeUnit, start, end uint16, length int) UnknownType {
	switch {
	case start == ClassDounojiten:
		if isKanjiClass(end) {
			return TypeDounojitenKanji
		}
		return TypeDounojitenHiragana
	case isKanjiClass(start) && isKanjiClass(end):
		return TypeKanjiRun
	case isKanjiClass(start) && !isKanjiClass(end):
		return TypeKanjiHiraganaRun
	case isDigit(startChar) && isKanjiClass(end):
		return TypeKanjiNumeric
	case isDigit(startChar):
		return TypeNumeric
	case start == katakanaClass && isSmallKana(startChar):
		return TypeSmallKatakanaInitial
	case start == katakanaClass:
		return TypeKatakana
	case length == 1 && startChar >= 'A' && startChar <= 'Z':
		return TypeUppercaseInitial
	case length == 1 && startChar >= 'a' && startChar <= 'z':
		return TypeLowercaseInitial
	case length == 1 && startChar < 0x80:
		return TypeSingleAlphabet
	case start == ClassSign:
		return TypeSign
	default:
		return TypeHiraganaRun
	}
}

// isDigit reports whether cu is an ASCII or fullwidth digit (spec §4.3
// point 4's numeric/kanji-numeric pair).
func isDigit(cu charclass.CodeUnit) bool {
	return (cu >= '0' && cu <= '9') || (cu >= 0xFF10 && cu <= 0xFF19)
}

// isSmallKana reports whether cu is one of the small hiragana/katakana
// characters (spec §4.3 point 4's small-katakana-initial category).
func isSmallKana(cu charclass.CodeUnit) bool {
	switch cu {
	case 0x30A1, 0x30A3, 0x30A5, 0x30A7, 0x30A9, // ァィゥェォ
		0x30C3,         // ッ
		0x30E3, 0x30E5, 0x30E7, // ャュョ
		0x30EE,         // ヮ
		0x30F5, 0x30F6: // ヵヶ
		return true
	}
	return false
}

// ApplyControlRemap maps control characters below 0x20 to the
// punctuation POS, per spec §4.3 point 4.
func (t *Table) ApplyControlRemap(cu charclass.CodeUnit, pos uint16) uint16 {
	if cu < 0x20 {
		return t.punctPOS
	}
	return pos
}

func isCJKOrKana(cu charclass.CodeUnit) bool {
	return (cu >= 0x3040 && cu <= 0x30FF) || (cu >= 0x4E00 && cu <= 0x9FFF) || (cu >= 0x3400 && cu <= 0x4DBF)
}

func isIdeograph(r rune) bool {
	return (r >= 0x20000 && r <= 0x2FFFF) || (r >= 0x3400 && r <= 0x4DBF) || (r >= 0x4E00 && r <= 0x9FFF)
}

// isIterationMark recognizes the small fixed set of Japanese iteration
// (repetition) marks: 々, ゝ, ゞ, ヽ, ヾ (spec §4.3 point 1).
func isIterationMark(cu charclass.CodeUnit) bool {
	switch cu {
	case 0x3005, 0x309D, 0x309E, 0x30FD, 0x30FE:
		return true
	default:
		return false
	}
}
