package unknown

import "testing"

// newTestTable builds a tiny, hand-rolled Table exercising just the
// classes this file's test cases need, without going through Load.
func newTestTable() *Table {
	t := &Table{}
	t.classTable = make([]uint16, 65536)

	const (
		hiragana = 20
		katakana = 3
		alpha    = 30
	)
	for cu := rune(0x3041); cu <= 0x3096; cu++ {
		t.classTable[cu] = hiragana
	}
	for cu := rune(0x30A1); cu <= 0x30FA; cu++ {
		t.classTable[cu] = katakana
	}
	for cu := rune('A'); cu <= 'Z'; cu++ {
		t.classTable[cu] = alpha
	}
	for cu := rune('a'); cu <= 'z'; cu++ {
		t.classTable[cu] = alpha
	}
	for cu := rune(0x4E00); cu <= 0x9FFF; cu++ {
		t.classTable[cu] = ClassKanjiEven
	}

	// Allow every class to continue into itself, and hiragana/katakana
	// to terminate a run when followed by a different class.
	for i := 0; i < 43; i++ {
		t.regMatrix[i][i] = true
		t.termMatrix[i][i] = false
	}
	t.termMatrix[clampClass(hiragana)][clampClass(katakana)] = true
	t.termMatrix[clampClass(katakana)][clampClass(hiragana)] = true
	t.termMatrix[clampClass(alpha)][clampClass(hiragana)] = true
	t.termMatrix[clampClass(0)][clampClass(hiragana)] = true
	t.termMatrix[clampClass(1)][clampClass(hiragana)] = true
	t.termMatrix[clampClass(hiragana)][clampClass(0)] = true
	t.termMatrix[clampClass(hiragana)][clampClass(1)] = true

	for i := 0; i < int(typeCount); i++ {
		costs := make([]uint16, HyokiLimit+1)
		for j := range costs {
			costs[j] = uint16(100 + j)
		}
		t.cost[i] = costs
		t.pos[i] = uint16(7000 + i)
	}
	t.punctPOS = 9999

	return t
}

func utf16Of(s string) []uint16 {
	out := make([]uint16, 0, len(s))
	for _, r := range s {
		if r > 0xFFFF {
			r -= 0x10000
			out = append(out, uint16(0xD800+(r>>10)), uint16(0xDC00+(r&0x3FF)))
			continue
		}
		out = append(out, uint16(r))
	}
	return out
}

func TestScanHiraganaRun(t *testing.T) {
	tbl := newTestTable()
	text := utf16Of("ひらがな")
	out := tbl.Scan(text, 0, ScanOptions{})
	if len(out) == 0 {
		t.Fatal("expected at least one candidate")
	}
	last := out[len(out)-1]
	if last.Length != len(text) {
		t.Errorf("expected full-run length %d, got %d", len(text), last.Length)
	}
}

func TestScanKanjiParityFlipFlop(t *testing.T) {
	tbl := newTestTable()
	text := utf16Of("一二三")
	_, l1 := tbl.classifyAt(text, 0, 0xFFFF, false)
	c1, _ := tbl.classifyAt(text, 0, 0xFFFF, false)
	if l1 != 1 {
		t.Fatalf("expected length 1, got %d", l1)
	}
	c2, _ := tbl.classifyAt(text, 1, c1, false)
	if c1 == c2 {
		t.Errorf("expected kanji parity to flip, got %d twice", c1)
	}
	c3, _ := tbl.classifyAt(text, 2, c2, false)
	if c3 != c1 {
		t.Errorf("expected parity to flip back to %d, got %d", c1, c3)
	}
}

func TestScanStopsAtTerminateMatrix(t *testing.T) {
	tbl := newTestTable()
	text := utf16Of("ひらアイ")
	out := tbl.Scan(text, 0, ScanOptions{})
	for _, c := range out {
		if c.Length > 2 {
			t.Errorf("expected run to terminate at the katakana boundary, got length %d", c.Length)
		}
	}
}

func TestScanMorphCheckSuppressesCostlyDuplicate(t *testing.T) {
	tbl := newTestTable()
	text := utf16Of("ひらがな")
	checked := map[int]bool{len(text): true}
	out := tbl.Scan(text, 0, ScanOptions{
		MorphCheck: func(length int) bool { return checked[length] },
	})
	for _, c := range out {
		if c.Length == len(text) && c.Cost > PutCost {
			t.Errorf("expected the already-registered full-length candidate to be suppressed")
		}
	}
}

func TestClassifyTypeNumeric(t *testing.T) {
	if got := classifyType('3', 30, 30, 2); got != TypeNumeric {
		t.Errorf("classifyType(digit run) = %v, want TypeNumeric", got)
	}
	if got := classifyType(0xFF11, 30, 30, 1); got != TypeNumeric {
		t.Errorf("classifyType(fullwidth digit) = %v, want TypeNumeric", got)
	}
}

func TestClassifyTypeKanjiNumeric(t *testing.T) {
	if got := classifyType('3', 30, ClassKanjiOdd, 2); got != TypeKanjiNumeric {
		t.Errorf("classifyType(digit+kanji run) = %v, want TypeKanjiNumeric", got)
	}
}

func TestClassifyTypeSmallKatakanaInitial(t *testing.T) {
	if got := classifyType(0x30A1, katakanaClass, katakanaClass, 1); got != TypeSmallKatakanaInitial {
		t.Errorf("classifyType(small katakana initial) = %v, want TypeSmallKatakanaInitial", got)
	}
}

func TestClassifyTypeKatakanaNotSmall(t *testing.T) {
	if got := classifyType(0x30A2, katakanaClass, katakanaClass, 1); got != TypeKatakana {
		t.Errorf("classifyType(plain katakana) = %v, want TypeKatakana", got)
	}
}

func TestIsIterationMark(t *testing.T) {
	cases := []struct {
		cu   uint16
		want bool
	}{
		{0x3005, true},
		{0x3042, false},
		{0x30FD, true},
	}
	for _, tc := range cases {
		if got := isIterationMark(tc.cu); got != tc.want {
			t.Errorf("isIterationMark(%#x) = %v, want %v", tc.cu, got, tc.want)
		}
	}
}
