package normalize

import "testing"

// newTestTable builds a trie with two rules by hand: "abc" -> "X" and
// "ab" -> "Y", to exercise greedy longest-match, plus a stop-char
// bitmap flagging '#'.
func newTestTable() *Table {
	// States: 0 root, 1 after 'a', 2 after 'ab', 3 after 'abc'.
	// Transition formula matches dict's: idx = state + code; label
	// must equal code; base[idx] becomes the next state.
	daSize := 256 * 4
	t := &Table{
		base:     make([]uint32, daSize),
		label:    make([]uint16, daSize),
		toOffset: make([]uint32, daSize),
	}
	for i := range t.toOffset {
		t.toOffset[i] = noReplacement
	}

	set := func(state uint32, code uint16, next uint32) {
		idx := state + uint32(code)
		t.label[idx] = code
		t.base[idx] = next
	}
	set(0, 'a', 1)
	set(1, 'b', 2)
	set(2, 'c', 3)

	t.toPool = []uint16{'Y', 0, 'X', 0}
	t.toOffset[2] = 0 // "ab" -> "Y"
	t.toOffset[3] = 2 // "abc" -> "X"

	t.stopChar = make([]uint64, 1024)
	t.stopChar['#'>>6] |= 1 << ('#' & 63)

	return t
}

func TestCheckFindsStopChar(t *testing.T) {
	tbl := newTestTable()
	if !tbl.Check([]uint16{'h', 'i', '#'}) {
		t.Error("expected Check to find the stop character")
	}
	if tbl.Check([]uint16{'h', 'i', 'j'}) {
		t.Error("expected Check to find nothing in plain text")
	}
}

func TestConvertGreedyLongestMatch(t *testing.T) {
	tbl := newTestTable()
	text := []uint16{'a', 'b', 'c', 'd'}
	out, indexMap := tbl.Convert(text, 64)

	want := "Xd"
	if string(runesOf(out)) != want {
		t.Fatalf("expected %q, got %q", want, string(runesOf(out)))
	}
	if len(indexMap) != len(out) {
		t.Fatalf("indexMap length %d != out length %d", len(indexMap), len(out))
	}
	if indexMap[0] != 0 {
		t.Errorf("expected indexMap[0] == 0, got %d", indexMap[0])
	}
	if indexMap[1] != 3 {
		t.Errorf("expected indexMap[1] == 3 (the 'd'), got %d", indexMap[1])
	}
}

func TestConvertPassesThroughUnmatchedText(t *testing.T) {
	tbl := newTestTable()
	text := []uint16{'x', 'y', 'z'}
	out, indexMap := tbl.Convert(text, 64)
	if len(out) != 3 {
		t.Fatalf("expected unmatched text to pass through unchanged, got length %d", len(out))
	}
	for i, v := range indexMap {
		if v != i {
			t.Errorf("indexMap[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestConvertRespectsMaxOut(t *testing.T) {
	tbl := newTestTable()
	text := []uint16{'p', 'q', 'r', 's'}
	out, indexMap := tbl.Convert(text, 2)
	if len(out) != 2 || len(indexMap) != 2 {
		t.Fatalf("expected output truncated to maxOut=2, got %d", len(out))
	}
}

func TestConvertSurrogatePairAtomic(t *testing.T) {
	tbl := newTestTable()
	// U+1F600 as a surrogate pair.
	text := []uint16{0xD83D, 0xDE00, 'z'}
	out, indexMap := tbl.Convert(text, 64)
	if len(out) != 3 {
		t.Fatalf("expected surrogate pair copied atomically (2 units) + 1, got %d", len(out))
	}
	if indexMap[0] != 0 || indexMap[1] != 0 {
		t.Errorf("expected both surrogate halves to map to index 0, got %v", indexMap[:2])
	}
}

func runesOf(cus []uint16) []rune {
	out := make([]rune, len(cus))
	for i, c := range cus {
		out[i] = rune(c)
	}
	return out
}
