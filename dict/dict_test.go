package dict

import (
	"testing"

	"github.com/unalang/una/charclass"
)

// newTestV125Dict builds a tiny V1.25-layout Dictionary by hand (no
// Load/mmap involved) covering: a two-homograph entry for "ab", a
// single-homograph entry for "abc", and a collocation entry for "xy"
// with a two-word sub-structure list.
func newTestV125Dict(t *testing.T) *Dictionary {
	t.Helper()

	remap := make([]uint16, 65536)
	for cu := rune(0); cu < 128; cu++ {
		remap[cu] = uint16(cu)
	}

	// States: 0 root; 1 after 'a'; 2 after 'ab' (EOK -> rec 0, homograph
	// count 2); 3 after 'abc' (EOK -> rec 2); 10 after 'x'; 11 after
	// 'xy' (EOK -> rec 3, collocation).
	daSize := 256
	base := make([]uint32, daSize)
	label := make([]uint16, daSize)
	for i := range label {
		label[i] = 0xFFFF // unused cells must not read as EOK (0)
	}

	set := func(state uint32, code uint16, next uint32) {
		idx := state + uint32(code)
		label[idx] = code
		base[idx] = next
	}
	set(0, 'a', 1)
	set(1, 'b', 2)
	set(2, 'c', 3)
	set(0, 'x', 10)
	set(10, 'y', 11)

	// Accepting states carry label[state]==EOK and base[state]==recID.
	label[2] = EOK
	base[2] = 0
	label[3] = EOK
	base[3] = 2
	label[11] = EOK
	base[11] = 3

	d := &Dictionary{
		name:     "test",
		priority: 1,
		layout:   LayoutV125,
		collSent: CollocationV125,
		remap:    charclass.Table(remap),
		base32:   base,
		label16:  label,
		records: []record{
			{HomographCount: 2, Cost: 10, POS: 100, CharLength: 2}, // "ab" homograph 1
			{HomographCount: 0, Cost: 20, POS: 200, CharLength: 2}, // "ab" homograph 2
			{HomographCount: 0, Cost: 5, POS: 300, CharLength: 3},  // "abc"
			{HomographCount: 0, Cost: 0, POS: CollocationV125, CharLength: 2, SubListOffset: 0}, // "xy" collocation
		},
		subList: []uint32{
			uint32(1) | uint32(400)<<8 | uint32(7)<<24, // length1 pos400 cost7
			uint32(1) | uint32(401)<<8 | uint32(9)<<24, // length1 pos401 cost9
			0, // terminator
		},
	}
	return d
}

func utf16Of(s string) []charclass.CodeUnit {
	out := make([]charclass.CodeUnit, 0, len(s))
	for _, r := range s {
		out = append(out, charclass.CodeUnit(r))
	}
	return out
}

func TestSearchHomographExpansion(t *testing.T) {
	d := newTestV125Dict(t)
	text := utf16Of("abc")

	cands, err := d.Search(text, 0, SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	var lenTwo, lenThree int
	for _, c := range cands {
		switch c.Length {
		case 2:
			lenTwo++
		case 3:
			lenThree++
		}
	}
	if lenTwo != 2 {
		t.Errorf("expected 2 homographs at length 2 (\"ab\"), got %d", lenTwo)
	}
	if lenThree != 1 {
		t.Errorf("expected 1 candidate at length 3 (\"abc\"), got %d", lenThree)
	}
}

func TestSearchNoMatchPastPrefix(t *testing.T) {
	d := newTestV125Dict(t)
	cands, err := d.Search(utf16Of("zzz"), 0, SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(cands) != 0 {
		t.Errorf("expected no candidates for unregistered text, got %d", len(cands))
	}
}

func TestSearchCollocationFlag(t *testing.T) {
	d := newTestV125Dict(t)
	cands, err := d.Search(utf16Of("xy"), 0, SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(cands) != 1 || !cands[0].Collocation {
		t.Fatalf("expected exactly one collocation candidate, got %+v", cands)
	}
}

func TestSubMorphemesExpandsCollocation(t *testing.T) {
	d := newTestV125Dict(t)
	subs, err := d.SubMorphemes(0)
	if err != nil {
		t.Fatalf("SubMorphemes: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 sub-morphemes, got %d", len(subs))
	}
	if subs[0].POS != 400 || subs[0].Cost != 7 {
		t.Errorf("unexpected first sub-morpheme: %+v", subs[0])
	}
	if subs[1].POS != 401 || subs[1].Cost != 9 {
		t.Errorf("unexpected second sub-morpheme: %+v", subs[1])
	}
}

func TestSubMorphemesNoneSentinel(t *testing.T) {
	d := newTestV125Dict(t)
	subs, err := d.SubMorphemes(0xFFFFFF)
	if err != nil {
		t.Fatalf("SubMorphemes: %v", err)
	}
	if subs != nil {
		t.Errorf("expected nil sub-morphemes for the no-substructure sentinel, got %v", subs)
	}
}

func TestV124PackUnpackRoundTrip(t *testing.T) {
	base, label := uint32(12345), uint16(0x1A2B&v124LabelMask)
	cell := base<<v124LabelBits | uint32(label)
	gotBase, gotLabel := v124Unpack(cell)
	if gotBase != base || gotLabel != label {
		t.Errorf("v124Unpack(%#x) = (%d, %d), want (%d, %d)", cell, gotBase, gotLabel, base, label)
	}
}
