package bunsetsu

import "testing"

func TestSegmentBreaksOnKuten(t *testing.T) {
	const kuten = uint16(2)
	g := newTestGrammar(kuten, 5)
	pos := []uint16{1, 1, kuten, 3, 3}

	phrases := Segment(g, pos)
	if len(phrases) != 2 {
		t.Fatalf("expected 2 phrases, got %d", len(phrases))
	}
	if phrases[0].Start != 0 || phrases[0].End != 3 {
		t.Errorf("expected first phrase [0,3), got [%d,%d)", phrases[0].Start, phrases[0].End)
	}
	if phrases[1].Start != 3 || phrases[1].End != 5 {
		t.Errorf("expected second phrase [3,5), got [%d,%d)", phrases[1].Start, phrases[1].End)
	}
}

func TestSegmentBreaksOnBreakFlag(t *testing.T) {
	g := newTestGrammar(99, 5)
	setBreak(g, 1, 2)
	pos := []uint16{1, 2, 3}

	phrases := Segment(g, pos)
	if len(phrases) != 2 {
		t.Fatalf("expected 2 phrases, got %d", len(phrases))
	}
	if phrases[0].End != 1 {
		t.Errorf("expected break after morpheme 0, got end=%d", phrases[0].End)
	}
}

func TestSegmentNoBreaksSinglePhrase(t *testing.T) {
	g := newTestGrammar(99, 5)
	pos := []uint16{1, 1, 1, 1}
	phrases := Segment(g, pos)
	if len(phrases) != 1 {
		t.Fatalf("expected 1 phrase, got %d", len(phrases))
	}
	if phrases[0].Start != 0 || phrases[0].End != 4 {
		t.Errorf("expected [0,4), got [%d,%d)", phrases[0].Start, phrases[0].End)
	}
}

func TestAssignDependenciesSinglePhraseIsIsolated(t *testing.T) {
	g := newTestGrammar(99, 5)
	phrases := []Phrase{{Start: 0, End: 3}}
	AssignDependencies(g, []uint16{1, 1, 1}, phrases)
	if phrases[0].Target != 0 {
		t.Errorf("expected single phrase to target itself, got %d", phrases[0].Target)
	}
}

func TestAssignDependenciesLastPhraseIsFinal(t *testing.T) {
	g := newTestGrammar(99, 5)
	pos := []uint16{1, 2, 3, 4}
	phrases := []Phrase{
		{Start: 0, End: 1},
		{Start: 1, End: 2},
		{Start: 2, End: 3},
		{Start: 3, End: 4},
	}
	AssignDependencies(g, pos, phrases)
	last := len(phrases) - 1
	if phrases[last].Target != last {
		t.Errorf("expected final phrase to target itself, got %d", phrases[last].Target)
	}
	for i := 0; i < last; i++ {
		if phrases[i].Target <= i || phrases[i].Target > last {
			t.Errorf("phrase %d has out-of-range target %d", i, phrases[i].Target)
		}
	}
}
