package morpho

import (
	"errors"

	"github.com/unalang/una/bunsetsu"
	"github.com/unalang/una/charclass"
	"github.com/unalang/una/config"
)

// ErrNoGrammar is returned by AnalyzeKakariUke when the Handle was
// opened without a grammar table (spec §4.5: "invoked only when a
// grammar table is loaded").
var ErrNoGrammar = errors.New("una/morpho: no grammar table loaded")

// AnalyzeKakariUke runs analyze_morpho and then feeds the resulting
// morpheme stream through bunsetsu segmentation and the dependency-cost
// DP (spec §4.5), returning the morphemes alongside their phrase
// groupings. The returned Phrase.Start/End index into the returned
// Morpheme slice, not into text.
func (h *Handle) AnalyzeKakariUke(text []charclass.CodeUnit, stop StopFunc, opts config.Options) ([]Morpheme, []Phrase, int, error) {
	if h.gram == nil {
		return nil, nil, 0, ErrNoGrammar
	}

	morphemes, processed, err := h.AnalyzeMorpho(text, stop, opts)
	if err != nil {
		return morphemes, nil, processed, err
	}

	pos := make([]uint16, len(morphemes))
	for i, m := range morphemes {
		pos[i] = m.POS
	}

	phrases := bunsetsu.Segment(h.gram, pos)
	bunsetsu.AssignDependencies(h.gram, pos, phrases)
	return morphemes, phrases, processed, nil
}
