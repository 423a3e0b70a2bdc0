package dict

import (
	"github.com/unalang/una/charclass"
	"github.com/unalang/una/lattice"
)

// Searcher is the common surface a morpheme source exposes to the
// analyzer dispatcher (spec §9's "three variants" sum type: V1.25,
// V1.24, and null). The English-token and unknown-word detectors are
// deliberately NOT modeled as Searcher: spec §9 asks that they stay
// distinct variants in the dispatcher's sum type rather than being
// squeezed into the dictionary enum.
type Searcher interface {
	Name() string
	Priority() uint8
	Search(text []charclass.CodeUnit, pos int, opts SearchOptions) ([]Candidate, error)
	SubMorphemes(subI uint32) ([]lattice.SubMorpheme, error)
}

// NullDictionary never matches anything. It stands in for an analyzer
// with no registered words at all (spec §8 scenario 6), so every
// position falls through to the unknown-word detector. The no-list-file
// default of morpho.Open loads a real dictionary file, not this type.
type NullDictionary struct {
	name     string
	priority uint8
}

// NewNull returns a dictionary that never matches. An empty name
// becomes "default" and a zero priority becomes 1.
func NewNull(name string, priority uint8) *NullDictionary {
	if name == "" {
		name = "default"
	}
	if priority == 0 {
		priority = 1
	}
	return &NullDictionary{name: name, priority: priority}
}

func (n *NullDictionary) Name() string     { return n.name }
func (n *NullDictionary) Priority() uint8   { return n.priority }
func (n *NullDictionary) Search(_ []charclass.CodeUnit, _ int, _ SearchOptions) ([]Candidate, error) {
	return nil, nil
}
func (n *NullDictionary) SubMorphemes(_ uint32) ([]lattice.SubMorpheme, error) { return nil, nil }

var (
	_ Searcher = (*Dictionary)(nil)
	_ Searcher = (*NullDictionary)(nil)
)
