// Package english implements the English-token detector (spec §4.4): a
// 36-state x 14-class finite-state machine recognizing alphabetic runs,
// digit runs, symbols, initialisms and line-end hyphen continuations.
package english

import (
	"github.com/rs/zerolog"

	"github.com/unalang/una/charclass"
	"github.com/unalang/una/resource"
)

const (
	numStates    = 36
	numClasses   = 14
	outsideState = 0
)

// RegistrationType is the type an accepting transition registers (spec
// §4.4's three-table-in-parallel dispatch).
type RegistrationType uint8

const (
	RegNone RegistrationType = iota
	RegNormal
	RegHyphenContinuation
	RegNumeric
	RegSymbol
	RegSpace
	RegNewline
	RegInitialism
)

const defaultCostTypeCount = 256

// defaultCosts is the built-in fallback cost table used when a legacy
// `EMK V1.07-` (costless) resource is loaded (spec's supplemented
// unamdeng.cpp behavior).
var defaultCosts = func() [defaultCostTypeCount]uint16 {
	var c [defaultCostTypeCount]uint16
	for i := range c {
		c[i] = 20
	}
	c[int(RegNormal)] = 15
	c[int(RegNumeric)] = 18
	c[int(RegSymbol)] = 22
	c[int(RegInitialism)] = 16
	c[int(RegHyphenContinuation)] = 25
	return c
}()

// Table is the immutable, shared English-token resource bundle.
type Table struct {
	classOf  charclass.Table // 65536-entry char -> class(0..13)
	next     [numStates][numClasses]uint8
	regType  [numStates][numClasses]RegistrationType
	terminal [numStates][numClasses]bool
	costs    [defaultCostTypeCount]uint16
	hasCosts bool
}

// Load parses an `EMK V1.08-` (with costs) or `EMK V1.07-` (legacy,
// costless) resource.
//
// Wire layout (little-endian, after the header):
//
//	u16 classOf[65536]
//	u8  next[36][14]
//	u8  regType[36][14]
//	u8  terminal[36][14]
//	[EMK V1.08- only] u16 costs[256]
func Load(img *resource.Image, log zerolog.Logger) (*Table, error) {
	t := &Table{}
	r := resource.NewReader("english", img.Body)

	classes, err := r.Uint16Array(65536)
	if err != nil {
		return nil, err
	}
	t.classOf = charclass.Table(classes)

	next, err := r.Bytes(numStates * numClasses)
	if err != nil {
		return nil, err
	}
	reg, err := r.Bytes(numStates * numClasses)
	if err != nil {
		return nil, err
	}
	term, err := r.Bytes(numStates * numClasses)
	if err != nil {
		return nil, err
	}
	for s := 0; s < numStates; s++ {
		for c := 0; c < numClasses; c++ {
			t.next[s][c] = next[s*numClasses+c]
			t.regType[s][c] = RegistrationType(reg[s*numClasses+c])
			t.terminal[s][c] = term[s*numClasses+c] != 0
		}
	}

	if img.Version == resource.TagEnglishWithCost {
		costs, err := r.Uint16Array(defaultCostTypeCount)
		if err != nil {
			return nil, err
		}
		copy(t.costs[:], costs)
		t.hasCosts = true
	} else {
		t.costs = defaultCosts
	}

	log.Debug().Bool("hasCosts", t.hasCosts).Msg("loaded english-token tables")
	return t, nil
}

// Class returns the FSM character class of cu, clamped into [0,13].
func (t *Table) Class(cu charclass.CodeUnit) uint8 {
	c := t.classOf.Class(cu)
	if c >= numClasses {
		return numClasses - 1
	}
	return uint8(c)
}

// Cost returns the token-type cost for regType.
func (t *Table) Cost(regType RegistrationType) uint16 {
	return t.costs[int(regType)%defaultCostTypeCount]
}
