// Package normalize implements the input normalizer (spec §4.6): a
// double-array replacement trie applied to raw input text before
// morphological analysis, with a stop-character bitmap pre-filter and
// a reverse index mapping normalized offsets back to source offsets.
package normalize

import (
	"github.com/rs/zerolog"

	"github.com/unalang/una/charclass"
	"github.com/unalang/una/resource"
)

// LocalTextSize is UNA_LOCAL_TEXT_SIZE, the prefix length Check scans.
const LocalTextSize = 255

// Table is the immutable, shared `STD V1.01-` normalization resource: a
// double-array trie over the from-string alphabet plus a pool of
// replacement to-strings, and a 65536-entry stop-character bitmap.
type Table struct {
	base  []uint32
	label []uint16

	toPool   []uint16 // variable-length to-strings, each NUL (0)-terminated
	toOffset []uint32 // per accepting state: offset into toPool, or sentinel if none

	stopChar []uint64 // 65536-bit bitmap, 1 bit per code unit
}

const noReplacement = 0xFFFFFFFF

// Load parses a `STD V1.01-` resource.
//
// Wire layout (little-endian, after the header):
//
//	u32 daCount
//	u32 base[daCount]
//	u16 label[daCount]
//	u32 toOffset[daCount]
//	u32 toPoolLen
//	u16 toPool[toPoolLen]
//	u64 stopChar[1024]  (65536 bits)
func Load(img *resource.Image, log zerolog.Logger) (*Table, error) {
	r := resource.NewReader("normalize", img.Body)

	daCount, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	t := &Table{}
	t.base, err = r.Uint32Array(int64(daCount))
	if err != nil {
		return nil, err
	}
	t.label, err = r.Uint16Array(int64(daCount))
	if err != nil {
		return nil, err
	}
	t.toOffset, err = r.Uint32Array(int64(daCount))
	if err != nil {
		return nil, err
	}

	toPoolLen, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	t.toPool, err = r.Uint16Array(int64(toPoolLen))
	if err != nil {
		return nil, err
	}

	t.stopChar, err = resource.Slice[uint64](r, 1024)
	if err != nil {
		return nil, err
	}

	log.Debug().Uint32("daCount", daCount).Msg("loaded normalization table")
	return t, nil
}

// IsStopChar reports whether cu is marked in the stop-character bitmap.
func (t *Table) IsStopChar(cu charclass.CodeUnit) bool {
	word := t.stopChar[cu>>6]
	return word&(1<<(cu&63)) != 0
}

// Check scans the first min(len(text), LocalTextSize) characters and
// reports whether any is a stop-character: the cheap pre-filter that
// lets a caller skip normalization entirely on plain text.
func (t *Table) Check(text []charclass.CodeUnit) bool {
	n := len(text)
	if n > LocalTextSize {
		n = LocalTextSize
	}
	for i := 0; i < n; i++ {
		if t.IsStopChar(text[i]) {
			return true
		}
	}
	return false
}

func (t *Table) stateBaseLabel(state uint32) (base uint32, label uint16, ok bool) {
	if int(state) >= len(t.base) {
		return 0, 0, false
	}
	return t.base[state], t.label[state], true
}

// longestMatch finds the longest from-string starting at text[pos],
// returning its consumed length and its to-string, or ok=false if
// nothing in the trie matches there.
func (t *Table) longestMatch(text []charclass.CodeUnit, pos int) (consumed int, replacement []uint16, ok bool) {
	var state uint32
	bestLen := 0
	var bestOffset uint32 = noReplacement

	for i := pos; i < len(text); i++ {
		internal := uint32(text[i])
		idx := state + internal
		nb, nl, exist := t.stateBaseLabel(idx)
		if !exist || uint32(nl) != internal {
			break
		}
		state = nb

		if int(state) < len(t.toOffset) {
			if toOff := t.toOffset[state]; toOff != noReplacement {
				bestLen = i - pos + 1
				bestOffset = toOff
			}
		}
	}

	if bestOffset == noReplacement {
		return 0, nil, false
	}
	return bestLen, t.readToString(bestOffset), true
}

func (t *Table) readToString(offset uint32) []uint16 {
	end := offset
	for int(end) < len(t.toPool) && t.toPool[end] != 0 {
		end++
	}
	return t.toPool[offset:end]
}

// Convert performs greedy longest-match replacement over text,
// producing the normalized output and a parallel index map where
// indexMap[outI] is the source index of the leading input character
// that produced output[outI] (spec §4.6). Surrogate pairs are always
// copied atomically, unmatched by the trie.
//
// If maxOut is reached before text is exhausted, Convert stops cleanly
// and returns the partial result built so far.
func (t *Table) Convert(text []charclass.CodeUnit, maxOut int) (out []charclass.CodeUnit, indexMap []int) {
	i := 0
	for i < len(text) && len(out) < maxOut {
		if charclass.RuneLen(text, i) == 2 {
			out = append(out, text[i], text[i+1])
			indexMap = append(indexMap, i, i)
			i += 2
			continue
		}

		if consumed, repl, ok := t.longestMatch(text, i); ok {
			for _, cu := range repl {
				if len(out) >= maxOut {
					break
				}
				out = append(out, cu)
				indexMap = append(indexMap, i)
			}
			i += consumed
			continue
		}

		out = append(out, text[i])
		indexMap = append(indexMap, i)
		i++
	}
	return out, indexMap
}
