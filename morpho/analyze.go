package morpho

import (
	"errors"

	"github.com/unalang/una/charclass"
	"github.com/unalang/una/config"
	"github.com/unalang/una/dict"
	"github.com/unalang/una/english"
	"github.com/unalang/una/lattice"
	"github.com/unalang/una/unaerr"
	"github.com/unalang/una/unknown"
)

// isOverflow reports whether err is the internal-only lattice-overflow
// sentinel (spec §7: never surfaced to the caller, recovered from by
// forcing convergence).
func isOverflow(err error) bool {
	return err != nil && errors.Is(err, unaerr.ErrLatticeFull())
}

// StopFunc is polled during a long analyze call; returning true cancels
// it (spec §5).
type StopFunc func() bool

// AnalyzeMorpho runs the lattice state machine of spec §4.1 over text,
// consulting every registered dictionary, the English detector and the
// unknown-word detector at each position, and returns the optimal
// morpheme path for as much of text as converged within one call.
//
// The returned int is the number of *original* text characters
// consumed (spec §8 property 5's "resumability": callers pass the
// remaining suffix to the next call on the same Handle). If
// execute_normalization is set, this already accounts for the
// normalizer's index map.
func (h *Handle) AnalyzeMorpho(text []charclass.CodeUnit, stop StopFunc, opts config.Options) ([]Morpheme, int, error) {
	opts = h.mergeDefaults(opts)

	workText := text
	var idxMap []int
	if opts.ExecuteNormalization && h.norm != nil && h.norm.Check(text) {
		workText, idxMap = h.norm.Convert(text, lattice.MaxTextLen+1)
	}

	maxWordLen := int(opts.MaxWordLength)
	if maxWordLen <= 0 || maxWordLen > lattice.MaxWordLen {
		maxWordLen = lattice.MaxWordLen
	}

	var morphemes []Morpheme
	base := 0      // offset of the current lattice window within workText
	lastPOS := h.maeHin
	remaining := workText
	h.lat.VirtualPredPOS = lastPOS
	h.lat.Reset(remaining)

	p := 0
	polls := 0
	for p < h.lat.TextLen {
		if stop != nil {
			polls++
			if polls%responsePollInterval == 0 && stop() {
				return morphemes, h.processedLength(base, idxMap, len(text)), unaerr.ErrCanceled
			}
		}

		prevEnd := h.lat.LatticeEnd
		h.lat.BeginPosition()

		var overflowed bool
		var err error
		if isLowSurrogateContinuation(remaining, p) {
			// spec §8 property 7: a morpheme may never start in the
			// middle of a surrogate pair. Every candidate source
			// (dictionary, English, unknown-word) treats a high+low
			// surrogate pair it encounters mid-scan atomically, but
			// none of them is asked here in the first place: skipping
			// the scan at a low-surrogate position is what keeps any
			// edge from ever starting there.
		} else {
			overflowed, err = h.scanPosition(remaining, p, opts, maxWordLen)
			if err != nil {
				return morphemes, h.processedLength(base, idxMap, len(text)), err
			}
		}

		h.lat.LinkWithParent(h.conn.Cost)

		converged := prevEnd == p && h.lat.CandidateCount() == 1
		if overflowed || converged {
			n, flushed, lastEdgePOS, err := h.flush(base, h.lat.LatticeEnd, &morphemes)
			if err != nil {
				return morphemes, h.processedLength(base, idxMap, len(text)), err
			}
			if n > 0 {
				lastPOS = lastEdgePOS
			}
			base += flushed
			if flushed == 0 {
				// Nothing converged at all (shouldn't happen: the
				// unknown detector always emits at least one
				// character); avoid spinning forever.
				break
			}
			remaining = remaining[flushed:]
			h.lat.VirtualPredPOS = lastPOS
			h.lat.Reset(remaining)
			p = 0
			continue
		}

		p++
	}

	if h.lat.LatticeEnd > 0 {
		n, flushed, lastEdgePOS, err := h.flush(base, h.lat.LatticeEnd, &morphemes)
		if err != nil {
			return morphemes, h.processedLength(base, idxMap, len(text)), err
		}
		if n > 0 {
			lastPOS = lastEdgePOS
		}
		base += flushed
	}

	h.maeHin = lastPOS
	return morphemes, h.processedLength(base, idxMap, len(text)), nil
}

// flush extracts the optimal path up to upTo, appends it to out as
// public Morphemes (spec §4.1's extract_path), and returns how many
// edges and characters it covers plus the POS of the last edge (for
// maeHin carry-over). base is the window's offset within the analyzed
// text; it is added to each edge's window-relative start.
func (h *Handle) flush(base, upTo int, out *[]Morpheme) (count, chars int, lastPOS uint16, err error) {
	var buf [lattice.MaxEdges]lattice.EdgeID
	n, err := h.lat.ExtractPath(upTo, buf[:])
	if err != nil || n == 0 {
		return 0, 0, 0, err
	}
	for i := 0; i < n; i++ {
		e := h.lat.Edge(buf[i])
		*out = append(*out, Morpheme{
			Start:  base + e.Start,
			Length: e.Length,
			POS:    e.POS,
			UnaPOS: e.UnaPOS,
			AppI:   e.AppI,
			SubI:   e.SubI,
			Cost:   e.Cost,
		})
		chars = e.Start + e.Length
		lastPOS = e.POS
	}
	return n, chars, lastPOS, nil
}

// processedLength maps a lattice-local character offset back to an
// offset into the caller's original (pre-normalization) text.
func (h *Handle) processedLength(base int, idxMap []int, origLen int) int {
	if idxMap == nil {
		if base > origLen {
			return origLen
		}
		return base
	}
	if base <= 0 {
		return 0
	}
	if base >= len(idxMap) {
		if origLen == 0 {
			return 0
		}
		return origLen
	}
	return idxMap[base]
}

func (h *Handle) mergeDefaults(opts config.Options) config.Options {
	if opts == (config.Options{}) {
		return h.defaults
	}
	return opts
}

// scanPosition runs SCAN_DICTS (spec §4.1's state machine) at position
// p: every registered dictionary in priority-list order, then the
// English detector, then the unknown-word detector as fallback. It
// returns true if the lattice arena overflowed (forcing convergence).
func (h *Handle) scanPosition(text []charclass.CodeUnit, p int, opts config.Options, maxWordLen int) (overflowed bool, err error) {
	searchOpts := dict.SearchOptions{IgnoreLineBreak: opts.IgnoreLineBreak, MaxWordLength: maxWordLen}

	for di, d := range h.dicts {
		cands, err := d.Search(text, p, searchOpts)
		if err != nil {
			return false, err
		}
		halted, overflow, err := h.registerDictCandidates(d, di, cands, p)
		if err != nil {
			return false, err
		}
		if overflow {
			return true, nil
		}
		if halted {
			// spec §4.2: a SYUSOKU (collocation) match halts scanning
			// for this position; no further dictionaries, English
			// detector or unknown detector are consulted.
			return false, nil
		}
	}

	if h.eng != nil {
		overflow, err := h.registerEnglishCandidates(text, p)
		if err != nil {
			return false, err
		}
		if overflow {
			return true, nil
		}
	}

	overflow, err := h.registerUnknownCandidates(text, p, opts, maxWordLen)
	if err != nil {
		return false, err
	}
	return overflow, nil
}

func (h *Handle) registerDictCandidates(d dict.Searcher, dicIndex int, cands []dict.Candidate, p int) (halted, overflow bool, err error) {
	for _, c := range cands {
		unaPOS, perr := h.unaPOSOf(c.POS)
		if perr != nil {
			return false, false, perr
		}
		appI := uint32(dicIndex)<<24 | (c.AppI & 0xFFFFFF)

		id, err := h.lat.Set(p, c.Length, c.POS, unaPOS, c.Cost, appI, c.SubI, d.Priority(), c.Collocation)
		if err != nil {
			if isOverflow(err) {
				return false, true, nil
			}
			return false, false, err
		}
		if id == 0 {
			continue // silently dropped by the priority rule
		}
		if c.Collocation {
			subs, err := d.SubMorphemes(c.SubI)
			if err != nil {
				return false, false, err
			}
			if _, err := h.lat.ExpandPriority(subs); err != nil {
				return false, false, err
			}
			return true, false, nil
		}
	}
	return false, false, nil
}

func (h *Handle) registerEnglishCandidates(text []charclass.CodeUnit, p int) (overflow bool, err error) {
	dicIndex := len(h.dicts)
	for _, c := range h.eng.Scan(text, p) {
		pos := englishPOS(c.Type)
		if pos == 0 {
			continue // space/newline/symbol runs don't register a standalone morpheme
		}

		subI := uint32(0xFFFFFF)
		if c.Type == english.RegHyphenContinuation {
			groups, ok := english.PhonologicalCheck(text, p, c.Length)
			if !ok {
				continue
			}
			subI = uint32(4 + groups)
		}

		unaPOS, perr := h.unaPOSOf(pos)
		if perr != nil {
			return false, perr
		}
		appI := uint32(dicIndex) << 24
		if _, err := h.lat.Set(p, c.Length, pos, unaPOS, c.Cost, appI, subI, 0, false); err != nil {
			if isOverflow(err) {
				return true, nil
			}
			return false, err
		}
	}
	return false, nil
}

// englishPOS maps an English-detector registration type to a
// morpheme-POS, grounded on unamdeng.cpp's EngMorHinTable (SPEC_FULL
// §4): normal, hyphen-continuation, numeric and initialism
// registrations get UserDefinedPOS1; the rest (symbol/space/newline)
// map to 0 and never become standalone morphemes in this kernel.
func englishPOS(t english.RegistrationType) uint16 {
	switch t {
	case english.RegNormal, english.RegHyphenContinuation, english.RegNumeric, english.RegInitialism:
		return UserDefinedPOS1
	default:
		return 0
	}
}

func (h *Handle) registerUnknownCandidates(text []charclass.CodeUnit, p int, opts config.Options, maxWordLen int) (overflow bool, err error) {
	dicIndex := len(h.dicts) + 1
	scanOpts := unknown.ScanOptions{
		NonJapanese: opts.NonJapanese,
		EmulateBug:  opts.EmulateBug,
		MaxWordLen:  maxWordLen,
		MorphCheck:  h.lat.MorphCheck,
	}
	for _, c := range h.unk.Scan(text, p, scanOpts) {
		pos := h.unk.ApplyControlRemap(text[p], c.POS)
		unaPOS, perr := h.unaPOSOf(pos)
		if perr != nil {
			return false, perr
		}
		appI := uint32(dicIndex) << 24
		if _, err := h.lat.Set(p, c.Length, pos, unaPOS, c.Cost, appI, 0xFFFFFF, 0, false); err != nil {
			if isOverflow(err) {
				return true, nil
			}
			return false, err
		}
	}
	return false, nil
}

// isLowSurrogateContinuation reports whether text[p] is the low half of
// a surrogate pair whose high half sits at text[p-1] (spec §8 property
// 7, §3's "Morpheme" length note).
func isLowSurrogateContinuation(text []charclass.CodeUnit, p int) bool {
	return p > 0 && p < len(text) &&
		charclass.IsLowSurrogate(text[p]) && charclass.IsHighSurrogate(text[p-1])
}

func (h *Handle) unaPOSOf(pos uint16) (uint16, error) {
	if pos == lattice.VoidPOS {
		return 0, nil
	}
	return h.conn.UnaPOS(pos)
}
