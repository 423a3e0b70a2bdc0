// Package morpho ties every analyzer-kernel component together behind
// a single Handle: the public Open/Close, analyze_morpho and
// analyze_kakariuke entry points named in spec §6, plus the narrow
// Morpheme/Token/Phrase contract spec §1 keeps from the original
// Data/LanguageData/WordData object framework.
//
// One Handle is one independent analyzer state (spec §5): its lattice,
// morpheme scratch and carried-over sentence tail are owned exclusively
// by it. Multiple handles may run concurrently as long as they share
// only the immutable resource Tables loaded once at Open.
package morpho

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/unalang/una/bunsetsu"
	"github.com/unalang/una/config"
	"github.com/unalang/una/connection"
	"github.com/unalang/una/dict"
	"github.com/unalang/una/english"
	"github.com/unalang/una/lattice"
	"github.com/unalang/una/normalize"
	"github.com/unalang/una/resource"
	"github.com/unalang/una/unknown"
)

// EnvResourceDir overrides the default resource directory used by
// OpenFileDefault, mirroring the teacher's STEOSMORPHY_DICT_PATH
// environment override (SPEC_FULL §1).
const EnvResourceDir = "UNA_RESOURCE_DIR"

// UserDefinedPOS1 is the morpheme-POS assigned to English-token
// morphemes (UNA_HIN_USER_DEFINED_1 in unamdeng.cpp's EngMorHinTable),
// reused for the RegNormal, RegHyphenContinuation, RegNumeric and
// RegInitialism registrations.
const UserDefinedPOS1 uint16 = 1

// dictionaries is capped at UNA_MORPH_DIC_MAX (spec §4.2).
const maxDictionaries = 16

// responsePollInterval bounds how often stop_fn is polled, matching
// spec §5's "stop respond within 0.1 second" intent without polling on
// every single character of a long run.
const responsePollInterval = 8

// Resources names every resource file an Open call needs. WordDictList,
// when non-empty, names a dictionary-list file (spec §6); its entries'
// BaseName is resolved to "<DictDir>/<BaseName>.dic" for the word
// dictionary and "<DictDir>/<BaseName>.inf" for its optional app-info
// companion. WordDictList empty means the single default dictionary
// (spec §6's "assume a single dictionary of priority 1").
type Resources struct {
	DictDir      string
	WordDictList string

	Connection    string
	Grammar       string // optional: "" disables bunsetsu/kakariuke
	UnknownClass  string
	UnknownCost   string
	English       string // optional: "" disables the English detector
	Normalization string // optional: "" disables the normalizer
}

// Handle is one independent analyzer state (spec §3 "Lifecycle", §5).
type Handle struct {
	dicts   []dict.Searcher
	appInfo []*dict.AppInfoDict // parallel to dicts; nil entries allowed

	eng  *english.Table
	unk  *unknown.Table
	conn *connection.Table
	gram *bunsetsu.Grammar // nil disables analyze_kakariuke
	norm *normalize.Table  // nil disables execute_normalization

	lat    lattice.Lattice
	maeHin uint16 // carried-over last-emitted morpheme POS (spec §5)

	defaults config.Options
	log      zerolog.Logger

	closers []func() error
}

// Open loads every resource named by res and assembles a ready-to-use
// Handle. Resources are shared immutably; only Handle.Close releases
// them (spec §3 Lifecycle).
func Open(res Resources, defaults config.Options, log zerolog.Logger) (*Handle, error) {
	h := &Handle{defaults: defaults, log: log}

	ok := false
	defer func() {
		if !ok {
			h.Close()
		}
	}()

	entries := []config.DictEntry{config.DefaultDictEntry}
	if res.WordDictList != "" {
		f, err := os.Open(res.WordDictList)
		if err != nil {
			return nil, fmt.Errorf("una/morpho: %w", err)
		}
		parsed, err := config.ParseDictList(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		entries = parsed
	}
	if len(entries) > maxDictionaries {
		return nil, fmt.Errorf("una/morpho: %d dictionaries exceeds the %d-dictionary limit", len(entries), maxDictionaries)
	}

	for _, e := range entries {
		dicPath := filepath.Join(res.DictDir, e.BaseName+".dic")
		d, err := dict.Load(dicPath, e.BaseName, e.Priority, log)
		if err != nil {
			return nil, err
		}
		h.closers = append(h.closers, d.Close)
		h.dicts = append(h.dicts, d)

		infoPath := filepath.Join(res.DictDir, e.BaseName+".inf")
		var info *dict.AppInfoDict
		if _, statErr := os.Stat(infoPath); statErr == nil {
			info, err = dict.LoadAppInfo(infoPath, e.BaseName, log)
			if err != nil {
				return nil, err
			}
			h.closers = append(h.closers, info.Close)
		}
		h.appInfo = append(h.appInfo, info)
	}

	connImg, err := resource.Open("connection", res.Connection, []resource.Tag{resource.TagConnection}, log)
	if err != nil {
		return nil, err
	}
	h.closers = append(h.closers, connImg.Close)
	h.conn, err = connection.Load(connImg, log)
	if err != nil {
		return nil, err
	}

	umkImg, err := resource.Open("unknown-class", res.UnknownClass, []resource.Tag{resource.TagUnknownCharClass}, log)
	if err != nil {
		return nil, err
	}
	h.closers = append(h.closers, umkImg.Close)
	ucImg, err := resource.Open("unknown-cost", res.UnknownCost, []resource.Tag{resource.TagUnknownCostTable}, log)
	if err != nil {
		return nil, err
	}
	h.closers = append(h.closers, ucImg.Close)
	h.unk, err = unknown.Load(umkImg, ucImg, log)
	if err != nil {
		return nil, err
	}

	if res.English != "" {
		engImg, err := resource.Open("english", res.English, []resource.Tag{resource.TagEnglishWithCost, resource.TagEnglishLegacy}, log)
		if err != nil {
			return nil, err
		}
		h.closers = append(h.closers, engImg.Close)
		h.eng, err = english.Load(engImg, log)
		if err != nil {
			return nil, err
		}
	}

	if res.Grammar != "" {
		gramImg, err := resource.Open("grammar", res.Grammar, []resource.Tag{resource.TagGrammar}, log)
		if err != nil {
			return nil, err
		}
		h.closers = append(h.closers, gramImg.Close)
		h.gram, err = bunsetsu.Load(gramImg, log)
		if err != nil {
			return nil, err
		}
	}

	if res.Normalization != "" {
		normImg, err := resource.Open("normalization", res.Normalization, []resource.Tag{resource.TagNormalization}, log)
		if err != nil {
			return nil, err
		}
		h.closers = append(h.closers, normImg.Close)
		h.norm, err = normalize.Load(normImg, log)
		if err != nil {
			return nil, err
		}
	}

	h.maeHin = h.conn.SentenceEndPOS
	ok = true
	return h, nil
}

// OpenFile loads a TOML deployment configuration (config.LoadFile) and
// opens a Handle from the resource paths and default options it names.
func OpenFile(tomlPath string, log zerolog.Logger) (*Handle, error) {
	f, err := os.Open(tomlPath)
	if err != nil {
		return nil, fmt.Errorf("una/morpho: %w", err)
	}
	defer f.Close()

	cfg, err := config.LoadFile(f)
	if err != nil {
		return nil, err
	}

	res := Resources{
		DictDir:       filepath.Dir(tomlPath),
		WordDictList:  cfg.Resources.WordDictList,
		Connection:    cfg.Resources.Connection,
		Grammar:       cfg.Resources.Grammar,
		UnknownClass:  cfg.Resources.UnknownClass,
		UnknownCost:   cfg.Resources.UnknownCost,
		English:       cfg.Resources.English,
		Normalization: cfg.Resources.Normalization,
	}
	return Open(res, cfg.Defaults, log)
}

// OpenFileDefault resolves a TOML deployment configuration the same way
// the teacher's LoadMorphAnalyzer resolves its dictionary: first via the
// UNA_RESOURCE_DIR environment variable (file name "una.toml" within
// it), falling back to a directory relative to this source file via
// runtime.Caller, exactly as the teacher does with its own package
// directory (SPEC_FULL §1).
func OpenFileDefault(log zerolog.Logger) (*Handle, error) {
	dir := os.Getenv(EnvResourceDir)
	if dir == "" {
		_, currentFile, _, ok := runtime.Caller(0)
		if !ok {
			return nil, fmt.Errorf("una/morpho: could not determine package directory for default resources")
		}
		dir = filepath.Dir(currentFile)
	}
	return OpenFile(filepath.Join(dir, "una.toml"), log)
}

// Close unmaps every resource this Handle opened, in reverse order.
func (h *Handle) Close() error {
	var firstErr error
	for i := len(h.closers) - 1; i >= 0; i-- {
		if err := h.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	h.closers = nil
	return firstErr
}

// SentenceTail returns the carried-over last-emitted morpheme POS
// (maeHin, spec §5) that participates in the connection cost of the
// first morpheme of the next analyze call.
func (h *Handle) SentenceTail() uint16 { return h.maeHin }

// SetSentenceTail overrides the carried-over last-emitted morpheme POS.
func (h *Handle) SetSentenceTail(pos uint16) { h.maeHin = pos }

// TerminateSentence resets the carried-over sentence tail to the
// connection table's sentence-end POS, so the next analyze call starts
// as if at the beginning of a fresh sentence (spec §5, §6).
func (h *Handle) TerminateSentence() { h.maeHin = h.conn.SentenceEndPOS }

// POSName returns the display name of a morpheme-POS number (spec §9's
// unaMorph_getHinName, supplemented in SPEC_FULL §4).
func (h *Handle) POSName(pos uint16) string { return h.conn.POSName(pos) }

