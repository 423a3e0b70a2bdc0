// Package config parses the dictionary-list file format and the
// analyze-time option set (spec §6), plus an optional TOML file for
// the handful of settings a deployment wants to fix ahead of time
// rather than pass on every call.
package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// DictEntry is one parsed line of a dictionary-list file: a priority
// and the base name of a dictionary resource set sharing that priority.
type DictEntry struct {
	Priority uint8
	BaseName string
}

// DefaultDictEntry is the single entry assumed when no dictionary-list
// file is present (spec §6).
var DefaultDictEntry = DictEntry{Priority: 1, BaseName: "default"}

// ParseDictList parses a dictionary-list file: one `<priority>,<base_name>`
// record per non-comment, non-empty line, `#`-prefixed comments, with
// priority required to be in 1..255 and monotonically non-decreasing
// across the file.
func ParseDictList(r io.Reader) ([]DictEntry, error) {
	var entries []DictEntry
	var lastPriority uint8

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("una/config: line %d: expected \"<priority>,<base_name>\"", lineNo)
		}

		priority, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || priority < 1 || priority > 255 {
			return nil, fmt.Errorf("una/config: line %d: priority must be 1..255, got %q", lineNo, parts[0])
		}
		if len(entries) > 0 && uint8(priority) < lastPriority {
			return nil, fmt.Errorf("una/config: line %d: priority %d is lower than the preceding entry's %d (must be non-decreasing)", lineNo, priority, lastPriority)
		}

		name := strings.TrimSpace(parts[1])
		if name == "" {
			return nil, fmt.Errorf("una/config: line %d: empty base name", lineNo)
		}

		entries = append(entries, DictEntry{Priority: uint8(priority), BaseName: name})
		lastPriority = uint8(priority)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("una/config: %w", err)
	}

	if len(entries) == 0 {
		return []DictEntry{DefaultDictEntry}, nil
	}
	return entries, nil
}

// Options are the configuration flags recognized on an analyze call
// (spec §6).
type Options struct {
	ExecuteNormalization bool
	IgnoreLineBreak      bool
	EmulateBug           bool
	NonJapanese          bool
	MaxWordLength        uint32
}

// File is the optional, deployment-wide TOML configuration: resource
// paths plus default analyze options applied when a call doesn't
// override them.
type File struct {
	Resources struct {
		WordDictList  string `toml:"word_dict_list"`
		Connection    string `toml:"connection"`
		Grammar       string `toml:"grammar"`
		UnknownClass  string `toml:"unknown_class"`
		UnknownCost   string `toml:"unknown_cost"`
		English       string `toml:"english"`
		Normalization string `toml:"normalization"`
	} `toml:"resources"`

	Defaults Options `toml:"defaults"`
}

// LoadFile parses a TOML deployment configuration.
func LoadFile(r io.Reader) (*File, error) {
	var f File
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("una/config: %w", err)
	}
	return &f, nil
}
