package config

import (
	"strings"
	"testing"
)

func TestParseDictListBasic(t *testing.T) {
	input := "# comment\n1,general\n\n2,custom\n"
	entries, err := ParseDictList(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0] != (DictEntry{Priority: 1, BaseName: "general"}) {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1] != (DictEntry{Priority: 2, BaseName: "custom"}) {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
}

func TestParseDictListDefaultsWhenEmpty(t *testing.T) {
	entries, err := ParseDictList(strings.NewReader("# just a comment\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0] != DefaultDictEntry {
		t.Errorf("expected the default entry, got %+v", entries)
	}
}

func TestParseDictListRejectsDecreasingPriority(t *testing.T) {
	_, err := ParseDictList(strings.NewReader("2,a\n1,b\n"))
	if err == nil {
		t.Fatal("expected an error for decreasing priority")
	}
}

func TestParseDictListRejectsOutOfRangePriority(t *testing.T) {
	_, err := ParseDictList(strings.NewReader("0,a\n"))
	if err == nil {
		t.Fatal("expected an error for priority 0")
	}
	_, err = ParseDictList(strings.NewReader("256,a\n"))
	if err == nil {
		t.Fatal("expected an error for priority 256")
	}
}

func TestParseDictListRejectsMalformedLine(t *testing.T) {
	_, err := ParseDictList(strings.NewReader("not-a-valid-line\n"))
	if err == nil {
		t.Fatal("expected an error for a line without a comma")
	}
}

func TestLoadFile(t *testing.T) {
	input := `
[resources]
word_dict_list = "dicts.list"
connection = "con.bin"

[defaults]
ExecuteNormalization = true
MaxWordLength = 64
`
	f, err := LoadFile(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Resources.WordDictList != "dicts.list" {
		t.Errorf("unexpected word_dict_list: %q", f.Resources.WordDictList)
	}
	if !f.Defaults.ExecuteNormalization {
		t.Error("expected ExecuteNormalization to be true")
	}
	if f.Defaults.MaxWordLength != 64 {
		t.Errorf("expected MaxWordLength 64, got %d", f.Defaults.MaxWordLength)
	}
}
