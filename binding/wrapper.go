package main

import (
	// #include <stdlib.h>
	"C"
	"encoding/json"
	"unsafe"
	"unicode/utf16"

	"github.com/rs/zerolog"

	"github.com/unalang/una/config"
	"github.com/unalang/una/morpho"
)

var handle *morpho.Handle

//export CreateAnalyzer
func CreateAnalyzer() {
	handle, _ = morpho.OpenFileDefault(zerolog.Nop())
}

//export AnalyzeWord
func AnalyzeWord(word *C.char) *C.char {
	goWord := C.GoString(word)
	text := utf16.Encode([]rune(goWord))

	morphemes, _, _ := handle.AnalyzeMorpho(text, nil, config.Options{})
	tokens := make([]morpho.Token, len(morphemes))
	for i, m := range morphemes {
		tokens[i] = handle.Token(m, text)
	}
	tokensJson, _ := json.Marshal(tokens)

	return C.CString(string(tokensJson))
}

//export FreeString
func FreeString(str *C.char) {
	if str != nil {
		C.free(unsafe.Pointer(str))
	}
}

//export ReleaseAnalyzer
func ReleaseAnalyzer() {
	if handle != nil {
		handle.Close()
	}
	handle = nil
}

func main() {}
