// Package morse turns text into its Morse code representation, keeping track
// of which source character each position of the code belongs to.
package morse

import (
	"strings"
	"unicode"

	"github.com/ftl/digimodes/cw"
)

const (
	// FallbackSymbol is emitted for characters that have no Morse code.
	FallbackSymbol = "?"
	// WordSeparator is emitted for the space character, separating words.
	WordSeparator = "/"
	// LetterSeparator joins the symbols of consecutive characters.
	LetterSeparator = " "
)

// Message is the Morse code representation of a piece of text. TextIndex has
// one entry per byte of Code and contains the rune index of the source
// character that this position of the code belongs to, including the letter
// separators. len(TextIndex) == len(Code) always holds.
type Message struct {
	Code      string
	TextIndex []int
}

// Empty indicates that this message contains no playable code.
func (m Message) Empty() bool {
	return strings.TrimSpace(m.Code) == ""
}

var encodeTable = generateEncodeTable()

func generateEncodeTable() map[rune]string {
	result := make(map[rune]string, len(cw.Code))
	for text, symbols := range cw.Code {
		var code strings.Builder
		for _, s := range symbols {
			switch s {
			case cw.Dit:
				code.WriteByte('.')
			case cw.Da:
				code.WriteByte('-')
			}
		}
		result[text] = code.String()
	}
	return result
}

// SymbolOf returns the Morse code of the given character. Unknown characters
// yield the fallback symbol, space yields the word separator. The lookup is
// case-insensitive, cw.Code is defined for lowercase characters.
func SymbolOf(r rune) string {
	if r == ' ' {
		return WordSeparator
	}
	symbol, ok := encodeTable[unicode.ToLower(r)]
	if !ok {
		return FallbackSymbol
	}
	return symbol
}

// Encode translates the given text into a Message. Encode is a pure function:
// equal input texts yield byte-identical codes and index maps.
func Encode(text string) Message {
	runes := []rune(text)
	var code strings.Builder
	textIndex := make([]int, 0, len(runes)*4)

	for i, r := range runes {
		symbol := SymbolOf(r)
		code.WriteString(symbol)
		for range symbol {
			textIndex = append(textIndex, i)
		}
		if i < len(runes)-1 {
			code.WriteString(LetterSeparator)
			textIndex = append(textIndex, i)
		}
	}

	return Message{
		Code:      code.String(),
		TextIndex: textIndex,
	}
}
