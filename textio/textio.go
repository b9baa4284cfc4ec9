// Package textio reads and writes the plain text that is played back: UTF-8
// input with a permissive single-byte fallback, and a combined text+Morse
// export.
package textio

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/ftl/cwplayer/morse"
)

// Decode interprets the given bytes as UTF-8. Invalid UTF-8 is decoded with
// ISO 8859-1 instead, so any byte sequence yields readable text.
func Decode(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("cannot decode text: %w", err)
	}
	return string(decoded), nil
}

// Load reads the given file and decodes its content.
func Load(filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("cannot load text: %w", err)
	}
	return Decode(data)
}

// Export writes the source text together with its Morse code representation.
func Export(w io.Writer, text string, message morse.Message) error {
	_, err := fmt.Fprintf(w, "%s\n\n%s\n", text, message.Code)
	return err
}

// ExportFile writes the combined text+Morse export to the given file.
func ExportFile(filename string, text string, message morse.Message) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot export text: %w", err)
	}
	defer file.Close()
	return Export(file, text, message)
}
