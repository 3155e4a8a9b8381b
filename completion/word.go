package completion

import (
	"strings"
	"unicode"
	"unicode/utf16"
)

// Position is a zero-based line and UTF-16 character offset, as used by LSP.
type Position struct {
	Line      uint32
	Character uint32
}

// Range is a half-open span on one line.
type Range struct {
	Start Position
	End   Position
}

// Empty reports whether the range has zero length.
func (r Range) Empty() bool {
	return r.Start == r.End
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// WordRangeAt returns the range and text of the word touching pos.
// A cursor directly after or before a word counts as touching it. When no
// word touches pos, the range is empty at pos and the word is "".
func WordRangeAt(text string, pos Position) (Range, string) {
	empty := Range{Start: pos, End: pos}

	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return empty, ""
	}

	line := []rune(strings.TrimSuffix(lines[pos.Line], "\r"))
	cursor := runeIndex(line, pos.Character)

	start := cursor
	for start > 0 && isWordRune(line[start-1]) {
		start--
	}

	end := cursor
	for end < len(line) && isWordRune(line[end]) {
		end++
	}

	if start == end {
		return empty, ""
	}

	return Range{
		Start: Position{Line: pos.Line, Character: utf16Len(line[:start])},
		End:   Position{Line: pos.Line, Character: utf16Len(line[:end])},
	}, string(line[start:end])
}

// LinePrefix returns the text of pos's line that precedes the cursor.
func LinePrefix(text string, pos Position) string {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return ""
	}

	line := []rune(strings.TrimSuffix(lines[pos.Line], "\r"))

	return string(line[:runeIndex(line, pos.Character)])
}

// Matches reports whether name is offered for prefix: an empty prefix
// matches everything, otherwise a case-sensitive prefix match.
func Matches(prefix, name string) bool {
	return prefix == "" || strings.HasPrefix(name, prefix)
}

// runeIndex converts a UTF-16 offset into an index into line, clamped to
// the line length.
func runeIndex(line []rune, character uint32) int {
	var units uint32

	for i, r := range line {
		if units >= character {
			return i
		}

		units += uint32(utf16.RuneLen(r)) //nolint:gosec // RuneLen is 1 or 2 for valid runes
	}

	return len(line)
}

func utf16Len(runes []rune) uint32 {
	var n uint32
	for _, r := range runes {
		n += uint32(utf16.RuneLen(r)) //nolint:gosec // RuneLen is 1 or 2 for valid runes
	}

	return n
}
