package prompt

import "unicode"

// Word boundaries treat runs of letters and digits as words; everything
// else is a separator.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// currentWordEnd returns the index of the last rune of the word at or
// after the cursor. If no word boundary is found it returns the last
// index of the text.
func currentWordEnd(text []rune, cursor int) int {
	i := cursor + 1
	for i < len(text) && !isWordRune(text[i]) {
		i++
	}
	for i < len(text) && isWordRune(text[i]) {
		i++
	}
	if i < len(text) {
		return i - 1
	}
	return max(len(text)-1, 0)
}

// currentWordStart returns the index of the first rune of the word at
// or before the cursor, scanning backwards. Falls back to 0.
func currentWordStart(text []rune, cursor int) int {
	i := min(cursor, len(text)) - 1
	for i >= 0 && !isWordRune(text[i]) {
		i--
	}
	for i >= 0 && isWordRune(text[i]) {
		i--
	}
	return i + 1
}

// nextWordStart returns the index of the first rune of the next word
// after the current one. If the text ends first it returns the last
// index.
func nextWordStart(text []rune, cursor int) int {
	i := cursor
	for i < len(text) && isWordRune(text[i]) {
		i++
	}
	for i < len(text) && !isWordRune(text[i]) {
		i++
	}
	if i < len(text) {
		return i
	}
	return max(len(text)-1, 0)
}
