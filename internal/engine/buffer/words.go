package buffer

import (
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Segmenter splits one line of text into word ranges. Offsets in the
// returned ranges are relative to the start of the line, sorted and
// disjoint. Words never span lines.
type Segmenter func(line string) []Range

// UnicodeSegmenter finds words with the UAX #29 word boundary rules. A
// segment counts as a word when it contains a letter or a digit, so
// "don't" and "3.14" are single words and punctuation runs are not.
func UnicodeSegmenter(line string) []Range {
	var (
		words []Range
		state = -1
		pos   ByteOffset
		word  string
	)
	for len(line) > 0 {
		word, line, state = uniseg.FirstWordInString(line, state)
		n := ByteOffset(len(word))
		if isWordSegment(word) {
			words = append(words, Range{Start: pos, End: pos + n})
		}
		pos += n
	}
	return words
}

// LetterRunSegmenter treats every maximal run of letters, marks and digits
// as a word. Apostrophes and other punctuation always break words, so
// "don't" is the two words "don" and "t".
func LetterRunSegmenter(line string) []Range {
	var words []Range
	start := ByteOffset(-1)
	for i, r := range line {
		if isWordRune(r) {
			if start < 0 {
				start = ByteOffset(i)
			}
			continue
		}
		if start >= 0 {
			words = append(words, Range{Start: start, End: ByteOffset(i)})
			start = -1
		}
	}
	if start >= 0 {
		words = append(words, Range{Start: start, End: ByteOffset(len(line))})
	}
	return words
}

func isWordSegment(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// lineWordsLocked returns the words of the line containing offset, in
// buffer coordinates. Caller holds a lock.
func (b *Buffer) lineWordsLocked(line uint32) []Range {
	start := b.lineStartLocked(line)
	end := b.lineEndLocked(line)
	words := b.segmenter(b.text[start:end])
	for i := range words {
		words[i] = words[i].Shift(start)
	}
	return words
}

// StartsWord reports whether offset is the first character of a word.
func (b *Buffer) StartsWord(offset ByteOffset) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	b.checkOffset(offset)
	for _, w := range b.lineWordsLocked(b.lineAtLocked(offset)) {
		if w.Start == offset {
			return true
		}
	}
	return false
}

// EndsWord reports whether offset is just past the last character of a
// word.
func (b *Buffer) EndsWord(offset ByteOffset) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	b.checkOffset(offset)
	for _, w := range b.lineWordsLocked(b.lineAtLocked(offset)) {
		if w.End == offset {
			return true
		}
	}
	return false
}

// InsideWord reports whether the character at offset belongs to a word.
// A word's start is inside it; its end is not.
func (b *Buffer) InsideWord(offset ByteOffset) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	b.checkOffset(offset)
	_, ok := b.wordAtLocked(offset)
	return ok
}

// WordAt returns the word containing the character at offset.
func (b *Buffer) WordAt(offset ByteOffset) (Range, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	b.checkOffset(offset)
	return b.wordAtLocked(offset)
}

func (b *Buffer) wordAtLocked(offset ByteOffset) (Range, bool) {
	for _, w := range b.lineWordsLocked(b.lineAtLocked(offset)) {
		if w.Contains(offset) {
			return w, true
		}
		if w.Start > offset {
			break
		}
	}
	return Range{}, false
}

// ForwardWordEnd returns the first word end strictly after offset. When no
// word ends after offset it returns the buffer length and false.
func (b *Buffer) ForwardWordEnd(offset ByteOffset) (ByteOffset, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	b.checkOffset(offset)
	n := uint32(len(b.lineStarts))
	for line := b.lineAtLocked(offset); line < n; line++ {
		for _, w := range b.lineWordsLocked(line) {
			if w.End > offset {
				return w.End, true
			}
		}
	}
	return ByteOffset(len(b.text)), false
}

// BackwardWordStart returns the last word start strictly before offset.
// When no word starts before offset it returns 0 and false.
func (b *Buffer) BackwardWordStart(offset ByteOffset) (ByteOffset, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	b.checkOffset(offset)
	for line := int64(b.lineAtLocked(offset)); line >= 0; line-- {
		words := b.lineWordsLocked(uint32(line))
		for i := len(words) - 1; i >= 0; i-- {
			if words[i].Start < offset {
				return words[i].Start, true
			}
		}
	}
	return 0, false
}

// RuneCount returns the number of characters in [start, end).
func (b *Buffer) RuneCount(start, end ByteOffset) int {
	return utf8.RuneCountInString(b.TextRange(start, end))
}
