package buffer

import (
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrTagExists        = errors.New("tag already exists")
	ErrTagNotFound      = errors.New("tag not found")
	ErrMarkNotFound     = errors.New("mark not found")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	if le == LineEndingCRLF {
		return "\\r\\n"
	}
	return "\\n"
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	if le == LineEndingCRLF {
		return "\r\n"
	}
	return "\n"
}

// Buffer is an editable text with tags, marks and change notifications.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	text       string
	lineStarts []ByteOffset
	revisionID RevisionID
	lineEnding LineEnding
	tabWidth   int
	segmenter  Segmenter

	tags      map[string]*Tag
	tagOrder  []string
	tagRanges map[string][]Range
	marks     map[string]*mark

	obsMu     sync.Mutex
	observers []subscription
	nextSubID int
}

// NewBuffer creates a new empty buffer.
// The buffer starts with the InsertMark at offset 0.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lineStarts: []ByteOffset{0},
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
		tabWidth:   4,
		segmenter:  UnicodeSegmenter,
		tags:       make(map[string]*Tag),
		tagRanges:  make(map[string][]Range),
		marks:      make(map[string]*mark),
	}

	for _, opt := range opts {
		opt(b)
	}

	b.marks[InsertMark] = &mark{name: InsertMark}
	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.text = b.normalizeLineEndings(s)
	b.rebuildLines()
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

// normalizeLineEndings converts all line endings to the buffer's preferred style.
func (b *Buffer) normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if b.lineEnding == LineEndingCRLF {
		s = strings.ReplaceAll(s, "\n", "\r\n")
	}
	return s
}

// rebuildLines recomputes the line start index. Caller holds the write lock.
func (b *Buffer) rebuildLines() {
	starts := b.lineStarts[:0]
	starts = append(starts, 0)
	for i := 0; i < len(b.text); i++ {
		if b.text[i] == '\n' {
			starts = append(starts, ByteOffset(i+1))
		}
	}
	b.lineStarts = starts
}

// checkOffset panics if offset is outside [0, len]. Caller holds a lock.
func (b *Buffer) checkOffset(offset ByteOffset) {
	if offset < 0 || offset > ByteOffset(len(b.text)) {
		panic("buffer: offset out of range")
	}
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// TextRange returns text in the given byte range.
// Offsets are clamped to the buffer bounds.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := ByteOffset(len(b.text))
	start = clamp(start, 0, n)
	end = clamp(end, start, n)
	return b.text[start:end]
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(len(b.text))
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return uint32(len(b.lineStarts))
}

// LineText returns the text of a specific line (without newline).
func (b *Buffer) LineText(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if int(line) >= len(b.lineStarts) {
		return ""
	}
	return b.text[b.lineStartLocked(line):b.lineEndLocked(line)]
}

// LineLen returns the length of a specific line in bytes (without newline).
func (b *Buffer) LineLen(line uint32) int {
	return len(b.LineText(line))
}

// RuneAt returns the rune starting at the given byte offset and its size.
// Returns utf8.RuneError and size 0 at the end of the buffer.
func (b *Buffer) RuneAt(offset ByteOffset) (rune, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	b.checkOffset(offset)
	if offset == ByteOffset(len(b.text)) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(b.text[offset:])
}

// RuneBefore returns the rune ending at the given byte offset and its size.
// Returns utf8.RuneError and size 0 at the start of the buffer.
func (b *Buffer) RuneBefore(offset ByteOffset) (rune, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	b.checkOffset(offset)
	if offset == 0 {
		return utf8.RuneError, 0
	}
	return utf8.DecodeLastRuneInString(b.text[:offset])
}

// Coordinate Conversion

// LineAt returns the 0-indexed line containing offset.
func (b *Buffer) LineAt(offset ByteOffset) uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	b.checkOffset(offset)
	return b.lineAtLocked(offset)
}

func (b *Buffer) lineAtLocked(offset ByteOffset) uint32 {
	i := sort.Search(len(b.lineStarts), func(i int) bool {
		return b.lineStarts[i] > offset
	})
	return uint32(i - 1)
}

// OffsetToPoint converts a byte offset to line/column.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	b.checkOffset(offset)
	line := b.lineAtLocked(offset)
	return Point{Line: line, Column: uint32(offset - b.lineStarts[line])}
}

// PointToOffset converts line/column to byte offset.
// Points past the end of a line clamp to the line end; lines past the end
// of the buffer clamp to the buffer end.
func (b *Buffer) PointToOffset(point Point) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if int(point.Line) >= len(b.lineStarts) {
		return ByteOffset(len(b.text))
	}
	start := b.lineStartLocked(point.Line)
	end := b.lineEndLocked(point.Line)
	return clamp(start+ByteOffset(point.Column), start, end)
}

// LineStartOffset returns the byte offset of the start of a line.
func (b *Buffer) LineStartOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineStartLocked(line)
}

// LineEndOffset returns the byte offset of the end of a line (before newline).
func (b *Buffer) LineEndOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEndLocked(line)
}

func (b *Buffer) lineStartLocked(line uint32) ByteOffset {
	if int(line) >= len(b.lineStarts) {
		return ByteOffset(len(b.text))
	}
	return b.lineStarts[line]
}

func (b *Buffer) lineEndLocked(line uint32) ByteOffset {
	if int(line)+1 >= len(b.lineStarts) {
		return ByteOffset(len(b.text))
	}
	end := b.lineStarts[line+1] - 1 // the '\n'
	if end > b.lineStarts[line] && b.text[end-1] == '\r' {
		end--
	}
	return end
}

// Write Operations

// Insert inserts text at the given offset.
// Observers see BeforeInsert with the insertion offset and AfterInsert
// with the end of the inserted text.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	if offset < 0 || offset > ByteOffset(len(b.text)) {
		b.mu.Unlock()
		return 0, ErrOffsetOutOfRange
	}
	text = b.normalizeLineEndings(text)
	b.mu.Unlock()

	if text == "" {
		return offset, nil
	}

	b.notify(func(o Observer) { o.BeforeInsert(offset, text) })

	b.mu.Lock()
	// An observer may have edited the buffer; revalidate.
	if offset > ByteOffset(len(b.text)) {
		b.mu.Unlock()
		return 0, ErrOffsetOutOfRange
	}
	n := ByteOffset(len(text))
	b.text = b.text[:offset] + text + b.text[offset:]
	b.shiftMarksForInsert(offset, n)
	b.shiftTagsForInsert(offset, n)
	b.rebuildLines()
	b.revisionID = NewRevisionID()
	end := offset + n
	b.mu.Unlock()

	b.notify(func(o Observer) { o.AfterInsert(end, text) })
	return end, nil
}

// Delete removes text in the given range.
// Observers see AfterDelete with the revalidated range: both offsets equal
// start once the text is gone.
func (b *Buffer) Delete(start, end ByteOffset) error {
	b.mu.Lock()
	if start < 0 || start > end || end > ByteOffset(len(b.text)) {
		b.mu.Unlock()
		return ErrRangeInvalid
	}
	if start == end {
		b.mu.Unlock()
		return nil
	}
	b.text = b.text[:start] + b.text[end:]
	b.shiftMarksForDelete(start, end)
	b.shiftTagsForDelete(start, end)
	b.rebuildLines()
	b.revisionID = NewRevisionID()
	b.mu.Unlock()

	b.notify(func(o Observer) { o.AfterDelete(start, start) })
	return nil
}

// Replace replaces text in the given range with new text.
// It is a Delete followed by an Insert and notifies accordingly.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	if err := b.Delete(start, end); err != nil {
		return 0, err
	}
	return b.Insert(start, text)
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

func clamp(v, lo, hi ByteOffset) ByteOffset {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
