package engine

import (
	"io"
	"sync"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/keyspell/internal/engine/buffer"
)

// Re-export commonly used types for convenience.
type (
	// ByteOffset is a byte position in the buffer.
	ByteOffset = buffer.ByteOffset

	// Point represents a line/column position.
	Point = buffer.Point

	// Range represents a byte range in the buffer.
	Range = buffer.Range

	// LineEnding specifies the line ending style.
	LineEnding = buffer.LineEnding
)

// Re-export constants.
const (
	LineEndingLF   = buffer.LineEndingLF
	LineEndingCRLF = buffer.LineEndingCRLF
)

// BufferChangedFunc is called after the engine switches to another buffer.
type BufferChangedFunc func(old, new *buffer.Buffer)

// Engine is a view onto a text buffer. It owns the scroll position used to
// map window coordinates to text, the editing commands a front end binds to
// keys, and the buffer binding itself, which may be replaced at any time.
//
// All operations are thread-safe and can be called from multiple goroutines.
type Engine struct {
	mu sync.RWMutex

	buf *buffer.Buffer

	// Viewport
	topLine uint32
	leftCol int

	// Configuration
	tabWidth   int
	lineEnding buffer.LineEnding
	segmenter  buffer.Segmenter
	readOnly   bool

	listenerMu sync.Mutex
	listeners  map[int]BufferChangedFunc
	nextID     int

	// Initialization
	initContent string
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := newEngine(opts)
	if e.initContent != "" {
		e.buf = buffer.NewBufferFromString(e.initContent, e.bufferOptions()...)
	} else {
		e.buf = buffer.NewBuffer(e.bufferOptions()...)
	}
	return e
}

// NewFromReader creates an Engine from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	e := newEngine(opts)
	var err error
	e.buf, err = buffer.NewBufferFromReader(r, e.bufferOptions()...)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		tabWidth:   DefaultTabWidth,
		lineEnding: buffer.LineEndingLF,
		listeners:  make(map[int]BufferChangedFunc),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// bufferOptions returns the options used for buffers this engine creates.
func (e *Engine) bufferOptions() []buffer.Option {
	return []buffer.Option{
		buffer.WithTabWidth(e.tabWidth),
		buffer.WithLineEnding(e.lineEnding),
		buffer.WithSegmenter(e.segmenter),
	}
}

// NewBuffer creates an empty buffer configured like this engine's own, but
// does not bind it.
func (e *Engine) NewBuffer(content string) *buffer.Buffer {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return buffer.NewBufferFromString(content, e.bufferOptions()...)
}

// ============================================================================
// Buffer binding
// ============================================================================

// Buffer returns the buffer currently shown.
func (e *Engine) Buffer() *buffer.Buffer {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf
}

// SetBuffer shows a different buffer and notifies buffer-changed
// listeners. Setting the current buffer again is a no-op.
func (e *Engine) SetBuffer(buf *buffer.Buffer) {
	if buf == nil {
		return
	}
	e.mu.Lock()
	old := e.buf
	if old == buf {
		e.mu.Unlock()
		return
	}
	e.buf = buf
	e.topLine = 0
	e.leftCol = 0
	e.mu.Unlock()

	e.listenerMu.Lock()
	fns := make([]BufferChangedFunc, 0, len(e.listeners))
	for id := 0; id <= e.nextID; id++ {
		if fn, ok := e.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	e.listenerMu.Unlock()

	for _, fn := range fns {
		fn(old, buf)
	}
}

// OnBufferChanged registers fn to run after SetBuffer binds a new buffer.
// The returned function removes the listener.
func (e *Engine) OnBufferChanged(fn BufferChangedFunc) (remove func()) {
	e.listenerMu.Lock()
	defer e.listenerMu.Unlock()
	e.nextID++
	id := e.nextID
	e.listeners[id] = fn
	return func() {
		e.listenerMu.Lock()
		defer e.listenerMu.Unlock()
		delete(e.listeners, id)
	}
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the full buffer content.
func (e *Engine) Text() string {
	return e.Buffer().Text()
}

// Len returns the total byte length of the buffer.
func (e *Engine) Len() ByteOffset {
	return e.Buffer().Len()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() uint32 {
	return e.Buffer().LineCount()
}

// LineText returns the text of a specific line (without newline).
func (e *Engine) LineText(line uint32) string {
	return e.Buffer().LineText(line)
}

// TabWidth returns the configured tab width.
func (e *Engine) TabWidth() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tabWidth
}

// IsReadOnly reports whether edit commands are rejected.
func (e *Engine) IsReadOnly() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.readOnly
}

// ============================================================================
// Viewport
// ============================================================================

// ScrollPosition returns the first visible line and the horizontal scroll
// in display cells.
func (e *Engine) ScrollPosition() (topLine uint32, leftCol int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.topLine, e.leftCol
}

// ScrollTo sets the viewport origin, clamping the line to the buffer.
func (e *Engine) ScrollTo(topLine uint32, leftCol int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n := e.buf.LineCount(); topLine >= n {
		topLine = n - 1
	}
	if leftCol < 0 {
		leftCol = 0
	}
	e.topLine = topLine
	e.leftCol = leftCol
}

// EnsureVisible scrolls the minimum amount so offset is inside a viewport
// of the given size.
func (e *Engine) EnsureVisible(offset ByteOffset, width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.buf.OffsetToPoint(offset)
	if p.Line < e.topLine {
		e.topLine = p.Line
	} else if height > 0 && p.Line >= e.topLine+uint32(height) {
		e.topLine = p.Line - uint32(height) + 1
	}
	col := e.displayColumn(e.buf.LineText(p.Line), int(p.Column))
	if col < e.leftCol {
		e.leftCol = col
	} else if width > 0 && col >= e.leftCol+width {
		e.leftCol = col - width + 1
	}
}

// OffsetAtLocation maps a window cell to the buffer offset of the character
// drawn there. Cells past the end of a line map to the line end; rows past
// the last line map to the buffer end.
func (e *Engine) OffsetAtLocation(x, y int) ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if y < 0 {
		y = 0
	}
	line := e.topLine + uint32(y)
	if line >= e.buf.LineCount() {
		return e.buf.Len()
	}
	start := e.buf.LineStartOffset(line)
	text := e.buf.LineText(line)
	target := e.leftCol + x

	col := 0
	for i, r := range text {
		w := e.runeWidth(r, col)
		if target < col+w {
			return start + ByteOffset(i)
		}
		col += w
	}
	return start + ByteOffset(len(text))
}

// DisplayColumn returns the display cell of the byte column in line text,
// expanding tabs and counting wide characters.
func (e *Engine) DisplayColumn(text string, byteCol int) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.displayColumn(text, byteCol)
}

func (e *Engine) displayColumn(text string, byteCol int) int {
	col := 0
	for i, r := range text {
		if i >= byteCol {
			break
		}
		col += e.runeWidth(r, col)
	}
	return col
}

func (e *Engine) runeWidth(r rune, col int) int {
	if r == '\t' {
		return e.tabWidth - col%e.tabWidth
	}
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 1
}

// ============================================================================
// Cursor
// ============================================================================

// Cursor returns the insertion point.
func (e *Engine) Cursor() ByteOffset {
	return e.Buffer().Cursor()
}

// CursorPoint returns the insertion point as line/column.
func (e *Engine) CursorPoint() Point {
	buf := e.Buffer()
	return buf.OffsetToPoint(buf.Cursor())
}

// SetCursor moves the insertion point, clamping to the buffer.
func (e *Engine) SetCursor(offset ByteOffset) {
	buf := e.Buffer()
	if offset < 0 {
		offset = 0
	}
	if n := buf.Len(); offset > n {
		offset = n
	}
	buf.PlaceCursor(offset)
}

// MoveLeft moves the cursor one character back.
func (e *Engine) MoveLeft() {
	buf := e.Buffer()
	_, size := buf.RuneBefore(buf.Cursor())
	if size > 0 {
		buf.PlaceCursor(buf.Cursor() - ByteOffset(size))
	}
}

// MoveRight moves the cursor one character forward.
func (e *Engine) MoveRight() {
	buf := e.Buffer()
	_, size := buf.RuneAt(buf.Cursor())
	if size > 0 {
		buf.PlaceCursor(buf.Cursor() + ByteOffset(size))
	}
}

// MoveUp moves the cursor to the previous line, keeping the display column
// where possible.
func (e *Engine) MoveUp() {
	p := e.CursorPoint()
	if p.Line == 0 {
		e.SetCursor(0)
		return
	}
	e.moveToLine(p, p.Line-1)
}

// MoveDown moves the cursor to the next line.
func (e *Engine) MoveDown() {
	buf := e.Buffer()
	p := e.CursorPoint()
	if p.Line+1 >= buf.LineCount() {
		e.SetCursor(buf.Len())
		return
	}
	e.moveToLine(p, p.Line+1)
}

func (e *Engine) moveToLine(from Point, line uint32) {
	buf := e.Buffer()
	col := e.DisplayColumn(buf.LineText(from.Line), int(from.Column))
	text := buf.LineText(line)

	e.mu.RLock()
	i, cur := 0, 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		w := e.runeWidth(r, cur)
		if cur+w > col {
			break
		}
		cur += w
		i += size
	}
	e.mu.RUnlock()

	buf.PlaceCursor(buf.LineStartOffset(line) + ByteOffset(i))
}

// MoveLineStart moves the cursor to the start of its line.
func (e *Engine) MoveLineStart() {
	buf := e.Buffer()
	buf.PlaceCursor(buf.LineStartOffset(e.CursorPoint().Line))
}

// MoveLineEnd moves the cursor to the end of its line.
func (e *Engine) MoveLineEnd() {
	buf := e.Buffer()
	buf.PlaceCursor(buf.LineEndOffset(e.CursorPoint().Line))
}

// ============================================================================
// Write Operations
// ============================================================================

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (e *Engine) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	if e.IsReadOnly() {
		return 0, ErrReadOnly
	}
	return e.Buffer().Insert(offset, text)
}

// Delete removes text in the given range.
func (e *Engine) Delete(start, end ByteOffset) error {
	if e.IsReadOnly() {
		return ErrReadOnly
	}
	return e.Buffer().Delete(start, end)
}

// Replace replaces text in the given range with new text.
func (e *Engine) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	if e.IsReadOnly() {
		return 0, ErrReadOnly
	}
	return e.Buffer().Replace(start, end, text)
}

// InsertAtCursor types text at the insertion point. The cursor ends up
// after the inserted text.
func (e *Engine) InsertAtCursor(text string) error {
	_, err := e.Insert(e.Cursor(), text)
	return err
}

// Backspace deletes the character before the cursor.
func (e *Engine) Backspace() error {
	buf := e.Buffer()
	cur := buf.Cursor()
	_, size := buf.RuneBefore(cur)
	if size == 0 {
		return nil
	}
	return e.Delete(cur-ByteOffset(size), cur)
}

// DeleteForward deletes the character after the cursor.
func (e *Engine) DeleteForward() error {
	buf := e.Buffer()
	cur := buf.Cursor()
	_, size := buf.RuneAt(cur)
	if size == 0 {
		return nil
	}
	return e.Delete(cur, cur+ByteOffset(size))
}

// Newline inserts a line break at the cursor.
func (e *Engine) Newline() error {
	return e.InsertAtCursor("\n")
}
