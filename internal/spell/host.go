package spell

import (
	"github.com/dshills/keyspell/internal/engine"
	"github.com/dshills/keyspell/internal/engine/buffer"
)

// Words is the word segmentation the scanner builds on. Offsets are byte
// offsets; a character is one UTF-8 encoded rune. Offsets outside
// [0, Len()] are a programmer error and may panic.
type Words interface {
	Len() int64
	RuneAt(offset int64) (rune, int)
	RuneBefore(offset int64) (rune, int)

	StartsWord(offset int64) bool
	EndsWord(offset int64) bool
	InsideWord(offset int64) bool

	// ForwardWordEnd returns the first word end after offset, or false
	// when there is none.
	ForwardWordEnd(offset int64) (int64, bool)
	// BackwardWordStart returns the last word start before offset, or
	// false when there is none.
	BackwardWordStart(offset int64) (int64, bool)
}

// Buffer is the host text buffer a checker runs against. *buffer.Buffer
// implements it.
type Buffer interface {
	Words

	Text() string
	TextRange(start, end int64) string
	LineAt(offset int64) uint32
	LineStartOffset(line uint32) int64
	LineEndOffset(line uint32) int64

	CreateTag(name string, opts ...buffer.TagOption) (*buffer.Tag, error)
	LookupTag(name string) *buffer.Tag
	Tags() []*buffer.Tag
	ApplyTag(name string, start, end int64)
	RemoveTag(name string, start, end int64)
	HasTag(name string, offset int64) bool
	TagRanges(name string) []buffer.Range

	CreateMark(name string, offset int64, leftGravity bool)
	MoveMark(name string, offset int64) error
	MarkOffset(name string) (int64, bool)

	Insert(offset int64, text string) (int64, error)
	Delete(start, end int64) error

	Subscribe(o buffer.Observer) (unsubscribe func())
}

// View is the widget a checker is attached to. It shows one buffer at a
// time and may switch buffers. Views passed to Attach, Lookup or Detach
// must have a comparable dynamic type.
type View interface {
	Buffer() Buffer
	// OffsetAtLocation maps a window cell to a buffer offset.
	OffsetAtLocation(x, y int) int64
	// OnBufferChanged registers fn to run after the view shows a new
	// buffer.
	OnBufferChanged(fn func()) (remove func())
}

var _ Buffer = (*buffer.Buffer)(nil)

// engineView adapts an engine to View. It is a value type so two adapters
// of the same engine are equal and find the same registry entry.
type engineView struct {
	e *engine.Engine
}

// EngineView returns the View for an engine.
func EngineView(e *engine.Engine) View {
	return engineView{e: e}
}

func (v engineView) Buffer() Buffer {
	return v.e.Buffer()
}

func (v engineView) OffsetAtLocation(x, y int) int64 {
	return v.e.OffsetAtLocation(x, y)
}

func (v engineView) OnBufferChanged(fn func()) func() {
	return v.e.OnBufferChanged(func(_, _ *buffer.Buffer) { fn() })
}
