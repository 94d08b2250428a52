package buffer

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()

	if !b.IsEmpty() {
		t.Error("new buffer should be empty")
	}
	if b.Len() != 0 {
		t.Errorf("expected length 0, got %d", b.Len())
	}
	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}
	if off, ok := b.MarkOffset(InsertMark); !ok || off != 0 {
		t.Errorf("insert mark = %d, %v; want 0, true", off, ok)
	}
}

func TestNewBufferFromString(t *testing.T) {
	text := "Hello, World!"
	b := NewBufferFromString(text)

	if b.Text() != text {
		t.Errorf("expected %q, got %q", text, b.Text())
	}
	if b.Len() != int64(len(text)) {
		t.Errorf("expected length %d, got %d", len(text), b.Len())
	}
}

func TestNewBufferFromReader(t *testing.T) {
	b, err := NewBufferFromReader(strings.NewReader("a\r\nb"))
	if err != nil {
		t.Fatalf("NewBufferFromReader: %v", err)
	}
	if b.Text() != "a\nb" {
		t.Errorf("expected normalized text, got %q", b.Text())
	}
}

func TestNewBufferFromStringMultiline(t *testing.T) {
	b := NewBufferFromString("line1\nline2\nline3")

	if b.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", b.LineCount())
	}
	for i, want := range []string{"line1", "line2", "line3"} {
		if got := b.LineText(uint32(i)); got != want {
			t.Errorf("LineText(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestBufferCRLF(t *testing.T) {
	b := NewBufferFromString("one\ntwo", WithCRLF())

	if b.Text() != "one\r\ntwo" {
		t.Fatalf("expected CRLF text, got %q", b.Text())
	}
	if got := b.LineEndOffset(0); got != 3 {
		t.Errorf("LineEndOffset(0) = %d, want 3", got)
	}
	if got := b.LineStartOffset(1); got != 5 {
		t.Errorf("LineStartOffset(1) = %d, want 5", got)
	}
	if b.LineText(0) != "one" {
		t.Errorf("LineText(0) = %q", b.LineText(0))
	}
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		text string
		want LineEnding
	}{
		{"", LineEndingLF},
		{"a\nb\n", LineEndingLF},
		{"a\r\nb\r\n", LineEndingCRLF},
		{"a\r\nb\nc\n", LineEndingLF},
	}
	for _, tt := range tests {
		if got := DetectLineEnding(tt.text); got != tt.want {
			t.Errorf("DetectLineEnding(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestBufferInsert(t *testing.T) {
	b := NewBufferFromString("Hello World")

	end, err := b.Insert(5, ",")
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if end != 6 {
		t.Errorf("expected end position 6, got %d", end)
	}
	if b.Text() != "Hello, World" {
		t.Errorf("expected 'Hello, World', got %q", b.Text())
	}
}

func TestBufferInsertAtBounds(t *testing.T) {
	b := NewBufferFromString("World")

	if _, err := b.Insert(0, "Hello "); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := b.Insert(b.Len(), "!"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if b.Text() != "Hello World!" {
		t.Errorf("expected 'Hello World!', got %q", b.Text())
	}
}

func TestBufferInsertOutOfRange(t *testing.T) {
	b := NewBufferFromString("Hello")

	if _, err := b.Insert(100, "X"); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
	if _, err := b.Insert(-1, "X"); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
}

func TestBufferDelete(t *testing.T) {
	b := NewBufferFromString("Hello, World!")

	if err := b.Delete(5, 7); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if b.Text() != "HelloWorld!" {
		t.Errorf("expected 'HelloWorld!', got %q", b.Text())
	}
}

func TestBufferDeleteInvalid(t *testing.T) {
	b := NewBufferFromString("Hello")

	tests := []struct {
		name       string
		start, end ByteOffset
	}{
		{"reversed", 3, 1},
		{"past end", 2, 10},
		{"negative", -1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := b.Delete(tt.start, tt.end); !errors.Is(err, ErrRangeInvalid) {
				t.Errorf("expected ErrRangeInvalid, got %v", err)
			}
		})
	}
}

func TestBufferReplace(t *testing.T) {
	b := NewBufferFromString("I sea you")

	end, err := b.Replace(2, 5, "see")
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if end != 5 || b.Text() != "I see you" {
		t.Errorf("got %q end %d", b.Text(), end)
	}
}

func TestBufferRevisionID(t *testing.T) {
	b := NewBufferFromString("abc")
	rev := b.RevisionID()

	_, _ = b.CreateTag("t")
	b.ApplyTag("t", 0, 1)
	if b.RevisionID() != rev {
		t.Error("tagging must not change the revision")
	}

	_, _ = b.Insert(0, "x")
	if b.RevisionID() == rev {
		t.Error("insert must change the revision")
	}
}

func TestBufferRunes(t *testing.T) {
	b := NewBufferFromString("héllo")

	r, size := b.RuneAt(1)
	if r != 'é' || size != 2 {
		t.Errorf("RuneAt(1) = %q, %d", r, size)
	}
	r, size = b.RuneBefore(3)
	if r != 'é' || size != 2 {
		t.Errorf("RuneBefore(3) = %q, %d", r, size)
	}
	if _, size := b.RuneAt(b.Len()); size != 0 {
		t.Errorf("RuneAt(end) size = %d, want 0", size)
	}
	if _, size := b.RuneBefore(0); size != 0 {
		t.Errorf("RuneBefore(0) size = %d, want 0", size)
	}
}

func TestBufferRuneAtPanicsOutOfRange(t *testing.T) {
	b := NewBufferFromString("abc")
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	b.RuneAt(4)
}

func TestOffsetPointConversion(t *testing.T) {
	b := NewBufferFromString("ab\ncde\nf")

	tests := []struct {
		offset ByteOffset
		point  Point
	}{
		{0, Point{0, 0}},
		{2, Point{0, 2}},
		{3, Point{1, 0}},
		{5, Point{1, 2}},
		{7, Point{2, 0}},
		{8, Point{2, 1}},
	}
	for _, tt := range tests {
		if got := b.OffsetToPoint(tt.offset); got != tt.point {
			t.Errorf("OffsetToPoint(%d) = %v, want %v", tt.offset, got, tt.point)
		}
		if got := b.PointToOffset(tt.point); got != tt.offset {
			t.Errorf("PointToOffset(%v) = %d, want %d", tt.point, got, tt.offset)
		}
	}

	if got := b.PointToOffset(Point{0, 99}); got != 2 {
		t.Errorf("column past line end should clamp, got %d", got)
	}
	if got := b.PointToOffset(Point{9, 0}); got != b.Len() {
		t.Errorf("line past end should clamp, got %d", got)
	}
}

func TestTextRangeClamps(t *testing.T) {
	b := NewBufferFromString("hello")
	if got := b.TextRange(-3, 99); got != "hello" {
		t.Errorf("TextRange = %q", got)
	}
	if got := b.TextRange(4, 2); got != "" {
		t.Errorf("reversed TextRange = %q", got)
	}
}

func TestBufferObserverOrder(t *testing.T) {
	b := NewBufferFromString("ab")
	var events []string

	unsubscribe := b.Subscribe(ObserverFuncs{
		OnBeforeInsert: func(offset ByteOffset, text string) {
			// The text is not there yet.
			if b.Text() != "ab" {
				t.Errorf("BeforeInsert saw %q", b.Text())
			}
			events = append(events, "before")
		},
		OnAfterInsert: func(end ByteOffset, text string) {
			if end != 2 || text != "X" {
				t.Errorf("AfterInsert(%d, %q)", end, text)
			}
			events = append(events, "after")
		},
		OnAfterDelete: func(start, end ByteOffset) {
			if start != end {
				t.Errorf("AfterDelete(%d, %d) should collapse", start, end)
			}
			events = append(events, "delete")
		},
		OnMarkSet: func(offset ByteOffset, mark string) {
			events = append(events, "mark:"+mark)
		},
	})

	_, _ = b.Insert(1, "X")
	_ = b.Delete(0, 1)
	b.PlaceCursor(1)
	unsubscribe()
	unsubscribe()
	_, _ = b.Insert(0, "Y")

	want := []string{"before", "after", "delete", "mark:insert"}
	if strings.Join(events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestBufferObserverMayTag(t *testing.T) {
	b := NewBufferFromString("abc")
	_, _ = b.CreateTag("seen")
	b.Subscribe(ObserverFuncs{
		OnAfterInsert: func(end ByteOffset, text string) {
			b.ApplyTag("seen", end-ByteOffset(len(text)), end)
		},
	})

	_, _ = b.Insert(3, "de")
	if !b.HasTag("seen", 3) || b.HasTag("seen", 2) {
		t.Errorf("tag ranges = %v", b.TagRanges("seen"))
	}
}

func TestBufferConcurrentAccess(t *testing.T) {
	b := NewBufferFromString("start")
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = b.Insert(0, "x")
		}()
		go func() {
			defer wg.Done()
			_ = b.Text()
			_ = b.LineCount()
		}()
	}
	wg.Wait()

	if b.Len() != 15 {
		t.Errorf("expected length 15, got %d", b.Len())
	}
}
