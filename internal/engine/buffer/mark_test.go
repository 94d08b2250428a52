package buffer

import (
	"errors"
	"testing"
)

func TestMarkGravity(t *testing.T) {
	b := NewBufferFromString("abcd")
	b.CreateMark("left", 2, true)
	b.CreateMark("right", 2, false)

	_, _ = b.Insert(2, "XY")

	if off, _ := b.MarkOffset("left"); off != 2 {
		t.Errorf("left gravity mark = %d, want 2", off)
	}
	if off, _ := b.MarkOffset("right"); off != 4 {
		t.Errorf("right gravity mark = %d, want 4", off)
	}
}

func TestInsertMarkFollowsTyping(t *testing.T) {
	b := NewBufferFromString("ab")
	b.PlaceCursor(2)

	_, _ = b.Insert(2, "c")
	if b.Cursor() != 3 {
		t.Errorf("cursor = %d, want 3", b.Cursor())
	}
}

func TestMarksFollowDelete(t *testing.T) {
	b := NewBufferFromString("0123456789")
	b.CreateMark("before", 1, true)
	b.CreateMark("inside", 4, true)
	b.CreateMark("after", 8, true)

	_ = b.Delete(3, 6)

	for name, want := range map[string]ByteOffset{"before": 1, "inside": 3, "after": 5} {
		if off, _ := b.MarkOffset(name); off != want {
			t.Errorf("%s = %d, want %d", name, off, want)
		}
	}
}

func TestMoveMark(t *testing.T) {
	b := NewBufferFromString("abc")

	if err := b.MoveMark("missing", 1); !errors.Is(err, ErrMarkNotFound) {
		t.Errorf("MoveMark(missing) err = %v", err)
	}

	var got []string
	b.Subscribe(ObserverFuncs{OnMarkSet: func(offset ByteOffset, mark string) {
		got = append(got, mark)
	}})

	b.CreateMark("m", 0, true)
	if err := b.MoveMark("m", 3); err != nil {
		t.Fatalf("MoveMark: %v", err)
	}
	if off, _ := b.MarkOffset("m"); off != 3 {
		t.Errorf("mark at %d, want 3", off)
	}
	if len(got) != 2 {
		t.Errorf("MarkSet calls = %v", got)
	}
}

func TestDeleteMark(t *testing.T) {
	b := NewBufferFromString("abc")
	b.CreateMark("m", 1, true)
	b.DeleteMark("m")
	if _, ok := b.MarkOffset("m"); ok {
		t.Error("mark should be gone")
	}

	b.DeleteMark(InsertMark)
	if _, ok := b.MarkOffset(InsertMark); !ok {
		t.Error("insert mark must survive DeleteMark")
	}
}
