package buffer

// InsertMark is the name of the mark that tracks the cursor (insertion
// point). It always exists and has right gravity, so text typed at the
// cursor lands before it.
const InsertMark = "insert"

type mark struct {
	name        string
	offset      ByteOffset
	leftGravity bool
}

// CreateMark creates a named mark at offset, or moves it there if it
// already exists. A mark with left gravity stays to the left of text
// inserted at its position; with right gravity it ends up after it.
// Observers receive MarkSet.
func (b *Buffer) CreateMark(name string, offset ByteOffset, leftGravity bool) {
	b.mu.Lock()
	b.checkOffset(offset)
	if m, ok := b.marks[name]; ok {
		m.offset = offset
		m.leftGravity = leftGravity
	} else {
		b.marks[name] = &mark{name: name, offset: offset, leftGravity: leftGravity}
	}
	b.mu.Unlock()

	b.notify(func(o Observer) { o.MarkSet(offset, name) })
}

// MoveMark moves an existing mark to offset and notifies MarkSet.
func (b *Buffer) MoveMark(name string, offset ByteOffset) error {
	b.mu.Lock()
	b.checkOffset(offset)
	m, ok := b.marks[name]
	if !ok {
		b.mu.Unlock()
		return ErrMarkNotFound
	}
	m.offset = offset
	b.mu.Unlock()

	b.notify(func(o Observer) { o.MarkSet(offset, name) })
	return nil
}

// MarkOffset returns the current offset of a mark.
func (b *Buffer) MarkOffset(name string) (ByteOffset, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	m, ok := b.marks[name]
	if !ok {
		return 0, false
	}
	return m.offset, true
}

// DeleteMark removes a mark. The insert mark cannot be deleted.
func (b *Buffer) DeleteMark(name string) {
	if name == InsertMark {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.marks, name)
}

// Cursor returns the offset of the insert mark.
func (b *Buffer) Cursor() ByteOffset {
	off, _ := b.MarkOffset(InsertMark)
	return off
}

// PlaceCursor moves the insert mark to offset.
func (b *Buffer) PlaceCursor(offset ByteOffset) {
	_ = b.MoveMark(InsertMark, offset)
}

// shiftMarksForInsert carries marks across an insertion. Caller holds the
// write lock.
func (b *Buffer) shiftMarksForInsert(offset, n ByteOffset) {
	for _, m := range b.marks {
		if m.offset > offset || (m.offset == offset && !m.leftGravity) {
			m.offset += n
		}
	}
}

// shiftMarksForDelete collapses marks inside the deleted range onto start.
// Caller holds the write lock.
func (b *Buffer) shiftMarksForDelete(start, end ByteOffset) {
	for _, m := range b.marks {
		m.offset = shiftForDelete(m.offset, start, end)
	}
}

func shiftForDelete(p, start, end ByteOffset) ByteOffset {
	switch {
	case p <= start:
		return p
	case p <= end:
		return start
	default:
		return p - (end - start)
	}
}
