package buffer

// Observer receives synchronous notifications about buffer mutations.
// Callbacks run after the buffer lock is released; an observer may read the
// buffer, move marks and apply tags, but editing text from inside a
// callback re-enters every other observer.
type Observer interface {
	// BeforeInsert is called before text is inserted at offset.
	BeforeInsert(offset ByteOffset, text string)
	// AfterInsert is called after text was inserted; end is the offset
	// just past the inserted text.
	AfterInsert(end ByteOffset, text string)
	// AfterDelete is called after a range was removed. Both offsets
	// equal the deletion point.
	AfterDelete(start, end ByteOffset)
	// MarkSet is called when a mark is created or explicitly moved.
	// Marks carried along by edits do not notify.
	MarkSet(offset ByteOffset, mark string)
}

// TagObserver is implemented by observers that also want to know when tags
// are defined or removed from the buffer's tag table.
type TagObserver interface {
	TagAdded(tag *Tag)
	TagRemoved(tag *Tag)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnBeforeInsert func(offset ByteOffset, text string)
	OnAfterInsert  func(end ByteOffset, text string)
	OnAfterDelete  func(start, end ByteOffset)
	OnMarkSet      func(offset ByteOffset, mark string)
}

func (f ObserverFuncs) BeforeInsert(offset ByteOffset, text string) {
	if f.OnBeforeInsert != nil {
		f.OnBeforeInsert(offset, text)
	}
}

func (f ObserverFuncs) AfterInsert(end ByteOffset, text string) {
	if f.OnAfterInsert != nil {
		f.OnAfterInsert(end, text)
	}
}

func (f ObserverFuncs) AfterDelete(start, end ByteOffset) {
	if f.OnAfterDelete != nil {
		f.OnAfterDelete(start, end)
	}
}

func (f ObserverFuncs) MarkSet(offset ByteOffset, mark string) {
	if f.OnMarkSet != nil {
		f.OnMarkSet(offset, mark)
	}
}

type subscription struct {
	id       int
	observer Observer
}

// Subscribe registers an observer. Observers are notified in registration
// order. The returned function removes the observer; calling it more than
// once is harmless.
func (b *Buffer) Subscribe(o Observer) (unsubscribe func()) {
	b.obsMu.Lock()
	b.nextSubID++
	id := b.nextSubID
	b.observers = append(b.observers, subscription{id: id, observer: o})
	b.obsMu.Unlock()

	return func() {
		b.obsMu.Lock()
		defer b.obsMu.Unlock()
		for i, s := range b.observers {
			if s.id == id {
				b.observers = append(b.observers[:i:i], b.observers[i+1:]...)
				return
			}
		}
	}
}

// snapshotObservers copies the observer list so callbacks may subscribe or
// unsubscribe while being notified.
func (b *Buffer) snapshotObservers() []Observer {
	b.obsMu.Lock()
	defer b.obsMu.Unlock()
	out := make([]Observer, len(b.observers))
	for i, s := range b.observers {
		out[i] = s.observer
	}
	return out
}

func (b *Buffer) notify(fn func(Observer)) {
	for _, o := range b.snapshotObservers() {
		fn(o)
	}
}

func (b *Buffer) notifyTags(fn func(TagObserver)) {
	for _, o := range b.snapshotObservers() {
		if to, ok := o.(TagObserver); ok {
			fn(to)
		}
	}
}
