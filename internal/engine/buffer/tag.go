package buffer

// UnderlineStyle selects how a renderer underlines tagged text.
type UnderlineStyle uint8

const (
	UnderlineNone UnderlineStyle = iota
	UnderlineSingle
	UnderlineError // squiggly where supported
)

// Tag is a named marker that can be applied to ranges of text.
type Tag struct {
	Name string

	// NoSpellCheck exempts text carrying this tag from spell checking.
	NoSpellCheck bool

	// Presentation hints for renderers.
	Underline  UnderlineStyle
	Foreground string
}

// TagOption configures a Tag at creation.
type TagOption func(*Tag)

// WithNoSpellCheck marks the tag as exempt from spell checking.
func WithNoSpellCheck() TagOption {
	return func(t *Tag) {
		t.NoSpellCheck = true
	}
}

// WithUnderline sets the tag's underline style.
func WithUnderline(u UnderlineStyle) TagOption {
	return func(t *Tag) {
		t.Underline = u
	}
}

// WithForeground sets the tag's foreground color name.
func WithForeground(color string) TagOption {
	return func(t *Tag) {
		t.Foreground = color
	}
}

// CreateTag adds a tag definition to the buffer's tag table.
// TagObservers receive TagAdded.
func (b *Buffer) CreateTag(name string, opts ...TagOption) (*Tag, error) {
	tag := &Tag{Name: name}
	for _, opt := range opts {
		opt(tag)
	}

	b.mu.Lock()
	if _, ok := b.tags[name]; ok {
		b.mu.Unlock()
		return nil, ErrTagExists
	}
	b.tags[name] = tag
	b.tagOrder = append(b.tagOrder, name)
	b.mu.Unlock()

	b.notifyTags(func(o TagObserver) { o.TagAdded(tag) })
	return tag, nil
}

// DeleteTag removes a tag definition and every range carrying it.
// TagObservers receive TagRemoved.
func (b *Buffer) DeleteTag(name string) error {
	b.mu.Lock()
	tag, ok := b.tags[name]
	if !ok {
		b.mu.Unlock()
		return ErrTagNotFound
	}
	delete(b.tags, name)
	delete(b.tagRanges, name)
	for i, n := range b.tagOrder {
		if n == name {
			b.tagOrder = append(b.tagOrder[:i:i], b.tagOrder[i+1:]...)
			break
		}
	}
	b.mu.Unlock()

	b.notifyTags(func(o TagObserver) { o.TagRemoved(tag) })
	return nil
}

// LookupTag returns the tag with the given name, or nil.
func (b *Buffer) LookupTag(name string) *Tag {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tags[name]
}

// Tags returns all tag definitions in creation order.
func (b *Buffer) Tags() []*Tag {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*Tag, 0, len(b.tagOrder))
	for _, n := range b.tagOrder {
		out = append(out, b.tags[n])
	}
	return out
}

// ApplyTag marks [start, end) with the named tag. Applying a tag twice is
// the same as applying it once. Panics if the tag is not defined.
func (b *Buffer) ApplyTag(name string, start, end ByteOffset) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mustTag(name)
	b.checkOffset(start)
	b.checkOffset(end)
	if start >= end {
		return
	}
	b.tagRanges[name] = addRange(b.tagRanges[name], Range{Start: start, End: end})
}

// RemoveTag clears the named tag from [start, end).
// Panics if the tag is not defined.
func (b *Buffer) RemoveTag(name string, start, end ByteOffset) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mustTag(name)
	b.checkOffset(start)
	b.checkOffset(end)
	if start >= end {
		return
	}
	b.tagRanges[name] = subtractRange(b.tagRanges[name], Range{Start: start, End: end})
}

// HasTag reports whether the character at offset carries the named tag.
// Unknown tags are never present.
func (b *Buffer) HasTag(name string, offset ByteOffset) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	b.checkOffset(offset)
	for _, r := range b.tagRanges[name] {
		if r.Contains(offset) {
			return true
		}
		if r.Start > offset {
			break
		}
	}
	return false
}

// TagRanges returns the disjoint, sorted ranges carrying the named tag.
func (b *Buffer) TagRanges(name string) []Range {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ranges := b.tagRanges[name]
	out := make([]Range, len(ranges))
	copy(out, ranges)
	return out
}

// TagsAt returns the tags covering the character at offset, in creation
// order.
func (b *Buffer) TagsAt(offset ByteOffset) []*Tag {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []*Tag
	for _, n := range b.tagOrder {
		for _, r := range b.tagRanges[n] {
			if r.Contains(offset) {
				out = append(out, b.tags[n])
				break
			}
		}
	}
	return out
}

func (b *Buffer) mustTag(name string) {
	if _, ok := b.tags[name]; !ok {
		panic("buffer: unknown tag " + name)
	}
}

// shiftTagsForInsert carries tag ranges across an insertion. Text inserted
// strictly inside a range extends it; text at either boundary does not.
// Caller holds the write lock.
func (b *Buffer) shiftTagsForInsert(offset, n ByteOffset) {
	for name, ranges := range b.tagRanges {
		for i := range ranges {
			r := &ranges[i]
			switch {
			case r.Start >= offset:
				r.Start += n
				r.End += n
			case r.End > offset:
				r.End += n
			}
		}
		b.tagRanges[name] = ranges
	}
}

// shiftTagsForDelete shrinks tag ranges across a deletion and drops those
// that become empty. Caller holds the write lock.
func (b *Buffer) shiftTagsForDelete(start, end ByteOffset) {
	for name, ranges := range b.tagRanges {
		out := ranges[:0]
		for _, r := range ranges {
			r.Start = shiftForDelete(r.Start, start, end)
			r.End = shiftForDelete(r.End, start, end)
			if r.IsEmpty() {
				continue
			}
			out = addRangeSorted(out, r)
		}
		b.tagRanges[name] = out
	}
}

// addRange inserts r into a sorted disjoint list, merging overlapping and
// touching ranges.
func addRange(ranges []Range, r Range) []Range {
	out := make([]Range, 0, len(ranges)+1)
	inserted := false
	for _, cur := range ranges {
		switch {
		case cur.End < r.Start:
			out = append(out, cur)
		case r.End < cur.Start:
			if !inserted {
				out = append(out, r)
				inserted = true
			}
			out = append(out, cur)
		default:
			if cur.Start < r.Start {
				r.Start = cur.Start
			}
			if cur.End > r.End {
				r.End = cur.End
			}
		}
	}
	if !inserted {
		out = append(out, r)
	}
	return out
}

// addRangeSorted appends r to a sorted list whose last element may touch it.
func addRangeSorted(ranges []Range, r Range) []Range {
	if n := len(ranges); n > 0 && ranges[n-1].End >= r.Start {
		if r.End > ranges[n-1].End {
			ranges[n-1].End = r.End
		}
		return ranges
	}
	return append(ranges, r)
}

// subtractRange removes r from a sorted disjoint list.
func subtractRange(ranges []Range, r Range) []Range {
	out := make([]Range, 0, len(ranges)+1)
	for _, cur := range ranges {
		if !cur.Overlaps(r) {
			out = append(out, cur)
			continue
		}
		if cur.Start < r.Start {
			out = append(out, Range{Start: cur.Start, End: r.Start})
		}
		if cur.End > r.End {
			out = append(out, Range{Start: r.End, End: cur.End})
		}
	}
	return out
}
