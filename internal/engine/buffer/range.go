package buffer

import "fmt"

// Range is a half-open byte range [Start, End). Tag spans and word
// bounds are Ranges.
type Range struct {
	Start ByteOffset
	End   ByteOffset
}

func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// IsEmpty reports whether the range covers no bytes.
func (r Range) IsEmpty() bool {
	return r.Start >= r.End
}

// Contains reports whether offset lies in the range.
func (r Range) Contains(offset ByteOffset) bool {
	return r.Start <= offset && offset < r.End
}

// Overlaps reports whether the ranges share at least one byte. Ranges
// that only touch do not overlap.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Shift moves the range by delta bytes.
func (r Range) Shift(delta ByteOffset) Range {
	return Range{Start: r.Start + delta, End: r.End + delta}
}
