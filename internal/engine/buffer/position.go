package buffer

import "sync/atomic"

// ByteOffset indexes the buffer text. Marks, tags and word bounds are
// all expressed in byte offsets.
type ByteOffset = int64

// Point is a 0-indexed line and a byte column within that line.
type Point struct {
	Line   uint32
	Column uint32
}

// RevisionID changes with every text edit. Tag and mark changes keep it.
type RevisionID uint64

var revisionCounter atomic.Uint64

// NewRevisionID returns a process-wide unique revision.
func NewRevisionID() RevisionID {
	return RevisionID(revisionCounter.Add(1))
}
