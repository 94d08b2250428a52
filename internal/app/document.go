package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dshills/keyspell/internal/engine"
	"github.com/dshills/keyspell/internal/engine/buffer"
)

// Document is the file being edited with its engine.
type Document struct {
	// Path is the file path (empty for scratch buffers).
	Path string

	// Name is the display name (file name or "Untitled").
	Name string

	// Engine holds the text and the view state.
	Engine *engine.Engine

	modified atomic.Bool
	remove   func()
}

// OpenDocument reads path into a new document. A missing file yields an
// empty document that will be created on save.
func OpenDocument(path string, opts ...engine.Option) (*Document, error) {
	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return newDocument(path, engine.New(opts...)), nil
	case err != nil:
		return nil, &OperationError{Op: "open", Target: path, Err: err}
	}
	defer f.Close()

	eng, err := engine.NewFromReader(f, opts...)
	if err != nil {
		return nil, &OperationError{Op: "open", Target: path, Err: err}
	}
	return newDocument(path, eng), nil
}

// NewScratchDocument creates a document with no file.
func NewScratchDocument(content string, opts ...engine.Option) *Document {
	opts = append([]engine.Option{engine.WithContent(content)}, opts...)
	return newDocument("", engine.New(opts...))
}

func newDocument(path string, eng *engine.Engine) *Document {
	name := "Untitled"
	if path != "" {
		name = filepath.Base(path)
	}
	d := &Document{Path: path, Name: name, Engine: eng}
	d.watch()
	eng.OnBufferChanged(func(_, _ *buffer.Buffer) { d.watch() })
	return d
}

// watch marks the document modified on any edit of the current buffer.
func (d *Document) watch() {
	if d.remove != nil {
		d.remove()
	}
	d.remove = d.Engine.Buffer().Subscribe(buffer.ObserverFuncs{
		OnAfterInsert: func(buffer.ByteOffset, string) { d.SetModified(true) },
		OnAfterDelete: func(buffer.ByteOffset, buffer.ByteOffset) { d.SetModified(true) },
	})
}

// IsModified returns true if the document has unsaved changes.
func (d *Document) IsModified() bool {
	return d.modified.Load()
}

// SetModified sets the modified flag.
func (d *Document) SetModified(modified bool) {
	d.modified.Store(modified)
}

// IsScratch returns true if this is a scratch buffer (no file path).
func (d *Document) IsScratch() bool {
	return d.Path == ""
}

// Save writes the document to its path and clears the modified flag.
func (d *Document) Save() error {
	if d.IsScratch() {
		return ErrNoFilePath
	}
	if err := os.WriteFile(d.Path, []byte(d.Engine.Text()), 0o644); err != nil {
		return &OperationError{Op: "save", Target: d.Path, Err: err}
	}
	d.SetModified(false)
	return nil
}
