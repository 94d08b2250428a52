package spell

import (
	"github.com/dshills/keyspell/internal/engine/buffer"
)

// Controller turns buffer notifications into checks and serves the
// context menu. It is subscribed to the checker's buffer.
type Controller struct {
	c *Checker
}

var (
	_ buffer.Observer    = (*Controller)(nil)
	_ buffer.TagObserver = (*Controller)(nil)
)

// BeforeInsert remembers where the insertion starts.
func (ctl *Controller) BeforeInsert(offset int64, text string) {
	c := ctl.c
	_ = c.buf.MoveMark(c.insertStartMark(), offset)
}

// AfterInsert checks the inserted text and the words it touches.
func (ctl *Controller) AfterInsert(end int64, text string) {
	c := ctl.c
	start, _ := c.buf.MarkOffset(c.insertStartMark())
	c.reportError(c.CheckRange(start, end, false))
	_ = c.buf.MoveMark(c.insertEndMark(), end)
}

// AfterDelete checks the words around the deletion point.
func (ctl *Controller) AfterDelete(start, end int64) {
	ctl.c.reportError(ctl.c.CheckRange(start, end, false))
}

// MarkSet checks a deferred word once the cursor moves.
func (ctl *Controller) MarkSet(offset int64, mark string) {
	c := ctl.c
	if mark == buffer.InsertMark && c.deferred {
		c.reportError(c.checkDeferredRange(false))
	}
}

// TagAdded ignores new tags defined with the NoSpellCheck property.
func (ctl *Controller) TagAdded(tag *buffer.Tag) {
	ctl.c.tagAdded(tag)
}

// TagRemoved forgets removed tags.
func (ctl *Controller) TagRemoved(tag *buffer.Tag) {
	ctl.c.tagRemoved(tag)
}

// ContextMenu handles a context request at window cell (x, y). A pending
// deferred check is resolved first so the menu reflects the final state
// of the word being typed. The click position is remembered for the
// replace action.
func (ctl *Controller) ContextMenu(x, y int) (*Menu, error) {
	c := ctl.c
	if c.deferred {
		if err := c.checkDeferredRange(true); err != nil {
			return nil, err
		}
	}
	_ = c.buf.MoveMark(c.clickMark(), c.view.OffsetAtLocation(x, y))
	return c.buildMenu()
}

// ClickedWord returns the bounds and text of the word at the click
// position, or false when the click was not on a word.
func (ctl *Controller) ClickedWord() (start, end int64, word string, ok bool) {
	c := ctl.c
	click, _ := c.buf.MarkOffset(c.clickMark())
	if !c.buf.InsideWord(click) {
		return 0, 0, "", false
	}
	start, end = WordBounds(c.buf, click)
	return start, end, c.buf.TextRange(start, end), true
}

// Activate runs a menu action.
func (ctl *Controller) Activate(action, target string) error {
	c := ctl.c
	switch action {
	case ActionLanguage:
		return c.SetLanguage(target)
	case ActionSuggestion:
		return ctl.ReplaceWord(target)
	case ActionAddToDictionary:
		return c.AddToDictionary(target)
	case ActionIgnoreAll:
		return c.IgnoreAll(target)
	}
	return ErrUnknownAction
}

// ReplaceWord replaces the clicked word with replacement. The edit is
// rechecked through the usual notifications.
func (ctl *Controller) ReplaceWord(replacement string) error {
	start, end, _, ok := ctl.ClickedWord()
	if !ok {
		return nil
	}
	buf := ctl.c.buf
	if err := buf.Delete(start, end); err != nil {
		return err
	}
	_, err := buf.Insert(start, replacement)
	return err
}
