package spell

// The host's word segmentation may end a word at an apostrophe, splitting
// "don't" into "don" and "t". The functions here correct that by treating
// extra word characters between two words as part of both.

// IsExtraWordChar reports whether r belongs inside a word even though the
// base segmentation does not say so. Only the apostrophe qualifies;
// language specific extra characters are not modeled.
func IsExtraWordChar(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return false
	case '\'':
		return true
	}
	return false
}

// ForwardWordEnd returns the end of the word at or after pos. A run of
// extra word characters directly followed by another word is absorbed
// along with that word, repeatedly. When no word ends after pos it
// returns pos and false.
func ForwardWordEnd(t Words, pos int64) (int64, bool) {
	end, ok := t.ForwardWordEnd(pos)
	if !ok {
		return pos, false
	}
	for {
		p := skipExtraForward(t, end)
		if p == end || !t.StartsWord(p) {
			break
		}
		next, ok := t.ForwardWordEnd(p)
		if !ok || next <= end {
			break
		}
		end = next
	}
	return end, true
}

// BackwardWordStart returns the start of the word before pos. A run of
// extra word characters directly preceded by another word is absorbed
// along with that word, repeatedly. When no word starts before pos it
// returns pos and false.
func BackwardWordStart(t Words, pos int64) (int64, bool) {
	start, ok := t.BackwardWordStart(pos)
	if !ok {
		return pos, false
	}
	for {
		p := skipExtraBackward(t, start)
		if p == start || !t.EndsWord(p) {
			break
		}
		prev, ok := t.BackwardWordStart(p)
		if !ok || prev >= start {
			break
		}
		start = prev
	}
	return start, true
}

// nextWordStart returns the start of the first word that ends after pos,
// so a scan starting on punctuation or spacing never hands it to the
// dictionary. It reports false when no word follows pos.
func nextWordStart(t Words, pos int64) (int64, bool) {
	if t.StartsWord(pos) {
		return pos, true
	}
	end, ok := ForwardWordEnd(t, pos)
	if !ok {
		return pos, false
	}
	start, _ := BackwardWordStart(t, end)
	return start, true
}

// IsBetweenMiddleAndEndOfWord reports whether pos lies in the tail of a
// word, so a range starting there has to be pulled back to the word start.
// A position that starts a word is only in the tail when it directly
// follows an extra word character that itself follows word text.
func IsBetweenMiddleAndEndOfWord(t Words, pos int64) bool {
	if !t.StartsWord(pos) {
		return t.InsideWord(pos) || t.EndsWord(pos)
	}
	if pos == 0 {
		return false
	}
	r, size := t.RuneBefore(pos)
	if !IsExtraWordChar(r) {
		return false
	}
	pos -= int64(size)
	if pos == 0 {
		return false
	}
	_, size = t.RuneBefore(pos)
	return t.InsideWord(pos - int64(size))
}

// WordBounds returns the extended word containing pos: the range a check
// starting or ending at pos would cover.
func WordBounds(t Words, pos int64) (start, end int64) {
	start, end = pos, pos
	if IsBetweenMiddleAndEndOfWord(t, start) {
		start, _ = BackwardWordStart(t, start)
	}
	if t.InsideWord(end) {
		end, _ = ForwardWordEnd(t, end)
	}
	return start, end
}

func skipExtraForward(t Words, pos int64) int64 {
	for {
		r, size := t.RuneAt(pos)
		if size == 0 || !IsExtraWordChar(r) {
			return pos
		}
		pos += int64(size)
	}
}

func skipExtraBackward(t Words, pos int64) int64 {
	for {
		r, size := t.RuneBefore(pos)
		if size == 0 || !IsExtraWordChar(r) {
			return pos
		}
		pos -= int64(size)
	}
}
