// Package editbuf implements the line-editing buffer described in spec.md
// §3 ("Edit buffer") and §4.8 (prompt/scroll math): a growable byte buffer
// with a cursor and a horizontal-scroll window, plus the saved-buffer slot
// used to restore pre-history-browsing text.
//
// Bytes are treated as columns (spec.md's non-goal: unicode grapheme cursor
// movement); only the horizontal-scroll *glyph* placement consults display
// width (see Display), never the cursor index.
//
// Grounded on yacli.c's yacli_insert/yacli_bsp/yacli_del/yacli_moveleftw
// family and on the growable-buffer idiom in gwcli's chancacher (grow in
// fixed steps, never shrink mid-session).
package editbuf

import (
	"github.com/mattn/go-runewidth"
)

// growStep is the fixed allocation step mandated by spec.md §5
// ("Growable buffers grow in fixed 1024-byte steps").
const growStep = 1024

// Buffer is a single-line, byte-indexed edit buffer.
//
// Invariant: 0 <= bufpos <= cursor <= len (len(buf)).
type Buffer struct {
	buf    []byte
	cursor int
	bufpos int

	saved []byte // stashed text while browsing history
}

// New returns an empty Buffer.
func New() *Buffer {
	return &Buffer{buf: make([]byte, 0, growStep)}
}

// Len returns the number of bytes currently in the buffer.
func (b *Buffer) Len() int { return len(b.buf) }

// Cursor returns the current cursor byte offset.
func (b *Buffer) Cursor() int { return b.cursor }

// BufPos returns the leftmost displayed byte offset.
func (b *Buffer) BufPos() int { return b.bufpos }

// String returns the buffer contents.
func (b *Buffer) String() string { return string(b.buf) }

// Bytes returns the buffer contents without copying; callers must not
// mutate the returned slice.
func (b *Buffer) Bytes() []byte { return b.buf }

func (b *Buffer) grow(extra int) {
	need := len(b.buf) + extra
	if cap(b.buf) >= need {
		return
	}
	newCap := cap(b.buf)
	if newCap == 0 {
		newCap = growStep
	}
	for newCap < need {
		newCap += growStep
	}
	nb := make([]byte, len(b.buf), newCap)
	copy(nb, b.buf)
	b.buf = nb
}

// Clear empties the buffer and resets cursor/bufpos to zero. It does not
// touch the saved-for-history slot.
func (b *Buffer) Clear() {
	b.buf = b.buf[:0]
	b.cursor = 0
	b.bufpos = 0
}

// Set replaces the whole buffer content, placing the cursor at the end.
func (b *Buffer) Set(s string) {
	b.Clear()
	b.grow(len(s))
	b.buf = append(b.buf, s...)
	b.cursor = len(b.buf)
	b.bufpos = 0
}

// Stash saves the current buffer text (used on first history-up) and
// restores it later via Restore.
func (b *Buffer) Stash() {
	b.saved = append(b.saved[:0], b.buf...)
}

// Restore replaces the buffer with the previously stashed text.
func (b *Buffer) Restore() {
	b.Set(string(b.saved))
}

// Insert inserts a single byte at the cursor and advances it.
func (b *Buffer) Insert(c byte) {
	b.grow(1)
	b.buf = append(b.buf, 0)
	copy(b.buf[b.cursor+1:], b.buf[b.cursor:len(b.buf)-1])
	b.buf[b.cursor] = c
	b.cursor++
}

// DeleteLeft deletes the byte before the cursor (backspace).
func (b *Buffer) DeleteLeft() {
	if b.cursor == 0 {
		return
	}
	copy(b.buf[b.cursor-1:], b.buf[b.cursor:])
	b.buf = b.buf[:len(b.buf)-1]
	b.cursor--
	if b.bufpos > b.cursor {
		b.bufpos = b.cursor
	}
}

// DeleteRight deletes the byte at the cursor (Ctrl-D/Del). Returns false if
// there was no byte at the cursor, i.e. the cursor was at the end of the
// buffer (which includes an empty buffer).
func (b *Buffer) DeleteRight() bool {
	if b.cursor >= len(b.buf) {
		return false
	}
	copy(b.buf[b.cursor:], b.buf[b.cursor+1:])
	b.buf = b.buf[:len(b.buf)-1]
	return true
}

// DeleteToEnd deletes from the cursor to the end of the line (Ctrl-K).
func (b *Buffer) DeleteToEnd() {
	b.buf = b.buf[:b.cursor]
}

func isSpace(c byte) bool { return c == ' ' }

// DeleteWord deletes the word starting at the cursor (Alt-D / Ctrl-W-at-cursor semantics differ; see DeletePrevWord for Ctrl-W).
func (b *Buffer) DeleteWord() {
	end := b.cursor
	for end < len(b.buf) && isSpace(b.buf[end]) {
		end++
	}
	for end < len(b.buf) && !isSpace(b.buf[end]) {
		end++
	}
	copy(b.buf[b.cursor:], b.buf[end:])
	b.buf = b.buf[:len(b.buf)-(end-b.cursor)]
}

// DeletePrevWord deletes the word before the cursor (Ctrl-W, Alt-Backspace).
func (b *Buffer) DeletePrevWord() {
	start := b.cursor
	for start > 0 && isSpace(b.buf[start-1]) {
		start--
	}
	for start > 0 && !isSpace(b.buf[start-1]) {
		start--
	}
	copy(b.buf[start:], b.buf[b.cursor:])
	b.buf = b.buf[:len(b.buf)-(b.cursor-start)]
	b.cursor = start
	if b.bufpos > b.cursor {
		b.bufpos = b.cursor
	}
}

// Home moves the cursor to the start of the buffer (Ctrl-A).
func (b *Buffer) Home() { b.cursor = 0 }

// End moves the cursor to the end of the buffer (Ctrl-E).
func (b *Buffer) End() { b.cursor = len(b.buf) }

// MoveLeft moves the cursor left by one byte (Ctrl-B / Left).
func (b *Buffer) MoveLeft() {
	if b.cursor > 0 {
		b.cursor--
	}
}

// MoveRight moves the cursor right by one byte (Ctrl-F / Right).
func (b *Buffer) MoveRight() {
	if b.cursor < len(b.buf) {
		b.cursor++
	}
}

// MoveWordLeft moves the cursor to the start of the previous word (Alt-B).
func (b *Buffer) MoveWordLeft() {
	p := b.cursor
	for p > 0 && isSpace(b.buf[p-1]) {
		p--
	}
	for p > 0 && !isSpace(b.buf[p-1]) {
		p--
	}
	b.cursor = p
}

// MoveWordRight moves the cursor to the start of the next word (Alt-F).
func (b *Buffer) MoveWordRight() {
	p := b.cursor
	for p < len(b.buf) && !isSpace(b.buf[p]) {
		p++
	}
	for p < len(b.buf) && isSpace(b.buf[p]) {
		p++
	}
	b.cursor = p
}

// Replace substitutes the len-byte run at pos with word, growing or
// shrinking the buffer as needed, and reports the byte-length delta
// (positive if the buffer grew). Cursor handling (spec.md §4.2 "Cursor
// preservation during replacement") is the resolver's responsibility; it
// calls AdjustCursorForReplace afterward with the replaced span's pos and
// old/new lengths.
func (b *Buffer) Replace(pos, oldLen int, word string) (delta int) {
	delta = len(word) - oldLen
	if delta > 0 {
		b.grow(delta)
		b.buf = append(b.buf, make([]byte, delta)...)
		copy(b.buf[pos+oldLen+delta:], b.buf[pos+oldLen:len(b.buf)-delta])
	} else if delta < 0 {
		copy(b.buf[pos+len(word):], b.buf[pos+oldLen:])
		b.buf = b.buf[:len(b.buf)+delta]
	}
	copy(b.buf[pos:pos+len(word)], word)
	return delta
}

// AdjustCursorForReplace implements spec.md §4.2's cursor-preservation rule:
// if the cursor was inside [pos, pos+oldLen], it moves to the end of the
// replacement; if strictly to the right, it shifts by delta; otherwise it is
// unchanged.
func (b *Buffer) AdjustCursorForReplace(pos, oldLen, newLen int) {
	delta := newLen - oldLen
	switch {
	case b.cursor >= pos && b.cursor <= pos+oldLen:
		b.cursor = pos + newLen
	case b.cursor > pos:
		b.cursor += delta
	}
}

// SetCursor forces the cursor to an absolute byte offset, clamped to
// [0, Len()]. Used by the resolver when a completion match determines the
// cursor's new position directly rather than via a delta.
func (b *Buffer) SetCursor(c int) {
	if c < 0 {
		c = 0
	}
	if c > len(b.buf) {
		c = len(b.buf)
	}
	b.cursor = c
}

// EnsureTrailingSpace appends a space if the cursor sits at the end of the
// buffer, then walks the cursor past any run of spaces already following
// it. This is the "ensure a trailing space" behavior applied after a unique
// completion match (spec.md §4.2).
func (b *Buffer) EnsureTrailingSpace() {
	if b.cursor == len(b.buf) {
		b.Insert(' ')
	}
	for b.cursor < len(b.buf) && b.buf[b.cursor] == ' ' {
		b.cursor++
	}
}

// CompactSpaces collapses runs of interior spaces between words to one,
// strips leading spaces, leaves trailing spaces untouched, and shifts the
// cursor to compensate (spec.md §4.2 "space compaction"; grounded on
// yacli.c's yacli_compact_spaces). Called before resolving in complete and
// execute modes, never in hint mode.
func (b *Buffer) CompactSpaces() {
	orig := b.buf
	origCursor := b.cursor

	out := make([]byte, 0, len(orig))
	removedBeforeCursor := 0

	markRemoved := func(idx int) {
		if idx < origCursor {
			removedBeforeCursor++
		}
	}

	i := 0
	for i < len(orig) && orig[i] == ' ' { // strip leading spaces
		markRemoved(i)
		i++
	}
	for i < len(orig) {
		if orig[i] != ' ' {
			out = append(out, orig[i])
			i++
			continue
		}
		j := i
		for j < len(orig) && orig[j] == ' ' {
			j++
		}
		if j == len(orig) {
			// trailing run: copy untouched
			out = append(out, orig[i:j]...)
			i = j
			break
		}
		out = append(out, ' ') // collapse interior run to one space
		for k := i + 1; k < j; k++ {
			markRemoved(k)
		}
		i = j
	}

	b.buf = out
	b.cursor = origCursor - removedBeforeCursor
	if b.cursor < 0 {
		b.cursor = 0
	}
	if b.cursor > len(b.buf) {
		b.cursor = len(b.buf)
	}
	if b.bufpos > b.cursor {
		b.bufpos = b.cursor
	}
}

// Display computes the glyphs needed to render the current buffer inside a
// window `disp` columns wide, byte-indexed per spec.md's non-goal on
// grapheme movement but using display width only to decide whether content
// overflows to the right (mirrors the original's one-column advance using
// go-runewidth for wide/zero-width runes in the original's terminal model).
//
// Returns the visible byte slice [bufpos, end), whether a left scroll glyph
// ("$" at the left edge) and a right scroll glyph should be drawn, and the
// cursor's on-screen column relative to the window origin.
func (b *Buffer) Display(disp int) (visible []byte, leftGlyph, rightGlyph bool, cursorCol int) {
	if disp < 1 {
		disp = 1
	}
	// spec.md §4.8: on right-edge arrival (within two columns of the
	// window end) bufpos scrolls right by one.
	for b.cursor-b.bufpos >= disp-1 && b.cursor > b.bufpos {
		b.bufpos++
	}
	if b.bufpos > b.cursor {
		b.bufpos = b.cursor
	}

	leftGlyph = b.bufpos > 0

	end := len(b.buf)
	rightGlyph = runewidth.StringWidth(string(b.buf[b.bufpos:])) > disp
	if rightGlyph {
		// trim from the right so the visible run plus the glyph fits
		budget := disp - 1
		w := 0
		i := b.bufpos
		for i < end {
			rw := runewidth.RuneWidth(rune(b.buf[i]))
			if w+rw > budget {
				break
			}
			w += rw
			i++
		}
		end = i
	} else if end-b.bufpos > disp {
		end = b.bufpos + disp
	}

	visible = b.buf[b.bufpos:end]
	cursorCol = b.cursor - b.bufpos
	return
}
