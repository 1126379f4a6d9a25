// Package history implements the command-line history ring and its
// incremental search cursor (spec.md §3 "History entry", §4.7).
//
// Grounded on yacli.c's doubly-linked circular history list (yacli_add_hist,
// yacli_up/yacli_down, yacli_search_up/yacli_search_down): hist points at the
// oldest entry, hist->prev is the most recent, and a separate browsing
// cursor walks the ring without mutating it.
package history

import "strings"

// Ring is a circular list of prior command lines.
type Ring struct {
	entries []string // entries[0] is the oldest, entries[len-1] the newest

	browsing bool
	browseAt int // index into entries while browsing with up/down

	searching bool
	pattern   string // sbuf
	matchAt   int    // rpos: how many older matches have been skipped
}

// New returns an empty history ring.
func New() *Ring { return &Ring{} }

// Insert appends a command line, unless it is empty or an exact repeat of
// the most recent entry (spec.md §3).
func (r *Ring) Insert(line string) {
	if line == "" {
		return
	}
	if n := len(r.entries); n > 0 && r.entries[n-1] == line {
		return
	}
	r.entries = append(r.entries, line)
	r.ResetBrowse()
}

// Len returns the number of stored entries.
func (r *Ring) Len() int { return len(r.entries) }

// Entries returns the stored lines, oldest first, for introspection (the
// Ctrl-X Ctrl-H "history dump" combo, spec.md §4.6).
func (r *Ring) Entries() []string {
	out := make([]string, len(r.entries))
	copy(out, r.entries)
	return out
}

// Browsing reports whether the caller is currently walking the ring with
// Older/Newer, so the caller knows whether to stash its live buffer before
// the first Older call.
func (r *Ring) Browsing() bool { return r.browsing }

// ResetBrowse stops history-cursor browsing, as Ctrl-C does (spec.md §4.6
// "Ctrl-C: clear buffer, reset history").
func (r *Ring) ResetBrowse() {
	r.browsing = false
	r.browseAt = 0
}

// Older walks the ring toward the oldest entry (Ctrl-P / Up). It returns the
// line to display and whether there was an older entry to move to; if there
// is none, the current (already-oldest) line is returned unchanged.
func (r *Ring) Older() (line string, moved bool) {
	if len(r.entries) == 0 {
		return "", false
	}
	if !r.browsing {
		r.browsing = true
		r.browseAt = len(r.entries) - 1
		return r.entries[r.browseAt], true
	}
	if r.browseAt > 0 {
		r.browseAt--
		return r.entries[r.browseAt], true
	}
	return r.entries[r.browseAt], false
}

// Newer walks the ring toward the newest entry (Ctrl-N / Down). When the
// caller walks past the newest stored entry, moved is false and the caller
// should restore the stashed pre-browse buffer (editbuf.Restore).
func (r *Ring) Newer() (line string, moved bool) {
	if !r.browsing {
		return "", false
	}
	if r.browseAt < len(r.entries)-1 {
		r.browseAt++
		return r.entries[r.browseAt], true
	}
	r.browsing = false
	return "", false
}

//#region incremental search (spec.md §4.7)

// StartSearch enters incremental-search mode with an empty pattern.
func (r *Ring) StartSearch() {
	r.searching = true
	r.pattern = ""
	r.matchAt = 0
}

// EndSearch leaves incremental-search mode. It does not touch the browse
// cursor; the caller decides whether to execute or discard the match.
func (r *Ring) EndSearch() {
	r.searching = false
}

// Searching reports whether incremental search is active.
func (r *Ring) Searching() bool { return r.searching }

// Pattern returns the current search buffer (sbuf).
func (r *Ring) Pattern() string { return r.pattern }

// AppendSearch appends a byte to the search pattern and rescans for the
// first (most recent) match, as each keystroke does in IN_SEARCH state.
func (r *Ring) AppendSearch(c byte) (match string, found bool) {
	r.pattern += string(c)
	r.matchAt = 0
	return r.rescan()
}

// BackspaceSearch removes the last byte of the search pattern and rescans.
func (r *Ring) BackspaceSearch() (match string, found bool) {
	if len(r.pattern) > 0 {
		r.pattern = r.pattern[:len(r.pattern)-1]
	}
	r.matchAt = 0
	return r.rescan()
}

// SearchOlder increments rpos (skip one more match toward the past) and
// rescans (Ctrl-R / Up while searching).
func (r *Ring) SearchOlder() (match string, found bool) {
	r.matchAt++
	match, found = r.rescan()
	if !found && r.matchAt > 0 {
		r.matchAt--
	}
	return
}

// SearchNewer decrements rpos (Ctrl-S / Down while searching).
func (r *Ring) SearchNewer() (match string, found bool) {
	if r.matchAt > 0 {
		r.matchAt--
	}
	return r.rescan()
}

// rescan re-scans from newest to oldest, skipping matchAt matches, for an
// entry containing pattern.
func (r *Ring) rescan() (match string, found bool) {
	if r.pattern == "" {
		return "", false
	}
	skip := r.matchAt
	for i := len(r.entries) - 1; i >= 0; i-- {
		if strings.Contains(r.entries[i], r.pattern) {
			if skip == 0 {
				return r.entries[i], true
			}
			skip--
		}
	}
	return "", false
}

//#endregion
