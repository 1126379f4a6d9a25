// Package resolver implements try_complete, spec.md §4.2's single entry
// point for walking the current command tree word by word against the
// edit buffer: prefix matching, in-place completion, contextual help, and
// the filter suffix after a literal "|".
//
// Grounded directly on yacli.c's yacli_trycomplete (the per-word match
// switch on strcmp's sign, the dynamic/regex descent rules, the
// longest-common-prefix growth for ambiguous siblings, and the bitfield
// return value), with structural style (explicit mode, a small result
// struct instead of output parameters) borrowed from
// gwcli/mother/traverse.Walk.
package resolver

import (
	"strings"

	"github.com/bbonev/yacli/editbuf"
	"github.com/bbonev/yacli/filter"
	"github.com/bbonev/yacli/internal/wordmatch"
	"github.com/bbonev/yacli/tree"
)

// Mode selects try_complete's behavior (spec.md §4.2).
type Mode int

const (
	// Hint renders contextual help without touching the buffer.
	Hint Mode = iota
	// Complete rewrites the buffer in place (Tab).
	Complete
	// Execute additionally records the parsed word list and filter
	// chain for dispatch (Enter).
	Execute
)

// Return bitfield, spec.md §4.2 "Return value" / §6 "Return codes of key".
const (
	BitExecutable    = 1 << 0
	BitComplete      = 1 << 1
	BitExecAmbiguous = 1 << 2
	BitNoMatch       = 0x80
)

// Outcome is try_complete's result.
type Outcome struct {
	Code int

	// Parsed is the dispatched word list (Execute mode only).
	Parsed []string
	// Handler is the callback to invoke (Execute mode only, when Code
	// indicates bit 0 or bit 2).
	Handler tree.Handler

	// Chain is the built filter chain to feed command output through,
	// or nil if no "|" was present.
	Chain *filter.Chain

	// HelpLines holds rendered contextual-help text (Hint mode, or
	// Complete mode after a double-Tab).
	HelpLines []string

	// Message is a one-line diagnostic to print through the unfiltered
	// path when Code has BitNoMatch set, or "" otherwise (spec.md §7).
	Message string
}

type word struct {
	text     string
	pos, end int // byte offsets into buf's contents at match time
}

// splitWords tokenizes s on runs of spaces, recording byte offsets, and
// stops (without consuming) at a lone "|" token.
func splitWords(s string) (words []word, pipeAt int) {
	pipeAt = -1
	i := 0
	for i < len(s) {
		for i < len(s) && s[i] == ' ' {
			i++
		}
		if i >= len(s) {
			break
		}
		start := i
		for i < len(s) && s[i] != ' ' {
			i++
		}
		text := s[start:i]
		if text == "|" {
			pipeAt = start
			return words, pipeAt
		}
		words = append(words, word{text: text, pos: start, end: i})
	}
	return words, pipeAt
}

// level identifies the node whose children are the candidates for the next
// word: the virtual root for the first word, or whatever node a previous
// word matched into otherwise.
type level struct {
	node *tree.Node
}

func childWords(n *tree.Node) []string {
	out := make([]string, len(n.Children))
	for i, c := range n.Children {
		out[i] = c.Word
	}
	return out
}

func dynWords(n *tree.Node) []string {
	out := make([]string, len(n.DynChildren))
	for i, c := range n.DynChildren {
		out[i] = c.Word
	}
	return out
}

// nextLevel mirrors yacli.c's "if (cn->isdyn) cn=cn->parent; cn=cn->child":
// descending through a dynamically-generated leaf continues from its
// placeholder parent's own children, not from the leaf itself.
func nextLevel(matched *tree.Node) *tree.Node {
	if matched.IsDyn && matched.Parent != nil {
		return matched.Parent
	}
	return matched
}

// Resolver ties the tree, edit buffer, and filter registry together to
// implement try_complete.
type Resolver struct {
	Tree    *tree.Tree
	Filters *filter.Registry
	ListCB  tree.ListCallback
}

// New returns a Resolver over the given tree/filter registry. listCB may be
// nil if the tree has no dynamic placeholders.
func New(t *tree.Tree, filters *filter.Registry, listCB tree.ListCallback) *Resolver {
	return &Resolver{Tree: t, Filters: filters, ListCB: listCB}
}

// TryComplete runs one resolver pass over buf (spec.md §4.2). wasDoubleTab
// requests contextual help even in Complete mode, as a second consecutive
// Tab press does.
func (r *Resolver) TryComplete(buf *editbuf.Buffer, mode Mode, wasDoubleTab bool) Outcome {
	if mode != Hint {
		buf.CompactSpaces()
	}
	defer r.Tree.Vacuum()

	s := buf.String()
	words, pipeAt := splitWords(s)

	lvl := &level{node: r.Tree.Root()}
	var lastLevel *tree.Node = r.Tree.Root()
	var lastWord *word
	var parsed []string

	complete := false   // last word fully consumed
	completex := false  // complete and executable
	canexalone := false // executable even if ambiguous-without-space
	var handler tree.Handler
	cumDelta := 0 // total buffer growth so far, to re-anchor pipeAt afterward

	for i := range words {
		w := &words[i]
		lastWord = w

		if lvl.node == nil {
			return Outcome{Code: BitNoMatch, Message: "No matched command"}
		}

		var candidates []string
		var nodes []*tree.Node
		switch lvl.node.ChildKind {
		case tree.Dynamic:
			placeholder := lvl.node.Children[0]
			r.Tree.RefreshDynamic(placeholder, r.ListCB)
			candidates = dynWords(placeholder)
			nodes = placeholder.DynChildren
		case tree.Regex:
			if len(lvl.node.Children) == 1 && lvl.node.Children[0].MatchRegex(w.text) {
				node := lvl.node.Children[0]
				complete, completex, canexalone, handler = true, node.Executable(), false, node.EffectiveHandler()
				if mode == Execute {
					parsed = append(parsed, w.text)
				}
				lastLevel = lvl.node
				lvl = &level{node: nextLevel(node)}
				continue
			}
			return Outcome{Code: BitNoMatch, Message: "No matched command"}
		default:
			candidates = childWords(lvl.node)
			nodes = lvl.node.Children
		}

		res := wordmatch.Match(candidates, w.text)

		switch {
		case res.ExactIndex >= 0:
			matched := nodes[res.ExactIndex]
			hasSpaceAfter := w.end < len(s) && s[w.end] == ' '
			ambiguous := wordmatch.NextIsProperPrefixWithoutSpace(candidates, res.ExactIndex, hasSpaceAfter)

			if mode != Hint && buf.Cursor() >= w.pos && buf.Cursor() <= w.end {
				buf.SetCursor(w.end)
				if !ambiguous {
					buf.EnsureTrailingSpace()
				}
			}
			if mode == Execute {
				parsed = append(parsed, w.text)
			}

			complete = !ambiguous
			completex = complete && matched.Executable()
			canexalone = ambiguous && matched.Executable()
			handler = matched.EffectiveHandler()

			lastLevel = lvl.node
			lvl = &level{node: nextLevel(matched)}

		case res.UniqueIndex >= 0:
			matched := nodes[res.UniqueIndex]
			fullWord := candidates[res.UniqueIndex]

			if mode != Hint {
				buf.Replace(w.pos, len(w.text), fullWord)
				buf.AdjustCursorForReplace(w.pos, len(w.text), len(fullWord))
				if buf.Cursor() == w.pos+len(fullWord) {
					buf.EnsureTrailingSpace()
				}
				s = buf.String()
				d := len(fullWord) - len(w.text)
				shiftWordsAfter(words[i+1:], d)
				cumDelta += d
				w.end = w.pos + len(fullWord)
			}
			if mode == Execute {
				parsed = append(parsed, fullWord)
			}

			complete = true
			completex = matched.Executable()
			canexalone = false
			handler = matched.EffectiveHandler()

			lastLevel = lvl.node
			lvl = &level{node: nextLevel(matched)}

		case len(res.AmbiguousIndices) > 0:
			complete, completex, canexalone = false, false, false
			handler = nil

			if len(res.CommonPrefix) > len(w.text) {
				growth := res.CommonPrefix[len(w.text):]
				if mode != Hint {
					buf.Replace(w.end, 0, growth)
					buf.AdjustCursorForReplace(w.pos, len(w.text), len(w.text)+len(growth))
					s = buf.String()
					shiftWordsAfter(words[i+1:], len(growth))
					cumDelta += len(growth)
					w.end = w.pos + len(w.text) + len(growth)
				}
				first := nodes[res.AmbiguousIndices[0]]
				if res.CommonPrefix == candidates[res.AmbiguousIndices[0]] {
					complete = true
					completex = first.Executable()
					canexalone = first.Executable()
					if canexalone {
						handler = first.EffectiveHandler()
					}
				}
			}
			lastLevel = lvl.node
			lvl = &level{node: nil}

		default:
			return Outcome{Code: BitNoMatch, Message: "No matched command"}
		}
	}

	havePipe := pipeAt >= 0
	if havePipe {
		pipeAt += cumDelta
	}

	if havePipe && !completex {
		return Outcome{Code: BitNoMatch, Message: "Cannot apply filter to incomplete command"}
	}

	var chain *filter.Chain
	if havePipe {
		var err string
		chain, err = r.resolveFilters(buf, &s, mode, pipeAt+1)
		if err != "" {
			return Outcome{Code: BitNoMatch, Message: err}
		}
	}

	code := 0
	if completex {
		code |= BitExecutable
	}
	if complete {
		code |= BitComplete
	}
	if canexalone {
		code |= BitExecAmbiguous
	}

	out := Outcome{Code: code, Parsed: parsed, Handler: handler, Chain: chain}

	if (wasDoubleTab || mode == Hint) && mode != Execute {
		out.HelpLines = r.contextualHelp(lastLevel, lastWord, complete, lvl.node)
	}

	return out
}

// shiftWordsAfter compensates not-yet-processed word offsets after an
// in-place buffer growth/shrink earlier in the same pass.
func shiftWordsAfter(ws []word, delta int) {
	for i := range ws {
		ws[i].pos += delta
		ws[i].end += delta
	}
}

// resolveFilters parses the "|"-separated filter suffix starting at byte
// offset start in s, matching each filter name by prefix (spec.md §4.3:
// "same completion rules as commands") and building a Chain in mode !=
// Hint.
func (r *Resolver) resolveFilters(buf *editbuf.Buffer, s *string, mode Mode, start int) (*filter.Chain, string) {
	var chain *filter.Chain
	if mode != Hint {
		chain = r.Filters.NewChain()
	}

	pos := start
	for {
		text := (*s)[pos:]
		for len(text) > 0 && text[0] == ' ' {
			text = text[1:]
			pos++
		}
		if text == "" {
			return nil, "Cannot apply empty filter"
		}

		segEnd := strings.IndexByte(text, '|')
		var seg string
		hasNext := segEnd >= 0
		if hasNext {
			seg = text[:segEnd]
		} else {
			seg = text
		}

		nameEnd := strings.IndexByte(seg, ' ')
		var name, params string
		if nameEnd < 0 {
			name = seg
		} else {
			name = seg[:nameEnd]
			params = strings.TrimSpace(seg[nameEnd+1:])
		}
		if name == "" {
			return nil, "Cannot apply empty filter"
		}

		res := r.Filters.Match(name)
		var class *filter.Class
		switch {
		case res.ExactIndex >= 0:
			class = r.Filters.ByName(r.Filters.Names()[res.ExactIndex])
		case res.UniqueIndex >= 0:
			fullName := r.Filters.Names()[res.UniqueIndex]
			if mode != Hint {
				namePos := pos
				buf.Replace(namePos, len(name), fullName)
				buf.AdjustCursorForReplace(namePos, len(name), len(fullName))
				*s = buf.String()
			}
			class = r.Filters.ByName(fullName)
		default:
			return nil, "No matched filter"
		}
		if class == nil {
			return nil, "No matched filter"
		}

		if mode != Hint {
			chain.Append(class, params)
		}

		if !hasNext {
			return chain, ""
		}
		if !class.AllowNext {
			return nil, "No matched filter"
		}
		pos += segEnd + 1
	}
}

// contextualHelp renders spec.md §4.2's contextual help listing.
func (r *Resolver) contextualHelp(lastLevel *tree.Node, lastWord *word, complete bool, reached *tree.Node) []string {
	var lines []string

	if complete {
		target := reached
		if target == nil {
			target = lastLevel
		}
		children := target.Children
		if target.ChildKind == tree.Dynamic {
			placeholder := target.Children[0]
			r.Tree.RefreshDynamic(placeholder, r.ListCB)
			children = placeholder.DynChildren
		}
		maxw := len("<cr>")
		for _, c := range children {
			if w := len(c.Word); w > maxw {
				maxw = w
			}
		}
		if target.Executable() {
			lines = append(lines, pad("<cr>", maxw)+"  "+target.EffectiveHelp())
		}
		for _, c := range children {
			lines = append(lines, pad(c.Word, maxw)+"  "+c.EffectiveHelp())
		}
		return lines
	}

	if lastWord == nil {
		for _, c := range r.Tree.Root().Children {
			lines = append(lines, c.Word+"  "+c.EffectiveHelp())
		}
		return lines
	}

	maxw := 0
	var candidates []*tree.Node
	for _, c := range lastLevel.Children {
		if strings.HasPrefix(c.Word, lastWord.text) {
			candidates = append(candidates, c)
			if len(c.Word) > maxw {
				maxw = len(c.Word)
			}
		}
	}
	for _, c := range candidates {
		lines = append(lines, pad(c.Word, maxw)+"  "+c.EffectiveHelp())
	}
	return lines
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
