// Package tree implements the command tree described in spec.md §3 and
// §4.1: sorted sibling lists, static/dynamic/regex children, a handler
// pointer per node, and the dynamic-expansion/vacuum lifecycle.
//
// Grounded on yacli.c's cmnode list (yacli_add_cmd, yacli_dyn_upd,
// yacli_dyn_vacuum) and, for the "tagged variant over leading-character
// sniffing" shape (spec.md §9 design notes), on gwcli/mother/traverse's
// cobra.Command.GroupID discipline (navs vs actions are tagged, not
// string-sniffed).
package tree

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Handler is invoked when an exact, executable command is reached.
// args is the parsed word list, head to tail, including the command's own
// words (spec.md §3 "Parsed command").
type Handler func(args []string)

// Kind tags what sort of value a node's child collection holds. Per
// spec.md §9, this is a discipline on the collection, not on individual
// nodes: a container is entirely static, entirely one dynamic placeholder,
// or entirely one regex placeholder.
type Kind int

const (
	Empty Kind = iota
	Static
	Dynamic
	Regex
)

var (
	// ErrDuplicate is returned when a word already exists at this level,
	// or a second dynamic/regex placeholder is added to a container that
	// already has one.
	ErrDuplicate = errors.New("tree: duplicate command word")
	// ErrMixedKind is returned when static and dynamic/regex children
	// would be mixed at the same level.
	ErrMixedKind = errors.New("tree: cannot mix static and dynamic/regex children")
	// ErrBadRegex is returned when a "^...$" word fails to compile.
	ErrBadRegex = errors.New("tree: invalid regex command word")
	// ErrForeignParent is returned when parent belongs to another Tree.
	ErrForeignParent = errors.New("tree: parent node belongs to a different tree")
)

// Node is one entry in the command tree.
type Node struct {
	Word    string // literal, "@<id>", or "^regex$"
	Help    string // for regex nodes, the human-readable abbreviation
	Handler Handler

	Parent   *Node
	Children []*Node // sorted static children, or a single dyn/regex placeholder
	ChildKind Kind

	DynChildren []*Node // populated on demand before a resolver pass
	DynID       int      // the "<id>" of an "@<id>" placeholder

	IsDyn bool // true for nodes generated into a parent's DynChildren

	regex *regexp.Regexp
	tree  *Tree
}

// EffectiveHandler returns the handler that should fire when this node is
// reached: its own for ordinary nodes, its placeholder parent's for
// dynamically-generated nodes (spec.md §3, §4.2: "cn->isdyn?cn->parent->cb:cn->cb").
func (n *Node) EffectiveHandler() Handler {
	if n == nil {
		return nil
	}
	if n.IsDyn && n.Parent != nil {
		return n.Parent.Handler
	}
	return n.Handler
}

// EffectiveHelp mirrors EffectiveHandler for the Help string.
func (n *Node) EffectiveHelp() string {
	if n == nil {
		return ""
	}
	if n.IsDyn && n.Parent != nil {
		return n.Parent.Help
	}
	return n.Help
}

// Executable reports whether reaching this node exactly dispatches a
// handler.
func (n *Node) Executable() bool {
	return n.EffectiveHandler() != nil
}

func classify(word string) (Kind, int, string, error) {
	switch {
	case strings.HasPrefix(word, "@"):
		id, err := strconv.Atoi(word[1:])
		if err != nil {
			return Dynamic, 0, "", fmt.Errorf("tree: dynamic word %q must be \"@<id>\": %w", word, err)
		}
		return Dynamic, id, "", nil
	case strings.HasPrefix(word, "^") && strings.HasSuffix(word, "$") && len(word) >= 2:
		re, err := regexp.Compile(word)
		if err != nil {
			return Regex, 0, "", fmt.Errorf("%w: %v", ErrBadRegex, err)
		}
		return Regex, 0, word, nil
	default:
		return Static, 0, "", nil
	}
}

// Tree owns a command tree rooted at a virtual, never-matched node whose
// Children hold the top-level siblings; this lets Add/List treat the
// top level and any interior node identically.
type Tree struct {
	root *Node
}

// New returns an empty command tree.
func New() *Tree {
	t := &Tree{root: &Node{}}
	t.root.tree = t
	return t
}

// Root returns the virtual root node. Pass it (or nil) as the parent to Add
// to register a top-level command.
func (t *Tree) Root() *Node { return t.root }

// Add registers a new command word under parent (nil or Tree.Root() for a
// top-level command). It fails (ErrDuplicate/ErrMixedKind/ErrBadRegex) and
// leaves the tree unchanged if the word already exists at that level or
// would mix static with dynamic/regex siblings (spec.md §7).
func (t *Tree) Add(parent *Node, word, help string, h Handler) (*Node, error) {
	if word == "" {
		return nil, errors.New("tree: empty command word")
	}
	if parent == nil {
		parent = t.root
	} else if parent.tree != t {
		return nil, ErrForeignParent
	}

	kind, dynID, regexWord, err := classify(word)
	if err != nil {
		return nil, err
	}

	switch parent.ChildKind {
	case Empty:
		parent.ChildKind = kind
	case Static:
		if kind != Static {
			return nil, ErrMixedKind
		}
	default: // Dynamic or Regex: exactly one placeholder allowed, ever
		if kind != parent.ChildKind || len(parent.Children) > 0 {
			if kind != parent.ChildKind {
				return nil, ErrMixedKind
			}
			return nil, ErrDuplicate
		}
	}

	n := &Node{Word: word, Help: help, Handler: h, Parent: parent, tree: t}
	if kind == Regex {
		re, _ := regexp.Compile(regexWord)
		n.regex = re
	}
	if kind == Dynamic {
		n.DynID = dynID
	}

	if kind == Static {
		idx := sort.Search(len(parent.Children), func(i int) bool {
			return parent.Children[i].Word >= word
		})
		if idx < len(parent.Children) && parent.Children[idx].Word == word {
			return nil, ErrDuplicate
		}
		parent.Children = append(parent.Children, nil)
		copy(parent.Children[idx+1:], parent.Children[idx:])
		parent.Children[idx] = n
	} else {
		parent.Children = []*Node{n}
	}

	return n, nil
}

// MatchRegex reports whether word satisfies a regex node's pattern.
func (n *Node) MatchRegex(word string) bool {
	if n.regex == nil {
		return false
	}
	return n.regex.MatchString(word)
}

// List appends an item to a dynamic placeholder's DynChildren, in sorted
// order, for use from within a list callback (spec.md §4.1). node must be
// the "@<id>" placeholder itself.
func (t *Tree) List(node *Node, item string) *Node {
	if node == nil || node.IsDyn || node.Parent == nil || node.Parent.ChildKind != Dynamic {
		return nil
	}
	idx := sort.Search(len(node.DynChildren), func(i int) bool {
		return node.DynChildren[i].Word >= item
	})
	if idx < len(node.DynChildren) && node.DynChildren[idx].Word == item {
		return node.DynChildren[idx] // duplicate list() calls are idempotent
	}
	n := &Node{Word: item, Parent: node, IsDyn: true, tree: t}
	node.DynChildren = append(node.DynChildren, nil)
	copy(node.DynChildren[idx+1:], node.DynChildren[idx:])
	node.DynChildren[idx] = n
	return n
}

// ListCallback populates a dynamic placeholder's children. It must not
// suspend, must not mutate unrelated tree nodes, and must not persist node
// beyond the call (spec.md §9 design notes).
type ListCallback func(tree *Tree, node *Node, id int)

// RefreshDynamic discards node's prior DynChildren and re-invokes cb
// synchronously to repopulate them (spec.md §4.1).
func (t *Tree) RefreshDynamic(node *Node, cb ListCallback) {
	if node == nil || cb == nil || node.IsDyn || node.Parent == nil || node.Parent.ChildKind != Dynamic {
		return
	}
	node.DynChildren = nil
	cb(t, node, node.DynID)
}

// Vacuum discards DynChildren across the whole tree, intended to run after
// each resolver pass so stale listings are never consulted twice
// (spec.md §4.1 "vacuum sweep").
func (t *Tree) Vacuum() {
	vacuum(t.root)
}

func vacuum(n *Node) {
	n.DynChildren = nil
	for _, c := range n.Children {
		vacuum(c)
	}
}

// Walk visits every real (non-root) node in the tree in sibling order,
// depth first, reporting each node's depth from the top level (0-based).
// It does not descend into DynChildren, since those are ephemeral
// resolver-pass artifacts rather than part of the registered tree
// (spec.md §4.1 "vacuum sweep").
func (t *Tree) Walk(fn func(n *Node, depth int)) {
	walk(t.root, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int)) {
	for _, c := range n.Children {
		fn(c, depth)
		walk(c, depth+1, fn)
	}
}

// Free discards the whole tree. Go's GC reclaims the nodes once
// unreferenced; Free exists to make teardown order explicit at call sites
// that mirror yacli_cmd_free, and to sever parent backlinks so a stray
// reference elsewhere in the program cannot walk back into a freed tree.
func (t *Tree) Free() {
	free(t.root)
	t.root.Children = nil
}

func free(n *Node) {
	for _, c := range n.Children {
		free(c)
		c.Parent = nil
		c.tree = nil
	}
	n.DynChildren = nil
}
