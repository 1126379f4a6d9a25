// Package mode implements the mode stack described in spec.md §3 ("Mode
// frame") and §4.5: a LIFO stack of named submodes, each owning a private
// command tree, with a dash-joined prompt fragment and a Ctrl-Z unwind hook.
//
// Grounded on yacli.c's mode stack (yacli_enter_mode/yacli_exit_mode,
// pushing/popping a saved cmnode root) and, for the "current working
// location is a stack of named frames with a composed prompt fragment"
// shape, on gwcli/mother's pwd/root navigation stack in traverse.go.
package mode

import (
	"strings"

	"github.com/bbonev/yacli/tree"
)

// Frame is one pushed mode: a short name, the tree root that was in force
// before entering (restored on exit), the fresh per-mode tree, and an
// opaque caller hint (spec.md §3 "opaque user hint").
type Frame struct {
	Name     string
	SavedTree *tree.Tree
	ModeTree  *tree.Tree
	Hint      interface{}
}

// Stack is the LIFO mode stack.
type Stack struct {
	frames []*Frame
}

// New returns an empty mode stack.
func New() *Stack { return &Stack{} }

// Depth returns how many modes are currently entered.
func (s *Stack) Depth() int { return len(s.frames) }

// Enter pushes a new frame, saving current as the frame's restore point and
// returning a fresh empty tree the caller should populate with mode-local
// commands (spec.md §4.5 "enter_mode(name, hint) ... starts with a null
// tree").
func (s *Stack) Enter(name string, current *tree.Tree, hint interface{}) *tree.Tree {
	f := &Frame{Name: name, SavedTree: current, ModeTree: tree.New(), Hint: hint}
	s.frames = append(s.frames, f)
	return f.ModeTree
}

// Exit pops the top frame, returning the tree that should become current
// again (the frame's SavedTree), or nil if the stack was already empty.
func (s *Stack) Exit() *tree.Tree {
	if len(s.frames) == 0 {
		return nil
	}
	n := len(s.frames) - 1
	f := s.frames[n]
	s.frames = s.frames[:n]
	return f.SavedTree
}

// Top returns the innermost (topmost) frame, or nil if the stack is empty.
func (s *Stack) Top() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// SetHint updates the topmost frame's hint.
func (s *Stack) SetHint(hint interface{}) {
	if f := s.Top(); f != nil {
		f.Hint = hint
	}
}

// GetHint returns the topmost frame's hint, or nil outside any mode.
func (s *Stack) GetHint() interface{} {
	if f := s.Top(); f != nil {
		return f.Hint
	}
	return nil
}

// PromptChain renders the dash-joined mode-name fragment of the prompt:
// `(oldest-…-topmost)`, matching yacli_gen_modes's reverse walk from the
// base frame, so the mode entered first appears leftmost.
func (s *Stack) PromptChain() string {
	if len(s.frames) == 0 {
		return ""
	}
	names := make([]string, len(s.frames))
	for i, f := range s.frames {
		names[i] = f.Name
	}
	return "(" + strings.Join(names, "-") + ")"
}

// UnwindHook is invoked once per level while Unwind pops the entire stack
// (spec.md §4.5 "unwinds the entire stack, invoking the hook at each
// level"), innermost frame first.
type UnwindHook func(f *Frame)

// Unwind pops every remaining frame, calling hook at each level, and
// returns the tree that was current before any mode was ever entered (the
// bottom frame's SavedTree), or nil if the stack was already empty.
func (s *Stack) Unwind(hook UnwindHook) *tree.Tree {
	var base *tree.Tree
	for len(s.frames) > 0 {
		n := len(s.frames) - 1
		f := s.frames[n]
		s.frames = s.frames[:n]
		if hook != nil {
			hook(f)
		}
		base = f.SavedTree
	}
	return base
}
