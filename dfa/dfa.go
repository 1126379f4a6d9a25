// Package dfa implements the four-state keystroke dispatcher described in
// spec.md §4.6: NORM, SEARCH, MORE, PREFIX_X, with a two-layer switch on
// (state, key). The package only decides WHAT happened to a key — it holds
// no editing, history, or pager state itself, delegating every action to
// the Actions it is constructed with; the root engine package owns state
// and supplies those callbacks.
//
// Grounded on yacli.c's yacli_key state switch (IN_NORM/IN_SEARCH/IN_MORE/
// IN_C_X) for the state machine shape, with the PREFIX_X fall-through-to-
// NORM behavior on an unrecognized second key preserved verbatim
// (spec.md §9 design note).
package dfa

import "github.com/bbonev/yacli/render"

// State is one of the DFA's four states.
type State int

const (
	Norm State = iota
	Search
	More
	PrefixX
)

// Result mirrors spec.md §6's key() return codes.
type Result int

const (
	ResultLoop Result = iota
	ResultEnter
	ResultError
	ResultEOF
)

// Actions is the full set of side effects the DFA can trigger. Every method
// is called synchronously and must not suspend (spec.md §5: the engine is
// strictly single-threaded with no internal suspension points).
type Actions interface {
	// NORM-state editing
	Insert(c byte)
	Home()
	End()
	MoveLeft()
	MoveRight()
	MoveWordLeft()
	MoveWordRight()
	DeleteLeft()
	DeleteRight() (bufferWasEmpty bool)
	DeleteToEnd()
	DeleteWord()
	DeletePrevWord()
	ClearBuffer()
	ClearScreenAndReqSize()
	Complete()     // Tab
	Help()         // '?'
	Execute() (result Result)

	// history / search
	HistoryOlder()
	HistoryNewer()
	EnterSearch()
	SearchAppend(c byte)
	SearchBackspace()
	SearchOlder()
	SearchNewer()
	SearchAbortKeepBuffer()
	SearchAbortAndClearBuffer()
	SearchFinishWithoutExecuting()
	SearchExecuteIfChosen() (result Result)

	// pager (MORE state); both report whether buffered output remains
	PagerReleaseLine() (remains bool)
	PagerReleasePage() (remains bool)
	PagerContinue()
	PagerQuit()
	PagerQuitCtrlC()

	// PREFIX_X combos
	PrintVersions()
	DumpHistory()
	PrintTerminalSize()
	DumpTree()

	// ctrl-z / window events
	CtrlZ()
	Winch()
}

// DFA dispatches keystrokes to Actions according to the current state.
type DFA struct {
	state State
	acts  Actions
}

// New returns a DFA in the NORM state.
func New(acts Actions) *DFA { return &DFA{state: Norm, acts: acts} }

// State returns the current state, for prompt/status rendering.
func (d *DFA) State() State { return d.state }

// SetState forces a state transition; the engine uses this to enter MORE
// once the pager's output crosses the page threshold. Ctrl-R's move from
// NORM into SEARCH is handled inside Key.
func (d *DFA) SetState(s State) { d.state = s }

// Key feeds one keystroke through the DFA and returns the key()-style
// result code (spec.md §6).
func (d *DFA) Key(k render.Key) Result {
	switch d.state {
	case PrefixX:
		return d.keyPrefixX(k)
	case Search:
		return d.keySearch(k)
	case More:
		return d.keyMore(k)
	default:
		return d.keyNorm(k)
	}
}

func (d *DFA) keyNorm(k render.Key) Result {
	a := d.acts
	switch {
	case render.Printable(k):
		a.Insert(byte(k))
		return ResultLoop
	case k == render.KeyEnter:
		return a.Execute()
	case k == render.KeyCtrlA:
		a.Home()
		return ResultLoop
	case k == render.KeyCtrlE:
		a.End()
		return ResultLoop
	case k == render.KeyCtrlB || k == render.KeyLeft:
		a.MoveLeft()
		return ResultLoop
	case k == render.KeyCtrlF || k == render.KeyRight:
		a.MoveRight()
		return ResultLoop
	case k == render.KeyAltB || k == render.KeyCtrlLeft:
		a.MoveWordLeft()
		return ResultLoop
	case k == render.KeyAltF || k == render.KeyCtrlRight:
		a.MoveWordRight()
		return ResultLoop
	case k == render.KeyBackspace || k == render.KeyCtrlH:
		a.DeleteLeft()
		return ResultLoop
	case k == render.KeyCtrlD:
		if empty := a.DeleteRight(); empty {
			return ResultEOF
		}
		return ResultLoop
	case k == render.KeyHome:
		a.Home()
		return ResultLoop
	case k == render.KeyEnd:
		a.End()
		return ResultLoop
	case k == render.KeyDel:
		a.DeleteRight()
		return ResultLoop
	case k == render.KeyCtrlK:
		a.DeleteToEnd()
		return ResultLoop
	case k == render.KeyCtrlU:
		a.ClearBuffer()
		return ResultLoop
	case k == render.KeyCtrlW || k == render.KeyAltBackspace:
		a.DeletePrevWord()
		return ResultLoop
	case k == render.KeyAltD:
		a.DeleteWord()
		return ResultLoop
	case k == render.KeyCtrlL:
		a.ClearScreenAndReqSize()
		return ResultLoop
	case k == render.KeyCtrlN || k == render.KeyDown:
		a.HistoryNewer()
		return ResultLoop
	case k == render.KeyCtrlP || k == render.KeyUp:
		a.HistoryOlder()
		return ResultLoop
	case k == render.KeyCtrlR:
		a.EnterSearch()
		d.state = Search
		return ResultLoop
	case k == render.KeyCtrlC:
		a.ClearBuffer()
		return ResultLoop
	case k == render.KeyEsc:
		return ResultLoop
	case k == render.KeyTab:
		a.Complete()
		return ResultLoop
	case k == '?':
		a.Help()
		return ResultLoop
	case k == render.KeyCtrlX:
		d.state = PrefixX
		return ResultLoop
	case k == render.KeyCtrlZ:
		a.CtrlZ()
		return ResultLoop
	case k == render.KeyScreenSize || k == render.KeyTelnetSize:
		a.Winch()
		return ResultLoop
	default:
		return ResultLoop
	}
}

func (d *DFA) keySearch(k render.Key) Result {
	a := d.acts
	switch {
	case render.Printable(k):
		a.SearchAppend(byte(k))
		return ResultLoop
	case k == render.KeyEnter:
		d.state = Norm
		return a.SearchExecuteIfChosen()
	case k == render.KeyBackspace || k == render.KeyCtrlH:
		a.SearchBackspace()
		return ResultLoop
	case k == render.KeyCtrlR || k == render.KeyUp:
		a.SearchOlder()
		return ResultLoop
	case k == render.KeyCtrlS || k == render.KeyDown:
		a.SearchNewer()
		return ResultLoop
	case k == render.KeyCtrlC:
		a.SearchAbortAndClearBuffer()
		d.state = Norm
		return ResultLoop
	case k == render.KeyCtrlG:
		a.SearchAbortKeepBuffer()
		d.state = Norm
		return ResultLoop
	case k == render.KeyEsc:
		a.SearchFinishWithoutExecuting()
		d.state = Norm
		return ResultLoop
	default:
		return ResultLoop
	}
}

func (d *DFA) keyMore(k render.Key) Result {
	a := d.acts
	switch {
	case k == render.KeyCtrlC:
		a.PagerQuitCtrlC()
		d.state = Norm
		return ResultLoop
	case k == ' ':
		if remains := a.PagerReleasePage(); !remains {
			d.state = Norm
		}
		return ResultLoop
	case k == 'c' || k == 'C':
		a.PagerContinue()
		d.state = Norm
		return ResultLoop
	case k == 'q' || k == 'Q':
		a.PagerQuit()
		d.state = Norm
		return ResultLoop
	default:
		// Enter, backspace, history keys, and any other printable key
		// are all treated as Enter in MORE state (spec.md §4.6 table).
		if remains := a.PagerReleaseLine(); !remains {
			d.state = Norm
		}
		return ResultLoop
	}
}

func (d *DFA) keyPrefixX(k render.Key) Result {
	a := d.acts
	d.state = Norm
	switch k {
	case render.KeyCtrlV:
		a.PrintVersions()
		return ResultLoop
	case render.KeyCtrlH:
		a.DumpHistory()
		return ResultLoop
	case render.KeyCtrlZ:
		a.PrintTerminalSize()
		return ResultLoop
	case render.KeyCtrlC:
		a.DumpTree()
		return ResultLoop
	case render.KeyCtrlX:
		// self-ignore: re-enter PREFIX_X (spec.md §4.6).
		d.state = PrefixX
		return ResultLoop
	default:
		// fall through to NORM on an unrecognized second key, so e.g.
		// Ctrl-X followed by a letter still inserts the letter
		// (spec.md §9 design note, preserved verbatim).
		return d.keyNorm(k)
	}
}
