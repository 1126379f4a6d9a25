// Package yacli wires the command tree, resolver, filter pipeline, pager,
// mode stack, and input DFA into the embeddable engine described in
// spec.md §6: one synchronous key() entry point and a small output/
// configuration API, driven by a host event loop the engine never owns.
//
// Grounded on yacli.c's yacli struct and its yacli_key/yacli_enter/
// yacli_ctrl_z top-level operations, which this file reassembles from the
// package pieces below exactly as the source interleaves them inline.
package yacli

import (
	"fmt"
	"strings"

	"github.com/bbonev/yacli/dfa"
	"github.com/bbonev/yacli/editbuf"
	"github.com/bbonev/yacli/filter"
	"github.com/bbonev/yacli/history"
	"github.com/bbonev/yacli/mode"
	"github.com/bbonev/yacli/pager"
	"github.com/bbonev/yacli/render"
	"github.com/bbonev/yacli/resolver"
	"github.com/bbonev/yacli/tree"
	"github.com/bbonev/yacli/yalog"
)

// LoopCode mirrors spec.md §6's key() return codes.
type LoopCode int

const (
	Loop LoopCode = iota
	Enter
	Error
	EOF
)

func fromDFA(r dfa.Result) LoopCode {
	switch r {
	case dfa.ResultEnter:
		return Enter
	case dfa.ResultError:
		return Error
	case dfa.ResultEOF:
		return EOF
	default:
		return Loop
	}
}

// CmdCallback is invoked after every Enter with the raw line text and
// whether the resolver's return code was in range 3..7 — complete and
// executable, or executable alone — the "would this have dispatched" test
// spec.md §6 names for cmd_cb.
type CmdCallback func(line string, executed bool)

// CtrlZCallback notifies the embedder that Ctrl-Z fired, once per mode
// level during unwind (spec.md §4.5, yacli_ctrl_z).
type CtrlZCallback func()

// Engine is the embeddable CLI engine.
type Engine struct {
	renderer render.Renderer
	log      yalog.Logger

	tree     *tree.Tree
	filters  *filter.Registry
	resolver *resolver.Resolver
	history  *history.Ring
	buf      *editbuf.Buffer
	pager    *pager.Pager
	modes    *mode.Stack
	dfa      *dfa.DFA

	hostname, banner, level string
	ctrlZEnabled            bool
	ctrlZExecutes           bool
	showTerminalSize        bool

	cmdCB   CmdCallback
	ctrlZCB CtrlZCallback

	intHint int
	ptrHint interface{}

	inCmdCB     bool
	redraw      bool
	lastWasTab  bool
	pendingExit bool

	activeSink filter.Sink // set while a handler's output is mid-chain
}

// Option configures an Engine at construction time, mirroring the
// teacher's functional-option configuration style (gwcli/utilities/
// scaffold.BasicActionOption).
type Option func(*Engine)

func WithHostname(h string) Option    { return func(e *Engine) { e.hostname = h } }
func WithBanner(b string) Option      { return func(e *Engine) { e.banner = b } }
func WithLevelGlyph(g string) Option  { return func(e *Engine) { e.level = g } }
func WithTelnet(on bool) Option       { return func(e *Engine) { e.renderer.SetTelnet(on) } }
func WithLogger(l yalog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithMore(on bool) Option { return func(e *Engine) { e.pager.SetMore(on) } }

func WithCtrlZ(on bool) Option         { return func(e *Engine) { e.ctrlZEnabled = on } }
func WithCtrlZExecutes(on bool) Option { return func(e *Engine) { e.ctrlZExecutes = on } }
func WithShowTerminalSize(on bool) Option {
	return func(e *Engine) { e.showTerminalSize = on }
}

// WithMoreClear sets the four independent prompt-erasure flags
// (spec.md §4.4 "set_more_clear").
func WithMoreClear(line, page, cont, quit bool) Option {
	return func(e *Engine) {
		e.pager.ClearAfterLine = line
		e.pager.ClearAfterPage = page
		e.pager.ClearAfterContinue = cont
		e.pager.ClearAfterQuit = quit
	}
}

// New constructs an Engine over r (spec.md §6 "init(renderer) → engine").
func New(r render.Renderer, opts ...Option) *Engine {
	e := &Engine{
		renderer: r,
		log:      yalog.NoLogger(),
		level:    "#",
		tree:     tree.New(),
		history:  history.New(),
		buf:      editbuf.New(),
		modes:    mode.New(),
	}
	e.pager = pager.New(r, e.onMoreEnter)
	e.filters = filter.NewRegistry(e.pager)
	e.resolver = resolver.New(e.tree, e.filters, nil)
	e.dfa = dfa.New(e)

	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) onMoreEnter() {
	e.dfa.SetState(dfa.More)
	e.pager.DrawMorePrompt()
}

//#region lifecycle

// Start announces the banner and primes the initial prompt draw.
func (e *Engine) Start() {
	if e.banner != "" {
		e.renderer.Puts(e.banner + "\r\n")
	}
	e.renderer.ReqSize()
	_, h := e.renderer.GetSize()
	e.pager.SetHeight(h)
	e.redraw = true
}

// Stop is the symmetric teardown hook; it has no required side effect
// beyond letting callers pair it visually with Start.
func (e *Engine) Stop() {}

// Free discards engine-owned resources in reverse dependency order
// (spec.md §4.5: unwinding every mode returns ownership of the base tree):
// every open mode frame is popped first, then the base command tree.
func (e *Engine) Free() {
	if base := e.modes.Unwind(func(*mode.Frame) {}); base != nil {
		e.tree = base
	}
	e.tree.Free()
}

// Exit requests that the current Execute() call return EOF once its
// handler returns (spec.md §6 "exit"; an "exit"/"logout" command handler
// calls this from within its own body).
func (e *Engine) Exit() { e.pendingExit = true }

//#endregion lifecycle

//#region commands

// AddCmd registers a command under parent (nil for the top level),
// spec.md §4.1 "add".
func (e *Engine) AddCmd(parent *tree.Node, word, help string, h tree.Handler) (*tree.Node, error) {
	return e.tree.Add(parent, word, help, h)
}

// List populates a dynamic placeholder's children from within a list
// callback (spec.md §4.1 "list").
func (e *Engine) List(node *tree.Node, item string) *tree.Node {
	return e.tree.List(node, item)
}

// RootNode exposes the current tree's virtual root, for use as AddCmd's
// parent argument at the top level.
func (e *Engine) RootNode() *tree.Node { return e.tree.Root() }

// SetListCB registers the dynamic-listing callback (spec.md §4.1).
func (e *Engine) SetListCB(cb tree.ListCallback) { e.resolver.ListCB = cb }

// SetCmdCB registers the post-Enter notification callback (spec.md §6).
func (e *Engine) SetCmdCB(cb CmdCallback) { e.cmdCB = cb }

// SetCtrlZCB registers the Ctrl-Z notification hook (spec.md §6).
func (e *Engine) SetCtrlZCB(cb CtrlZCallback) { e.ctrlZCB = cb }

// RegisterFilter adds a caller-supplied filter class (spec.md §4.3).
func (e *Engine) RegisterFilter(c *filter.Class) (*filter.Class, error) {
	return e.filters.Register(c)
}

//#endregion commands

//#region modes

// EnterMode pushes a new mode frame with a fresh, empty command tree the
// caller should populate via AddCmd (spec.md §4.5).
func (e *Engine) EnterMode(name string, hint interface{}) {
	e.tree = e.modes.Enter(name, e.tree, hint)
	e.resolver.Tree = e.tree
}

// ExitMode pops the topmost mode frame, restoring its parent tree
// (spec.md §4.5).
func (e *Engine) ExitMode() {
	if restored := e.modes.Exit(); restored != nil {
		e.tree = restored
		e.resolver.Tree = e.tree
	}
}

// SetModeHint updates the topmost frame's opaque hint.
func (e *Engine) SetModeHint(hint interface{}) { e.modes.SetHint(hint) }

// GetModeHint returns the topmost frame's opaque hint, or nil outside any
// mode.
func (e *Engine) GetModeHint() interface{} { return e.modes.GetHint() }

// ModeDepth reports how many modes are currently entered.
func (e *Engine) ModeDepth() int { return e.modes.Depth() }

//#endregion modes

//#region user hints

// SetIntHint/IntHint and SetPtrHint/PtrHint are the engine-wide opaque
// slots spec.md §3 keeps independent of any mode's hint.
func (e *Engine) SetIntHint(v int)         { e.intHint = v }
func (e *Engine) IntHint() int             { return e.intHint }
func (e *Engine) SetPtrHint(v interface{}) { e.ptrHint = v }
func (e *Engine) PtrHint() interface{}     { return e.ptrHint }

//#endregion user hints

//#region output from handlers

// Print formats and streams text through the active filter chain
// (spec.md §6 "print").
func (e *Engine) Print(format string, args ...interface{}) {
	e.feed([]byte(fmt.Sprintf(format, args...)))
}

// Write streams raw bytes the same way Print does (spec.md §6 "write").
func (e *Engine) Write(p []byte) { e.feed(p) }

func (e *Engine) feed(p []byte) {
	if e.activeSink != nil {
		e.activeSink.Feed(p)
		return
	}
	e.pager.Feed(p)
}

// Message prints a line bypassing the filter chain entirely and redraws
// the prompt around it (spec.md §6 "message"); called from inside a
// running handler it is appended inline instead, since the prompt is not
// on screen yet at that point (spec.md §5 "in_cmd_cb").
func (e *Engine) Message(line string) {
	if e.inCmdCB {
		e.renderer.Write([]byte(line + "\r\n"))
		return
	}
	e.renderer.ClearLine()
	e.renderer.Write([]byte(line + "\r\n"))
	e.redraw = true
}

// BufGet returns the current edit buffer contents (spec.md §6 "buf_get").
func (e *Engine) BufGet() string { return e.buf.String() }

// AddHist appends a line to history directly, bypassing Execute's
// automatic post-dispatch insert (spec.md §6 "add_hist").
func (e *Engine) AddHist(line string) { e.history.Insert(line) }

//#endregion output

//#region prompt rendering

// PromptString composes hostname(modes)level (spec.md §4.8).
func (e *Engine) PromptString() string {
	return e.hostname + e.modes.PromptChain() + e.level
}

// NeedsRedraw reports whether the host loop should call DrawPrompt before
// waiting for the next key.
func (e *Engine) NeedsRedraw() bool { return e.redraw }

// DrawPrompt renders the prompt and the buffer's visible scroll window
// (spec.md §4.8), then clears the redraw flag. It is a no-op while the
// pager owns the line (MORE state).
func (e *Engine) DrawPrompt() {
	e.redraw = false
	if e.dfa.State() == dfa.More {
		return
	}
	prompt := e.PromptString()
	width, _ := e.renderer.GetSize()
	disp := width - len(prompt) - 1
	visible, leftGlyph, rightGlyph, cursorCol := e.buf.Display(disp)

	var line strings.Builder
	line.WriteString(prompt)
	if leftGlyph {
		line.WriteByte('$')
	} else {
		line.WriteByte(' ')
	}
	line.Write(visible)
	if rightGlyph {
		line.WriteByte('$')
	}

	e.renderer.ClearLine()
	e.renderer.Puts(line.String())

	targetCol := len(prompt) + 1 + cursorCol
	for i := 0; i < line.Len()-targetCol; i++ {
		e.renderer.Puts("\b")
	}
}

//#endregion prompt rendering

//#region input entry points

// Key feeds one keystroke through the input DFA (spec.md §6 "key").
func (e *Engine) Key(k render.Key) LoopCode {
	if k != render.KeyTab {
		e.lastWasTab = false
	}
	result := e.dfa.Key(k)
	e.pendingExit = false
	return fromDFA(result)
}

// Winch notifies the engine of a terminal-size change (spec.md §6 "winch";
// also fed via KeyScreenSize/KeyTelnetSize through Key itself).
func (e *Engine) Winch() {
	e.renderer.ReqSize()
	w, h := e.renderer.GetSize()
	e.pager.SetHeight(h)
	if e.showTerminalSize {
		e.Message(fmt.Sprintf("Terminal size: %dx%d", w, h))
	}
	e.redraw = true
}

//#endregion input entry points

//#region dfa.Actions: editing

func (e *Engine) Insert(c byte) { e.buf.Insert(c); e.redraw = true }
func (e *Engine) Home()         { e.buf.Home(); e.redraw = true }
func (e *Engine) End()          { e.buf.End(); e.redraw = true }
func (e *Engine) MoveLeft()     { e.buf.MoveLeft(); e.redraw = true }
func (e *Engine) MoveRight()    { e.buf.MoveRight(); e.redraw = true }
func (e *Engine) MoveWordLeft() { e.buf.MoveWordLeft(); e.redraw = true }
func (e *Engine) MoveWordRight() {
	e.buf.MoveWordRight()
	e.redraw = true
}
func (e *Engine) DeleteLeft() { e.buf.DeleteLeft(); e.redraw = true }
func (e *Engine) DeleteRight() (bufferWasEmpty bool) {
	bufferWasEmpty = e.buf.Len() == 0
	e.buf.DeleteRight()
	e.redraw = true
	return bufferWasEmpty
}
func (e *Engine) DeleteToEnd()     { e.buf.DeleteToEnd(); e.redraw = true }
func (e *Engine) DeleteWord()      { e.buf.DeleteWord(); e.redraw = true }
func (e *Engine) DeletePrevWord()  { e.buf.DeletePrevWord(); e.redraw = true }
func (e *Engine) ClearBuffer() {
	e.buf.Clear()
	e.history.ResetBrowse()
	e.redraw = true
}
func (e *Engine) ClearScreenAndReqSize() {
	e.renderer.Clear()
	e.renderer.ReqSize()
	e.redraw = true
}

// Complete runs try_complete in Complete mode (spec.md §4.6 "Tab"). A
// second consecutive Tab on a non-empty buffer also requests contextual
// help, matching yacli_trycomplete's double-tab behavior.
func (e *Engine) Complete() {
	wasDoubleTab := e.lastWasTab && e.buf.Len() > 0
	out := e.resolver.TryComplete(e.buf, resolver.Complete, wasDoubleTab)
	e.lastWasTab = true
	if out.Code&resolver.BitNoMatch != 0 {
		e.Message(out.Message)
		return
	}
	if len(out.HelpLines) > 0 {
		e.printHelpLines(out.HelpLines)
	}
	e.redraw = true
}

// Help runs try_complete in Hint mode ('?', spec.md §4.6).
func (e *Engine) Help() {
	out := e.resolver.TryComplete(e.buf, resolver.Hint, false)
	if out.Code&resolver.BitNoMatch != 0 {
		e.Message(out.Message)
		return
	}
	e.printHelpLines(out.HelpLines)
	e.redraw = true
}

// Execute runs try_complete in Execute mode (Enter, spec.md §4.2/§4.6):
// dispatches the handler if the line was complete and executable, records
// history, and notifies cmd_cb with the loop-bitfield test spec.md §6
// defines (code in 3..7).
func (e *Engine) Execute() dfa.Result {
	e.lastWasTab = false
	line := e.buf.String()
	out := e.resolver.TryComplete(e.buf, resolver.Execute, false)

	e.renderer.Write([]byte("\r\n"))

	switch {
	case out.Code&resolver.BitNoMatch != 0:
		e.printErrorNoFilter(out.Message)
	case out.Handler != nil:
		e.dispatch(out)
	default:
		if len(out.HelpLines) > 0 {
			e.printHelpLines(out.HelpLines)
		}
	}

	if strings.TrimSpace(line) != "" {
		e.history.Insert(line)
	}
	e.history.ResetBrowse()
	e.buf.Clear()

	if e.cmdCB != nil {
		e.cmdCB(line, out.Code >= 3 && out.Code <= 7)
	}

	if e.pendingExit {
		return dfa.ResultEOF
	}
	e.redraw = true
	return dfa.ResultEnter
}

// dispatch runs a matched handler with in_cmd_cb bracketing and the
// command's own filter chain (if any) as the active output sink
// (spec.md §4.3, §5 "in_cmd_cb").
func (e *Engine) dispatch(out resolver.Outcome) {
	e.inCmdCB = true
	defer func() { e.inCmdCB = false }()

	if out.Chain != nil {
		e.activeSink = out.Chain.Build()
		defer func() {
			out.Chain.Finish()
			e.activeSink = nil
		}()
	}

	out.Handler(out.Parsed)
}

//#endregion dfa.Actions: editing

//#region dfa.Actions: history / search

// HistoryOlder walks the ring toward older entries (Ctrl-P/Up). On the
// first step it stashes the live buffer so Newer can restore it once the
// browse cursor returns past the newest entry (spec.md §4.7).
func (e *Engine) HistoryOlder() {
	if !e.history.Browsing() {
		e.buf.Stash()
	}
	if line, moved := e.history.Older(); moved {
		e.buf.Set(line)
	}
	e.redraw = true
}

// HistoryNewer walks the ring toward newer entries (Ctrl-N/Down),
// restoring the pre-browse buffer once it walks past the newest entry.
func (e *Engine) HistoryNewer() {
	if !e.history.Browsing() {
		return
	}
	line, moved := e.history.Newer()
	if moved {
		e.buf.Set(line)
	} else {
		e.buf.Restore()
	}
	e.redraw = true
}

// EnterSearch begins incremental history search (Ctrl-R, spec.md §4.7).
func (e *Engine) EnterSearch() {
	e.history.StartSearch()
	e.buf.Stash()
	e.redraw = true
}

func (e *Engine) applySearchMatch(match string, found bool) {
	if found {
		e.buf.Set(match)
	}
	e.redraw = true
}

func (e *Engine) SearchAppend(c byte) {
	e.applySearchMatch(e.history.AppendSearch(c))
}

func (e *Engine) SearchBackspace() {
	e.applySearchMatch(e.history.BackspaceSearch())
}

func (e *Engine) SearchOlder() {
	e.applySearchMatch(e.history.SearchOlder())
}

func (e *Engine) SearchNewer() {
	e.applySearchMatch(e.history.SearchNewer())
}

// SearchAbortKeepBuffer leaves search mode keeping whatever line is
// currently shown (Ctrl-G, spec.md §4.7).
func (e *Engine) SearchAbortKeepBuffer() {
	e.history.EndSearch()
	e.redraw = true
}

// SearchAbortAndClearBuffer leaves search mode and clears the buffer
// (Ctrl-C while searching).
func (e *Engine) SearchAbortAndClearBuffer() {
	e.history.EndSearch()
	e.buf.Clear()
	e.redraw = true
}

// SearchFinishWithoutExecuting leaves search mode keeping the matched line
// in the buffer for further editing, without executing it (Esc).
func (e *Engine) SearchFinishWithoutExecuting() {
	e.history.EndSearch()
	e.redraw = true
}

// SearchExecuteIfChosen leaves search mode and executes the line currently
// in the buffer (Enter while searching, spec.md §4.7): the last match shown,
// or the pre-search text when no match was found. It does not check whether
// a match was chosen.
func (e *Engine) SearchExecuteIfChosen() dfa.Result {
	e.history.EndSearch()
	return e.Execute()
}

//#endregion dfa.Actions: history / search

//#region dfa.Actions: pager

func (e *Engine) PagerReleaseLine() (remains bool) { return e.pager.ReleaseLine() }
func (e *Engine) PagerReleasePage() (remains bool) { return e.pager.ReleasePage() }
func (e *Engine) PagerContinue()                   { e.pager.Continue() }
func (e *Engine) PagerQuit()                        { e.pager.Quit() }
func (e *Engine) PagerQuitCtrlC()                   { e.pager.QuitCtrlC() }

//#endregion dfa.Actions: pager

//#region dfa.Actions: PREFIX_X combos (spec.md §4.6)

// PrintVersions prints the renderer's self-reported version string
// (Ctrl-X Ctrl-V).
func (e *Engine) PrintVersions() {
	e.Message(e.renderer.Version())
}

// DumpHistory prints every stored history entry (Ctrl-X Ctrl-H).
func (e *Engine) DumpHistory() {
	entries := e.history.Entries()
	if len(entries) == 0 {
		e.Message("(history is empty)")
		return
	}
	e.renderer.Write([]byte("\r\n"))
	for i, line := range entries {
		e.renderer.Write([]byte(fmt.Sprintf("%4d  %s\r\n", i+1, line)))
	}
	e.redraw = true
}

// PrintTerminalSize prints the last-known terminal dimensions
// (Ctrl-X Ctrl-Z).
func (e *Engine) PrintTerminalSize() {
	w, h := e.renderer.GetSize()
	e.Message(fmt.Sprintf("Terminal size: %dx%d", w, h))
}

// DumpTree prints the registered command tree, indented by depth
// (Ctrl-X Ctrl-C), using tree.Walk; dynamically listed children are not
// shown.
func (e *Engine) DumpTree() {
	e.renderer.Write([]byte("\r\n"))
	e.tree.Walk(func(n *tree.Node, depth int) {
		e.renderer.Write([]byte(strings.Repeat("  ", depth) + n.Word + "\r\n"))
	})
	e.redraw = true
}

//#endregion dfa.Actions: PREFIX_X combos

//#region dfa.Actions: ctrl-z

// CtrlZ implements yacli_ctrl_z exactly: print "^Z\r\n", call the hook,
// either execute the current buffer or clear it depending on
// ctrlZExecutes, then pop every open mode one at a time, calling the hook
// once per level, and finally reset the history browse cursor
// (spec.md §4.5, grounded directly on yacli.c lines 2524-2548).
func (e *Engine) CtrlZ() {
	if !e.ctrlZEnabled {
		return
	}
	e.renderer.Write([]byte("^Z\r\n"))
	if e.ctrlZCB != nil {
		e.ctrlZCB()
	}
	if e.ctrlZExecutes {
		e.Execute()
	} else {
		e.buf.Clear()
	}
	for e.modes.Depth() > 0 {
		if e.ctrlZCB != nil {
			e.ctrlZCB()
		}
		e.ExitMode()
	}
	e.history.ResetBrowse()
	e.redraw = true
}

//#endregion dfa.Actions: ctrl-z

func (e *Engine) printErrorNoFilter(msg string) {
	e.renderer.Write([]byte(msg + "\r\n"))
	e.redraw = true
}

func (e *Engine) printHelpLines(lines []string) {
	e.renderer.Write([]byte("\r\n"))
	for _, l := range lines {
		e.renderer.Write([]byte(l + "\r\n"))
	}
}

var _ dfa.Actions = (*Engine)(nil)
