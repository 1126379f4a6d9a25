package dfa_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbonev/yacli/dfa"
	"github.com/bbonev/yacli/render"
)

// recordingActions is a dfa.Actions double that logs every call it receives
// by name, and lets a test script canned return values for the handful of
// methods that report something back to the DFA.
type recordingActions struct {
	calls []string

	deleteRightEmpty   bool
	executeResult      dfa.Result
	pagerReleaseRemains bool
	searchExecResult   dfa.Result
}

func (r *recordingActions) log(name string) { r.calls = append(r.calls, name) }

func (r *recordingActions) Insert(c byte)            { r.log("Insert:" + string(c)) }
func (r *recordingActions) Home()                    { r.log("Home") }
func (r *recordingActions) End()                     { r.log("End") }
func (r *recordingActions) MoveLeft()                { r.log("MoveLeft") }
func (r *recordingActions) MoveRight()               { r.log("MoveRight") }
func (r *recordingActions) MoveWordLeft()            { r.log("MoveWordLeft") }
func (r *recordingActions) MoveWordRight()           { r.log("MoveWordRight") }
func (r *recordingActions) DeleteLeft()              { r.log("DeleteLeft") }
func (r *recordingActions) DeleteRight() bool         { r.log("DeleteRight"); return r.deleteRightEmpty }
func (r *recordingActions) DeleteToEnd()             { r.log("DeleteToEnd") }
func (r *recordingActions) DeleteWord()              { r.log("DeleteWord") }
func (r *recordingActions) DeletePrevWord()          { r.log("DeletePrevWord") }
func (r *recordingActions) ClearBuffer()             { r.log("ClearBuffer") }
func (r *recordingActions) ClearScreenAndReqSize()   { r.log("ClearScreenAndReqSize") }
func (r *recordingActions) Complete()                { r.log("Complete") }
func (r *recordingActions) Help()                    { r.log("Help") }
func (r *recordingActions) Execute() dfa.Result       { r.log("Execute"); return r.executeResult }

func (r *recordingActions) HistoryOlder()                 { r.log("HistoryOlder") }
func (r *recordingActions) HistoryNewer()                 { r.log("HistoryNewer") }
func (r *recordingActions) EnterSearch()                  { r.log("EnterSearch") }
func (r *recordingActions) SearchAppend(c byte)            { r.log("SearchAppend:" + string(c)) }
func (r *recordingActions) SearchBackspace()               { r.log("SearchBackspace") }
func (r *recordingActions) SearchOlder()                   { r.log("SearchOlder") }
func (r *recordingActions) SearchNewer()                   { r.log("SearchNewer") }
func (r *recordingActions) SearchAbortKeepBuffer()         { r.log("SearchAbortKeepBuffer") }
func (r *recordingActions) SearchAbortAndClearBuffer()     { r.log("SearchAbortAndClearBuffer") }
func (r *recordingActions) SearchFinishWithoutExecuting()  { r.log("SearchFinishWithoutExecuting") }
func (r *recordingActions) SearchExecuteIfChosen() dfa.Result {
	r.log("SearchExecuteIfChosen")
	return r.searchExecResult
}

func (r *recordingActions) PagerReleaseLine() bool { r.log("PagerReleaseLine"); return r.pagerReleaseRemains }
func (r *recordingActions) PagerReleasePage() bool { r.log("PagerReleasePage"); return r.pagerReleaseRemains }
func (r *recordingActions) PagerContinue()         { r.log("PagerContinue") }
func (r *recordingActions) PagerQuit()             { r.log("PagerQuit") }
func (r *recordingActions) PagerQuitCtrlC()        { r.log("PagerQuitCtrlC") }

func (r *recordingActions) PrintVersions()      { r.log("PrintVersions") }
func (r *recordingActions) DumpHistory()        { r.log("DumpHistory") }
func (r *recordingActions) PrintTerminalSize()  { r.log("PrintTerminalSize") }
func (r *recordingActions) DumpTree()           { r.log("DumpTree") }

func (r *recordingActions) CtrlZ()  { r.log("CtrlZ") }
func (r *recordingActions) Winch()  { r.log("Winch") }

func TestNormPrintableInserts(t *testing.T) {
	a := &recordingActions{}
	d := dfa.New(a)

	res := d.Key(render.Key('a'))

	require.Equal(t, dfa.ResultLoop, res)
	require.Equal(t, []string{"Insert:a"}, a.calls)
}

func TestNormEnterExecutesAndReturnsItsResult(t *testing.T) {
	a := &recordingActions{executeResult: dfa.ResultEnter}
	d := dfa.New(a)

	res := d.Key(render.KeyEnter)

	require.Equal(t, dfa.ResultEnter, res)
	require.Equal(t, []string{"Execute"}, a.calls)
}

func TestNormCtrlDOnEmptyBufferReturnsEOF(t *testing.T) {
	a := &recordingActions{deleteRightEmpty: true}
	d := dfa.New(a)

	res := d.Key(render.KeyCtrlD)

	require.Equal(t, dfa.ResultEOF, res)
}

func TestNormCtrlDOnNonEmptyBufferLoops(t *testing.T) {
	a := &recordingActions{deleteRightEmpty: false}
	d := dfa.New(a)

	res := d.Key(render.KeyCtrlD)

	require.Equal(t, dfa.ResultLoop, res)
}

func TestNormCtrlREntersSearchState(t *testing.T) {
	a := &recordingActions{}
	d := dfa.New(a)

	d.Key(render.KeyCtrlR)

	require.Equal(t, dfa.Search, d.State())
	require.Equal(t, []string{"EnterSearch"}, a.calls)
}

func TestSearchPrintableAppendsAndStaysInSearch(t *testing.T) {
	a := &recordingActions{}
	d := dfa.New(a)
	d.SetState(dfa.Search)

	d.Key(render.Key('x'))

	require.Equal(t, dfa.Search, d.State())
	require.Equal(t, []string{"SearchAppend:x"}, a.calls)
}

func TestSearchEnterReturnsToNormAndExecutesIfChosen(t *testing.T) {
	a := &recordingActions{searchExecResult: dfa.ResultEnter}
	d := dfa.New(a)
	d.SetState(dfa.Search)

	res := d.Key(render.KeyEnter)

	require.Equal(t, dfa.Norm, d.State())
	require.Equal(t, dfa.ResultEnter, res)
	require.Equal(t, []string{"SearchExecuteIfChosen"}, a.calls)
}

func TestSearchEscFinishesWithoutExecutingAndReturnsToNorm(t *testing.T) {
	a := &recordingActions{}
	d := dfa.New(a)
	d.SetState(dfa.Search)

	d.Key(render.KeyEsc)

	require.Equal(t, dfa.Norm, d.State())
	require.Equal(t, []string{"SearchFinishWithoutExecuting"}, a.calls)
}

func TestMoreSpaceReleasesPageAndStaysInMoreWhileBuffered(t *testing.T) {
	a := &recordingActions{pagerReleaseRemains: true}
	d := dfa.New(a)
	d.SetState(dfa.More)

	d.Key(render.Key(' '))

	require.Equal(t, dfa.More, d.State())
	require.Equal(t, []string{"PagerReleasePage"}, a.calls)
}

func TestMoreSpaceReleasesPageAndReturnsToNormWhenDrained(t *testing.T) {
	a := &recordingActions{pagerReleaseRemains: false}
	d := dfa.New(a)
	d.SetState(dfa.More)

	d.Key(render.Key(' '))

	require.Equal(t, dfa.Norm, d.State())
}

func TestMoreAnyOtherKeyReleasesOneLine(t *testing.T) {
	a := &recordingActions{pagerReleaseRemains: true}
	d := dfa.New(a)
	d.SetState(dfa.More)

	d.Key(render.KeyEnter)

	require.Equal(t, []string{"PagerReleaseLine"}, a.calls)
	require.Equal(t, dfa.More, d.State())
}

func TestMoreQKeyQuitsPager(t *testing.T) {
	a := &recordingActions{}
	d := dfa.New(a)
	d.SetState(dfa.More)

	d.Key(render.Key('q'))

	require.Equal(t, dfa.Norm, d.State())
	require.Equal(t, []string{"PagerQuit"}, a.calls)
}

func TestPrefixXCtrlVPrintsVersionsAndReturnsToNorm(t *testing.T) {
	a := &recordingActions{}
	d := dfa.New(a)
	d.SetState(dfa.PrefixX)

	d.Key(render.KeyCtrlV)

	require.Equal(t, dfa.Norm, d.State())
	require.Equal(t, []string{"PrintVersions"}, a.calls)
}

func TestPrefixXCtrlXReentersPrefixX(t *testing.T) {
	a := &recordingActions{}
	d := dfa.New(a)
	d.SetState(dfa.PrefixX)

	d.Key(render.KeyCtrlX)

	require.Equal(t, dfa.PrefixX, d.State())
	require.Empty(t, a.calls)
}

func TestPrefixXUnrecognizedKeyFallsThroughToNormAndInserts(t *testing.T) {
	a := &recordingActions{}
	d := dfa.New(a)
	d.SetState(dfa.PrefixX)

	res := d.Key(render.Key('q'))

	require.Equal(t, dfa.ResultLoop, res)
	require.Equal(t, dfa.Norm, d.State())
	require.Equal(t, []string{"Insert:q"}, a.calls)
}

func TestCtrlWDeletesThePrecedingWordNotTheFollowingOne(t *testing.T) {
	a := &recordingActions{}
	d := dfa.New(a)

	res := d.Key(render.KeyCtrlW)

	require.Equal(t, dfa.ResultLoop, res)
	require.Equal(t, []string{"DeletePrevWord"}, a.calls)
}

func TestAltBackspaceDeletesThePrecedingWord(t *testing.T) {
	a := &recordingActions{}
	d := dfa.New(a)

	d.Key(render.KeyAltBackspace)

	require.Equal(t, []string{"DeletePrevWord"}, a.calls)
}

func TestAltDDeletesTheFollowingWord(t *testing.T) {
	a := &recordingActions{}
	d := dfa.New(a)

	d.Key(render.KeyAltD)

	require.Equal(t, []string{"DeleteWord"}, a.calls)
}

func TestHomeKeyMovesCursorHome(t *testing.T) {
	a := &recordingActions{}
	d := dfa.New(a)

	d.Key(render.KeyHome)

	require.Equal(t, []string{"Home"}, a.calls)
}

func TestEndKeyMovesCursorEnd(t *testing.T) {
	a := &recordingActions{}
	d := dfa.New(a)

	d.Key(render.KeyEnd)

	require.Equal(t, []string{"End"}, a.calls)
}

func TestDelKeyDeletesRightWithoutSignalingEOF(t *testing.T) {
	a := &recordingActions{deleteRightEmpty: true}
	d := dfa.New(a)

	res := d.Key(render.KeyDel)

	require.Equal(t, dfa.ResultLoop, res)
	require.Equal(t, []string{"DeleteRight"}, a.calls)
}

func TestCtrlZFromNormInvokesActionAndStaysInNorm(t *testing.T) {
	a := &recordingActions{}
	d := dfa.New(a)

	d.Key(render.KeyCtrlZ)

	require.Equal(t, dfa.Norm, d.State())
	require.Equal(t, []string{"CtrlZ"}, a.calls)
}

func TestScreenSizeEventDispatchesWinch(t *testing.T) {
	a := &recordingActions{}
	d := dfa.New(a)

	d.Key(render.KeyScreenSize)

	require.Equal(t, []string{"Winch"}, a.calls)
}
