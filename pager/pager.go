// Package pager implements the more-prompt pager described in spec.md §3
// ("Pager state") and §4.4: a line-counted buffering sink that is always
// the terminal stage of the filter chain (spec.md §4.3), performing
// newline normalization before counting and renders a "--More--"-style
// prompt once output would cross one screen.
//
// Grounded on yacli.c's yacli_write_nof/yacli_write_more (newline
// normalization feeding line-counted buffering) and, for the growable
// morebuf idiom, on the buffered-channel pattern in gwcli's chancacher.
package pager

import (
	"github.com/bbonev/yacli/render"
)

// Outcome identifies which more-prompt key combination ended buffering
// (spec.md §4.4), used to decide whether to erase the prompt line
// afterward per the four independent Clear* flags.
type Outcome int

const (
	OutcomeLine Outcome = iota
	OutcomePage
	OutcomeContinue
	OutcomeQuit
)

// Pager is the filter chain's terminal sink.
type Pager struct {
	r render.Renderer

	more     bool
	buffered bool
	lines    int
	height   int

	morebuf []byte

	prompt string

	// ClearAfter{Line,Page,Continue,Quit} mirror yacli_set_more_clear's
	// four independent prompt-erasure flags.
	ClearAfterLine     bool
	ClearAfterPage     bool
	ClearAfterContinue bool
	ClearAfterQuit     bool

	// onMoreEnter is invoked when output first crosses the page
	// threshold, giving the engine's DFA a chance to switch into the
	// MORE state (spec.md §4.4).
	onMoreEnter func()
}

// New returns a disabled pager writing to r. Call SetMore(true) and
// SetHeight to activate paging.
func New(r render.Renderer, onMoreEnter func()) *Pager {
	return &Pager{r: r, prompt: "--More--", onMoreEnter: onMoreEnter}
}

// SetMore enables or disables the pager.
func (p *Pager) SetMore(on bool) { p.more = on }

// SetHeight sets the screen height used to decide the page threshold
// (paging triggers at height-1 lines, spec.md §4.4).
func (p *Pager) SetHeight(h int) { p.height = h }

// Buffered reports whether the pager is currently holding output pending a
// more-prompt key.
func (p *Pager) Buffered() bool { return p.buffered }

// Feed is the Sink.Feed half of the filter-chain contract (package filter's
// Sink interface), performing newline normalization and page counting
// before any bytes reach the renderer.
func (p *Pager) Feed(b []byte) {
	j := 0
	for i := 0; i < len(b); i++ {
		if b[i] != '\n' {
			continue
		}
		if i > 0 && b[i-1] == '\r' {
			p.emit(b[j : i+1])
		} else {
			p.emit(b[j:i])
			p.emit([]byte("\r\n"))
		}
		j = i + 1
	}
	if j < len(b) {
		p.emit(b[j:])
	}
}

// Done is the Sink.Done half; the pager has nothing to flush (it already
// wrote or buffered everything as it arrived), so Done is a no-op. It
// exists to satisfy filter.Sink.
func (p *Pager) Done() {}

// emit counts newlines in a (already-normalized) run and either writes it
// straight through, or — once it would cross the page threshold — writes
// the portion up to and including the crossing newline and buffers the
// rest into morebuf, entering the more state (spec.md §4.4).
func (p *Pager) emit(s []byte) {
	if len(s) == 0 {
		return
	}
	if p.more && !p.buffered && p.height > 0 && p.lines+1 >= p.height {
		// the previous write landed exactly on the threshold without
		// tripping buffering; do it now (mirrors yacli_write_more's
		// leading check).
		p.enterMore()
	}
	if p.buffered {
		p.morebuf = append(p.morebuf, s...)
		return
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			p.lines++
		}
		if p.more && p.height > 0 && p.lines+1 >= p.height {
			p.r.Write(s[:i+1])
			if len(s) > i+1 {
				p.enterMore()
				p.morebuf = append(p.morebuf, s[i+1:]...)
			}
			return
		}
	}
	p.r.Write(s)
}

func (p *Pager) enterMore() {
	p.lines = 0
	p.buffered = true
	if p.onMoreEnter != nil {
		p.onMoreEnter()
	}
}

// DrawMorePrompt renders the more-prompt line; the engine calls this after
// entering MORE state.
func (p *Pager) DrawMorePrompt() {
	p.r.Puts(p.prompt)
}

//#region more-prompt key outcomes (spec.md §4.4)

// ReleaseLine releases one buffered line (Enter while in MORE).
func (p *Pager) ReleaseLine() (moreRemains bool) {
	p.clearPrompt(p.ClearAfterLine)
	nl := indexByte(p.morebuf, '\n')
	if nl < 0 {
		p.flushAll(OutcomeLine)
		return false
	}
	line := p.morebuf[:nl+1]
	p.morebuf = p.morebuf[nl+1:]
	p.r.Write(line)
	p.lines = 0
	if len(p.morebuf) == 0 {
		p.buffered = false
		return false
	}
	if p.onMoreEnter != nil {
		p.onMoreEnter()
	}
	return true
}

// ReleasePage releases one screenful (Space while in MORE).
func (p *Pager) ReleasePage() (moreRemains bool) {
	p.clearPrompt(p.ClearAfterPage)
	count := 0
	i := 0
	for i < len(p.morebuf) {
		if p.morebuf[i] == '\n' {
			count++
			if p.height > 0 && count >= p.height-1 {
				i++
				break
			}
		}
		i++
	}
	p.r.Write(p.morebuf[:i])
	p.morebuf = p.morebuf[i:]
	p.lines = 0
	if len(p.morebuf) == 0 {
		p.buffered = false
		return false
	}
	if p.onMoreEnter != nil {
		p.onMoreEnter()
	}
	return true
}

// Continue releases everything and disables buffering for the remainder of
// this command's output ('c'/'C' while in MORE).
func (p *Pager) Continue() {
	p.clearPrompt(p.ClearAfterContinue)
	p.flushAll(OutcomeContinue)
}

// Quit drops the remaining buffered output ('q'/'Q' while in MORE).
func (p *Pager) Quit() {
	p.clearPrompt(p.ClearAfterQuit)
	p.morebuf = p.morebuf[:0]
	p.buffered = false
	p.lines = 0
	p.r.Puts(" quit")
}

// QuitCtrlC is Quit's Ctrl-C variant, which prints a visible ^C instead of
// " quit" (spec.md §4.4).
func (p *Pager) QuitCtrlC() {
	p.clearPrompt(p.ClearAfterQuit)
	p.morebuf = p.morebuf[:0]
	p.buffered = false
	p.lines = 0
	p.r.Puts("^C")
}

func (p *Pager) flushAll(o Outcome) {
	p.r.Write(p.morebuf)
	p.morebuf = p.morebuf[:0]
	p.buffered = false
	p.lines = 0
}

func (p *Pager) clearPrompt(shouldClear bool) {
	if shouldClear {
		p.r.ClearLine()
	}
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

//#endregion
