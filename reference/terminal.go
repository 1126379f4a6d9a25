// Package reference provides a real, runnable render.Renderer over a raw
// local terminal, so the engine can be exercised end to end without a host
// application supplying its own terminal driver.
//
// Grounded on yacli.c's yascreen collaborator (clear/clearln/getsize/
// reqsize/raw-mode semantics) for the contract shape, and on
// gwcli/stylesheet for how the teacher colors a version string; uses
// golang.org/x/term for raw-mode setup (the teacher depends on it
// transitively through its terminal-UI stack) and crewjam/rfc5424 only
// indirectly via yalog, not here.
package reference

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/bbonev/yacli/render"
	"github.com/bbonev/yacli/stylesheet"
)

const version = "yacli-reference/1.0"

// Terminal is a render.Renderer backed by the process's own stdin/stdout,
// put into raw mode for the duration of a session.
type Terminal struct {
	in       *os.File
	out      *os.File
	reader   *bufio.Reader
	oldState *term.State

	width, height int
	telnet        bool
}

// Open puts stdin into raw mode and returns a Terminal. Call Close to
// restore the original terminal settings.
func Open() (*Terminal, error) {
	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("reference: enter raw mode: %w", err)
	}
	t := &Terminal{in: os.Stdin, out: os.Stdout, reader: bufio.NewReader(os.Stdin), oldState: old}
	t.width, t.height, _ = term.GetSize(fd)
	if t.width <= 0 {
		t.width = 80
	}
	if t.height <= 0 {
		t.height = 24
	}
	return t, nil
}

// Close restores the terminal to its original (cooked) mode.
func (t *Terminal) Close() error {
	if t.oldState == nil {
		return nil
	}
	return term.Restore(int(t.in.Fd()), t.oldState)
}

func (t *Terminal) Clear() {
	fmt.Fprint(t.out, "\x1b[2J\x1b[H")
}

func (t *Terminal) ClearLine() {
	fmt.Fprint(t.out, t.ClearLineString())
}

func (t *Terminal) ClearLineString() string {
	return "\r\x1b[2K"
}

func (t *Terminal) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

func (t *Terminal) Puts(s string) {
	fmt.Fprint(t.out, s)
}

func (t *Terminal) GetSize() (width, height int) {
	return t.width, t.height
}

func (t *Terminal) ReqSize() {
	w, h, err := term.GetSize(int(t.in.Fd()))
	if err != nil {
		return
	}
	t.width, t.height = w, h
}

func (t *Terminal) InitTelnet() {}

func (t *Terminal) SetTelnet(on bool) { t.telnet = on }

func (t *Terminal) Version() string {
	return stylesheet.Prompt(version)
}

var _ render.Renderer = (*Terminal)(nil)

// ReadKey blocks for the next keystroke and decodes it into an abstract
// render.Key, consuming multi-byte escape sequences for arrows and
// Ctrl+arrow/Alt-letter combinations. It is not part of render.Renderer
// (the interface is output-only, per spec.md's renderer/engine boundary);
// the host event loop calls it directly to feed Engine.Key.
func (t *Terminal) ReadKey() (render.Key, error) {
	b, err := t.reader.ReadByte()
	if err != nil {
		return 0, err
	}

	switch b {
	case 0x1b:
		return t.readEscape()
	case 0x0d, 0x0a:
		return render.KeyEnter, nil
	case 0x7f:
		return render.KeyBackspace, nil
	case 0x01:
		return render.KeyCtrlA, nil
	case 0x02:
		return render.KeyCtrlB, nil
	case 0x03:
		return render.KeyCtrlC, nil
	case 0x04:
		return render.KeyCtrlD, nil
	case 0x05:
		return render.KeyCtrlE, nil
	case 0x06:
		return render.KeyCtrlF, nil
	case 0x07:
		return render.KeyCtrlG, nil
	case 0x08:
		return render.KeyCtrlH, nil
	case 0x09:
		return render.KeyTab, nil
	case 0x0b:
		return render.KeyCtrlK, nil
	case 0x0c:
		return render.KeyCtrlL, nil
	case 0x0e:
		return render.KeyCtrlN, nil
	case 0x10:
		return render.KeyCtrlP, nil
	case 0x12:
		return render.KeyCtrlR, nil
	case 0x13:
		return render.KeyCtrlS, nil
	case 0x15:
		return render.KeyCtrlU, nil
	case 0x16:
		return render.KeyCtrlV, nil
	case 0x17:
		return render.KeyCtrlW, nil
	case 0x18:
		return render.KeyCtrlX, nil
	case 0x1a:
		return render.KeyCtrlZ, nil
	default:
		return render.Key(b), nil
	}
}

func (t *Terminal) readEscape() (render.Key, error) {
	b1, err := t.reader.ReadByte()
	if err != nil {
		return render.KeyEsc, nil //nolint:nilerr // read error or EOF right after a bare Esc
	}
	switch b1 {
	case 'b':
		return render.KeyAltB, nil
	case 'f':
		return render.KeyAltF, nil
	case 'd':
		return render.KeyAltD, nil
	case 0x7f:
		return render.KeyAltBackspace, nil
	case '[':
		b2, err := t.reader.ReadByte()
		if err != nil {
			return render.KeyEsc, nil
		}
		switch b2 {
		case 'A':
			return render.KeyUp, nil
		case 'B':
			return render.KeyDown, nil
		case 'C':
			return render.KeyRight, nil
		case 'D':
			return render.KeyLeft, nil
		case 'H':
			return render.KeyHome, nil
		case 'F':
			return render.KeyEnd, nil
		case '1':
			return t.readCtrlArrowTail()
		case '3':
			if b3, err := t.reader.ReadByte(); err == nil && b3 == '~' {
				return render.KeyDel, nil
			}
			return render.KeyEsc, nil
		default:
			return render.KeyEsc, nil
		}
	default:
		return render.KeyEsc, nil
	}
}

// readCtrlArrowTail consumes the rest of a "\x1b[1;5C"-style Ctrl+arrow
// sequence after the leading '1' has already been read.
func (t *Terminal) readCtrlArrowTail() (render.Key, error) {
	rest := make([]byte, 0, 4)
	for i := 0; i < 4; i++ {
		b, err := t.reader.ReadByte()
		if err != nil {
			return render.KeyEsc, nil
		}
		rest = append(rest, b)
		if b == 'C' || b == 'D' {
			break
		}
	}
	switch rest[len(rest)-1] {
	case 'C':
		return render.KeyCtrlRight, nil
	case 'D':
		return render.KeyCtrlLeft, nil
	default:
		return render.KeyEsc, nil
	}
}
