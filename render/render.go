// Package render defines the boundary between the yacli engine and the
// terminal: the Renderer contract the engine consumes (spec.md §6) and the
// abstract key codes its keystroke DFA dispatches on. Nothing in this
// package talks to an actual terminal; package reference supplies a
// concrete implementation.
package render

// Key is an abstract keystroke code. Printable ASCII keys use their own
// byte value (so Key('a') == 'a'); control and extended keys use the named
// constants below, mirroring yascreen's YAS_K_* codes consumed by the
// original C engine.
type Key int

const (
	KeyNUL Key = iota - 64 // placeholder to keep named consts out of the printable ASCII range
	KeyCtrlA
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlH
	KeyCtrlJ
	KeyCtrlK
	KeyCtrlL
	KeyCtrlN
	KeyCtrlP
	KeyCtrlR
	KeyCtrlS
	KeyCtrlU
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlZ
	KeyEnter
	KeyEsc
	KeyTab
	KeyBackspace
	KeyDel
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyAltB
	KeyAltF
	KeyAltD
	KeyAltBackspace
	KeyCtrlLeft
	KeyCtrlRight

	// size-change pseudo events, fed through the same Key() entry point.
	KeyScreenSize
	KeyTelnetSize
)

// Printable reports whether k represents a directly-insertable byte.
func Printable(k Key) bool {
	return k >= 0x20 && k < 0x7f
}

// Renderer is the abstract terminal/telnet collaborator the engine drives.
// Implementations own raw-mode setup, escape-sequence decoding into Key
// values, and the actual bytes-on-the-wire. The engine never constructs a
// Renderer; one is supplied at Engine construction.
type Renderer interface {
	// Clear clears the whole screen.
	Clear()
	// ClearLine clears the current line; ClearLineString returns the
	// escape sequence for that without emitting it, for callers composing
	// a single Write.
	ClearLine()
	ClearLineString() string

	// Write emits raw bytes to the terminal.
	Write(p []byte) (int, error)
	// Puts writes a NUL-free string verbatim (no newline translation).
	Puts(s string)

	// GetSize returns the last known (width, height) of the terminal.
	GetSize() (width, height int)
	// ReqSize asks the remote end (telnet NAWS, or a SIGWINCH-driven
	// local query) to report its size; the answer arrives later as a
	// KeyScreenSize/KeyTelnetSize event fed through Engine.Key.
	ReqSize()

	// InitTelnet/SetTelnet negotiate telnet line-mode options.
	InitTelnet()
	SetTelnet(on bool)

	// Version identifies the renderer implementation (e.g. for the
	// Ctrl-X Ctrl-V "library and renderer versions" combo).
	Version() string
}
