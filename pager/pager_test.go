package pager_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbonev/yacli/pager"
)

type fakeRenderer struct {
	written    []byte
	puts       []string
	clearLines int
	width      int
	height     int
}

func (f *fakeRenderer) Clear()                       {}
func (f *fakeRenderer) ClearLine()                    { f.clearLines++ }
func (f *fakeRenderer) ClearLineString() string       { return "\r\x1b[2K" }
func (f *fakeRenderer) Write(p []byte) (int, error)   { f.written = append(f.written, p...); return len(p), nil }
func (f *fakeRenderer) Puts(s string)                 { f.puts = append(f.puts, s) }
func (f *fakeRenderer) GetSize() (int, int)           { return f.width, f.height }
func (f *fakeRenderer) ReqSize()                       {}
func (f *fakeRenderer) InitTelnet()                    {}
func (f *fakeRenderer) SetTelnet(bool)                 {}
func (f *fakeRenderer) Version() string                { return "fake/1.0" }

func TestFeedPassesThroughUnbuffered(t *testing.T) {
	r := &fakeRenderer{width: 80, height: 24}
	p := pager.New(r, nil)

	p.Feed([]byte("hello\n"))

	require.Equal(t, "hello\r\n", string(r.written))
}

func TestFeedNormalizesBareNewlineButPreservesCRLF(t *testing.T) {
	r := &fakeRenderer{width: 80, height: 24}
	p := pager.New(r, nil)

	p.Feed([]byte("a\nb\r\nc\n"))

	require.Equal(t, "a\r\nb\r\nc\r\n", string(r.written))
}

func TestPagerBuffersOnceHeightThresholdCrossed(t *testing.T) {
	r := &fakeRenderer{width: 80, height: 3}
	entered := false
	p := pager.New(r, func() { entered = true })
	p.SetMore(true)
	p.SetHeight(3)

	p.Feed([]byte("one\ntwo\nthree\nfour\n"))

	require.True(t, entered)
	require.True(t, p.Buffered())
	require.Equal(t, "one\r\ntwo\r\n", string(r.written))
}

func TestReleaseLineReleasesOneLineAtATime(t *testing.T) {
	r := &fakeRenderer{width: 80, height: 2}
	p := pager.New(r, func() {})
	p.SetMore(true)
	p.SetHeight(2)

	p.Feed([]byte("one\ntwo\nthree\n"))
	require.True(t, p.Buffered())

	remains := p.ReleaseLine()
	require.True(t, remains)

	remains = p.ReleaseLine()
	require.False(t, remains)
	require.Equal(t, "one\r\ntwo\r\nthree\r\n", string(r.written))
}

func TestReleasePageReleasesAFullScreenAtATime(t *testing.T) {
	r := &fakeRenderer{width: 80, height: 3}
	p := pager.New(r, func() {})
	p.SetMore(true)
	p.SetHeight(3)

	p.Feed([]byte("1\n2\n3\n4\n5\n"))
	require.True(t, p.Buffered())

	remains := p.ReleasePage()
	require.True(t, remains, "one line (\"5\") is still buffered after releasing a 2-line page")
	require.Equal(t, "1\r\n2\r\n3\r\n4\r\n", string(r.written))

	remains = p.ReleasePage()
	require.False(t, remains)
	require.Equal(t, "1\r\n2\r\n3\r\n4\r\n5\r\n", string(r.written))
}

func TestQuitDropsRemainingBufferAndPrintsQuit(t *testing.T) {
	r := &fakeRenderer{width: 80, height: 2}
	p := pager.New(r, func() {})
	p.SetMore(true)
	p.SetHeight(2)

	p.Feed([]byte("one\ntwo\nthree\n"))
	p.Quit()

	require.False(t, p.Buffered())
	require.Contains(t, r.puts, " quit")
}

func TestClearAfterFlagsGateClearLineIndependently(t *testing.T) {
	r := &fakeRenderer{width: 80, height: 2}
	p := pager.New(r, func() {})
	p.SetMore(true)
	p.SetHeight(2)
	p.ClearAfterLine = true

	p.Feed([]byte("one\ntwo\nthree\n"))
	p.ReleaseLine()

	require.Equal(t, 1, r.clearLines)
}
