package render_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbonev/yacli/render"
)

func TestPrintableAcceptsOrdinaryASCII(t *testing.T) {
	require.True(t, render.Printable(render.Key('a')))
	require.True(t, render.Printable(render.Key(' ')))
	require.True(t, render.Printable(render.Key('~')))
}

func TestPrintableRejectsControlAndNamedKeys(t *testing.T) {
	require.False(t, render.Printable(render.Key(0x7f))) // DEL
	require.False(t, render.Printable(render.KeyCtrlA))
	require.False(t, render.Printable(render.KeyEnter))
	require.False(t, render.Printable(render.KeyUp))
}
