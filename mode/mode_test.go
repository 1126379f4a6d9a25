package mode_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbonev/yacli/mode"
	"github.com/bbonev/yacli/tree"
)

func TestEnterReturnsFreshTreeAndExitRestoresSaved(t *testing.T) {
	s := mode.New()
	base := tree.New()
	base.Add(nil, "show", "", nil)

	modeTree := s.Enter("config", base, nil)
	require.NotSame(t, base, modeTree)
	require.Equal(t, 1, s.Depth())

	restored := s.Exit()
	require.Same(t, base, restored)
	require.Equal(t, 0, s.Depth())
}

func TestPromptChainOrdersOldestFirst(t *testing.T) {
	s := mode.New()
	base := tree.New()
	s.Enter("config", base, nil)
	s.Enter("interface", base, nil)

	require.Equal(t, "(config-interface)", s.PromptChain())
}

func TestPromptChainEmptyOutsideAnyMode(t *testing.T) {
	s := mode.New()
	require.Equal(t, "", s.PromptChain())
}

func TestHintIsPerFrame(t *testing.T) {
	s := mode.New()
	base := tree.New()
	s.Enter("config", base, "config-hint")
	require.Equal(t, "config-hint", s.GetHint())

	s.Enter("interface", base, "iface-hint")
	require.Equal(t, "iface-hint", s.GetHint())

	s.SetHint("iface-hint-updated")
	require.Equal(t, "iface-hint-updated", s.GetHint())

	s.Exit()
	require.Equal(t, "config-hint", s.GetHint())
}

func TestUnwindPopsEveryFrameAndCallsHookPerLevel(t *testing.T) {
	s := mode.New()
	base := tree.New()
	s.Enter("config", base, nil)
	s.Enter("interface", base, nil)

	var visited []string
	result := s.Unwind(func(f *mode.Frame) { visited = append(visited, f.Name) })

	require.Same(t, base, result)
	require.Equal(t, []string{"interface", "config"}, visited)
	require.Equal(t, 0, s.Depth())
}
