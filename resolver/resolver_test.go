package resolver_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbonev/yacli/editbuf"
	"github.com/bbonev/yacli/filter"
	"github.com/bbonev/yacli/resolver"
	"github.com/bbonev/yacli/tree"
)

func buildTree(t *testing.T) *tree.Tree {
	t.Helper()
	tr := tree.New()

	noop := func([]string) {}

	show, err := tr.Add(nil, "show", "show information", nil)
	require.NoError(t, err)
	_, err = tr.Add(show, "version", "show version info", noop)
	require.NoError(t, err)
	_, err = tr.Add(show, "users", "show active users", noop)
	require.NoError(t, err)
	_, err = tr.Add(show, "running-config", "show running config", noop)
	require.NoError(t, err)

	set, err := tr.Add(nil, "set", "", nil)
	require.NoError(t, err)
	_, err = tr.Add(set, "service", "set service", noop)
	require.NoError(t, err)
	_, err = tr.Add(set, "severity", "set severity", noop)
	require.NoError(t, err)

	_, err = tr.Add(nil, "configure", "enter config mode", noop)
	require.NoError(t, err)

	iface, err := tr.Add(nil, "interface", "interface commands", nil)
	require.NoError(t, err)
	_, err = tr.Add(iface, "@1", "select an interface", noop)
	require.NoError(t, err)

	return tr
}

func listCB(tr *tree.Tree, node *tree.Node, _ int) {
	tr.List(node, "eth0")
	tr.List(node, "eth1")
}

func newBuf(s string) *editbuf.Buffer {
	b := editbuf.New()
	b.Set(s)
	return b
}

func TestExactMatchSingleWordCompleteAndExecutableSetsBits(t *testing.T) {
	tr := buildTree(t)
	reg := filter.NewRegistry(nil)
	r := resolver.New(tr, reg, nil)

	buf := newBuf("show version")
	out := r.TryComplete(buf, resolver.Execute, false)

	require.Equal(t, resolver.BitComplete|resolver.BitExecutable, out.Code)
	require.Equal(t, []string{"show", "version"}, out.Parsed)
	require.NotNil(t, out.Handler)
}

func TestAmbiguousPrefixGrowsCommonPrefixWithoutCompleting(t *testing.T) {
	tr := buildTree(t)
	reg := filter.NewRegistry(nil)
	r := resolver.New(tr, reg, nil)

	buf := newBuf("set s")
	out := r.TryComplete(buf, resolver.Complete, false)

	require.Equal(t, 0, out.Code)
	require.Equal(t, "set se", buf.String())
}

func TestUniqueCompletionRewritesWordToFullNameWithTrailingSpace(t *testing.T) {
	tr := buildTree(t)
	reg := filter.NewRegistry(nil)
	r := resolver.New(tr, reg, nil)

	buf := newBuf("sh")
	r.TryComplete(buf, resolver.Complete, false)

	require.Equal(t, "show ", buf.String())
	require.Equal(t, len("show "), buf.Cursor())
}

func TestDynamicLeafExecutesThroughPlaceholderHandler(t *testing.T) {
	tr := buildTree(t)
	reg := filter.NewRegistry(nil)
	r := resolver.New(tr, reg, listCB)

	buf := newBuf("interface eth0")
	out := r.TryComplete(buf, resolver.Execute, false)

	require.Equal(t, resolver.BitComplete|resolver.BitExecutable, out.Code)
	require.Equal(t, []string{"interface", "eth0"}, out.Parsed)
	require.NotNil(t, out.Handler)
}

func TestNoMatchReturnsBitNoMatch(t *testing.T) {
	tr := buildTree(t)
	reg := filter.NewRegistry(nil)
	r := resolver.New(tr, reg, nil)

	buf := newBuf("bogus")
	out := r.TryComplete(buf, resolver.Execute, false)

	require.Equal(t, resolver.BitNoMatch, out.Code)
	require.Equal(t, "No matched command", out.Message)
}

func TestFilterSuffixBuildsChainWhenCommandIsComplete(t *testing.T) {
	tr := buildTree(t)
	sink := &discardSink{}
	reg := filter.NewRegistry(sink)
	r := resolver.New(tr, reg, nil)

	buf := newBuf("show version | include foo")
	out := r.TryComplete(buf, resolver.Execute, false)

	require.Equal(t, resolver.BitComplete|resolver.BitExecutable, out.Code)
	require.NotNil(t, out.Chain)
}

func TestFilterSuffixRejectedWhenCommandIncomplete(t *testing.T) {
	tr := buildTree(t)
	sink := &discardSink{}
	reg := filter.NewRegistry(sink)
	r := resolver.New(tr, reg, nil)

	buf := newBuf("show | include foo")
	out := r.TryComplete(buf, resolver.Execute, false)

	require.Equal(t, resolver.BitNoMatch, out.Code)
	require.Equal(t, "Cannot apply filter to incomplete command", out.Message)
}

func TestContextualHelpListsChildrenSortedInHintMode(t *testing.T) {
	tr := buildTree(t)
	reg := filter.NewRegistry(nil)
	r := resolver.New(tr, reg, nil)

	buf := newBuf("show ")
	out := r.TryComplete(buf, resolver.Hint, false)

	maxw := len("running-config")
	pad := func(s string) string { return s + strings.Repeat(" ", maxw-len(s)) }
	want := []string{
		pad("running-config") + "  show running config",
		pad("users") + "  show active users",
		pad("version") + "  show version info",
	}
	require.Equal(t, want, out.HelpLines)
}

type discardSink struct{}

func (discardSink) Feed([]byte) {}
func (discardSink) Done()       {}
