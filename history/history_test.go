package history_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbonev/yacli/history"
)

func TestInsertSkipsEmptyAndExactRepeat(t *testing.T) {
	r := history.New()
	r.Insert("show version")
	r.Insert("")
	r.Insert("show version")
	r.Insert("show users")

	require.Equal(t, []string{"show version", "show users"}, r.Entries())
}

func TestOlderWalksTowardOldestThenStops(t *testing.T) {
	r := history.New()
	r.Insert("one")
	r.Insert("two")
	r.Insert("three")

	line, moved := r.Older()
	require.True(t, moved)
	require.Equal(t, "three", line)
	require.True(t, r.Browsing())

	line, moved = r.Older()
	require.True(t, moved)
	require.Equal(t, "two", line)

	line, moved = r.Older()
	require.True(t, moved)
	require.Equal(t, "one", line)

	_, moved = r.Older()
	require.False(t, moved, "already at the oldest entry")
}

func TestNewerWalksPastNewestAndSignalsRestore(t *testing.T) {
	r := history.New()
	r.Insert("one")
	r.Insert("two")

	r.Older()
	line, moved := r.Newer()
	require.False(t, moved, "there is nothing newer than the newest entry reached")
	require.Equal(t, "", line)
}

func TestResetBrowseOnInsert(t *testing.T) {
	r := history.New()
	r.Insert("one")
	r.Older()
	require.True(t, r.Browsing())

	r.Insert("two")
	require.False(t, r.Browsing())
}

func TestIncrementalSearchFindsMostRecentMatchFirst(t *testing.T) {
	r := history.New()
	r.Insert("show version")
	r.Insert("show running-config")
	r.Insert("configure terminal")

	r.StartSearch()
	match, found := r.AppendSearch('s')
	require.True(t, found)
	require.Equal(t, "show running-config", match)

	match, found = r.AppendSearch('h')
	require.True(t, found)
	require.Equal(t, "show running-config", match)
}

func TestSearchOlderSkipsToNextMatchBack(t *testing.T) {
	r := history.New()
	r.Insert("show version")
	r.Insert("show running-config")

	r.StartSearch()
	r.AppendSearch('s')
	r.AppendSearch('h')
	r.AppendSearch('o')

	match, found := r.SearchOlder()
	require.True(t, found)
	require.Equal(t, "show version", match)
}

func TestSearchOlderWithNoFurtherMatchKeepsPreviousPosition(t *testing.T) {
	r := history.New()
	r.Insert("show version")

	r.StartSearch()
	r.AppendSearch('s')
	r.AppendSearch('h')

	_, found := r.SearchOlder()
	require.False(t, found)

	match, found := r.SearchNewer()
	require.True(t, found)
	require.Equal(t, "show version", match)
}

func TestEntriesReturnsACopy(t *testing.T) {
	r := history.New()
	r.Insert("one")
	entries := r.Entries()
	entries[0] = "mutated"

	require.Equal(t, []string{"one"}, r.Entries())
}
