// Package wordmatch implements the sorted-sibling prefix-matching algorithm
// shared by the command tree resolver and the filter registry (spec.md
// §4.2 "Per-word matching", §4.3 "Each filter is matched by prefix with the
// same completion rules as commands"). Grounded on yacli.c's
// yacli_trycomplete sibling-walk (cmp==0 / cmp<0 isprefix / longest-common-
// prefix-of-contiguous-siblings branches), factored out here since tree
// nodes and filter classes are different shapes but share this scan.
package wordmatch

import "strings"

// Result describes how a partial word matches against a sorted, duplicate-
// free list of candidate words.
type Result struct {
	ExactIndex int // index of an exact match, or -1

	// UniqueIndex is set when exactly one candidate is a proper prefix
	// extension of partial (spec.md: "unfinished unique match").
	UniqueIndex int // or -1

	// Ambiguous candidate indices: two or more contiguous siblings share
	// partial as a prefix (spec.md: "two or more consecutive siblings").
	AmbiguousIndices []int
	CommonPrefix     string // longest shared prefix beyond partial, if Ambiguous

	NoMatch bool
}

// Match scans words (must be sorted, case-sensitive, lexicographic) for
// partial, following spec.md §4.2's per-word matching rules. It does not
// itself special-case dynamic/regex placeholders; callers resolve those
// before reaching for a sorted static list.
func Match(words []string, partial string) Result {
	r := Result{ExactIndex: -1, UniqueIndex: -1}

	var prefixIdxs []int
	for i, w := range words {
		switch {
		case w == partial:
			r.ExactIndex = i
		case strings.HasPrefix(w, partial) && len(w) > len(partial):
			prefixIdxs = append(prefixIdxs, i)
		}
	}

	if r.ExactIndex >= 0 {
		return r
	}

	switch len(prefixIdxs) {
	case 0:
		r.NoMatch = true
	case 1:
		r.UniqueIndex = prefixIdxs[0]
	default:
		r.AmbiguousIndices = prefixIdxs
		r.CommonPrefix = longestCommonPrefix(words, prefixIdxs, partial)
	}
	return r
}

// longestCommonPrefix returns the longest prefix shared by every word at
// idxs, starting from len(partial) (spec.md: "compute the longest common
// prefix of all such siblings"; yacli.c advances one column at a time).
func longestCommonPrefix(words []string, idxs []int, partial string) string {
	if len(idxs) == 0 {
		return partial
	}
	first := words[idxs[0]]
	n := len(first)
	for _, i := range idxs[1:] {
		if len(words[i]) < n {
			n = len(words[i])
		}
	}
	end := len(partial)
	for end < n {
		c := first[end]
		ok := true
		for _, i := range idxs[1:] {
			if words[i][end] != c {
				ok = false
				break
			}
		}
		if !ok {
			break
		}
		end++
	}
	return first[:end]
}

// NextIsProperPrefixWithoutSpace reports spec.md's "executable-but-ambiguous"
// condition: the sibling immediately after an exact match extends it (the
// matched word is a proper prefix of that sibling), AND there is no space
// in the buffer right after the matched word (hasSpaceAfter supplied by the
// caller, since that depends on buffer contents beyond this word list).
func NextIsProperPrefixWithoutSpace(words []string, exactIdx int, hasSpaceAfter bool) bool {
	if hasSpaceAfter {
		return false
	}
	if exactIdx < 0 || exactIdx+1 >= len(words) {
		return false
	}
	word := words[exactIdx]
	next := words[exactIdx+1]
	return strings.HasPrefix(next, word) && len(next) > len(word)
}
