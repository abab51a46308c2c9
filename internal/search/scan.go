package search

import (
	"context"
	"regexp"

	"github.com/freshedit/fresh/internal/piecetree"
)

// scanWindow and scanOverlap bound the windowed buffer scan that backs
// every search (§4.5 "Large-file correctness"): never calling Tree.ToString
// (which reports unloaded for a lazy file), instead forcing sequential
// chunk loads through GetTextRange. scanOverlap is a documented bound on
// how far a single match may span across a window boundary; a match wider
// than that is missed, which in practice never arises for editor search
// patterns.
const (
	scanWindow  = 1 << 16
	scanOverlap = 4096
)

// scanRangeFirst returns the first match of re within [from, to), or
// found=false if there is none.
func scanRangeFirst(ctx context.Context, tree *piecetree.Tree, re *regexp.Regexp, from, to int64) (Match, bool, error) {
	if from >= to {
		return Match{}, false, nil
	}
	pos := from
	for pos < to {
		winEnd := pos + scanWindow
		if winEnd > to {
			winEnd = to
		}
		data, err := tree.GetTextRange(ctx, pos, winEnd-pos)
		if err != nil {
			return Match{}, false, err
		}
		if loc := re.FindIndex(data); loc != nil {
			if int64(loc[1]) == winEnd-pos && winEnd < to {
				// The match touches this window's edge and more buffer
				// follows: re-scan with the overlap appended so a match
				// spanning the boundary isn't reported truncated.
				growEnd := winEnd + scanOverlap
				if growEnd > to {
					growEnd = to
				}
				grown, err := tree.GetTextRange(ctx, pos, growEnd-pos)
				if err != nil {
					return Match{}, false, err
				}
				if loc2 := re.FindIndex(grown); loc2 != nil {
					return Match{Start: pos + int64(loc2[0]), End: pos + int64(loc2[1])}, true, nil
				}
			}
			return Match{Start: pos + int64(loc[0]), End: pos + int64(loc[1])}, true, nil
		}
		if winEnd >= to {
			break
		}
		pos = winEnd - scanOverlap
		if pos < from {
			pos = from
		}
	}
	return Match{}, false, nil
}

// scanRangeAll returns every non-overlapping match of re within [from, to),
// ordered ascending by Start, using the same windowed forced-load scan as
// scanRangeFirst.
func scanRangeAll(ctx context.Context, tree *piecetree.Tree, re *regexp.Regexp, from, to int64) ([]Match, error) {
	if from >= to {
		return nil, nil
	}
	var out []Match
	pos := from
	lastEnd := from - 1
	for pos < to {
		winEnd := pos + scanWindow
		if winEnd > to {
			winEnd = to
		}
		data, err := tree.GetTextRange(ctx, pos, winEnd-pos)
		if err != nil {
			return nil, err
		}
		for _, loc := range re.FindAllIndex(data, -1) {
			start := pos + int64(loc[0])
			end := pos + int64(loc[1])
			if start < lastEnd {
				continue // already captured from the previous window's overlap
			}
			out = append(out, Match{Start: start, End: end})
			lastEnd = end
		}
		if winEnd >= to {
			break
		}
		pos = winEnd - scanOverlap
		if pos < from {
			pos = from
		}
	}
	return out, nil
}

// FindFirstAfter returns the first match at or after cursor, wrapping to
// search [0, cursor) if none is found forward (§4.5 "Wrap-around"). wrapped
// reports whether the wraparound branch produced the result.
func FindFirstAfter(ctx context.Context, tree *piecetree.Tree, re *regexp.Regexp, cursor int64) (m Match, wrapped, found bool, err error) {
	total := tree.Len()
	if m, ok, err := scanRangeFirst(ctx, tree, re, cursor, total); err != nil {
		return Match{}, false, false, err
	} else if ok {
		return m, false, true, nil
	}
	if m, ok, err := scanRangeFirst(ctx, tree, re, 0, cursor); err != nil {
		return Match{}, false, false, err
	} else if ok {
		return m, true, true, nil
	}
	return Match{}, false, false, nil
}
