// Package search implements the search/replace engine (§2 component G,
// §4.5): incremental highlighting, wrap-around find-next/find-previous,
// interactive and bulk replace, and the large-file-safe scanning that
// backs all of them.
package search

// Options controls how a pattern is matched (§4.5). The zero value is
// case-insensitive literal matching; DefaultOptions sets CaseSensitive.
type Options struct {
	CaseSensitive bool
	WholeWord     bool
	Regex         bool
	ConfirmEach   bool
}

// DefaultOptions returns §4.5's documented defaults: case-sensitive on,
// whole-word off, regex off, confirm-each off.
func DefaultOptions() Options {
	return Options{CaseSensitive: true}
}

// Match is a found occurrence's byte range [Start, End).
type Match struct {
	Start, End int64
}
