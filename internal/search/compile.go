package search

import (
	"regexp"
	"sync"
)

// compileKey identifies a cached compiled pattern (§4.5 "Regex compilation
// is cached per pattern/options").
type compileKey struct {
	pattern string
	opts    Options
}

// compiler caches compiled patterns across repeated searches (incremental
// highlighting recompiles on every keystroke otherwise).
type compiler struct {
	mu    sync.Mutex
	cache map[compileKey]*regexp.Regexp
}

func newCompiler() *compiler {
	return &compiler{cache: map[compileKey]*regexp.Regexp{}}
}

// compile builds (or returns the cached) *regexp.Regexp for pattern under
// opts. A literal pattern is escaped and, when WholeWord is set, wrapped in
// word-boundary anchors; CaseSensitive=false adds the (?i) flag.
func (c *compiler) compile(pattern string, opts Options) (*regexp.Regexp, error) {
	key := compileKey{pattern: pattern, opts: opts}

	c.mu.Lock()
	if re, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return re, nil
	}
	c.mu.Unlock()

	expr := pattern
	if !opts.Regex {
		expr = regexp.QuoteMeta(pattern)
	}
	if opts.WholeWord {
		expr = `\b(?:` + expr + `)\b`
	}
	if !opts.CaseSensitive {
		expr = "(?i:" + expr + ")"
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[key] = re
	c.mu.Unlock()
	return re, nil
}
