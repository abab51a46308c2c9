package search

import "regexp"

// Engine is the shared regex-compilation cache (§4.5 "Regex compilation is
// cached per pattern/options") backing every Session and replace operation
// over however many buffers the editor has open.
type Engine struct {
	c *compiler
}

// NewEngine returns an Engine with an empty compile cache.
func NewEngine() *Engine {
	return &Engine{c: newCompiler()}
}

// Compile resolves pattern/opts to a cached *regexp.Regexp.
func (e *Engine) Compile(pattern string, opts Options) (*regexp.Regexp, error) {
	return e.c.compile(pattern, opts)
}
