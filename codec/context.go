// Package codec implements the type-directed reader/writer discipline:
// primitive expansion, numeric widening, tuple/htuple/sum/record
// assembly, default substitution for missing fields, and the
// recursion-depth bound. Because this repository has no schema-language
// code generator, Read/Write are a single generic interpreter driven by
// schema.Type rather than per-type generated functions — the contract
// they implement is unchanged either way.
package codec

import "github.com/danmuck/extprot/wire"

// DefaultMaxDepth is the recursion bound applied when a Context does not
// set one explicitly.
const DefaultMaxDepth = 64

// Context carries the recognized reader options — a type hint, the
// current recursion level, and the field path for error messages — plus
// the configurable recursion-depth bound.
type Context struct {
	Hint     any
	Level    int
	Path     []string
	MaxDepth int
}

// NewContext returns the root context: hint=nil, level=0, path=nil, and
// the default recursion bound.
func NewContext() Context {
	return Context{MaxDepth: DefaultMaxDepth}
}

func (c Context) maxDepth() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}

// Child derives the context for one recursion step into path segment
// seg, failing with wire.ErrDepthExceeded once the bound is hit.
func (c Context) Child(seg string) (Context, error) {
	if c.Level+1 > c.maxDepth() {
		return Context{}, wire.ErrDepthExceeded
	}
	next := c
	next.Level = c.Level + 1
	next.Path = append(append([]string{}, c.Path...), seg)
	return next, nil
}
