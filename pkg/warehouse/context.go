// ABOUTME: Per-pass dispatch context: nesting stack and section cursor
// ABOUTME: Engine-owned; collectors see it through the collector.Context view

package warehouse

import (
	"github.com/nainya/tokenhouse/pkg/section"
	"github.com/nainya/tokenhouse/pkg/token"
)

// passContext implements collector.Context. It is created per pass,
// mutated only by the engine, and destroyed when the pass ends.
type passContext struct {
	depth   int
	depths  map[token.Kind]int
	section int
	scratch map[string]any
}

func newPassContext() *passContext {
	return &passContext{
		depths:  make(map[token.Kind]int),
		section: -1,
		scratch: make(map[string]any),
	}
}

func (c *passContext) Depth() int { return c.depth }

func (c *passContext) DepthOf(kind token.Kind) int {
	return c.depths[kind.OpenKind()]
}

func (c *passContext) CurrentSection() int { return c.section }

func (c *passContext) Scratch() map[string]any { return c.scratch }

// beforeDispatch moves the section cursor and, for closing tokens, pops
// the nesting stack so both halves of a tag pair are dispatched at the
// enclosing depth. Pops are clamped at zero: an unbalanced stream must
// not drive the depth negative.
//
// The cursor only ever moves forward, and only on tokens carrying real
// position data. A token without a span inherits the cursor; junk spans
// normalized to line 0 must not drag elements back into the first section.
func (c *passContext) beforeDispatch(tok *token.Token, idx *section.Index) {
	if tok.RawSpan != nil {
		if id, ok := idx.SectionOf(tok.Span.Start); ok && id > c.section {
			c.section = id
		}
	}
	if tok.Nesting == token.NestingClose {
		key := tok.Kind.OpenKind()
		if c.depths[key] > 0 {
			c.depths[key]--
		}
		if c.depth > 0 {
			c.depth--
		}
	}
}

// afterDispatch pushes opening tokens onto the nesting stack.
func (c *passContext) afterDispatch(tok *token.Token) {
	if tok.Nesting == token.NestingOpen {
		c.depths[tok.Kind]++
		c.depth++
	}
}
