// ABOUTME: Code block collector for fenced and indented blocks
// ABOUTME: Records info strings and line spans, never block contents

package collectors

import (
	"github.com/nainya/tokenhouse/pkg/collector"
	"github.com/nainya/tokenhouse/pkg/token"
)

// CodeItem is one collected code block.
type CodeItem struct {
	Info    string               `json:"info,omitempty"`
	Fenced  bool                 `json:"fenced"`
	Span    token.NormalizedSpan `json:"span"`
	Section int                  `json:"section"`
}

// CodeBlocks collects fence and code_block tokens.
type CodeBlocks struct {
	collector.Base
	bound capped
	items []CodeItem
}

// NewCodeBlocks builds the code block collector.
func NewCodeBlocks(max int) (*CodeBlocks, error) {
	bound, err := newCapped(max)
	if err != nil {
		return nil, err
	}
	return &CodeBlocks{bound: bound}, nil
}

func (c *CodeBlocks) Name() string { return "codeblocks" }

func (c *CodeBlocks) Interest() collector.Interest {
	return collector.InterestIn(token.KindFence, token.KindCodeBlock)
}

func (c *CodeBlocks) OnToken(_ int, tok *token.Token, ctx collector.Context, _ collector.Engine) error {
	if !c.bound.admit() {
		return nil
	}
	c.items = append(c.items, CodeItem{
		Info:    tok.Attr("info"),
		Fenced:  tok.Kind == token.KindFence,
		Span:    tok.Span,
		Section: ctx.CurrentSection(),
	})
	return nil
}

func (c *CodeBlocks) Finalize(collector.Engine) (collector.Result, error) {
	return collector.Result{
		"codeblocks": c.items,
		"count":      len(c.items),
		"truncated":  c.bound.truncated,
	}, nil
}
