// ABOUTME: Heading collector building a document outline
// ABOUTME: Pairs heading_open with its inline text via per-pass scratch

package collectors

import (
	"strconv"

	"github.com/nainya/tokenhouse/pkg/collector"
	"github.com/nainya/tokenhouse/pkg/token"
)

// scratchPendingHeading keys the open-heading marker in Context.Scratch.
const scratchPendingHeading = "headings.pending"

// HeadingItem is one outline entry.
type HeadingItem struct {
	Level   int    `json:"level"`
	Text    string `json:"text"`
	Line    int    `json:"line"`
	Section int    `json:"section"`
}

// Headings collects the document outline. The heading text lives in the
// inline token following heading_open, so the collector marks the open in
// scratch and resolves it on the next inline token.
type Headings struct {
	collector.Base
	bound capped
	items []HeadingItem
}

// NewHeadings builds the heading collector.
func NewHeadings(max int) (*Headings, error) {
	bound, err := newCapped(max)
	if err != nil {
		return nil, err
	}
	return &Headings{bound: bound}, nil
}

func (h *Headings) Name() string { return "headings" }

func (h *Headings) Interest() collector.Interest {
	return collector.InterestIn(token.KindHeadingOpen, token.KindInline, token.KindHeadingClose)
}

func (h *Headings) OnToken(_ int, tok *token.Token, ctx collector.Context, _ collector.Engine) error {
	switch tok.Kind {
	case token.KindHeadingOpen:
		level, _ := strconv.Atoi(tok.Attr("level"))
		ctx.Scratch()[scratchPendingHeading] = HeadingItem{
			Level:   level,
			Line:    tok.Span.Start,
			Section: ctx.CurrentSection(),
		}
	case token.KindInline:
		pending, ok := ctx.Scratch()[scratchPendingHeading].(HeadingItem)
		if !ok {
			return nil
		}
		delete(ctx.Scratch(), scratchPendingHeading)
		if !h.bound.admit() {
			return nil
		}
		pending.Text = tok.Attr("content")
		h.items = append(h.items, pending)
	case token.KindHeadingClose:
		// A heading without inline content still closes the pending state.
		delete(ctx.Scratch(), scratchPendingHeading)
	}
	return nil
}

func (h *Headings) Finalize(collector.Engine) (collector.Result, error) {
	return collector.Result{
		"headings":  h.items,
		"count":     len(h.items),
		"truncated": h.bound.truncated,
	}, nil
}
