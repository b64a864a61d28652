// ABOUTME: Table collector for top-level tables
// ABOUTME: Filters nested tables by nesting depth after interest routing

package collectors

import (
	"github.com/nainya/tokenhouse/pkg/collector"
	"github.com/nainya/tokenhouse/pkg/token"
)

// TableItem is one collected top-level table.
type TableItem struct {
	Span    token.NormalizedSpan `json:"span"`
	Section int                  `json:"section"`
}

// Tables collects table_open tokens, skipping tables nested inside other
// tables.
type Tables struct {
	bound capped
	items []TableItem
}

// NewTables builds the table collector.
func NewTables(max int) (*Tables, error) {
	bound, err := newCapped(max)
	if err != nil {
		return nil, err
	}
	return &Tables{bound: bound}, nil
}

func (t *Tables) Name() string { return "tables" }

func (t *Tables) Interest() collector.Interest {
	return collector.InterestIn(token.KindTableOpen)
}

// ShouldProcess accepts only tables not enclosed by another table.
func (t *Tables) ShouldProcess(_ *token.Token, ctx collector.Context) bool {
	return ctx.DepthOf(token.KindTableOpen) == 0
}

func (t *Tables) OnToken(_ int, tok *token.Token, ctx collector.Context, _ collector.Engine) error {
	if !t.bound.admit() {
		return nil
	}
	t.items = append(t.items, TableItem{
		Span:    tok.Span,
		Section: ctx.CurrentSection(),
	})
	return nil
}

func (t *Tables) Finalize(collector.Engine) (collector.Result, error) {
	return collector.Result{
		"tables":    t.items,
		"count":     len(t.items),
		"truncated": t.bound.truncated,
	}, nil
}
