// ABOUTME: Link collector with URL verdicts
// ABOUTME: Every href is canonicalized and scheme-checked, never dereferenced

package collectors

import (
	"github.com/nainya/tokenhouse/pkg/collector"
	"github.com/nainya/tokenhouse/pkg/safeurl"
	"github.com/nainya/tokenhouse/pkg/token"
)

// LinkItem is one collected link. Allowed mirrors the scheme verdict so
// downstream consumers can filter without re-parsing.
type LinkItem struct {
	Href      string   `json:"href"`
	Canonical string   `json:"canonical,omitempty"`
	Title     string   `json:"title,omitempty"`
	Line      int      `json:"line"`
	Section   int      `json:"section"`
	Allowed   bool     `json:"allowed"`
	Flags     []string `json:"flags,omitempty"`
}

// Links collects link_open tokens across one pass.
type Links struct {
	collector.Base
	checker *safeurl.Checker
	bound   capped
	items   []LinkItem
}

// NewLinks builds the link collector. A nil checker gets the default
// allow-list.
func NewLinks(max int, checker *safeurl.Checker) (*Links, error) {
	bound, err := newCapped(max)
	if err != nil {
		return nil, err
	}
	if checker == nil {
		checker = safeurl.NewChecker(nil)
	}
	return &Links{checker: checker, bound: bound}, nil
}

func (l *Links) Name() string { return "links" }

func (l *Links) Interest() collector.Interest {
	return collector.InterestIn(token.KindLinkOpen)
}

func (l *Links) OnToken(_ int, tok *token.Token, ctx collector.Context, _ collector.Engine) error {
	if !l.bound.admit() {
		return nil
	}
	v := l.checker.Check(tok.Attr("href"))
	l.items = append(l.items, LinkItem{
		Href:      v.Raw,
		Canonical: v.Canonical,
		Title:     tok.Attr("title"),
		Line:      tok.Span.Start,
		Section:   ctx.CurrentSection(),
		Allowed:   v.Allowed,
		Flags:     v.Flags,
	})
	return nil
}

func (l *Links) Finalize(collector.Engine) (collector.Result, error) {
	return collector.Result{
		"links":     l.items,
		"count":     len(l.items),
		"truncated": l.bound.truncated,
	}, nil
}
