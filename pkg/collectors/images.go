// ABOUTME: Image collector with source URL verdicts
// ABOUTME: Same scheme hardening as links; srcs are never fetched

package collectors

import (
	"github.com/nainya/tokenhouse/pkg/collector"
	"github.com/nainya/tokenhouse/pkg/safeurl"
	"github.com/nainya/tokenhouse/pkg/token"
)

// ImageItem is one collected image reference.
type ImageItem struct {
	Src       string   `json:"src"`
	Canonical string   `json:"canonical,omitempty"`
	Alt       string   `json:"alt,omitempty"`
	Line      int      `json:"line"`
	Section   int      `json:"section"`
	Allowed   bool     `json:"allowed"`
	Flags     []string `json:"flags,omitempty"`
}

// Images collects image tokens across one pass.
type Images struct {
	collector.Base
	checker *safeurl.Checker
	bound   capped
	items   []ImageItem
}

// NewImages builds the image collector.
func NewImages(max int, checker *safeurl.Checker) (*Images, error) {
	bound, err := newCapped(max)
	if err != nil {
		return nil, err
	}
	if checker == nil {
		checker = safeurl.NewChecker(nil)
	}
	return &Images{checker: checker, bound: bound}, nil
}

func (m *Images) Name() string { return "images" }

func (m *Images) Interest() collector.Interest {
	return collector.InterestIn(token.KindImage)
}

func (m *Images) OnToken(_ int, tok *token.Token, ctx collector.Context, _ collector.Engine) error {
	if !m.bound.admit() {
		return nil
	}
	v := m.checker.Check(tok.Attr("src"))
	m.items = append(m.items, ImageItem{
		Src:       v.Raw,
		Canonical: v.Canonical,
		Alt:       tok.Attr("alt"),
		Line:      tok.Span.Start,
		Section:   ctx.CurrentSection(),
		Allowed:   v.Allowed,
		Flags:     v.Flags,
	})
	return nil
}

func (m *Images) Finalize(collector.Engine) (collector.Result, error) {
	return collector.Result{
		"images":    m.items,
		"count":     len(m.items),
		"truncated": m.bound.truncated,
	}, nil
}
