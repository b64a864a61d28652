// ABOUTME: Raw HTML collector, default-off passthrough
// ABOUTME: Metadata-only unless opted in; opt-in content must pass the sanitizer

package collectors

import (
	"github.com/nainya/tokenhouse/pkg/collector"
	"github.com/nainya/tokenhouse/pkg/sanitize"
	"github.com/nainya/tokenhouse/pkg/token"
)

// HTMLItem is one raw-markup occurrence. Content is populated only when
// passthrough is opted in and sanitization succeeded.
type HTMLItem struct {
	Span       token.NormalizedSpan `json:"span"`
	Section    int                  `json:"section"`
	Inline     bool                 `json:"inline"`
	Executable bool                 `json:"executable"`
	Content    string               `json:"content,omitempty"`
}

// RawHTML collects html_block and html_inline tokens. By default it
// reports presence metadata only. With collectRaw set, token content is
// sanitized before inclusion; a sanitizer failure degrades that item to
// metadata-only rather than passing unsanitized content.
type RawHTML struct {
	collector.Base
	bound      capped
	collectRaw bool
	sanitizer  *sanitize.Sanitizer
	items      []HTMLItem
	dropped    int
}

// NewRawHTML builds the raw HTML collector. collectRaw without a usable
// sanitizer is allowed at construction but every item falls back to
// metadata-only at dispatch time.
func NewRawHTML(max int, collectRaw bool, s *sanitize.Sanitizer) (*RawHTML, error) {
	bound, err := newCapped(max)
	if err != nil {
		return nil, err
	}
	return &RawHTML{bound: bound, collectRaw: collectRaw, sanitizer: s}, nil
}

func (r *RawHTML) Name() string { return "rawhtml" }

func (r *RawHTML) Interest() collector.Interest {
	return collector.InterestIn(token.KindHTMLBlock, token.KindHTMLInline)
}

func (r *RawHTML) OnToken(_ int, tok *token.Token, ctx collector.Context, _ collector.Engine) error {
	if !r.bound.admit() {
		return nil
	}

	raw := tok.Attr("content")
	item := HTMLItem{
		Span:       tok.Span,
		Section:    ctx.CurrentSection(),
		Inline:     tok.Kind == token.KindHTMLInline,
		Executable: sanitize.LooksExecutable(raw),
	}

	if r.collectRaw {
		clean, err := r.sanitizer.Clean(raw)
		if err != nil {
			r.dropped++
		} else {
			item.Content = clean
		}
	}

	r.items = append(r.items, item)
	return nil
}

func (r *RawHTML) Finalize(collector.Engine) (collector.Result, error) {
	return collector.Result{
		"html":          r.items,
		"count":         len(r.items),
		"raw_collected": r.collectRaw,
		"dropped":       r.dropped,
		"truncated":     r.bound.truncated,
	}, nil
}
