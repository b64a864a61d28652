// ABOUTME: Tests for the default collectors
// ABOUTME: Caps, URL verdicts, scratch pairing, raw HTML opt-in behavior

package collectors

import (
	"strings"
	"testing"

	"github.com/nainya/tokenhouse/pkg/sanitize"
	"github.com/nainya/tokenhouse/pkg/token"
	"github.com/nainya/tokenhouse/pkg/warehouse"
)

// fakeCtx is a minimal collector.Context for direct collector tests.
type fakeCtx struct {
	depths  map[token.Kind]int
	section int
	scratch map[string]any
}

func newFakeCtx() *fakeCtx {
	return &fakeCtx{depths: map[token.Kind]int{}, section: 0, scratch: map[string]any{}}
}

func (f *fakeCtx) Depth() int {
	total := 0
	for _, d := range f.depths {
		total += d
	}
	return total
}

func (f *fakeCtx) DepthOf(k token.Kind) int { return f.depths[k.OpenKind()] }
func (f *fakeCtx) CurrentSection() int      { return f.section }
func (f *fakeCtx) Scratch() map[string]any  { return f.scratch }

func linkToken(href string, line int) *token.Token {
	return &token.Token{
		Kind:    token.KindLinkOpen,
		Nesting: token.NestingOpen,
		Attrs:   map[string]string{"href": href},
		Span:    token.NormalizedSpan{Start: line, End: line},
	}
}

func TestLinksCap(t *testing.T) {
	l, err := NewLinks(2, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := newFakeCtx()

	for i, href := range []string{"https://a.example", "https://b.example", "https://c.example"} {
		if err := l.OnToken(i, linkToken(href, i), ctx, nil); err != nil {
			t.Fatal(err)
		}
	}

	res, err := l.Finalize(nil)
	if err != nil {
		t.Fatal(err)
	}
	items := res["links"].([]LinkItem)
	if len(items) != 2 {
		t.Errorf("got %d links, want exactly cap=2", len(items))
	}
	if res["truncated"] != true {
		t.Error("truncated flag not set after exceeding cap")
	}
}

func TestLinksUnderCap(t *testing.T) {
	l, err := NewLinks(10, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := newFakeCtx()
	for i := 0; i < 3; i++ {
		if err := l.OnToken(i, linkToken("https://example.com", i), ctx, nil); err != nil {
			t.Fatal(err)
		}
	}

	res, _ := l.Finalize(nil)
	if res["count"] != 3 {
		t.Errorf("count = %v, want 3", res["count"])
	}
	if res["truncated"] != false {
		t.Error("truncated flag set below cap")
	}
}

func TestLinksSchemeVerdict(t *testing.T) {
	l, err := NewLinks(10, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := newFakeCtx()

	l.OnToken(0, linkToken("javascript:alert(1)", 0), ctx, nil)
	l.OnToken(1, linkToken("https://example.com", 1), ctx, nil)

	res, _ := l.Finalize(nil)
	items := res["links"].([]LinkItem)

	// The hostile link is reported for transparency but flagged.
	if items[0].Href != "javascript:alert(1)" {
		t.Errorf("hostile link missing from output: %+v", items[0])
	}
	if items[0].Allowed {
		t.Error("javascript: link marked allowed")
	}
	if !items[1].Allowed {
		t.Error("https link marked not allowed")
	}
}

func TestLinksInvalidCap(t *testing.T) {
	if _, err := NewLinks(0, nil); err != ErrInvalidCap {
		t.Errorf("cap 0: err = %v, want ErrInvalidCap", err)
	}
	if _, err := NewLinks(-5, nil); err != ErrInvalidCap {
		t.Errorf("cap -5: err = %v, want ErrInvalidCap", err)
	}
}

func TestImagesVerdict(t *testing.T) {
	m, err := NewImages(10, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := newFakeCtx()

	tok := &token.Token{
		Kind:  token.KindImage,
		Attrs: map[string]string{"src": "data:image/svg+xml;base64,AAAA", "alt": "x"},
	}
	m.OnToken(0, tok, ctx, nil)

	res, _ := m.Finalize(nil)
	items := res["images"].([]ImageItem)
	if len(items) != 1 || items[0].Allowed {
		t.Errorf("data: image not flagged: %+v", items)
	}
	if items[0].Alt != "x" {
		t.Errorf("alt = %q", items[0].Alt)
	}
}

func TestHeadingsPairing(t *testing.T) {
	h, err := NewHeadings(10)
	if err != nil {
		t.Fatal(err)
	}
	ctx := newFakeCtx()

	open := &token.Token{
		Kind:    token.KindHeadingOpen,
		Nesting: token.NestingOpen,
		Attrs:   map[string]string{"level": "2"},
		Span:    token.NormalizedSpan{Start: 4, End: 5},
	}
	inline := &token.Token{
		Kind:  token.KindInline,
		Attrs: map[string]string{"content": "Install"},
	}
	closing := &token.Token{Kind: token.KindHeadingClose, Nesting: token.NestingClose}

	h.OnToken(0, open, ctx, nil)
	h.OnToken(1, inline, ctx, nil)
	h.OnToken(2, closing, ctx, nil)

	// A stray inline outside any heading must not produce an entry.
	h.OnToken(3, &token.Token{Kind: token.KindInline, Attrs: map[string]string{"content": "body"}}, ctx, nil)

	res, _ := h.Finalize(nil)
	items := res["headings"].([]HeadingItem)
	if len(items) != 1 {
		t.Fatalf("got %d headings, want 1", len(items))
	}
	if items[0].Level != 2 || items[0].Text != "Install" || items[0].Line != 4 {
		t.Errorf("heading = %+v", items[0])
	}
}

func TestTablesTopLevelOnly(t *testing.T) {
	tb, err := NewTables(10)
	if err != nil {
		t.Fatal(err)
	}
	ctx := newFakeCtx()

	outer := &token.Token{Kind: token.KindTableOpen, Nesting: token.NestingOpen}
	if !tb.ShouldProcess(outer, ctx) {
		t.Error("top-level table vetoed")
	}

	ctx.depths[token.KindTableOpen] = 1
	if tb.ShouldProcess(outer, ctx) {
		t.Error("nested table accepted")
	}
}

func TestRawHTMLDefaultOff(t *testing.T) {
	r, err := NewRawHTML(10, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := newFakeCtx()

	tok := &token.Token{
		Kind:  token.KindHTMLBlock,
		Attrs: map[string]string{"content": `<script>alert(1)</script>`},
	}
	r.OnToken(0, tok, ctx, nil)

	res, _ := r.Finalize(nil)
	items := res["html"].([]HTMLItem)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Content != "" {
		t.Errorf("raw content leaked without opt-in: %q", items[0].Content)
	}
	if !items[0].Executable {
		t.Error("script block not marked executable")
	}
	if res["raw_collected"] != false {
		t.Error("raw_collected = true without opt-in")
	}
}

func TestRawHTMLOptInSanitized(t *testing.T) {
	r, err := NewRawHTML(10, true, sanitize.New(nil))
	if err != nil {
		t.Fatal(err)
	}
	ctx := newFakeCtx()

	tok := &token.Token{
		Kind:  token.KindHTMLBlock,
		Attrs: map[string]string{"content": `<p>ok</p><script>alert(1)</script>`},
	}
	r.OnToken(0, tok, ctx, nil)

	res, _ := r.Finalize(nil)
	items := res["html"].([]HTMLItem)
	if !strings.Contains(items[0].Content, "ok") {
		t.Errorf("benign content lost: %q", items[0].Content)
	}
	if strings.Contains(items[0].Content, "script") {
		t.Errorf("script survived sanitization: %q", items[0].Content)
	}
}

func TestRawHTMLSanitizerUnavailable(t *testing.T) {
	// Opt-in with no sanitizer must degrade to "not collected", never to
	// unsanitized passthrough.
	r, err := NewRawHTML(10, true, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := newFakeCtx()

	tok := &token.Token{
		Kind:  token.KindHTMLInline,
		Attrs: map[string]string{"content": `<b onclick="x()">hi</b>`},
	}
	r.OnToken(0, tok, ctx, nil)

	res, _ := r.Finalize(nil)
	items := res["html"].([]HTMLItem)
	if items[0].Content != "" {
		t.Errorf("unsanitized content collected: %q", items[0].Content)
	}
	if res["dropped"] != 1 {
		t.Errorf("dropped = %v, want 1", res["dropped"])
	}
}

func TestRegisterDefaults(t *testing.T) {
	w := warehouse.New(warehouse.Config{})
	if err := RegisterDefaults(w, DefaultOptions()); err != nil {
		t.Fatalf("RegisterDefaults failed: %v", err)
	}

	// Registering the set twice must trip the duplicate-name check.
	if err := RegisterDefaults(w, DefaultOptions()); err == nil {
		t.Error("duplicate default set registered without error")
	}
}

func TestDefaultsInvalidCap(t *testing.T) {
	opts := DefaultOptions()
	opts.LinkCap = -1
	if _, err := Defaults(opts); err != ErrInvalidCap {
		t.Errorf("err = %v, want ErrInvalidCap", err)
	}
}

func TestDefaultsEndToEnd(t *testing.T) {
	w := warehouse.New(warehouse.Config{})
	if err := RegisterDefaults(w, DefaultOptions()); err != nil {
		t.Fatal(err)
	}

	stream := []token.Token{
		{Kind: token.KindHeadingOpen, Nesting: token.NestingOpen,
			Attrs: map[string]string{"level": "1"}, RawSpan: &token.Span{Start: 0, End: 1}},
		{Kind: token.KindInline, Attrs: map[string]string{"content": "Title"},
			RawSpan: &token.Span{Start: 0, End: 1}},
		{Kind: token.KindHeadingClose, Nesting: token.NestingClose,
			RawSpan: &token.Span{Start: 0, End: 1}},
		{Kind: token.KindParagraphOpen, Nesting: token.NestingOpen,
			RawSpan: &token.Span{Start: 2, End: 3}},
		{Kind: token.KindLinkOpen, Nesting: token.NestingOpen,
			Attrs: map[string]string{"href": "javascript:alert(1)"}},
		{Kind: token.KindText},
		{Kind: token.KindLinkClose, Nesting: token.NestingClose},
		{Kind: token.KindParagraphClose, Nesting: token.NestingClose,
			RawSpan: &token.Span{Start: 2, End: 3}},
	}

	rs, err := w.Dispatch(stream)
	if err != nil {
		t.Fatal(err)
	}
	if len(rs.Errors) != 0 {
		t.Fatalf("unexpected collector errors: %v", rs.Errors)
	}

	links := rs.Results["links"]["links"].([]LinkItem)
	if len(links) != 1 || links[0].Allowed {
		t.Errorf("links result = %+v", links)
	}

	heads := rs.Results["headings"]["headings"].([]HeadingItem)
	if len(heads) != 1 || heads[0].Text != "Title" {
		t.Errorf("headings result = %+v", heads)
	}
}
