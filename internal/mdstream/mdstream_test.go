// ABOUTME: Tests for the goldmark token adapter
// ABOUTME: Verifies kinds, attributes, and line spans on real markdown

package mdstream

import (
	"strings"
	"testing"

	"github.com/nainya/tokenhouse/pkg/collectors"
	"github.com/nainya/tokenhouse/pkg/token"
	"github.com/nainya/tokenhouse/pkg/warehouse"
)

const sampleDoc = `# Title

Some [link](https://example.com) text.

## Section Two

` + "```go\ncode here\n```" + `

<div>html</div>
`

func firstOf(tokens []token.Token, kind token.Kind) *token.Token {
	for i := range tokens {
		if tokens[i].Kind == kind {
			return &tokens[i]
		}
	}
	return nil
}

func allOf(tokens []token.Token, kind token.Kind) []*token.Token {
	var out []*token.Token
	for i := range tokens {
		if tokens[i].Kind == kind {
			out = append(out, &tokens[i])
		}
	}
	return out
}

func TestTokenizeHeadings(t *testing.T) {
	tokens := Tokenize([]byte(sampleDoc))

	heads := allOf(tokens, token.KindHeadingOpen)
	if len(heads) != 2 {
		t.Fatalf("got %d heading_open tokens, want 2", len(heads))
	}
	if heads[0].Attr("level") != "1" || heads[1].Attr("level") != "2" {
		t.Errorf("heading levels = %q, %q", heads[0].Attr("level"), heads[1].Attr("level"))
	}
	if heads[0].RawSpan == nil || heads[0].RawSpan.Start != 0 {
		t.Errorf("first heading span = %+v, want start 0", heads[0].RawSpan)
	}
	if heads[1].RawSpan == nil || heads[1].RawSpan.Start != 4 {
		t.Errorf("second heading span = %+v, want start 4", heads[1].RawSpan)
	}

	// Each heading_open is immediately followed by its inline content.
	for i := range tokens {
		if tokens[i].Kind == token.KindHeadingOpen {
			if i+1 >= len(tokens) || tokens[i+1].Kind != token.KindInline {
				t.Fatalf("heading_open at %d not followed by inline", i)
			}
		}
	}
}

func TestTokenizeLinks(t *testing.T) {
	tokens := Tokenize([]byte(sampleDoc))

	link := firstOf(tokens, token.KindLinkOpen)
	if link == nil {
		t.Fatal("no link_open token")
	}
	if link.Attr("href") != "https://example.com" {
		t.Errorf("href = %q", link.Attr("href"))
	}
	if firstOf(tokens, token.KindLinkClose) == nil {
		t.Error("no link_close token")
	}
}

func TestTokenizeFence(t *testing.T) {
	tokens := Tokenize([]byte(sampleDoc))

	fence := firstOf(tokens, token.KindFence)
	if fence == nil {
		t.Fatal("no fence token")
	}
	if fence.Attr("info") != "go" {
		t.Errorf("fence info = %q, want go", fence.Attr("info"))
	}
	if fence.RawSpan == nil || fence.RawSpan.Start != 7 {
		t.Errorf("fence span = %+v, want content line 7", fence.RawSpan)
	}
}

func TestTokenizeHTMLBlock(t *testing.T) {
	tokens := Tokenize([]byte(sampleDoc))

	html := firstOf(tokens, token.KindHTMLBlock)
	if html == nil {
		t.Fatal("no html_block token")
	}
	if !strings.Contains(html.Attr("content"), "<div>html</div>") {
		t.Errorf("html content = %q", html.Attr("content"))
	}
}

func TestTokenizeTable(t *testing.T) {
	doc := "| a | b |\n|---|---|\n| 1 | 2 |\n"
	tokens := Tokenize([]byte(doc))

	if firstOf(tokens, token.KindTableOpen) == nil {
		t.Fatal("no table_open token for a GFM table")
	}
	if firstOf(tokens, token.KindTableClose) == nil {
		t.Error("no table_close token")
	}
}

func TestTokenizeAutoLink(t *testing.T) {
	tokens := Tokenize([]byte("Visit <https://example.org> now.\n"))

	link := firstOf(tokens, token.KindLinkOpen)
	if link == nil {
		t.Fatal("no link_open for autolink")
	}
	if link.Attr("href") != "https://example.org" {
		t.Errorf("autolink href = %q", link.Attr("href"))
	}
}

func TestTokenizeImage(t *testing.T) {
	tokens := Tokenize([]byte("![alt text](https://example.com/x.png)\n"))

	img := firstOf(tokens, token.KindImage)
	if img == nil {
		t.Fatal("no image token")
	}
	if img.Attr("src") != "https://example.com/x.png" {
		t.Errorf("src = %q", img.Attr("src"))
	}
	if img.Attr("alt") != "alt text" {
		t.Errorf("alt = %q", img.Attr("alt"))
	}
}

func TestInlineSectionAttribution(t *testing.T) {
	doc := "# One\n\ntext\n\n# Two\n\nsee [x](https://example.com) here\n"
	tokens := Tokenize([]byte(doc))

	link := firstOf(tokens, token.KindLinkOpen)
	if link == nil {
		t.Fatal("no link_open token")
	}
	if link.RawSpan == nil || link.RawSpan.Start != 6 {
		t.Fatalf("link span = %+v, want line 6", link.RawSpan)
	}

	w := warehouse.New(warehouse.Config{})
	if err := collectors.RegisterDefaults(w, collectors.DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	rs, err := w.Dispatch(tokens)
	if err != nil {
		t.Fatal(err)
	}

	links := rs.Results["links"]["links"].([]collectors.LinkItem)
	if len(links) != 1 {
		t.Fatalf("got %d links, want 1", len(links))
	}
	if links[0].Section != 1 {
		t.Errorf("link under second heading attributed to section %d, want 1", links[0].Section)
	}
	if links[0].Line != 6 {
		t.Errorf("link line = %d, want 6", links[0].Line)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	if tokens := Tokenize(nil); len(tokens) != 0 {
		t.Errorf("empty source produced %d tokens", len(tokens))
	}
}

// TestPipeline runs real markdown through the full engine with the default
// collector set.
func TestPipeline(t *testing.T) {
	tokens := Tokenize([]byte(sampleDoc))

	w := warehouse.New(warehouse.Config{})
	if err := collectors.RegisterDefaults(w, collectors.DefaultOptions()); err != nil {
		t.Fatal(err)
	}

	rs, err := w.Dispatch(tokens)
	if err != nil {
		t.Fatal(err)
	}
	if len(rs.Errors) != 0 {
		t.Fatalf("collector errors: %v", rs.Errors)
	}

	if rs.Stats.Sections != 2 {
		t.Errorf("sections = %d, want 2", rs.Stats.Sections)
	}

	heads := rs.Results["headings"]["headings"].([]collectors.HeadingItem)
	if len(heads) != 2 || heads[0].Text != "Title" || heads[1].Text != "Section Two" {
		t.Errorf("headings = %+v", heads)
	}

	links := rs.Results["links"]["links"].([]collectors.LinkItem)
	if len(links) != 1 || !links[0].Allowed {
		t.Errorf("links = %+v", links)
	}

	code := rs.Results["codeblocks"]["codeblocks"].([]collectors.CodeItem)
	if len(code) != 1 || code[0].Info != "go" {
		t.Errorf("codeblocks = %+v", code)
	}

	html := rs.Results["rawhtml"]["html"].([]collectors.HTMLItem)
	if len(html) != 1 || html[0].Content != "" {
		t.Errorf("rawhtml = %+v", html)
	}
}
