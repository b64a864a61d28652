// ABOUTME: Markdown tokenizer adapter over goldmark
// ABOUTME: Flattens the parsed AST into the warehouse token stream

package mdstream

import (
	"sort"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/nainya/tokenhouse/pkg/token"
)

// Tokenize parses markdown source and flattens the AST into an ordered
// token stream. Attributes are materialized here, once, so the dispatch
// loop never re-reads parser state. Inline nodes without positions carry a
// nil RawSpan; the engine's normalization repairs them.
func Tokenize(source []byte) []token.Token {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(source))

	e := &emitter{source: source, lines: buildLineIndex(source)}
	_ = ast.Walk(doc, e.visit)
	return e.tokens
}

// emitter accumulates tokens during the AST walk.
type emitter struct {
	source []byte
	lines  lineIndex
	tokens []token.Token

	// block is the span of the enclosing heading or paragraph, the
	// position fallback for inline nodes without own segments.
	block *token.Span
}

func (e *emitter) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		span := e.blockSpan(node)
		if entering {
			e.block = span
			e.emit(token.KindHeadingOpen, token.NestingOpen,
				map[string]string{"level": strconv.Itoa(node.Level)}, span)
			e.emit(token.KindInline, token.NestingSelf,
				map[string]string{"content": e.textOf(node)}, span)
		} else {
			e.emit(token.KindHeadingClose, token.NestingClose, nil, span)
		}

	case *ast.Paragraph:
		span := e.blockSpan(node)
		if entering {
			e.block = span
			e.emit(token.KindParagraphOpen, token.NestingOpen, nil, span)
			e.emit(token.KindInline, token.NestingSelf,
				map[string]string{"content": e.textOf(node)}, span)
		} else {
			e.emit(token.KindParagraphClose, token.NestingClose, nil, span)
		}

	case *ast.Text:
		if entering {
			e.emit(token.KindText, token.NestingSelf, nil, e.segmentSpan(node.Segment))
		}

	case *ast.Link:
		attrs := map[string]string{"href": string(node.Destination)}
		if len(node.Title) > 0 {
			attrs["title"] = string(node.Title)
		}
		span := e.spanNear(node)
		if entering {
			e.emit(token.KindLinkOpen, token.NestingOpen, attrs, span)
		} else {
			e.emit(token.KindLinkClose, token.NestingClose, nil, span)
		}

	case *ast.AutoLink:
		if entering {
			span := e.spanNear(node)
			e.emit(token.KindLinkOpen, token.NestingOpen,
				map[string]string{"href": string(node.URL(e.source))}, span)
			e.emit(token.KindLinkClose, token.NestingClose, nil, span)
			return ast.WalkSkipChildren, nil
		}

	case *ast.Image:
		if entering {
			e.emit(token.KindImage, token.NestingSelf, map[string]string{
				"src": string(node.Destination),
				"alt": e.textOf(node),
			}, e.spanNear(node))
			return ast.WalkSkipChildren, nil
		}

	case *ast.FencedCodeBlock:
		if entering {
			attrs := map[string]string{}
			if node.Info != nil {
				attrs["info"] = string(node.Info.Segment.Value(e.source))
			}
			e.emit(token.KindFence, token.NestingSelf, attrs, e.blockSpan(node))
			return ast.WalkSkipChildren, nil
		}

	case *ast.CodeBlock:
		if entering {
			e.emit(token.KindCodeBlock, token.NestingSelf, nil, e.blockSpan(node))
			return ast.WalkSkipChildren, nil
		}

	case *ast.HTMLBlock:
		if entering {
			e.emit(token.KindHTMLBlock, token.NestingSelf,
				map[string]string{"content": e.linesContent(node)}, e.blockSpan(node))
			return ast.WalkSkipChildren, nil
		}

	case *ast.RawHTML:
		if entering {
			var buf strings.Builder
			var span *token.Span
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				buf.Write(seg.Value(e.source))
				if span == nil {
					span = e.segmentSpan(seg)
				}
			}
			if span == nil {
				span = e.block
			}
			e.emit(token.KindHTMLInline, token.NestingSelf,
				map[string]string{"content": buf.String()}, span)
			return ast.WalkSkipChildren, nil
		}

	case *east.Table:
		if entering {
			e.emit(token.KindTableOpen, token.NestingOpen, nil, e.blockSpan(node))
		} else {
			e.emit(token.KindTableClose, token.NestingClose, nil, e.blockSpan(node))
		}

	case *ast.List:
		if entering {
			e.emit(token.KindListOpen, token.NestingOpen, nil, e.blockSpan(node))
		} else {
			e.emit(token.KindListClose, token.NestingClose, nil, e.blockSpan(node))
		}

	case *ast.Blockquote:
		if entering {
			e.emit(token.KindBlockquoteOpen, token.NestingOpen, nil, e.blockSpan(node))
		} else {
			e.emit(token.KindBlockquoteClose, token.NestingClose, nil, e.blockSpan(node))
		}
	}

	return ast.WalkContinue, nil
}

func (e *emitter) emit(kind token.Kind, nesting int, attrs map[string]string, span *token.Span) {
	e.tokens = append(e.tokens, token.Token{
		Kind:    kind,
		Nesting: nesting,
		Attrs:   attrs,
		RawSpan: span,
	})
}

// blockSpan derives a raw line span from a block node's source segments.
// Container blocks without own segments yield nil.
func (e *emitter) blockSpan(n ast.Node) *token.Span {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return nil
	}
	first := lines.At(0)
	last := lines.At(lines.Len() - 1)

	end := last.Stop - 1
	if end < last.Start {
		end = last.Start
	}
	return &token.Span{
		Start: e.lines.lineOf(first.Start),
		End:   e.lines.lineOf(end) + 1,
	}
}

func (e *emitter) segmentSpan(seg text.Segment) *token.Span {
	if seg.Len() == 0 {
		return nil
	}
	line := e.lines.lineOf(seg.Start)
	return &token.Span{Start: line, End: line + 1}
}

// spanNear resolves an inline node's position: its first text segment, or
// the enclosing block's span when the node carries no segments of its own.
func (e *emitter) spanNear(n ast.Node) *token.Span {
	if s := e.inlineSpan(n); s != nil {
		return s
	}
	return e.block
}

func (e *emitter) inlineSpan(n ast.Node) *token.Span {
	if t, ok := n.(*ast.Text); ok {
		return e.segmentSpan(t.Segment)
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if s := e.inlineSpan(c); s != nil {
			return s
		}
	}
	return nil
}

// textOf collects the plain text beneath a node.
func (e *emitter) textOf(n ast.Node) string {
	var buf strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				buf.Write(t.Segment.Value(e.source))
			case *ast.String:
				buf.Write(t.Value)
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return buf.String()
}

// linesContent concatenates a block node's source lines.
func (e *emitter) linesContent(n ast.Node) string {
	var buf strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(e.source))
	}
	return buf.String()
}

// lineIndex maps byte offsets to zero-based line numbers.
type lineIndex []int

func buildLineIndex(source []byte) lineIndex {
	starts := lineIndex{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (ix lineIndex) lineOf(offset int) int {
	if offset < 0 {
		return 0
	}
	// First line starting past offset; the previous one contains it.
	i := sort.Search(len(ix), func(i int) bool { return ix[i] > offset })
	return i - 1
}
