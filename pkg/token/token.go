// ABOUTME: Token model for the parsed document stream
// ABOUTME: Defines Kind tags, nesting values, and attribute access

package token

import "strings"

// Kind identifies a token type. The tags follow the upstream tokenizer's
// naming: paired tokens use _open/_close suffixes, self-closing tokens are
// bare.
type Kind string

const (
	KindHeadingOpen     Kind = "heading_open"
	KindHeadingClose    Kind = "heading_close"
	KindParagraphOpen   Kind = "paragraph_open"
	KindParagraphClose  Kind = "paragraph_close"
	KindInline          Kind = "inline"
	KindText            Kind = "text"
	KindLinkOpen        Kind = "link_open"
	KindLinkClose       Kind = "link_close"
	KindImage           Kind = "image"
	KindFence           Kind = "fence"
	KindCodeBlock       Kind = "code_block"
	KindHTMLBlock       Kind = "html_block"
	KindHTMLInline      Kind = "html_inline"
	KindTableOpen       Kind = "table_open"
	KindTableClose      Kind = "table_close"
	KindListOpen        Kind = "list_open"
	KindListClose       Kind = "list_close"
	KindBlockquoteOpen  Kind = "blockquote_open"
	KindBlockquoteClose Kind = "blockquote_close"
)

// Nesting values for Token.Nesting
const (
	NestingOpen  = 1  // opening tag
	NestingSelf  = 0  // self-closing tag
	NestingClose = -1 // closing tag
)

// Token is one unit of the parsed document stream. It is produced once by
// the upstream tokenizer and is read-only during dispatch: collectors must
// not mutate it. The engine rewrites Span in place before dispatch begins
// but never touches Kind, Nesting, or Attrs.
type Token struct {
	Kind    Kind              // token type tag
	Nesting int               // +1 open, 0 self-closing, -1 close
	Attrs   map[string]string // tokenizer-owned attributes, materialized once
	RawSpan *Span             // tokenizer-reported span; may be nil or malformed
	Span    NormalizedSpan    // normalized span, set during dispatch preparation
}

// Attr returns the named attribute, or "" if absent.
func (t *Token) Attr(name string) string {
	if t.Attrs == nil {
		return ""
	}
	return t.Attrs[name]
}

// OpenKind maps a closing kind to its opening counterpart, so nesting
// depth can be tracked under one key per tag pair. Non-closing kinds map
// to themselves.
func (k Kind) OpenKind() Kind {
	if s, ok := strings.CutSuffix(string(k), "_close"); ok {
		return Kind(s + "_open")
	}
	return k
}
