// ABOUTME: Source-line spans and defensive span normalization
// ABOUTME: Repairs missing, negative, inverted, and oversized tokenizer spans

package token

// MaxLine bounds normalized line numbers. Tokenizer output beyond this is
// treated as hostile and clamped.
const MaxLine = 1 << 30

// Span is a raw (start, end) source-line pair as reported by the tokenizer.
// No invariant holds: either value may be negative, inverted, or absurd.
type Span struct {
	Start int
	End   int
}

// NormalizedSpan is a repaired span with the invariant
// 0 <= Start <= End <= MaxLine.
type NormalizedSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Normalize derives a NormalizedSpan from a raw span. A nil span means the
// tokenizer reported no position and maps to (0, 0). Both ends are clamped
// into [0, MaxLine] and an inverted span collapses to its start line.
// Normalization is idempotent: normalizing a normalized span is a no-op.
func Normalize(raw *Span) NormalizedSpan {
	if raw == nil {
		return NormalizedSpan{}
	}
	start := clampLine(raw.Start)
	end := clampLine(raw.End)
	if end < start {
		end = start
	}
	return NormalizedSpan{Start: start, End: end}
}

// NormalizeAll rewrites every token's Span in place from its RawSpan and
// returns the greatest normalized end line, which callers use as the
// document end. This must run before any section boundaries are computed.
func NormalizeAll(tokens []Token) int {
	docEnd := 0
	for i := range tokens {
		tokens[i].Span = Normalize(tokens[i].RawSpan)
		if tokens[i].Span.End > docEnd {
			docEnd = tokens[i].Span.End
		}
	}
	return docEnd
}

func clampLine(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxLine {
		return MaxLine
	}
	return n
}
