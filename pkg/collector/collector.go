// ABOUTME: Collector protocol for the dispatch pass
// ABOUTME: Interest declaration, per-token handler, and finalize contract

package collector

import "github.com/nainya/tokenhouse/pkg/token"

// Interest declares which token kinds a collector wants. Either every kind
// (All) or an explicit finite set.
type Interest struct {
	All   bool
	Kinds []token.Kind
}

// InterestAll matches every token kind.
func InterestAll() Interest {
	return Interest{All: true}
}

// InterestIn matches only the given kinds.
func InterestIn(kinds ...token.Kind) Interest {
	return Interest{Kinds: kinds}
}

// Matches reports whether the interest covers kind.
func (in Interest) Matches(kind token.Kind) bool {
	if in.All {
		return true
	}
	for _, k := range in.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Context is the per-pass state the engine threads through every collector
// call. The engine is its sole writer; collectors read the cursor state and
// may use Scratch as private cross-call storage keyed by collector name.
type Context interface {
	// Depth is the total open-tag nesting depth at the current token.
	Depth() int
	// DepthOf is the nesting depth for one tag kind.
	DepthOf(kind token.Kind) int
	// CurrentSection is the id of the section containing the current token,
	// or -1 before the first section boundary.
	CurrentSection() int
	// Scratch is collector-opaque storage living for one pass.
	Scratch() map[string]any
}

// Engine is the view of the dispatch engine handed to collectors. It stays
// narrow so concrete collectors never depend on engine internals.
type Engine interface {
	// SectionOf resolves a normalized line to a section id.
	SectionOf(line int) (int, bool)
	// Sections is the number of sections in the pass's index.
	Sections() int
}

// Result is the named map a collector produces at finalize. A collector
// that enforces a capacity bound must include a "truncated" bool.
type Result map[string]any

// Collector is a stateful observer accumulating one kind of structured
// data across a single dispatch pass. Implementations own their buffers and
// never share mutable state with other collectors. A collector receives
// zero or more OnToken calls followed by exactly one Finalize, after which
// it must be reset before reuse.
type Collector interface {
	// Name identifies the collector's result in the merged output. Names
	// must be unique across all registered collectors.
	Name() string

	// Interest declares the token kinds routed to this collector.
	Interest() Interest

	// ShouldProcess may veto an individual token after interest routing,
	// typically to filter by nesting depth.
	ShouldProcess(tok *token.Token, ctx Context) bool

	// OnToken observes one matching token. Errors are isolated by the
	// engine and surfaced as Error entries; they never stop the pass
	// unless strict mode is set.
	OnToken(index int, tok *token.Token, ctx Context, eng Engine) error

	// Finalize produces the collector's result after the last token.
	Finalize(eng Engine) (Result, error)
}

// Base provides the default ShouldProcess (accept everything the interest
// matched) for embedding in concrete collectors.
type Base struct{}

// ShouldProcess accepts every routed token.
func (Base) ShouldProcess(*token.Token, Context) bool { return true }
