// ABOUTME: Single-pass token dispatch engine ("token warehouse")
// ABOUTME: Routes tokens to interested collectors, isolates failures, merges results

package warehouse

import (
	"fmt"
	"time"

	"github.com/nainya/tokenhouse/pkg/collector"
	"github.com/nainya/tokenhouse/pkg/section"
	"github.com/nainya/tokenhouse/pkg/token"
)

// Config is construction-time engine configuration. The failure mode is
// explicit rather than ambient so every call site shows which one it runs
// under.
type Config struct {
	// Strict re-raises the first collector failure instead of isolating
	// it. Intended for tests and development only; production runs
	// isolated (the default).
	Strict bool
}

// Pass lifecycle states. A warehouse is single-use: one document, one pass.
type state int

const (
	stateNotStarted state = iota
	stateDispatching
	stateFinalizing
	stateDone
)

// Warehouse owns the section index, the collector list, and the single
// dispatch pass over a document's token stream. It is not safe for
// concurrent use; process concurrent documents with independent instances.
type Warehouse struct {
	cfg        Config
	collectors []collector.Collector
	names      map[string]bool
	routes     map[token.Kind][]collector.Collector
	index      *section.Index
	state      state
	errs       []collector.Error
}

// Stats summarizes one pass for the caller's logging and metrics.
type Stats struct {
	Tokens     int           `json:"tokens"`
	Dispatches int           `json:"dispatches"`
	Sections   int           `json:"sections"`
	Collectors int           `json:"collectors"`
	Errors     int           `json:"errors"`
	Duration   time.Duration `json:"duration_ns"`
}

// ResultSet is the merged output of one pass: each collector's finalized
// result keyed by collector name, plus every isolated failure. Errors are
// batched, never swallowed; the caller decides whether the partial result
// is acceptable.
type ResultSet struct {
	Results map[string]collector.Result `json:"results"`
	Errors  []collector.Error           `json:"errors"`
	Stats   Stats                       `json:"stats"`
}

// New creates an engine for a single dispatch pass.
func New(cfg Config) *Warehouse {
	return &Warehouse{
		cfg:    cfg,
		names:  make(map[string]bool),
		routes: make(map[token.Kind][]collector.Collector),
	}
}

// Register wires a collector into the engine. Duplicate names, empty
// names, and nil collectors are configuration errors, surfaced here and
// never at dispatch time.
func (w *Warehouse) Register(c collector.Collector) error {
	if w.state != stateNotStarted {
		return ErrAlreadyDispatched
	}
	if c == nil {
		return ErrNilCollector
	}
	name := c.Name()
	if name == "" {
		return ErrInvalidName
	}
	if w.names[name] {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	w.names[name] = true
	w.collectors = append(w.collectors, c)
	return nil
}

// Dispatch runs the single pass: normalize spans, build the section index,
// route every token to its interested collectors, finalize, and merge. In
// isolated mode (default) collector failures are recorded in the returned
// ResultSet and the pass continues; in strict mode the first failure
// aborts with an error. A second call returns ErrAlreadyDispatched.
func (w *Warehouse) Dispatch(tokens []token.Token) (*ResultSet, error) {
	if w.state != stateNotStarted {
		return nil, ErrAlreadyDispatched
	}
	w.state = stateDispatching
	start := time.Now()

	// Spans must be repaired before any section boundary is computed:
	// Build sorts by normalized start line, and binary search depends on
	// that ordering.
	docEnd := token.NormalizeAll(tokens)
	w.index = section.Build(tokens, docEnd)
	w.buildRoutes(tokens)

	ctx := newPassContext()
	dispatches := 0

	for i := range tokens {
		tok := &tokens[i]
		ctx.beforeDispatch(tok, w.index)
		for _, c := range w.routes[tok.Kind] {
			if !c.ShouldProcess(tok, ctx) {
				continue
			}
			dispatches++
			if err := w.callOnToken(c, i, tok, ctx); err != nil {
				return nil, err
			}
		}
		ctx.afterDispatch(tok)
	}

	w.state = stateFinalizing
	results := make(map[string]collector.Result, len(w.collectors))
	for _, c := range w.collectors {
		res, err := w.callFinalize(c)
		if err != nil {
			return nil, err
		}
		if res != nil {
			results[c.Name()] = res
		}
	}

	w.state = stateDone
	return &ResultSet{
		Results: results,
		Errors:  w.errs,
		Stats: Stats{
			Tokens:     len(tokens),
			Dispatches: dispatches,
			Sections:   w.index.Len(),
			Collectors: len(w.collectors),
			Errors:     len(w.errs),
			Duration:   time.Since(start),
		},
	}, nil
}

// SectionOf implements collector.Engine.
func (w *Warehouse) SectionOf(line int) (int, bool) {
	if w.index == nil {
		return 0, false
	}
	return w.index.SectionOf(line)
}

// Sections implements collector.Engine.
func (w *Warehouse) Sections() int {
	if w.index == nil {
		return 0
	}
	return w.index.Len()
}

// buildRoutes precomputes the kind routing table for every kind present
// in the stream, each entry in registration order. The table is read-only
// for the rest of the pass, so the hot loop never rescans the collector
// list.
func (w *Warehouse) buildRoutes(tokens []token.Token) {
	for i := range tokens {
		kind := tokens[i].Kind
		if _, ok := w.routes[kind]; ok {
			continue
		}
		var lst []collector.Collector
		for _, c := range w.collectors {
			if c.Interest().Matches(kind) {
				lst = append(lst, c)
			}
		}
		w.routes[kind] = lst
	}
}

// callOnToken invokes one collector with fault isolation. Panics and
// returned errors become collector.Error records; in strict mode the
// record is returned instead to abort the pass.
func (w *Warehouse) callOnToken(c collector.Collector, i int, tok *token.Token, ctx *passContext) error {
	err := func() (e error) {
		defer func() {
			if r := recover(); r != nil {
				e = fmt.Errorf("panic: %v", r)
			}
		}()
		return c.OnToken(i, tok, ctx, w)
	}()
	if err == nil {
		return nil
	}
	rec := collector.NewError(c.Name(), i, collector.OpOnToken, err)
	if w.cfg.Strict {
		return rec
	}
	w.errs = append(w.errs, rec)
	return nil
}

// callFinalize invokes Finalize with the same isolation as callOnToken.
func (w *Warehouse) callFinalize(c collector.Collector) (collector.Result, error) {
	res, err := func() (r collector.Result, e error) {
		defer func() {
			if rec := recover(); rec != nil {
				r, e = nil, fmt.Errorf("panic: %v", rec)
			}
		}()
		return c.Finalize(w)
	}()
	if err == nil {
		return res, nil
	}
	rec := collector.NewError(c.Name(), collector.FinalizeIndex, collector.OpFinalize, err)
	if w.cfg.Strict {
		return nil, rec
	}
	w.errs = append(w.errs, rec)
	return nil, nil
}
