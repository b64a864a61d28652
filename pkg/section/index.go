// ABOUTME: Section index over contiguous document line ranges
// ABOUTME: Built once from heading tokens, binary-search point lookup

package section

import (
	"sort"

	"github.com/nainya/tokenhouse/pkg/token"
)

// Section is a contiguous line range anchored by a heading boundary.
// IDs are dense indexes into the sorted section table.
type Section struct {
	ID    int `json:"id"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// Index is a sorted, non-overlapping table of document sections. It is
// built once per dispatch pass and read-only afterward.
type Index struct {
	sections []Section
}

// Build scans the token stream for heading boundaries and derives the
// section table. Spans must already be normalized; unsorted boundaries
// would silently break SectionOf's binary search, so boundaries are sorted
// here regardless of token order. When two headings report the same start
// line the later one in document order wins, leaving a zero-length
// preceding section. A document with no headings gets a single implicit
// section covering [0, docEnd].
func Build(tokens []token.Token, docEnd int) *Index {
	var starts []int
	for i := range tokens {
		if tokens[i].Kind == token.KindHeadingOpen {
			starts = append(starts, tokens[i].Span.Start)
		}
	}

	if docEnd < 0 {
		docEnd = 0
	}

	if len(starts) == 0 {
		return &Index{sections: []Section{{ID: 0, Start: 0, End: docEnd}}}
	}

	sort.Ints(starts)

	sections := make([]Section, 0, len(starts))
	for i, start := range starts {
		end := docEnd
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		if end < start {
			end = start
		}
		sections = append(sections, Section{ID: i, Start: start, End: end})
	}

	return &Index{sections: sections}
}

// SectionOf returns the id of the section containing line, or false when
// the line precedes the first boundary. Lines past the last section belong
// to it. O(log S).
func (idx *Index) SectionOf(line int) (int, bool) {
	n := len(idx.sections)
	if n == 0 || line < idx.sections[0].Start {
		return 0, false
	}

	// First section starting after line; the one before it contains line.
	i := sort.Search(n, func(i int) bool {
		return idx.sections[i].Start > line
	})
	return idx.sections[i-1].ID, true
}

// Sections returns the section table in boundary order.
func (idx *Index) Sections() []Section {
	return idx.sections
}

// Len returns the number of sections.
func (idx *Index) Len() int {
	return len(idx.sections)
}
