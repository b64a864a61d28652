// ABOUTME: Raw-markup sanitizer for opt-in HTML passthrough
// ABOUTME: Strips executable constructs via a bluemonday policy

package sanitize

import (
	"errors"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ErrUnavailable indicates the sanitizer has no policy. Callers must fall
// back to "not collected", never to collecting unsanitized markup.
var ErrUnavailable = errors.New("sanitize: sanitizer unavailable")

// Sanitizer cleans embedded raw markup before it may appear in collector
// output. The zero value is unusable on purpose: construct with New.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New builds a Sanitizer whose policy permits common formatting markup but
// strips script-like tags, inline event handlers, and any URL scheme
// outside the given allow-list. An empty scheme list falls back to http and
// https only.
func New(allowedSchemes []string) *Sanitizer {
	if len(allowedSchemes) == 0 {
		allowedSchemes = []string{"http", "https"}
	}

	p := bluemonday.UGCPolicy()
	p.AllowURLSchemes(allowedSchemes...)
	p.RequireNoFollowOnLinks(true)

	return &Sanitizer{policy: p}
}

// Clean sanitizes raw markup. It fails closed: a Sanitizer without a
// policy returns ErrUnavailable rather than passing content through.
func (s *Sanitizer) Clean(raw string) (string, error) {
	if s == nil || s.policy == nil {
		return "", ErrUnavailable
	}
	return strings.TrimSpace(s.policy.Sanitize(raw)), nil
}

// eventAttrPattern matches inline event-handler attributes. Used only by
// LooksExecutable for cheap pre-screening; Clean is the authority.
var eventAttrPattern = regexp.MustCompile(`(?i)\bon[a-z]+\s*=`)

// LooksExecutable reports whether raw markup contains obviously executable
// constructs. Collectors use it for counting suspicious input without
// running the full policy.
func LooksExecutable(raw string) bool {
	lower := strings.ToLower(raw)
	if strings.Contains(lower, "<script") || strings.Contains(lower, "javascript:") {
		return true
	}
	return eventAttrPattern.MatchString(raw)
}
