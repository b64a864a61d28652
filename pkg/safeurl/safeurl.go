// ABOUTME: URL canonicalization and scheme allow-listing
// ABOUTME: Flags SSRF/XSS vectors: bad schemes, control bytes, homograph hosts

package safeurl

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/net/idna"
)

// Flag values recorded on a Verdict. A flagged URL is still reported to
// consumers, tagged so they can filter it.
const (
	FlagControlChars     = "control_chars"
	FlagProtocolRelative = "protocol_relative"
	FlagUnparsable       = "unparsable"
	FlagPunycode         = "punycode"
	FlagMixedScript      = "mixed_script"
	FlagSchemeDenied     = "scheme_denied"
)

// DefaultAllowedSchemes is the schemes a Checker permits unless configured
// otherwise. Everything else (javascript, data, file, vbscript, blob,
// filesystem, unknown) is reported but marked not-allowed and must never be
// dereferenced server-side.
var DefaultAllowedSchemes = []string{"http", "https", "mailto", "tel"}

// Verdict is the result of checking one URL.
type Verdict struct {
	Raw       string   `json:"raw"`
	Canonical string   `json:"canonical,omitempty"`
	Scheme    string   `json:"scheme,omitempty"`
	Host      string   `json:"host,omitempty"`
	Allowed   bool     `json:"allowed"`
	Flags     []string `json:"flags,omitempty"`
}

// Checker validates URLs against a scheme allow-list.
type Checker struct {
	allowed map[string]bool
}

// NewChecker builds a Checker. An empty scheme list means the default set.
// Schemes are compared case-insensitively.
func NewChecker(schemes []string) *Checker {
	if len(schemes) == 0 {
		schemes = DefaultAllowedSchemes
	}
	allowed := make(map[string]bool, len(schemes))
	for _, s := range schemes {
		allowed[strings.ToLower(strings.TrimSpace(s))] = true
	}
	return &Checker{allowed: allowed}
}

// Check canonicalizes raw and classifies its scheme. The zero-trust rules,
// in order: control characters anywhere reject outright; protocol-relative
// URLs reject outright; the scheme and host are lower-cased before
// comparison; IDN hosts are converted with idna and punycode or mixed-script
// hosts are flagged as look-alike suspects without changing Allowed.
func (c *Checker) Check(raw string) Verdict {
	v := Verdict{Raw: raw}

	trimmed := strings.TrimSpace(raw)
	if hasControlChars(trimmed) {
		v.Flags = append(v.Flags, FlagControlChars)
		return v
	}
	if strings.HasPrefix(trimmed, "//") {
		v.Flags = append(v.Flags, FlagProtocolRelative)
		return v
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		v.Flags = append(v.Flags, FlagUnparsable)
		return v
	}

	v.Scheme = strings.ToLower(u.Scheme)
	u.Scheme = v.Scheme

	if host := u.Hostname(); host != "" {
		lower := strings.ToLower(host)
		ascii, err := idna.Lookup.ToASCII(lower)
		if err != nil {
			ascii = lower
		}
		if strings.Contains(lower, "xn--") || strings.Contains(ascii, "xn--") {
			v.Flags = append(v.Flags, FlagPunycode)
		}
		// A host that mixes scripts or fails IDNA mapping is a look-alike
		// suspect.
		if mixedScript(lower) || err != nil {
			v.Flags = append(v.Flags, FlagMixedScript)
		}
		u.Host = rebuildHost(u, ascii)
		v.Host = ascii
	}

	v.Canonical = u.String()
	v.Allowed = c.allowed[v.Scheme]
	if !v.Allowed {
		v.Flags = append(v.Flags, FlagSchemeDenied)
	}
	return v
}

// hasControlChars reports whether s contains ASCII control bytes, which
// only appear in URLs as smuggling attempts.
func hasControlChars(s string) bool {
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return true
		}
	}
	return false
}

// mixedScript reports whether host mixes Latin letters with letters from
// another script, the classic homograph shape (e.g. Cyrillic "а" in an
// otherwise Latin name).
func mixedScript(host string) bool {
	var latin, other bool
	for _, r := range host {
		if !unicode.IsLetter(r) {
			continue
		}
		if r < 0x80 {
			latin = true
		} else {
			other = true
		}
	}
	return latin && other
}

// rebuildHost swaps the hostname while preserving any port.
func rebuildHost(u *url.URL, host string) string {
	if port := u.Port(); port != "" {
		return host + ":" + port
	}
	return host
}
