// ABOUTME: Default collector set and shared capacity handling
// ABOUTME: Caps bound worst-case memory for adversarially large documents

package collectors

import "errors"

// ErrInvalidCap indicates a capacity below 1. Detected at construction,
// configuration-error class: never isolated.
var ErrInvalidCap = errors.New("collectors: capacity must be positive")

// Default capacity per collector type. Orders of magnitude differ on
// purpose: a hostile document holds far more links than tables.
const (
	DefaultLinkCap    = 8192
	DefaultImageCap   = 4096
	DefaultHeadingCap = 4096
	DefaultCodeCap    = 2048
	DefaultTableCap   = 1024
	DefaultHTMLCap    = 512
)

// capped tracks a bounded accumulator. admit reports whether one more item
// fits; once the cap is hit further matches are dropped and the truncated
// flag sticks.
type capped struct {
	cap       int
	count     int
	truncated bool
}

func newCapped(max int) (capped, error) {
	if max < 1 {
		return capped{}, ErrInvalidCap
	}
	return capped{cap: max}, nil
}

func (c *capped) admit() bool {
	if c.count >= c.cap {
		c.truncated = true
		return false
	}
	c.count++
	return true
}
