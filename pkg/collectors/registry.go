// ABOUTME: Registry wiring the default collector set into an engine
// ABOUTME: The sole seam importing concrete collector implementations

package collectors

import (
	"github.com/nainya/tokenhouse/pkg/collector"
	"github.com/nainya/tokenhouse/pkg/safeurl"
	"github.com/nainya/tokenhouse/pkg/sanitize"
	"github.com/nainya/tokenhouse/pkg/warehouse"
)

// Options configures the default collector set. Zero caps fall back to
// the package defaults; negative caps are configuration errors.
type Options struct {
	LinkCap    int
	ImageCap   int
	HeadingCap int
	CodeCap    int
	TableCap   int
	HTMLCap    int

	// CollectRawHTML opts in to sanitized raw-markup passthrough.
	// Default off: the rawhtml collector reports metadata only.
	CollectRawHTML bool

	// AllowedSchemes overrides the URL scheme allow-list. Empty means
	// safeurl.DefaultAllowedSchemes.
	AllowedSchemes []string
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		LinkCap:    DefaultLinkCap,
		ImageCap:   DefaultImageCap,
		HeadingCap: DefaultHeadingCap,
		CodeCap:    DefaultCodeCap,
		TableCap:   DefaultTableCap,
		HTMLCap:    DefaultHTMLCap,
	}
}

// Defaults builds the default collector set. Construction errors are
// configuration-class and fatal.
func Defaults(opts Options) ([]collector.Collector, error) {
	checker := safeurl.NewChecker(opts.AllowedSchemes)

	var sanitizer *sanitize.Sanitizer
	if opts.CollectRawHTML {
		sanitizer = sanitize.New(opts.AllowedSchemes)
	}

	headings, err := NewHeadings(orDefault(opts.HeadingCap, DefaultHeadingCap))
	if err != nil {
		return nil, err
	}
	links, err := NewLinks(orDefault(opts.LinkCap, DefaultLinkCap), checker)
	if err != nil {
		return nil, err
	}
	images, err := NewImages(orDefault(opts.ImageCap, DefaultImageCap), checker)
	if err != nil {
		return nil, err
	}
	code, err := NewCodeBlocks(orDefault(opts.CodeCap, DefaultCodeCap))
	if err != nil {
		return nil, err
	}
	tables, err := NewTables(orDefault(opts.TableCap, DefaultTableCap))
	if err != nil {
		return nil, err
	}
	html, err := NewRawHTML(orDefault(opts.HTMLCap, DefaultHTMLCap), opts.CollectRawHTML, sanitizer)
	if err != nil {
		return nil, err
	}

	return []collector.Collector{headings, links, images, code, tables, html}, nil
}

// RegisterDefaults wires the default set into an engine.
func RegisterDefaults(w *warehouse.Warehouse, opts Options) error {
	set, err := Defaults(opts)
	if err != nil {
		return err
	}
	for _, c := range set {
		if err := w.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func orDefault(n, def int) int {
	if n == 0 {
		return def
	}
	return n
}
