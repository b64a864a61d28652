// ABOUTME: Configuration-class errors for the dispatch engine
// ABOUTME: These are fatal at wiring time and never isolated

package warehouse

import "errors"

var (
	// ErrDuplicateName indicates two registered collectors share a name.
	ErrDuplicateName = errors.New("warehouse: duplicate collector name")

	// ErrNilCollector indicates a nil collector was registered.
	ErrNilCollector = errors.New("warehouse: nil collector")

	// ErrInvalidName indicates a collector with an empty name.
	ErrInvalidName = errors.New("warehouse: empty collector name")

	// ErrAlreadyDispatched indicates reuse of a single-pass engine.
	ErrAlreadyDispatched = errors.New("warehouse: engine already dispatched")
)
