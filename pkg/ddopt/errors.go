package ddopt

import "errors"

// Sentinel errors returned by the compilation and solving pipeline. The
// logic violation of relaxing to width 0 is a programmer bug and panics
// instead of returning an error; squashing a layer that is already at or
// below the requested width is a no-op.
var (
	// ErrCutoffOccurred is returned by Compile when the configured Cutoff
	// fired mid-compilation. The caller's incumbent remains valid; the
	// search is simply no longer proved optimal.
	ErrCutoffOccurred = errors.New("ddopt: cutoff occurred")

	// ErrInvalidWidth is returned when a width heuristic yields a
	// non-positive width for anything other than a clamped DivBy chain.
	ErrInvalidWidth = errors.New("ddopt: invalid width")

	// ErrEmptyModel is returned when a Problem reports zero variables.
	ErrEmptyModel = errors.New("ddopt: problem has no variables")

	// ErrNoSuchElement is returned by Frontier.Pop on an empty frontier.
	ErrNoSuchElement = errors.New("ddopt: no such element")
)
