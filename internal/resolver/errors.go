package resolver

import (
	"errors"
	"fmt"

	"github.com/mmynk/freeslots/internal/calculator"
)

var (
	// ErrNoMembers is returned by Resolve when the group has zero members.
	ErrNoMembers = calculator.ErrNoMembers

	// ErrInvalidInput is returned for malformed requests such as an empty group list.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamFetch matches every *FetchError with errors.Is.
	ErrUpstreamFetch = errors.New("upstream fetch failed")
)

// FetchError reports that the storage collaborator could not supply the rows
// needed to resolve a group. The underlying error is preserved.
type FetchError struct {
	// Op is the lookup that failed: "members" or "availability".
	Op      string
	GroupID string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s for group %s: %v", e.Op, e.GroupID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrUpstreamFetch) true for any FetchError.
func (e *FetchError) Is(target error) bool {
	return target == ErrUpstreamFetch
}

// outcome labels err for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoMembers):
		return "no_members"
	case errors.Is(err, ErrInvalidInput):
		return "invalid"
	case errors.Is(err, ErrUpstreamFetch):
		return "fetch_error"
	default:
		return "error"
	}
}
