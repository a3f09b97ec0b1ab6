package arena

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized marks a 401; callers recover by re-authenticating.
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not_found")
	// ErrMalformed marks a 2xx body that does not decode into the
	// expected shape.
	ErrMalformed = errors.New("malformed_response")
)

// RemoteError carries the server-supplied message verbatim. Quota
// detection depends on the exact text, so it is never rewritten.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("arena: status %d", e.Status)
	}
	return fmt.Sprintf("arena: status %d: %s", e.Status, e.Message)
}
