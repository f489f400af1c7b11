package corrector

import (
	"errors"
	"fmt"
)

// ErrNoContent reports that the upstream accepted the request (2xx) but
// returned no extractable text. This is deliberately distinct from
// [HTTPError]: it indicates a response-shape mismatch or an upstream refusal,
// not a connectivity or authentication problem.
var ErrNoContent = errors.New("no content returned by model")

// HTTPError is returned when the upstream responds with a non-2xx status.
// The response body is carried verbatim for diagnosability; upstream APIs
// put their most useful detail (quota, auth, validation messages) there.
type HTTPError struct {
	// StatusCode is the numeric HTTP status (e.g., 429).
	StatusCode int

	// Status is the full status line text (e.g., "429 Too Many Requests").
	Status string

	// Body is the raw response body text.
	Body string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("upstream returned %s: %s", e.Status, e.Body)
}

// IsNoContent reports whether err is or wraps [ErrNoContent].
func IsNoContent(err error) bool {
	return errors.Is(err, ErrNoContent)
}
