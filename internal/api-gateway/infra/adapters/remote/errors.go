package remote

import (
	"fmt"
	"net/http"

	"github.com/allstar-electrical/workorders/internal/api-gateway/core/ports"
)

// StatusError is returned for any non-2xx answer of the remote server.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote %s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Unwrap lets errors.Is(err, ports.ErrNotFound) match 404 answers.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusNotFound {
		return ports.ErrNotFound
	}
	return nil
}
