package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNetwork matches every failure reported by Client.
var ErrNetwork = errors.New("scene endpoint unavailable")

// NetworkError describes a failed exchange with the scene endpoint. Status is
// zero when no response was received.
type NetworkError struct {
	Op      string
	SceneID string
	Status  int
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s scene %q: status %d: %v", e.Op, e.SceneID, e.Status, e.Err)
	}
	return fmt.Sprintf("%s scene %q: %v", e.Op, e.SceneID, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// Retryable reports whether repeating the request may succeed.
func (e *NetworkError) Retryable() bool {
	switch {
	case e.Status == 0:
		return true
	case e.Status == http.StatusRequestTimeout, e.Status == http.StatusTooManyRequests:
		return true
	default:
		return e.Status >= 500
	}
}

// NotFound reports whether the endpoint has no scene under the id.
func (e *NetworkError) NotFound() bool { return e.Status == http.StatusNotFound }
