package cms

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrEmptyPath = errors.New("content path is empty")

// FetchError reports a transport failure (Status 0) or a non-2xx response.
type FetchError struct {
	Status int
	Path   string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("cms request %s failed: %v", e.Path, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("cms request %s returned %d: %v", e.Path, e.Status, e.Err)
	}
	return fmt.Sprintf("cms request %s returned %d", e.Path, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a CMS 404.
func IsNotFound(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Status == http.StatusNotFound
}
