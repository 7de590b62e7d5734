package clients

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
)

// ErrNotFound matches any StatusError with a 404 code.
var ErrNotFound = errors.New("not found")

type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: non-OK status: %d", e.Endpoint, e.Code)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
