package runs

import "errors"

var (
	ErrNotFound       = errors.New("run_not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)
