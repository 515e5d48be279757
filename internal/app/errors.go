package app

import "errors"

// Error taxonomy shared by the pipelines. Handlers switch on these with
// errors.Is to pick the HTTP status; user-visible messages stay short and
// generic.
var (
	ErrValidation         = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrPathTraversal      = errors.New("unsafe path")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrRateLimited        = errors.New("rate limited")
	ErrStorage            = errors.New("storage failure")
)
