package executor

import "errors"

var (
	ErrUnsupportedCommand = errors.New("unsupported command")
	ErrMissingService     = errors.New("domain service not configured")
)
