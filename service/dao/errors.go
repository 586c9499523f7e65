package dao

import (
	"errors"

	"github.com/viant/sanction/model/fault"
)

// Common DAO errors. ErrNotFound shares identity with fault.ErrNotFound so
// that store misses surface to callers without translation.

var (
	// ErrNotFound is returned when the requested entity does not exist in the
	// underlying storage.
	ErrNotFound = fault.ErrNotFound

	// ErrInvalidID indicates that the supplied ID/key is empty.
	ErrInvalidID = errors.New("dao: invalid id")

	// ErrNilEntity is returned when the caller attempts to persist a nil
	// pointer.
	ErrNilEntity = errors.New("dao: nil entity")
)
