package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownElement = errors.New("unknown graph element")
	ErrMissingColor   = errors.New("color scheme is missing a color")
	ErrDuplicateHost  = errors.New("two hosts cannot have the same name")
	ErrReentrantBuild = errors.New("graph construction re-entered")
	ErrHostNotFound   = errors.New("host not found")
)

// HostError ties a failure to the host it happened on.
type HostError struct {
	VM  string
	Err error
}

func (e *HostError) Error() string {
	return fmt.Sprintf("host %s: %v", e.VM, e.Err)
}

func (e *HostError) Unwrap() error {
	return e.Err
}
