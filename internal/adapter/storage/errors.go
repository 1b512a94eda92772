// internal/adapter/storage/errors.go

package storage

import "fmt"

// StoreError wraps a persistence-layer failure. Handlers map it to an
// internal failure status; it is never swallowed.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
