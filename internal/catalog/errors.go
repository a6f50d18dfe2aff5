package catalog

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ValidationError reports the required draft fields that were missing or
// invalid. No persisted state is mutated when it is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid required fields: %s", strings.Join(e.Fields, ", "))
}

// NotFoundError reports a mutating call against an id that is not in the
// persisted collection. It usually means the caller's working copy is stale.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ID)
}

// StorageError wraps a persistence-layer read or write failure. The prior
// collection remains untouched from the caller's perspective.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("catalog storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsStorage reports whether err is a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
