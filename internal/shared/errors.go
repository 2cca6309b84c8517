package shared

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrReferenced indicates a record still referenced by other documents.
	ErrReferenced = errors.New("record is referenced by existing documents")
	// ErrNoStylesheet indicates a company has no stylesheet configured.
	ErrNoStylesheet = errors.New("no stylesheet configured")
	// ErrItemRef indicates a line item references a missing catalog item.
	ErrItemRef = errors.New("item reference invalid")
)

// FieldErrors collects validation failures keyed by submitted field name.
// It is returned as a batch so callers can report every bad field at once.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fe[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a failure for a field, keeping the first message per field.
func (fe FieldErrors) Add(field, message string) {
	if _, ok := fe[field]; !ok {
		fe[field] = message
	}
}

// OrNil returns the batch as an error, or nil when no field failed.
func (fe FieldErrors) OrNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}
