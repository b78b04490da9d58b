// Package kinds registers the eight importable record kinds. Importing
// this package (usually for side effects) populates the core registry.
package kinds

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stationcms/import-service/internal/core"
)

// newID returns the opaque identifier assigned to every record at
// construction time.
func newID() string {
	return uuid.NewString()
}

func now() time.Time {
	return time.Now().UTC()
}

// reqDate parses a required ISO date field.
func reqDate(fields core.RowFields, name string) (time.Time, error) {
	t, ok := core.ParseISODate(fields.Get(name))
	if !ok {
		return time.Time{}, fmt.Errorf("invalid date in %s: %s", name, fields.Get(name))
	}
	return t, nil
}

// optDate parses an optional ISO date field, returning nil when absent.
func optDate(fields core.RowFields, name string) (*time.Time, error) {
	if !fields.Has(name) {
		return nil, nil
	}
	t, err := reqDate(fields, name)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// reqAmount parses a required numeric field.
func reqAmount(fields core.RowFields, name string) (float64, error) {
	f, ok := core.ParseAmount(fields.Get(name))
	if !ok {
		return 0, fmt.Errorf("%s must be numeric: %s", name, fields.Get(name))
	}
	return f, nil
}

// optAmount parses an optional numeric field, returning nil when absent.
// Columns outside the shared validation rules (budget) only get their
// numeric check here, so a bad value surfaces as a construction error.
func optAmount(fields core.RowFields, name string) (*float64, error) {
	if !fields.Has(name) {
		return nil, nil
	}
	f, err := reqAmount(fields, name)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// optFlag parses an optional Y/N field, returning nil when absent.
func optFlag(fields core.RowFields, name string) (*bool, error) {
	if !fields.Has(name) {
		return nil, nil
	}
	b, ok := core.ParseYesNo(fields.Get(name))
	if !ok {
		return nil, fmt.Errorf("%s must be Y or N: %s", name, fields.Get(name))
	}
	return &b, nil
}
