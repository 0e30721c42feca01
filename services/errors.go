package services

import (
	"errors"
	"fmt"

	"github.com/dvrpc/traffic-counts-api/repository"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrNotPublished  = errors.New("record not published")
	ErrNotClassCount = errors.New("record is not a vehicle classification count")
)

// ValidationError means a database row could not be coerced into its model.
// It points at bad source data, never at the caller.
type ValidationError struct {
	Source string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("unexpected data in %s: %v", e.Source, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// FilterError is a rejected client filter value.
type FilterError struct {
	Param string
	Value string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Param, e.Value)
}

// asValidation lifts a repository decode failure into a ValidationError and
// passes everything else through.
func asValidation(err error) error {
	var decodeErr *repository.DecodeError
	if errors.As(err, &decodeErr) {
		return &ValidationError{Source: decodeErr.Query, Err: decodeErr.Err}
	}
	return err
}
