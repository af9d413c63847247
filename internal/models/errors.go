package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup (geocoding, station id) has no result
var ErrNotFound = errors.New("not found")

// ProviderError wraps a network or parse failure from an upstream collaborator
type ProviderError struct {
	Source string
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError tags err with the upstream it came from
func NewProviderError(source string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Source: source, Err: err}
}
