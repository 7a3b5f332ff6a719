package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrIntegrity  = errors.New("integrity violation")
	ErrConflict   = errors.New("conflict")
	ErrConnection = errors.New("store unavailable")
)

// ValidationError lists the offending fields by JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// DeletionBlockedError is returned when an entity is still referenced by shows.
type DeletionBlockedError struct {
	Resource   string
	ID         int64
	References map[string]int64
}

func (e *DeletionBlockedError) Error() string {
	keys := make([]string, 0, len(e.References))
	for k := range e.References {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%d %s", e.References[k], k))
	}
	return fmt.Sprintf("cannot delete %s %d: referenced by %s", e.Resource, e.ID, strings.Join(parts, ", "))
}

func (e *DeletionBlockedError) Unwrap() error { return ErrConflict }
