package services

import (
	"errors"
	"fmt"
)

var (
	// ErrPostNotFound matches every *NotFoundError.
	ErrPostNotFound = errors.New("post not found")
	// ErrStore matches every *StoreError.
	ErrStore = errors.New("store failure")
)

// NotFoundError is returned when an operation names a post id that does not exist.
type NotFoundError struct {
	ID uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("post %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrPostNotFound
}

// StoreError wraps an unexpected failure of the underlying store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}
