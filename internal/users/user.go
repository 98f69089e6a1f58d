package users

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("user not found")
	ErrConflict         = errors.New("user already exists")
	ErrStoreUnavailable = errors.New("user store unavailable")
	ErrCorruptStore     = errors.New("user store is corrupt")
)

// User is a registered account as persisted in the store file.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Op identifies the store operation that failed.
type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
)

// StoreError reports a failed load or save against the backing file.
// It matches ErrStoreUnavailable under errors.Is.
type StoreError struct {
	Op   Op
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStoreUnavailable }

// ValidationError is returned when registration input is rejected.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation: " + e.Reason }

const (
	ReasonMissingField     = "missing field"
	ReasonInvalidName      = "invalid name"
	ReasonPasswordTooShort = "password too short"
)
