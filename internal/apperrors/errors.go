package apperrors

import "errors"

// ErrNotFound indicates that a requested resource (room, player, transaction)
// could not be found in the requested scope.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks,
// e.g. a non-positive amount or a degenerate transfer.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientBalance indicates a debit would take a player balance below zero.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrUnauthorized indicates a password or session check failed.
var ErrUnauthorized = errors.New("unauthorized")

// ErrTransientConflict indicates a storage-level write conflict persisted
// through the bounded retry loop. The whole user action may be retried.
var ErrTransientConflict = errors.New("transient storage conflict")

// ErrConflict indicates the operation conflicts with the current state of the
// resource, e.g. resolving an already-resolved bank pass request.
var ErrConflict = errors.New("conflicting state")

// ErrInternal wraps unexpected storage or infrastructure failures.
var ErrInternal = errors.New("internal error")
