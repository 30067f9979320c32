package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means no owner id was available for the operation.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrNotFound means the targeted row is absent or not owned by the caller.
	// The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")
)

// ValidationError is a local pre-check failure. It never reaches the gateway.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// RemoteError wraps a gateway failure. Mutations that hit one have already
// rolled the cache back to its pre-mutation snapshot.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Remote classifies err as a gateway rejection, keeping ErrNotFound visible
// through the wrapper so handlers can still answer 404.
func Remote(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return &RemoteError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
