package core

import (
	"context"
	"errors"
	"fmt"
)

// FailureKind tags why an AI-assisted classification could not be trusted
type FailureKind string

const (
	FailureTransport  FailureKind = "transport"
	FailureTimeout    FailureKind = "timeout"
	FailureParse      FailureKind = "parse"
	FailureValidation FailureKind = "validation"
)

// Failure is a tagged, recoverable classification failure
type Failure struct {
	Kind FailureKind
	Err  error
}

// NewFailure wraps err with a failure kind
func NewFailure(kind FailureKind, err error) *Failure {
	return &Failure{Kind: kind, Err: err}
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("%s failure", f.Kind)
	}
	return fmt.Sprintf("%s failure: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure converts any error into a Failure. Deadline errors become
// timeouts, everything untagged is treated as a transport failure.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewFailure(FailureTimeout, err)
	}
	return NewFailure(FailureTransport, err)
}

// KindOf returns the failure kind of err, or "" when err is nil
func KindOf(err error) FailureKind {
	if f := AsFailure(err); f != nil {
		return f.Kind
	}
	return ""
}
