// Package service holds the booking lifecycle, the review gate and the
// account, therapist and notification operations built on the policy and
// repository packages.
package service

import (
	"errors"
	"fmt"

	"github.com/ariebrainware/therapist-booking/repository"
)

// Kind classifies a failure for the HTTP boundary.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	// KindNotFoundOrForbidden merges absent and forbidden resources so callers
	// cannot tell a hidden row from a missing one.
	KindNotFoundOrForbidden
	// KindForbidden is a role gate failure where existence is not at stake.
	KindForbidden
	KindConflict
	KindIneligibleReview
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindNotFoundOrForbidden:
		return "not_found_or_forbidden"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindIneligibleReview:
		return "ineligible_review"
	case KindStore:
		return "store"
	}
	return "unknown"
}

// Error is the failure type returned by every service operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or KindStore for foreign errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindStore
}

func validationErr(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func notFoundOrForbidden(msg string) error {
	return &Error{Kind: KindNotFoundOrForbidden, Message: msg}
}

func forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func storeErr(op string, err error) error {
	return &Error{Kind: KindStore, Message: op, Err: err}
}

// lookupErr maps a repository read failure, hiding ErrNotFound behind msg.
func lookupErr(op, msg string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFoundOrForbidden(msg)
	}
	return storeErr(op, err)
}
