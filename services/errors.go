package services

import (
	"errors"
	"fmt"
	"strings"
)

// Domain failures surfaced to the transport layer. Controllers map these to
// HTTP statuses; none of them imply a retry.
var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrQuotaExceeded = errors.New("issue quota exceeded")
	ErrSelfVote      = errors.New("reporter cannot upvote own issue")
	ErrDuplicateVote = errors.New("already upvoted")
	ErrBadTransition = errors.New("illegal status transition")
	ErrInvalidInput  = errors.New("invalid input")
)

// PartialError reports that a primary write committed but one or more
// coupled secondary writes failed. The primary result remains valid;
// Parts names the pieces left out of sync, in the order they were
// attempted, so the caller can see what to reconcile.
type PartialError struct {
	Parts []string // "staffWorkStatus", "timeline", "payment"
	Err   error    // first underlying failure
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("partial success: %s write failed: %v", strings.Join(e.Parts, ", "), e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

// AsPartial returns the PartialError wrapped in err, if any
func AsPartial(err error) (*PartialError, bool) {
	var pe *PartialError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
