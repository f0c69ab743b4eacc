package application

import (
	"context"
	"errors"

	"github.com/linskybing/admission-portal/pkg/backend"
)

var (
	ErrModalClosed         = errors.New("modal is not open")
	ErrSubmissionInFlight  = errors.New("a submission is already in progress")
	ErrWrongModalKind      = errors.New("action not available in this modal")
	ErrNotReviewable       = errors.New("application has already been reviewed")
	ErrInvalidDecision     = errors.New("decision must be VERIFIED or REJECTED")
	ErrApplicationNotFound = errors.New("application not found in the current list")
	ErrInvalidCredentials  = errors.New("invalid email or password")
)

const timeoutMessage = "The admissions server did not respond in time"

// mapDeadline turns a bare context deadline into a backend timeout so the
// failure carries a kind and a message.
func mapDeadline(op string, err error) error {
	if err == nil {
		return nil
	}
	var be *backend.Error
	if errors.As(err, &be) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &backend.Error{Kind: backend.ErrTimeout, Op: op, Message: timeoutMessage, Err: err}
	}
	return err
}
