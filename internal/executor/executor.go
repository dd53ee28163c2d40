// Package executor bridges the management service to the helper scripts
// that touch the live system. The service itself never shells out to
// system tools directly; every live read or mutation goes through here.
package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors distinguishing transport failures from domain rejections.
var (
	// ErrTimeout means the helper did not finish within the configured deadline.
	ErrTimeout = errors.New("executor: operation timed out")

	// ErrProcessFailed means the helper could not be started or exited non-zero.
	ErrProcessFailed = errors.New("executor: process failed")

	// ErrMalformedOutput means the helper produced output that is not valid JSON.
	ErrMalformedOutput = errors.New("executor: malformed output")
)

// DomainError is a rejection reported by the helper itself: the process ran
// and produced well-formed output carrying success=false. The message is
// safe to surface to API clients.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Result is the parsed first line of helper output. Payload holds the raw
// document for callers that pass it through unchanged.
type Result struct {
	Payload json.RawMessage
}

// Decode unmarshals the payload into v.
func (r Result) Decode(v any) error {
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return nil
}

// Executor runs named operations against a target subsystem and returns the
// structured result. Implementations must honor ctx cancellation.
type Executor interface {
	Invoke(ctx context.Context, target, operation string, args []string) (Result, error)
}

// statusEnvelope is the success/error wrapper mutating operations reply with.
type statusEnvelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

// checkEnvelope returns a DomainError when the payload carries an explicit
// success=false. Read-only operations reply with bare documents and pass
// through untouched.
func checkEnvelope(payload json.RawMessage) error {
	var env statusEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		// Not an object envelope, e.g. a JSON array from a listing.
		return nil
	}
	if env.Success != nil && !*env.Success {
		msg := env.Error
		if msg == "" {
			msg = "operation failed"
		}
		return &DomainError{Message: msg}
	}
	return nil
}
