package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Call records one Invoke made against a Fake.
type Call struct {
	Target    string
	Operation string
	Args      []string
}

// Fake is an in-memory Executor for tests. Responses are canned per
// target/operation pair and every call is recorded.
type Fake struct {
	mu        sync.Mutex
	responses map[string]json.RawMessage
	errs      map[string]error
	calls     []Call
}

// NewFake creates an empty fake executor.
func NewFake() *Fake {
	return &Fake{
		responses: make(map[string]json.RawMessage),
		errs:      make(map[string]error),
	}
}

func key(target, operation string) string {
	return target + "/" + operation
}

// Respond sets the JSON payload returned for a target/operation pair.
func (f *Fake) Respond(target, operation, payload string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[key(target, operation)] = json.RawMessage(payload)
}

// Fail makes a target/operation pair return err instead of a payload.
func (f *Fake) Fail(target, operation string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[key(target, operation)] = err
}

// Invoke returns the canned response for the pair, recording the call.
// Pairs with no canned response succeed with a minimal success envelope.
func (f *Fake) Invoke(ctx context.Context, target, operation string, args []string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	f.mu.Lock()
	f.calls = append(f.calls, Call{Target: target, Operation: operation, Args: args})
	err := f.errs[key(target, operation)]
	payload, ok := f.responses[key(target, operation)]
	f.mu.Unlock()

	if err != nil {
		return Result{}, err
	}
	if !ok {
		payload = json.RawMessage(`{"success": true}`)
	}

	result := Result{Payload: payload}
	if envErr := checkEnvelope(result.Payload); envErr != nil {
		return result, envErr
	}
	return result, nil
}

// Calls returns a copy of the recorded calls.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo returns the recorded calls matching a target/operation pair.
func (f *Fake) CallsTo(target, operation string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Target == target && c.Operation == operation {
			out = append(out, c)
		}
	}
	return out
}

// Reset clears recorded calls, keeping canned responses.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}
