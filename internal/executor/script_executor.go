package executor

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds helper runtime when the caller does not override it.
const DefaultTimeout = 30 * time.Second

// ScriptExecutor runs helper scripts from a directory. Each target maps to
// one script named <target>_utils.py, invoked with the operation as its
// first argument.
type ScriptExecutor struct {
	scriptsDir  string
	interpreter string
	timeout     time.Duration
}

// Option configures a ScriptExecutor.
type Option func(*ScriptExecutor)

// WithInterpreter overrides the default python3 interpreter.
func WithInterpreter(interpreter string) Option {
	return func(e *ScriptExecutor) {
		e.interpreter = interpreter
	}
}

// WithTimeout overrides the default per-invocation timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(e *ScriptExecutor) {
		e.timeout = timeout
	}
}

// NewScriptExecutor creates an executor running scripts from scriptsDir.
func NewScriptExecutor(scriptsDir string, opts ...Option) *ScriptExecutor {
	e := &ScriptExecutor{
		scriptsDir:  scriptsDir,
		interpreter: "python3",
		timeout:     DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Invoke runs one operation and parses the first line of stdout as JSON.
// Helper scripts write their result document on the first line; anything
// after it is diagnostics.
func (e *ScriptExecutor) Invoke(ctx context.Context, target, operation string, args []string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	script := filepath.Join(e.scriptsDir, target+"_utils.py")
	cmdArgs := append([]string{"-u", script, operation}, args...)

	cmd := exec.CommandContext(ctx, e.interpreter, cmdArgs...)
	// Killing the interpreter at the deadline is not enough: a helper
	// child still holding the output pipes would keep Run blocked.
	// WaitDelay bounds that wait too.
	cmd.WaitDelay = e.timeout
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if ctx.Err() == context.DeadlineExceeded {
		log.Warn().Str("target", target).Str("operation", operation).
			Dur("elapsed", elapsed).Msg("helper script timed out")
		return Result{}, fmt.Errorf("%w: %s %s after %s", ErrTimeout, target, operation, e.timeout)
	}
	if err != nil {
		log.Error().Err(err).Str("target", target).Str("operation", operation).
			Str("stderr", stderr.String()).Msg("helper script failed")
		return Result{}, fmt.Errorf("%w: %s %s: %v", ErrProcessFailed, target, operation, err)
	}

	line, err := firstLine(&stdout)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s %s produced no output", ErrMalformedOutput, target, operation)
	}
	if !json.Valid(line) {
		return Result{}, fmt.Errorf("%w: %s %s output is not JSON", ErrMalformedOutput, target, operation)
	}

	log.Debug().Str("target", target).Str("operation", operation).
		Dur("elapsed", elapsed).Msg("helper script finished")

	result := Result{Payload: json.RawMessage(line)}
	if err := checkEnvelope(result.Payload); err != nil {
		return result, err
	}
	return result, nil
}

func firstLine(buf *bytes.Buffer) ([]byte, error) {
	scanner := bufio.NewScanner(buf)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("empty output")
	}
	return scanner.Bytes(), nil
}
