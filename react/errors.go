package react

import (
	"errors"
	"fmt"
	"strings"
)

// FailReason classifies why a run ended in StatusFailed.
type FailReason string

const (
	FailRepetition      FailReason = "repetition_detected"
	FailIterationBudget FailReason = "iteration_budget_exceeded"
	FailParseBudget     FailReason = "parse_budget_exceeded"
	FailCancelled       FailReason = "cancelled"
	FailGateway         FailReason = "gateway_error"
)

// Sentinel errors carried by failed runs so callers can classify terminal
// outcomes with errors.Is.
var (
	ErrRepetitionDetected      = errors.New("repetition detected")
	ErrIterationBudgetExceeded = errors.New("iteration budget exceeded")
	ErrParseBudgetExceeded     = errors.New("parse retry budget exceeded")
	ErrCancelled               = errors.New("run cancelled")
)

// Registration errors.
var (
	ErrEmptyToolName = errors.New("tool name must not be empty")
	ErrNilTool       = errors.New("tool callable must not be nil")
	ErrNilGateway    = errors.New("gateway must not be nil")
)

// DuplicateToolError reports an attempt to register a tool name twice. The
// registry is unchanged after the failed attempt.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q is already registered", e.Name)
}

// ToolNotFoundError reports an action naming a tool absent from the
// registry. Recoverable: the loop converts it into an observation so the
// model can pick an existing tool.
type ToolNotFoundError struct {
	Name      string
	Available []string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("tool %q not found; available tools: %s", e.Name, strings.Join(e.Available, ", "))
}

// InvalidArgumentsError reports arguments that do not satisfy a tool's
// declared parameters. Recoverable.
type InvalidArgumentsError struct {
	Tool   string
	Reason string
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %q: %s", e.Tool, e.Reason)
}

// ToolExecutionError wraps a failure raised by the tool callable itself.
// Recoverable: the registry never lets a tool's internal failure escape as
// an unhandled fault.
type ToolExecutionError struct {
	Tool  string
	Cause error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %q failed: %v", e.Tool, e.Cause)
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Cause
}

// ParseError reports model output that does not satisfy the step format
// contract. Recoverable up to the configured retry budget: the loop feeds
// it back as an observation so the model can correct its format.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparsable step: %s", e.Reason)
}
