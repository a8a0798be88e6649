package react

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the terminal state of a run.
type Status string

const (
	StatusFinished Status = "finished"
	StatusFailed   Status = "failed"
)

// ToolCall names a tool and its raw arguments exactly as parsed from an
// Action line. The name may not exist in the registry; resolving it is the
// registry's job, not the parser's.
type ToolCall struct {
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments,omitempty"`
}

// Step records one loop iteration: the model's thought, the actions it
// declared, the observations they produced, and the final answer when the
// step terminated the run. Steps are created only by the loop and never
// mutated afterward.
type Step struct {
	Index        int        `json:"index"`
	Thought      string     `json:"thought"`
	Actions      []ToolCall `json:"actions,omitempty"`
	Observations []string   `json:"observations,omitempty"`
	IsFinal      bool       `json:"is_final"`
	FinalAnswer  string     `json:"final_answer,omitempty"`
	At           time.Time  `json:"at"`
}

// Trace is the complete record of one run: the goal, every step in order,
// and the terminal status. It is owned by exactly one run, outlives the
// run's Memory, and is what replay tooling consumes. The JSON encoding is a
// structural fixed point: marshal then unmarshal reproduces an identical
// Trace.
type Trace struct {
	ID         string     `json:"id"`
	Goal       string     `json:"goal"`
	Steps      []Step     `json:"steps"`
	Status     Status     `json:"status,omitempty"`
	FailReason FailReason `json:"fail_reason,omitempty"`
	Answer     string     `json:"answer,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    time.Time  `json:"ended_at,omitzero"`
}

// NewTrace starts an empty trace for a goal with a fresh run ID.
func NewTrace(goal string) *Trace {
	return &Trace{
		ID:        uuid.New().String(),
		Goal:      goal,
		StartedAt: now(),
	}
}

// Append records the next step, assigning its index.
func (t *Trace) Append(step Step) {
	step.Index = len(t.Steps)
	t.Steps = append(t.Steps, step)
}

// Finish marks the trace terminated with a final answer.
func (t *Trace) Finish(answer string) {
	t.Status = StatusFinished
	t.Answer = answer
	t.EndedAt = now()
}

// Fail marks the trace terminated with a failure reason.
func (t *Trace) Fail(reason FailReason) {
	t.Status = StatusFailed
	t.FailReason = reason
	t.EndedAt = now()
}

// Len returns the number of recorded steps.
func (t *Trace) Len() int { return len(t.Steps) }

// ParseTrace decodes a trace previously produced by json.Marshal.
func ParseTrace(data []byte) (*Trace, error) {
	var t Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decoding trace: %w", err)
	}
	return &t, nil
}

// now returns UTC wall-clock time. Traces carry UTC timestamps without a
// monotonic reading so that JSON round-trips compare structurally equal.
func now() time.Time {
	return time.Now().UTC()
}
