package react

import (
	"bytes"
	"encoding/json"
	"testing"
)

func sampleTrace() *Trace {
	trace := NewTrace("What was the most popular language in 2007?")
	trace.Append(Step{
		Thought: "I should look up the first iPhone release date.",
		Actions: []ToolCall{{Name: "search", Arguments: map[string]string{"query": "first iphone"}}},
		Observations: []string{
			"The first iPhone was released by Apple on June 29, 2007.",
		},
		At: now(),
	})
	trace.Append(Step{
		Thought:     "Now I can answer directly.",
		IsFinal:     true,
		FinalAnswer: "Java was the most popular programming language in 2007.",
		At:          now(),
	})
	trace.Finish("Java was the most popular programming language in 2007.")
	return trace
}

func TestNewTrace(t *testing.T) {
	trace := NewTrace("goal")
	if trace.ID == "" {
		t.Error("expected non-empty run ID")
	}
	if trace.Goal != "goal" {
		t.Errorf("expected goal %q, got %q", "goal", trace.Goal)
	}
	if trace.StartedAt.IsZero() {
		t.Error("expected StartedAt to be set")
	}
	if trace.Status != "" {
		t.Errorf("expected no status on a fresh trace, got %q", trace.Status)
	}

	other := NewTrace("goal")
	if other.ID == trace.ID {
		t.Error("expected distinct run IDs")
	}
}

func TestTraceAppendAssignsIndexes(t *testing.T) {
	trace := NewTrace("goal")
	trace.Append(Step{Thought: "first", Index: 99})
	trace.Append(Step{Thought: "second"})

	if trace.Len() != 2 {
		t.Fatalf("expected 2 steps, got %d", trace.Len())
	}
	for i, step := range trace.Steps {
		if step.Index != i {
			t.Errorf("expected step %d to have index %d, got %d", i, i, step.Index)
		}
	}
}

func TestTraceFinish(t *testing.T) {
	trace := NewTrace("goal")
	trace.Finish("the answer")

	if trace.Status != StatusFinished {
		t.Errorf("expected status %q, got %q", StatusFinished, trace.Status)
	}
	if trace.Answer != "the answer" {
		t.Errorf("expected answer %q, got %q", "the answer", trace.Answer)
	}
	if trace.EndedAt.IsZero() {
		t.Error("expected EndedAt to be set")
	}
}

func TestTraceFail(t *testing.T) {
	trace := NewTrace("goal")
	trace.Fail(FailIterationBudget)

	if trace.Status != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, trace.Status)
	}
	if trace.FailReason != FailIterationBudget {
		t.Errorf("expected reason %q, got %q", FailIterationBudget, trace.FailReason)
	}
	if trace.Answer != "" {
		t.Errorf("expected no answer on a failed trace, got %q", trace.Answer)
	}
}

// Encoding a trace, decoding it, and encoding again must reproduce the
// first encoding byte for byte.
func TestTraceRoundTrip(t *testing.T) {
	trace := sampleTrace()

	first, err := json.Marshal(trace)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := ParseTrace(first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.ID != trace.ID {
		t.Errorf("expected ID %q, got %q", trace.ID, decoded.ID)
	}
	if decoded.Len() != trace.Len() {
		t.Errorf("expected %d steps, got %d", trace.Len(), decoded.Len())
	}
	if decoded.Steps[0].Actions[0].Arguments["query"] != "first iphone" {
		t.Errorf("expected tool arguments to survive the round trip")
	}

	second, err := json.Marshal(decoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("expected stable encoding\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestParseTraceRejectsGarbage(t *testing.T) {
	if _, err := ParseTrace([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
