package react

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func referenceRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	if err := RegisterReferenceTools(reg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return reg
}

func TestRegisterReferenceTools(t *testing.T) {
	reg := referenceRegistry(t)
	if reg.Len() != 4 {
		t.Errorf("expected 4 tools, got %d", reg.Len())
	}
	for _, name := range []string{"search", "calculator", "current_date", "weather"} {
		if _, err := reg.Invoke(context.Background(), name, requiredArgsFor(name)); err != nil {
			t.Errorf("expected %s to be callable, got %v", name, err)
		}
	}

	// A second registration collides with the first.
	if err := RegisterReferenceTools(reg); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func requiredArgsFor(name string) map[string]string {
	switch name {
	case "search":
		return map[string]string{"query": "anything"}
	case "calculator":
		return map[string]string{"operation": "add", "a": "1", "b": "2"}
	case "weather":
		return map[string]string{"city": "london"}
	default:
		return nil
	}
}

func TestSearchTool(t *testing.T) {
	reg := referenceRegistry(t)

	out, err := reg.Invoke(context.Background(), "search", map[string]string{
		"query": "When was the first iPhone released?",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "June 29, 2007") {
		t.Errorf("expected iPhone fact, got %q", out)
	}

	out, err = reg.Invoke(context.Background(), "search", map[string]string{
		"query": "something nobody knows",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No specific information found") {
		t.Errorf("expected miss message, got %q", out)
	}
}

func TestCalculatorTool(t *testing.T) {
	reg := referenceRegistry(t)

	tests := []struct {
		name string
		args map[string]string
		want string
	}{
		{"add", map[string]string{"operation": "add", "a": "2", "b": "3"}, "5"},
		{"subtract", map[string]string{"operation": "subtract", "a": "10", "b": "4"}, "6"},
		{"multiply", map[string]string{"operation": "multiply", "a": "2.5", "b": "4"}, "10"},
		{"divide", map[string]string{"operation": "divide", "a": "10", "b": "4"}, "2.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := reg.Invoke(context.Background(), "calculator", tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tt.want {
				t.Errorf("expected %q, got %q", tt.want, out)
			}
		})
	}
}

func TestCalculatorToolErrors(t *testing.T) {
	reg := referenceRegistry(t)

	_, err := reg.Invoke(context.Background(), "calculator", map[string]string{
		"operation": "divide", "a": "1", "b": "0",
	})
	var execErr *ToolExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ToolExecutionError, got %v", err)
	}
	if !strings.Contains(err.Error(), "division by zero") {
		t.Errorf("expected division by zero message, got %q", err.Error())
	}

	_, err = reg.Invoke(context.Background(), "calculator", map[string]string{
		"operation": "modulo", "a": "1", "b": "2",
	})
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ToolExecutionError for unknown operation, got %v", err)
	}

	// Non-numeric operands are rejected before the tool runs.
	_, err = reg.Invoke(context.Background(), "calculator", map[string]string{
		"operation": "add", "a": "one", "b": "2",
	})
	var invalid *InvalidArgumentsError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidArgumentsError, got %v", err)
	}
}

func TestCurrentDateTool(t *testing.T) {
	reg := referenceRegistry(t)

	out, err := reg.Invoke(context.Background(), "current_date", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := time.Parse("2006-01-02", out); err != nil {
		t.Errorf("expected YYYY-MM-DD date, got %q", out)
	}
}

func TestWeatherTool(t *testing.T) {
	reg := referenceRegistry(t)

	out, err := reg.Invoke(context.Background(), "weather", map[string]string{"city": "San Francisco"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "sunny in San Francisco") {
		t.Errorf("expected San Francisco weather, got %q", out)
	}

	out, err = reg.Invoke(context.Background(), "weather", map[string]string{"city": "Reykjavik"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "no weather data for Reykjavik") {
		t.Errorf("expected miss message, got %q", out)
	}
}
