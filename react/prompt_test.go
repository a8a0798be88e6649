package react

import (
	"strings"
	"testing"
)

func TestBuildSystemPromptListsTools(t *testing.T) {
	reg := NewRegistry()
	if err := RegisterReferenceTools(reg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prompt := BuildSystemPrompt(reg)

	if !strings.Contains(prompt, "Available tools:") {
		t.Error("expected a tool listing section")
	}
	if !strings.Contains(prompt, "- search(query: string): Searches a knowledge base") {
		t.Errorf("expected search tool line, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- calculator(operation: string, a: number, b: number):") {
		t.Errorf("expected calculator tool line with typed params, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- current_date():") {
		t.Errorf("expected zero-parameter tool line, got:\n%s", prompt)
	}

	// Registration order: search comes before weather.
	if strings.Index(prompt, "- search(") > strings.Index(prompt, "- weather(") {
		t.Error("expected tools listed in registration order")
	}
}

func TestBuildSystemPromptFormatContract(t *testing.T) {
	prompt := BuildSystemPrompt(NewRegistry())

	for _, want := range []string{
		"Thought:",
		"Action:",
		"Final Answer:",
		"Always begin with a Thought.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}

	// No tools registered, so no tool listing.
	if strings.Contains(prompt, "Available tools:") {
		t.Error("expected no tool section for an empty registry")
	}
}

func TestBuildSystemPromptOptionalParams(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register(ToolDescriptor{
		Name:        "lookup",
		Description: "Looks things up.",
		Params: []Param{
			{Name: "key", Kind: KindString, Required: true},
			{Name: "limit", Kind: KindNumber},
		},
	}, echoTool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prompt := BuildSystemPrompt(reg)
	if !strings.Contains(prompt, "- lookup(key: string, limit: number (optional)): Looks things up.") {
		t.Errorf("expected optional marker on limit, got:\n%s", prompt)
	}
}
