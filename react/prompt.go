package react

import (
	"fmt"
	"strings"
)

// BuildSystemPrompt renders the default system prompt: what the agent is,
// which tools it may call, and the exact step format the parser accepts.
// Tools appear in registration order.
func BuildSystemPrompt(reg *Registry) string {
	var b strings.Builder

	b.WriteString("You are an agent that solves tasks by reasoning step by step and calling tools.\n\n")

	descriptors := reg.Schema()
	if len(descriptors) > 0 {
		b.WriteString("Available tools:\n")
		for _, d := range descriptors {
			fmt.Fprintf(&b, "- %s(%s): %s\n", d.Name, renderParams(d.Params), d.Description)
		}
		b.WriteString("\n")
	}

	b.WriteString("On each turn, respond in exactly one of these two formats.\n\n")
	b.WriteString("To call a tool:\n")
	b.WriteString("Thought: <your reasoning about what to do next>\n")
	b.WriteString("Action: <tool_name>(<arg>=\"<value>\", ...)\n\n")
	b.WriteString("To finish the task:\n")
	b.WriteString("Thought: <your reasoning about why the task is complete>\n")
	b.WriteString("Final Answer: <your answer>\n\n")
	b.WriteString("Always begin with a Thought. Every argument value must be quoted. ")
	b.WriteString("After each Action you will receive an Observation with the result. ")
	b.WriteString("Give a Final Answer as soon as you have enough information.")

	return b.String()
}

func renderParams(params []Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		part := fmt.Sprintf("%s: %s", p.Name, p.Kind)
		if !p.Required {
			part += " (optional)"
		}
		parts[i] = part
	}
	return strings.Join(parts, ", ")
}
