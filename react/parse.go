package react

import (
	"regexp"
	"strings"
)

// OutcomeKind classifies what a model completion turned out to be.
type OutcomeKind int

const (
	// OutcomeAction means the step declared one or more tool calls.
	OutcomeAction OutcomeKind = iota
	// OutcomeFinalAnswer means the step terminated the run with an answer.
	OutcomeFinalAnswer
	// OutcomeMalformed means the completion violated the step format.
	OutcomeMalformed
)

// ParseOutcome is the structured reading of one model completion.
type ParseOutcome struct {
	Kind        OutcomeKind
	Thought     string
	Actions     []ToolCall
	FinalAnswer string
	Err         *ParseError
}

var (
	thoughtRe = regexp.MustCompile(`(?m)^[ \t]*Thought:[ \t]*(.*)$`)
	actionRe  = regexp.MustCompile(`(?m)^[ \t]*Action:[ \t]*([A-Za-z_][A-Za-z0-9_]*)\s*\((.*)\)[ \t]*$`)
	finalRe   = regexp.MustCompile(`(?ms)^[ \t]*Final Answer:[ \t]*(.+)`)
	argPairRe = regexp.MustCompile(`(\w+)\s*=\s*"([^"]*)"`)
)

// ParseStep reads a model completion against the step format. Every
// completion must open with a Thought line. A Final Answer terminates the
// step and wins over any Action lines in the same completion. Otherwise each
// Action line contributes one tool call, with arguments given as
// key="value" pairs.
func ParseStep(text string) ParseOutcome {
	thought := ""
	if m := thoughtRe.FindStringSubmatch(text); m != nil {
		thought = strings.TrimSpace(m[1])
	}
	if thought == "" {
		return malformed("missing Thought line")
	}

	if m := finalRe.FindStringSubmatch(text); m != nil {
		return ParseOutcome{
			Kind:        OutcomeFinalAnswer,
			Thought:     thought,
			FinalAnswer: strings.TrimSpace(m[1]),
		}
	}

	matches := actionRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return malformed("no Action or Final Answer line")
	}

	calls := make([]ToolCall, 0, len(matches))
	for _, m := range matches {
		name, rawArgs := m[1], strings.TrimSpace(m[2])
		args, ok := parseArgs(rawArgs)
		if !ok {
			return malformed("invalid arguments for action " + name)
		}
		calls = append(calls, ToolCall{Name: name, Arguments: args})
	}
	return ParseOutcome{Kind: OutcomeAction, Thought: thought, Actions: calls}
}

// parseArgs reads key="value" pairs from the text between an action's
// parentheses. Empty text means a zero-argument call. Non-empty text that
// yields no pairs is a format violation, not an empty argument list.
func parseArgs(raw string) (map[string]string, bool) {
	if raw == "" {
		return nil, true
	}
	pairs := argPairRe.FindAllStringSubmatch(raw, -1)
	if len(pairs) == 0 {
		return nil, false
	}
	args := make(map[string]string, len(pairs))
	for _, p := range pairs {
		args[p[1]] = p[2]
	}
	return args, true
}

func malformed(reason string) ParseOutcome {
	return ParseOutcome{Kind: OutcomeMalformed, Err: &ParseError{Reason: reason}}
}
