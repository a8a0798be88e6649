package gateway

import "context"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry in the conversation supplied to the model. Messages
// are never mutated after creation; their insertion order is the model's
// entire context.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage creates a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage creates a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage creates an assistant-role message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ToolMessage creates a tool-role message carrying an observation.
func ToolMessage(content string) Message {
	return Message{Role: RoleTool, Content: content}
}

// Gateway produces the model's next completion for an ordered conversation.
// Implementations own transport, authentication, and provider quirks; the
// reasoning loop treats them as opaque and receives one by reference at
// construction time. There is no package-level default gateway.
//
// Complete blocks until the model responds, the context is cancelled, or the
// backend fails. Failures are reported as typed errors from this package so
// callers can classify them (see IsRetryable).
type Gateway interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// GatewayFunc adapts a plain function to the Gateway interface.
type GatewayFunc func(ctx context.Context, messages []Message) (string, error)

// Complete calls f.
func (f GatewayFunc) Complete(ctx context.Context, messages []Message) (string, error) {
	return f(ctx, messages)
}

// ContextSizer is implemented by gateways that know the context window of
// the model they talk to. The reasoning loop uses it to warn when the
// conversation approaches the window limit.
type ContextSizer interface {
	ContextWindow() int
}
