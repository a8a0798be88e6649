package react

import "github.com/h9-tec/reagent/gateway"

// DefaultWindowSize bounds the conversation view handed to the model when a
// run does not configure one.
const DefaultWindowSize = 10

// Memory is the ordered message log for one run. The full history is kept
// for tracing and debugging; WindowView bounds what the model sees. Each
// run owns its Memory exclusively, so Memory needs no locking.
type Memory struct {
	window   int
	messages []gateway.Message
}

// NewMemory creates an empty memory. Window sizes below 1 fall back to
// DefaultWindowSize.
func NewMemory(windowSize int) *Memory {
	if windowSize < 1 {
		windowSize = DefaultWindowSize
	}
	return &Memory{window: windowSize}
}

// WindowSize returns the configured window size.
func (m *Memory) WindowSize() int { return m.window }

// Append adds a message to the tail of the full history. Messages are never
// dropped from the full history; only WindowView truncates.
func (m *Memory) Append(message gateway.Message) {
	m.messages = append(m.messages, message)
}

// WindowView returns the messages the model should see: the system message
// (when the history starts with one) followed by the most recent
// windowSize-1 other messages. Without a leading system message, simply the
// most recent windowSize messages. The result is a copy.
func (m *Memory) WindowView() []gateway.Message {
	if len(m.messages) == 0 {
		return nil
	}
	if m.messages[0].Role != gateway.RoleSystem {
		return tail(m.messages, m.window)
	}

	rest := tail(m.messages[1:], m.window-1)
	view := make([]gateway.Message, 0, len(rest)+1)
	view = append(view, m.messages[0])
	return append(view, rest...)
}

func tail(messages []gateway.Message, n int) []gateway.Message {
	if n < 0 {
		n = 0
	}
	if len(messages) > n {
		messages = messages[len(messages)-n:]
	}
	out := make([]gateway.Message, len(messages))
	copy(out, messages)
	return out
}

// Reset clears the history. When preserveSystem is true and the history
// began with a system message, the memory is re-seeded with that message.
func (m *Memory) Reset(preserveSystem bool) {
	if preserveSystem && len(m.messages) > 0 && m.messages[0].Role == gateway.RoleSystem {
		m.messages = []gateway.Message{m.messages[0]}
		return
	}
	m.messages = nil
}

// History returns a copy of the full message log.
func (m *Memory) History() []gateway.Message {
	out := make([]gateway.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Len returns the number of messages in the full history.
func (m *Memory) Len() int { return len(m.messages) }

// MemoryStats summarizes a memory's occupancy.
type MemoryStats struct {
	Total    int                  `json:"total"`
	Windowed int                  `json:"windowed"`
	PerRole  map[gateway.Role]int `json:"per_role"`
}

// Stats reports counts for the full history and the current window view.
func (m *Memory) Stats() MemoryStats {
	stats := MemoryStats{
		Total:    len(m.messages),
		Windowed: len(m.WindowView()),
		PerRole:  make(map[gateway.Role]int),
	}
	for _, msg := range m.messages {
		stats.PerRole[msg.Role]++
	}
	return stats
}
