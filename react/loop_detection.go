package react

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultRepetitionWindow is the number of consecutive identical action
// steps that counts as a stuck run.
const DefaultRepetitionWindow = 3

// repetitionDetector watches the stream of action steps and reports when
// the last window of them declared identical tool calls. Identity covers
// tool names and argument values; a step that differs in either resets the
// streak.
type repetitionDetector struct {
	window     int
	signatures []string
}

func newRepetitionDetector(window int) *repetitionDetector {
	if window < 1 {
		window = DefaultRepetitionWindow
	}
	return &repetitionDetector{window: window}
}

// observe records one step's action set and reports whether the run is now
// repeating: the window is full and every signature in it is identical. The
// caller checks before dispatch, so the step that completes the streak is
// never executed.
func (d *repetitionDetector) observe(calls []ToolCall) bool {
	d.signatures = append(d.signatures, stepSignature(calls))
	if len(d.signatures) > d.window {
		d.signatures = d.signatures[len(d.signatures)-d.window:]
	}
	if len(d.signatures) < d.window {
		return false
	}
	first := d.signatures[0]
	for _, sig := range d.signatures[1:] {
		if sig != first {
			return false
		}
	}
	return true
}

// stepSignature fingerprints an action set. JSON encoding sorts argument
// keys, so two calls with the same arguments hash identically regardless of
// map order.
func stepSignature(calls []ToolCall) string {
	names := make([]string, len(calls))
	for i, c := range calls {
		names[i] = c.Name
	}
	payload, _ := json.Marshal(calls)
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("%s:%x", strings.Join(names, "+"), sum[:8])
}
