package react

import "fmt"

// DefaultMaxObservationChars bounds how much of a tool result is fed back
// into the conversation. Oversized results keep their head and tail, which
// is where command output and document snippets carry most of their signal.
const DefaultMaxObservationChars = 8000

// truncateObservation caps an observation at maxChars, keeping the first and
// last halves around an elision marker. A non-positive maxChars disables
// truncation.
func truncateObservation(s string, maxChars int) string {
	if maxChars <= 0 || len(s) <= maxChars {
		return s
	}
	keep := maxChars / 2
	dropped := len(s) - 2*keep
	return fmt.Sprintf("%s\n... [%d chars truncated] ...\n%s", s[:keep], dropped, s[len(s)-keep:])
}
