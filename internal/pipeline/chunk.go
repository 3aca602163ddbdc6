package pipeline

import "strings"

// SplitChunks cuts text into segments of at most maxChars characters,
// breaking only on line boundaries. A single line longer than the limit is
// emitted whole rather than truncated. Joining the chunks with "\n"
// reproduces the input exactly.
func SplitChunks(text string, maxChars int) []string {
	if maxChars <= 0 || len(text) <= maxChars {
		return []string{text}
	}

	lines := strings.Split(text, "\n")
	chunks := make([]string, 0, len(text)/maxChars+1)
	var current strings.Builder
	started := false

	for _, line := range lines {
		if started && current.Len()+1+len(line) > maxChars {
			chunks = append(chunks, current.String())
			current.Reset()
			started = false
		}
		if started {
			current.WriteString("\n")
		}
		current.WriteString(line)
		started = true
	}
	if started {
		chunks = append(chunks, current.String())
	}

	if len(chunks) == 0 {
		return []string{text}
	}
	return chunks
}
