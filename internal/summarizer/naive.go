package summarizer

import (
	"fmt"
	"strings"
)

// naiveSummary is the last-resort summarizer: the first three sentences of
// the text, or a word-count note when the text has no sentence structure.
func naiveSummary(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "No content available for summary"
	}

	var sentences []string
	for _, part := range strings.Split(trimmed, ".") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sentences = append(sentences, part)
		if len(sentences) == 3 {
			break
		}
	}

	if len(sentences) == 0 {
		return fmt.Sprintf("Document contains %d words of content.", countWords(trimmed))
	}

	return strings.Join(sentences, ". ") + "."
}
