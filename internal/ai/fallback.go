package ai

import (
	"fmt"
	"strings"
)

// FallbackAnswer produces a deterministic, non-AI response from simple
// lexical checks against the query. It never fails and never returns an
// empty string.
func FallbackAnswer(query, docContext string) string {
	queryLower := strings.ToLower(query)

	switch {
	case containsAny(queryLower, "summary", "summarize", "what is", "about"):
		sentences := strings.SplitN(truncate(docContext, 500), ".", 4)
		if len(sentences) > 3 {
			sentences = sentences[:3]
		}
		return fmt.Sprintf("Based on the document content: %s...", strings.Join(sentences, "."))

	case containsAny(queryLower, "title", "name", "document"):
		return "I can see document content is available, but AI processing is currently unavailable. Please try again later when the service is restored."

	case containsAny(queryLower, "length", "size", "how long", "how many"):
		charCount := len(docContext)
		wordCount := len(strings.Fields(docContext))
		return fmt.Sprintf("Document statistics: approximately %d words and %d characters.", wordCount, charCount)

	default:
		return fmt.Sprintf("I can see your question %q relates to the document content, but AI processing is temporarily unavailable due to high demand. Please try again in a few minutes.", query)
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
