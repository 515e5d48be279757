package ai

import (
	"strings"
	"testing"
)

func TestFallbackAnswer(t *testing.T) {
	doc := "First sentence. Second sentence. Third sentence. Fourth sentence."

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"summary branch", "Give me a SUMMARY of this", "Based on the document content: First sentence. Second sentence. Third sentence..."},
		{"title branch", "document title please", "I can see document content"},
		{"length branch", "how long is it", "Document statistics:"},
		{"default branch", "explain the methodology", "temporarily unavailable"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FallbackAnswer(tc.query, doc)
			if got == "" {
				t.Fatal("fallback answer must never be empty")
			}
			if !strings.Contains(got, tc.want) {
				t.Fatalf("FallbackAnswer(%q) = %q, want substring %q", tc.query, got, tc.want)
			}
		})
	}
}

func TestFallbackAnswerLengthCounts(t *testing.T) {
	got := FallbackAnswer("how many words?", "one two three")
	if !strings.Contains(got, "3 words") || !strings.Contains(got, "13 characters") {
		t.Fatalf("unexpected statistics: %q", got)
	}
}
