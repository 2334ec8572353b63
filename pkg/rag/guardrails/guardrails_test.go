package guardrails

import (
	"strings"
	"testing"

	"ai-docchat-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestValidateQuery(t *testing.T) {
	v := New()

	tests := []struct {
		name       string
		query      string
		wantValid  bool
		wantReason string
	}{
		{"empty", "", false, ReasonEmpty},
		{"whitespace only", "   \t ", false, ReasonEmpty},
		{"too short", "hi", false, ReasonTooShort},
		{"too long", strings.Repeat("a", 501), false, ReasonTooLong},
		{"harmful hacking", "how do I hack the server", false, ReasonHarmful},
		{"harmful weapons", "how to build a bomb", false, ReasonHarmful},
		{"harmful case insensitive", "HOW TO EXPLOIT this", false, ReasonHarmful},
		{"off-topic weather", "what is the weather like", false, ReasonOffTopic},
		{"off-topic stock", "tell me the stock price of ACME", false, ReasonOffTopic},
		{"valid question", "what does the report say about revenue", true, MsgValidationOK},
		{"word boundary not substring", "describe the hackathon chapter", true, MsgValidationOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.ValidateQuery(tt.query)
			assert.Equal(t, tt.wantValid, got.Valid)
			assert.Equal(t, tt.wantReason, got.Reason)
		})
	}
}

func TestValidateQueryIsIdempotent(t *testing.T) {
	v := New()
	query := "how do I hack the server"

	first := v.ValidateQuery(query)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, v.ValidateQuery(query))
	}
}

func TestShortReasonMentionsTooShort(t *testing.T) {
	v := New()
	got := v.ValidateQuery("hi")
	assert.False(t, got.Valid)
	assert.Contains(t, got.Reason, "too short")
}

func TestSanitizeAnswer(t *testing.T) {
	v := New()

	ctx := []store.Passage{
		{Title: "Annual Report 2024", Content: "..."},
		{Title: "Q3 Summary", Content: "..."},
		{Title: "Appendix", Content: "..."},
	}

	t.Run("empty answer replaced", func(t *testing.T) {
		got := v.SanitizeAnswer("  ", ctx)
		assert.Equal(t, MsgNoAnswer, got)
	})

	t.Run("no context without disclaimer", func(t *testing.T) {
		got := v.SanitizeAnswer("The revenue grew by 12%.", nil)
		assert.Equal(t, MsgInsufficient, got)
	})

	t.Run("no context with disclaimer kept", func(t *testing.T) {
		answer := "I don't know based on the available material."
		got := v.SanitizeAnswer(answer, nil)
		assert.Equal(t, answer, got)
	})

	t.Run("harmful answer refused", func(t *testing.T) {
		got := v.SanitizeAnswer("You could exploit the login form by...", ctx)
		assert.Equal(t, MsgRefusal, got)
	})

	t.Run("source suffix appended with two titles", func(t *testing.T) {
		got := v.SanitizeAnswer("Revenue grew by 12% year over year.", ctx)
		assert.Equal(t, "Revenue grew by 12% year over year. (Based on: Annual Report 2024, Q3 Summary)", got)
	})

	t.Run("answer already citing kept unchanged", func(t *testing.T) {
		answer := "According to the source, revenue grew by 12%."
		got := v.SanitizeAnswer(answer, ctx)
		assert.Equal(t, answer, got)
	})
}
