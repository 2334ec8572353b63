package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-docchat-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	answer   string
	err      error
	lastChat []Message
}

func (s *stubProvider) Chat(_ context.Context, history []Message, _ ...Option) (string, error) {
	s.lastChat = history
	return s.answer, s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	return s.Chat(ctx, []Message{{Role: "user", Content: prompt}}, opts...)
}

func TestGenerateAnswerBuildsGroundedPrompt(t *testing.T) {
	provider := &stubProvider{answer: "The report covers revenue."}
	g := NewAnswerGenerator(provider)

	passages := []store.Passage{
		{Title: "Annual Report", FileName: "report.pdf", Content: "Revenue grew 12%."},
	}
	history := []store.ChatTurn{
		{Role: store.RoleUser, Content: "earlier question"},
		{Role: store.RoleAssistant, Content: "earlier answer"},
	}

	res, err := g.GenerateAnswer(context.Background(), "what about revenue?", passages, history)
	require.NoError(t, err)
	assert.Equal(t, "The report covers revenue.", res.Answer)
	assert.True(t, res.ContextUsed)

	require.Len(t, provider.lastChat, 2)
	assert.Equal(t, "system", provider.lastChat[0].Role)

	userPrompt := provider.lastChat[1].Content
	assert.Contains(t, userPrompt, "Document 1: Annual Report")
	assert.Contains(t, userPrompt, "Source: report.pdf")
	assert.Contains(t, userPrompt, "Previous Conversation:")
	assert.Contains(t, userPrompt, "User: earlier question")
	assert.Contains(t, userPrompt, "Current Question: what about revenue?")
}

func TestGenerateAnswerWithoutContext(t *testing.T) {
	provider := &stubProvider{answer: "I don't know."}
	g := NewAnswerGenerator(provider)

	res, err := g.GenerateAnswer(context.Background(), "anything?", nil, nil)
	require.NoError(t, err)
	assert.False(t, res.ContextUsed)
	assert.Empty(t, res.Sources)
	assert.Contains(t, provider.lastChat[1].Content, "No relevant documents found.")
}

func TestGenerateAnswerHistoryWindow(t *testing.T) {
	provider := &stubProvider{answer: "ok"}
	g := NewAnswerGenerator(provider)

	var history []store.ChatTurn
	for i := 0; i < 10; i++ {
		role := store.RoleUser
		if i%2 == 1 {
			role = store.RoleAssistant
		}
		history = append(history, store.ChatTurn{Role: role, Content: strings.Repeat("x", 1) + string(rune('a'+i))})
	}

	_, err := g.GenerateAnswer(context.Background(), "q", nil, history)
	require.NoError(t, err)

	prompt := provider.lastChat[1].Content
	// Only the last 5 turns survive.
	assert.NotContains(t, prompt, "User: xa")
	assert.Contains(t, prompt, "Assistant: xj")
}

func TestGenerateAnswerPropagatesProviderError(t *testing.T) {
	provider := &stubProvider{err: errors.New("request timed out after 3 attempts")}
	g := NewAnswerGenerator(provider)

	_, err := g.GenerateAnswer(context.Background(), "q", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 attempts")
}

func TestExtractSourcesSnippetsAndDefaults(t *testing.T) {
	passages := []store.Passage{
		{Content: strings.Repeat("a", 250)},
		{Title: "Doc", FileName: "f.pdf", URL: "http://x", Content: "short"},
	}

	sources := extractSources(passages)
	require.Len(t, sources, 2)
	assert.Equal(t, "Unknown Document", sources[0].Title)
	assert.Equal(t, "#", sources[0].URL)
	assert.Len(t, sources[0].Snippet, 203) // 200 chars + ellipsis
	assert.Equal(t, "short", sources[1].Snippet)
}
