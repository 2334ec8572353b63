package llm

import (
	"context"
	"fmt"
	"strings"

	"ai-docchat-be/pkg/store"
)

const systemPrompt = `You are a helpful AI assistant that answers questions based on provided document context.

IMPORTANT GUIDELINES:
1. Base your answers ONLY on the provided context documents
2. If the context doesn't contain enough information to answer the question, say "I don't know" or "I don't have enough information"
3. Always cite your sources by mentioning the document name
4. Provide clear, concise, and accurate answers
5. If asked about something not in the context, politely explain that you can only answer based on the provided documents
6. Maintain a helpful and professional tone
7. If the question is unsafe, harmful, or inappropriate, refuse to answer and explain why

Remember: Your knowledge is limited to the provided context documents. Do not use external knowledge or make assumptions.`

// historyWindow is how many recent turns make it into the prompt.
const historyWindow = 5

// snippetLen bounds the citation snippet taken from each passage.
const snippetLen = 200

// Result is a generated answer together with its citations.
type Result struct {
	Answer      string
	Sources     []store.Source
	ContextUsed bool
}

// AnswerGenerator turns a query plus ranked context into a grounded answer
// with citations. The underlying provider owns the retry policy; this layer
// only builds prompts and extracts sources.
type AnswerGenerator struct {
	provider  LLMProvider
	maxTokens int
}

func NewAnswerGenerator(provider LLMProvider) *AnswerGenerator {
	return &AnswerGenerator{
		provider:  provider,
		maxTokens: 300,
	}
}

// GenerateAnswer produces the answer for a query grounded in the given
// passages, with the recent conversation as additional context.
func (g *AnswerGenerator) GenerateAnswer(ctx context.Context, query string, passages []store.Passage, history []store.ChatTurn) (*Result, error) {
	userPrompt := buildUserPrompt(query, passages, history)

	answer, err := g.provider.Chat(ctx,
		[]Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		WithTemperature(0.3),
		WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		return nil, fmt.Errorf("answer generation: %w", err)
	}

	return &Result{
		Answer:      answer,
		Sources:     extractSources(passages),
		ContextUsed: len(passages) > 0,
	}, nil
}

func buildUserPrompt(query string, passages []store.Passage, history []store.ChatTurn) string {
	var b strings.Builder

	if conv := buildConversation(history); conv != "" {
		b.WriteString("Previous Conversation:\n")
		b.WriteString(conv)
		b.WriteString("\n\n")
	}

	b.WriteString("Context Documents:\n")
	if ctx := buildContextBlock(passages); ctx != "" {
		b.WriteString(ctx)
	} else {
		b.WriteString("No relevant documents found.")
	}

	b.WriteString("\n\nCurrent Question: ")
	b.WriteString(query)
	b.WriteString("\n\nPlease provide a helpful answer based on the context documents above. If the context doesn't contain relevant information, please say so clearly.")

	return b.String()
}

func buildContextBlock(passages []store.Passage) string {
	if len(passages) == 0 {
		return ""
	}

	parts := make([]string, 0, len(passages))
	for i, p := range passages {
		title := p.Title
		if title == "" {
			title = "Unknown"
		}
		fileName := p.FileName
		if fileName == "" {
			fileName = "Unknown"
		}
		parts = append(parts, fmt.Sprintf("Document %d: %s\nSource: %s\nContent: %s\n---", i+1, title, fileName, p.Content))
	}
	return strings.Join(parts, "\n\n")
}

func buildConversation(history []store.ChatTurn) string {
	if len(history) == 0 {
		return ""
	}
	recent := history
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}

	lines := make([]string, 0, len(recent))
	for _, turn := range recent {
		lines = append(lines, capitalize(turn.Role)+": "+turn.Content)
	}
	return strings.Join(lines, "\n")
}

func extractSources(passages []store.Passage) []store.Source {
	sources := make([]store.Source, 0, len(passages))
	for _, p := range passages {
		title := p.Title
		if title == "" {
			title = "Unknown Document"
		}
		fileName := p.FileName
		if fileName == "" {
			fileName = "Unknown File"
		}
		url := p.URL
		if url == "" {
			url = "#"
		}
		sources = append(sources, store.Source{
			Title:    title,
			FileName: fileName,
			URL:      url,
			Snippet:  snippet(p.Content),
		})
	}
	return sources
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetLen {
		return content
	}
	return string(runes[:snippetLen]) + "..."
}
