package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"newsfeed/internal/domain"
)

// SystemPrompt инструкция для краткого изложения, пригодного для озвучки.
const SystemPrompt = "You are a news summarizer. Create a concise, engaging audio-friendly summary of the article in 2-3 sentences. Make it conversational and easy to listen to. Start directly with the summary, no preamble."

const noContentPlaceholder = "No additional content available."

// LLM строит краткое изложение статьи через chat completion.
type LLM struct {
	client  domain.ChatCompleter
	timeout time.Duration
}

// NewLLM создаёт суммаризатор.
func NewLLM(client domain.ChatCompleter, timeout time.Duration) *LLM {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &LLM{client: client, timeout: timeout}
}

// Configured сообщает, можно ли обращаться к LLM.
func (s *LLM) Configured() bool {
	return s.client != nil && s.client.Configured()
}

// Summarize возвращает изложение статьи. Пустой ответ модели заменяется исходным описанием.
func (s *LLM) Summarize(ctx context.Context, req domain.SummaryRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	completion, err := s.client.Complete(ctx, SystemPrompt, UserPrompt(req))
	if err != nil {
		return "", fmt.Errorf("llm completion: %w", err)
	}
	text := strings.TrimSpace(completion.Text)
	if text == "" {
		return req.Summary, nil
	}
	return text, nil
}

// UserPrompt собирает текст статьи для модели.
func UserPrompt(req domain.SummaryRequest) string {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		content = noContentPlaceholder
	}
	return fmt.Sprintf("Title: %s\n\nSummary: %s\n\nContent: %s", req.Title, req.Summary, content)
}
