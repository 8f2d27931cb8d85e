package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sdk "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"newsfeed/internal/domain"
	"newsfeed/internal/infra/metrics"
)

const (
	defaultBaseURL = "https://ai.gateway.lovable.dev/v1/"
	defaultModel   = "google/gemini-2.5-flash"
)

// Client выполняет Chat Completions запросы к OpenAI-совместимому шлюзу.
type Client struct {
	sdk    sdk.Client
	apiKey string
	model  string
}

var _ domain.ChatCompleter = (*Client)(nil)

// NewClient создаёт клиента. Повторы отключены: ошибки квоты отдаются вызывающему как есть.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := sdk.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	)
	return &Client{sdk: client, apiKey: apiKey, model: model}
}

// Configured сообщает, задан ли ключ.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Complete вызывает /chat/completions с системной инструкцией и одним сообщением пользователя.
func (c *Client) Complete(ctx context.Context, system, user string) (domain.Completion, error) {
	if c.apiKey == "" {
		return domain.Completion{}, domain.MissingCredential("LLM_API_KEY")
	}

	start := time.Now()
	resp, err := c.sdk.Chat.Completions.New(ctx, sdk.ChatCompletionNewParams{
		Model: sdk.ChatModel(c.model),
		Messages: []sdk.ChatCompletionMessageParamUnion{
			sdk.SystemMessage(system),
			sdk.UserMessage(user),
		},
	})
	if err != nil {
		var apiErr *sdk.Error
		if errors.As(err, &apiErr) {
			upstream := &domain.UpstreamError{Provider: "llm", StatusCode: apiErr.StatusCode, Message: apiErr.Message}
			metrics.ObserveNetworkRequest("llm", "chat_completions", c.model, start, upstream)
			return domain.Completion{}, upstream
		}
		metrics.ObserveNetworkRequest("llm", "chat_completions", c.model, start, err)
		return domain.Completion{}, fmt.Errorf("llm: chat completion: %w", err)
	}
	metrics.ObserveNetworkRequest("llm", "chat_completions", c.model, start, nil)

	out := domain.Completion{
		Model:            c.model,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}
	if len(resp.Choices) > 0 {
		out.Text = strings.TrimSpace(resp.Choices[0].Message.Content)
	}
	metrics.ObserveLLMGeneration(c.model, time.Since(start), out.PromptTokens, out.CompletionTokens, out.TotalTokens)
	return out, nil
}
