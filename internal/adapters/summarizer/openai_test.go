package summarizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"newsfeed/internal/domain"
)

type fakeChat struct {
	text   string
	err    error
	system string
	user   string
}

func (f *fakeChat) Complete(_ context.Context, system, user string) (domain.Completion, error) {
	f.system = system
	f.user = user
	return domain.Completion{Text: f.text}, f.err
}

func (f *fakeChat) Configured() bool { return true }

func TestSummarizeUsesCompletion(t *testing.T) {
	chat := &fakeChat{text: " A short recap. "}
	s := NewLLM(chat, 0)
	got, err := s.Summarize(context.Background(), domain.SummaryRequest{Title: "T", Summary: "S", Content: "C"})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if got != "A short recap." {
		t.Fatalf("unexpected summary %q", got)
	}
	if chat.system != SystemPrompt {
		t.Fatalf("unexpected system prompt %q", chat.system)
	}
	if chat.user != "Title: T\n\nSummary: S\n\nContent: C" {
		t.Fatalf("unexpected user prompt %q", chat.user)
	}
}

func TestSummarizeFallsBackToRequestSummary(t *testing.T) {
	s := NewLLM(&fakeChat{text: "   "}, 0)
	got, err := s.Summarize(context.Background(), domain.SummaryRequest{Summary: "original"})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if got != "original" {
		t.Fatalf("expected fallback to request summary, got %q", got)
	}
}

func TestSummarizeWrapsError(t *testing.T) {
	upstream := &domain.UpstreamError{Provider: "llm", StatusCode: 402}
	s := NewLLM(&fakeChat{err: upstream}, 0)
	_, err := s.Summarize(context.Background(), domain.SummaryRequest{})
	var got *domain.UpstreamError
	if !errors.As(err, &got) || got.StatusCode != 402 {
		t.Fatalf("expected wrapped upstream error, got %v", err)
	}
}

func TestUserPromptPlaceholder(t *testing.T) {
	if p := UserPrompt(domain.SummaryRequest{Title: "T"}); !strings.HasSuffix(p, "Content: "+noContentPlaceholder) {
		t.Fatalf("expected placeholder, got %q", p)
	}
}

func TestUserPromptSendsFullContent(t *testing.T) {
	long := strings.Repeat("ж", 20000)
	p := UserPrompt(domain.SummaryRequest{Content: long})
	if strings.Count(p, "ж") != 20000 {
		t.Fatalf("ожидали полный текст статьи, получили %d символов", strings.Count(p, "ж"))
	}
}
