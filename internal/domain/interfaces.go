package domain

import (
	"context"
	"time"
)

// Classifier размечает статью по заголовку, описанию, длине текста и источнику.
type Classifier interface {
	Classify(title, description string, contentLength int, sourceName string) Classification
}

// NewsProvider отдаёт сырые статьи из агрегатора новостей.
type NewsProvider interface {
	TopHeadlines(ctx context.Context, country, category string, pageSize, page int) ([]RawArticle, error)
	Everything(ctx context.Context, query string, pageSize, page int) ([]RawArticle, error)
	Configured() bool
}

// Completion ответ LLM.
type Completion struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ChatCompleter выполняет chat completion с системной инструкцией.
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string) (Completion, error)
	Configured() bool
}

// SpeechSynthesizer озвучивает текст и возвращает аудио.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	Configured() bool
}

// HistoryRepo хранит историю чтения.
type HistoryRepo interface {
	// UpsertRead возвращает идентификатор сохранённой записи: при повторном чтении это id существующей строки.
	UpsertRead(ctx context.Context, item ReadingHistoryItem) (string, error)
	ListSince(ctx context.Context, userID string, since time.Time) ([]ReadingHistoryItem, error)
	DeleteForUser(ctx context.Context, userID string) error
}

// SavedRepo хранит сохранённые статьи.
type SavedRepo interface {
	Save(ctx context.Context, userID string, saved SavedArticle) error
	List(ctx context.Context, userID string) ([]SavedArticle, error)
	Remove(ctx context.Context, userID, articleID string) error
}
