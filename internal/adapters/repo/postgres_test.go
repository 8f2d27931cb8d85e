package repo

import (
	"strings"
	"testing"
	"time"

	"newsfeed/internal/domain"
)

func TestUpsertReadQuery(t *testing.T) {
	item := domain.ReadingHistoryItem{
		ID:              "0b6f1f7e-4d0a-4a7b-9d5e-9a8c2f1d3e4b",
		UserID:          "u1",
		ArticleID:       "a1",
		Title:           "Title",
		Category:        "technology",
		Sentiment:       domain.SentimentPositive,
		ReadTimeMinutes: 4,
		ReadAt:          time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
	}
	query, args, err := upsertReadQuery(item)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if !strings.HasPrefix(query, "INSERT INTO reading_history") {
		t.Fatalf("unexpected query %q", query)
	}
	if !strings.Contains(query, "$10") || strings.Contains(query, "?") {
		t.Fatalf("ожидали плейсхолдеры $N, получили %q", query)
	}
	if !strings.Contains(query, "ON CONFLICT (user_id, article_id) DO UPDATE") {
		t.Fatalf("ожидали upsert, получили %q", query)
	}
	if !strings.HasSuffix(query, "RETURNING id::text") {
		t.Fatalf("ожидали возврат id сохранённой строки, получили %q", query)
	}
	if len(args) != 10 {
		t.Fatalf("ожидали 10 аргументов, получили %d", len(args))
	}
	if src := args[4]; src != nullable("") {
		t.Fatalf("пустой источник должен стать NULL, получили %#v", src)
	}
}

func TestListSinceQuery(t *testing.T) {
	since := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)
	query, args, err := listSinceQuery("u1", since)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if !strings.Contains(query, "WHERE user_id = $1 AND read_at >= $2") {
		t.Fatalf("unexpected where clause %q", query)
	}
	if !strings.HasSuffix(query, "ORDER BY read_at DESC") {
		t.Fatalf("unexpected order %q", query)
	}
	if len(args) != 2 || args[0] != "u1" || args[1] != since {
		t.Fatalf("unexpected args %v", args)
	}
}
