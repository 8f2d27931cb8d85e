package bookmarks

import (
	"encoding/json"
	"testing"
	"time"

	"newsfeed/internal/domain"
)

func TestKey(t *testing.T) {
	if got := Key("user-1"); got != "saved:user-1" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestDecodeAll(t *testing.T) {
	item := domain.SavedArticle{
		Article: domain.Article{ID: "a1", Title: "Title", Sentiment: domain.SentimentPositive},
		SavedAt: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
	}
	raw, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	items, err := decodeAll(map[string]string{"a1": string(raw)})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(items) != 1 || items[0].Article.ID != "a1" || !items[0].SavedAt.Equal(item.SavedAt) {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestDecodeAllRejectsGarbage(t *testing.T) {
	if _, err := decodeAll(map[string]string{"a1": "{"}); err == nil {
		t.Fatal("ожидали ошибку декодирования")
	}
}
