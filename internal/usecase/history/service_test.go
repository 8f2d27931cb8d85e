package history

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"newsfeed/internal/domain"
)

type fakeRepo struct {
	items   map[string]domain.ReadingHistoryItem
	since   time.Time
	deleted string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]domain.ReadingHistoryItem)}
}

func (f *fakeRepo) UpsertRead(_ context.Context, item domain.ReadingHistoryItem) (string, error) {
	key := item.UserID + "/" + item.ArticleID
	if existing, ok := f.items[key]; ok {
		item.ID = existing.ID
	}
	f.items[key] = item
	return item.ID, nil
}

func (f *fakeRepo) ListSince(_ context.Context, userID string, since time.Time) ([]domain.ReadingHistoryItem, error) {
	f.since = since
	var out []domain.ReadingHistoryItem
	for _, item := range f.items {
		if item.UserID == userID && !item.ReadAt.Before(since) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeRepo) DeleteForUser(_ context.Context, userID string) error {
	f.deleted = userID
	for k, item := range f.items {
		if item.UserID == userID {
			delete(f.items, k)
		}
	}
	return nil
}

func TestTrackUpsertsByArticle(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, zerolog.Nop())
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	first, err := svc.Track(context.Background(), "u1", domain.Article{ID: "a1", Title: "One", ReadTimeMinutes: 3})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if first.ID == "" {
		t.Fatal("ожидали сгенерированный id")
	}
	now = now.Add(time.Hour)
	second, err := svc.Track(context.Background(), "u1", domain.Article{ID: "a1", Title: "One", ReadTimeMinutes: 3})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("повторное чтение должно вернуть id существующей записи %q, получили %q", first.ID, second.ID)
	}
	if len(repo.items) != 1 {
		t.Fatalf("ожидали одну запись, получили %d", len(repo.items))
	}
	if got := repo.items["u1/a1"]; !got.ReadAt.Equal(now) || got.ID != first.ID {
		t.Fatalf("запись не обновлена: %+v", got)
	}
}

func TestTrackValidates(t *testing.T) {
	svc := NewService(newFakeRepo(), zerolog.Nop())
	if _, err := svc.Track(context.Background(), "", domain.Article{ID: "a"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Track(context.Background(), "u", domain.Article{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListUsesWeekWindowNewestFirst(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, zerolog.Nop())
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	repo.items["u/old"] = domain.ReadingHistoryItem{UserID: "u", ArticleID: "old", ReadAt: now.Add(-8 * 24 * time.Hour)}
	repo.items["u/a"] = domain.ReadingHistoryItem{UserID: "u", ArticleID: "a", ReadAt: now.Add(-2 * time.Hour)}
	repo.items["u/b"] = domain.ReadingHistoryItem{UserID: "u", ArticleID: "b", ReadAt: now.Add(-time.Hour)}
	repo.items["x/c"] = domain.ReadingHistoryItem{UserID: "x", ArticleID: "c", ReadAt: now}

	items, err := svc.List(context.Background(), "u")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if !repo.since.Equal(now.Add(-Window)) {
		t.Fatalf("unexpected window start %v", repo.since)
	}
	if len(items) != 2 || items[0].ArticleID != "b" || items[1].ArticleID != "a" {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestComputeStats(t *testing.T) {
	items := []domain.ReadingHistoryItem{
		{Category: "technology", Sentiment: domain.SentimentPositive, ReadTimeMinutes: 2},
		{Category: "technology", Sentiment: domain.SentimentNegative, ReadTimeMinutes: 4},
		{Category: "sports", Sentiment: domain.SentimentControversial, ReadTimeMinutes: 3},
		{Category: "", ReadTimeMinutes: 3},
		{Category: "business", Sentiment: domain.SentimentNeutral, ReadTimeMinutes: 3},
	}
	stats := ComputeStats(items)
	if stats.ArticlesReadThisWeek != 5 {
		t.Fatalf("unexpected count %d", stats.ArticlesReadThisWeek)
	}
	if stats.AverageReadTime != 3 {
		t.Fatalf("unexpected average %v", stats.AverageReadTime)
	}
	want := []string{"Technology", "Business", "General"}
	if !reflect.DeepEqual(stats.TopCategories, want) {
		t.Fatalf("top categories = %v, want %v", stats.TopCategories, want)
	}
	b := stats.SentimentBreakdown
	if b.Positive != 1 || b.Negative != 1 || b.Controversial != 1 || b.Neutral != 2 {
		t.Fatalf("unexpected breakdown %+v", b)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	if stats.ArticlesReadThisWeek != 0 || stats.AverageReadTime != 0 || stats.TopCategories == nil {
		t.Fatalf("unexpected empty stats %+v", stats)
	}
}

func TestClear(t *testing.T) {
	repo := newFakeRepo()
	repo.items["u/a"] = domain.ReadingHistoryItem{UserID: "u", ArticleID: "a"}
	svc := NewService(repo, zerolog.Nop())
	if err := svc.Clear(context.Background(), "u"); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if repo.deleted != "u" || len(repo.items) != 0 {
		t.Fatalf("история не очищена")
	}
}

func TestStorageDisabled(t *testing.T) {
	svc := NewService(nil, zerolog.Nop())
	if _, err := svc.List(context.Background(), "u"); !errors.Is(err, domain.ErrStorageDisabled) {
		t.Fatalf("expected ErrStorageDisabled, got %v", err)
	}
	if err := svc.Clear(context.Background(), "u"); !errors.Is(err, domain.ErrStorageDisabled) {
		t.Fatalf("expected ErrStorageDisabled, got %v", err)
	}
}
