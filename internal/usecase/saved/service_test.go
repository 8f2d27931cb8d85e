package saved

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"newsfeed/internal/domain"
)

type fakeRepo struct {
	items map[string]map[string]domain.SavedArticle
}

func (f *fakeRepo) Save(_ context.Context, userID string, saved domain.SavedArticle) error {
	if f.items == nil {
		f.items = make(map[string]map[string]domain.SavedArticle)
	}
	if f.items[userID] == nil {
		f.items[userID] = make(map[string]domain.SavedArticle)
	}
	f.items[userID][saved.Article.ID] = saved
	return nil
}

func (f *fakeRepo) List(_ context.Context, userID string) ([]domain.SavedArticle, error) {
	var out []domain.SavedArticle
	for _, item := range f.items[userID] {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeRepo) Remove(_ context.Context, userID, articleID string) error {
	delete(f.items[userID], articleID)
	return nil
}

func TestSaveListRemove(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, zerolog.Nop())
	base := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	step := 0
	svc.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	for _, id := range []string{"a", "b", "c"} {
		if _, err := svc.Save(context.Background(), "u", domain.Article{ID: id}); err != nil {
			t.Fatalf("не ожидали ошибку: %v", err)
		}
	}
	items, err := svc.List(context.Background(), "u")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(items) != 3 || items[0].Article.ID != "c" || items[2].Article.ID != "a" {
		t.Fatalf("unexpected order %+v", items)
	}

	if err := svc.Remove(context.Background(), "u", "b"); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	items, _ = svc.List(context.Background(), "u")
	if len(items) != 2 {
		t.Fatalf("ожидали 2 статьи, получили %d", len(items))
	}
}

func TestListEmptyIsNotNil(t *testing.T) {
	svc := NewService(&fakeRepo{}, zerolog.Nop())
	items, err := svc.List(context.Background(), "u")
	if err != nil || items == nil {
		t.Fatalf("ожидали пустой список, получили %v, %v", items, err)
	}
}

func TestSavedValidation(t *testing.T) {
	svc := NewService(&fakeRepo{}, zerolog.Nop())
	if _, err := svc.Save(context.Background(), "u", domain.Article{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := svc.Remove(context.Background(), "", "a"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSavedStorageDisabled(t *testing.T) {
	svc := NewService(nil, zerolog.Nop())
	if _, err := svc.Save(context.Background(), "u", domain.Article{ID: "a"}); !errors.Is(err, domain.ErrStorageDisabled) {
		t.Fatalf("expected ErrStorageDisabled, got %v", err)
	}
}
