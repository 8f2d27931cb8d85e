package saved

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"newsfeed/internal/domain"
)

// Service управляет сохранёнными статьями пользователя.
type Service struct {
	repo domain.SavedRepo
	log  zerolog.Logger
	now  func() time.Time
}

// NewService создаёт сервис закладок. repo может быть nil, тогда операции возвращают ErrStorageDisabled.
func NewService(repo domain.SavedRepo, logger zerolog.Logger) *Service {
	return &Service{repo: repo, log: logger, now: time.Now}
}

// Save сохраняет статью. Повторное сохранение перезаписывает запись.
func (s *Service) Save(ctx context.Context, userID string, article domain.Article) (domain.SavedArticle, error) {
	if s.repo == nil {
		return domain.SavedArticle{}, domain.ErrStorageDisabled
	}
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(article.ID) == "" {
		return domain.SavedArticle{}, fmt.Errorf("user id and article id are required: %w", domain.ErrInvalidInput)
	}
	item := domain.SavedArticle{Article: article, SavedAt: s.now().UTC()}
	if err := s.repo.Save(ctx, userID, item); err != nil {
		return domain.SavedArticle{}, fmt.Errorf("save article: %w", err)
	}
	return item, nil
}

// List возвращает сохранённые статьи, новые первыми.
func (s *Service) List(ctx context.Context, userID string) ([]domain.SavedArticle, error) {
	if s.repo == nil {
		return nil, domain.ErrStorageDisabled
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id is required: %w", domain.ErrInvalidInput)
	}
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].SavedAt.After(items[j].SavedAt) })
	if items == nil {
		items = []domain.SavedArticle{}
	}
	return items, nil
}

// Remove удаляет статью из сохранённых.
func (s *Service) Remove(ctx context.Context, userID, articleID string) error {
	if s.repo == nil {
		return domain.ErrStorageDisabled
	}
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(articleID) == "" {
		return fmt.Errorf("user id and article id are required: %w", domain.ErrInvalidInput)
	}
	if err := s.repo.Remove(ctx, userID, articleID); err != nil {
		return fmt.Errorf("remove saved: %w", err)
	}
	s.log.Debug().Str("user_id", userID).Str("article_id", articleID).Msg("saved: статья удалена")
	return nil
}
