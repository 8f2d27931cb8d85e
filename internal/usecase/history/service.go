package history

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"newsfeed/internal/domain"
)

const (
	// Window период, за который считается история и статистика.
	Window = 7 * 24 * time.Hour

	topCategoriesLimit = 3
	fallbackCategory   = "general"
)

// Service ведёт историю чтения пользователя.
type Service struct {
	repo domain.HistoryRepo
	log  zerolog.Logger
	now  func() time.Time
}

// NewService создаёт сервис истории. repo может быть nil, тогда все операции возвращают ErrStorageDisabled.
func NewService(repo domain.HistoryRepo, logger zerolog.Logger) *Service {
	return &Service{repo: repo, log: logger, now: time.Now}
}

// Track отмечает статью прочитанной. Повторное чтение обновляет время.
func (s *Service) Track(ctx context.Context, userID string, article domain.Article) (domain.ReadingHistoryItem, error) {
	if s.repo == nil {
		return domain.ReadingHistoryItem{}, domain.ErrStorageDisabled
	}
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(article.ID) == "" {
		return domain.ReadingHistoryItem{}, fmt.Errorf("user id and article id are required: %w", domain.ErrInvalidInput)
	}
	item := domain.ReadingHistoryItem{
		ID:              uuid.NewString(),
		UserID:          userID,
		ArticleID:       article.ID,
		Title:           article.Title,
		Source:          article.Source,
		Category:        article.Category,
		ImageURL:        article.ImageURL,
		Sentiment:       article.Sentiment,
		ReadTimeMinutes: article.ReadTimeMinutes,
		ReadAt:          s.now().UTC(),
	}
	id, err := s.repo.UpsertRead(ctx, item)
	if err != nil {
		return domain.ReadingHistoryItem{}, fmt.Errorf("track read: %w", err)
	}
	if id != "" {
		item.ID = id
	}
	s.log.Debug().Str("user_id", userID).Str("article_id", article.ID).Msg("history: чтение отмечено")
	return item, nil
}

// List возвращает историю за последние семь дней, новые записи первыми.
func (s *Service) List(ctx context.Context, userID string) ([]domain.ReadingHistoryItem, error) {
	if s.repo == nil {
		return nil, domain.ErrStorageDisabled
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id is required: %w", domain.ErrInvalidInput)
	}
	items, err := s.repo.ListSince(ctx, userID, s.now().Add(-Window))
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].ReadAt.After(items[j].ReadAt) })
	if items == nil {
		items = []domain.ReadingHistoryItem{}
	}
	return items, nil
}

// Stats считает статистику чтения за неделю.
func (s *Service) Stats(ctx context.Context, userID string) (domain.ReadingStats, error) {
	items, err := s.List(ctx, userID)
	if err != nil {
		return domain.ReadingStats{}, err
	}
	return ComputeStats(items), nil
}

// Clear удаляет всю историю пользователя.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if s.repo == nil {
		return domain.ErrStorageDisabled
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required: %w", domain.ErrInvalidInput)
	}
	if err := s.repo.DeleteForUser(ctx, userID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	s.log.Info().Str("user_id", userID).Msg("history: история очищена")
	return nil
}

// ComputeStats строит статистику по записям истории.
func ComputeStats(items []domain.ReadingHistoryItem) domain.ReadingStats {
	stats := domain.ReadingStats{TopCategories: []string{}}
	if len(items) == 0 {
		return stats
	}

	total := 0
	counts := make(map[string]int)
	for _, item := range items {
		total += item.ReadTimeMinutes
		category := strings.ToLower(strings.TrimSpace(item.Category))
		if category == "" {
			category = fallbackCategory
		}
		counts[category]++

		switch item.Sentiment {
		case domain.SentimentPositive:
			stats.SentimentBreakdown.Positive++
		case domain.SentimentNegative:
			stats.SentimentBreakdown.Negative++
		case domain.SentimentControversial:
			stats.SentimentBreakdown.Controversial++
		default:
			stats.SentimentBreakdown.Neutral++
		}
	}
	stats.ArticlesReadThisWeek = len(items)
	stats.AverageReadTime = float64(total) / float64(len(items))

	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return categories[i] < categories[j]
	})
	if len(categories) > topCategoriesLimit {
		categories = categories[:topCategoriesLimit]
	}
	for _, c := range categories {
		stats.TopCategories = append(stats.TopCategories, capitalize(c))
	}
	return stats
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
