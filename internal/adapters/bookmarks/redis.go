package bookmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"newsfeed/internal/domain"
	"newsfeed/internal/infra/metrics"
)

const keyPrefix = "saved:"

// Redis хранит сохранённые статьи в хэше saved:<user>, поле которого идентификатор статьи.
type Redis struct {
	client *redis.Client
}

var _ domain.SavedRepo = (*Redis)(nil)

// NewRedis создаёт хранилище закладок.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Save записывает статью в хэш пользователя.
func (r *Redis) Save(ctx context.Context, userID string, saved domain.SavedArticle) error {
	payload, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("marshal saved article: %w", err)
	}
	start := time.Now()
	err = r.client.HSet(ctx, Key(userID), saved.Article.ID, payload).Err()
	metrics.ObserveNetworkRequest("redis", "saved_hset", "saved", start, err)
	return err
}

// List возвращает все сохранённые статьи пользователя без сортировки.
func (r *Redis) List(ctx context.Context, userID string) ([]domain.SavedArticle, error) {
	start := time.Now()
	values, err := r.client.HGetAll(ctx, Key(userID)).Result()
	metrics.ObserveNetworkRequest("redis", "saved_hgetall", "saved", start, err)
	if err != nil {
		return nil, err
	}
	return decodeAll(values)
}

// Remove удаляет статью из хэша пользователя.
func (r *Redis) Remove(ctx context.Context, userID, articleID string) error {
	start := time.Now()
	err := r.client.HDel(ctx, Key(userID), articleID).Err()
	metrics.ObserveNetworkRequest("redis", "saved_hdel", "saved", start, err)
	return err
}

// Key возвращает ключ хэша пользователя.
func Key(userID string) string {
	return keyPrefix + userID
}

func decodeAll(values map[string]string) ([]domain.SavedArticle, error) {
	out := make([]domain.SavedArticle, 0, len(values))
	for field, raw := range values {
		var item domain.SavedArticle
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("decode saved article %s: %w", field, err)
		}
		out = append(out, item)
	}
	return out, nil
}
