package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"newsfeed/internal/domain"
	"newsfeed/internal/infra/metrics"
)

const historyTable = "reading_history"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Postgres хранит историю чтения в pgxpool.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ domain.HistoryRepo = (*Postgres)(nil)

// NewPostgres создаёт адаптер БД.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) connCtxWithParent(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// UpsertRead добавляет запись или обновляет существующую по (user_id, article_id) и возвращает её id.
func (p *Postgres) UpsertRead(ctx context.Context, item domain.ReadingHistoryItem) (string, error) {
	query, args, err := upsertReadQuery(item)
	if err != nil {
		return "", fmt.Errorf("build upsert: %w", err)
	}
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	var id string
	start := time.Now()
	err = p.pool.QueryRow(ctx, query, args...).Scan(&id)
	metrics.ObserveNetworkRequest("postgres", "history_upsert", historyTable, start, err)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListSince возвращает записи пользователя начиная с since, новые первыми.
func (p *Postgres) ListSince(ctx context.Context, userID string, since time.Time) ([]domain.ReadingHistoryItem, error) {
	query, args, err := listSinceQuery(userID, since)
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, query, args...)
	metrics.ObserveNetworkRequest("postgres", "history_list", historyTable, start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.ReadingHistoryItem
	for rows.Next() {
		var (
			item                              domain.ReadingHistoryItem
			source, category, image, sentiment sql.NullString
		)
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.ArticleID, &item.Title,
			&source, &category, &image, &sentiment,
			&item.ReadTimeMinutes, &item.ReadAt,
		); err != nil {
			return nil, err
		}
		item.Source = source.String
		item.Category = category.String
		item.ImageURL = image.String
		item.Sentiment = domain.Sentiment(sentiment.String)
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteForUser удаляет всю историю пользователя.
func (p *Postgres) DeleteForUser(ctx context.Context, userID string) error {
	query, args, err := psql.Delete(historyTable).Where(sq.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	_, err = p.pool.Exec(ctx, query, args...)
	metrics.ObserveNetworkRequest("postgres", "history_delete", historyTable, start, err)
	return err
}

func upsertReadQuery(item domain.ReadingHistoryItem) (string, []any, error) {
	return psql.Insert(historyTable).
		Columns(
			"id", "user_id", "article_id", "article_title", "article_source",
			"article_category", "article_image_url", "article_sentiment",
			"read_time_minutes", "read_at",
		).
		Values(
			item.ID, item.UserID, item.ArticleID, item.Title, nullable(item.Source),
			nullable(item.Category), nullable(item.ImageURL), nullable(string(item.Sentiment)),
			item.ReadTimeMinutes, item.ReadAt,
		).
		Suffix(`ON CONFLICT (user_id, article_id) DO UPDATE SET
article_title = EXCLUDED.article_title,
article_source = EXCLUDED.article_source,
article_category = EXCLUDED.article_category,
article_image_url = EXCLUDED.article_image_url,
article_sentiment = EXCLUDED.article_sentiment,
read_time_minutes = EXCLUDED.read_time_minutes,
read_at = EXCLUDED.read_at
RETURNING id::text`).
		ToSql()
}

func listSinceQuery(userID string, since time.Time) (string, []any, error) {
	return psql.Select(
		"id::text", "user_id", "article_id", "article_title", "article_source",
		"article_category", "article_image_url", "article_sentiment",
		"read_time_minutes", "read_at",
	).
		From(historyTable).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"read_at": since}).
		OrderBy("read_at DESC").
		ToSql()
}

func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
