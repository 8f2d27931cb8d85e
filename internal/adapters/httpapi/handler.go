package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"newsfeed/internal/domain"
	httpinfra "newsfeed/internal/infra/http"
)

const (
	msgRateLimited     = "Rate limits exceeded, please try again later."
	msgPaymentRequired = "Payment required, please add funds to your account."
	msgSummaryFailed   = "Failed to generate summary"
	msgInvalidBody     = "invalid request body"
	msgStorageDisabled = "storage is not configured"

	maxBodyBytes = 1 << 20
)

// FeedService собирает ленту.
type FeedService interface {
	Fetch(ctx context.Context, params domain.FetchParams) (domain.FetchResult, error)
}

// SummaryService строит изложение статьи.
type SummaryService interface {
	Summarize(ctx context.Context, req domain.SummaryRequest) (domain.SummaryResult, error)
}

// HistoryService ведёт историю чтения.
type HistoryService interface {
	Track(ctx context.Context, userID string, article domain.Article) (domain.ReadingHistoryItem, error)
	List(ctx context.Context, userID string) ([]domain.ReadingHistoryItem, error)
	Stats(ctx context.Context, userID string) (domain.ReadingStats, error)
	Clear(ctx context.Context, userID string) error
}

// SavedService управляет закладками.
type SavedService interface {
	Save(ctx context.Context, userID string, article domain.Article) (domain.SavedArticle, error)
	List(ctx context.Context, userID string) ([]domain.SavedArticle, error)
	Remove(ctx context.Context, userID, articleID string) error
}

// Handler обслуживает HTTP API ленты.
type Handler struct {
	feed    FeedService
	summary SummaryService
	history HistoryService
	saved   SavedService
	log     zerolog.Logger
}

// NewHandler создаёт обработчик.
func NewHandler(feed FeedService, summary SummaryService, history HistoryService, saved SavedService, logger zerolog.Logger) *Handler {
	return &Handler{feed: feed, summary: summary, history: history, saved: saved, log: logger}
}

// Register вешает маршруты на роутер.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/v1/news", h.fetchNews)
	r.Post("/functions/v1/fetch-news", h.fetchNews)
	r.Post("/api/v1/summarize", h.summarize)
	r.Post("/functions/v1/summarize-article", h.summarize)

	r.Group(func(user chi.Router) {
		user.Use(httpinfra.RequireUser)

		user.Get("/api/v1/history", h.listHistory)
		user.Post("/api/v1/history", h.trackRead)
		user.Delete("/api/v1/history", h.clearHistory)
		user.Get("/api/v1/history/stats", h.historyStats)

		user.Get("/api/v1/saved", h.listSaved)
		user.Post("/api/v1/saved", h.saveArticle)
		user.Delete("/api/v1/saved/{articleID}", h.removeSaved)
	})
}

type newsErrorResponse struct {
	Error    string           `json:"error"`
	Articles []domain.Article `json:"articles"`
}

func (h *Handler) fetchNews(w http.ResponseWriter, r *http.Request) {
	var params domain.FetchParams
	if err := decodeBody(r, &params); err != nil {
		h.log.Warn().Err(err).Str("endpoint", "fetch-news").Msg("httpapi: некорректное тело")
		httpinfra.WriteJSON(w, http.StatusBadRequest, newsErrorResponse{Error: msgInvalidBody, Articles: []domain.Article{}})
		return
	}
	result, err := h.feed.Fetch(r.Context(), params)
	if err != nil {
		h.log.Error().Err(err).
			Str("endpoint", "fetch-news").
			Str("request_id", httpinfra.RequestID(r)).
			Str("query", params.Query).
			Str("category", params.Category).
			Strs("countries", params.Countries).
			Int("page", params.Page).
			Int("page_size", params.PageSize).
			Msg("httpapi: лента не собрана")
		httpinfra.WriteJSON(w, http.StatusInternalServerError, newsErrorResponse{Error: err.Error(), Articles: []domain.Article{}})
		return
	}
	if result.Articles == nil {
		result.Articles = []domain.Article{}
	}
	httpinfra.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) summarize(w http.ResponseWriter, r *http.Request) {
	var req domain.SummaryRequest
	if err := decodeBody(r, &req); err != nil {
		h.log.Warn().Err(err).Str("endpoint", "summarize-article").Msg("httpapi: некорректное тело")
		httpinfra.WriteError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	result, err := h.summary.Summarize(r.Context(), req)
	if err != nil {
		status, msg := summaryError(err)
		h.log.Error().Err(err).
			Str("endpoint", "summarize-article").
			Str("request_id", httpinfra.RequestID(r)).
			Str("title", req.Title).
			Bool("generate_audio", req.GenerateAudio).
			Int("status", status).
			Msg("httpapi: изложение не получено")
		httpinfra.WriteError(w, status, msg)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, result)
}

func summaryError(err error) (int, string) {
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		switch upstream.StatusCode {
		case http.StatusTooManyRequests:
			return http.StatusTooManyRequests, msgRateLimited
		case http.StatusPaymentRequired:
			return http.StatusPaymentRequired, msgPaymentRequired
		}
		return http.StatusInternalServerError, msgSummaryFailed
	}
	if errors.Is(err, domain.ErrMissingCredential) {
		return http.StatusInternalServerError, err.Error()
	}
	return http.StatusInternalServerError, msgSummaryFailed
}

func (h *Handler) listHistory(w http.ResponseWriter, r *http.Request) {
	userID := httpinfra.UserID(r.Context())
	items, err := h.history.List(r.Context(), userID)
	if err != nil {
		h.storageError(w, r, "history-list", userID, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, map[string]any{"history": items})
}

func (h *Handler) trackRead(w http.ResponseWriter, r *http.Request) {
	userID := httpinfra.UserID(r.Context())
	var article domain.Article
	if err := decodeBody(r, &article); err != nil {
		httpinfra.WriteError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	item, err := h.history.Track(r.Context(), userID, article)
	if err != nil {
		h.storageError(w, r, "history-track", userID, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) clearHistory(w http.ResponseWriter, r *http.Request) {
	userID := httpinfra.UserID(r.Context())
	if err := h.history.Clear(r.Context(), userID); err != nil {
		h.storageError(w, r, "history-clear", userID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) historyStats(w http.ResponseWriter, r *http.Request) {
	userID := httpinfra.UserID(r.Context())
	stats, err := h.history.Stats(r.Context(), userID)
	if err != nil {
		h.storageError(w, r, "history-stats", userID, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) listSaved(w http.ResponseWriter, r *http.Request) {
	userID := httpinfra.UserID(r.Context())
	items, err := h.saved.List(r.Context(), userID)
	if err != nil {
		h.storageError(w, r, "saved-list", userID, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, map[string]any{"saved": items})
}

func (h *Handler) saveArticle(w http.ResponseWriter, r *http.Request) {
	userID := httpinfra.UserID(r.Context())
	var article domain.Article
	if err := decodeBody(r, &article); err != nil {
		httpinfra.WriteError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	item, err := h.saved.Save(r.Context(), userID, article)
	if err != nil {
		h.storageError(w, r, "saved-save", userID, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) removeSaved(w http.ResponseWriter, r *http.Request) {
	userID := httpinfra.UserID(r.Context())
	articleID := chi.URLParam(r, "articleID")
	if err := h.saved.Remove(r.Context(), userID, articleID); err != nil {
		h.storageError(w, r, "saved-remove", userID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) storageError(w http.ResponseWriter, r *http.Request, endpoint, userID string, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, domain.ErrStorageDisabled):
		status, msg = http.StatusServiceUnavailable, msgStorageDisabled
	case errors.Is(err, domain.ErrInvalidInput):
		status, msg = http.StatusBadRequest, err.Error()
	}
	event := h.log.Error()
	if status < http.StatusInternalServerError {
		event = h.log.Warn()
	}
	event.Err(err).
		Str("endpoint", endpoint).
		Str("request_id", httpinfra.RequestID(r)).
		Str("user_id", userID).
		Int("status", status).
		Msg("httpapi: ошибка хранилища")
	httpinfra.WriteError(w, status, msg)
}

// decodeBody разбирает JSON. Пустое тело допустимо и оставляет значения по умолчанию.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
