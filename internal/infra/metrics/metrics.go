package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30, 45, 60},
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})

	LLMGenerationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_generation_duration_seconds",
		Help:    "Длительность генерации ответа LLM",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	LLMTokensTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_tokens_total",
		Help: "Количество токенов, использованных LLM",
	}, []string{"model", "type"})

	FeedArticlesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_articles_total",
		Help: "Количество статей, отданных лентой",
	}, []string{"mode"})

	FeedCountryErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_country_errors_total",
		Help: "Ошибки запросов заголовков по странам",
	}, []string{"country"})

	ArticlesClassified = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "articles_classified_total",
		Help: "Размеченные статьи по тональности",
	}, []string{"sentiment"})

	SummaryRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "summary_requests_total",
		Help: "Запросы на краткое изложение по исходу",
	}, []string{"outcome"})

	AudioGeneration = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "audio_generation_total",
		Help: "Попытки озвучки краткого изложения",
	}, []string{"status"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		NetworkRequestDuration,
		NetworkRequestTotal,
		LLMGenerationDuration,
		LLMTokensTotal,
		FeedArticlesTotal,
		FeedCountryErrors,
		ArticlesClassified,
		SummaryRequests,
		AudioGeneration,
	)
}

// StartServer запускает HTTP сервер с эндпоинтом /metrics.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	shutdownCtx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-ctx.Done():
		case <-shutdownCtx.Done():
		}
		shutdownTimeout, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer timeoutCancel()
		if err := srv.Shutdown(shutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
		cancel()
	}()
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// ObserveLLMGeneration записывает длительность и токены генерации LLM.
func ObserveLLMGeneration(model string, duration time.Duration, promptTokens, completionTokens, totalTokens int) {
	if model == "" {
		model = "unknown"
	}
	LLMGenerationDuration.WithLabelValues(model).Observe(duration.Seconds())
	if promptTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "completion").Add(float64(completionTokens))
	}
	if totalTokens <= 0 {
		totalTokens = promptTokens + completionTokens
	}
	if totalTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "total").Add(float64(totalTokens))
	}
}

// IncFeedArticles учитывает отданные статьи по режиму (headlines или search).
func IncFeedArticles(mode string, n int) {
	if n <= 0 {
		return
	}
	FeedArticlesTotal.WithLabelValues(mode).Add(float64(n))
}

// IncCountryError учитывает неуспешный запрос по стране.
func IncCountryError(country string) {
	FeedCountryErrors.WithLabelValues(country).Inc()
}

// IncClassified учитывает размеченную статью.
func IncClassified(sentiment string) {
	ArticlesClassified.WithLabelValues(sentiment).Inc()
}

// IncSummary учитывает исход запроса на краткое изложение.
func IncSummary(outcome string) {
	SummaryRequests.WithLabelValues(outcome).Inc()
}

// IncAudio учитывает попытку озвучки.
func IncAudio(status string) {
	AudioGeneration.WithLabelValues(status).Inc()
}
