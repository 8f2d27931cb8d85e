package main

import (
	"context"
	"math/rand"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"newsfeed/internal/adapters/bookmarks"
	"newsfeed/internal/adapters/classifier"
	"newsfeed/internal/adapters/httpapi"
	"newsfeed/internal/adapters/newsapi"
	"newsfeed/internal/adapters/repo"
	"newsfeed/internal/adapters/summarizer"
	"newsfeed/internal/adapters/tts"
	"newsfeed/internal/domain"
	"newsfeed/internal/infra/cache"
	"newsfeed/internal/infra/config"
	"newsfeed/internal/infra/db"
	httpinfra "newsfeed/internal/infra/http"
	applog "newsfeed/internal/infra/log"
	"newsfeed/internal/infra/metrics"
	"newsfeed/internal/infra/openai"
	"newsfeed/internal/usecase/feed"
	"newsfeed/internal/usecase/history"
	"newsfeed/internal/usecase/saved"
	"newsfeed/internal/usecase/summary"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lexicon, err := classifier.LoadLexicon(cfg.Classifier.LexiconPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Classifier.LexiconPath).Msg("api: не удалось загрузить словарь")
	}
	var classifierRand *rand.Rand
	if cfg.Classifier.Seed != 0 {
		classifierRand = rand.New(rand.NewSource(cfg.Classifier.Seed))
	}
	heuristic := classifier.NewHeuristic(lexicon, classifier.Bands{
		High: classifier.Band{Min: cfg.Credibility.HighMin, Max: cfg.Credibility.HighMax},
		Mid:  classifier.Band{Min: cfg.Credibility.MidMin, Max: cfg.Credibility.MidMax},
		Low:  classifier.Band{Min: cfg.Credibility.LowMin, Max: cfg.Credibility.LowMax},
	}, classifierRand)

	newsClient := newsapi.NewClient(cfg.News.APIKey, cfg.News.BaseURL, cfg.News.Timeout)
	if !newsClient.Configured() {
		logger.Warn().Msg("api: NEWSAPI_KEY не задан, лента будет отвечать 500")
	}
	feedService := feed.NewService(newsClient, heuristic,
		logger.With().Str("component", "feed").Logger(),
		feed.WithDefaultCountries(cfg.News.DefaultCountries),
	)

	llmClient := openai.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.Timeout)
	if !llmClient.Configured() {
		logger.Warn().Msg("api: LLM_API_KEY не задан, изложения будут отвечать 500")
	}
	speech := tts.NewElevenLabs(tts.Config{
		APIKey:  cfg.ElevenLabs.APIKey,
		BaseURL: cfg.ElevenLabs.BaseURL,
		VoiceID: cfg.ElevenLabs.VoiceID,
		ModelID: cfg.ElevenLabs.ModelID,
		Timeout: cfg.ElevenLabs.Timeout,
	})
	summaryService := summary.NewService(
		summarizer.NewLLM(llmClient, cfg.LLM.Timeout),
		speech,
		logger.With().Str("component", "summary").Logger(),
	)

	var historyRepo domain.HistoryRepo
	if cfg.PGDSN != "" {
		pool, err := db.Connect(cfg.PGDSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("api: нет подключения к БД")
		}
		defer pool.Close()
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("api: миграции не применены")
		}
		historyRepo = repo.NewPostgres(pool)
	} else {
		logger.Warn().Msg("api: PG_DSN не задан, история чтения отключена")
	}
	historyService := history.NewService(historyRepo, logger.With().Str("component", "history").Logger())

	var savedRepo domain.SavedRepo
	if cfg.Redis.Addr != "" {
		client, err := cache.Connect(ctx, cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("api: нет подключения к Redis")
		}
		defer client.Close()
		savedRepo = bookmarks.NewRedis(client)
	} else {
		logger.Warn().Msg("api: REDIS_ADDR не задан, сохранённые статьи отключены")
	}
	savedService := saved.NewService(savedRepo, logger.With().Str("component", "saved").Logger())

	server := httpinfra.NewServer(logger.With().Str("component", "http").Logger())
	httpapi.NewHandler(feedService, summaryService, historyService, savedService,
		logger.With().Str("component", "httpapi").Logger(),
	).Register(server.Router)

	metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), cfg.MetricsAddr)
	go func() {
		if err := server.Start(":" + strconv.Itoa(cfg.Port)); err != nil {
			logger.Error().Err(err).Msg("api: сервер остановлен")
			stop()
		}
	}()
	logStartup(logger, cfg)

	<-ctx.Done()
	logger.Info().Msg("api: остановка")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}

func logStartup(logger zerolog.Logger, cfg config.AppConfig) {
	logger.Info().
		Int("port", cfg.Port).
		Strs("default_countries", cfg.News.DefaultCountries).
		Str("llm_model", cfg.LLM.Model).
		Bool("audio", cfg.ElevenLabs.APIKey != "").
		Bool("history", cfg.PGDSN != "").
		Bool("saved", cfg.Redis.Addr != "").
		Msg("api: старт")
}
