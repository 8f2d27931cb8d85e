package feed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"newsfeed/internal/domain"
	"newsfeed/internal/infra/metrics"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100

	defaultTitle    = "Untitled"
	defaultSummary  = "No description available."
	defaultContent  = "No content available."
	defaultSource   = "Unknown Source"
	defaultCategory = "general"

	missingContentLength = 500
	minReadTimeMinutes   = 2
	charsPerMinute       = 1000
)

// DefaultCountries страны ленты по умолчанию.
var DefaultCountries = []string{"us", "in"}

// Service собирает ленту из NewsAPI и размечает статьи.
type Service struct {
	provider   domain.NewsProvider
	classifier domain.Classifier
	countries  []string
	log        zerolog.Logger
	now        func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// Option настраивает Service.
type Option func(*Service)

// WithRand задаёт источник случайности для перемешивания.
func WithRand(rnd *rand.Rand) Option {
	return func(s *Service) {
		if rnd != nil {
			s.rnd = rnd
		}
	}
}

// WithClock задаёт часы для генерации идентификаторов.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDefaultCountries задаёт страны, если запрос их не указал.
func WithDefaultCountries(countries []string) Option {
	return func(s *Service) {
		if cleaned := normalizeCountries(countries); len(cleaned) > 0 {
			s.countries = cleaned
		}
	}
}

// NewService создаёт сервис ленты.
func NewService(provider domain.NewsProvider, classifier domain.Classifier, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		provider:   provider,
		classifier: classifier,
		countries:  DefaultCountries,
		log:        logger,
		now:        time.Now,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch возвращает страницу ленты: поиск по запросу или главные новости по странам.
func (s *Service) Fetch(ctx context.Context, params domain.FetchParams) (domain.FetchResult, error) {
	if s.provider == nil || !s.provider.Configured() {
		return domain.FetchResult{}, domain.MissingCredential("NEWSAPI_KEY")
	}
	params = s.withDefaults(params)

	var (
		raw  []domain.RawArticle
		mode string
	)
	if params.Query != "" {
		mode = "search"
		raw = s.search(ctx, params)
	} else {
		mode = "headlines"
		raw = s.headlines(ctx, params)
	}

	articles := s.enrich(raw, params.Category)
	metrics.IncFeedArticles(mode, len(articles))
	s.log.Info().
		Str("mode", mode).
		Strs("countries", params.Countries).
		Int("page", params.Page).
		Int("articles", len(articles)).
		Msg("feed: лента собрана")

	return domain.FetchResult{Articles: articles, TotalResults: len(articles)}, nil
}

func (s *Service) withDefaults(params domain.FetchParams) domain.FetchParams {
	params.Query = strings.TrimSpace(params.Query)
	params.Category = strings.TrimSpace(params.Category)
	if params.Page < 1 {
		params.Page = defaultPage
	}
	switch {
	case params.PageSize < 1:
		params.PageSize = defaultPageSize
	case params.PageSize > maxPageSize:
		params.PageSize = maxPageSize
	}
	params.Countries = normalizeCountries(params.Countries)
	if len(params.Countries) == 0 {
		params.Countries = append([]string(nil), s.countries...)
	}
	return params
}

func (s *Service) search(ctx context.Context, params domain.FetchParams) []domain.RawArticle {
	raw, err := s.provider.Everything(ctx, params.Query, params.PageSize, params.Page)
	if err != nil {
		s.log.Error().Err(err).Str("query", params.Query).Int("page", params.Page).Msg("feed: поиск не удался")
		return nil
	}
	return raw
}

func (s *Service) headlines(ctx context.Context, params domain.FetchParams) []domain.RawArticle {
	perCountry := (params.PageSize + len(params.Countries) - 1) / len(params.Countries)
	results := make([][]domain.RawArticle, len(params.Countries))

	var wg sync.WaitGroup
	for i, country := range params.Countries {
		wg.Add(1)
		go func(i int, country string) {
			defer wg.Done()
			raw, err := s.provider.TopHeadlines(ctx, country, params.Category, perCountry, params.Page)
			if err != nil {
				metrics.IncCountryError(country)
				s.log.Error().Err(err).
					Str("country", country).
					Str("category", params.Category).
					Int("page", params.Page).
					Msg("feed: страна пропущена")
				return
			}
			results[i] = raw
		}(i, country)
	}
	wg.Wait()

	var merged []domain.RawArticle
	for _, raw := range results {
		merged = append(merged, raw...)
	}
	s.shuffle(merged)
	return merged
}

func (s *Service) shuffle(raw []domain.RawArticle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rnd.Shuffle(len(raw), func(i, j int) { raw[i], raw[j] = raw[j], raw[i] })
}

func (s *Service) enrich(raw []domain.RawArticle, category string) []domain.Article {
	stamp := s.now().UnixMilli()
	if category == "" {
		category = defaultCategory
	}
	articles := make([]domain.Article, 0, len(raw))
	for i, r := range raw {
		a := domain.Article{
			ID:              fmt.Sprintf("%d-%d", stamp, i),
			Title:           firstNonEmpty(r.Title, defaultTitle),
			Summary:         firstNonEmpty(r.Description, defaultSummary),
			Content:         firstNonEmpty(r.Content, r.Description, defaultContent),
			Source:          firstNonEmpty(r.SourceName, defaultSource),
			Author:          r.Author,
			ImageURL:        r.URLToImage,
			URL:             r.URL,
			PublishedAt:     r.PublishedAt,
			ReadTimeMinutes: ReadTimeMinutes(len(r.Content)),
			Category:        category,
			Country:         r.Country,
		}
		if s.classifier != nil {
			c := s.classifier.Classify(r.Title, r.Description, len(r.Content), r.SourceName)
			a.Complexity = c.Complexity
			a.Sentiment = c.Sentiment
			a.CredibilityScore = c.CredibilityScore
			a.Topics = c.Topics
			metrics.IncClassified(string(c.Sentiment))
		}
		articles = append(articles, a)
	}
	return articles
}

// ReadTimeMinutes оценивает время чтения по длине текста, но не меньше двух минут.
func ReadTimeMinutes(contentLength int) int {
	if contentLength <= 0 {
		contentLength = missingContentLength
	}
	minutes := (contentLength + charsPerMinute - 1) / charsPerMinute
	if minutes < minReadTimeMinutes {
		return minReadTimeMinutes
	}
	return minutes
}

func normalizeCountries(countries []string) []string {
	out := make([]string, 0, len(countries))
	for _, c := range countries {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
