package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"newsfeed/internal/domain"
	"newsfeed/internal/infra/metrics"
)

const defaultBaseURL = "https://newsapi.org/v2"

// Client ходит в NewsAPI.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

var _ domain.NewsProvider = (*Client)(nil)

// NewClient создаёт клиента NewsAPI.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type response struct {
	Status       string       `json:"status"`
	Code         string       `json:"code"`
	Message      string       `json:"message"`
	TotalResults int          `json:"totalResults"`
	Articles     []apiArticle `json:"articles"`
}

type apiArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// Configured сообщает, задан ли ключ.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// TopHeadlines запрашивает главные новости страны. Категория "all" не передаётся.
func (c *Client) TopHeadlines(ctx context.Context, country, category string, pageSize, page int) ([]domain.RawArticle, error) {
	q := url.Values{}
	q.Set("country", country)
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("page", strconv.Itoa(page))
	if category != "" && category != "all" {
		q.Set("category", category)
	}
	articles, err := c.get(ctx, "top-headlines", country, q)
	if err != nil {
		return nil, err
	}
	for i := range articles {
		articles[i].Country = country
	}
	return articles, nil
}

// Everything ищет по всем статьям, свежие первыми.
func (c *Client) Everything(ctx context.Context, query string, pageSize, page int) ([]domain.RawArticle, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("page", strconv.Itoa(page))
	q.Set("sortBy", "publishedAt")
	return c.get(ctx, "everything", "search", q)
}

func (c *Client) get(ctx context.Context, endpoint, target string, q url.Values) ([]domain.RawArticle, error) {
	if c.apiKey == "" {
		return nil, domain.MissingCredential("NEWSAPI_KEY")
	}
	u := c.baseURL + "/" + endpoint + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("newsapi: build request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveNetworkRequest("newsapi", endpoint, target, start, err)
		return nil, fmt.Errorf("newsapi: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveNetworkRequest("newsapi", endpoint, target, start, err)
		return nil, fmt.Errorf("newsapi: read response: %w", err)
	}

	var parsed response
	decodeErr := json.Unmarshal(body, &parsed)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upstream := &domain.UpstreamError{Provider: "newsapi", StatusCode: resp.StatusCode}
		if decodeErr == nil {
			upstream.Message = parsed.Message
		}
		metrics.ObserveNetworkRequest("newsapi", endpoint, target, start, upstream)
		return nil, upstream
	}
	if decodeErr != nil {
		metrics.ObserveNetworkRequest("newsapi", endpoint, target, start, decodeErr)
		return nil, fmt.Errorf("newsapi: decode response: %w", decodeErr)
	}
	if parsed.Status != "" && parsed.Status != "ok" {
		err := &domain.UpstreamError{Provider: "newsapi", StatusCode: resp.StatusCode, Message: parsed.Message}
		metrics.ObserveNetworkRequest("newsapi", endpoint, target, start, err)
		return nil, err
	}
	metrics.ObserveNetworkRequest("newsapi", endpoint, target, start, nil)

	out := make([]domain.RawArticle, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		out = append(out, domain.RawArticle{
			SourceID:    a.Source.ID,
			SourceName:  a.Source.Name,
			Author:      a.Author,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			URLToImage:  a.URLToImage,
			PublishedAt: parseTime(a.PublishedAt),
			Content:     a.Content,
		})
	}
	return out, nil
}

// parseTime возвращает нулевое время для пустой или нераспознанной даты; такое время не попадает в JSON статьи.
func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
