package domain

import "time"

// Complexity описывает сложность чтения статьи.
type Complexity string

const (
	ComplexityBeginner     Complexity = "beginner"
	ComplexityIntermediate Complexity = "intermediate"
	ComplexityExpert       Complexity = "expert"
)

// Sentiment описывает эмоциональную окраску статьи.
type Sentiment string

const (
	SentimentPositive      Sentiment = "positive"
	SentimentNegative      Sentiment = "negative"
	SentimentNeutral       Sentiment = "neutral"
	SentimentControversial Sentiment = "controversial"
)

// Classification содержит эвристическую разметку статьи.
type Classification struct {
	Complexity       Complexity
	Sentiment        Sentiment
	CredibilityScore int
	Topics           []string
}

// Article описывает статью ленты в том виде, в котором её получает клиент.
type Article struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Summary          string     `json:"summary"`
	Content          string     `json:"content,omitempty"`
	Source           string     `json:"source"`
	Author           string     `json:"author,omitempty"`
	ImageURL         string     `json:"imageUrl,omitempty"`
	URL              string     `json:"url,omitempty"`
	PublishedAt      time.Time  `json:"publishedAt,omitzero"`
	ReadTimeMinutes  int        `json:"readTimeMinutes"`
	Complexity       Complexity `json:"complexity"`
	Sentiment        Sentiment  `json:"sentiment"`
	CredibilityScore int        `json:"credibilityScore"`
	Category         string     `json:"category"`
	Topics           []string   `json:"topics"`
	Country          string     `json:"country,omitempty"`
}

// RawArticle статья в формате NewsAPI до обогащения.
type RawArticle struct {
	SourceID    string
	SourceName  string
	Author      string
	Title       string
	Description string
	URL         string
	URLToImage  string
	PublishedAt time.Time
	Content     string
	Country     string
}

// FetchParams параметры запроса ленты.
type FetchParams struct {
	Query     string   `json:"query,omitempty"`
	Category  string   `json:"category,omitempty"`
	Countries []string `json:"countries,omitempty"`
	Page      int      `json:"page,omitempty"`
	PageSize  int      `json:"pageSize,omitempty"`
}

// FetchResult итог запроса ленты.
type FetchResult struct {
	Articles     []Article `json:"articles"`
	TotalResults int       `json:"totalResults"`
}

// SummaryRequest запрос на краткое изложение статьи.
type SummaryRequest struct {
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	Content       string `json:"content"`
	GenerateAudio bool   `json:"generateAudio"`
}

// SummaryResult краткое изложение и, если получилось, озвучка в base64.
type SummaryResult struct {
	Summary     string  `json:"summary"`
	AudioBase64 *string `json:"audioBase64"`
}

// ReadingHistoryItem запись истории чтения пользователя.
type ReadingHistoryItem struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	ArticleID       string    `json:"articleId"`
	Title           string    `json:"articleTitle"`
	Source          string    `json:"articleSource,omitempty"`
	Category        string    `json:"articleCategory,omitempty"`
	ImageURL        string    `json:"articleImageUrl,omitempty"`
	Sentiment       Sentiment `json:"articleSentiment,omitempty"`
	ReadTimeMinutes int       `json:"readTimeMinutes"`
	ReadAt          time.Time `json:"readAt"`
}

// SentimentBreakdown распределение прочитанного по тональности.
type SentimentBreakdown struct {
	Positive      int `json:"positive"`
	Negative      int `json:"negative"`
	Neutral       int `json:"neutral"`
	Controversial int `json:"controversial"`
}

// ReadingStats статистика чтения за неделю.
type ReadingStats struct {
	ArticlesReadThisWeek int                `json:"articlesReadThisWeek"`
	AverageReadTime      float64            `json:"averageReadTime"`
	TopCategories        []string           `json:"topCategories"`
	SentimentBreakdown   SentimentBreakdown `json:"sentimentBreakdown"`
}

// SavedArticle статья, сохранённая пользователем.
type SavedArticle struct {
	Article Article   `json:"article"`
	SavedAt time.Time `json:"savedAt"`
}
