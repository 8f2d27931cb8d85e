package classifier

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"newsfeed/internal/domain"
)

const (
	beginnerMaxLength     = 500
	intermediateMaxLength = 1500
)

// Band диапазон оценки достоверности, границы включительно.
type Band struct {
	Min int
	Max int
}

// Bands диапазоны для источников высокого, среднего и остального уровня.
type Bands struct {
	High Band
	Mid  Band
	Low  Band
}

// DefaultBands возвращает стандартные диапазоны.
func DefaultBands() Bands {
	return Bands{
		High: Band{Min: 90, Max: 94},
		Mid:  Band{Min: 78, Max: 87},
		Low:  Band{Min: 65, Max: 79},
	}
}

// Heuristic реализует domain.Classifier на словарях.
type Heuristic struct {
	lexicon Lexicon
	bands   Bands

	mu  sync.Mutex
	rnd *rand.Rand
}

var _ domain.Classifier = (*Heuristic)(nil)

// NewHeuristic создаёт классификатор. Если rnd не передан, используется генератор от текущего времени.
func NewHeuristic(lexicon Lexicon, bands Bands, rnd *rand.Rand) *Heuristic {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Heuristic{
		lexicon: lexicon.normalized(),
		bands:   Bands{High: bands.High.normalized(), Mid: bands.Mid.normalized(), Low: bands.Low.normalized()},
		rnd:     rnd,
	}
}

// Classify размечает статью.
func (h *Heuristic) Classify(title, description string, contentLength int, sourceName string) domain.Classification {
	text := strings.ToLower(title + " " + description)
	return domain.Classification{
		Complexity:       ComplexityFor(contentLength),
		Sentiment:        h.Sentiment(text),
		CredibilityScore: h.Credibility(sourceName),
		Topics:           h.Topics(text),
	}
}

// ComplexityFor определяет сложность по длине текста.
func ComplexityFor(contentLength int) domain.Complexity {
	switch {
	case contentLength < beginnerMaxLength:
		return domain.ComplexityBeginner
	case contentLength < intermediateMaxLength:
		return domain.ComplexityIntermediate
	default:
		return domain.ComplexityExpert
	}
}

// Sentiment считает совпадения по словарям. Спорные слова важнее перевеса позитива или негатива.
func (h *Heuristic) Sentiment(text string) domain.Sentiment {
	text = strings.ToLower(text)
	if countHits(text, h.lexicon.Controversial) > 0 {
		return domain.SentimentControversial
	}
	positive := countHits(text, h.lexicon.Positive)
	negative := countHits(text, h.lexicon.Negative)
	switch {
	case positive > negative:
		return domain.SentimentPositive
	case negative > positive:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

// Credibility возвращает случайную оценку из диапазона уровня источника.
func (h *Heuristic) Credibility(sourceName string) int {
	return h.pick(h.Tier(sourceName))
}

// Tier определяет диапазон источника: сначала высокий список, потом средний.
func (h *Heuristic) Tier(sourceName string) Band {
	source := strings.ToLower(sourceName)
	if containsAny(source, h.lexicon.HighCredibility) {
		return h.bands.High
	}
	if containsAny(source, h.lexicon.MidCredibility) {
		return h.bands.Mid
	}
	return h.bands.Low
}

// Topics возвращает до трёх тем в порядке объявления.
func (h *Heuristic) Topics(text string) []string {
	text = strings.ToLower(text)
	topics := make([]string, 0, maxTopics)
	for _, topic := range h.lexicon.Topics {
		if !containsAny(text, topic.Keywords) {
			continue
		}
		topics = append(topics, topic.Name)
		if len(topics) == maxTopics {
			break
		}
	}
	if len(topics) == 0 {
		return []string{DefaultTopic}
	}
	return topics
}

func (h *Heuristic) pick(b Band) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return b.Min + h.rnd.Intn(b.Max-b.Min+1)
}

func (b Band) normalized() Band {
	if b.Min > b.Max {
		b.Min, b.Max = b.Max, b.Min
	}
	b.Min = clampScore(b.Min)
	b.Max = clampScore(b.Max)
	return b
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func countHits(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
