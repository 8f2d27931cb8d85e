package classifier

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Topic тема с ключевыми словами.
type Topic struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Lexicon набор словарей, по которым работает классификатор.
type Lexicon struct {
	Positive        []string `yaml:"positive"`
	Negative        []string `yaml:"negative"`
	Controversial   []string `yaml:"controversial"`
	HighCredibility []string `yaml:"high_credibility"`
	MidCredibility  []string `yaml:"mid_credibility"`
	Topics          []Topic  `yaml:"topics"`
}

// DefaultTopic возвращается, если ни одна тема не найдена.
const DefaultTopic = "General"

const maxTopics = 3

// DefaultLexicon возвращает встроенные словари.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Positive:      []string{"success", "win", "growth", "breakthrough", "achieve", "improve", "gain", "rise", "benefit", "positive"},
		Negative:      []string{"fail", "crash", "crisis", "death", "loss", "decline", "fall", "worst", "danger", "threat"},
		Controversial: []string{"debate", "controversy", "divided", "dispute", "conflict", "tension", "clash", "oppose"},
		HighCredibility: []string{
			"reuters", "associated press", "bbc", "npr", "the new york times", "the washington post",
			"the guardian", "financial times", "the economist", "wall street journal", "the hindu",
			"hindustan times", "indian express", "ndtv", "the times of india", "mint",
			"business standard", "economic times",
		},
		MidCredibility: []string{
			"cnn", "abc news", "cbs news", "nbc news", "usa today", "time", "newsweek", "politico",
			"india today", "news18", "zee news", "republic", "firstpost", "scroll", "the quint",
			"the wire", "livemint",
		},
		Topics: []Topic{
			{Name: "Technology", Keywords: []string{"ai", "tech", "software", "digital", "cyber", "robot", "computer", "internet", "app"}},
			{Name: "Politics", Keywords: []string{"president", "congress", "election", "vote", "government", "senate", "policy", "democrat", "republican"}},
			{Name: "Finance", Keywords: []string{"stock", "market", "economy", "bank", "invest", "crypto", "bitcoin", "trade", "dollar"}},
			{Name: "Health", Keywords: []string{"health", "medical", "vaccine", "hospital", "doctor", "disease", "treatment", "drug"}},
			{Name: "Science", Keywords: []string{"research", "study", "scientist", "discovery", "space", "nasa", "climate"}},
			{Name: "Sports", Keywords: []string{"game", "team", "player", "championship", "score", "win", "league", "match"}},
			{Name: "Entertainment", Keywords: []string{"movie", "film", "music", "celebrity", "show", "star", "award", "album"}},
		},
	}
}

// LoadLexicon читает YAML-файл и подменяет непустые словари встроенных.
func LoadLexicon(path string) (Lexicon, error) {
	lex := DefaultLexicon()
	if strings.TrimSpace(path) == "" {
		return lex, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	var override Lexicon
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return Lexicon{}, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	return mergeLexicon(lex, override), nil
}

func mergeLexicon(base, override Lexicon) Lexicon {
	if len(override.Positive) > 0 {
		base.Positive = override.Positive
	}
	if len(override.Negative) > 0 {
		base.Negative = override.Negative
	}
	if len(override.Controversial) > 0 {
		base.Controversial = override.Controversial
	}
	if len(override.HighCredibility) > 0 {
		base.HighCredibility = override.HighCredibility
	}
	if len(override.MidCredibility) > 0 {
		base.MidCredibility = override.MidCredibility
	}
	if len(override.Topics) > 0 {
		base.Topics = override.Topics
	}
	return base.normalized()
}

// normalized приводит все ключевые слова к нижнему регистру.
func (l Lexicon) normalized() Lexicon {
	out := Lexicon{
		Positive:        lowerAll(l.Positive),
		Negative:        lowerAll(l.Negative),
		Controversial:   lowerAll(l.Controversial),
		HighCredibility: lowerAll(l.HighCredibility),
		MidCredibility:  lowerAll(l.MidCredibility),
		Topics:          make([]Topic, 0, len(l.Topics)),
	}
	for _, t := range l.Topics {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			continue
		}
		out.Topics = append(out.Topics, Topic{Name: name, Keywords: lowerAll(t.Keywords)})
	}
	return out
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
