package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию сервиса.
type AppConfig struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	Port        int    `envconfig:"PORT" default:"8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`

	News struct {
		APIKey           string        `envconfig:"NEWSAPI_KEY"`
		BaseURL          string        `envconfig:"NEWSAPI_BASE_URL" default:"https://newsapi.org/v2"`
		DefaultCountries []string      `envconfig:"NEWS_DEFAULT_COUNTRIES" default:"us,in"`
		Timeout          time.Duration `envconfig:"NEWS_HTTP_TIMEOUT" default:"15s"`
	} `envconfig:""`

	LLM struct {
		APIKey  string        `envconfig:"LLM_API_KEY"`
		BaseURL string        `envconfig:"LLM_BASE_URL" default:"https://ai.gateway.lovable.dev/v1/"`
		Model   string        `envconfig:"LLM_MODEL" default:"google/gemini-2.5-flash"`
		Timeout time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`
	} `envconfig:""`

	ElevenLabs struct {
		APIKey  string        `envconfig:"ELEVENLABS_API_KEY"`
		BaseURL string        `envconfig:"ELEVENLABS_BASE_URL" default:"https://api.elevenlabs.io/v1"`
		VoiceID string        `envconfig:"ELEVENLABS_VOICE_ID" default:"9BWtsMINqrJLrRacOk9x"`
		ModelID string        `envconfig:"ELEVENLABS_MODEL_ID" default:"eleven_turbo_v2_5"`
		Timeout time.Duration `envconfig:"ELEVENLABS_TIMEOUT" default:"60s"`
	} `envconfig:""`

	Credibility struct {
		HighMin int `envconfig:"CREDIBILITY_HIGH_MIN" default:"90"`
		HighMax int `envconfig:"CREDIBILITY_HIGH_MAX" default:"94"`
		MidMin  int `envconfig:"CREDIBILITY_MID_MIN" default:"78"`
		MidMax  int `envconfig:"CREDIBILITY_MID_MAX" default:"87"`
		LowMin  int `envconfig:"CREDIBILITY_LOW_MIN" default:"65"`
		LowMax  int `envconfig:"CREDIBILITY_LOW_MAX" default:"79"`
	} `envconfig:""`

	Classifier struct {
		Seed        int64  `envconfig:"CLASSIFIER_SEED"`
		LexiconPath string `envconfig:"CLASSIFIER_LEXICON_PATH"`
	} `envconfig:""`

	PGDSN string `envconfig:"PG_DSN"`

	Redis struct {
		Addr     string `envconfig:"REDIS_ADDR"`
		Password string `envconfig:"REDIS_PASSWORD"`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
	} `envconfig:""`
}

// Load загружает конфиг из .env и окружения.
func Load() AppConfig {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}

// Parse читает .env, если он есть, и разбирает окружение.
func Parse() (AppConfig, error) {
	_ = godotenv.Load()

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, err
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("LOVABLE_API_KEY")
	}
	return cfg, nil
}
