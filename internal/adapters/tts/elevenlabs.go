package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"newsfeed/internal/domain"
	"newsfeed/internal/infra/metrics"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io/v1"
	defaultVoiceID = "9BWtsMINqrJLrRacOk9x"
	defaultModelID = "eleven_turbo_v2_5"
)

// Config параметры ElevenLabs.
type Config struct {
	APIKey  string
	BaseURL string
	VoiceID string
	ModelID string
	Timeout time.Duration
}

// ElevenLabs озвучивает текст через ElevenLabs text-to-speech.
type ElevenLabs struct {
	http    *http.Client
	baseURL string
	apiKey  string
	voiceID string
	modelID string
}

var _ domain.SpeechSynthesizer = (*ElevenLabs)(nil)

// NewElevenLabs создаёт клиента озвучки.
func NewElevenLabs(cfg Config) *ElevenLabs {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.VoiceID == "" {
		cfg.VoiceID = defaultVoiceID
	}
	if cfg.ModelID == "" {
		cfg.ModelID = defaultModelID
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &ElevenLabs{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		voiceID: cfg.VoiceID,
		modelID: cfg.ModelID,
	}
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type speechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Configured сообщает, задан ли ключ.
func (e *ElevenLabs) Configured() bool {
	return e.apiKey != ""
}

// Synthesize возвращает mp3 с озвученным текстом.
func (e *ElevenLabs) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if e.apiKey == "" {
		return nil, domain.MissingCredential("ELEVENLABS_API_KEY")
	}
	body, err := json.Marshal(speechRequest{
		Text:          text,
		ModelID:       e.modelID,
		VoiceSettings: voiceSettings{Stability: 0.5, SimilarityBoost: 0.75},
	})
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: marshal request: %w", err)
	}
	endpoint := e.baseURL + "/text-to-speech/" + e.voiceID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: build request: %w", err)
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.apiKey)

	start := time.Now()
	resp, err := e.http.Do(req)
	if err != nil {
		metrics.ObserveNetworkRequest("elevenlabs", "text_to_speech", e.modelID, start, err)
		return nil, fmt.Errorf("elevenlabs: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		upstream := &domain.UpstreamError{Provider: "elevenlabs", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(payload))}
		metrics.ObserveNetworkRequest("elevenlabs", "text_to_speech", e.modelID, start, upstream)
		return nil, upstream
	}
	audio, err := io.ReadAll(resp.Body)
	metrics.ObserveNetworkRequest("elevenlabs", "text_to_speech", e.modelID, start, err)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: read audio: %w", err)
	}
	return audio, nil
}
