package summary

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"newsfeed/internal/domain"
	"newsfeed/internal/infra/metrics"
)

// TextSummarizer строит текстовое изложение статьи.
type TextSummarizer interface {
	Summarize(ctx context.Context, req domain.SummaryRequest) (string, error)
	Configured() bool
}

// Service связывает LLM-изложение и озвучку.
type Service struct {
	text   TextSummarizer
	speech domain.SpeechSynthesizer
	log    zerolog.Logger
}

// NewService создаёт сервис. speech может быть nil, тогда озвучка не выполняется.
func NewService(text TextSummarizer, speech domain.SpeechSynthesizer, logger zerolog.Logger) *Service {
	return &Service{text: text, speech: speech, log: logger}
}

// Summarize возвращает изложение и, если запрошено и возможно, mp3 в base64.
// Ошибки озвучки не прерывают запрос.
func (s *Service) Summarize(ctx context.Context, req domain.SummaryRequest) (domain.SummaryResult, error) {
	if s.text == nil || !s.text.Configured() {
		metrics.IncSummary("misconfigured")
		return domain.SummaryResult{}, domain.MissingCredential("LLM_API_KEY")
	}
	s.log.Info().Str("title", req.Title).Bool("generate_audio", req.GenerateAudio).Msg("summary: запрос")

	text, err := s.text.Summarize(ctx, req)
	if err != nil {
		metrics.IncSummary(outcomeFor(err))
		return domain.SummaryResult{}, fmt.Errorf("summarize %q: %w", req.Title, err)
	}
	metrics.IncSummary("ok")

	result := domain.SummaryResult{Summary: text}
	if req.GenerateAudio {
		result.AudioBase64 = s.audio(ctx, text)
	}
	return result, nil
}

func (s *Service) audio(ctx context.Context, text string) *string {
	if s.speech == nil || !s.speech.Configured() {
		s.log.Warn().Msg("summary: ELEVENLABS_API_KEY не задан, озвучка пропущена")
		metrics.IncAudio("skipped")
		return nil
	}
	audio, err := s.speech.Synthesize(ctx, text)
	if err != nil {
		s.log.Error().Err(err).Msg("summary: озвучка не удалась")
		metrics.IncAudio("error")
		return nil
	}
	if len(audio) == 0 {
		metrics.IncAudio("empty")
		return nil
	}
	encoded := base64.StdEncoding.EncodeToString(audio)
	metrics.IncAudio("ok")
	return &encoded
}

func outcomeFor(err error) string {
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		switch upstream.StatusCode {
		case http.StatusTooManyRequests:
			return "rate_limited"
		case http.StatusPaymentRequired:
			return "payment_required"
		}
		return "upstream_error"
	}
	return "error"
}
