package domain

import (
	"errors"
	"fmt"
)

// ErrMissingCredential возвращается, если не задан ключ внешнего провайдера.
var ErrMissingCredential = errors.New("credential is not configured")

// ErrStorageDisabled возвращается, если хранилище не настроено.
var ErrStorageDisabled = errors.New("storage is not configured")

// ErrInvalidInput возвращается при некорректных параметрах запроса.
var ErrInvalidInput = errors.New("invalid input")

// UpstreamError описывает неуспешный ответ внешнего API.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// MissingCredential оборачивает ErrMissingCredential с именем переменной окружения.
func MissingCredential(name string) error {
	return fmt.Errorf("%s is not configured: %w", name, ErrMissingCredential)
}
