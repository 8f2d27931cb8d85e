package http

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// AllowedHeaders заголовки, разрешённые для кросс-доменных запросов.
var AllowedHeaders = []string{"authorization", "x-client-info", "apikey", "content-type", "x-user-id"}

// AllowedMethods методы, разрешённые для кросс-доменных запросов.
var AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}

// CORS разрешает запросы с любого origin и отвечает 204 на preflight.
// Access-Control-Allow-Origin выставляется на всех ответах, даже без заголовка Origin.
func CORS() func(http.Handler) http.Handler {
	allowOrigin := middleware.SetHeader("Access-Control-Allow-Origin", "*")
	handler := cors.Handler(cors.Options{
		AllowedOrigins:       []string{"*"},
		AllowedMethods:       AllowedMethods,
		AllowedHeaders:       AllowedHeaders,
		OptionsSuccessStatus: http.StatusNoContent,
		MaxAge:               300,
	})
	return func(next http.Handler) http.Handler {
		return allowOrigin(handler(next))
	}
}
