package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/news", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "apikey, content-type, x-user-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("ожидали 204, получили %d", rec.Code)
	}
	if called {
		t.Fatal("preflight не должен доходить до обработчика")
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("нет Access-Control-Allow-Origin")
	}
	if got := strings.ToLower(rec.Header().Get("Access-Control-Allow-Methods")); !strings.Contains(got, "post") {
		t.Fatalf("unexpected allow methods %q", got)
	}
	allowed := strings.ToLower(rec.Header().Get("Access-Control-Allow-Headers"))
	for _, h := range []string{"apikey", "content-type", "x-user-id"} {
		if !strings.Contains(allowed, h) {
			t.Fatalf("заголовок %s не разрешён: %q", h, allowed)
		}
	}
}

func TestCORSOnActualResponses(t *testing.T) {
	h := CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	for _, origin := range []string{"", "https://app.example.com"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/news", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusTeapot {
			t.Fatalf("origin %q: запрос должен дойти до обработчика, получили %d", origin, rec.Code)
		}
		if got := rec.Header().Values("Access-Control-Allow-Origin"); len(got) != 1 || got[0] != "*" {
			t.Fatalf("origin %q: unexpected Access-Control-Allow-Origin %v", origin, got)
		}
	}
}

func TestRequireUser(t *testing.T) {
	var seen string
	h := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("ожидали 401, получили %d", rec.Code)
	}
	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body.Error == "" {
		t.Fatalf("unexpected error body: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserIDHeader, " user-1 ")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || seen != "user-1" {
		t.Fatalf("unexpected result code=%d user=%q", rec.Code, seen)
	}
}

func TestHealthz(t *testing.T) {
	srv := NewServer(zerolog.Nop())
	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("CORS заголовки должны быть на всех ответах")
	}
}
