package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireInternalJobToken(t *testing.T) {
	t.Run("rejects when token is not configured", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/datasets", nil)
		RequireInternalJobToken("", okHandler()).ServeHTTP(rec, req)
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})

	t.Run("rejects missing or wrong token", func(t *testing.T) {
		for _, token := range []string{"", "wrong"} {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/datasets", nil)
			if token != "" {
				req.Header.Set("X-Internal-Job-Token", token)
			}
			RequireInternalJobToken("secret", okHandler()).ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("token %q: expected 401, got %d", token, rec.Code)
			}
		}
	})

	t.Run("passes matching token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/datasets", nil)
		req.Header.Set("X-Internal-Job-Token", "secret")
		RequireInternalJobToken("secret", okHandler()).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}

func TestCORS(t *testing.T) {
	t.Run("allows configured origin", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/datasets", nil)
		req.Header.Set("Origin", "https://analytics.example.com")
		CORS([]string{"https://analytics.example.com"}, okHandler()).ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://analytics.example.com" {
			t.Fatalf("unexpected allow origin: %q", got)
		}
	})

	t.Run("wildcard", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/datasets", nil)
		req.Header.Set("Origin", "https://anything.example.com")
		CORS([]string{"*"}, okHandler()).ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Fatalf("unexpected allow origin: %q", got)
		}
	})

	t.Run("ignores unknown origin", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/datasets", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		CORS([]string{"https://analytics.example.com"}, okHandler()).ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("expected no allow origin header, got %q", got)
		}
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/v1/datasets", nil)
		req.Header.Set("Origin", "https://analytics.example.com")
		CORS([]string{"https://analytics.example.com"}, okHandler()).ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204 for preflight, got %d", rec.Code)
		}
	})
}

func TestShouldTraceRequest(t *testing.T) {
	if shouldTraceRequest("/healthz") {
		t.Fatal("health probes must not be traced")
	}
	if !shouldTraceRequest("/v1/datasets") {
		t.Fatal("api routes must be traced")
	}
}
