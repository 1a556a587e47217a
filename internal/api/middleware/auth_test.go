// internal/api/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func authRequest(t *testing.T, configuredKey string, setHeader func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	handler := APIKeyAuth(configuredKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/backtests", nil)
	if setHeader != nil {
		setHeader(req)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestAPIKeyAuth_ValidHeaderKey(t *testing.T) {
	w := authRequest(t, "secret-key", func(r *http.Request) {
		r.Header.Set("X-API-Key", "secret-key")
	})
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAPIKeyAuth_ValidBearerToken(t *testing.T) {
	w := authRequest(t, "secret-key", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer secret-key")
	})
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAPIKeyAuth_MissingKey(t *testing.T) {
	w := authRequest(t, "secret-key", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAPIKeyAuth_WrongKey(t *testing.T) {
	w := authRequest(t, "secret-key", func(r *http.Request) {
		r.Header.Set("X-API-Key", "wrong-key")
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAPIKeyAuth_DisabledWhenUnconfigured(t *testing.T) {
	w := authRequest(t, "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 when auth disabled, got %d", w.Code)
	}
}
