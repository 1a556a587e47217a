package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// loggedRequest runs one request through LoggingMiddleware and returns
// the recorded response plus the captured log entries.
func loggedRequest(t *testing.T, mutate func(*http.Request)) (*httptest.ResponseRecorder, []observer.LoggedEntry) {
	t.Helper()

	zapCore, logs := observer.New(zap.InfoLevel)
	wrapped := LoggingMiddleware(zap.New(zapCore))(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest("GET", "/api/backtests", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	if mutate != nil {
		mutate(req)
	}

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)
	return w, logs.AllUntimed()
}

func logField(entry observer.LoggedEntry, key string) any {
	for _, f := range entry.Context {
		if f.Key == key {
			if f.String != "" {
				return f.String
			}
			return f.Integer
		}
	}
	return nil
}

func TestLoggingMiddleware_LogsRequestLine(t *testing.T) {
	_, entries := loggedRequest(t, nil)

	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	entry := entries[0]

	if got := logField(entry, "method"); got != "GET" {
		t.Errorf("method = %v, want GET", got)
	}
	if got := logField(entry, "path"); got != "/api/backtests" {
		t.Errorf("path = %v, want /api/backtests", got)
	}
	if got := logField(entry, "status"); got != int64(200) {
		t.Errorf("status = %v, want 200", got)
	}
}

func TestLoggingMiddleware_GeneratesRequestID(t *testing.T) {
	w, entries := loggedRequest(t, nil)

	requestID := w.Header().Get("X-Request-ID")
	if requestID == "" {
		t.Fatal("expected X-Request-ID header")
	}
	if got := logField(entries[0], "request_id"); got != requestID {
		t.Errorf("logged request_id %v != header %s", got, requestID)
	}
}

func TestLoggingMiddleware_ReusesUpstreamRequestID(t *testing.T) {
	w, entries := loggedRequest(t, func(r *http.Request) {
		r.Header.Set("X-Request-ID", "upstream-id")
	})

	if w.Header().Get("X-Request-ID") != "upstream-id" {
		t.Errorf("expected upstream ID echoed, got %s", w.Header().Get("X-Request-ID"))
	}
	if got := logField(entries[0], "request_id"); got != "upstream-id" {
		t.Errorf("logged request_id = %v, want upstream-id", got)
	}
}

func TestLoggingMiddleware_ClientIP(t *testing.T) {
	_, entries := loggedRequest(t, nil)
	if got := logField(entries[0], "client_ip"); got != "192.168.1.1:12345" {
		t.Errorf("client_ip = %v, want remote addr", got)
	}
}

func TestLoggingMiddleware_XForwardedForWins(t *testing.T) {
	_, entries := loggedRequest(t, func(r *http.Request) {
		r.Header.Set("X-Forwarded-For", "203.0.113.50")
	})
	if got := logField(entries[0], "client_ip"); got != "203.0.113.50" {
		t.Errorf("client_ip = %v, want 203.0.113.50", got)
	}
}
