package httptransport

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"xbet/internal/store"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query  string
		limit  int
		offset int
		ok     bool
	}{
		{"", 0, 0, true},
		{"limit=10&offset=20", 10, 20, true},
		{"limit=abc", 0, 0, false},
		{"offset=-1", 0, 0, false},
		{"limit=-5", 0, 0, false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/x?"+tt.query, nil)
		limit, offset, ok := ParsePagination(req)
		if limit != tt.limit || offset != tt.offset || ok != tt.ok {
			t.Fatalf("%q = (%d, %d, %v), want (%d, %d, %v)", tt.query, limit, offset, ok, tt.limit, tt.offset, tt.ok)
		}
	}
}

func TestSessionToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer abc")
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "from-cookie"})
	if got := SessionToken(req); got != "abc" {
		t.Fatalf("header token = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "from-cookie"})
	if got := SessionToken(req); got != "from-cookie" {
		t.Fatalf("cookie token = %q", got)
	}

	if got := SessionToken(httptest.NewRequest(http.MethodGet, "/", nil)); got != "" {
		t.Fatalf("empty token = %q", got)
	}
}

func TestRequireAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	tests := []struct {
		name   string
		acc    *store.Account
		status int
	}{
		{"no account", nil, http.StatusUnauthorized},
		{"user", &store.Account{ID: 1, Role: store.RoleUser}, http.StatusForbidden},
		{"admin", &store.Account{ID: 2, Role: store.RoleAdmin}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.acc != nil {
				req = req.WithContext(withAccount(req.Context(), tt.acc))
			}
			w := httptest.NewRecorder()
			RequireAdmin(ok).ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestBodyCaptureMiddlewareKeepsRequestBody(t *testing.T) {
	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen = string(b)
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":"closed"}`))
	BodyCaptureMiddleware(16)(handler).ServeHTTP(rec, req)

	if seen != `{"status":"closed"}` {
		t.Fatalf("handler saw %q", seen)
	}
	if rec.Body.Len() != 64 {
		t.Fatalf("response truncated to client: %d bytes", rec.Body.Len())
	}
}
