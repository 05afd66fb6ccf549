package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
)

func TestLoginRateLimit_PreservesBodyUnderLimit(t *testing.T) {
	store := newFakeRateStore()
	handler := RateLimit(NewLoginRateLimitPolicy(time.Minute, 2, 2), store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if !strings.Contains(string(body), `"username":"meera"`) {
			t.Fatalf("unexpected body: %s", string(body))
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/login", strings.NewReader(`{"username":"meera","password":"secret"}`))
	req.RemoteAddr = "1.2.3.4:5678"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestLoginRateLimit_UsernameLimitIgnoresCaseAndIP(t *testing.T) {
	store := newFakeRateStore()
	handler := RateLimit(NewLoginRateLimitPolicy(time.Minute, 0, 2), store, nil)(okHandler())

	usernames := []string{"meera", " MEERA ", "Meera"}
	for i, username := range usernames {
		body := `{"username":"` + username + `","password":"wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/login", strings.NewReader(body))
		req.RemoteAddr = "10.0.0." + string(rune('1'+i)) + ":5678"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		switch {
		case i < 2 && rec.Code != http.StatusOK:
			t.Fatalf("expected success before limit, got %d", rec.Code)
		case i >= 2:
			if rec.Code != http.StatusTooManyRequests {
				t.Fatalf("expected 429, got %d", rec.Code)
			}
			if rec.Header().Get("Retry-After") != "60" {
				t.Fatalf("expected Retry-After 60, got %q", rec.Header().Get("Retry-After"))
			}
			var payload struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if payload.Error.Code != string(pkgerrors.CodeRateLimit) {
				t.Fatalf("unexpected code: %s", payload.Error.Code)
			}
		}
	}
}

func TestIPRateLimit_OrdersPerClient(t *testing.T) {
	store := newFakeRateStore()
	handler := RateLimit(NewIPRateLimitPolicy("orders", time.Minute, 1), store, nil)(okHandler())

	send := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{}`))
		req.Header.Set("X-Forwarded-For", forwardedFor)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("5.6.7.8"); code != http.StatusOK {
		t.Fatalf("expected success, got %d", code)
	}
	if code := send("5.6.7.8, 10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
	if code := send("9.9.9.9"); code != http.StatusOK {
		t.Fatalf("other client should pass, got %d", code)
	}
}

func TestRateLimit_StoreFailure(t *testing.T) {
	store := newFakeRateStore()
	store.err = errors.New("redis down")
	handler := RateLimit(NewIPRateLimitPolicy("orders", time.Minute, 5), store, nil)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

type fakeRateStore struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{counts: map[string]int64{}}
}

func (f *fakeRateStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key], nil
}
