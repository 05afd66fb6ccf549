package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
	pkgredis "github.com/abhinavyadav-ai/asset-manager/pkg/redis"
)

func newReplayStore(t *testing.T) (*pkgredis.Client, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := pkgredis.Wrap(goredis.NewClient(&goredis.Options{Addr: srv.Addr()}))
	t.Cleanup(func() { _ = client.Close() })
	return client, srv
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "middleware-test", Level: "error", Output: io.Discard})
}

func postWithKey(handler http.Handler, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return payload.Error.Code
}

func countingHandler(calls *int32, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"call":` + strconv.Itoa(int(n)) + `}`))
	})
}

func TestIdempotencyRequiredKeyMissing(t *testing.T) {
	store, _ := newReplayStore(t)
	var calls int32
	handler := Idempotency(store, quietLogger(), IdempotencyOptions{Required: true})(countingHandler(&calls, http.StatusOK))

	rec := postWithKey(handler, "", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected validation code, got %s", code)
	}
	if calls != 0 {
		t.Fatalf("handler should not run without a key")
	}
}

func TestIdempotencyOptionalKeyPassesThrough(t *testing.T) {
	store, srv := newReplayStore(t)
	var calls int32
	handler := Idempotency(store, quietLogger(), IdempotencyOptions{})(countingHandler(&calls, http.StatusCreated))

	postWithKey(handler, "", `{}`)
	postWithKey(handler, "", `{}`)
	if calls != 2 {
		t.Fatalf("expected both requests to run, got %d", calls)
	}
	if keys := srv.Keys(); len(keys) != 0 {
		t.Fatalf("expected nothing stored, got %v", keys)
	}
}

func TestIdempotencyReplaysCompletedResponse(t *testing.T) {
	store, srv := newReplayStore(t)
	var calls int32
	handler := Idempotency(store, quietLogger(), IdempotencyOptions{TTL: time.Hour})(countingHandler(&calls, http.StatusCreated))

	first := postWithKey(handler, "attempt-1", `{"qty":1}`)
	second := postWithKey(handler, "attempt-1", `{"qty":1}`)

	if calls != 1 {
		t.Fatalf("expected one execution, got %d", calls)
	}
	if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
		t.Fatalf("replay mismatch: %d %q vs %q", second.Code, second.Body.String(), first.Body.String())
	}
	if second.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatal("expected replay marker header")
	}
	if second.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected content type replayed, got %q", second.Header().Get("Content-Type"))
	}

	keys := srv.Keys()
	if len(keys) != 1 {
		t.Fatalf("expected a single stored key, got %v", keys)
	}
	if ttl := srv.TTL(keys[0]); ttl != time.Hour {
		t.Fatalf("expected replay ttl 1h, got %s", ttl)
	}
}

func TestIdempotencyRejectsDifferentBody(t *testing.T) {
	store, _ := newReplayStore(t)
	var calls int32
	handler := Idempotency(store, quietLogger(), IdempotencyOptions{})(countingHandler(&calls, http.StatusCreated))

	postWithKey(handler, "attempt-1", `{"qty":1}`)
	rec := postWithKey(handler, "attempt-1", `{"qty":2}`)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("expected idempotency code, got %s", code)
	}
	if calls != 1 {
		t.Fatalf("expected one execution, got %d", calls)
	}
}

func TestIdempotencyReleasesKeyOnServerError(t *testing.T) {
	store, srv := newReplayStore(t)
	var calls int32
	handler := Idempotency(store, quietLogger(), IdempotencyOptions{})(countingHandler(&calls, http.StatusBadGateway))

	postWithKey(handler, "attempt-1", `{}`)
	if keys := srv.Keys(); len(keys) != 0 {
		t.Fatalf("expected key released after 5xx, got %v", keys)
	}
	postWithKey(handler, "attempt-1", `{}`)
	if calls != 2 {
		t.Fatalf("expected retry to execute, got %d calls", calls)
	}
}

func TestIdempotencyRejectsConcurrentDuplicate(t *testing.T) {
	store, _ := newReplayStore(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		close(entered)
		<-release
		w.WriteHeader(http.StatusCreated)
	})
	handler := Idempotency(store, quietLogger(), IdempotencyOptions{})(slow)

	done := make(chan *httptest.ResponseRecorder)
	go func() { done <- postWithKey(handler, "attempt-1", `{}`) }()
	<-entered

	dup := postWithKey(handler, "attempt-1", `{}`)
	close(release)
	first := <-done

	if dup.Code != http.StatusConflict {
		t.Fatalf("expected 409 for in-flight duplicate, got %d", dup.Code)
	}
	if first.Code != http.StatusCreated {
		t.Fatalf("expected first request to complete, got %d", first.Code)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected one execution, got %d", calls)
	}
}

func TestIdempotencyScopesKeysByPath(t *testing.T) {
	store, _ := newReplayStore(t)
	var calls int32
	handler := Idempotency(store, quietLogger(), IdempotencyOptions{})(countingHandler(&calls, http.StatusOK))

	for _, path := range []string{"/api/admin/orders/1/mark-paid", "/api/admin/orders/2/mark-paid"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
		req.Header.Set(IdempotencyHeader, "same-key")
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 2 {
		t.Fatalf("expected separate executions per order, got %d", calls)
	}
}
