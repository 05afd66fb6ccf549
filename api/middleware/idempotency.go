package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhinavyadav-ai/asset-manager/api/responses"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
	pkgredis "github.com/abhinavyadav-ai/asset-manager/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	defaultReplayTTL  = 24 * time.Hour
	inFlightTTL       = 2 * time.Minute
	maxIdempotencyKey = 128
)

// IdempotencyOptions configure replay for one route.
type IdempotencyOptions struct {
	// TTL is how long a completed response is replayed.
	TTL time.Duration
	// Required rejects requests that carry no key.
	Required bool
}

// storedResponse is what a completed request leaves behind. An entry with
// Pending set is a reservation held while the first request runs.
type storedResponse struct {
	Pending     bool   `json:"pending,omitempty"`
	Fingerprint string `json:"fingerprint"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Idempotency replays the first response recorded for an Idempotency-Key.
// A repeat with a different body is rejected, as is a repeat that arrives
// while the first request is still running. Server failures release the key
// so the client can retry.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger, opts IdempotencyOptions) func(http.Handler) http.Handler {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultReplayTTL
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if store == nil {
				next.ServeHTTP(w, r)
				return
			}

			clientKey := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
			switch {
			case clientKey == "" && !opts.Required:
				next.ServeHTTP(w, r)
				return
			case clientKey == "":
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, IdempotencyHeader+" header required"))
				return
			case len(clientKey) > maxIdempotencyKey:
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, IdempotencyHeader+" header too long"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			fingerprint := requestFingerprint(r.Method, r.URL.Path, body)
			key := store.IdempotencyKey(idempotencyScope(r), clientKey)

			reserved, err := reserve(ctx, store, key, fingerprint)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve idempotency key"))
				return
			}
			if !reserved {
				replayOrReject(ctx, store, logg, w, key, fingerprint)
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			// Detached so a client disconnect does not strand the reservation.
			persistCtx := context.WithoutCancel(ctx)
			if capture.statusCode() >= http.StatusInternalServerError {
				if delErr := store.Del(persistCtx, key); delErr != nil {
					logg.Error(persistCtx, "release idempotency key", delErr)
				}
				return
			}

			payload, err := json.Marshal(storedResponse{
				Fingerprint: fingerprint,
				Status:      capture.statusCode(),
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.body.Bytes(),
			})
			if err != nil {
				logg.Error(persistCtx, "encode idempotency record", err)
				return
			}
			if err := store.Set(persistCtx, key, string(payload), ttl); err != nil {
				logg.Error(persistCtx, "persist idempotency record", err)
			}
		})
	}
}

func reserve(ctx context.Context, store pkgredis.IdempotencyStore, key, fingerprint string) (bool, error) {
	marker, err := json.Marshal(storedResponse{Pending: true, Fingerprint: fingerprint})
	if err != nil {
		return false, err
	}
	return store.SetNX(ctx, key, string(marker), inFlightTTL)
}

func replayOrReject(ctx context.Context, store pkgredis.IdempotencyStore, logg *logger.Logger, w http.ResponseWriter, key, fingerprint string) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		// The holder released the key between our SETNX and GET.
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeConflict, "request is being retried, try again"))
		return
	}
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load idempotency record"))
		return
	}

	var stored storedResponse
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode idempotency record"))
		return
	}
	if stored.Fingerprint != fingerprint {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with a different request"))
		return
	}
	if stored.Pending {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "request with this idempotency key is already in progress"))
		return
	}

	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(stored.Status)
	_, _ = w.Write(stored.Body)
}

// idempotencyScope keeps keys from different admins or routes apart.
func idempotencyScope(r *http.Request) string {
	actor := AdminIDFromContext(r.Context())
	if actor == "" {
		actor = "public"
	}
	return actor + "|" + r.Method + "|" + r.URL.Path
}

func requestFingerprint(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *responseCapture) statusCode() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}
