package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	adminauth "github.com/abhinavyadav-ai/asset-manager/internal/auth"
	"github.com/abhinavyadav-ai/asset-manager/internal/checkout"
	"github.com/abhinavyadav-ai/asset-manager/internal/orders"
	"github.com/abhinavyadav-ai/asset-manager/internal/payments"
	"github.com/abhinavyadav-ai/asset-manager/internal/products"
	"github.com/abhinavyadav-ai/asset-manager/internal/settings"
	"github.com/abhinavyadav-ai/asset-manager/pkg/auth"
	"github.com/abhinavyadav-ai/asset-manager/pkg/config"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
	pkgredis "github.com/abhinavyadav-ai/asset-manager/pkg/redis"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubSessions struct{}

func (stubSessions) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubProducts struct {
	products.Service
}

func (stubProducts) ListActive(ctx context.Context) ([]products.PublicProductDTO, error) {
	return []products.PublicProductDTO{{ID: 1, Name: "Vanilla Dream"}}, nil
}

func (stubProducts) ListAll(ctx context.Context) ([]products.ProductDTO, error) {
	return []products.ProductDTO{}, nil
}

type countingCheckout struct {
	calls int
}

func (c *countingCheckout) FinalizeOrder(ctx context.Context, input checkout.FinalizeInput) (*models.Order, error) {
	c.calls++
	return &models.Order{
		ID:            int64(c.calls),
		OrderNumber:   fmt.Sprintf("LUM-TEST-%04d", c.calls),
		Total:         decimal.NewFromInt(599),
		PaymentMethod: enums.PaymentMethodRazorpay,
		PaymentStatus: enums.PaymentStatusPending,
		Status:        enums.OrderStatusPending,
	}, nil
}

type stubPayments struct {
	payments.Service
}

func (stubPayments) Config() payments.GatewayConfig {
	key := "rzp_test_key"
	return payments.GatewayConfig{Configured: true, KeyID: &key}
}

type stubAuth struct{}

func (stubAuth) Login(ctx context.Context, req adminauth.LoginRequest) (*adminauth.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuth) Logout(ctx context.Context, accessID string) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", CORSOrigins: []string{"*"}},
		JWT: config.JWTConfig{Secret: "router-secret", Issuer: "luxe-test", ExpirationMinutes: 30},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:        time.Minute,
			LoginIPLimit:       2,
			LoginUsernameLimit: 2,
		},
		OrderLimit: config.OrderRateLimitConfig{Window: time.Minute, IPLimit: 5},
	}
}

func newTestRouter(t *testing.T, svc Services) (http.Handler, *config.Config) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := pkgredis.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "router-test", Level: "error", Output: io.Discard})
	infra := Infra{
		DB:       stubPinger{},
		Redis:    stubPinger{},
		Store:    store,
		Sessions: stubSessions{},
	}
	if svc.Auth == nil {
		svc.Auth = stubAuth{}
	}
	return NewRouter(cfg, logg, infra, svc), cfg
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, Services{})

	for _, path := range []string{"/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, rec.Code)
		}
	}
}

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	router, _ := newTestRouter(t, Services{Products: stubProducts{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Vanilla Dream") {
		t.Fatalf("expected product in body, got %s", rec.Body.String())
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	router, cfg := newTestRouter(t, Services{Products: stubProducts{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/products", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}

	token, _, err := auth.MintAccessToken(cfg.JWT, time.Now(), auth.AccessTokenPayload{
		AdminID:  uuid.New(),
		Username: "owner",
		Role:     enums.AdminRoleOwner,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/admin/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestOrderPlacementReplaysIdempotencyKey(t *testing.T) {
	finalizer := &countingCheckout{}
	router, _ := newTestRouter(t, Services{Checkout: finalizer, Payments: stubPayments{}})

	body := `{"customerName":"Ravi","phone":"9876543210","address":"4 MG Road","city":"Pune","state":"Maharashtra","pincode":"411001","items":[{"productId":2,"name":"Rose","quantity":1}],"paymentMethod":"razorpay"}`
	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", "checkout-attempt-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", first.Code, first.Body.String())
	}
	second := send()
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201 got %d", second.Code)
	}
	if finalizer.calls != 1 {
		t.Fatalf("expected a single finalize, got %d", finalizer.calls)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replay body differs:\n%s\n%s", first.Body.String(), second.Body.String())
	}
}

func TestAdminLoginIsRateLimited(t *testing.T) {
	router, _ := newTestRouter(t, Services{})

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/login", strings.NewReader(`{"username":"owner","password":"guess"}`))
		req.Header.Set("Content-Type", "application/json")
		last = httptest.NewRecorder()
		router.ServeHTTP(last, req)
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on third attempt, got %d", last.Code)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

type emptyDeadLetters struct{}

func (emptyDeadLetters) List(context.Context, int) ([]models.OutboxDLQ, error) { return nil, nil }

func (emptyDeadLetters) FindByEventID(context.Context, uuid.UUID) (*models.OutboxDLQ, error) {
	return nil, nil
}

func TestDeadLettersAreOwnerOnly(t *testing.T) {
	router, cfg := newTestRouter(t, Services{DeadLetters: emptyDeadLetters{}})

	for role, want := range map[enums.AdminRole]int{
		enums.AdminRoleAdmin: http.StatusForbidden,
		enums.AdminRoleOwner: http.StatusOK,
	} {
		token, _, err := auth.MintAccessToken(cfg.JWT, time.Now(), auth.AccessTokenPayload{
			AdminID:  uuid.New(),
			Username: "staff",
			Role:     role,
		})
		if err != nil {
			t.Fatalf("mint token: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/api/admin/outbox/dead-letters", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("%s: expected %d got %d: %s", role, want, rec.Code, rec.Body.String())
		}
	}
}

type recordingSettings struct {
	settings.Service
	saved map[string]string
}

func (s *recordingSettings) Set(ctx context.Context, key, value string) (*settings.SettingDTO, error) {
	s.saved[key] = value
	return &settings.SettingDTO{Key: key, Value: value}, nil
}

func TestAdminSettingsAcceptPostAndPut(t *testing.T) {
	store := &recordingSettings{saved: map[string]string{}}
	router, cfg := newTestRouter(t, Services{Settings: store})
	token, _, err := auth.MintAccessToken(cfg.JWT, time.Now(), auth.AccessTokenPayload{
		AdminID:  uuid.New(),
		Username: "owner",
		Role:     enums.AdminRoleOwner,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	for method, value := range map[string]string{http.MethodPost: "true", http.MethodPut: "false"} {
		req := httptest.NewRequest(method, "/api/admin/settings", strings.NewReader(`{"key":"cod_enabled","value":"`+value+`"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d: %s", method, rec.Code, rec.Body.String())
		}
		if store.saved["cod_enabled"] != value {
			t.Fatalf("%s: expected %q saved, got %q", method, value, store.saved["cod_enabled"])
		}
	}
}

type invoiceOrders struct {
	orders.Service
}

func (invoiceOrders) Invoice(ctx context.Context, number string) ([]byte, error) {
	return []byte("<p>Invoice " + number + "</p>"), nil
}

func TestInvoicePageIsPublic(t *testing.T) {
	router, _ := newTestRouter(t, Services{Orders: invoiceOrders{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoice/LUM-ABC-1234", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Invoice LUM-ABC-1234") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
