package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abhinavyadav-ai/asset-manager/api/middleware"
	"github.com/abhinavyadav-ai/asset-manager/internal/auth"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
)

type stubAuth struct {
	login   auth.LoginRequest
	revoked string
	err     error
}

func (s *stubAuth) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.login = req
	if s.err != nil {
		return nil, s.err
	}
	return &auth.LoginResponse{AccessToken: "token"}, nil
}

func (s *stubAuth) Logout(ctx context.Context, accessID string) error {
	s.revoked = accessID
	return nil
}

func TestAdminLogin(t *testing.T) {
	svc := &stubAuth{}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/login", strings.NewReader(`{"username":"owner","password":"candles4ever"}`))
	rec := httptest.NewRecorder()
	AdminLogin(svc, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.login.Username != "owner" {
		t.Fatalf("unexpected login %+v", svc.login)
	}

	svc.err = pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid credentials")
	req = httptest.NewRequest(http.MethodPost, "/api/admin/auth/login", strings.NewReader(`{"username":"owner","password":"nope"}`))
	rec = httptest.NewRecorder()
	AdminLogin(svc, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/admin/auth/login", strings.NewReader(`{"username":"owner"}`))
	rec = httptest.NewRecorder()
	AdminLogin(svc, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password got %d", rec.Code)
	}
}

func TestAdminLogoutRevokesCallerSession(t *testing.T) {
	svc := &stubAuth{}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/logout", nil)
	req = req.WithContext(middleware.WithSessionID(req.Context(), "jti-123"))
	rec := httptest.NewRecorder()
	AdminLogout(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rec.Code)
	}
	if svc.revoked != "jti-123" {
		t.Fatalf("expected session jti-123 revoked, got %q", svc.revoked)
	}

	rec = httptest.NewRecorder()
	AdminLogout(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/auth/logout", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session got %d", rec.Code)
	}
}
