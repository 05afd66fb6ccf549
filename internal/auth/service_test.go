package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/abhinavyadav-ai/asset-manager/pkg/auth"
	"github.com/abhinavyadav-ai/asset-manager/pkg/config"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db/dbtest"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
	"github.com/abhinavyadav-ai/asset-manager/pkg/security"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "luxe-candle", ExpirationMinutes: 30}

func TestLoginMintsTokenAndSession(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	admin := &models.AdminUser{Username: "Priya", PasswordHash: mustHashPassword(t, "wax-and-wick"), Role: enums.AdminRoleOwner}
	if err := repo.Create(context.Background(), admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	sessions := newStubSessions()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := buildTestService(t, repo, sessions, now)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "priya", Password: "wax-and-wick"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := pkgAuth.ParseAccessTokenAt(testJWT, resp.AccessToken, now)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Role != enums.AdminRoleOwner {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if _, ok := sessions.active[claims.ID]; !ok {
		t.Fatalf("expected session %s to be stored", claims.ID)
	}
	if !resp.ExpiresAt.Equal(now.Add(30 * time.Minute)) {
		t.Fatalf("unexpected expiry %s", resp.ExpiresAt)
	}

	stored, err := repo.FindByUsername(context.Background(), "PRIYA")
	if err != nil {
		t.Fatalf("reload admin: %v", err)
	}
	if stored.LastLoginAt == nil || !stored.LastLoginAt.Equal(now) {
		t.Fatalf("expected last login recorded, got %v", stored.LastLoginAt)
	}

	if err := svc.Logout(context.Background(), claims.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := sessions.active[claims.ID]; ok {
		t.Fatal("expected session revoked")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	if err := repo.Create(context.Background(), &models.AdminUser{
		Username: "owner", PasswordHash: mustHashPassword(t, "correct-horse"), Role: enums.AdminRoleAdmin,
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	svc := buildTestService(t, repo, newStubSessions(), time.Now())

	for name, req := range map[string]LoginRequest{
		"wrong password": {Username: "owner", Password: "battery-staple"},
		"unknown user":   {Username: "ghost", Password: "correct-horse"},
		"blank":          {},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), req)
			if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
				t.Fatalf("expected unauthorized, got %v", err)
			}
		})
	}
}

func TestBootstrapOwnerOnlyOnEmptyTable(t *testing.T) {
	conn := dbtest.Open(t)
	params := BootstrapParams{
		DB:    db.Wrap(conn),
		Admin: config.AdminConfig{BootstrapUsername: "owner", BootstrapPassword: "candlelight"},
	}

	created, err := BootstrapOwner(context.Background(), params)
	if err != nil || !created {
		t.Fatalf("expected first bootstrap to create, got created=%v err=%v", created, err)
	}
	created, err = BootstrapOwner(context.Background(), params)
	if err != nil || created {
		t.Fatalf("expected second bootstrap to be a no-op, got created=%v err=%v", created, err)
	}

	admin, err := NewRepository(conn).FindByUsername(context.Background(), "owner")
	if err != nil {
		t.Fatalf("find admin: %v", err)
	}
	if ok, _ := security.VerifyPassword("candlelight", admin.PasswordHash); !ok {
		t.Fatal("bootstrap password does not verify")
	}

	skipped, err := BootstrapOwner(context.Background(), BootstrapParams{DB: db.Wrap(dbtest.Open(t))})
	if err != nil || skipped {
		t.Fatalf("expected no-op without credentials, got %v %v", skipped, err)
	}
}

func buildTestService(t *testing.T, repo *Repository, sessions *stubSessions, now time.Time) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Admins:         repo,
		SessionManager: sessions,
		JWTConfig:      testJWT,
		Now:            func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

type stubSessions struct {
	active map[string]uuid.UUID
}

func newStubSessions() *stubSessions {
	return &stubSessions{active: map[string]uuid.UUID{}}
}

func (s *stubSessions) Create(_ context.Context, accessID string, adminID uuid.UUID) error {
	s.active[accessID] = adminID
	return nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	delete(s.active, accessID)
	return nil
}
