package api

import (
	"net/http"
	"testing"

	"github.com/abhinavyadav-ai/asset-manager/pkg/config"
)

func TestNewServerDefaultsToConfiguredPort(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Port: "5000"}}
	srv := NewServer(cfg, "", http.NotFoundHandler())
	if srv.Addr != ":5000" {
		t.Fatalf("expected :5000 got %q", srv.Addr)
	}
	if srv.ReadHeaderTimeout == 0 || srv.WriteTimeout == 0 {
		t.Fatal("expected server timeouts to be set")
	}

	srv = NewServer(cfg, ":8080", http.NotFoundHandler())
	if srv.Addr != ":8080" {
		t.Fatalf("expected explicit addr, got %q", srv.Addr)
	}
}
