package env

import "testing"

func TestGetOrder(t *testing.T) {
	t.Setenv("LUXE_PORT", "")
	t.Setenv("PORT", "9090")
	if got := Get("8080", "LUXE_PORT", "PORT"); got != "9090" {
		t.Fatalf("expected 9090, got %q", got)
	}
	t.Setenv("LUXE_PORT", "7070")
	if got := Get("8080", "LUXE_PORT", "PORT"); got != "7070" {
		t.Fatalf("expected 7070, got %q", got)
	}
}

func TestGetFallback(t *testing.T) {
	t.Setenv("PORT", "")
	if got := Get("8080", "PORT"); got != "8080" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
