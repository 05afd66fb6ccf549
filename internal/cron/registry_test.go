package cron

import (
	"slices"
	"testing"
)

func TestRegistryKeepsOrderAndSkipsNil(t *testing.T) {
	expiry := &testJob{name: "unpaid-order-expiry"}
	retention := &testJob{name: "outbox-retention"}

	registry, err := NewRegistry(expiry, nil, retention)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if got := registry.Names(); !slices.Equal(got, []string{"unpaid-order-expiry", "outbox-retention"}) {
		t.Fatalf("unexpected order %v", got)
	}

	jobs := registry.Jobs()
	jobs[0] = nil
	if registry.Jobs()[0] == nil {
		t.Fatal("Jobs exposed the internal slice")
	}
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	if _, err := NewRegistry(&testJob{name: "outbox-retention"}, &testJob{name: "outbox-retention"}); err == nil {
		t.Fatal("expected duplicate name error")
	}
}
