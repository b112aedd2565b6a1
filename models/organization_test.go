package models

import (
	"context"
	"testing"

	"github.com/mmdatafocus/donations_backend/appctx"
)

func TestIsMigratedOrganization_UsesContextSeed(t *testing.T) {
	// A seeded flag must short-circuit before any store lookup; neither DB
	// nor redis is configured in this test.
	for _, migrated := range []bool{true, false} {
		ctx := appctx.Set(context.Background(), appctx.ContextKeyOrganizationMigrated, migrated)
		got, err := IsMigratedOrganization(ctx, "org-1")
		if err != nil {
			t.Fatalf("seeded lookup errored: %v", err)
		}
		if got != migrated {
			t.Fatalf("got %v, want the seeded %v", got, migrated)
		}
	}
}

func TestInvalidateOrganizationCache_NoRedisIsNoop(t *testing.T) {
	if err := InvalidateOrganizationCache("org-1"); err != nil {
		t.Fatalf("expected no-op without redis, got %v", err)
	}
}

func TestOrganizationSymbol_DefaultsToKyats(t *testing.T) {
	if got := (&Organization{}).Symbol(); got != "Ks" {
		t.Fatalf("default symbol = %q, want Ks", got)
	}
	if got := (&Organization{CurrencySymbol: "$"}).Symbol(); got != "$" {
		t.Fatalf("symbol = %q, want $", got)
	}
}
