package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/fleet-maintenance/internal/domain"
	"github.com/spec-kit/fleet-maintenance/internal/repository"
)

func TestIssueStockAllOrNothing(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	parts := store.SpareParts()

	for _, part := range []domain.SparePart{
		{SAPCode: "OF-002", MaterialDescription: "Oil Filter", BalanceOnSAP: 50},
		{SAPCode: "ALT-010", MaterialDescription: "Alternator", BalanceOnSAP: 8},
	} {
		p := part
		if err := parts.Create(ctx, &p); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	err := parts.IssueStock(ctx, map[string]int{"OF-002": 2, "ALT-010": 10})
	var stockErr *repository.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}
	if stockErr.SAPCode != "ALT-010" || stockErr.Requested != 10 || stockErr.Available != 8 {
		t.Errorf("stock error = %+v", stockErr)
	}

	// The valid line was not decremented.
	part, err := parts.GetBySAPCode(ctx, "OF-002")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if part.BalanceOnSAP != 50 {
		t.Errorf("balance = %d, want 50", part.BalanceOnSAP)
	}

	// Unknown codes surface as zero availability.
	err = parts.IssueStock(ctx, map[string]int{"GHOST-1": 1})
	if !errors.As(err, &stockErr) || stockErr.Available != 0 {
		t.Errorf("err = %v, want zero-availability stock error", err)
	}

	if err := parts.IssueStock(ctx, map[string]int{"OF-002": 2, "ALT-010": 8}); err != nil {
		t.Fatalf("issue: %v", err)
	}
	part, _ = parts.GetBySAPCode(ctx, "ALT-010")
	if part.BalanceOnSAP != 0 {
		t.Errorf("balance = %d, want 0", part.BalanceOnSAP)
	}
}

func TestStoreClonesTickets(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	tickets := store.Tickets()

	ticket := &domain.Ticket{
		ID:     "t1",
		Serial: "TICKET-20260310-AB12",
		Issue:  "original",
		PartRequest: &domain.PartRequest{
			Serial: "REQ-TICKET-20260310-AB12",
			Parts:  map[string]int{"OF-002": 1},
			Status: domain.PartRequestPending,
		},
	}
	if err := tickets.Create(ctx, ticket); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Mutating the caller's copy must not leak into the store.
	ticket.Issue = "mutated"
	ticket.PartRequest.Parts["OF-002"] = 99

	stored, err := tickets.GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Issue != "original" {
		t.Errorf("issue = %q, want original", stored.Issue)
	}
	if stored.PartRequest.Parts["OF-002"] != 1 {
		t.Errorf("parts = %v, want original quantity", stored.PartRequest.Parts)
	}
}

func TestSeed(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.Seed(ctx, "fake-hash"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	users, err := store.Users().List(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) == 0 {
		t.Fatal("expected seeded users")
	}
	for _, user := range users {
		if user.PasswordHash != "fake-hash" {
			t.Errorf("user %s password hash not applied", user.ID)
		}
	}

	vehicles, err := store.Vehicles().List(ctx)
	if err != nil {
		t.Fatalf("list vehicles: %v", err)
	}
	if len(vehicles) == 0 {
		t.Fatal("expected seeded vehicles")
	}

	parts, err := store.SpareParts().List(ctx)
	if err != nil {
		t.Fatalf("list parts: %v", err)
	}
	if len(parts) == 0 {
		t.Fatal("expected seeded spare parts")
	}
}
