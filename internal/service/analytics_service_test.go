package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/fleet-maintenance/internal/domain"
)

func TestReplenishment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	analytics := NewAnalyticsService(f.store.Tickets(), f.store.SpareParts(), 10)

	// Two tickets consume parts this month, one in a prior month, one is
	// still pending approval and must not count.
	issueTicket := func(parts map[string]int, resolvedAt time.Time, status domain.PartRequestStatus) {
		t.Helper()
		ticket := f.startedTicket(t)
		ticket.PartRequest = &domain.PartRequest{
			Serial:              "REQ-" + ticket.Serial,
			Parts:               parts,
			Status:              status,
			RequestedAt:         resolvedAt.Add(-time.Hour),
			WarehouseResolvedAt: &resolvedAt,
		}
		if err := f.store.Tickets().Update(ctx, ticket); err != nil {
			t.Fatalf("update ticket: %v", err)
		}
	}

	march := time.Date(2026, 3, 12, 10, 0, 0, 0, time.Local)
	february := time.Date(2026, 2, 20, 10, 0, 0, 0, time.Local)

	issueTicket(map[string]int{"OF-002": 2}, march, domain.PartRequestIssued)
	issueTicket(map[string]int{"OF-002": 1, "ALT-010": 1}, march, domain.PartRequestWarehouseCompleted)
	issueTicket(map[string]int{"OF-002": 5}, february, domain.PartRequestIssued)

	pending := f.startedTicket(t)
	if _, err := f.parts.Request(ctx, maintUser, pending.ID, map[string]int{"OF-002": 4}); err != nil {
		t.Fatalf("request: %v", err)
	}

	lines, err := analytics.Replenishment(ctx, 2026, time.March)
	if err != nil {
		t.Fatalf("replenishment: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("lines = %+v, want 2", lines)
	}
	// Sorted by SAP code: ALT-010 before OF-002.
	if lines[0].SAPCode != "ALT-010" || lines[0].Consumed != 1 {
		t.Errorf("line[0] = %+v", lines[0])
	}
	if !lines[0].Low {
		t.Error("ALT-010 balance 8 is at or below threshold 10, want low flag")
	}
	if lines[1].SAPCode != "OF-002" || lines[1].Consumed != 3 {
		t.Errorf("line[1] = %+v", lines[1])
	}
	if lines[1].Low {
		t.Error("OF-002 balance 50 must not be flagged low")
	}
}

func TestDashboardCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	analytics := NewAnalyticsService(f.store.Tickets(), f.store.SpareParts(), 10)

	f.createOpenTicket(t)
	started := f.startedTicket(t)
	if _, err := f.parts.Request(ctx, maintUser, started.ID, map[string]int{"OF-002": 1}); err != nil {
		t.Fatalf("request: %v", err)
	}
	finished := f.startedTicket(t)
	if _, err := f.tickets.FinishWork(ctx, maintUser, finished.ID, "done"); err != nil {
		t.Fatalf("finish: %v", err)
	}

	counts, err := analytics.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if counts.Total != 3 {
		t.Errorf("total = %d, want 3", counts.Total)
	}
	if counts.Open != 1 || counts.AwaitingParts != 1 || counts.PendingConfirmation != 1 {
		t.Errorf("counts = %+v", counts)
	}
}

func TestHistoryListsClosedOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	analytics := NewAnalyticsService(f.store.Tickets(), f.store.SpareParts(), 10)

	f.createOpenTicket(t)
	done := f.startedTicket(t)
	if _, err := f.tickets.FinishWork(ctx, maintUser, done.ID, "done"); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if _, err := f.tickets.Confirm(ctx, opsUser, done.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	history, err := analytics.History(ctx, HistoryQuery{VehicleID: "HD-105"})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].ID != done.ID {
		t.Errorf("history = %v", history)
	}

	none, err := analytics.History(ctx, HistoryQuery{Technician: "nobody"})
	if err != nil {
		t.Fatalf("history by technician: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected empty history for unknown technician, got %v", none)
	}
}
