package service

import (
	"context"
	"testing"

	"github.com/spec-kit/fleet-maintenance/internal/domain"
	"github.com/spec-kit/fleet-maintenance/internal/events"
)

func TestPartsRequestValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.startedTicket(t)

	tests := []struct {
		name  string
		parts map[string]int
	}{
		{"empty request", map[string]int{}},
		{"zero quantity", map[string]int{"OF-002": 0}},
		{"negative quantity", map[string]int{"OF-002": -3}},
		{"blank code", map[string]int{"  ": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.parts.Request(ctx, maintUser, ticket.ID, tt.parts)
			if got := errorCode(t, err); got != "VALIDATION_FAILED" {
				t.Errorf("code = %s, want VALIDATION_FAILED", got)
			}
		})
	}
}

func TestPartsRequestOnlyWhileInProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.createOpenTicket(t)

	_, err := f.parts.Request(ctx, maintUser, ticket.ID, map[string]int{"OF-002": 1})
	if got := errorCode(t, err); got != "INVALID_TRANSITION" {
		t.Errorf("code = %s, want INVALID_TRANSITION", got)
	}
}

func TestPartsHappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.startedTicket(t)

	ticket, err := f.parts.Request(ctx, maintUser, ticket.ID, map[string]int{"OF-002": 2})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if ticket.Status() != domain.TicketStatusAwaitingParts {
		t.Fatalf("status = %s, want AWAITING_PARTS", ticket.Status())
	}
	if ticket.PartRequest.Serial != "REQ-"+ticket.Serial {
		t.Errorf("request serial = %q", ticket.PartRequest.Serial)
	}

	// Finishing work is blocked while the request is unresolved.
	_, err = f.tickets.FinishWork(ctx, maintUser, ticket.ID, "notes")
	if got := errorCode(t, err); got != "INVALID_TRANSITION" {
		t.Fatalf("finish while awaiting parts: code = %s, want INVALID_TRANSITION", got)
	}

	ticket, err = f.parts.Approve(ctx, sparesUser, ticket.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if ticket.Status() != domain.TicketStatusAwaitingWarehouse {
		t.Fatalf("status = %s, want AWAITING_WAREHOUSE", ticket.Status())
	}
	if ticket.PartRequest.AdminResolvedAt == nil {
		t.Error("admin_resolved_at not set")
	}

	ticket, err = f.parts.Issue(ctx, whUser, ticket.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	// Issued parts still await handover.
	if ticket.Status() != domain.TicketStatusAwaitingWarehouse {
		t.Fatalf("status after issue = %s, want AWAITING_WAREHOUSE", ticket.Status())
	}
	part, err := f.store.SpareParts().GetBySAPCode(ctx, "OF-002")
	if err != nil {
		t.Fatalf("get part: %v", err)
	}
	if part.BalanceOnSAP != 48 {
		t.Errorf("balance = %d, want 48", part.BalanceOnSAP)
	}

	ticket, err = f.parts.CompleteHandover(ctx, whUser, ticket.ID)
	if err != nil {
		t.Fatalf("handover: %v", err)
	}
	if ticket.Status() != domain.TicketStatusInProgress {
		t.Fatalf("status after handover = %s, want IN_PROGRESS", ticket.Status())
	}
	if ticket.PartRequest.Status != domain.PartRequestWarehouseCompleted {
		t.Errorf("part request status = %s", ticket.PartRequest.Status)
	}

	// The ticket can now run to completion.
	if _, err := f.tickets.FinishWork(ctx, maintUser, ticket.ID, "installed new filter"); err != nil {
		t.Fatalf("finish: %v", err)
	}
	closed, err := f.tickets.Confirm(ctx, opsUser, ticket.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if closed.Status() != domain.TicketStatusClosed {
		t.Errorf("status = %s, want CLOSED", closed.Status())
	}

	want := []events.EventType{
		events.EventTicketCreated,
		events.EventWorkStarted,
		events.EventPartsRequested,
		events.EventPartRequestApproved,
		events.EventPartsIssued,
		events.EventHandoverCompleted,
		events.EventWorkFinished,
		events.EventTicketConfirmed,
	}
	got := f.eventTypes()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

func TestIssueInsufficientStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.startedTicket(t)

	// ALT-010 has 8 in stock; the batch also asks for OF-002 which is
	// plentiful. One short line aborts the whole issue.
	if _, err := f.parts.Request(ctx, maintUser, ticket.ID, map[string]int{"ALT-010": 10, "OF-002": 1}); err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, err := f.parts.Approve(ctx, sparesUser, ticket.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	_, err := f.parts.Issue(ctx, whUser, ticket.ID)
	if got := errorCode(t, err); got != "INSUFFICIENT_STOCK" {
		t.Fatalf("code = %s, want INSUFFICIENT_STOCK", got)
	}

	// No partial decrement happened.
	for code, want := range map[string]int{"ALT-010": 8, "OF-002": 50} {
		part, err := f.store.SpareParts().GetBySAPCode(ctx, code)
		if err != nil {
			t.Fatalf("get part: %v", err)
		}
		if part.BalanceOnSAP != want {
			t.Errorf("%s balance = %d, want %d", code, part.BalanceOnSAP, want)
		}
	}

	// The request stays approved so the warehouse can retry or reject.
	current, err := f.tickets.Get(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("get ticket: %v", err)
	}
	if current.PartRequest.Status != domain.PartRequestAdminApproved {
		t.Errorf("part request status = %s, want ADMIN_APPROVED", current.PartRequest.Status)
	}
}

func TestRejectThenRerequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.startedTicket(t)

	first, err := f.parts.Request(ctx, maintUser, ticket.ID, map[string]int{"OF-002": 1})
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	// Duplicate submission while one is pending.
	_, err = f.parts.Request(ctx, maintUser, ticket.ID, map[string]int{"OF-002": 1})
	if got := errorCode(t, err); got != "INVALID_TRANSITION" {
		t.Fatalf("duplicate request: code = %s, want INVALID_TRANSITION", got)
	}

	rejected, err := f.parts.Reject(ctx, sparesUser, ticket.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status() != domain.TicketStatusInProgress {
		t.Fatalf("status after reject = %s, want IN_PROGRESS", rejected.Status())
	}

	second, err := f.parts.Request(ctx, maintUser, ticket.ID, map[string]int{"OF-002": 3})
	if err != nil {
		t.Fatalf("re-request: %v", err)
	}
	if second.PartRequest.Status != domain.PartRequestPending {
		t.Errorf("status = %s, want PENDING", second.PartRequest.Status)
	}
	if !second.PartRequest.RequestedAt.After(first.PartRequest.RequestedAt) &&
		!second.PartRequest.RequestedAt.Equal(first.PartRequest.RequestedAt) {
		t.Error("replacement request must not predate the rejected one")
	}
	if second.PartRequest.Parts["OF-002"] != 3 {
		t.Errorf("parts = %v", second.PartRequest.Parts)
	}
}

func TestRejectByWarehouse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.startedTicket(t)

	if _, err := f.parts.Request(ctx, maintUser, ticket.ID, map[string]int{"OF-002": 2}); err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, err := f.parts.Approve(ctx, sparesUser, ticket.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	rejected, err := f.parts.RejectByWarehouse(ctx, whUser, ticket.ID)
	if err != nil {
		t.Fatalf("warehouse reject: %v", err)
	}
	if rejected.Status() != domain.TicketStatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", rejected.Status())
	}
	part, err := f.store.SpareParts().GetBySAPCode(ctx, "OF-002")
	if err != nil {
		t.Fatalf("get part: %v", err)
	}
	if part.BalanceOnSAP != 50 {
		t.Errorf("balance = %d, want untouched 50", part.BalanceOnSAP)
	}
}

func TestMarkNoPartsRequired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.startedTicket(t)

	updated, err := f.parts.MarkNoPartsRequired(ctx, maintUser, ticket.ID)
	if err != nil {
		t.Fatalf("no parts required: %v", err)
	}
	if updated.Status() != domain.TicketStatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", updated.Status())
	}
	if updated.PartRequest.Status != domain.PartRequestNone {
		t.Errorf("part request status = %s, want NONE", updated.PartRequest.Status)
	}
	if len(updated.PartRequest.Parts) != 0 {
		t.Errorf("parts = %v, want empty", updated.PartRequest.Parts)
	}
}

func TestPartsCapabilityGates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.startedTicket(t)

	if _, err := f.parts.Request(ctx, maintUser, ticket.ID, map[string]int{"OF-002": 1}); err != nil {
		t.Fatalf("request: %v", err)
	}

	// Maintenance cannot approve; warehouse cannot approve either.
	for _, actor := range []*domain.User{maintUser, whUser, opsUser} {
		_, err := f.parts.Approve(ctx, actor, ticket.ID)
		if got := errorCode(t, err); got != "FORBIDDEN" {
			t.Errorf("approve as %s: code = %s, want FORBIDDEN", actor.Role, got)
		}
	}

	// Admin bypasses the table.
	if _, err := f.parts.Approve(ctx, adminUser, ticket.ID); err != nil {
		t.Fatalf("approve as admin: %v", err)
	}

	// Spares admin cannot issue.
	_, err := f.parts.Issue(ctx, sparesUser, ticket.ID)
	if got := errorCode(t, err); got != "FORBIDDEN" {
		t.Errorf("issue as spares admin: code = %s, want FORBIDDEN", got)
	}
}
