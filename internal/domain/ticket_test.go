package domain

import (
	"testing"
	"time"
)

func ts(offset time.Duration) *time.Time {
	t := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC).Add(offset)
	return &t
}

func TestTicketStatusProjection(t *testing.T) {
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		ticket Ticket
		want   TicketStatus
	}{
		{
			name:   "new ticket is open",
			ticket: Ticket{CreatedAt: base},
			want:   TicketStatusOpen,
		},
		{
			name:   "started ticket is in progress",
			ticket: Ticket{CreatedAt: base, StartedAt: ts(0)},
			want:   TicketStatusInProgress,
		},
		{
			name: "pending part request parks ticket awaiting parts",
			ticket: Ticket{
				CreatedAt:   base,
				StartedAt:   ts(0),
				PartRequest: &PartRequest{Status: PartRequestPending},
			},
			want: TicketStatusAwaitingParts,
		},
		{
			name: "approved part request moves to awaiting warehouse",
			ticket: Ticket{
				CreatedAt:   base,
				StartedAt:   ts(0),
				PartRequest: &PartRequest{Status: PartRequestAdminApproved},
			},
			want: TicketStatusAwaitingWarehouse,
		},
		{
			name: "issued parts still await warehouse handover",
			ticket: Ticket{
				CreatedAt:   base,
				StartedAt:   ts(0),
				PartRequest: &PartRequest{Status: PartRequestIssued},
			},
			want: TicketStatusAwaitingWarehouse,
		},
		{
			name: "completed handover returns ticket to in progress",
			ticket: Ticket{
				CreatedAt:   base,
				StartedAt:   ts(0),
				PartRequest: &PartRequest{Status: PartRequestWarehouseCompleted},
			},
			want: TicketStatusInProgress,
		},
		{
			name: "rejected part request returns ticket to in progress",
			ticket: Ticket{
				CreatedAt:   base,
				StartedAt:   ts(0),
				PartRequest: &PartRequest{Status: PartRequestRejected},
			},
			want: TicketStatusInProgress,
		},
		{
			name: "no-parts marker keeps ticket in progress",
			ticket: Ticket{
				CreatedAt:   base,
				StartedAt:   ts(0),
				PartRequest: &PartRequest{Status: PartRequestNone},
			},
			want: TicketStatusInProgress,
		},
		{
			name:   "finished work pends confirmation",
			ticket: Ticket{CreatedAt: base, StartedAt: ts(0), ClosedAt: ts(time.Hour)},
			want:   TicketStatusPendingConfirmation,
		},
		{
			name: "pending part request loses to closed_at",
			ticket: Ticket{
				CreatedAt:   base,
				StartedAt:   ts(0),
				ClosedAt:    ts(time.Hour),
				PartRequest: &PartRequest{Status: PartRequestPending},
			},
			want: TicketStatusPendingConfirmation,
		},
		{
			name: "confirmed ticket is closed",
			ticket: Ticket{
				CreatedAt:   base,
				StartedAt:   ts(0),
				ClosedAt:    ts(time.Hour),
				ConfirmedAt: ts(2 * time.Hour),
			},
			want: TicketStatusClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ticket.Status(); got != tt.want {
				t.Fatalf("Status() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIsHistorical(t *testing.T) {
	historical := Ticket{Issue: HistoricalIssuePrefix + "gearbox overhaul"}
	if !historical.IsHistorical() {
		t.Fatal("expected prefixed issue to be historical")
	}
	live := Ticket{Issue: "gearbox overhaul"}
	if live.IsHistorical() {
		t.Fatal("expected unprefixed issue to not be historical")
	}
}
