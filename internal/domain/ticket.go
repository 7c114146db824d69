package domain

import "time"

// TicketStatus enumerates lifecycle states for maintenance tickets.
type TicketStatus string

const (
	TicketStatusOpen                TicketStatus = "OPEN"
	TicketStatusInProgress          TicketStatus = "IN_PROGRESS"
	TicketStatusAwaitingParts       TicketStatus = "AWAITING_PARTS"
	TicketStatusAwaitingWarehouse   TicketStatus = "AWAITING_WAREHOUSE"
	TicketStatusPendingConfirmation TicketStatus = "PENDING_CONFIRMATION"
	TicketStatusClosed              TicketStatus = "CLOSED"
)

// TicketSection enumerates the maintenance sections a ticket is routed to.
type TicketSection string

const (
	SectionMechanical TicketSection = "MECHANICAL"
	SectionSheetMetal TicketSection = "SHEET_METAL"
	SectionTires      TicketSection = "TIRES"
	SectionCleaning   TicketSection = "CLEANING"
)

// ValidSection reports whether s is a known section.
func ValidSection(s TicketSection) bool {
	switch s {
	case SectionMechanical, SectionSheetMetal, SectionTires, SectionCleaning:
		return true
	}
	return false
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
)

// ValidPriority reports whether p is a known priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// HistoricalIssuePrefix marks backdated records imported outside the live workflow.
const HistoricalIssuePrefix = "HISTORICAL: "

// Ticket is the aggregate for vehicle maintenance requests.
//
// Status is not stored: it is derived from the lifecycle timestamps and the
// part-request sub-state, so the two can never drift apart.
type Ticket struct {
	ID            string
	Serial        string
	VehicleID     string
	Issue         string
	ReportedBy    string
	Section       TicketSection
	Priority      TicketPriority
	Kilometers    int
	Location      *string
	AssignedTo    []string
	WorkDoneNotes string
	PartRequest   *PartRequest
	CreatedAt     time.Time
	StartedAt     *time.Time
	ClosedAt      *time.Time
	ConfirmedAt   *time.Time
}

// Status projects the displayed lifecycle state from timestamps and the
// part-request sub-state. Confirmation and work-completion dominate; an
// unresolved part request parks a started ticket in one of the awaiting states.
func (t *Ticket) Status() TicketStatus {
	switch {
	case t.ConfirmedAt != nil:
		return TicketStatusClosed
	case t.ClosedAt != nil:
		return TicketStatusPendingConfirmation
	case t.StartedAt == nil:
		return TicketStatusOpen
	}
	if pr := t.PartRequest; pr != nil {
		switch pr.Status {
		case PartRequestPending:
			return TicketStatusAwaitingParts
		case PartRequestAdminApproved, PartRequestIssued:
			return TicketStatusAwaitingWarehouse
		}
	}
	return TicketStatusInProgress
}

// IsHistorical reports whether the ticket was imported as a backdated record.
func (t *Ticket) IsHistorical() bool {
	return len(t.Issue) >= len(HistoricalIssuePrefix) && t.Issue[:len(HistoricalIssuePrefix)] == HistoricalIssuePrefix
}
