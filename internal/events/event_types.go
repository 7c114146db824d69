package events

import (
	"time"

	"github.com/spec-kit/fleet-maintenance/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated            EventType = "ticket_created"
	EventWorkStarted              EventType = "work_started"
	EventWorkFinished             EventType = "work_finished"
	EventTicketConfirmed          EventType = "ticket_confirmed"
	EventTechniciansAssigned      EventType = "technicians_assigned"
	EventPartsRequested           EventType = "parts_requested"
	EventPartRequestApproved      EventType = "part_request_approved"
	EventPartRequestRejected      EventType = "part_request_rejected"
	EventPartsIssued              EventType = "parts_issued"
	EventPartsRejectedByWarehouse EventType = "parts_rejected_by_warehouse"
	EventHandoverCompleted        EventType = "handover_completed"
)

// Actor identifies the user behind an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by the lifecycle engine.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	TicketID     string      `json:"ticket_id"`
	TicketSerial string      `json:"ticket_serial"`
	VehicleID    string      `json:"vehicle_id"`
	Actor        Actor       `json:"actor"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload,omitempty"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Section  domain.TicketSection  `json:"section"`
	Priority domain.TicketPriority `json:"priority"`
	Issue    string                `json:"issue"`
}

// PartsRequestedPayload payload.
type PartsRequestedPayload struct {
	RequestSerial string         `json:"request_serial"`
	Parts         map[string]int `json:"parts"`
}

// PartRequestResolvedPayload carries the sub-flow state after an approval,
// rejection, issue, or handover.
type PartRequestResolvedPayload struct {
	RequestSerial string                   `json:"request_serial"`
	Status        domain.PartRequestStatus `json:"status"`
}

// WorkFinishedPayload payload.
type WorkFinishedPayload struct {
	WorkDoneNotes string `json:"work_done_notes"`
}

// TechniciansAssignedPayload payload.
type TechniciansAssignedPayload struct {
	Technicians []string `json:"technicians"`
}
