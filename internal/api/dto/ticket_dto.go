package dto

import (
	"time"

	"github.com/spec-kit/fleet-maintenance/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	VehicleID  string                `json:"vehicle_id"`
	Issue      string                `json:"issue"`
	ReportedBy string                `json:"reported_by"`
	Section    domain.TicketSection  `json:"section"`
	Kilometers int                   `json:"kilometers"`
	Priority   domain.TicketPriority `json:"priority"`
	Location   *string               `json:"location,omitempty"`
}

// HistoricalTicketRequest payload for backdated imports.
type HistoricalTicketRequest struct {
	VehicleID     string               `json:"vehicle_id"`
	Issue         string               `json:"issue"`
	WorkDoneNotes string               `json:"work_done_notes"`
	Section       domain.TicketSection `json:"section"`
	Kilometers    int                  `json:"kilometers"`
	RepairedAt    time.Time            `json:"repaired_at"`
}

// AssignTechniciansRequest payload.
type AssignTechniciansRequest struct {
	Technicians []string `json:"technicians"`
}

// FinishWorkRequest payload.
type FinishWorkRequest struct {
	WorkDoneNotes string `json:"work_done_notes"`
}

// RequestPartsRequest maps SAP codes to requested quantities.
type RequestPartsRequest struct {
	Parts map[string]int `json:"parts"`
}

// PartRequestResponse represents the parts sub-flow state.
type PartRequestResponse struct {
	Serial               string                   `json:"serial"`
	Parts                map[string]int           `json:"parts"`
	Status               domain.PartRequestStatus `json:"status"`
	RequestedAt          time.Time                `json:"requested_at"`
	AdminResolvedAt      *time.Time               `json:"admin_resolved_at,omitempty"`
	WarehouseResolvedAt  *time.Time               `json:"warehouse_resolved_at,omitempty"`
	WarehouseCompletedAt *time.Time               `json:"warehouse_completed_at,omitempty"`
}

// TicketResponse provides full ticket info.
type TicketResponse struct {
	ID            string                `json:"id"`
	Serial        string                `json:"serial"`
	VehicleID     string                `json:"vehicle_id"`
	Issue         string                `json:"issue"`
	ReportedBy    string                `json:"reported_by"`
	Section       domain.TicketSection  `json:"section"`
	Priority      domain.TicketPriority `json:"priority"`
	Kilometers    int                   `json:"kilometers"`
	Location      *string               `json:"location,omitempty"`
	AssignedTo    []string              `json:"assigned_to"`
	WorkDoneNotes string                `json:"work_done_notes,omitempty"`
	Status        domain.TicketStatus   `json:"status"`
	Historical    bool                  `json:"historical"`
	PartRequest   *PartRequestResponse  `json:"part_request,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	StartedAt     *time.Time            `json:"started_at,omitempty"`
	ClosedAt      *time.Time            `json:"closed_at,omitempty"`
	ConfirmedAt   *time.Time            `json:"confirmed_at,omitempty"`
}
