package dto

import "time"

// CreateInspectionRequest payload.
type CreateInspectionRequest struct {
	VehicleID string `json:"vehicle_id"`
	Notes     string `json:"notes"`
	Images    struct {
		Front string `json:"front"`
		Back  string `json:"back"`
		Left  string `json:"left"`
		Right string `json:"right"`
	} `json:"images"`
}

// InspectionResponse response.
type InspectionResponse struct {
	ID        string `json:"id"`
	VehicleID string `json:"vehicle_id"`
	Notes     string `json:"notes,omitempty"`
	Images    struct {
		Front string `json:"front,omitempty"`
		Back  string `json:"back,omitempty"`
		Left  string `json:"left,omitempty"`
		Right string `json:"right,omitempty"`
	} `json:"images"`
	CreatedAt time.Time `json:"created_at"`
}
