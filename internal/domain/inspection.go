package domain

import "time"

// InspectionImages references the captured vehicle photos by storage key.
type InspectionImages struct {
	Front string
	Back  string
	Left  string
	Right string
}

// Inspection records a vehicle check. A ticket may not enter work until an
// inspection newer than the ticket exists for its vehicle.
type Inspection struct {
	ID        string
	VehicleID string
	Notes     string
	Images    InspectionImages
	CreatedAt time.Time
}
