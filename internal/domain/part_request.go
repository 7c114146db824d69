package domain

import "time"

// PartRequestStatus enumerates the spare-parts sub-flow states.
type PartRequestStatus string

const (
	PartRequestPending            PartRequestStatus = "PENDING"
	PartRequestAdminApproved      PartRequestStatus = "ADMIN_APPROVED"
	PartRequestIssued             PartRequestStatus = "ISSUED"
	PartRequestRejected           PartRequestStatus = "REJECTED"
	PartRequestNone               PartRequestStatus = "NONE"
	PartRequestWarehouseCompleted PartRequestStatus = "WAREHOUSE_COMPLETED"
)

// PartRequest is the spare-parts sub-workflow owned by exactly one ticket.
// The parts mapping is fixed at submission; only the status and the
// resolution timestamps change afterwards.
type PartRequest struct {
	Serial               string
	Parts                map[string]int
	Status               PartRequestStatus
	RequestedAt          time.Time
	AdminResolvedAt      *time.Time
	WarehouseResolvedAt  *time.Time
	WarehouseCompletedAt *time.Time
}

// Resolved reports whether the sub-flow reached an end state, returning the
// parent ticket to active work.
func (pr *PartRequest) Resolved() bool {
	switch pr.Status {
	case PartRequestRejected, PartRequestNone, PartRequestWarehouseCompleted:
		return true
	}
	return false
}
