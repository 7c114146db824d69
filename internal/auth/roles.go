package auth

import "github.com/spec-kit/fleet-maintenance/internal/domain"

// Operation names a role-gated action on the workflow.
type Operation string

const (
	OpCreateTicket           Operation = "create_ticket"
	OpAddHistoricalTicket    Operation = "add_historical_ticket"
	OpAssignTechnicians      Operation = "assign_technicians"
	OpStartWork              Operation = "start_work"
	OpRequestParts           Operation = "request_parts"
	OpNoPartsRequired        Operation = "no_parts_required"
	OpFinishWork             Operation = "finish_work"
	OpConfirmTicket          Operation = "confirm_ticket"
	OpApproveRequest         Operation = "approve_request"
	OpRejectRequest          Operation = "reject_request"
	OpIssueParts             Operation = "issue_parts"
	OpRejectPartsByWarehouse Operation = "reject_parts_by_warehouse"
	OpCompleteHandover       Operation = "complete_handover"
	OpManageInventory        Operation = "manage_inventory"
	OpRecordInspection       Operation = "record_inspection"
	OpManageUsers            Operation = "manage_users"
)

// capabilities is the single source of truth for which role may invoke which
// operation. Admin and SuperAdmin bypass the table entirely.
var capabilities = map[domain.Role][]Operation{
	domain.RoleOperations: {
		OpCreateTicket,
		OpConfirmTicket,
	},
	domain.RoleMaintenance: {
		OpAssignTechnicians,
		OpStartWork,
		OpRequestParts,
		OpNoPartsRequired,
		OpFinishWork,
	},
	domain.RoleSparesAdmin: {
		OpApproveRequest,
		OpRejectRequest,
	},
	domain.RoleWarehouse: {
		OpIssueParts,
		OpRejectPartsByWarehouse,
		OpCompleteHandover,
		OpManageInventory,
	},
	domain.RoleInspection: {
		OpRecordInspection,
	},
}

// CanPerform reports whether role may invoke op.
func CanPerform(role domain.Role, op Operation) bool {
	if role == domain.RoleAdmin || role == domain.RoleSuperAdmin {
		return true
	}
	for _, allowed := range capabilities[role] {
		if allowed == op {
			return true
		}
	}
	return false
}
