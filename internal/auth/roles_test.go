package auth

import (
	"testing"

	"github.com/spec-kit/fleet-maintenance/internal/domain"
)

func TestCanPerform(t *testing.T) {
	tests := []struct {
		role domain.Role
		op   Operation
		want bool
	}{
		{domain.RoleOperations, OpCreateTicket, true},
		{domain.RoleOperations, OpConfirmTicket, true},
		{domain.RoleOperations, OpStartWork, false},
		{domain.RoleOperations, OpApproveRequest, false},

		{domain.RoleMaintenance, OpAssignTechnicians, true},
		{domain.RoleMaintenance, OpStartWork, true},
		{domain.RoleMaintenance, OpRequestParts, true},
		{domain.RoleMaintenance, OpNoPartsRequired, true},
		{domain.RoleMaintenance, OpFinishWork, true},
		{domain.RoleMaintenance, OpCreateTicket, false},
		{domain.RoleMaintenance, OpConfirmTicket, false},
		{domain.RoleMaintenance, OpIssueParts, false},

		{domain.RoleSparesAdmin, OpApproveRequest, true},
		{domain.RoleSparesAdmin, OpRejectRequest, true},
		{domain.RoleSparesAdmin, OpIssueParts, false},

		{domain.RoleWarehouse, OpIssueParts, true},
		{domain.RoleWarehouse, OpRejectPartsByWarehouse, true},
		{domain.RoleWarehouse, OpCompleteHandover, true},
		{domain.RoleWarehouse, OpManageInventory, true},
		{domain.RoleWarehouse, OpApproveRequest, false},

		{domain.RoleInspection, OpRecordInspection, true},
		{domain.RoleInspection, OpCreateTicket, false},

		// Admins bypass the table, including operations no role holds.
		{domain.RoleAdmin, OpAddHistoricalTicket, true},
		{domain.RoleAdmin, OpManageUsers, true},
		{domain.RoleSuperAdmin, OpConfirmTicket, true},
		{domain.RoleMaintenance, OpAddHistoricalTicket, false},
	}

	for _, tt := range tests {
		if got := CanPerform(tt.role, tt.op); got != tt.want {
			t.Errorf("CanPerform(%s, %s) = %v, want %v", tt.role, tt.op, got, tt.want)
		}
	}
}
