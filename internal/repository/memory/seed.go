package memory

import (
	"context"
	"time"

	"github.com/spec-kit/fleet-maintenance/internal/domain"
)

// Seed loads the bootstrap catalog: one account per role, the fleet list, and
// the spare-parts inventory. passwordHash is shared by every seeded account.
func (s *Store) Seed(ctx context.Context, passwordHash string) error {
	now := time.Now()

	users := []domain.User{
		{ID: "superadmin01", Name: "Super Admin User", Role: domain.RoleSuperAdmin},
		{ID: "admin01", Name: "Admin User", Role: domain.RoleAdmin},
		{ID: "ops01", Name: "Fleet Operations User", Role: domain.RoleOperations},
		{ID: "maint01", Name: "Maintenance User", Role: domain.RoleMaintenance},
		{ID: "insp01", Name: "Vehicle Inspector User", Role: domain.RoleInspection},
		{ID: "spares01", Name: "Spares Admin User", Role: domain.RoleSparesAdmin},
		{ID: "wh01", Name: "Warehouse User", Role: domain.RoleWarehouse},
	}
	for _, user := range users {
		user.PasswordHash = passwordHash
		user.Active = true
		user.CreatedAt = now
		if err := s.Users().Create(ctx, &user); err != nil {
			return err
		}
	}

	vehicles := []domain.Vehicle{
		{ID: "HD-105", CurrentKilometers: 152345, LastEngineServiceKm: 148000, LastTransmissionServiceKm: 140000},
		{ID: "HD-110", CurrentKilometers: 189731, LastEngineServiceKm: 185000, LastTransmissionServiceKm: 180000},
		{ID: "HD-114", CurrentKilometers: 145889, LastEngineServiceKm: 142000, LastTransmissionServiceKm: 135000},
		{ID: "HD-117", CurrentKilometers: 95480, LastEngineServiceKm: 92000, LastTransmissionServiceKm: 90000},
		{ID: "FB-505", CurrentKilometers: 210112, LastEngineServiceKm: 205000, LastTransmissionServiceKm: 200000},
		{ID: "SL-301", CurrentKilometers: 301255, LastEngineServiceKm: 298000, LastTransmissionServiceKm: 290000},
	}
	for i := range vehicles {
		if err := s.Vehicles().Upsert(ctx, &vehicles[i]); err != nil {
			return err
		}
	}

	parts := []domain.SparePart{
		{Location: "A1-01", SAPCode: "BP-001", MaterialDescription: "Brake Pad Set", DescriptionAr: "طقم تيل فرامل", Dept: "HD Series", UOM: "SET", BalanceOnSAP: 25},
		{Location: "A1-02", SAPCode: "OF-002", MaterialDescription: "Oil Filter", DescriptionAr: "فلتر زيت", Dept: "General", UOM: "PCS", BalanceOnSAP: 50},
		{Location: "B2-05", SAPCode: "ACR-003", MaterialDescription: "AC Refrigerant (Can)", DescriptionAr: "فريون تكييف (علبة)", Dept: "General", UOM: "CAN", BalanceOnSAP: 30},
		{Location: "C3-11", SAPCode: "ACC-004", MaterialDescription: "AC Compressor", DescriptionAr: "كمبروسر تكييف", Dept: "HD Series", UOM: "PCS", BalanceOnSAP: 10},
		{Location: "D1-01", SAPCode: "WSH-005", MaterialDescription: "Windshield (HD Series)", DescriptionAr: "زجاج أمامي (HD)", Dept: "HD Series", UOM: "PCS", BalanceOnSAP: 5},
		{Location: "E2-07", SAPCode: "TR-006", MaterialDescription: "Tire (Standard)", DescriptionAr: "إطار (قياسي)", Dept: "Trailers", UOM: "PCS", BalanceOnSAP: 40},
		{Location: "A1-03", SAPCode: "HLB-007", MaterialDescription: "Headlight Bulb", DescriptionAr: "لمبة أمامية", Dept: "General", UOM: "PCS", BalanceOnSAP: 100},
		{Location: "A1-04", SAPCode: "AF-008", MaterialDescription: "Air Filter", DescriptionAr: "فلتر هواء", Dept: "General", UOM: "PCS", BalanceOnSAP: 60},
		{Location: "B2-06", SAPCode: "WB-009", MaterialDescription: "Wiper Blade Set", DescriptionAr: "طقم مساحات", Dept: "General", UOM: "SET", BalanceOnSAP: 35},
		{Location: "C3-12", SAPCode: "ALT-010", MaterialDescription: "Alternator", DescriptionAr: "دينامو", Dept: "HD Series", UOM: "PCS", BalanceOnSAP: 8},
		{Location: "D1-02", SAPCode: "GS-011", MaterialDescription: "Engine Gasket Set", DescriptionAr: "طقم جوانات محرك", Dept: "HD Series", UOM: "SET", BalanceOnSAP: 15},
		{Location: "E2-08", SAPCode: "FF-012", MaterialDescription: "Fuel Filter", DescriptionAr: "فلتر وقود", Dept: "General", UOM: "PCS", BalanceOnSAP: 75},
	}
	return s.SpareParts().ReplaceAll(ctx, parts)
}
