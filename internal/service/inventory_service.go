package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/fleet-maintenance/internal/auth"
	"github.com/spec-kit/fleet-maintenance/internal/domain"
	"github.com/spec-kit/fleet-maintenance/internal/repository"
	apperrors "github.com/spec-kit/fleet-maintenance/pkg/util"
)

// InventoryService manages the warehouse spare-parts catalog.
type InventoryService struct {
	spareParts repository.SparePartRepository

	mu           sync.RWMutex
	lastImported time.Time
}

// NewInventoryService constructs the service.
func NewInventoryService(spareParts repository.SparePartRepository) *InventoryService {
	return &InventoryService{spareParts: spareParts}
}

// List returns the full catalog ordered by SAP code.
func (s *InventoryService) List(ctx context.Context) ([]domain.SparePart, error) {
	parts, err := s.spareParts.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return parts, nil
}

// Get fetches a single part.
func (s *InventoryService) Get(ctx context.Context, sapCode string) (*domain.SparePart, error) {
	part, err := s.spareParts.GetBySAPCode(ctx, sapCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("spare part", map[string]any{"sap_code": sapCode})
		}
		return nil, apperrors.MapError(err)
	}
	return part, nil
}

// Create adds a new catalog line.
func (s *InventoryService) Create(ctx context.Context, actor *domain.User, part domain.SparePart) (*domain.SparePart, error) {
	if err := requireCapability(actor, auth.OpManageInventory); err != nil {
		return nil, err
	}
	if err := validateSparePart(&part); err != nil {
		return nil, err
	}
	if _, err := s.spareParts.GetBySAPCode(ctx, part.SAPCode); err == nil {
		return nil, apperrors.NewConflict("spare part already exists", map[string]any{"sap_code": part.SAPCode})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.MapError(err)
	}
	if err := s.spareParts.Create(ctx, &part); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &part, nil
}

// Update replaces a catalog line.
func (s *InventoryService) Update(ctx context.Context, actor *domain.User, part domain.SparePart) (*domain.SparePart, error) {
	if err := requireCapability(actor, auth.OpManageInventory); err != nil {
		return nil, err
	}
	if err := validateSparePart(&part); err != nil {
		return nil, err
	}
	if err := s.spareParts.Update(ctx, &part); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("spare part", map[string]any{"sap_code": part.SAPCode})
		}
		return nil, apperrors.MapError(err)
	}
	return &part, nil
}

// Import replaces the whole catalog with an imported one.
func (s *InventoryService) Import(ctx context.Context, actor *domain.User, parts []domain.SparePart) error {
	if err := requireCapability(actor, auth.OpManageInventory); err != nil {
		return err
	}
	if len(parts) == 0 {
		return apperrors.NewValidationError("import must contain at least one part", nil)
	}
	seen := make(map[string]struct{}, len(parts))
	for i := range parts {
		if err := validateSparePart(&parts[i]); err != nil {
			return err
		}
		if _, dup := seen[parts[i].SAPCode]; dup {
			return apperrors.NewValidationError("duplicate sap_code in import", map[string]any{"sap_code": parts[i].SAPCode})
		}
		seen[parts[i].SAPCode] = struct{}{}
	}
	if err := s.spareParts.ReplaceAll(ctx, parts); err != nil {
		return apperrors.MapError(err)
	}

	s.mu.Lock()
	s.lastImported = time.Now()
	s.mu.Unlock()
	return nil
}

// LastImported reports when the catalog was last replaced by an import.
func (s *InventoryService) LastImported() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastImported
}

func validateSparePart(part *domain.SparePart) error {
	part.SAPCode = strings.TrimSpace(part.SAPCode)
	part.MaterialDescription = strings.TrimSpace(part.MaterialDescription)
	if part.SAPCode == "" || part.MaterialDescription == "" {
		return apperrors.NewValidationError("sap_code and material_description are required", nil)
	}
	if part.BalanceOnSAP < 0 {
		return apperrors.NewValidationError("balance_on_sap must not be negative", map[string]any{"sap_code": part.SAPCode})
	}
	return nil
}
