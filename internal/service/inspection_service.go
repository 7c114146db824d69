package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/fleet-maintenance/internal/auth"
	"github.com/spec-kit/fleet-maintenance/internal/domain"
	"github.com/spec-kit/fleet-maintenance/internal/repository"
	apperrors "github.com/spec-kit/fleet-maintenance/pkg/util"
)

// InspectionService records vehicle inspections and answers freshness checks.
type InspectionService struct {
	inspections repository.InspectionRepository
	vehicles    repository.VehicleRepository
}

// NewInspectionService constructs the service.
func NewInspectionService(inspections repository.InspectionRepository, vehicles repository.VehicleRepository) *InspectionService {
	return &InspectionService{inspections: inspections, vehicles: vehicles}
}

// InspectionInput carries a new inspection record.
type InspectionInput struct {
	VehicleID string
	Notes     string
	Images    domain.InspectionImages
}

// Record stores a new inspection for a vehicle.
func (s *InspectionService) Record(ctx context.Context, actor *domain.User, input InspectionInput) (*domain.Inspection, error) {
	if err := requireCapability(actor, auth.OpRecordInspection); err != nil {
		return nil, err
	}
	input.VehicleID = strings.TrimSpace(input.VehicleID)
	if input.VehicleID == "" {
		return nil, apperrors.NewValidationError("vehicle_id is required", nil)
	}
	if _, err := s.vehicles.GetByID(ctx, input.VehicleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("vehicle", map[string]any{"vehicle_id": input.VehicleID})
		}
		return nil, apperrors.MapError(err)
	}

	inspection := &domain.Inspection{
		ID:        uuid.NewString(),
		VehicleID: input.VehicleID,
		Notes:     strings.TrimSpace(input.Notes),
		Images:    input.Images,
		CreatedAt: time.Now(),
	}
	if err := s.inspections.Create(ctx, inspection); err != nil {
		return nil, apperrors.MapError(err)
	}
	return inspection, nil
}

// ListByVehicle returns recent inspections, newest first.
func (s *InspectionService) ListByVehicle(ctx context.Context, vehicleID string, limit int) ([]domain.Inspection, error) {
	inspections, err := s.inspections.ListByVehicle(ctx, vehicleID, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return inspections, nil
}

// Latest returns the vehicle's most recent inspection, or nil when none exists.
func (s *InspectionService) Latest(ctx context.Context, vehicleID string) (*domain.Inspection, error) {
	inspection, err := s.inspections.LatestByVehicle(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, apperrors.MapError(err)
	}
	return inspection, nil
}
